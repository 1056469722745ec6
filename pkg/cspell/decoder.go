// Package cspell decodes the CSpell project's TrieXv3/v4 textual trie
// format into a lexicographically-ordered allow-word list.
//
// The decoder is a direct port of the reference implementation's body state
// machine (_examples/original_source/src/cspell/trie/v4/mod.rs and
// constants.rs), expressed as a small arena of nodes addressed by integer
// handle rather than a pointer graph, matching that file's own
// Vec<Node>-with-handles design.
package cspell

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	eowChar = '$'
	backCh  = '<'
	refCh   = '#'
	eorCh   = ';'
	escCh   = '\\'
)

type node struct {
	children map[rune]int
	eow      bool
}

func newNode() node {
	return node{children: make(map[rune]int)}
}

type state int

const (
	stateInWord state = iota
	stateEscape
	stateRemove
	stateAbsoluteReference
)

// decoder holds the arena and cursor stack while the body is being parsed.
//
// refIndex is a second, compacting view over the arena used only to resolve
// AbsoluteReference numbers. It mirrors the reference encoder's own node
// list: every freshly descended node is appended to it, but a node's slot is
// reclaimed (popped back off) the moment it turns out not to need one — when
// an end-of-word mark lands on a childless node (it collapses to a shared
// leaf), and when a node is about to be aliased away by a reference. Without
// this compaction, reference numbers in the file would not line up with our
// arena indices at all, since the reference encoder never assigns a slot to
// a node it didn't end up needing.
type decoder struct {
	arena    []node
	pos      []int  // stack of node indices; top is current node
	keys     []rune // edge key leading from pos[i] to pos[i+1]; one shorter than pos
	refIndex []int  // compacted node list addressed by AbsoluteReference numbers
	base     int
	refAc    strings.Builder
}

func newDecoder(base int) *decoder {
	return &decoder{
		arena:    []node{newNode()},
		pos:      []int{0},
		refIndex: []int{0},
		base:     base,
	}
}

func (d *decoder) current() int {
	return d.pos[len(d.pos)-1]
}

func (d *decoder) pop() error {
	if len(d.pos) <= 1 {
		return fmt.Errorf("cspell: pop on empty position stack")
	}
	d.pos = d.pos[:len(d.pos)-1]
	d.keys = d.keys[:len(d.keys)-1]
	return nil
}

func (d *decoder) descend(c rune) int {
	cur := d.current()
	if idx, ok := d.arena[cur].children[c]; ok {
		d.pos = append(d.pos, idx)
		d.keys = append(d.keys, c)
		return idx
	}
	idx := len(d.arena)
	d.arena = append(d.arena, newNode())
	d.arena[cur].children[c] = idx
	d.pos = append(d.pos, idx)
	d.keys = append(d.keys, c)
	d.refIndex = append(d.refIndex, idx)
	return idx
}

// processInWord applies the InWord dispatch table for a single rune and
// returns the resulting state. Shared between the top-level InWord case and
// Remove's "non-digit pops one then re-dispatches" rule.
func (d *decoder) processInWord(c rune) state {
	switch c {
	case escCh:
		return stateEscape
	case eowChar:
		cur := d.current()
		d.arena[cur].eow = true
		if len(d.arena[cur].children) == 0 {
			d.reclaimRef()
		}
		return stateRemove
	case backCh:
		return stateRemove
	case refCh:
		d.refAc.Reset()
		d.reclaimRef()
		return stateAbsoluteReference
	default:
		d.descend(c)
		return stateInWord
	}
}

// reclaimRef pops the most recently assigned reference-index slot, used when
// that slot's node turns out not to need one of its own (see decoder doc
// comment).
func (d *decoder) reclaimRef() {
	if len(d.refIndex) > 1 {
		d.refIndex = d.refIndex[:len(d.refIndex)-1]
	}
}

// resolveReference aliases the existing subtree into the current edge: it
// does not grow the cursor stack. Instead it looks up the referenced node
// through refIndex and rewrites the parent's edge (the one that led to the
// current, now-discarded node) to point at that shared subtree. pos and keys
// are left untouched, so the following Remove pops walk back up through the
// same depth they would have without the reference ever happening.
func (d *decoder) resolveReference() error {
	txt := d.refAc.String()
	d.refAc.Reset()
	r64, err := strconv.ParseInt(txt, d.base, 64)
	if err != nil {
		return fmt.Errorf("cspell: invalid absolute reference %q: %w", txt, err)
	}
	r := int(r64)
	if r < 0 || r >= len(d.refIndex) {
		return fmt.Errorf("cspell: absolute reference %d out of range", r)
	}
	target := d.refIndex[r]
	if len(d.pos) < 2 {
		return fmt.Errorf("cspell: absolute reference at root has no edge to alias")
	}
	parent := d.pos[len(d.pos)-2]
	key := d.keys[len(d.keys)-1]
	d.arena[parent].children[key] = target
	return nil
}

func (d *decoder) run(body []byte) error {
	st := stateInWord
	for _, c := range string(body) {
		if c == '\n' || c == '\r' {
			continue
		}
		switch st {
		case stateInWord:
			st = d.processInWord(c)

		case stateEscape:
			d.descend(c)
			st = stateInWord

		case stateRemove:
			if c >= '0' && c <= '9' {
				if c == '1' {
					return fmt.Errorf("cspell: digit 1 is not a valid Remove repeat count")
				}
				count := int(c-'0') - 1
				for i := 0; i < count; i++ {
					if err := d.pop(); err != nil {
						return err
					}
				}
				st = stateRemove
				continue
			}
			if err := d.pop(); err != nil {
				return err
			}
			st = d.processInWord(c)

		case stateAbsoluteReference:
			if c == eorCh {
				if err := d.resolveReference(); err != nil {
					return err
				}
				st = stateInWord
				continue
			}
			d.refAc.WriteRune(c)
		}
	}
	return nil
}

// Decode parses a TrieXv3/v4 textual trie (optionally gzip-compressed) and
// returns every allow-word encoded by it, in lexicographic order. v3 and v4
// sources decode identically; the only header difference between them
// (the "TrieXv<n>" tag) is recognized but otherwise ignored.
func Decode(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cspell: reading source: %w", err)
	}
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("cspell: gzip header: %w", err)
		}
		defer gr.Close()
		data, err = io.ReadAll(gr)
		if err != nil {
			return nil, fmt.Errorf("cspell: gunzip: %w", err)
		}
	}

	header, body, err := splitSentinel(data)
	if err != nil {
		return nil, err
	}
	base := parseHeader(header)

	d := newDecoder(base)
	if err := d.run(body); err != nil {
		return nil, err
	}

	return dfsAllowWords(d.arena), nil
}

const sentinel = "__DATA__"

func splitSentinel(data []byte) (header, body []byte, err error) {
	idx := bytes.Index(data, []byte(sentinel))
	if idx < 0 {
		return nil, nil, fmt.Errorf("cspell: missing %s sentinel", sentinel)
	}
	header = data[:idx]
	bodyStart := idx + len(sentinel)
	for bodyStart < len(data) && data[bodyStart] != '\n' {
		bodyStart++
	}
	if bodyStart < len(data) {
		bodyStart++
	}
	return header, data[bodyStart:], nil
}

// parseHeader scans header lines for a "base=<n>" key, ignoring "#"
// comments and the "TrieXv<n>" format tag. Defaults to base 10 when absent.
func parseHeader(header []byte) int {
	base := 10
	for _, line := range strings.Split(string(header), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "TrieXv") {
			continue
		}
		if strings.HasPrefix(line, "base=") {
			if n, err := strconv.Atoi(strings.TrimPrefix(line, "base=")); err == nil {
				base = n
			}
		}
	}
	return base
}

func dfsAllowWords(arena []node) []string {
	var words []string
	var walk func(idx int, prefix []rune)
	walk = func(idx int, prefix []rune) {
		n := arena[idx]
		if n.eow {
			words = append(words, string(prefix))
		}
		children := make([]rune, 0, len(n.children))
		for c := range n.children {
			children = append(children, c)
		}
		sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
		for _, c := range children {
			walk(n.children[c], append(prefix, c))
		}
	}
	walk(0, nil)
	sort.Strings(words)
	return words
}
