// Package wordindex implements the immutable allow-word set (word-index)
// that every dictionary ultimately compiles down to.
//
// Internal storage is a github.com/tchap/go-patricia/v2/patricia radix
// trie. A radix tree is an explicitly acceptable alternative to an FST for
// this representation.
package wordindex

import (
	"compress/gzip"
	"io"
	"os"
	"sort"

	"github.com/csc-dev/codespell/pkg/editdist"
	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"
)

// Options carries the per-index behavior flags a dictionary's Command rules
// can set: case sensitivity and cache eligibility.
type Options struct {
	CaseSensitive bool `msgpack:"case_sensitive"`
	Cache         bool `msgpack:"cache"`
}

type status uint8

const (
	statusAllow status = iota + 1
	statusDisallow
)

// WordIndex is an immutable (after Freeze) set of allow-words, queryable for
// membership, lexicographic iteration, and bounded fuzzy matches.
type WordIndex struct {
	trie    *patricia.Trie
	options Options
	frozen  bool
}

// New creates an empty, mutable WordIndex. Call Allow/Disallow to populate it and
// Freeze before querying it from multiple goroutines.
func New(options Options) *WordIndex {
	return &WordIndex{trie: patricia.NewTrie(), options: options}
}

func (wi *WordIndex) key(word string) string {
	if wi.options.CaseSensitive {
		return word
	}
	return foldLower(word)
}

// Allow marks word as a member of the set. A later Disallow for the same
// word always wins, matching the rule-compiler's conflict policy.
func (wi *WordIndex) Allow(word string) {
	wi.set(word, statusAllow)
}

// Disallow removes word from the set, and keeps it removed even if an
// earlier rule allowed it.
func (wi *WordIndex) Disallow(word string) {
	wi.set(word, statusDisallow)
}

func (wi *WordIndex) set(word string, s status) {
	if word == "" {
		return
	}
	k := patricia.Prefix(wi.key(word))
	if s == statusDisallow {
		wi.trie.Set(k, statusDisallow)
		return
	}
	// Disallow wins on conflict: don't overwrite an existing disallow entry.
	if item := wi.trie.Get(k); item != nil && item.(status) == statusDisallow {
		return
	}
	wi.trie.Set(k, statusAllow)
}

// Freeze is a no-op marker retained for API clarity; WordIndex has no
// additional invariants to enforce at freeze time today.
func (wi *WordIndex) Freeze() { wi.frozen = true }

// Options returns the index's case-sensitivity/cache settings.
func (wi *WordIndex) Options() Options { return wi.options }

// Contains reports whether word is an allowed member of the set.
func (wi *WordIndex) Contains(word string) bool {
	item := wi.trie.Get(patricia.Prefix(wi.key(word)))
	if item == nil {
		return false
	}
	return item.(status) == statusAllow
}

// Iter returns every allowed word in lexicographic order. The underlying
// trie's traversal order is not contractually sorted, so this sorts
// explicitly rather than relying on insertion or visit order.
func (wi *WordIndex) Iter() []string {
	words := make([]string, 0, 64)
	wi.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		if item.(status) == statusAllow {
			words = append(words, string(prefix))
		}
		return nil
	})
	sort.Strings(words)
	return words
}

// Fuzzy returns every allowed word within edit distance e of word, sorted
// lexicographically. This is a linear scan over the allow-set bounded by an
// early length-difference check; acceptable at the word-list scale this
// package targets rather than the automaton-optimal approach the representation
// guidance describes as ideal.
func (wi *WordIndex) Fuzzy(word string, e int) []string {
	var results []string
	for _, w := range wi.Iter() {
		if diffAbs(len(w), len(word)) > e {
			continue
		}
		if editdist.Bounded(w, word, e) <= e {
			results = append(results, w)
		}
	}
	return results
}

func diffAbs(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

type dumpRecord struct {
	Word   string `msgpack:"w"`
	Status uint8  `msgpack:"s"`
}

type dumpEnvelope struct {
	Options Options      `msgpack:"options"`
	Entries []dumpRecord `msgpack:"entries"`
}

// Dump serializes the index (allow and disallow entries, plus options) to
// msgpack bytes.
func (wi *WordIndex) Dump() ([]byte, error) {
	env := dumpEnvelope{Options: wi.options}
	wi.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		env.Entries = append(env.Entries, dumpRecord{
			Word:   string(prefix),
			Status: uint8(item.(status)),
		})
		return nil
	})
	return msgpack.Marshal(&env)
}

// Load deserializes a WordIndex previously produced by Dump.
func Load(data []byte) (*WordIndex, error) {
	var env dumpEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	wi := New(env.Options)
	for _, rec := range env.Entries {
		wi.trie.Set(patricia.Prefix(rec.Word), status(rec.Status))
	}
	return wi, nil
}

// DumpToFile writes the index to path, gzip-compressed when path ends in
// ".gz" (mirroring the transparent-gzip convention C3 requires for trie
// sources).
func (wi *WordIndex) DumpToFile(path string) error {
	data, err := wi.Dump()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if isGzipPath(path) {
		gw := gzip.NewWriter(f)
		if _, err := gw.Write(data); err != nil {
			return err
		}
		return gw.Close()
	}
	_, err = f.Write(data)
	return err
}

// LoadFromFile reads a WordIndex previously written by DumpToFile,
// transparently gunzipping when path ends in ".gz".
func LoadFromFile(path string) (*WordIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if isGzipPath(path) {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func isGzipPath(path string) bool {
	return len(path) >= 3 && path[len(path)-3:] == ".gz"
}

func foldLower(s string) string {
	b := []byte(s)
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + ('a' - 'A')
		} else {
			out[i] = c
		}
	}
	return string(out)
}
