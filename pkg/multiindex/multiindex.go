// Package multiindex implements the ordered multi-dictionary view used to
// check identifiers against several word-indexes at once, and to suggest a
// correction for a word none of them recognize.
//
// Grounded on the reference implementation's MultiTrie
// (_examples/original_source/src/multi_trie.rs), carried over to this
// repo's wordindex.WordIndex representation.
package multiindex

import (
	"strings"
	"unicode"

	"github.com/csc-dev/codespell/internal/utils"
	"github.com/csc-dev/codespell/pkg/editdist"
	"github.com/csc-dev/codespell/pkg/wordindex"
)

// FuzzyBudget is the edit distance explored when generating suggestions.
// Kept as a named constant per the open question on how
// aggressively to search for a correction.
const FuzzyBudget = 1

// SuggestionThreshold is the minimum normalized similarity a fuzzy
// candidate must reach before it is offered as a suggestion.
const SuggestionThreshold = 0.7

// MultiIndex holds an ordered list of word-indexes. Contains short-circuits
// on the first index that allows a word: a Disallow entry is local to the
// word-index that declared it and never vetoes another index's Allow for
// the same word.
type MultiIndex struct {
	indexes []*wordindex.WordIndex
}

// New builds a MultiIndex over the given word-indexes, in priority order.
func New(indexes ...*wordindex.WordIndex) *MultiIndex {
	return &MultiIndex{indexes: indexes}
}

// Contains reports whether any member word-index allows word.
func (mi *MultiIndex) Contains(word string) bool {
	for _, wi := range mi.indexes {
		if wi.Contains(word) {
			return true
		}
	}
	return false
}

// splitSegments breaks an identifier into letter-runs and digit-runs,
// treating every other rune (punctuation, symbols, underscores) as a
// separator that is dropped rather than kept as its own segment.
func splitSegments(token string) []string {
	var segments []string
	var cur strings.Builder
	var curIsDigit bool
	flush := func() {
		if cur.Len() > 0 {
			segments = append(segments, cur.String())
			cur.Reset()
		}
	}
	first := true
	for _, r := range token {
		switch {
		case unicode.IsLetter(r):
			if !first && curIsDigit {
				flush()
			}
			curIsDigit = false
			cur.WriteRune(r)
		case unicode.IsDigit(r):
			if !first && !curIsDigit {
				flush()
			}
			curIsDigit = true
			cur.WriteRune(r)
		default:
			flush()
		}
		first = false
	}
	flush()
	return segments
}

// splitCamel splits a segment at each transition from a lowercase (or
// digit) run into an uppercase letter, the standard camelCase/PascalCase
// word boundary rule.
func splitCamel(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	var segs []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			segs = append(segs, string(runes[start:i]))
			start = i
		}
	}
	segs = append(segs, string(runes[start:]))
	return segs
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// HandleIdentifier splits token into segments and checks each against the
// multi-index. Segments of length <= 3 are ignored entirely (too short to
// usefully classify). A segment is accepted if its lowercase form is
// contained, or it is entirely digits, or every sub-segment produced by
// splitting it on capital-letter boundaries is individually contained.
// The first segment that fails every check is returned as the suspicious
// word; if every segment passes, ok is false.
func (mi *MultiIndex) HandleIdentifier(token string) (suspicious string, ok bool) {
	for _, seg := range splitSegments(token) {
		if len(seg) <= 3 {
			continue
		}
		lower := strings.ToLower(seg)
		if isAllDigits(seg) {
			continue
		}
		if mi.Contains(lower) {
			continue
		}

		allSubPartsKnown := true
		for _, sub := range splitCamel(seg) {
			if len(sub) == 0 {
				continue
			}
			if !mi.Contains(strings.ToLower(sub)) {
				allSubPartsKnown = false
				break
			}
		}
		if allSubPartsKnown {
			continue
		}
		return seg, true
	}
	return "", false
}

// Suggestion queries every member word-index for candidates within
// FuzzyBudget edits of word, ranks them by normalized Damerau-Levenshtein
// similarity, and returns the best candidate if its similarity exceeds
// SuggestionThreshold.
func (mi *MultiIndex) Suggestion(word string) (best string, ok bool) {
	seen := utils.NewSuggestionFilter(word)
	bestScore := 0.0
	for _, wi := range mi.indexes {
		for _, candidate := range wi.Fuzzy(word, FuzzyBudget) {
			if !seen.ShouldInclude(candidate) {
				continue
			}
			score := editdist.Similarity(word, candidate)
			if score > bestScore {
				bestScore = score
				best = candidate
			}
		}
	}
	if bestScore > SuggestionThreshold {
		return best, true
	}
	return "", false
}
