// Package analyzer walks a parsed syntax tree (or, absent a grammar, raw
// source lines) looking for identifier-bearing text that the configured
// multi-index does not recognize, and reports each finding as a Typo.
//
// Grounded on the reference implementation's handle_node AST walk
// (_examples/original_source/src/main.rs) combined with an
// identifier-splitting approach modeled on kortschak-gospel's word scanner
// for the ASCII-whitespace tokenization step.
package analyzer

import (
	"bufio"
	"strings"

	"github.com/csc-dev/codespell/internal/utils"
	"github.com/csc-dev/codespell/pkg/grammar"
	"github.com/csc-dev/codespell/pkg/multiindex"
)

// Typo is one reported misspelling.
type Typo struct {
	Line       int    // 1-based
	Column     int    // 1-based
	Length     int    // rune length of Word
	Word       string // the suspicious sub-word the multi-index rejected
	Suggestion string // empty when no confident suggestion was found
	Source     string // the full whitespace-delimited token Word was found in
}

type tokenPos struct {
	text   string
	row    int
	column int
}

// scanTokens splits text on ASCII whitespace, tracking each token's
// 0-based (row, column) position relative to (startRow, startCol).
func scanTokens(text string, startRow, startCol int) []tokenPos {
	var tokens []tokenPos
	row, col := startRow, startCol
	tokenStartRow, tokenStartCol := row, col
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, tokenPos{text: cur.String(), row: tokenStartRow, column: tokenStartCol})
			cur.Reset()
		}
	}

	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\r' {
			flush()
			col++
			continue
		}
		if r == '\n' {
			flush()
			row++
			col = 0
			continue
		}
		if cur.Len() == 0 {
			tokenStartRow, tokenStartCol = row, col
		}
		cur.WriteRune(r)
		col++
	}
	flush()
	return tokens
}

// typoFromSource checks source (one whitespace-delimited token) against mi
// and, on a hit, builds a Typo at the given 1-based (line, column). Length
// is the rune length of the suspicious sub-word itself, not of source.
func typoFromSource(source string, line, column int, mi *multiindex.MultiIndex) (Typo, bool) {
	word, ok := mi.HandleIdentifier(source)
	if !ok {
		return Typo{}, false
	}
	t := Typo{
		Line:   line,
		Column: column,
		Length: len([]rune(word)),
		Word:   word,
		Source: source,
	}
	if suggestion, ok := mi.Suggestion(word); ok {
		_, capitals := utils.GetCapitalDetails(word)
		t.Suggestion = utils.CapitalizeAtPositions(suggestion, capitals)
	}
	return t, true
}

// Analyze walks every named leaf node of tree, tokenizes its text on ASCII
// whitespace, and checks each token against mi. Every typo found within one
// leaf is reported at that leaf's own start position — the grammar node, not
// the individual whitespace-delimited word, is what carries a source
// location in the underlying tree. Adjacent duplicate (Word, Line, Column)
// findings are collapsed to one.
func Analyze(tree grammar.Tree, mi *multiindex.MultiIndex) []Typo {
	if tree == nil {
		return nil
	}
	var typos []Typo
	var walk func(n grammar.Node)
	walk = func(n grammar.Node) {
		children := n.Children()
		if len(children) == 0 && n.IsNamed() {
			pos := n.StartPosition()
			for _, word := range strings.Fields(string(n.Text())) {
				if t, ok := typoFromSource(word, pos.Row+1, pos.Column+1, mi); ok {
					typos = append(typos, t)
				}
			}
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(tree.Root())
	return dedupeAdjacent(typos)
}

// AnalyzePlainText is the fallback path for files with no available
// grammar: it walks raw lines directly with the same tokenizer/splitter
// used for named tree leaves.
func AnalyzePlainText(source []byte, mi *multiindex.MultiIndex) []Typo {
	var typos []Typo
	scanner := bufio.NewScanner(strings.NewReader(string(source)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for scanner.Scan() {
		for _, tok := range scanTokens(scanner.Text(), row, 0) {
			if t, ok := typoFromSource(tok.text, tok.row+1, tok.column+1, mi); ok {
				typos = append(typos, t)
			}
		}
		row++
	}
	return dedupeAdjacent(typos)
}

func dedupeAdjacent(typos []Typo) []Typo {
	if len(typos) == 0 {
		return typos
	}
	out := make([]Typo, 0, len(typos))
	out = append(out, typos[0])
	for _, t := range typos[1:] {
		last := out[len(out)-1]
		if t.Word == last.Word && t.Line == last.Line && t.Column == last.Column {
			continue
		}
		out = append(out, t)
	}
	return out
}
