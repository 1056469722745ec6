package analyzer

import (
	"testing"

	"github.com/csc-dev/codespell/pkg/grammar"
	"github.com/csc-dev/codespell/pkg/multiindex"
	"github.com/csc-dev/codespell/pkg/wordindex"
)

type fakeNode struct {
	kind     string
	named    bool
	start    grammar.Position
	end      grammar.Position
	text     []byte
	children []grammar.Node
}

func (n *fakeNode) Kind() string                  { return n.kind }
func (n *fakeNode) IsNamed() bool                  { return n.named }
func (n *fakeNode) StartPosition() grammar.Position { return n.start }
func (n *fakeNode) EndPosition() grammar.Position   { return n.end }
func (n *fakeNode) Text() []byte                  { return n.text }
func (n *fakeNode) Children() []grammar.Node      { return n.children }

type fakeTree struct{ root grammar.Node }

func (t *fakeTree) Root() grammar.Node { return t.root }

func fixtureMultiIndex() *multiindex.MultiIndex {
	wi := wordindex.New(wordindex.Options{})
	for _, w := range []string{"user", "name", "request", "count"} {
		wi.Allow(w)
	}
	return multiindex.New(wi)
}

func TestAnalyzeFindsTypoInNamedLeaf(t *testing.T) {
	leaf := &fakeNode{
		kind:  "identifier",
		named: true,
		start: grammar.Position{Row: 2, Column: 4},
		text:  []byte("recievedCount"),
	}
	root := &fakeNode{
		kind:     "source_file",
		named:    true,
		children: []grammar.Node{leaf},
	}

	mi := fixtureMultiIndex()
	typos := Analyze(&fakeTree{root: root}, mi)

	if len(typos) != 1 {
		t.Fatalf("Analyze() = %v, want exactly one typo", typos)
	}
	got := typos[0]
	if got.Line != 3 || got.Column != 5 {
		t.Fatalf("typo position = (%d,%d), want (3,5)", got.Line, got.Column)
	}
	if got.Word != "recievedCount" {
		t.Fatalf("typo word = %q, want %q", got.Word, "recievedCount")
	}
}

func TestAnalyzeTypoLengthIsSuspiciousWordNotToken(t *testing.T) {
	leaf := &fakeNode{
		kind:  "identifier",
		named: true,
		start: grammar.Position{Row: 0, Column: 0},
		text:  []byte("user_helloWrld"),
	}
	root := &fakeNode{
		kind:     "source_file",
		named:    true,
		children: []grammar.Node{leaf},
	}

	mi := fixtureMultiIndex()
	typos := Analyze(&fakeTree{root: root}, mi)

	if len(typos) != 1 {
		t.Fatalf("Analyze() = %v, want exactly one typo", typos)
	}
	if got := typos[0].Length; got != 9 {
		t.Fatalf("typo length = %d, want 9 (len(%q))", got, "helloWrld")
	}
}

func TestAnalyzeUsesNodeStartForEveryTokenInLeaf(t *testing.T) {
	leaf := &fakeNode{
		kind:  "comment",
		named: true,
		start: grammar.Position{Row: 2, Column: 4},
		text:  []byte("recievedCount teh other"),
	}
	root := &fakeNode{
		kind:     "source_file",
		named:    true,
		children: []grammar.Node{leaf},
	}

	mi := fixtureMultiIndex()
	typos := Analyze(&fakeTree{root: root}, mi)

	if len(typos) != 2 {
		t.Fatalf("Analyze() = %v, want exactly two typos", typos)
	}
	for _, got := range typos {
		if got.Line != 3 || got.Column != 5 {
			t.Fatalf("typo position = (%d,%d), want (3,5) (the node's own start, not the word's)", got.Line, got.Column)
		}
	}
}

func TestAnalyzeSkipsUnnamedAndNonLeafNodes(t *testing.T) {
	punctuation := &fakeNode{kind: "(", named: false, text: []byte("(")}
	root := &fakeNode{
		kind:     "source_file",
		named:    true,
		children: []grammar.Node{punctuation},
	}
	mi := fixtureMultiIndex()
	typos := Analyze(&fakeTree{root: root}, mi)
	if len(typos) != 0 {
		t.Fatalf("expected no typos from an unnamed leaf, got %v", typos)
	}
}

func TestAnalyzePlainTextFallback(t *testing.T) {
	mi := fixtureMultiIndex()
	source := []byte("let userCount = recievedValue\n")
	typos := AnalyzePlainText(source, mi)

	if len(typos) != 1 {
		t.Fatalf("AnalyzePlainText() = %v, want exactly one typo", typos)
	}
	if typos[0].Word != "recievedValue" {
		t.Fatalf("typo word = %q, want %q", typos[0].Word, "recievedValue")
	}
}

func TestDedupeAdjacent(t *testing.T) {
	in := []Typo{
		{Word: "foo", Line: 1, Column: 1},
		{Word: "foo", Line: 1, Column: 1},
		{Word: "bar", Line: 2, Column: 1},
	}
	out := dedupeAdjacent(in)
	if len(out) != 2 {
		t.Fatalf("dedupeAdjacent() = %v, want 2 entries", out)
	}
}
