package trace

import (
	"testing"

	"github.com/csc-dev/codespell/pkg/multiindex"
	"github.com/csc-dev/codespell/pkg/wordindex"
)

func TestServerMultiIndexRecognizesWord(t *testing.T) {
	wi := wordindex.New(wordindex.Options{})
	wi.Allow("hello")
	mi := multiindex.New(wi)
	s := NewServer(mi)

	if !s.mi.Contains("hello") {
		t.Fatalf("expected 'hello' to be recognized")
	}
}

func TestMultiIndexSuggestsCorrection(t *testing.T) {
	wi := wordindex.New(wordindex.Options{})
	wi.Allow("hello")
	mi := multiindex.New(wi)

	suggestion, ok := mi.Suggestion("helo")
	if !ok || suggestion != "hello" {
		t.Fatalf("Suggestion(helo) = (%q, %v), want (hello, true)", suggestion, ok)
	}
}
