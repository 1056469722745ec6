package multiindex

import (
	"testing"

	"github.com/csc-dev/codespell/pkg/wordindex"
)

func fixtureIndex(words ...string) *wordindex.WordIndex {
	wi := wordindex.New(wordindex.Options{})
	for _, w := range words {
		wi.Allow(w)
	}
	return wi
}

func TestContainsDisallowIsLocal(t *testing.T) {
	allow := fixtureIndex("color")
	disallow := wordindex.New(wordindex.Options{})
	disallow.Disallow("color")

	mi := New(disallow, allow)
	if !mi.Contains("color") {
		t.Fatalf("a disallow in one index must not veto an allow in another")
	}
}

func TestHandleIdentifierSplitter(t *testing.T) {
	mi := New(fixtureIndex("num", "bytes", "user", "name", "http", "request"))

	tests := []struct {
		name          string
		token         string
		wantWord      string
		wantSuspicous bool
	}{
		{"short segments ignored", "id_of", "", false},
		{"digit run accepted standalone", "user12345", "", false},
		{"known camel parts", "userName", "", false},
		{"known snake parts", "user_name", "", false},
		{"unknown word flagged", "numBites", "numBites", true},
		{"unknown plain word flagged", "recieved", "recieved", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mi.HandleIdentifier(tt.token)
			if ok != tt.wantSuspicous {
				t.Fatalf("HandleIdentifier(%q) ok = %v, want %v (word=%q)", tt.token, ok, tt.wantSuspicous, got)
			}
			if ok && got != tt.wantWord {
				t.Fatalf("HandleIdentifier(%q) = %q, want %q", tt.token, got, tt.wantWord)
			}
		})
	}
}

func TestSuggestion(t *testing.T) {
	mi := New(fixtureIndex("hello", "help", "world"))

	got, ok := mi.Suggestion("helo")
	if !ok {
		t.Fatalf("expected a suggestion for 'helo'")
	}
	if got != "hello" {
		t.Fatalf("Suggestion(helo) = %q, want %q", got, "hello")
	}

	if _, ok := mi.Suggestion("zzzzzzzzzz"); ok {
		t.Fatalf("expected no suggestion for a wildly dissimilar word")
	}
}
