package rules

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Rule
	}{
		{"blank", "   ", Rule{Kind: KindComment}},
		{"hash comment", "# just a note", Rule{Kind: KindComment}},
		{"slash comment", "// just a note", Rule{Kind: KindComment}},
		{"implicit allow", "banana", Rule{Kind: KindAllow, Word: "banana"}},
		{"explicit allow", "+banana", Rule{Kind: KindAllow, Word: "banana"}},
		{"disallow", "!banana", Rule{Kind: KindDisallow, Word: "banana"}},
		{"inline glob dropped", "banana /*.md", Rule{Kind: KindAllow, Word: "banana"}},
		{"command case-sensitive", "# csc: case-sensitive", Rule{Kind: KindCommand, Command: CommandCaseSensitive}},
		{"command cache on", "// csc: cache", Rule{Kind: KindCommand, Command: CommandCache, CacheOn: true}},
		{"command cache off", "// csc: cache false", Rule{Kind: KindCommand, Command: CommandCache, CacheOn: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestCompileCaseSensitivity(t *testing.T) {
	wi := CompileText("# csc: case-sensitive\nHello\nWorld\n")
	if !wi.Options().CaseSensitive {
		t.Fatalf("expected CaseSensitive option to be set")
	}
	if !wi.Contains("Hello") {
		t.Fatalf("expected exact-case word to be contained")
	}
	if wi.Contains("hello") {
		t.Fatalf("case-sensitive index should not match differing case")
	}
}

func TestCompileDisallowWins(t *testing.T) {
	wi := CompileText("apple\n!apple\n")
	if wi.Contains("apple") {
		t.Fatalf("disallow appearing after allow should still win")
	}

	wi2 := CompileText("!apple\napple\n")
	if wi2.Contains("apple") {
		t.Fatalf("disallow appearing before allow should still win")
	}
}
