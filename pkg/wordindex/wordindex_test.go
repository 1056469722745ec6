package wordindex

import "testing"

func TestContainsCaseSensitivity(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		insert        string
		query         string
		want          bool
	}{
		{"case-insensitive match", false, "Hello", "hello", true},
		{"case-insensitive same case", false, "hello", "hello", true},
		{"case-sensitive mismatch", true, "Hello", "hello", false},
		{"case-sensitive exact", true, "Hello", "Hello", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wi := New(Options{CaseSensitive: tt.caseSensitive})
			wi.Allow(tt.insert)
			if got := wi.Contains(tt.query); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestDisallowWinsOnConflict(t *testing.T) {
	wi := New(Options{})
	wi.Allow("color")
	wi.Disallow("color")
	if wi.Contains("color") {
		t.Fatalf("expected disallow to win over an earlier allow")
	}

	wi2 := New(Options{})
	wi2.Disallow("color")
	wi2.Allow("color")
	if wi2.Contains("color") {
		t.Fatalf("expected disallow to win even when it came first")
	}
}

func TestIterIsSorted(t *testing.T) {
	wi := New(Options{})
	for _, w := range []string{"zebra", "apple", "mango", "banana"} {
		wi.Allow(w)
	}
	got := wi.Iter()
	want := []string{"apple", "banana", "mango", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Iter() = %v, want %v", got, want)
		}
	}
}

func TestFuzzy(t *testing.T) {
	wi := New(Options{})
	for _, w := range []string{"hello", "help", "world", "held"} {
		wi.Allow(w)
	}
	got := wi.Fuzzy("helo", 1)
	found := false
	for _, w := range got {
		if w == "hello" {
			found = true
		}
		if w == "world" {
			t.Fatalf("Fuzzy(helo, 1) unexpectedly matched %q", w)
		}
	}
	if !found {
		t.Fatalf("Fuzzy(helo, 1) = %v, want it to contain %q", got, "hello")
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	wi := New(Options{CaseSensitive: true, Cache: true})
	wi.Allow("foo")
	wi.Allow("bar")
	wi.Disallow("baz")

	data, err := wi.Dump()
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Options() != wi.Options() {
		t.Fatalf("Options mismatch: got %+v, want %+v", loaded.Options(), wi.Options())
	}
	if !loaded.Contains("foo") || !loaded.Contains("bar") {
		t.Fatalf("round-tripped index missing allowed words")
	}
	if loaded.Contains("baz") {
		t.Fatalf("round-tripped index should not contain disallowed word")
	}
}
