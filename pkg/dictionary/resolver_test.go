package dictionary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestCompileFileAndCache(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(wordsPath, []byte("apple\nbanana\n!banana\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cacheDir := filepath.Join(dir, "cache")
	resolver := NewResolver(cacheDir)
	spec := Spec{Kind: KindFile, Path: wordsPath}

	wi, err := resolver.Compile(spec)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !wi.Contains("apple") {
		t.Fatalf("expected 'apple' to be allowed")
	}
	if wi.Contains("banana") {
		t.Fatalf("expected 'banana' to be disallowed")
	}

	// A second resolver pointed at the same cache dir should be able to
	// serve the compiled artifact from cache.
	resolver2 := NewResolver(cacheDir)
	wi2, err := resolver2.Compile(spec)
	if err != nil {
		t.Fatalf("Compile() from cache error = %v", err)
	}
	if !wi2.Contains("apple") {
		t.Fatalf("cached index missing allowed word")
	}
}

func TestCompileDirectoryHonorsNoCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	manifest := Manifest{Name: "fixture", Paths: []string{"a.txt"}, NoCache: true}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(filepath.Join(dir, manifestFilename), data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cacheDir := filepath.Join(dir, "cache")
	resolver := NewResolver(cacheDir)
	spec := Spec{Kind: KindDirectory, Path: dir}

	wi, err := resolver.Compile(spec)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !wi.Contains("alpha") {
		t.Fatalf("expected 'alpha' to be allowed")
	}

	entries, _ := os.ReadDir(cacheDir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".bin" {
			t.Fatalf("no_cache manifest should not have written a cache artifact, found %s", e.Name())
		}
	}
}

func TestCompileDirectoryWithTriePath(t *testing.T) {
	dir := t.TempDir()
	triePath := filepath.Join(dir, "words.trie")
	if err := os.WriteFile(triePath, []byte("TrieXv4\nbase=10\n__DATA__\ncat$2ow$"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	manifest := Manifest{Name: "fixture", Paths: []string{"words.trie"}}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(filepath.Join(dir, manifestFilename), data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	resolver := NewResolver(filepath.Join(dir, "cache"))
	wi, err := resolver.Compile(Spec{Kind: KindDirectory, Path: dir})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !wi.Contains("cat") || !wi.Contains("cow") {
		t.Fatalf("expected both trie-decoded words to be allowed")
	}
}

func TestCompileDirectoryRejectsMixedTrieAndText(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "words.trie"), []byte("TrieXv4\nbase=10\n__DATA__\ncat$"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("dog\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	manifest := Manifest{Name: "fixture", Paths: []string{"words.trie", "extra.txt"}}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(filepath.Join(dir, manifestFilename), data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	resolver := NewResolver(filepath.Join(dir, "cache"))
	if _, err := resolver.Compile(Spec{Kind: KindDirectory, Path: dir}); err == nil {
		t.Fatalf("expected an error mixing a trie path with other manifest files")
	}
}

func TestGetNames(t *testing.T) {
	spec := Spec{Kind: KindFile, Path: "/tmp/en-US.txt"}
	names := spec.GetNames()
	if len(names) != 1 || names[0] != "en-US" {
		t.Fatalf("GetNames() = %v, want [en-US]", names)
	}
}
