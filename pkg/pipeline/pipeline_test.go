package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/csc-dev/codespell/pkg/dictionary"
)

func TestRunChecksFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("helo world\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	dictDir := t.TempDir()
	wordsPath := filepath.Join(dictDir, "words.txt")
	if err := os.WriteFile(wordsPath, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := Config{
		Workers:          2,
		CacheDir:         filepath.Join(dictDir, "cache"),
		BaseDictionaries: []string{"words"},
		DictSpecs:        []dictionary.Spec{{Kind: dictionary.KindFile, Path: wordsPath}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, errs := Run(ctx, cfg, []string{dir})

	var got []Result
	for r := range results {
		got = append(got, r)
	}
	for err := range errs {
		if err != nil {
			t.Fatalf("pipeline error: %v", err)
		}
	}

	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Err != nil {
		t.Fatalf("unexpected per-file error: %v", got[0].Err)
	}
}
