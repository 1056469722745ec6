// Package pipeline wires file discovery, dictionary compilation, and a
// worker pool together into the end-to-end "check" operation.
//
// The concurrency shape (buffered channels, a background compile stage the
// workers block on, bounded result delivery) is grounded on a
// backgroundLoader goroutine pattern, generalized from a single-stage
// chunk loader (pkg/dictionary/loader.go in the original wordserve tree)
// into three cooperating stages.
package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/csc-dev/codespell/internal/utils"
	"github.com/csc-dev/codespell/pkg/analyzer"
	"github.com/csc-dev/codespell/pkg/dictionary"
	"github.com/csc-dev/codespell/pkg/grammar"
	"github.com/csc-dev/codespell/pkg/multiindex"
	"github.com/csc-dev/codespell/pkg/wordindex"
)

const (
	fileQueueCapacity   = 256
	resultQueueCapacity = 256
	shutdownDeadline    = 5 * time.Second
)

// Config configures a single check run.
type Config struct {
	// Workers is the number of concurrent file workers. Zero means
	// runtime.NumCPU().
	Workers int
	// MaxFileSize skips any file larger than this many bytes. Zero means
	// no limit.
	MaxFileSize int64
	// IgnoreGlobs, when any matches a discovered path, excludes it.
	IgnoreGlobs []Matcher
	// DictSpecs are every configured dictionary; only those whose names
	// intersect BaseDictionaries are compiled and consulted.
	DictSpecs []dictionary.Spec
	// BaseDictionaries is the active base-dictionary name list.
	BaseDictionaries []string
	// CacheDir is where compiled dictionaries are cached.
	CacheDir string
	// CustomWords is an ephemeral, per-run allow-list consulted alongside
	// the compiled base dictionaries.
	CustomWords []string
	// FilterCustomWords, when true, drops CustomWords entries that look
	// like junk input (all-digits, repeated-char runs, stray punctuation)
	// instead of allow-listing them verbatim.
	FilterCustomWords bool
	// Grammar resolves a language's parser; nil (or a miss for a given
	// file) falls back to plain-text scanning.
	Grammar grammar.Provider
}

// Matcher reports whether a path matches an ignore pattern. gobwas/glob's
// Glob type satisfies this.
type Matcher interface {
	Match(string) bool
}

// Result is one file's outcome: either a (possibly empty) Typo list, or a
// per-file Err that does not abort the run.
type Result struct {
	File  string
	Typos []analyzer.Typo
	Err   error
}

// Run starts discovery, compilation, and the worker pool for the given
// root directories, returning a channel of per-file results and a channel
// of terminal pipeline errors. Both channels are closed when the run
// completes.
func Run(ctx context.Context, cfg Config, roots []string) (<-chan Result, <-chan error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fileCh := make(chan string, fileQueueCapacity)
	resultCh := make(chan Result, resultQueueCapacity)
	errCh := make(chan error, 1)

	go discover(ctx, roots, cfg.IgnoreGlobs, cfg.MaxFileSize, fileCh)

	var compiled sync.Map
	compileDone := make(chan struct{})
	go compileDictionaries(cfg, &compiled, compileDone, errCh)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, cfg, fileCh, &compiled, compileDone, resultCh)
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
		close(errCh)
	}()

	return resultCh, errCh
}

func discover(ctx context.Context, roots []string, ignore []Matcher, maxSize int64, out chan<- string) {
	defer close(out)
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			select {
			case <-ctx.Done():
				return filepath.SkipAll
			default:
			}
			if d.IsDir() {
				return nil
			}
			for _, m := range ignore {
				if m.Match(path) {
					return nil
				}
			}
			if maxSize > 0 {
				if info, err := d.Info(); err == nil && info.Size() > maxSize {
					return nil
				}
			}
			select {
			case out <- path:
			case <-ctx.Done():
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			log.Warnf("pipeline: walking %s: %v", root, err)
		}
	}
}

func compileDictionaries(cfg Config, compiled *sync.Map, done chan<- struct{}, errCh chan<- error) {
	defer close(done)
	active := make(map[string]bool, len(cfg.BaseDictionaries))
	for _, name := range cfg.BaseDictionaries {
		active[name] = true
	}

	resolver := dictionary.NewResolver(cfg.CacheDir)
	remaining := 0
	for _, spec := range cfg.DictSpecs {
		intersects := false
		for _, name := range spec.GetNames() {
			if active[name] {
				intersects = true
				break
			}
		}
		if !intersects {
			continue
		}
		wi, err := resolver.Compile(spec)
		if err != nil {
			log.Errorf("pipeline: compiling dictionary %v: %v", spec.GetNames(), err)
			continue
		}
		for _, name := range spec.GetNames() {
			compiled.Store(name, wi)
		}
		remaining++
	}
	if remaining == 0 && len(cfg.DictSpecs) > 0 {
		select {
		case errCh <- errNoDictionariesCompiled:
		default:
		}
	}
}

var errNoDictionariesCompiled = errDictError("pipeline: no configured dictionary could be compiled")

type errDictError string

func (e errDictError) Error() string { return string(e) }

func worker(ctx context.Context, cfg Config, in <-chan string, compiled *sync.Map, compileDone <-chan struct{}, out chan<- Result) {
	<-compileDone

	custom := wordindex.New(wordindex.Options{})
	for _, w := range cfg.CustomWords {
		// Settings-provided custom words are free-form user input; skip
		// junk entries (all-digits, repeated-char runs, stray punctuation)
		// rather than letting them silently widen the allow-set.
		if cfg.FilterCustomWords && !utils.IsValidInput(w) {
			log.Warnf("pipeline: ignoring invalid custom word %q", w)
			continue
		}
		custom.Allow(w)
	}
	custom.Freeze()

	for path := range in {
		select {
		case <-ctx.Done():
			return
		default:
		}

		source, err := os.ReadFile(path)
		if err != nil {
			out <- Result{File: path, Err: err}
			continue
		}

		mi := buildMultiIndex(compiled, custom)

		var typos []analyzer.Typo
		if parser, ok := parserFor(cfg.Grammar, path); ok {
			tree, err := parser.Parse(source)
			if err != nil {
				typos = analyzer.AnalyzePlainText(source, mi)
			} else {
				typos = analyzer.Analyze(tree, mi)
			}
		} else {
			typos = analyzer.AnalyzePlainText(source, mi)
		}

		out <- Result{File: path, Typos: typos}
	}
}

func buildMultiIndex(compiled *sync.Map, custom *wordindex.WordIndex) *multiindex.MultiIndex {
	var indexes []*wordindex.WordIndex
	indexes = append(indexes, custom)
	compiled.Range(func(_, v any) bool {
		indexes = append(indexes, v.(*wordindex.WordIndex))
		return true
	})
	return multiindex.New(indexes...)
}

func parserFor(provider grammar.Provider, path string) (grammar.Parser, bool) {
	if provider == nil {
		return nil, false
	}
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, false
	}
	return provider.ParserFor(ext[1:])
}

// AwaitShutdown waits up to the shutdown deadline for done to close,
// returning false if the deadline elapsed first. The caller is responsible
// for treating a false return as a hard-exit condition; this package never
// calls os.Exit itself so that Run stays usable from tests.
func AwaitShutdown(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-time.After(shutdownDeadline):
		return false
	}
}
