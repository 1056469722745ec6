/*
Package main implements the code-spellcheck command-line entry point.

code-spellcheck parses a tree of source files with a language-appropriate
grammar, extracts identifier-bearing leaf tokens, splits them into
sub-words, and reports sub-words absent from every configured dictionary.

# Check Mode

`csc check <paths...>` walks the given roots, compiles the configured
dictionaries (in parallel with file discovery), and streams typo records
for each file to stdout as plain text.

# Trace Mode

`csc trace` starts a long-lived msgpack request/response loop over
stdin/stdout for editor integrations (see pkg/trace).

# Repl Mode

`csc repl` starts an interactive word-check shell for manual dbg testing
of the configured dictionaries (see internal/cli).

# Config

Runtime tunables (worker count, cache dir, fuzzy budget, suggestion
threshold) live in a `config.toml` file under the program's data
directory, created automatically on first run if absent. `check` reads
the worker count, max file size and custom-word filtering from it; the
cache dir, fuzzy budget and suggestion threshold entries are not read
(the cache always lives under the data directory's cache/ folder, and
suggestions use pkg/multiindex's constants). The dictionary
and ignore-path settings themselves come from a `code-spellcheck.json`
settings file, read by internal/config.LoadSettings.

This CLI is deliberately a thin slice: subcommand dispatch, argument
parsing, and output formatting are kept separate from the checking
engine itself, which lives entirely in the pkg/ packages this binary
wires together. It exists to exercise the engine end-to-end, not to be
a feature-complete CLI.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/csc-dev/codespell/internal/cli"
	"github.com/csc-dev/codespell/internal/config"
	"github.com/csc-dev/codespell/internal/layout"
	"github.com/csc-dev/codespell/internal/logging"
	"github.com/csc-dev/codespell/pkg/dictionary"
	"github.com/csc-dev/codespell/pkg/multiindex"
	"github.com/csc-dev/codespell/pkg/pipeline"
	"github.com/csc-dev/codespell/pkg/trace"
	"github.com/csc-dev/codespell/pkg/wordindex"
)

const (
	version = "0.1.0"
	appName = "csc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "check":
		runCheck(os.Args[2:])
	case "trace":
		runTrace(os.Args[2:])
	case "repl":
		runRepl(os.Args[2:])
	case "--version", "-version":
		fmt.Printf("%s %s\n", appName, version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <check|trace|repl> [flags]\n", appName)
}

func installSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Fprintln(os.Stderr, "\ninterrupted, finishing in-flight files...")
		cancel()
	}()
	return ctx, cancel
}

// commonState is the layout/config/settings/logger bundle every subcommand
// needs.
func commonState(verbose bool) (*layout.Layout, *config.Config, *config.Settings) {
	lg := logging.New(appName)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	lay, err := layout.New("")
	if err != nil {
		lg.Fatalf("resolving data directory: %v", err)
	}
	if err := lay.EnsureAll(); err != nil {
		lg.Warnf("provisioning data directory: %v", err)
	}

	cfg, err := config.Init(filepath.Join(lay.Root(), "config.toml"))
	if err != nil {
		lg.Fatalf("loading engine config: %v", err)
	}

	settings, err := config.LoadSettings(lay.SettingsPath())
	if err != nil {
		lg.Fatalf("loading settings: %v", err)
	}

	return lay, cfg, settings
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	jobs := fs.Int("jobs", 0, "number of worker goroutines (0 = config workers value; NumCPU if that is also 0)")
	maxFileSize := fs.Int64("max-filesize", 0, "skip files larger than this many bytes (0 = config max_file_size; no limit if that is also 0)")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	extraDicts := fs.String("extra-dictionaries", "", "comma-separated extra dictionary file paths")
	exclude := fs.String("exclude", "", "comma-separated extra glob patterns to ignore")
	fs.Parse(args)

	roots := fs.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}

	lay, cfg, settings := commonState(*verbose)

	specs := settingsToSpecs(settings)
	for _, p := range splitNonEmpty(*extraDicts) {
		specs = append(specs, dictionary.Spec{Kind: dictionary.KindFile, Path: p})
	}

	base := settings.BaseDictionaryNames()
	for _, s := range specs {
		if len(base) == 0 {
			base = append(base, s.GetNames()...)
		}
	}

	ignoreGlobs, globErrs := settings.CompileIgnoreGlobs()
	for _, e := range globErrs {
		log.Warnf("csc: ignoring malformed ignorePaths glob: %v", e)
	}
	for _, p := range splitNonEmpty(*exclude) {
		g, err := glob.Compile(p, '/')
		if err != nil {
			log.Warnf("csc: ignoring malformed --exclude glob %q: %v", p, err)
			continue
		}
		ignoreGlobs = append(ignoreGlobs, g)
	}
	matchers := make([]pipeline.Matcher, len(ignoreGlobs))
	for i, g := range ignoreGlobs {
		matchers[i] = g
	}

	workers := *jobs
	if workers == 0 {
		workers = cfg.Pipeline.Workers
	}
	maxSize := *maxFileSize
	if maxSize == 0 {
		maxSize = cfg.Pipeline.MaxFileSize
	}

	pcfg := pipeline.Config{
		Workers:           workers,
		MaxFileSize:       maxSize,
		IgnoreGlobs:       matchers,
		DictSpecs:         specs,
		BaseDictionaries:  base,
		CacheDir:          lay.CacheDir(),
		CustomWords:       settings.Words,
		FilterCustomWords: cfg.Pipeline.FilterCustomWords,
	}

	ctx, cancel := installSignalHandler()
	defer cancel()

	results, errs := pipeline.Run(ctx, pcfg, roots)

	drained := make(chan struct{})
	go func() {
		<-ctx.Done()
		if !pipeline.AwaitShutdown(drained) {
			fmt.Fprintln(os.Stderr, "csc: workers did not finish within the shutdown deadline, exiting")
			os.Exit(1)
		}
	}()

	exitCode := 0
	typoCount := 0
	for r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", r.File, r.Err)
			exitCode = 1
			continue
		}
		for _, t := range r.Typos {
			typoCount++
			if t.Suggestion != "" {
				fmt.Printf("%s:%d:%d: %q — did you mean %q?\n", r.File, t.Line, t.Column, t.Word, t.Suggestion)
			} else {
				fmt.Printf("%s:%d:%d: %q\n", r.File, t.Line, t.Column, t.Word)
			}
		}
	}
	for err := range errs {
		fmt.Fprintf(os.Stderr, "csc: %v\n", err)
		exitCode = 1
	}
	close(drained)

	if typoCount > 0 {
		fmt.Printf("%d typo(s) found\n", typoCount)
	}
	os.Exit(exitCode)
}

func runTrace(args []string) {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Parse(args)

	lay, _, settings := commonState(*verbose)
	resolver := dictionary.NewResolver(lay.CacheDir())

	var indexes []*wordindex.WordIndex
	for _, spec := range settingsToSpecs(settings) {
		wi, err := resolver.Compile(spec)
		if err != nil {
			log.Warnf("trace: skipping dictionary %v: %v", spec.GetNames(), err)
			continue
		}
		indexes = append(indexes, wi)
	}
	custom := wordindex.New(wordindex.Options{})
	for _, w := range settings.Words {
		custom.Allow(w)
	}
	custom.Freeze()
	indexes = append(indexes, custom)

	mi := multiindex.New(indexes...)
	srv := trace.NewServer(mi)
	if err := srv.Start(); err != nil {
		log.Fatalf("trace: %v", err)
	}
}

func runRepl(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "enable debug logging")
	noFilter := fs.Bool("no-filter", false, "disable input filtering (dbg only)")
	minLen := fs.Int("min", 0, "minimum word length to check")
	maxLen := fs.Int("max", 0, "maximum word length to check (0 = no limit)")
	fs.Parse(args)

	lay, _, settings := commonState(*verbose)
	resolver := dictionary.NewResolver(lay.CacheDir())

	var indexes []*wordindex.WordIndex
	for _, spec := range settingsToSpecs(settings) {
		wi, err := resolver.Compile(spec)
		if err != nil {
			log.Warnf("repl: skipping dictionary %v: %v", spec.GetNames(), err)
			continue
		}
		indexes = append(indexes, wi)
	}
	custom := wordindex.New(wordindex.Options{})
	for _, w := range settings.Words {
		custom.Allow(w)
	}
	custom.Freeze()
	indexes = append(indexes, custom)

	mi := multiindex.New(indexes...)
	handler := cli.NewInputHandler(mi, *minLen, *maxLen, *noFilter)
	if err := handler.Start(); err != nil {
		log.Fatalf("repl: %v", err)
	}
}

// settingsToSpecs converts every non-git DictionaryDefinition in settings
// into a resolver Spec. Git-fetched bundles require cloning a remote
// repository, which this engine leaves to an external collaborator; they
// are skipped with a warning rather than silently ignored.
func settingsToSpecs(settings *config.Settings) []dictionary.Spec {
	var specs []dictionary.Spec
	for _, d := range settings.DictionaryDefinitions {
		if d.Git != "" {
			log.Warnf("csc: dictionary %q is git-fetched; cloning is outside this engine's scope, skipping", d.Name)
			continue
		}
		if d.Path == "" {
			continue
		}
		specs = append(specs, pathToSpec(d.Path))
	}
	return specs
}

func pathToSpec(path string) dictionary.Spec {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return dictionary.Spec{Kind: dictionary.KindDirectory, Path: path}
	}
	if strings.HasSuffix(path, ".trie") || strings.HasSuffix(path, ".trie.gz") {
		return dictionary.Spec{Kind: dictionary.KindCSpellTrie, Path: path}
	}
	return dictionary.Spec{Kind: dictionary.KindFile, Path: path}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
