// Package dictionary resolves a DictSpec (File/Directory/CSpellTrie/Custom/
// Rules) into a compiled word-index, with a BLAKE3-keyed on-disk cache.
//
// Grounded on the reference implementation's Dictionary enum and
// compile_inner match arms (_examples/original_source/src/dictionary.rs),
// reworked into a lazily-loading, error-downgrading style where cache and
// I/O failures degrade rather than abort.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/csc-dev/codespell/internal/utils"
	"github.com/csc-dev/codespell/pkg/cspell"
	"github.com/csc-dev/codespell/pkg/rules"
	"github.com/csc-dev/codespell/pkg/wordindex"
)

// Kind identifies which variant of dictionary spec is being resolved.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindCSpellTrie
	KindCustom
	KindRules
)

// Spec describes one dictionary source. Exactly the fields relevant to Kind
// are populated; this mirrors the reference implementation's enum as a
// tagged struct, which is the idiomatic Go rendering of a small closed set
// of variants.
type Spec struct {
	Kind Kind

	Path string // File, Directory, CSpellTrie

	Definition string // Custom: literal rule-list text
	Root       string // Custom: display/name root

	Rules []rules.Rule // Rules
}

// GetNames returns the dictionary names a Spec exposes to the active
// base-dictionary list: the manifest name for a Directory, the file's base
// name (without extension) for File/CSpellTrie, the Root for Custom, and
// none for a literal Rules spec (it has no file identity to key on).
func (s Spec) GetNames() []string {
	switch s.Kind {
	case KindDirectory:
		if m, err := loadManifest(s.Path); err == nil {
			return []string{m.Name}
		}
		return []string{filepath.Base(s.Path)}
	case KindFile, KindCSpellTrie:
		base := filepath.Base(s.Path)
		return []string{strings.TrimSuffix(base, filepath.Ext(base))}
	case KindCustom:
		return []string{s.Root}
	default:
		return nil
	}
}

// GetGlobs returns the glob-scoping patterns a Directory manifest declares,
// compiled with gobwas/glob. Other spec kinds have no glob scoping.
func (s Spec) GetGlobs() ([]glob.Glob, error) {
	if s.Kind != KindDirectory {
		return nil, nil
	}
	m, err := loadManifest(s.Path)
	if err != nil {
		return nil, err
	}
	globs := make([]glob.Glob, 0, len(m.Globs))
	for _, pattern := range m.Globs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("dictionary: compiling glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Resolver compiles DictSpecs into word-indexes, caching compiled results
// under cacheDir.
type Resolver struct {
	cacheDir string
	store    *Store
}

// NewResolver creates a Resolver whose cache artifacts and store live under
// cacheDir.
func NewResolver(cacheDir string) *Resolver {
	return &Resolver{cacheDir: cacheDir, store: LoadStore(cacheDir)}
}

// Compile resolves spec into a word-index, consulting (and, unless caching
// is disabled, populating) the on-disk cache.
func (r *Resolver) Compile(spec Spec) (*wordindex.WordIndex, error) {
	switch spec.Kind {
	case KindFile:
		return r.compileFile(spec)
	case KindDirectory:
		return r.compileDirectory(spec)
	case KindCSpellTrie:
		return r.compileCSpellTrie(spec)
	case KindCustom:
		return rules.CompileText(spec.Definition), nil
	case KindRules:
		// A literal Rules spec always compiles with caching forced off,
		// regardless of any Command already present in the rule list: the
		// forced command is logically appended last and so wins per the
		// "last Command wins" rule-compiler semantics.
		forced := append(append([]rules.Rule{}, spec.Rules...), rules.Rule{
			Kind:    rules.KindCommand,
			Command: rules.CommandCache,
			CacheOn: false,
		})
		return rules.Compile(forced), nil
	default:
		return nil, fmt.Errorf("dictionary: unknown spec kind %d", spec.Kind)
	}
}

func (r *Resolver) compileFile(spec Spec) (*wordindex.WordIndex, error) {
	data, err := os.ReadFile(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: reading %s: %w", spec.Path, err)
	}

	pathHash := PathHash(canonicalPath(spec.Path))
	contentHash := ContentHashFile(data)
	if wi, ok := r.cacheLookup(pathHash, contentHash); ok {
		return wi, nil
	}

	wi := rules.CompileText(string(data))
	r.cacheStore(wi, pathHash, contentHash)
	return wi, nil
}

func (r *Resolver) compileCSpellTrie(spec Spec) (*wordindex.WordIndex, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: opening %s: %w", spec.Path, err)
	}
	defer f.Close()
	data, err := os.ReadFile(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: reading %s: %w", spec.Path, err)
	}

	pathHash := PathHash(canonicalPath(spec.Path))
	contentHash := ContentHashFile(data)
	if wi, ok := r.cacheLookup(pathHash, contentHash); ok {
		return wi, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	words, err := cspell.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("dictionary: decoding cspell trie %s: %w", spec.Path, err)
	}
	wi := wordindex.New(wordindex.Options{Cache: true})
	for _, w := range words {
		wi.Allow(w)
	}
	wi.Freeze()
	r.cacheStore(wi, pathHash, contentHash)
	return wi, nil
}

func isTriePath(p string) bool {
	return strings.HasSuffix(p, ".trie") || strings.HasSuffix(p, ".trie.gz")
}

func (r *Resolver) compileDirectory(spec Spec) (*wordindex.WordIndex, error) {
	manifest, err := loadManifest(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: loading manifest for %s: %w", spec.Path, err)
	}

	paths := manifest.resolvedPaths(spec.Path)
	trieCount := 0
	for _, p := range paths {
		if isTriePath(p) {
			trieCount++
		}
	}
	if trieCount > 0 && len(paths) > 1 {
		return nil, fmt.Errorf("dictionary: manifest %s mixes a trie path with other files; a trie dictionary must reference exactly one file", spec.Path)
	}

	fileHashes := make(map[string]string, len(paths))
	fileData := make(map[string][]byte, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("dictionary: reading %s: %w", p, err)
		}
		fileHashes[p] = ContentHashFile(data)
		fileData[p] = data
	}

	pathHash := PathHash(canonicalPath(spec.Path))
	contentHash := ContentHashDir(fileHashes)

	// A no_cache manifest is never consulted on read, not only on write.
	if !manifest.NoCache {
		if wi, ok := r.cacheLookup(pathHash, contentHash); ok {
			return wi, nil
		}
	}

	var wi *wordindex.WordIndex
	if trieCount == 1 {
		wi, err = r.compileDirectoryTrie(paths[0])
		if err != nil {
			return nil, err
		}
	} else {
		var allRules []rules.Rule
		for _, p := range paths {
			allRules = append(allRules, rules.ParseLines(string(fileData[p]))...)
		}
		if manifest.CaseSensitive {
			allRules = append(allRules, rules.Rule{Kind: rules.KindCommand, Command: rules.CommandCaseSensitive})
		}
		if manifest.NoCache {
			allRules = append(allRules, rules.Rule{Kind: rules.KindCommand, Command: rules.CommandCache, CacheOn: false})
		}
		wi = rules.Compile(allRules)
	}

	if !manifest.NoCache {
		r.cacheStore(wi, pathHash, contentHash)
	}
	return wi, nil
}

func (r *Resolver) compileDirectoryTrie(path string) (*wordindex.WordIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: opening %s: %w", path, err)
	}
	defer f.Close()
	words, err := cspell.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("dictionary: decoding cspell trie %s: %w", path, err)
	}
	wi := wordindex.New(wordindex.Options{Cache: true})
	for _, w := range words {
		wi.Allow(w)
	}
	wi.Freeze()
	return wi, nil
}

func (r *Resolver) cacheLookup(pathHash, contentHash string) (*wordindex.WordIndex, bool) {
	stored, ok := r.store.Get(pathHash)
	if !ok || stored != contentHash {
		return nil, false
	}
	artifact := r.store.ArtifactPath(pathHash)
	if !utils.FileExists(artifact) {
		return nil, false
	}
	wi, err := wordindex.LoadFromFile(artifact)
	if err != nil {
		log.Warnf("dictionary: cache artifact %s unreadable, recompiling: %v", artifact, err)
		return nil, false
	}
	return wi, true
}

func (r *Resolver) cacheStore(wi *wordindex.WordIndex, pathHash, contentHash string) {
	if !wi.Options().Cache {
		return
	}
	artifact := r.store.ArtifactPath(pathHash)
	if err := os.MkdirAll(filepath.Dir(artifact), 0o755); err != nil {
		log.Warnf("dictionary: cannot create cache dir: %v", err)
		return
	}
	if err := wi.DumpToFile(artifact); err != nil {
		log.Warnf("dictionary: failed to write cache artifact: %v", err)
		return
	}
	r.store.Set(pathHash, contentHash)
}

func canonicalPath(path string) string {
	return utils.GetAbsolutePath(path)
}
