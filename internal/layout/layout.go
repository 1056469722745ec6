// Package layout resolves and provisions the on-disk directory tree this
// program owns: $HOME/.code-spellcheck/{wordlists,cache,custom-dicts/cspell,
// custom-dicts/git,tmp}.
//
// This resolves a fixed home-relative root (rather than an
// executable-relative one) and provisions every subdirectory the rest of
// the program expects to find.
package layout

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/csc-dev/codespell/internal/utils"
)

const rootDirName = ".code-spellcheck"

// Layout is the resolved root directory plus its well-known subdirectories.
type Layout struct {
	root string
}

// New creates a Layout rooted at root. An empty root resolves to
// $HOME/.code-spellcheck, falling back to a directory next to the running
// executable if the home directory can't be determined (e.g. no $HOME in
// a stripped-down container).
func New(root string) (*Layout, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			execDir, execErr := utils.GetExecutableDir()
			if execErr != nil {
				return nil, err
			}
			log.Warnf("layout: resolving home directory: %v; falling back to %s", err, execDir)
			root = filepath.Join(execDir, rootDirName)
		} else {
			root = filepath.Join(home, rootDirName)
		}
	}
	return &Layout{root: root}, nil
}

// Root returns the top-level directory.
func (l *Layout) Root() string { return l.root }

// WordlistsDir holds user-managed word-list dictionaries.
func (l *Layout) WordlistsDir() string { return filepath.Join(l.root, "wordlists") }

// CacheDir holds the compiled word-index artifacts and the cache.json
// path_hash -> content_hash store.
func (l *Layout) CacheDir() string { return filepath.Join(l.root, "cache") }

// CustomDictsCSpellDir holds imported cspell-dicts bundles.
func (l *Layout) CustomDictsCSpellDir() string {
	return filepath.Join(l.root, "custom-dicts", "cspell")
}

// CustomDictsGitDir holds dictionaries fetched from git remotes.
func (l *Layout) CustomDictsGitDir() string {
	return filepath.Join(l.root, "custom-dicts", "git")
}

// TmpDir holds scratch files (partial downloads, in-progress imports).
func (l *Layout) TmpDir() string { return filepath.Join(l.root, "tmp") }

// SettingsPath is the code-spellcheck.json settings file, read with
// config.LoadSettings.
func (l *Layout) SettingsPath() string { return filepath.Join(l.root, "code-spellcheck.json") }

// EnsureAll creates every well-known subdirectory, logging (but not
// failing on) any that cannot be created or written to; callers that need
// a hard failure should check utils.CheckDirStatus themselves.
func (l *Layout) EnsureAll() error {
	dirs := []string{
		l.WordlistsDir(),
		l.CacheDir(),
		l.CustomDictsCSpellDir(),
		l.CustomDictsGitDir(),
		l.TmpDir(),
	}
	for _, d := range dirs {
		status := utils.CheckDirStatus(d)
		if status.Error != nil {
			log.Warnf("layout: cannot create %s: %v", d, status.Error)
			continue
		}
		if !status.Writable {
			log.Warnf("layout: %s is not writable", d)
		}
	}
	return nil
}
