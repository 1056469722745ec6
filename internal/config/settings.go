package config

import (
	"encoding/json"
	"os"

	"github.com/gobwas/glob"
)

// DictionaryRef is one entry of a Settings.Dictionaries list: either a bare
// name (Globs empty, meaning universal) or a name scoped to specific path
// globs.
type DictionaryRef struct {
	Name  string   `json:"name"`
	Globs []string `json:"globs,omitempty"`
}

// UnmarshalJSON accepts both a bare string ("en-US") and an object
// ({"name": "en-US", "globs": [...]}) per the settings file's
// `dictionaries` array shape.
func (d *DictionaryRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		d.Name = name
		return nil
	}
	type alias DictionaryRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = DictionaryRef(a)
	return nil
}

// DictionaryDefinition describes a custom dictionary source: a path-based
// word list/trie, or a git-fetched bundle.
type DictionaryDefinition struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Git      string `json:"git,omitempty"`
	Identity string `json:"identity,omitempty"` // branch|tag|commit, git variant only
}

// Settings is the parsed form of the external code-spellcheck.json
// settings file. The authoring editor extension owns the real,
// HJSON-tolerant loader for this file; Settings is the configured-settings
// shape that loader hands callers, and LoadSettings below is a minimal
// strict-JSON reader good enough for tests and direct CLI use.
type Settings struct {
	Dictionaries          []DictionaryRef        `json:"dictionaries,omitempty"`
	DictionaryDefinitions []DictionaryDefinition `json:"dictionaryDefinitions,omitempty"`
	IgnorePaths           []string                `json:"ignorePaths,omitempty"`
	Words                 []string                `json:"words,omitempty"`
}

// LoadSettings reads and parses a settings file at path. A missing file
// yields an empty Settings rather than an error, matching the tolerant
// posture the rest of this program's ambient config takes toward absent
// files.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// BaseDictionaryNames returns the plain dictionary names this settings
// value activates.
func (s *Settings) BaseDictionaryNames() []string {
	names := make([]string, 0, len(s.Dictionaries))
	for _, d := range s.Dictionaries {
		names = append(names, d.Name)
	}
	return names
}

// CompileIgnoreGlobs compiles IgnorePaths with gobwas/glob, skipping (and
// logging via the caller) any pattern that fails to compile.
func (s *Settings) CompileIgnoreGlobs() ([]glob.Glob, []error) {
	globs := make([]glob.Glob, 0, len(s.IgnorePaths))
	var errs []error
	for _, pattern := range s.IgnorePaths {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			errs = append(errs, err)
			continue
		}
		globs = append(globs, g)
	}
	return globs, errs
}
