package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the csc-config.json file a Directory dictionary spec carries
// alongside its word-list files.
type Manifest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Paths         []string `json:"paths"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`
	NoCache       bool     `json:"no_cache,omitempty"`
	Globs         []string `json:"globs,omitempty"`
}

const manifestFilename = "csc-config.json"

// loadManifest reads and parses the csc-config.json manifest inside dir.
// Plain encoding/json is used here deliberately: the manifest is strict
// JSON, distinct from the HJSON-tolerant external settings file this
// package does not parse.
func loadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil {
		return nil, fmt.Errorf("dictionary: reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("dictionary: parsing manifest: %w", err)
	}
	return &m, nil
}

// resolvedPaths returns each manifest path joined against dir.
func (m *Manifest) resolvedPaths(dir string) []string {
	paths := make([]string, len(m.Paths))
	for i, p := range m.Paths {
		paths[i] = filepath.Join(dir, p)
	}
	return paths
}
