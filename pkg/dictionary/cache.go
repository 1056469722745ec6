// Cache key hashing and the on-disk path_hash -> content_hash store,
// grounded on the reference implementation's DictCacheStore
// (_examples/original_source/src/dictionary.rs), adapted to BLAKE3 (as the
// spec names explicitly) via lukechampine.com/blake3, the one verified
// BLAKE3 implementation present across the retrieved dependency pack.
package dictionary

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"lukechampine.com/blake3"
)

func hashBytes(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// PathHash returns the cache key derived from a dictionary spec's canonical
// path.
func PathHash(canonicalPath string) string {
	return hashBytes([]byte(canonicalPath))
}

// ContentHashFile returns the cache key derived from a single file's bytes.
func ContentHashFile(data []byte) string {
	return hashBytes(data)
}

// ContentHashDir returns a rolling hash over a directory's contents: every
// member file is hashed individually, the per-file hashes are sorted by
// the map's file-path keys for determinism, and the concatenation is hashed
// once more.
func ContentHashDir(fileHashes map[string]string) string {
	names := make([]string, 0, len(fileHashes))
	for name := range fileHashes {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf []byte
	for _, name := range names {
		buf = append(buf, []byte(name)...)
		buf = append(buf, []byte(fileHashes[name])...)
	}
	return hashBytes(buf)
}

const cacheStoreFilename = "cache.json"

// Store is the JSON path_hash -> content_hash mapping persisted alongside
// compiled word-index artifacts. Load is tolerant of a missing or corrupt
// file (falls back to an empty store, never a hard error); Save is strict
// and atomic (write-temp-then-rename).
type Store struct {
	dir     string
	mu      sync.Mutex
	entries map[string]string
}

// LoadStore loads the cache store rooted at dir, creating an empty store in
// memory if the backing file is absent or unreadable.
func LoadStore(dir string) *Store {
	s := &Store{dir: dir, entries: make(map[string]string)}
	data, err := os.ReadFile(filepath.Join(dir, cacheStoreFilename))
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Warnf("dictionary: cache store at %s is corrupt, starting empty: %v", dir, err)
		s.entries = make(map[string]string)
	}
	return s
}

// Get returns the stored content hash for pathHash, if any.
func (s *Store) Get(pathHash string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[pathHash]
	return v, ok
}

// Set records pathHash -> contentHash and persists the store. Write errors
// are logged and downgrade to a cache-miss on the next lookup rather than
// failing the caller's compile.
func (s *Store) Set(pathHash, contentHash string) {
	s.mu.Lock()
	s.entries[pathHash] = contentHash
	snapshot := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		snapshot[k] = v
	}
	s.mu.Unlock()

	if err := s.save(snapshot); err != nil {
		log.Warnf("dictionary: failed to persist cache store: %v", err)
	}
}

// ArtifactPath returns the path a compiled word-index for pathHash would be
// stored at.
func (s *Store) ArtifactPath(pathHash string) string {
	return filepath.Join(s.dir, pathHash+".bin")
}

func (s *Store) save(entries map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "cache-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, filepath.Join(s.dir, cacheStoreFilename))
}
