package iview

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileStore is the default KVStore: a flat JSON object persisted to a single
// file. Every Set rewrites the file, which is fine for the small amount of
// state the session keeps (the folder history list).
type FileStore struct {
	fs   afero.Fs
	path string

	mu     sync.Mutex
	values map[string]string
}

// NewFileStore loads (or lazily creates) a JSON store at path.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	s := &FileStore{
		fs:     fs,
		path:   path,
		values: map[string]string{},
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		// Missing store is not an error - start empty
		return s
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		logger.Warnf("invalid state file %s, starting empty: %v", path, err)
		s.values = map[string]string{}
	}
	return s
}

// DefaultStatePath returns the per-user location of the session state file.
func DefaultStatePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "iview.json"
	}
	return filepath.Join(homeDir, ".iview.json")
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(s.fs, s.path, data, 0o644)
}
