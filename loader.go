package iview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Loader scans one folder (non-recursive) and produces the ordered image
// collection. Loading is a pure read; it never mutates the filesystem.
type Loader struct {
	fs     afero.Fs
	sorter SortStrategy
}

// NewLoader creates a loader over fs using the given ordering. A nil sorter
// falls back to the by-name default.
func NewLoader(fs afero.Fs, sorter SortStrategy) *Loader {
	if sorter == nil {
		sorter = &ByNameSortStrategy{}
	}
	return &Loader{fs: fs, sorter: sorter}
}

// Load enumerates the direct entries of folder, excluding hidden files and
// subdirectories, filters by supported extension (case-insensitive) and
// returns the sorted collection.
//
// Failure kinds, matchable with errors.Is:
//   - ErrFolderNotFound    the folder does not exist
//   - ErrPermissionDenied  the folder is not readable
//   - ErrEmptyFolder       nothing matched after filtering
func (l *Loader) Load(folder string) (Collection, error) {
	info, err := l.fs.Stat(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, folder)
		}
		return nil, fmt.Errorf("stat %s: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFolderNotFound, folder)
	}

	infos, err := afero.ReadDir(l.fs, folder)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, folder)
		}
		return nil, fmt.Errorf("read %s: %w", folder, err)
	}

	var entries Collection
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		name := fi.Name()
		if strings.HasPrefix(name, ".") {
			continue // hidden
		}
		if !isSupportedExt(name) {
			continue
		}
		entries = append(entries, newEntry(filepath.Join(folder, name)))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFolder, folder)
	}

	return l.sorter.Sort(entries), nil
}
