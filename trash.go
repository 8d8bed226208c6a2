package iview

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// DirTrash is the default Trasher: it renames files into a per-user trash
// directory instead of deleting them, so a delete stays recoverable. Name
// collisions get a timestamp suffix.
type DirTrash struct {
	fs  afero.Fs
	dir string
}

// NewDirTrash creates a trasher moving files into dir. An empty dir selects
// a per-user default.
func NewDirTrash(fs afero.Fs, dir string) *DirTrash {
	if dir == "" {
		dir = defaultTrashDir()
	}
	return &DirTrash{fs: fs, dir: dir}
}

func defaultTrashDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".iview-trash"
	}
	return filepath.Join(homeDir, ".iview-trash")
}

func (t *DirTrash) MoveToTrash(path string) error {
	if err := t.fs.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create trash dir: %w", err)
	}

	target := filepath.Join(t.dir, filepath.Base(path))
	if exists, _ := afero.Exists(t.fs, target); exists {
		target = filepath.Join(t.dir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(path)))
	}

	if err := t.fs.Rename(path, target); err != nil {
		return fmt.Errorf("trash %s: %w", path, err)
	}
	return nil
}
