package iview

import (
	"path/filepath"
	"strings"
)

// Entry is one image file in the session's collection.
// Immutable once created; the collection is rebuilt on folder load and
// mutated only by single-element remove/insert on deletion or rollback.
type Entry struct {
	Path string // absolute path, the entry's identifier
	Name string // last path component, used for ordering
	Ext  string // lowercase extension without the dot
}

// Collection is the ordered image list for one folder.
type Collection []Entry

func isSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tiff":
		return true
	default:
		return false
	}
}

func newEntry(path string) Entry {
	return Entry{
		Path: path,
		Name: filepath.Base(path),
		Ext:  strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
}

// indexOf returns the position of the entry with the given path, or -1.
func (c Collection) indexOf(path string) int {
	for i, e := range c {
		if e.Path == path {
			return i
		}
	}
	return -1
}

// insertAt returns a new collection with e inserted at idx. idx is clamped
// into [0, len(c)], so an out-of-range position degrades to an append.
func (c Collection) insertAt(idx int, e Entry) Collection {
	if idx < 0 {
		idx = 0
	}
	if idx > len(c) {
		idx = len(c)
	}
	out := make(Collection, 0, len(c)+1)
	out = append(out, c[:idx]...)
	out = append(out, e)
	out = append(out, c[idx:]...)
	return out
}

// removeAt returns a new collection without the entry at idx.
func (c Collection) removeAt(idx int) Collection {
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:idx]...)
	out = append(out, c[idx+1:]...)
	return out
}
