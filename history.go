package iview

import (
	"encoding/json"
	"path/filepath"
)

const (
	historyKey = "folder_history"

	// DefaultHistoryCapacity bounds the folder history; the oldest entry is
	// evicted when a new folder would push the list past this length.
	DefaultHistoryCapacity = 20
)

// FolderHistory is a bounded, deduplicated, most-recently-used-first record
// of opened folders. Every mutating call persists the full list through the
// KVStore collaborator. The type is confined to the session's owner
// goroutine and holds no locks of its own.
type FolderHistory struct {
	store    KVStore
	capacity int
	folders  []string
}

// NewFolderHistory creates a history backed by store, restoring any
// previously persisted list. A capacity < 1 falls back to the default.
func NewFolderHistory(store KVStore, capacity int) *FolderHistory {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	h := &FolderHistory{store: store, capacity: capacity}

	if raw, ok := store.Get(historyKey); ok {
		var folders []string
		if err := json.Unmarshal([]byte(raw), &folders); err != nil {
			logger.Warnf("invalid persisted history, starting empty: %v", err)
		} else {
			if len(folders) > capacity {
				folders = folders[:capacity]
			}
			h.folders = folders
		}
	}
	return h
}

// normalizeFolder produces the canonical identifier used for history
// deduplication. Comparison on the result is case-sensitive exact match.
func normalizeFolder(folder string) string {
	if abs, err := filepath.Abs(folder); err == nil {
		return abs
	}
	return filepath.Clean(folder)
}

// Add moves folder to the front of the history, deduplicating any earlier
// occurrence and evicting the oldest entry past capacity. Repeated adds of
// the same folder are idempotent in content and length.
func (h *FolderHistory) Add(folder string) {
	id := normalizeFolder(folder)

	kept := make([]string, 0, len(h.folders)+1)
	kept = append(kept, id)
	for _, f := range h.folders {
		if f != id {
			kept = append(kept, f)
		}
	}
	if len(kept) > h.capacity {
		kept = kept[:h.capacity]
	}
	h.folders = kept
	h.persist()
}

// Remove drops the entry matching the normalized identifier. Absent entries
// are a no-op, not an error.
func (h *FolderHistory) Remove(folder string) {
	id := normalizeFolder(folder)
	for i, f := range h.folders {
		if f == id {
			h.folders = append(h.folders[:i], h.folders[i+1:]...)
			h.persist()
			return
		}
	}
}

// RemoveAt drops the entry at index. Out-of-range indices are a no-op.
func (h *FolderHistory) RemoveAt(index int) {
	if index < 0 || index >= len(h.folders) {
		return
	}
	h.folders = append(h.folders[:index], h.folders[index+1:]...)
	h.persist()
}

// Clear empties the history.
func (h *FolderHistory) Clear() {
	h.folders = nil
	h.persist()
}

// List returns the folders most-recent-first. The returned slice is a copy.
func (h *FolderHistory) List() []string {
	out := make([]string, len(h.folders))
	copy(out, h.folders)
	return out
}

// Len returns the number of recorded folders.
func (h *FolderHistory) Len() int {
	return len(h.folders)
}

func (h *FolderHistory) persist() {
	data, err := json.Marshal(h.folders)
	if err != nil {
		logger.Errorf("marshal history: %v", err)
		return
	}
	if err := h.store.Set(historyKey, string(data)); err != nil {
		logger.Errorf("persist history: %v", err)
	}
}
