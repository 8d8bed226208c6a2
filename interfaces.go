package iview

import "time"

// KVStore is the persistence collaborator for the folder history. The store
// only needs ordered-string-list durability; the default implementation is a
// JSON file (see FileStore).
type KVStore interface {
	// Get returns the stored value for key, or false if absent.
	Get(key string) (string, bool)
	// Set stores value under key.
	Set(key, value string) error
}

// Trasher moves a file to the OS trash or an equivalent recoverable
// location. It is invoked off the owner goroutine; implementations may
// block.
type Trasher interface {
	MoveToTrash(path string) error
}

// Warmer receives fire-and-forget prefetch requests. Failures are swallowed
// by the scheduler; warming is a best-effort optimization only.
type Warmer interface {
	Warm(path string) error
}

// MetadataProbe reads image dimensions for the info panel. A failure
// degrades the corresponding info fields, it never removes the entry.
type MetadataProbe interface {
	Dimensions(path string) (width, height int, err error)
}

// EntryInfo is the inspection result for one entry. When Unavailable is
// true the probe failed and Width/Height are meaningless; the stat fields
// are still filled when the file itself was readable.
type EntryInfo struct {
	Entry       Entry
	Size        int64
	CreatedAt   time.Time
	ModifiedAt  time.Time
	Width       int
	Height      int
	Unavailable bool
}
