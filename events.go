package iview

// Event describes one state change emitted by the session for a presentation
// layer to consume. Events are delivered on the session's owner goroutine, in
// the order the mutations happened.
type Event interface {
	isEvent()
}

// CollectionLoaded is emitted when a folder load completes successfully.
type CollectionLoaded struct {
	Folder  string
	Entries Collection
}

func (CollectionLoaded) isEvent() {}

// LoadFailed is emitted when a folder load fails. Err matches one of
// ErrFolderNotFound, ErrPermissionDenied or ErrEmptyFolder via errors.Is.
type LoadFailed struct {
	Folder string
	Err    error
}

func (LoadFailed) isEvent() {}

// CursorMoved is emitted on every successful index change. Index is -1 and
// Entry is zero when the collection became empty.
type CursorMoved struct {
	Index int
	Entry Entry
}

func (CursorMoved) isEvent() {}

// TransformChanged is emitted when the view transform changes outside of a
// cursor move (zoom, pan, rotate, reset).
type TransformChanged struct {
	State TransformState
}

func (TransformChanged) isEvent() {}

// HistoryChanged is emitted after every folder-history mutation.
type HistoryChanged struct {
	Folders []string
}

func (HistoryChanged) isEvent() {}

// SlideshowChanged is emitted when the slideshow starts or stops.
type SlideshowChanged struct {
	Running bool
}

func (SlideshowChanged) isEvent() {}

// EntryRemoved is emitted when an entry leaves the collection, either by the
// optimistic delete or because the file vanished on disk.
type EntryRemoved struct {
	Entry Entry
	Index int
}

func (EntryRemoved) isEvent() {}

// EntryRestored is emitted when a failed trash operation rolls back the
// optimistic removal. Err wraps ErrTrashFailed.
type EntryRestored struct {
	Entry Entry
	Index int
	Err   error
}

func (EntryRestored) isEvent() {}

// EntryAdded is emitted when the folder watcher picks up a new supported
// file in the open folder.
type EntryAdded struct {
	Entry Entry
	Index int
}

func (EntryAdded) isEvent() {}

// EntryInspected is emitted when a metadata probe for the current entry
// completes. Fields the probe could not read are left at their zero values
// with Unavailable set.
type EntryInspected struct {
	Info EntryInfo
}

func (EntryInspected) isEvent() {}

// SessionError is emitted for recoverable failures that the host should
// surface: trash rollback, vanished files, probe failures.
type SessionError struct {
	Err error
}

func (SessionError) isEvent() {}
