package iview

import "errors"

// Error kinds surfaced by the session. None of them are fatal: every failure
// narrows to "emit an event, keep the session alive, allow re-selection".
var (
	// ErrFolderNotFound reports that the requested folder does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrPermissionDenied reports that the folder exists but is unreadable.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEmptyFolder reports that the folder holds no supported images.
	// This is a reported condition, not a hard failure.
	ErrEmptyFolder = errors.New("no supported images in folder")

	// ErrProbeFailed reports a metadata or dimension read failure. Info
	// fields degrade to unavailable; the entry stays in the collection.
	ErrProbeFailed = errors.New("metadata probe failed")

	// ErrTrashFailed reports that the trash operation failed after the
	// optimistic removal; the entry has been restored.
	ErrTrashFailed = errors.New("move to trash failed")

	// ErrFileVanished reports that an entry disappeared between listing
	// and use.
	ErrFileVanished = errors.New("image file vanished")
)
