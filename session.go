package iview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Deps bundles the session's external collaborators. Zero-value fields get
// working defaults over the OS filesystem; Sink may stay nil for a headless
// session that is driven purely through queries.
type Deps struct {
	FS     afero.Fs
	Store  KVStore
	Trash  Trasher
	Warmer Warmer
	Probe  MetadataProbe
	Sink   func(Event)
}

// Session is the image browsing session controller. It owns the ordered
// image list, the cursor, the view transform, the prefetch window, the
// slideshow timer and the folder history.
//
// All state lives on a single owner goroutine. Public methods hand their
// work to that goroutine and wait for it, so calls are serialized and
// non-reentrant. Background work (folder enumeration, trashing, watch
// events, slideshow ticks) posts results back onto the owner; results
// arriving after Close are dropped, never applied to stale state.
type Session struct {
	cfg    Config
	fs     afero.Fs
	trash  Trasher
	probe  MetadataProbe
	sink   func(Event)
	sorter SortStrategy

	loader    *Loader
	history   *FolderHistory
	transform *Transform
	prefetch  *Prefetcher
	show      slideshow
	watcher   *folderWatcher

	folder  string
	entries Collection
	idx     int

	ops       chan func()
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession builds a session from cfg and deps and starts its owner loop.
func NewSession(cfg Config, deps Deps) *Session {
	fs := deps.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	store := deps.Store
	if store == nil {
		store = NewFileStore(fs, DefaultStatePath())
	}
	trash := deps.Trash
	if trash == nil {
		trash = NewDirTrash(fs, "")
	}
	warmer := deps.Warmer
	if warmer == nil {
		warmer = NewByteCache(fs, cfg.CacheSize)
	}
	probe := deps.Probe
	if probe == nil {
		probe = NewDecodeProbe(fs)
	}

	sorter := GetSortStrategy(cfg.SortMethod)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		cfg:       cfg,
		fs:        fs,
		trash:     trash,
		probe:     probe,
		sink:      deps.Sink,
		sorter:    sorter,
		loader:    NewLoader(fs, sorter),
		history:   NewFolderHistory(store, cfg.HistoryCapacity),
		transform: NewTransform(),
		idx:       -1,
		ops:       make(chan func(), 16),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	radius := cfg.PrefetchRadius
	if !cfg.PrefetchEnabled {
		warmer = nil
	}
	s.prefetch = NewPrefetcher(warmer, radius)
	s.show.interval = time.Duration(cfg.SlideshowIntervalSec * float64(time.Second))

	go s.loop()
	return s
}

// Close tears the session down: the slideshow timer and folder watcher are
// cancelled and any in-flight background result is discarded.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		if s.watcher != nil {
			s.watcher.stop()
		}
	})
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.ops:
			if s.ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}

// do runs fn on the owner goroutine and waits for it. After Close it is a
// no-op.
func (s *Session) do(fn func()) {
	ran := make(chan struct{})
	select {
	case s.ops <- func() { fn(); close(ran) }:
	case <-s.ctx.Done():
		return
	}
	select {
	case <-ran:
	case <-s.done:
	}
}

// post hands a background result to the owner goroutine without waiting.
// After Close the result is silently dropped.
func (s *Session) post(fn func()) {
	select {
	case s.ops <- fn:
	case <-s.ctx.Done():
	}
}

func (s *Session) emit(ev Event) {
	if s.sink != nil {
		s.sink(ev)
	}
}

// --- folder loading ---

// OpenFolder enumerates folder on a background worker and, on completion,
// swaps the collection in and resets the cursor. The outcome arrives as a
// CollectionLoaded or LoadFailed event.
func (s *Session) OpenFolder(folder string) {
	go func() {
		entries, err := s.loader.Load(folder)
		s.post(func() { s.applyLoad(folder, entries, err) })
	}()
}

func (s *Session) applyLoad(folder string, entries Collection, err error) {
	if err != nil {
		logger.Warnf("load %s: %v", folder, err)
		if errors.Is(err, ErrFolderNotFound) {
			// Stale history entries for vanished folders are purged,
			// not silently retried.
			before := s.history.Len()
			s.history.Remove(folder)
			if s.history.Len() != before {
				s.emit(HistoryChanged{Folders: s.history.List()})
			}
		}
		s.emit(LoadFailed{Folder: folder, Err: err})
		return
	}

	s.folder = folder
	s.entries = entries
	s.idx = 0
	s.transform.ResetAll()
	s.prefetch.Reset()
	s.prefetch.UpdateWindow(s.idx, s.entries)
	s.history.Add(folder)
	s.emit(HistoryChanged{Folders: s.history.List()})
	s.emit(CollectionLoaded{Folder: folder, Entries: s.snapshotEntries()})
	s.emit(CursorMoved{Index: s.idx, Entry: s.entries[s.idx]})

	if s.cfg.WatchFolder {
		s.restartWatcher(folder)
	}
}

// --- navigation ---

// Next advances the cursor by one; at the last index it is a no-op.
func (s *Session) Next() {
	s.do(func() {
		if s.idx >= 0 && s.idx < len(s.entries)-1 {
			s.moveCursor(s.idx + 1)
		}
	})
}

// Previous steps the cursor back by one; at index 0 it is a no-op.
func (s *Session) Previous() {
	s.do(func() {
		if s.idx > 0 {
			s.moveCursor(s.idx - 1)
		}
	})
}

// JumpTo clamps index into the valid range and moves the cursor there. On
// an empty collection the cursor stays in the empty state.
func (s *Session) JumpTo(index int) {
	s.do(func() {
		if len(s.entries) == 0 {
			return
		}
		if index < 0 {
			index = 0
		}
		if index > len(s.entries)-1 {
			index = len(s.entries) - 1
		}
		if index != s.idx {
			s.moveCursor(index)
		}
	})
}

// moveCursor is the single index mutation point: every successful change
// resets the transform and refreshes the prefetch window.
func (s *Session) moveCursor(to int) {
	s.idx = to
	s.transform.ResetAll()
	s.prefetch.UpdateWindow(s.idx, s.entries)
	s.emit(CursorMoved{Index: s.idx, Entry: s.entries[s.idx]})
}

// Current returns the entry under the cursor, its index, and whether the
// collection is non-empty.
func (s *Session) Current() (Entry, int, bool) {
	var (
		e  Entry
		i  int
		ok bool
	)
	s.do(func() {
		i = s.idx
		if s.idx >= 0 && s.idx < len(s.entries) {
			e = s.entries[s.idx]
			ok = true
		}
	})
	return e, i, ok
}

// Entries returns a snapshot of the current collection.
func (s *Session) Entries() Collection {
	var out Collection
	s.do(func() { out = s.snapshotEntries() })
	return out
}

// Folder returns the currently open folder, or "".
func (s *Session) Folder() string {
	var f string
	s.do(func() { f = s.folder })
	return f
}

func (s *Session) snapshotEntries() Collection {
	out := make(Collection, len(s.entries))
	copy(out, s.entries)
	return out
}

// --- transform ---

// ZoomChanged tracks a live magnification gesture.
func (s *Session) ZoomChanged(factor float64) {
	s.do(func() {
		s.transform.ZoomChanged(factor)
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// ZoomEnded commits the gesture's scale, clamped.
func (s *Session) ZoomEnded() {
	s.do(func() {
		s.transform.ZoomEnded()
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// PanChanged tracks a live drag gesture.
func (s *Session) PanChanged(dx, dy float64) {
	s.do(func() {
		s.transform.PanChanged(dx, dy)
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// PanEnded commits the gesture's offset.
func (s *Session) PanEnded() {
	s.do(func() {
		s.transform.PanEnded()
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// Rotate turns the view by delta degrees (±90 per invocation).
func (s *Session) Rotate(delta int) {
	s.do(func() {
		s.transform.Rotate(delta)
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// ZoomIn steps the zoom up and disables the rotation auto-scale heuristic.
func (s *Session) ZoomIn() {
	s.do(func() {
		s.transform.ZoomIn()
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// ZoomOut steps the zoom down and disables the rotation auto-scale
// heuristic.
func (s *Session) ZoomOut() {
	s.do(func() {
		s.transform.ZoomOut()
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// ResetTransform restores the identity transform.
func (s *Session) ResetTransform() {
	s.do(func() {
		s.transform.ResetAll()
		s.emit(TransformChanged{State: s.transform.State()})
	})
}

// Transform returns a snapshot of the live view transform.
func (s *Session) Transform() TransformState {
	var st TransformState
	s.do(func() { st = s.transform.State() })
	return st
}

// RotationScaleFactor returns the rotation-dependent rendering shrink.
func (s *Session) RotationScaleFactor() float64 {
	var f float64
	s.do(func() { f = s.transform.RotationScaleFactor() })
	return f
}

// --- deletion ---

// DeleteCurrent removes the entry under the cursor from the collection
// immediately, then asks the Trasher to move the file on a background
// worker. If trashing fails the entry is restored at its original position
// (or appended when that position no longer exists) and the failure is
// surfaced as an EntryRestored plus SessionError event.
func (s *Session) DeleteCurrent() {
	s.do(s.deleteCurrent)
}

func (s *Session) deleteCurrent() {
	if s.idx < 0 || s.idx >= len(s.entries) {
		return
	}

	removedIdx := s.idx
	entry := s.entries[removedIdx]
	s.entries = s.entries.removeAt(removedIdx)

	if len(s.entries) == 0 {
		s.idx = -1
		s.transform.ResetAll()
		s.emit(EntryRemoved{Entry: entry, Index: removedIdx})
		s.emit(CursorMoved{Index: -1})
	} else {
		if s.idx >= len(s.entries) {
			s.idx = len(s.entries) - 1
		}
		s.transform.ResetAll()
		s.prefetch.UpdateWindow(s.idx, s.entries)
		s.emit(EntryRemoved{Entry: entry, Index: removedIdx})
		s.emit(CursorMoved{Index: s.idx, Entry: s.entries[s.idx]})
	}

	go func() {
		if err := s.trash.MoveToTrash(entry.Path); err != nil {
			s.post(func() { s.rollbackDelete(entry, removedIdx, err) })
		}
	}()
}

// rollbackDelete undoes the optimistic removal after a failed trash call.
// The collection may have changed between the two phases, so an
// out-of-range original position degrades to an append.
func (s *Session) rollbackDelete(entry Entry, removedIdx int, cause error) {
	if s.entries.indexOf(entry.Path) != -1 {
		return // already back, e.g. via a watcher-driven re-add
	}

	insertAt := removedIdx
	if insertAt > len(s.entries) {
		insertAt = len(s.entries)
	}
	s.entries = s.entries.insertAt(insertAt, entry)

	if s.idx == -1 {
		s.idx = insertAt
		s.transform.ResetAll()
		s.emit(EntryRestored{Entry: entry, Index: insertAt, Err: fmt.Errorf("%w: %v", ErrTrashFailed, cause)})
		s.emit(CursorMoved{Index: s.idx, Entry: s.entries[s.idx]})
	} else {
		if insertAt <= s.idx {
			s.idx++
		}
		s.emit(EntryRestored{Entry: entry, Index: insertAt, Err: fmt.Errorf("%w: %v", ErrTrashFailed, cause)})
	}
	s.prefetch.UpdateWindow(s.idx, s.entries)
	s.emit(SessionError{Err: fmt.Errorf("%w: %s: %v", ErrTrashFailed, entry.Name, cause)})
}

// --- vanished entries ---

// ReportVanished removes an entry whose file disappeared between listing
// and use, adjusts the cursor and reports the condition non-fatally. Hosts
// call this when a display load hits a missing file; the folder watcher
// calls it on remove/rename events.
func (s *Session) ReportVanished(path string) {
	s.do(func() { s.removeVanished(path) })
}

func (s *Session) removeVanished(path string) {
	i := s.entries.indexOf(path)
	if i == -1 {
		return
	}
	entry := s.entries[i]
	s.entries = s.entries.removeAt(i)

	switch {
	case len(s.entries) == 0:
		s.idx = -1
		s.transform.ResetAll()
		s.emit(EntryRemoved{Entry: entry, Index: i})
		s.emit(CursorMoved{Index: -1})
	case i < s.idx:
		// The displayed entry is unchanged, only its index shifted.
		s.idx--
		s.emit(EntryRemoved{Entry: entry, Index: i})
	case i == s.idx:
		if s.idx >= len(s.entries) {
			s.idx = len(s.entries) - 1
		}
		s.transform.ResetAll()
		s.prefetch.UpdateWindow(s.idx, s.entries)
		s.emit(EntryRemoved{Entry: entry, Index: i})
		s.emit(CursorMoved{Index: s.idx, Entry: s.entries[s.idx]})
	default:
		s.emit(EntryRemoved{Entry: entry, Index: i})
	}

	s.emit(SessionError{Err: fmt.Errorf("%w: %s", ErrFileVanished, entry.Name)})
}

// addDiscovered inserts a file the watcher found into the collection,
// keeping the configured order and the cursor on its current entry.
func (s *Session) addDiscovered(path string) {
	if s.folder == "" || !isSupportedExt(path) {
		return
	}
	e := newEntry(path)
	if len(e.Name) > 0 && e.Name[0] == '.' {
		return
	}
	if s.entries.indexOf(e.Path) != -1 {
		return // duplicate identifiers are never allowed
	}

	sorted := s.sorter.Sort(append(s.snapshotEntries(), e))
	insertAt := sorted.indexOf(e.Path)
	s.entries = sorted

	if s.idx == -1 {
		s.idx = 0
		s.transform.ResetAll()
		s.emit(EntryAdded{Entry: e, Index: insertAt})
		s.emit(CursorMoved{Index: s.idx, Entry: s.entries[s.idx]})
	} else {
		if insertAt <= s.idx {
			s.idx++
		}
		s.emit(EntryAdded{Entry: e, Index: insertAt})
	}
	s.prefetch.UpdateWindow(s.idx, s.entries)
}

// --- inspection ---

// InspectCurrent probes the current entry's attributes and dimensions on a
// background worker and reports them as an EntryInspected event. A probe
// failure degrades the dimension fields to unavailable; a vanished file is
// removed from the collection.
func (s *Session) InspectCurrent() {
	var entry Entry
	var ok bool
	s.do(func() {
		if s.idx >= 0 && s.idx < len(s.entries) {
			entry = s.entries[s.idx]
			ok = true
		}
	})
	if !ok {
		return
	}

	go func() {
		info := EntryInfo{Entry: entry}

		fi, err := s.fs.Stat(entry.Path)
		if err != nil {
			if os.IsNotExist(err) {
				s.post(func() { s.removeVanished(entry.Path) })
				return
			}
			logger.Warnf("stat %s: %v", entry.Path, err)
			info.Unavailable = true
		} else {
			info.Size = fi.Size()
			info.ModifiedAt = fi.ModTime()
			// Portable stat carries no birth time; the modification
			// time is the closest available stand-in.
			info.CreatedAt = fi.ModTime()
		}

		w, h, err := s.probe.Dimensions(entry.Path)
		if err != nil {
			logger.Warnf("probe %s: %v", entry.Path, err)
			info.Unavailable = true
		} else {
			info.Width = w
			info.Height = h
		}

		s.post(func() { s.emit(EntryInspected{Info: info}) })
	}()
}

// --- history ---

// HistoryList returns the folder history, most-recent-first.
func (s *Session) HistoryList() []string {
	var out []string
	s.do(func() { out = s.history.List() })
	return out
}

// RemoveHistoryAt drops one history entry by index.
func (s *Session) RemoveHistoryAt(index int) {
	s.do(func() {
		s.history.RemoveAt(index)
		s.emit(HistoryChanged{Folders: s.history.List()})
	})
}

// RemoveHistoryFolder drops one history entry by identifier.
func (s *Session) RemoveHistoryFolder(folder string) {
	s.do(func() {
		s.history.Remove(folder)
		s.emit(HistoryChanged{Folders: s.history.List()})
	})
}

// ClearHistory empties the folder history.
func (s *Session) ClearHistory() {
	s.do(func() {
		s.history.Clear()
		s.emit(HistoryChanged{Folders: s.history.List()})
	})
}
