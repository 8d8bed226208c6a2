package iview

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) sink(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) has(pred func(Event) bool) bool {
	for _, ev := range r.snapshot() {
		if pred(ev) {
			return true
		}
	}
	return false
}

type recordWarmer struct {
	mu    sync.Mutex
	paths []string
}

func (w *recordWarmer) Warm(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths = append(w.paths, path)
	return nil
}

func (w *recordWarmer) warmed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.paths))
	copy(out, w.paths)
	return out
}

type failTrash struct{}

func (failTrash) MoveToTrash(string) error { return errors.New("trash daemon unreachable") }

type stubProbe struct {
	w, h int
	err  error
}

func (p stubProbe) Dimensions(string) (int, int, error) { return p.w, p.h, p.err }

type sessionFixture struct {
	s   *Session
	rec *eventRecorder
	fs  afero.Fs
}

func newSessionFixture(t *testing.T, files []string, mod func(*Config, *Deps)) *sessionFixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	if len(files) > 0 {
		writeFiles(t, fs, "/pics", files)
	}

	rec := &eventRecorder{}
	cfg := DefaultConfig()
	cfg.WatchFolder = false
	deps := Deps{
		FS:    fs,
		Store: NewFileStore(fs, "/state.json"),
		Trash: NewDirTrash(fs, "/trash"),
		Probe: stubProbe{w: 640, h: 480},
		Sink:  rec.sink,
	}
	if mod != nil {
		mod(&cfg, &deps)
	}

	s := NewSession(cfg, deps)
	t.Cleanup(s.Close)
	return &sessionFixture{s: s, rec: rec, fs: fs}
}

func (f *sessionFixture) openAndWait(t *testing.T, folder string, want int) {
	t.Helper()
	f.s.OpenFolder(folder)
	require.Eventually(t, func() bool {
		return len(f.s.Entries()) == want
	}, waitFor, tick, "folder %s never reached %d entries", folder, want)
}

func currentName(t *testing.T, s *Session) string {
	t.Helper()
	e, _, ok := s.Current()
	require.True(t, ok, "no current entry")
	return e.Name
}

func TestOpenFolderFiltersAndOrders(t *testing.T) {
	f := newSessionFixture(t, []string{"b.png", "A.JPG", "c.txt", "d.gif"}, nil)
	f.openAndWait(t, "/pics", 3)

	assert.Equal(t, []string{"A.JPG", "b.png", "d.gif"}, names(f.s.Entries()))

	_, idx, ok := f.s.Current()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "A.JPG", currentName(t, f.s))
	assert.Equal(t, "/pics", f.s.Folder())
}

func TestOpenFolderEmitsLoadedThenCursor(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)

	require.Eventually(t, func() bool {
		return f.rec.has(func(ev Event) bool { _, ok := ev.(CursorMoved); return ok })
	}, waitFor, tick)

	var loadedAt, cursorAt = -1, -1
	for i, ev := range f.rec.snapshot() {
		switch ev.(type) {
		case CollectionLoaded:
			if loadedAt == -1 {
				loadedAt = i
			}
		case CursorMoved:
			if cursorAt == -1 {
				cursorAt = i
			}
		}
	}
	require.NotEqual(t, -1, loadedAt)
	require.NotEqual(t, -1, cursorAt)
	assert.Less(t, loadedAt, cursorAt, "CollectionLoaded must precede CursorMoved")
}

func TestOpenFolderRecordsHistory(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)

	assert.Equal(t, []string{"/pics"}, f.s.HistoryList())
}

func TestOpenMissingFolderFailsAndPurgesHistory(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)
	require.Contains(t, f.s.HistoryList(), "/pics")

	require.NoError(t, f.fs.RemoveAll("/pics"))
	f.s.OpenFolder("/pics")

	require.Eventually(t, func() bool {
		return f.rec.has(func(ev Event) bool {
			lf, ok := ev.(LoadFailed)
			return ok && errors.Is(lf.Err, ErrFolderNotFound)
		})
	}, waitFor, tick)

	assert.NotContains(t, f.s.HistoryList(), "/pics")
}

func TestOpenEmptyFolderIsReportedNotFatal(t *testing.T) {
	f := newSessionFixture(t, nil, nil)
	require.NoError(t, f.fs.MkdirAll("/docs", 0o755))
	require.NoError(t, afero.WriteFile(f.fs, "/docs/readme.txt", []byte("x"), 0o644))

	f.s.OpenFolder("/docs")
	require.Eventually(t, func() bool {
		return f.rec.has(func(ev Event) bool {
			lf, ok := ev.(LoadFailed)
			return ok && errors.Is(lf.Err, ErrEmptyFolder)
		})
	}, waitFor, tick)

	// The session stays alive and can load another folder afterwards.
	writeFiles(t, f.fs, "/pics", []string{"a.png"})
	f.openAndWait(t, "/pics", 1)
}

func TestNavigationBounds(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, nil)
	f.openAndWait(t, "/pics", 3)

	// previous at index 0 is a no-op
	f.s.Previous()
	_, idx, _ := f.s.Current()
	assert.Equal(t, 0, idx)

	f.s.Next()
	f.s.Next()
	_, idx, _ = f.s.Current()
	assert.Equal(t, 2, idx)

	// next at the last index is a no-op
	f.s.Next()
	_, idx, _ = f.s.Current()
	assert.Equal(t, 2, idx)

	f.s.Previous()
	_, idx, _ = f.s.Current()
	assert.Equal(t, 1, idx)
}

func TestJumpToClamps(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, nil)
	f.openAndWait(t, "/pics", 3)

	f.s.JumpTo(99)
	_, idx, _ := f.s.Current()
	assert.Equal(t, 2, idx)

	f.s.JumpTo(-5)
	_, idx, _ = f.s.Current()
	assert.Equal(t, 0, idx)
}

func TestCursorMoveResetsTransform(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png"}, nil)
	f.openAndWait(t, "/pics", 2)

	f.s.Rotate(90)
	f.s.ZoomIn()
	st := f.s.Transform()
	require.Equal(t, 90, st.Rotation)

	f.s.Next()
	st = f.s.Transform()
	assert.Equal(t, 0, st.Rotation)
	assert.Equal(t, 1.0, st.Scale)
	assert.Equal(t, 0.0, st.OffsetX)
	assert.Equal(t, 0.0, st.OffsetY)
}

func TestRotationScaleFactorThroughSession(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)

	f.s.Rotate(90)
	assert.Equal(t, 0.8, f.s.RotationScaleFactor())
	assert.Equal(t, 0.8, f.s.Transform().Scale)

	f.s.Rotate(-90)
	assert.Equal(t, 1.0, f.s.RotationScaleFactor())
	assert.Equal(t, 1.0, f.s.Transform().Scale)
}

func TestSlideshowAdvancesAndStopsAtEnd(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, func(cfg *Config, _ *Deps) {
		cfg.SlideshowIntervalSec = 0.02
	})
	f.openAndWait(t, "/pics", 3)

	f.s.ToggleSlideshow()
	require.True(t, f.s.SlideshowRunning())

	require.Eventually(t, func() bool {
		_, idx, _ := f.s.Current()
		return idx == 2 && !f.s.SlideshowRunning()
	}, waitFor, tick, "slideshow never reached the last index and stopped")

	// The cursor never moved past the end.
	_, idx, _ := f.s.Current()
	assert.Equal(t, 2, idx)

	started := f.rec.has(func(ev Event) bool { sc, ok := ev.(SlideshowChanged); return ok && sc.Running })
	stopped := f.rec.has(func(ev Event) bool { sc, ok := ev.(SlideshowChanged); return ok && !sc.Running })
	assert.True(t, started)
	assert.True(t, stopped)
}

func TestSlideshowToggleStops(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, func(cfg *Config, _ *Deps) {
		cfg.SlideshowIntervalSec = 10 // long enough to never tick during the test
	})
	f.openAndWait(t, "/pics", 3)

	f.s.ToggleSlideshow()
	require.True(t, f.s.SlideshowRunning())
	f.s.ToggleSlideshow()
	require.False(t, f.s.SlideshowRunning())

	// stop is idempotent
	f.s.StopSlideshow()
	f.s.StopSlideshow()
	assert.False(t, f.s.SlideshowRunning())
}

func TestSlideshowOnEmptyCollectionIsNoop(t *testing.T) {
	f := newSessionFixture(t, nil, nil)
	f.s.ToggleSlideshow()
	assert.False(t, f.s.SlideshowRunning())
}

func TestDeleteCurrentMovesFileToTrash(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, nil)
	f.openAndWait(t, "/pics", 3)

	f.s.Next() // cursor on b.png
	f.s.DeleteCurrent()

	assert.Equal(t, []string{"a.png", "c.png"}, names(f.s.Entries()))
	assert.Equal(t, "c.png", currentName(t, f.s))

	require.Eventually(t, func() bool {
		gone, _ := afero.Exists(f.fs, "/pics/b.png")
		trashed, _ := afero.Exists(f.fs, filepath.Join("/trash", "b.png"))
		return !gone && trashed
	}, waitFor, tick, "file never arrived in trash")
}

func TestDeleteLastIndexDecrementsCursor(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, nil)
	f.openAndWait(t, "/pics", 3)

	f.s.JumpTo(2)
	f.s.DeleteCurrent()

	_, idx, ok := f.s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "b.png", currentName(t, f.s))
}

func TestDeleteOnlyImageEmptiesAndResets(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)

	f.s.Rotate(90)
	f.s.DeleteCurrent()

	_, idx, ok := f.s.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	assert.Empty(t, f.s.Entries())

	st := f.s.Transform()
	assert.Equal(t, 0, st.Rotation)
	assert.Equal(t, 1.0, st.Scale)
}

func TestDeleteOnEmptyCollectionIsNoop(t *testing.T) {
	f := newSessionFixture(t, nil, nil)
	f.s.DeleteCurrent() // must not panic or emit
	assert.Empty(t, f.s.Entries())
}

func TestTrashFailureRollsBack(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, func(_ *Config, deps *Deps) {
		deps.Trash = failTrash{}
	})
	f.openAndWait(t, "/pics", 3)

	f.s.Next() // cursor on b.png
	f.s.DeleteCurrent()

	// The entry comes back at its original position.
	require.Eventually(t, func() bool {
		return len(f.s.Entries()) == 3
	}, waitFor, tick, "entry never restored after trash failure")

	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, names(f.s.Entries()))

	_, idx, ok := f.s.Current()
	require.True(t, ok)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 3)

	restored := f.rec.has(func(ev Event) bool {
		er, ok := ev.(EntryRestored)
		return ok && er.Entry.Name == "b.png" && errors.Is(er.Err, ErrTrashFailed)
	})
	surfaced := f.rec.has(func(ev Event) bool {
		se, ok := ev.(SessionError)
		return ok && errors.Is(se.Err, ErrTrashFailed)
	})
	assert.True(t, restored, "missing EntryRestored event")
	assert.True(t, surfaced, "missing SessionError event")
}

func TestTrashFailureOnOnlyImageRestoresCursor(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, func(_ *Config, deps *Deps) {
		deps.Trash = failTrash{}
	})
	f.openAndWait(t, "/pics", 1)

	f.s.DeleteCurrent()

	require.Eventually(t, func() bool {
		_, idx, ok := f.s.Current()
		return ok && idx == 0
	}, waitFor, tick, "cursor never restored after rollback")
	assert.Equal(t, "a.png", currentName(t, f.s))
}

func TestReportVanishedCurrentEntry(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, nil)
	f.openAndWait(t, "/pics", 3)

	f.s.Next() // cursor on b.png
	f.s.ReportVanished("/pics/b.png")

	assert.Equal(t, []string{"a.png", "c.png"}, names(f.s.Entries()))
	assert.Equal(t, "c.png", currentName(t, f.s))

	assert.True(t, f.rec.has(func(ev Event) bool {
		se, ok := ev.(SessionError)
		return ok && errors.Is(se.Err, ErrFileVanished)
	}))
}

func TestReportVanishedBeforeCursorKeepsDisplayedEntry(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png"}, nil)
	f.openAndWait(t, "/pics", 3)

	f.s.JumpTo(2) // cursor on c.png
	f.s.ReportVanished("/pics/a.png")

	_, idx, ok := f.s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "c.png", currentName(t, f.s))
}

func TestReportVanishedUnknownPathIsNoop(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)

	f.s.ReportVanished("/pics/never-listed.png")
	assert.Len(t, f.s.Entries(), 1)
}

func TestPrefetchWarmsWindowAroundCursor(t *testing.T) {
	warmer := &recordWarmer{}
	f := newSessionFixture(t, []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"},
		func(_ *Config, deps *Deps) { deps.Warmer = warmer })
	f.openAndWait(t, "/pics", 6)

	// Window [0-2, 0+2] clamped: indices 0..2
	expected := []string{"/pics/a.png", "/pics/b.png", "/pics/c.png"}
	require.Eventually(t, func() bool {
		return len(warmer.warmed()) == len(expected)
	}, waitFor, tick)
	assert.ElementsMatch(t, expected, warmer.warmed())

	// Moving the cursor extends the window; already-warmed entries are
	// never requested twice.
	f.s.Next()
	require.Eventually(t, func() bool {
		return len(warmer.warmed()) == 4
	}, waitFor, tick)
	assert.Contains(t, warmer.warmed(), "/pics/d.png")

	seen := map[string]int{}
	for _, p := range warmer.warmed() {
		seen[p]++
		assert.Equal(t, 1, seen[p], "path %s warmed more than once", p)
	}
}

func TestPrefetchDisabled(t *testing.T) {
	warmer := &recordWarmer{}
	f := newSessionFixture(t, []string{"a.png", "b.png"}, func(cfg *Config, deps *Deps) {
		cfg.PrefetchEnabled = false
		deps.Warmer = warmer
	})
	f.openAndWait(t, "/pics", 2)

	f.s.Next()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, warmer.warmed())
}

func TestInspectCurrentReportsInfo(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	f.openAndWait(t, "/pics", 1)

	f.s.InspectCurrent()

	require.Eventually(t, func() bool {
		return f.rec.has(func(ev Event) bool {
			ei, ok := ev.(EntryInspected)
			return ok && ei.Info.Entry.Name == "a.png"
		})
	}, waitFor, tick)

	var info EntryInfo
	for _, ev := range f.rec.snapshot() {
		if ei, ok := ev.(EntryInspected); ok {
			info = ei.Info
		}
	}
	assert.False(t, info.Unavailable)
	assert.Equal(t, 640, info.Width)
	assert.Equal(t, 480, info.Height)
	assert.Equal(t, int64(1), info.Size)
	assert.False(t, info.ModifiedAt.IsZero())
}

func TestInspectDegradesOnProbeFailure(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, func(_ *Config, deps *Deps) {
		deps.Probe = stubProbe{err: ErrProbeFailed}
	})
	f.openAndWait(t, "/pics", 1)

	f.s.InspectCurrent()

	require.Eventually(t, func() bool {
		return f.rec.has(func(ev Event) bool {
			ei, ok := ev.(EntryInspected)
			return ok && ei.Info.Unavailable
		})
	}, waitFor, tick)

	// The entry stays in the collection; probe failures are not fatal.
	assert.Len(t, f.s.Entries(), 1)
}

func TestInspectVanishedFileRemovesEntry(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png"}, nil)
	f.openAndWait(t, "/pics", 2)

	require.NoError(t, f.fs.Remove("/pics/a.png"))
	f.s.InspectCurrent()

	require.Eventually(t, func() bool {
		return len(f.s.Entries()) == 1
	}, waitFor, tick)
	assert.Equal(t, "b.png", currentName(t, f.s))
}

func TestHistoryOperationsThroughSession(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png"}, nil)
	writeFiles(t, f.fs, "/more", []string{"b.png"})

	f.openAndWait(t, "/pics", 1)
	f.s.OpenFolder("/more")
	require.Eventually(t, func() bool {
		return f.s.Folder() == "/more"
	}, waitFor, tick)

	assert.Equal(t, []string{"/more", "/pics"}, f.s.HistoryList())

	f.s.RemoveHistoryAt(0)
	assert.Equal(t, []string{"/pics"}, f.s.HistoryList())

	f.s.ClearHistory()
	assert.Empty(t, f.s.HistoryList())
}

func TestCloseIsSafeAndIdempotent(t *testing.T) {
	f := newSessionFixture(t, []string{"a.png", "b.png"}, func(cfg *Config, _ *Deps) {
		cfg.SlideshowIntervalSec = 0.02
	})
	f.openAndWait(t, "/pics", 2)
	f.s.ToggleSlideshow()

	f.s.Close()
	f.s.Close()

	// Post-close calls are no-ops and must not block or panic.
	f.s.Next()
	f.s.DeleteCurrent()
	f.s.OpenFolder("/pics")
	assert.Empty(t, f.s.Entries())
}
