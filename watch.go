package iview

import (
	"github.com/fsnotify/fsnotify"
)

// folderWatcher follows the open folder with fsnotify and feeds file
// appearance/disappearance into the session's owner loop. It is best
// effort: a watcher that cannot start leaves the session fully functional,
// the collection just stops tracking outside changes.
type folderWatcher struct {
	fw   *fsnotify.Watcher
	halt chan struct{}
}

// restartWatcher points the watcher at folder, replacing any previous one.
// Runs on the owner goroutine.
func (s *Session) restartWatcher(folder string) {
	if s.watcher != nil {
		s.watcher.stop()
		s.watcher = nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("folder watcher unavailable: %v", err)
		return
	}
	if err := fw.Add(folder); err != nil {
		logger.Warnf("cannot watch %s: %v", folder, err)
		fw.Close()
		return
	}

	w := &folderWatcher{fw: fw, halt: make(chan struct{})}
	s.watcher = w
	go s.watchLoop(w)
	logger.Debugf("watching %s", folder)
}

func (w *folderWatcher) stop() {
	close(w.halt)
	w.fw.Close()
}

func (s *Session) watchLoop(w *folderWatcher) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-w.halt:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			s.handleFsEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warnf("watch error: %v", err)
		}
	}
}

func (s *Session) handleFsEvent(ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		path := ev.Name
		s.post(func() { s.removeVanished(path) })
	case ev.Op.Has(fsnotify.Create):
		path := ev.Name
		s.post(func() { s.addDiscovered(path) })
	}
}
