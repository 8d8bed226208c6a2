package iview

import "time"

// slideshow is the owner-confined auto-advance state. At most one ticker
// goroutine is live; gen invalidates ticks from earlier incarnations that
// may still be queued on the owner loop.
type slideshow struct {
	running  bool
	interval time.Duration
	gen      int
	halt     chan struct{}
}

// ToggleSlideshow flips the slideshow between stopped and running.
func (s *Session) ToggleSlideshow() {
	s.do(func() {
		if s.show.running {
			s.stopSlideshow()
		} else {
			s.startSlideshow()
		}
	})
}

// StopSlideshow stops the slideshow. Idempotent.
func (s *Session) StopSlideshow() {
	s.do(s.stopSlideshow)
}

// SlideshowRunning reports whether the slideshow is active.
func (s *Session) SlideshowRunning() bool {
	var running bool
	s.do(func() { running = s.show.running })
	return running
}

func (s *Session) startSlideshow() {
	if len(s.entries) == 0 {
		return
	}
	// Starting while running replaces the live ticker; never leak one.
	if s.show.halt != nil {
		close(s.show.halt)
	}
	s.show.gen++
	s.show.halt = make(chan struct{})
	s.show.running = true

	go s.runSlideshow(s.show.gen, s.show.halt, s.show.interval)
	s.emit(SlideshowChanged{Running: true})
}

func (s *Session) stopSlideshow() {
	if s.show.halt != nil {
		close(s.show.halt)
		s.show.halt = nil
	}
	if !s.show.running {
		return
	}
	s.show.running = false
	s.emit(SlideshowChanged{Running: false})
}

func (s *Session) runSlideshow(gen int, halt <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = time.Duration(defaultSlideshowInterval * float64(time.Second))
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-halt:
			return
		case <-ticker.C:
			s.post(func() { s.slideshowTick(gen) })
		}
	}
}

// slideshowTick runs on the owner goroutine: one non-reentrant advance per
// tick, so overlapping ticks can never double-advance. Reaching the last
// index stops the slideshow instead of wrapping.
func (s *Session) slideshowTick(gen int) {
	if !s.show.running || gen != s.show.gen {
		return
	}
	if s.idx >= 0 && s.idx < len(s.entries)-1 {
		s.moveCursor(s.idx + 1)
	} else {
		s.stopSlideshow()
	}
}
