package iview

// DefaultPrefetchRadius is how far around the cursor the scheduler warms.
const DefaultPrefetchRadius = 2

// Prefetcher keeps a window of warmed entries around the cursor. Warm
// requests are fire-and-forget: the caller is never blocked and failures are
// swallowed. The warmed set grows monotonically and is cleared only when a
// new collection is loaded, so it is bounded by the collection size.
type Prefetcher struct {
	warmer Warmer
	radius int
	warmed map[string]struct{}
}

// NewPrefetcher creates a scheduler over warmer. A radius < 1 falls back to
// the default. A nil warmer disables prefetching.
func NewPrefetcher(warmer Warmer, radius int) *Prefetcher {
	if radius < 1 {
		radius = DefaultPrefetchRadius
	}
	return &Prefetcher{
		warmer: warmer,
		radius: radius,
		warmed: map[string]struct{}{},
	}
}

// Reset clears the warmed set for a freshly loaded collection.
func (p *Prefetcher) Reset() {
	p.warmed = map[string]struct{}{}
}

// UpdateWindow warms every not-yet-warmed entry in [idx-radius, idx+radius]
// clamped to the collection bounds.
func (p *Prefetcher) UpdateWindow(idx int, entries Collection) {
	if p.warmer == nil || len(entries) == 0 || idx < 0 {
		return
	}

	lo := idx - p.radius
	if lo < 0 {
		lo = 0
	}
	hi := idx + p.radius
	if hi > len(entries)-1 {
		hi = len(entries) - 1
	}

	for i := lo; i <= hi; i++ {
		path := entries[i].Path
		if _, ok := p.warmed[path]; ok {
			continue
		}
		p.warmed[path] = struct{}{}

		go func(path string) {
			if err := p.warmer.Warm(path); err != nil {
				logger.Debugf("warm %s: %v", path, err)
			}
		}(path)
	}
}

// Warmed reports whether the entry was already requested this session.
func (p *Prefetcher) Warmed(path string) bool {
	_, ok := p.warmed[path]
	return ok
}
