package iview

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

const defaultCacheSize = 16

// ByteCache is the default Warmer: an LRU of raw file contents keyed by
// path. It holds encoded bytes, not decoded pixels, so the renderer side
// still decodes; warming just moves the disk read off the navigation path.
type ByteCache struct {
	fs    afero.Fs
	cache *lru.Cache[string, []byte]
}

// NewByteCache creates a cache of at most size entries over fs.
func NewByteCache(fs afero.Fs, size int) *ByteCache {
	if size < 1 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		cache, _ = lru.New[string, []byte](defaultCacheSize)
	}
	return &ByteCache{fs: fs, cache: cache}
}

// Warm reads the file into the cache if it is not already present.
func (c *ByteCache) Warm(path string) error {
	if _, ok := c.cache.Get(path); ok {
		logger.Debugf("cache HIT: %s (cache: %d items)", path, c.cache.Len())
		return nil
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return err
	}
	c.cache.Add(path, data)
	logger.Debugf("cache MISS: %s, loaded and cached (cache: %d items)", path, c.cache.Len())
	return nil
}

// Get returns the cached bytes for path, if warmed.
func (c *ByteCache) Get(path string) ([]byte, bool) {
	return c.cache.Get(path)
}

// Len returns the number of cached entries.
func (c *ByteCache) Len() int {
	return c.cache.Len()
}
