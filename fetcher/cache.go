package fetcher

import (
	"os"
	"sync"

	"github.com/zeebo/xxh3"
)

// cacheEntry holds one cached file content with its validation metadata.
type cacheEntry struct {
	content []byte
	modTime int64
	size    int64
}

// contentCache caches file contents keyed by an xxh3 hash of the path,
// invalidated on modtime or size change.
type contentCache struct {
	mu      sync.RWMutex
	entries map[uint64]cacheEntry
}

func newContentCache() *contentCache {
	return &contentCache{entries: make(map[uint64]cacheEntry)}
}

func (c *contentCache) get(path string, info os.FileInfo) ([]byte, bool) {
	key := xxh3.HashString(path)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.modTime != info.ModTime().UnixNano() || entry.size != info.Size() {
		return nil, false
	}

	return entry.content, true
}

func (c *contentCache) set(path string, info os.FileInfo, content []byte) {
	key := xxh3.HashString(path)

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		content: content,
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
	}
	c.mu.Unlock()
}
