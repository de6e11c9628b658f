// cache.go — bounded LRU memoization of classification results.
package stream

import (
	"container/list"
	"sync"
)

// cacheKeyLen is the fixed key prefix length in runes. Blocks sharing their
// first 100 characters resolve to the same cached result; this is a
// deliberate, documented sharing point across sessions.
const cacheKeyLen = 100

// DefaultCacheCapacity is used when the caller passes a non-positive size.
const DefaultCacheCapacity = 512

// CacheKey derives the memoization key for a raw block.
func CacheKey(block string) string {
	runes := []rune(block)
	if len(runes) <= cacheKeyLen {
		return block
	}
	return string(runes[:cacheKeyLen])
}

// LRUCache memoizes classified event lists keyed by block prefix. Safe for
// concurrent use; the pipeline itself is single-threaded per session but the
// cache is shared process-wide.
type LRUCache struct {
	mu    sync.Mutex
	cap   int
	order *list.List // front = most recent
	items map[string]*list.Element
}

type cacheEntry struct {
	key    string
	events []Event
}

// NewLRUCache creates a cache bounded to capacity entries.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &LRUCache{
		cap:   capacity,
		order: list.New(),
		items: make(map[string]*list.Element, capacity),
	}
}

// Get returns the memoized events for key, refreshing its recency.
func (c *LRUCache) Get(key string) ([]Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).events, true
}

// Put stores events under key, evicting the least recently used entry when
// full. Existing entries are overwritten in place.
func (c *LRUCache) Put(key string, events []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).events = events
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, events: events})
	c.items[key] = el
	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len reports the current entry count.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
