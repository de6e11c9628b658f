// pipeline.go — classify → extract → summarize → route, memoized.
package stream

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline turns raw blocks into classified events. One instance per
// session; not safe for concurrent use (blocks of a session are processed
// strictly one at a time). The cache may be shared across pipelines.
type Pipeline struct {
	cache        *LRUCache
	summaryLimit int

	now    func() time.Time
	newID  func() string
	lastTS time.Time
}

// NewPipeline creates a pipeline backed by the given cache. A nil cache gets
// a private default-capacity one.
func NewPipeline(cache *LRUCache, summaryLimit int) *Pipeline {
	if cache == nil {
		cache = NewLRUCache(DefaultCacheCapacity)
	}
	if summaryLimit <= 0 {
		summaryLimit = DefaultSummaryLimit
	}
	return &Pipeline{
		cache:        cache,
		summaryLimit: summaryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithClock overrides the timestamp source. Test hook.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Process classifies one raw block into its event list. Cache hits return
// the previously computed events unchanged, with no re-classification and no
// side effects. Blank blocks produce no events.
func (p *Pipeline) Process(block string) []Event {
	if len(block) == 0 {
		return nil
	}
	key := CacheKey(block)
	if events, ok := p.cache.Get(key); ok {
		return events
	}

	category := Classify(block)
	meta := ExtractMetadata(category, block)
	content := Summarize(category, block, meta, p.summaryLimit)
	side := RouteDisplay(category, content)

	events := []Event{{
		ID:          p.newID(),
		Category:    category,
		Content:     content,
		Metadata:    meta,
		DisplaySide: side,
		Priority:    routePriority(category, side),
		Timestamp:   p.tick(),
	}}
	p.cache.Put(key, events)
	return events
}

// tick returns a timestamp that never decreases within this pipeline.
func (p *Pipeline) tick() time.Time {
	ts := p.now()
	if ts.Before(p.lastTS) {
		ts = p.lastTS
	}
	p.lastTS = ts
	return ts
}
