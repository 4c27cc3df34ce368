// Package preview resolves the active clip for a playhead time and produces
// a displayable frame, caching extracted frames with FIFO eviction.
package preview

import "math"

// DefaultCacheCapacity bounds the frame cache.
const DefaultCacheCapacity = 50

// FrameCache is a bounded FIFO cache keyed by playhead time rounded to two
// decimals. It is owned by a Renderer instance, not shared globally, so
// independent timelines get independent caches.
type FrameCache struct {
	capacity int
	entries  map[float64]*Frame
	order    []float64
}

func NewFrameCache(capacity int) *FrameCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &FrameCache{
		capacity: capacity,
		entries:  make(map[float64]*Frame),
	}
}

// CacheKey rounds a playhead time to the cache's two-decimal resolution.
func CacheKey(t float64) float64 {
	return math.Round(t*100) / 100
}

// Get returns the cached frame for the time, or nil.
func (c *FrameCache) Get(t float64) *Frame {
	return c.entries[CacheKey(t)]
}

// Put stores a frame, evicting the earliest-inserted entry at capacity.
func (c *FrameCache) Put(t float64, f *Frame) {
	key := CacheKey(t)
	if _, ok := c.entries[key]; ok {
		c.entries[key] = f
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = f
	c.order = append(c.order, key)
}

// Len returns the number of cached frames.
func (c *FrameCache) Len() int {
	return len(c.order)
}

// Clear drops every cached frame.
func (c *FrameCache) Clear() {
	c.entries = make(map[float64]*Frame)
	c.order = nil
}
