package embedding

import "sync"

// DefaultCacheCapacity bounds the number of cached vectors.
const DefaultCacheCapacity = 1024

// Cache holds vectors by key. When full, the whole map is dropped before the
// next insert.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string][]float32
	capacity int
}

// NewCache returns an empty cache. A non-positive capacity uses the default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{entries: make(map[string][]float32), capacity: capacity}
}

// Get returns a copy of the cached vector.
func (c *Cache) Get(key string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return cloneVector(vec), true
}

// Put stores a copy of vec.
func (c *Cache) Put(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.capacity {
		c.entries = make(map[string][]float32, c.capacity)
	}
	c.entries[key] = cloneVector(vec)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]float32, c.capacity)
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
