// Package cache provides a process-wide in-memory TTL cache fronting the
// external NOAA data clients.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the background pass evicts expired entries.
// The sweep bounds memory; Get enforces expiry on its own either way.
const DefaultSweepInterval = 60 * time.Second

type entry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a concurrency-safe key/value store with per-entry expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	sweepInterval time.Duration
	stopSweep     chan struct{}
	startOnce     sync.Once
	stopOnce      sync.Once
}

// New creates a Cache. The sweep goroutine is not started until Start is called.
// If sweepInterval is <= 0, DefaultSweepInterval is used.
func New(sweepInterval time.Duration) *Cache {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Cache{
		entries:       make(map[string]entry),
		sweepInterval: sweepInterval,
		stopSweep:     make(chan struct{}),
	}
}

// Get returns the value stored under key. An entry past its expiry is evicted
// and reported as absent.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.data, true
}

// Set stores value under key for ttl, overwriting any existing entry.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{data: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Start launches the periodic sweep goroutine. Repeated calls are no-ops; a
// stopped Cache cannot be restarted.
func (c *Cache) Start() {
	c.startOnce.Do(func() {
		go c.sweepLoop()
	})
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopSweep:
			return
		}
	}
}

// Stop halts the sweep goroutine. Used for graceful shutdown and test teardown.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopSweep)
	})
}

func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Key builds a deterministic cache key from an endpoint name and its parameters.
// Empty-valued parameters are dropped and the rest sorted by name, so identical
// parameter sets produce identical keys regardless of map iteration order.
func Key(endpoint string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}

	return endpoint + ":" + strings.Join(pairs, "&")
}
