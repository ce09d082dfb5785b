// Package cache implements the category-scoped, TTL-based result cache that
// sits in front of remote timetable fetches. Entries keep the timestamp they
// were stored at, and Export/Import move the whole entry set verbatim so a
// snapshot survives process restarts without re-stamping expiry.
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Forever marks a category whose entries never expire.
const Forever time.Duration = -1

// Config maps a category name to its TTL. A category absent from the config
// has caching disabled entirely: Get always misses and Set is a no-op.
type Config map[string]time.Duration

// Entry is one cached record. Timestamp is unix milliseconds at store time.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Snapshot is the persisted-state format of the cache: a plain mapping of
// "category:key" strings to entries. It round-trips exactly through
// Export/Import.
type Snapshot map[string]Entry

// Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	ttls  Config
	store map[string]Entry
	now   func() time.Time
}

// New creates a cache with the given per-category TTLs.
func New(ttls Config) *Cache {
	return NewWithClock(ttls, time.Now)
}

// NewWithClock creates a cache reading time from now. Tests use this to run
// against a fixed clock.
func NewWithClock(ttls Config, now func() time.Time) *Cache {
	return &Cache{
		ttls:  ttls,
		store: make(map[string]Entry),
		now:   now,
	}
}

func storeKey(category, key string) string {
	return category + ":" + key
}

// Get unmarshals the cached value for (category, key) into dest and returns
// true on a hit. An expired entry is evicted and reported as a miss; a
// category without a configured TTL always misses.
func (c *Cache) Get(category, key string, dest any) bool {
	ttl, ok := c.ttls[category]
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sk := storeKey(category, key)
	entry, ok := c.store[sk]
	if !ok {
		return false
	}

	if ttl != Forever {
		age := c.now().UnixMilli() - entry.Timestamp
		if age > ttl.Milliseconds() {
			delete(c.store, sk)
			return false
		}
	}

	if dest != nil {
		if err := json.Unmarshal(entry.Data, dest); err != nil {
			return false
		}
	}
	return true
}

// Set stores data for (category, key), overwriting any existing entry.
// It is a no-op for unconfigured categories.
func (c *Cache) Set(category, key string, data any) error {
	if _, ok := c.ttls[category]; !ok {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[storeKey(category, key)] = Entry{
		Data:      raw,
		Timestamp: c.now().UnixMilli(),
	}
	return nil
}

// Clear removes one category's entries, or every entry when category is
// empty.
func (c *Cache) Clear(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if category == "" {
		c.store = make(map[string]Entry)
		return
	}

	prefix := category + ":"
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			delete(c.store, key)
		}
	}
}

// Export returns a copy of the entire entry set, original timestamps
// included.
func (c *Cache) Export() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(Snapshot, len(c.store))
	for key, entry := range c.store {
		snapshot[key] = entry
	}
	return snapshot
}

// Import overwrites matching keys with the snapshot's entries, keeping their
// recorded timestamps. Importing the same snapshot twice is idempotent.
func (c *Cache) Import(snapshot Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range snapshot {
		c.store[key] = entry
	}
}
