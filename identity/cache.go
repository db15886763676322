package identity

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nazonexus/identity/config"
)

// Cache is a bounded, concurrency-safe map from raw wire token to resolved
// identity with per-entry expiry. A hit short-circuits both signature
// verification and the user lookup for that token. When full, inserting a
// new token evicts the least recently used entry. Expired entries are
// dropped lazily on lookup, so memory is bounded by capacity rather than by
// a sweeper. An entry never outlives min(token lifetime, maxTTL).
type Cache struct {
	mu       sync.Mutex
	capacity int
	maxTTL   time.Duration
	entries  map[string]*list.Element
	recency  *list.List // front = most recently used

	// now is swappable in tests.
	now func() time.Time
}

type cacheEntry struct {
	token     string
	ident     Identity
	expiresAt time.Time
}

// NewCache creates a cache with the given capacity and ceiling on entry
// lifetime. Non-positive values fall back to the configuration defaults.
func NewCache(capacity int, maxTTL time.Duration) *Cache {
	if capacity <= 0 {
		capacity = config.DefaultCacheCapacity
	}
	if maxTTL <= 0 {
		maxTTL = config.DefaultCacheMaxTTL
	}
	return &Cache{
		capacity: capacity,
		maxTTL:   maxTTL,
		entries:  make(map[string]*list.Element, capacity),
		recency:  list.New(),
		now:      time.Now,
	}
}

// FromConfig creates a cache from the cache section of the configuration.
func FromConfig(cfg config.CacheConfig) *Cache {
	return NewCache(cfg.Capacity, cfg.MaxTTL)
}

// Get returns the cached identity for token. A hit refreshes the entry's
// recency. An expired entry is removed and reported as a miss.
func (c *Cache) Get(token string) (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[token]
	if !ok {
		return Identity{}, false
	}
	entry := el.Value.(*cacheEntry)
	if !c.now().Before(entry.expiresAt) {
		c.removeLocked(el)
		return Identity{}, false
	}
	c.recency.MoveToFront(el)
	return entry.ident, true
}

// Put stores ident for token with lifetime min(ttl, maxTTL). Entries whose
// effective lifetime is not positive are not stored. Inserting over capacity
// evicts the least recently used entry.
func (c *Cache) Put(token string, ident Identity, ttl time.Duration) {
	if ttl > c.maxTTL {
		ttl = c.maxTTL
	}
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.entries[token]; ok {
		entry := el.Value.(*cacheEntry)
		entry.ident = ident
		entry.expiresAt = expiresAt
		c.recency.MoveToFront(el)
		return
	}

	if c.recency.Len() >= c.capacity {
		if oldest := c.recency.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
	c.entries[token] = c.recency.PushFront(&cacheEntry{
		token:     token,
		ident:     ident,
		expiresAt: expiresAt,
	})
}

// InvalidateSubject removes every entry resolving to the given subject. A
// subject may hold several live tokens, each cached under its own key.
func (c *Cache) InvalidateSubject(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.recency.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*cacheEntry).ident.ID == id {
			c.removeLocked(el)
		}
		el = next
	}
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recency.Len()
}

func (c *Cache) removeLocked(el *list.Element) {
	entry := c.recency.Remove(el).(*cacheEntry)
	delete(c.entries, entry.token)
}
