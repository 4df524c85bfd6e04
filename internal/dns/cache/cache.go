// Package cache implements the TTL-governed record cache (§4.3): a
// bounded LRU store of ResourceRecords keyed by name/type/class, with
// lazy eviction of expired entries on lookup and JSON persistence across
// restarts.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hendrikto/gumped/internal/dns/clock"
	"github.com/hendrikto/gumped/internal/dns/domain"
)

// Cache is a concurrency-safe, TTL-aware record cache. Each key (see
// domain.ResourceRecord.CacheKey) holds the set of records currently
// believed fresh for that name/type/class.
type Cache struct {
	mu          sync.Mutex
	store       *lru.Cache[string, []domain.ResourceRecord]
	overrideTTL uint32
	clock       clock.Clock
}

// New returns a Cache bounded to size entries. overrideTTL, if non-zero,
// replaces every record's own TTL on insert (§4.3's add operation).
func New(size int, overrideTTL uint32, c clock.Clock) (*Cache, error) {
	store, err := lru.New[string, []domain.ResourceRecord](size)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, overrideTTL: overrideTTL, clock: c}, nil
}

// Add inserts rr, stamping added_at = now and applying the TTL override if
// configured. A record already present under the same key with the same
// five-tuple value is not duplicated.
func (c *Cache) Add(rr domain.ResourceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addLocked(rr)
}

// AddMany adds every record in records.
func (c *Cache) AddMany(records []domain.ResourceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rr := range records {
		c.addLocked(rr)
	}
}

func (c *Cache) addLocked(rr domain.ResourceRecord) {
	if c.overrideTTL > 0 {
		rr.TTL = c.overrideTTL
	}
	entry := domain.NewCacheEntry(rr, c.clock.Now().Unix())

	key := rr.CacheKey()
	existing, _ := c.store.Get(key)
	for _, e := range existing {
		if e.Equal(entry) {
			return
		}
	}
	c.store.Add(key, append(existing, entry))
}

// Lookup returns a single fresh record matching (name, type, class), if
// any, evicting any expired entries it encounters along the way (I1).
func (c *Cache) Lookup(name string, t domain.RRType, class domain.RRClass) (domain.ResourceRecord, bool) {
	key := domain.GenerateCacheKey(name, t, class)
	now := c.clock.Now().Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	records, found := c.store.Get(key)
	if !found {
		return domain.ResourceRecord{}, false
	}

	fresh := records[:0:0]
	var result domain.ResourceRecord
	var haveResult bool
	for _, r := range records {
		if !r.Fresh(now) {
			continue
		}
		fresh = append(fresh, r)
		if !haveResult {
			result = r
			haveResult = true
		}
	}

	if len(fresh) == 0 {
		c.store.Remove(key)
		return domain.ResourceRecord{}, false
	}
	c.store.Add(key, fresh)
	return result, haveResult
}

// Len returns the number of distinct cache keys currently stored.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// Keys returns every cache key currently stored.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Keys()
}
