package blocklist

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hendrikto/gumped/internal/dns/domain"
)

// decisionCache remembers recent Decide outcomes so repeat queries for the
// same blocked (or allowed) name skip the store round trip. Decide checks
// the bloom filter before this cache.
type decisionCache struct {
	lru *lru.Cache[string, domain.BlockDecision]
}

func newDecisionCache(size int) (*decisionCache, error) {
	c, err := lru.New[string, domain.BlockDecision](size)
	if err != nil {
		return nil, err
	}
	return &decisionCache{lru: c}, nil
}

func (c *decisionCache) get(name string) (domain.BlockDecision, bool) {
	return c.lru.Get(name)
}

func (c *decisionCache) put(name string, d domain.BlockDecision) {
	c.lru.Add(name, d)
}

func (c *decisionCache) purge() {
	c.lru.Purge()
}
