// Package blocklist implements the optional pre-answer deny-list check
// (§2, §4.5 addition): a bloom pre-filter, a durable bbolt exact/suffix
// rule store, and an LRU decision cache, composed behind a single Decide
// call dispatch consults before the catalog lookup.
package blocklist

import (
	"os"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/names"
)

const defaultFalsePositiveRate = 0.01

// Blocklist answers whether a name is blocked, backed by a bloom
// pre-filter, a bbolt-durable store, and an LRU decision cache.
type Blocklist struct {
	store *store
	cache *decisionCache
	bloom *bloomFilter
}

// Load opens (or creates) the bbolt database at dbPath, loads rules from
// every path in ruleFiles (plain deny-lists) and every path in
// hostsFiles (/etc/hosts-style files), and rebuilds the store, bloom
// filter, and decision cache from the combined rule set. cacheSize bounds
// the decision cache.
func Load(dbPath string, ruleFiles, hostsFiles []string, cacheSize int) (*Blocklist, error) {
	st, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}

	var rules []domain.BlockRule
	for _, path := range ruleFiles {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		rules = append(rules, parseRuleList(f, path)...)
		f.Close()
	}
	for _, path := range hostsFiles {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		rules = append(rules, parseHostsFile(f, path)...)
		f.Close()
	}

	if err := st.rebuildAll(rules); err != nil {
		st.close()
		return nil, err
	}

	bf := newBloomFilter(uint64(len(rules)), defaultFalsePositiveRate)
	for _, r := range rules {
		switch r.Kind {
		case domain.BlockRuleExact:
			bf.add(r.Name)
		case domain.BlockRuleSuffix:
			bf.add(reverseString(r.Name))
		}
	}

	dc, err := newDecisionCache(cacheSize)
	if err != nil {
		st.close()
		return nil, err
	}

	return &Blocklist{store: st, cache: dc, bloom: bf}, nil
}

// Close releases the underlying bbolt database.
func (b *Blocklist) Close() error {
	return b.store.close()
}

// Decide implements dispatch.Blocklist: bloom pre-filter, then decision
// cache, then the durable store on a cache miss.
func (b *Blocklist) Decide(name string) bool {
	cn := names.Canonical(name)

	if !b.bloom.mightBlock(cn) {
		return false
	}
	if d, ok := b.cache.get(cn); ok {
		return d.Blocked
	}

	rule, found, err := b.store.firstMatch(cn)
	var decision domain.BlockDecision
	if err == nil && found {
		decision = domain.BlockDecision{Blocked: true, MatchedRule: rule.Name, Source: rule.Source, Kind: rule.Kind}
	}
	b.cache.put(cn, decision)
	return decision.Blocked
}
