package blocklist

import (
	"math"
	"strings"
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// bloomFilter is a cheap membership pre-filter: a negative is certain, a
// positive only means "maybe, go check the store." Reads take a shared
// lock on the underlying filter; add takes the exclusive lock.
type bloomFilter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

// newBloomFilter sizes a filter for n expected entries at target false
// positive rate p using the standard m/k formulas.
func newBloomFilter(n uint64, p float64) *bloomFilter {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = 0.01
	}
	ln2 := math.Ln2
	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}
	k := uint(math.Max(1, math.Round((float64(m)/float64(n))*ln2)))
	return &bloomFilter{bf: bitsbloom.New(uint(m), k)}
}

func (f *bloomFilter) add(key string) {
	f.mu.Lock()
	f.bf.Add([]byte(key))
	f.mu.Unlock()
}

func (f *bloomFilter) mightContain(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.Test([]byte(key))
}

// mightBlock checks the exact name, then walks its suffixes (most to least
// specific) against reversed anchors, matching how suffix rules are keyed
// in the store.
func (f *bloomFilter) mightBlock(name string) bool {
	if f.mightContain(name) {
		return true
	}
	for a := name; ; {
		if f.mightContain(reverseString(a)) {
			return true
		}
		idx := strings.IndexByte(a, '.')
		if idx < 0 {
			return false
		}
		a = a[idx+1:]
		if a == "" {
			return false
		}
	}
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
