package domain

import (
	"fmt"

	"github.com/hendrikto/gumped/internal/dns/names"
)

// ResourceRecord is the tuple (name, type, class, ttl, rdata) from RFC 1035
// §3.2.1, augmented with an optional cache insertion timestamp.
//
// RData is carried as the pair (Data, Text): Data is the wire-ready encoding
// (names embedded in rdata are stored fully expanded, never
// pointer-compressed); Text is the human presentation form used by the
// master-file loader, the cache's CNAME/NS-target bookkeeping, and the test
// client's output. Unknown types carry Data only, with Text empty.
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte
	Text  string

	// AddedAt is the insertion timestamp (seconds since epoch) for cache
	// entries. Zero for authoritative zone records, which never expire.
	AddedAt int64
	cached  bool
}

// NewResourceRecord constructs an authoritative (non-expiring) ResourceRecord.
func NewResourceRecord(name string, rrtype RRType, class RRClass, ttl uint32, data []byte, text string) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  names.Canonical(name),
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		Data:  data,
		Text:  text,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// NewCacheEntry constructs a ResourceRecord stamped with an insertion time,
// per §3's CacheEntry definition (a ResourceRecord augmented with added_at).
func NewCacheEntry(rr ResourceRecord, addedAt int64) ResourceRecord {
	rr.AddedAt = addedAt
	rr.cached = true
	return rr
}

// Validate checks structural validity of the record's fields.
func (rr ResourceRecord) Validate() error {
	if rr.Name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if len(rr.Text) == 0 && len(rr.Data) == 0 {
		return fmt.Errorf("either Text or Data must be set")
	}
	return nil
}

// IsCacheEntry reports whether this record carries a cache insertion
// timestamp (as opposed to being an authoritative zone record).
func (rr ResourceRecord) IsCacheEntry() bool {
	return rr.cached
}

// Fresh reports whether the record (assumed to be a cache entry) is still
// valid at time now, per §3's freshness predicate: now - added_at <= ttl.
// A TTL of 0 is never fresh (§3: "0 means do not cache").
func (rr ResourceRecord) Fresh(now int64) bool {
	if rr.TTL == 0 {
		return false
	}
	return now-rr.AddedAt <= int64(rr.TTL)
}

// Equal implements §3's five-field record equality (used for set semantics
// in the wire codec's round-trip property). AddedAt is deliberately
// excluded: it is cache bookkeeping, not part of the wire tuple. The rdata
// is compared by Data when both records carry it, otherwise by Text.
func (rr ResourceRecord) Equal(other ResourceRecord) bool {
	if rr.Name != other.Name || rr.Type != other.Type || rr.Class != other.Class || rr.TTL != other.TTL {
		return false
	}
	if len(rr.Data) == 0 || len(other.Data) == 0 {
		return rr.Text == other.Text
	}
	if len(rr.Data) != len(other.Data) {
		return false
	}
	for i := range rr.Data {
		if rr.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// CacheKey returns the key under which this record's matches are grouped
// in the record cache: name, type, and class.
func (rr ResourceRecord) CacheKey() string {
	return GenerateCacheKey(rr.Name, rr.Type, rr.Class)
}

// GenerateCacheKey derives a cache key from a name/type/class triple.
func GenerateCacheKey(name string, t RRType, c RRClass) string {
	return fmt.Sprintf("%s|%d|%d", names.Canonical(name), t, c)
}
