package cache

import (
	"encoding/json"
	"os"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/log"
)

// fileRecord is the §6 cache-file entry shape: added_at plus every RR
// field needed to reconstruct the record.
type fileRecord struct {
	Name    string         `json:"name"`
	Type    domain.RRType  `json:"type"`
	Class   domain.RRClass `json:"class"`
	TTL     uint32         `json:"ttl"`
	Data    []byte         `json:"data"`
	Text    string         `json:"text"`
	AddedAt int64          `json:"added_at"`
}

// Save persists every entry (fresh or not) to path as a JSON array.
// Per §6, an unwritable file is non-fatal: the failure is logged and
// Save returns normally.
func (c *Cache) Save(path string) {
	c.mu.Lock()
	var out []fileRecord
	for _, key := range c.store.Keys() {
		records, ok := c.store.Peek(key)
		if !ok {
			continue
		}
		for _, r := range records {
			out = append(out, fileRecord{
				Name:    r.Name,
				Type:    r.Type,
				Class:   r.Class,
				TTL:     r.TTL,
				Data:    r.Data,
				Text:    r.Text,
				AddedAt: r.AddedAt,
			})
		}
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Warn(map[string]any{"path": path, "error": err.Error()}, "could not marshal cache for save")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn(map[string]any{"path": path, "error": err.Error()}, "could not write cache file")
	}
}

// Load restores entries from path, skipping any already expired at load
// time. Per §6, an unreadable or absent file is non-fatal: Load logs and
// leaves the cache as-is (starting empty, if called right after New).
func (c *Cache) Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn(map[string]any{"path": path, "error": err.Error()}, "could not read cache file, starting empty")
		return
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn(map[string]any{"path": path, "error": err.Error()}, "could not parse cache file, starting empty")
		return
	}

	now := c.clock.Now().Unix()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fr := range records {
		rr := domain.NewCacheEntry(domain.ResourceRecord{
			Name:  fr.Name,
			Type:  fr.Type,
			Class: fr.Class,
			TTL:   fr.TTL,
			Data:  fr.Data,
			Text:  fr.Text,
		}, fr.AddedAt)
		if !rr.Fresh(now) {
			continue
		}
		key := rr.CacheKey()
		existing, _ := c.store.Get(key)
		c.store.Add(key, append(existing, rr))
	}
}
