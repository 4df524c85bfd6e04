package blocklist

import (
	"bytes"
	"errors"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/hendrikto/gumped/internal/dns/domain"
)

var (
	bucketExact  = []byte("exact")
	bucketSuffix = []byte("suffix")
)

// store is the durable exact/suffix rule table, backed by bbolt. Exact
// rules are keyed by their plain name; suffix rules are keyed by the
// reversed name so a range scan walks from most- to least-specific.
type store struct {
	db *bbolt.DB
}

func openStore(path string) (*store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketExact); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketSuffix)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &store{db: db}, nil
}

func (s *store) close() error { return s.db.Close() }

// firstMatch returns the exact rule for name if present, otherwise the
// most specific matching suffix rule.
func (s *store) firstMatch(name string) (domain.BlockRule, bool, error) {
	var out domain.BlockRule
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketExact); b != nil {
			if v := b.Get([]byte(name)); v != nil {
				out = domain.BlockRule{Name: name, Kind: domain.BlockRuleExact, Source: string(v)}
				found = true
				return nil
			}
		}
		b := tx.Bucket(bucketSuffix)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		rp := []byte(reverseString(name))
		for len(rp) > 0 {
			k, v := c.Seek(rp)
			if k != nil && bytes.Equal(k, rp) {
				anchor := reverseString(string(k))
				out = domain.BlockRule{Name: anchor, Kind: domain.BlockRuleSuffix, Source: string(v)}
				found = true
				return nil
			}
			idx := bytes.LastIndexByte(rp, '.')
			if idx < 0 {
				break
			}
			rp = rp[:idx]
		}
		return nil
	})
	if err != nil {
		return domain.BlockRule{}, false, err
	}
	return out, found, nil
}

// rebuildAll atomically replaces every rule in the store.
func (s *store) rebuildAll(rules []domain.BlockRule) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketExact, bucketSuffix} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
				return err
			}
		}
		eb, err := tx.CreateBucketIfNotExists(bucketExact)
		if err != nil {
			return err
		}
		sb, err := tx.CreateBucketIfNotExists(bucketSuffix)
		if err != nil {
			return err
		}
		for _, r := range rules {
			switch r.Kind {
			case domain.BlockRuleExact:
				if err := eb.Put([]byte(r.Name), []byte(r.Source)); err != nil {
					return err
				}
			case domain.BlockRuleSuffix:
				if err := sb.Put([]byte(reverseString(r.Name)), []byte(r.Source)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
