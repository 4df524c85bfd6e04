package domain

import (
	"fmt"

	"github.com/hendrikto/gumped/internal/dns/names"
)

// Question is the tuple (qname, qtype, qclass) from RFC 1035 §4.1.2.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuestion constructs and validates a Question.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		Name:  names.Canonical(name),
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks structural validity of the question's fields.
func (q Question) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("question name must not be empty")
	}
	return nil
}

// CacheKey returns the cache key this question would look up.
func (q Question) CacheKey() string {
	return GenerateCacheKey(q.Name, q.Type, q.Class)
}
