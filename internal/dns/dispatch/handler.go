// Package dispatch implements the per-request server handler (§4.5): decode
// the query, answer authoritatively from the catalog, or fall through to
// the cache and (if requested) the recursive resolver.
package dispatch

import (
	"context"
	"net"

	"github.com/hendrikto/gumped/internal/dns/cache"
	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/log"
	"github.com/hendrikto/gumped/internal/dns/resolver"
	"github.com/hendrikto/gumped/internal/dns/wire"
	"github.com/hendrikto/gumped/internal/dns/zone"
)

// Blocklist is consulted immediately after extracting the question name,
// before the catalog lookup. A nil Blocklist disables the pre-check
// entirely.
type Blocklist interface {
	Decide(name string) (blocked bool)
}

// Resolver is the subset of *resolver.Resolver dispatch depends on.
type Resolver interface {
	GetHostByName(ctx context.Context, host string) (string, []string, []string)
}

// ServerContext bundles every per-request collaborator: the immutable
// catalog, the shared cache, the resolver, and an optional blocklist. It
// replaces the global state the original implementation relied on (§9).
type ServerContext struct {
	Catalog   *zone.Catalog
	Cache     *cache.Cache
	Resolver  Resolver
	Blocklist Blocklist
	Logger    log.Logger
}

// NewServerContext constructs a ServerContext with Logger set to the
// global logger.
func NewServerContext(catalog *zone.Catalog, c *cache.Cache, r *resolver.Resolver, bl Blocklist) *ServerContext {
	return &ServerContext{
		Catalog:   catalog,
		Cache:     c,
		Resolver:  r,
		Blocklist: bl,
		Logger:    log.GetLogger(),
	}
}

// Handle implements the six dispatch steps of §4.5, plus the blocklist
// pre-check addition. data is one inbound UDP datagram; clientAddr is only
// used for logging (the transport layer owns the actual send).
func (s *ServerContext) Handle(ctx context.Context, data []byte, clientAddr net.Addr) []byte {
	query, err := wire.DecodeMessage(data)
	if err != nil {
		s.Logger.Warn(map[string]any{"client": addrString(clientAddr), "error": err.Error()}, "failed to decode query, replying FormatError")
		return s.encodeFormatError(query.Header.ID)
	}

	if len(query.Questions) == 0 {
		return s.encodeFormatError(query.Header.ID)
	}
	question := query.Questions[0]
	qname := question.Name

	if s.Blocklist != nil && s.Blocklist.Decide(qname) {
		s.Logger.Debug(map[string]any{"qname": qname}, "blocklist pre-check matched, short-circuiting to NXDOMAIN")
		return s.buildResponse(query.Header, false, domain.RCodeNXDomain, nil)
	}

	// Only IN questions are matched against the catalog; other classes
	// fall through to the cache/resolver path.
	var auth bool
	var zoneRecords []domain.ResourceRecord
	if question.Class == domain.RRClassIN {
		auth, zoneRecords = s.Catalog.Lookup(qname)
	}
	if len(zoneRecords) > 0 {
		return s.buildResponse(query.Header, true, domain.RCodeNoError, zoneRecords)
	}
	if auth {
		return s.buildResponse(query.Header, true, domain.RCodeNXDomain, nil)
	}

	records := s.resolveNonAuthoritative(ctx, query.Header.RD(), question)
	return s.buildResponse(query.Header, false, domain.RCodeNoError, records)
}

// resolveNonAuthoritative implements step 5: a cache hit answers directly;
// on a miss the resolver only runs when the incoming query asked for
// recursion.
func (s *ServerContext) resolveNonAuthoritative(ctx context.Context, rd bool, q domain.Question) []domain.ResourceRecord {
	if s.Cache != nil {
		if rr, ok := s.Cache.Lookup(q.Name, q.Type, q.Class); ok {
			return []domain.ResourceRecord{rr}
		}
	}
	if !rd || s.Resolver == nil {
		return nil
	}

	finalName, aliases, addrs := s.Resolver.GetHostByName(ctx, q.Name)
	if len(addrs) == 0 {
		return nil
	}
	var records []domain.ResourceRecord
	owner := q.Name
	for _, alias := range aliases {
		rr, err := domain.NewResourceRecord(owner, domain.RRTypeCNAME, domain.RRClassIN, 0, nil, alias)
		if err == nil {
			records = append(records, rr)
		}
		owner = alias
	}
	for _, addr := range addrs {
		rr, err := domain.NewResourceRecord(finalName, domain.RRTypeA, domain.RRClassIN, 0, nil, addr)
		if err == nil {
			records = append(records, rr)
		}
	}
	return records
}

// buildResponse implements step 6: copy ident and rd, set qr=1 and ra=1,
// ancount = len(answers), other counts zero.
func (s *ServerContext) buildResponse(reqHeader domain.Header, aa bool, rcode domain.RCode, answers []domain.ResourceRecord) []byte {
	var h domain.Header
	h.ID = reqHeader.ID
	h.SetQR(true)
	h.SetRD(reqHeader.RD())
	h.SetRA(true)
	h.SetAA(aa)
	h.SetRcode(rcode)

	msg := domain.Message{Header: h, Answers: answers}
	data, err := wire.EncodeMessage(msg)
	if err != nil {
		s.Logger.Error(map[string]any{"error": err.Error()}, "failed to encode response, replying ServFail")
		return s.encodeServFail(reqHeader.ID)
	}
	return data
}

func (s *ServerContext) encodeFormatError(id uint16) []byte {
	var h domain.Header
	h.ID = id
	h.SetQR(true)
	h.SetRcode(domain.RCodeFormErr)
	data, _ := wire.EncodeMessage(domain.Message{Header: h})
	return data
}

func (s *ServerContext) encodeServFail(id uint16) []byte {
	var h domain.Header
	h.ID = id
	h.SetQR(true)
	h.SetRcode(domain.RCodeServFail)
	data, _ := wire.EncodeMessage(domain.Message{Header: h})
	return data
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
