// Package resolver implements the iterative recursive resolution state
// machine (§4.4): gethostbyname walks referrals from a root server down to
// an authoritative answer, chasing CNAMEs and consulting/feeding the
// record cache along the way.
package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/hendrikto/gumped/internal/dns/cache"
	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/log"
)

const (
	// RootServer is the single concrete root nameserver address §4.4
	// permits as sufficient ("one concrete root ... suffices").
	RootServer = "198.97.190.53"

	maxAliasHops     = 16
	maxReferralDepth = 20
)

// Resolver runs gethostbyname against a root server, optionally backed by
// a record cache.
type Resolver struct {
	querier    Querier
	cache      *cache.Cache // nil disables caching
	timeout    time.Duration
	rootServer string
	logger     log.Logger
}

// Options configures a Resolver. Cache may be nil to disable caching
// entirely; RootServer defaults to RootServer when empty.
type Options struct {
	Querier    Querier
	Cache      *cache.Cache
	Timeout    time.Duration
	RootServer string
	Logger     log.Logger
}

// New constructs a Resolver from opts.
func New(opts Options) *Resolver {
	root := opts.RootServer
	if root == "" {
		root = RootServer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Resolver{
		querier:    opts.Querier,
		cache:      opts.Cache,
		timeout:    opts.Timeout,
		rootServer: root,
		logger:     logger,
	}
}

// GetHostByName implements §4.4's gethostbyname: (final_name, aliases,
// ipv4_addrs). On any bound exceeded (alias hops, referral depth,
// wall-clock) it returns (host, nil, nil).
func (r *Resolver) GetHostByName(ctx context.Context, host string) (string, []string, []string) {
	qname := host
	var aliases []string
	var addrs []string

	if r.cache != nil {
		var cachedAliases, cachedAddrs []string
		qname, cachedAliases, cachedAddrs = r.checkLocalInformation(qname)
		aliases = append(aliases, cachedAliases...)
		addrs = append(addrs, cachedAddrs...)
		if len(addrs) > 0 {
			return qname, aliases, addrs
		}
	}

	deadline := time.Now().Add(r.timeout * 20)
	finalName, netAliases, netAddrs, ok := r.resolveAddresses(ctx, qname, maxReferralDepth, deadline)
	if !ok {
		return host, nil, nil
	}
	aliases = append(aliases, netAliases...)
	addrs = append(addrs, netAddrs...)
	return finalName, aliases, addrs
}

// checkLocalInformation implements §4.4 step 1: follow cached CNAMEs (hop
// limit 16) from qname, recording any cached A address found along the
// way.
func (r *Resolver) checkLocalInformation(qname string) (string, []string, []string) {
	var aliases []string
	var addrs []string
	for hop := 0; hop < maxAliasHops; hop++ {
		if a, ok := r.cache.Lookup(qname, domain.RRTypeA, domain.RRClassIN); ok {
			addrs = append(addrs, a.Text)
		}
		cn, ok := r.cache.Lookup(qname, domain.RRTypeCNAME, domain.RRClassIN)
		if !ok {
			break
		}
		aliases = append(aliases, qname)
		qname = cn.Text
	}
	return qname, aliases, addrs
}

// resolveAddresses performs the referral walk for a single qname: query
// candidate nameservers starting at the root, following referrals
// (glue first, then NS-target resolution) until a terminal response
// arrives or the bounds are exhausted.
func (r *Resolver) resolveAddresses(ctx context.Context, qname string, depthBudget int, deadline time.Time) (string, []string, []string, bool) {
	candidates := []string{r.rootServer}
	return r.walkReferrals(ctx, qname, candidates, depthBudget, deadline)
}

func (r *Resolver) walkReferrals(ctx context.Context, qname string, candidates []string, depthBudget int, deadline time.Time) (string, []string, []string, bool) {
	if depthBudget <= 0 {
		return qname, nil, nil, false
	}
	for _, ns := range candidates {
		if time.Now().After(deadline) {
			return qname, nil, nil, false
		}
		q, err := domain.NewQuestion(qname, domain.RRTypeA, domain.RRClassIN)
		if err != nil {
			continue
		}
		msg, err := r.querier.Query(ctx, ns, q, r.timeout)
		if err != nil {
			r.logger.Debug(map[string]any{"ns": ns, "qname": qname, "error": err.Error()}, "nameserver query failed, trying next candidate")
			continue
		}

		if len(msg.Answers) > 0 || msg.Header.Rcode() != domain.RCodeNoError {
			finalName, aliases, addrs := extractTerminal(qname, msg.Answers)
			r.cacheWrite(msg)
			return finalName, aliases, addrs, true
		}

		r.cacheWrite(msg)

		glue := extractGlue(msg.Additionals)
		if len(glue) > 0 {
			finalName, aliases, addrs, ok := r.walkReferrals(ctx, qname, glue, depthBudget-1, deadline)
			if ok {
				return finalName, aliases, addrs, true
			}
			continue
		}

		for _, nsName := range extractNSNames(msg.Authorities) {
			_, _, nsAddrs, ok := r.resolveAddresses(ctx, nsName, depthBudget-1, deadline)
			if !ok || len(nsAddrs) == 0 {
				continue
			}
			finalName, aliases, addrs, ok := r.walkReferrals(ctx, qname, nsAddrs, depthBudget-1, deadline)
			if ok {
				return finalName, aliases, addrs, true
			}
		}
	}
	return qname, nil, nil, false
}

// extractTerminal implements the terminal half of §4.4 step 3: a single
// pass over a response's answers, collecting A addresses and following
// any CNAME's rename of qname.
func extractTerminal(qname string, answers []domain.ResourceRecord) (string, []string, []string) {
	var aliases []string
	var addrs []string
	for _, rr := range answers {
		switch rr.Type {
		case domain.RRTypeA:
			addrs = append(addrs, rr.Text)
		case domain.RRTypeCNAME:
			aliases = append(aliases, qname)
			qname = rr.Text
		}
	}
	return qname, aliases, addrs
}

// extractGlue returns every A-record address among additionals, in order.
func extractGlue(additionals []domain.ResourceRecord) []string {
	var out []string
	for _, rr := range additionals {
		if rr.Type == domain.RRTypeA {
			out = append(out, rr.Text)
		}
	}
	return out
}

// extractNSNames returns the NSDNAME text of every NS record in authorities.
func extractNSNames(authorities []domain.ResourceRecord) []string {
	var out []string
	for _, rr := range authorities {
		if rr.Type == domain.RRTypeNS {
			out = append(out, strings.TrimSpace(rr.Text))
		}
	}
	return out
}

// cacheWrite implements §4.4 step 4: every A, CNAME, and NS record seen in
// a response is eligible for caching. Callers only reach here on a
// response that decoded successfully, so there is nothing to filter for
// FormatError/timeout: those never produce a msg to write.
func (r *Resolver) cacheWrite(msg domain.Message) {
	if r.cache == nil {
		return
	}
	for _, section := range [][]domain.ResourceRecord{msg.Answers, msg.Authorities, msg.Additionals} {
		for _, rr := range section {
			switch rr.Type {
			case domain.RRTypeA, domain.RRTypeCNAME, domain.RRTypeNS:
				r.cache.Add(rr)
			}
		}
	}
}
