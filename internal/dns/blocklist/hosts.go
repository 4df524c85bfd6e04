package blocklist

import (
	"bufio"
	"io"
	"strings"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/names"
)

// parseRuleList reads a plain newline-delimited deny-list: one name per
// line, "*.example.com" or ".example.com" for a suffix rule, "#" for
// comments, blank lines ignored.
func parseRuleList(r io.Reader, source string) []domain.BlockRule {
	scanner := bufio.NewScanner(r)
	var out []domain.BlockRule
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		kind := domain.BlockRuleExact
		raw := line
		if strings.HasPrefix(raw, "*.") {
			kind = domain.BlockRuleSuffix
			raw = raw[2:]
		} else if strings.HasPrefix(raw, ".") {
			kind = domain.BlockRuleSuffix
			raw = raw[1:]
		}
		name := names.Canonical(raw)
		if name == "" {
			continue
		}
		out = append(out, domain.BlockRule{Name: name, Kind: kind, Source: source})
	}
	return out
}

// parseHostsFile reads /etc/hosts-style files: the first field of each
// line is an IP address (ignored), the remaining fields are exact
// hostnames to block.
func parseHostsFile(r io.Reader, source string) []domain.BlockRule {
	scanner := bufio.NewScanner(r)
	var out []domain.BlockRule
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, raw := range fields[1:] {
			if raw == "" || strings.Contains(raw, "*") || strings.HasPrefix(raw, ".") {
				continue
			}
			name := names.Canonical(raw)
			if name == "" {
				continue
			}
			out = append(out, domain.BlockRule{Name: name, Kind: domain.BlockRuleExact, Source: source})
		}
	}
	return out
}
