package zone

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/names"
	"github.com/hendrikto/gumped/internal/dns/rrdata"
)

// masterRecordPattern is §6's master zone file line grammar, yielding
// (owner, ttl?, class?, type, rdata).
var masterRecordPattern = regexp.MustCompile(`^((?:\w+\.?)+)\s+(?:(\d+)\s+)?(?:(\w+)\s+)?(\w+)\s+([\w.]+)`)

// LoadMasterFile reads a zone master file rooted at apex and builds a Zone
// from it. Owner is the left-of-apex prefix; "" (or the apex's own name)
// denotes the apex record itself. Missing ttl defaults to 0; missing class
// defaults to IN.
func LoadMasterFile(path, apex string) (*Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open master file %s: %w", path, err)
	}
	defer f.Close()

	zone := NewZone(apex)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		m := masterRecordPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		owner, ttlStr, classStr, typeStr, rdataStr := m[1], m[2], m[3], m[4], m[5]

		var ttl uint32
		if ttlStr != "" {
			n, err := strconv.ParseUint(ttlStr, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("master file %s: invalid ttl %q: %w", path, ttlStr, err)
			}
			ttl = uint32(n)
		}
		class := domain.ParseRRClass(classStr)
		rrType := domain.RRTypeFromString(typeStr)

		data, err := rrdata.Encode(rrType, rdataStr)
		if err != nil {
			return nil, fmt.Errorf("master file %s: encoding %s record %q: %w", path, typeStr, rdataStr, err)
		}

		fqdn := expandOwner(owner, zone.Apex)
		rr, err := domain.NewResourceRecord(fqdn, rrType, class, ttl, data, rdataStr)
		if err != nil {
			return nil, fmt.Errorf("master file %s: %w", path, err)
		}

		zone.AddRecord(ownerKey(owner, zone.Apex), rr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read master file %s: %w", path, err)
	}
	return zone, nil
}

// isApexOwner reports whether a master-file owner token names the zone
// apex itself, per §6 ("" for apex itself) — written either as an empty
// match is impossible under the record regex, so in practice as the
// apex's own dotted name.
func isApexOwner(owner, apex string) bool {
	return names.Canonical(owner) == apex
}

// expandOwner turns a master-file owner token into a fully-qualified name
// under apex.
func expandOwner(owner, apex string) string {
	if owner == "" || isApexOwner(owner, apex) {
		return apex
	}
	return owner + "." + apex
}

// ownerKey is the Zone.Records key for a master-file owner token: the
// apex's own records live under "", everything else under its lowercased
// label prefix.
func ownerKey(owner, apex string) string {
	if owner == "" || isApexOwner(owner, apex) {
		return ""
	}
	return ownerPrefix(names.Parse(owner).Labels())
}
