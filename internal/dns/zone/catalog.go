// Package zone holds authoritative record sets, keyed by zone apex and
// owner label, and answers the suffix-walk lookup the dispatcher consults
// before falling through to cache/recursion (§4.2).
package zone

import (
	"strings"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/names"
)

const maxZoneCNAMEHops = 8

// Zone is one apex's record set, keyed by owner prefix ("" for the apex
// itself, e.g. "www" for www.<apex>).
type Zone struct {
	Apex    string
	Records map[string][]domain.ResourceRecord
}

// NewZone returns an empty Zone rooted at apex.
func NewZone(apex string) *Zone {
	return &Zone{
		Apex:    names.Canonical(apex),
		Records: make(map[string][]domain.ResourceRecord),
	}
}

// AddRecord appends rr under its owner label relative to the zone apex.
func (z *Zone) AddRecord(owner string, rr domain.ResourceRecord) {
	z.Records[owner] = append(z.Records[owner], rr)
}

// Catalog is a collection of zones this server is authoritative for.
type Catalog struct {
	zones map[string]*Zone // apex -> zone
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{zones: make(map[string]*Zone)}
}

// AddZone registers z under its apex, replacing any existing zone with the
// same apex.
func (c *Catalog) AddZone(z *Zone) {
	c.zones[z.Apex] = z
}

// Lookup implements §4.2's suffix-walk algorithm: walk qname's label
// suffixes from longest to shortest looking for a registered zone apex. A
// matching apex makes this catalog authoritative for qname, whether or not
// any records exist at that owner (NXDOMAIN is "authoritative, no
// records", not "not authoritative").
func (c *Catalog) Lookup(qname string) (authoritative bool, records []domain.ResourceRecord) {
	n := names.Parse(qname)
	labels := n.Labels()

	for i := 0; i <= len(labels); i++ {
		apex := joinApex(labels[i:])
		zone, ok := c.zones[apex]
		if !ok {
			continue
		}
		owner := ownerPrefix(labels[:i])
		found, ok := zone.Records[owner]
		if !ok {
			return true, nil
		}
		return true, chaseZoneCNAMEs(zone, owner, found)
	}
	return false, nil
}

// chaseZoneCNAMEs appends, for any CNAME among records, the target's
// records within the same zone, per §4.2's tie-break (CNAME first, then
// the target's records) and 8-hop loop guard.
func chaseZoneCNAMEs(z *Zone, owner string, records []domain.ResourceRecord) []domain.ResourceRecord {
	out := append([]domain.ResourceRecord(nil), records...)
	seen := map[string]bool{owner: true}
	batch := records

	for hop := 0; hop < maxZoneCNAMEHops; hop++ {
		var cname *domain.ResourceRecord
		for i := range batch {
			if batch[i].Type == domain.RRTypeCNAME {
				cname = &batch[i]
				break
			}
		}
		if cname == nil {
			break
		}
		targetOwner, inZone := ownerWithinZone(z, cname.Text)
		if !inZone || seen[targetOwner] {
			break
		}
		seen[targetOwner] = true
		targetRecords, ok := z.Records[targetOwner]
		if !ok {
			break
		}
		out = append(out, targetRecords...)
		batch = targetRecords
	}
	return out
}

// ownerWithinZone reports the owner prefix of target within z, if target
// lies within z's apex.
func ownerWithinZone(z *Zone, target string) (string, bool) {
	n := names.Parse(target)
	apexLabels := names.Parse(z.Apex).Labels()
	labels := n.Labels()
	if len(labels) < len(apexLabels) {
		return "", false
	}
	suffix := labels[len(labels)-len(apexLabels):]
	if joinApex(suffix) != z.Apex {
		return "", false
	}
	return ownerPrefix(labels[:len(labels)-len(apexLabels)]), true
}

func joinApex(labels []string) string {
	if len(labels) == 0 {
		return "."
	}
	return strings.Join(labels, ".") + "."
}

func ownerPrefix(labels []string) string {
	return strings.ToLower(strings.Join(labels, "."))
}
