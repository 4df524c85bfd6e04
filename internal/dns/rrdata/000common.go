// Package rrdata converts between the wire encoding and presentation text
// of resource record data, per type. Names embedded in rdata (CNAME/NS/PTR
// targets, SOA mname/rname) are encoded fully expanded here; compression of
// those names, when the wire codec chooses to apply it, happens one layer
// up where the enclosing message's compression table lives.
package rrdata

import (
	"fmt"
	"net"
	"strings"

	"github.com/hendrikto/gumped/internal/dns/names"
)

// EncodeDomainName encodes a domain name into wire format: a sequence of
// length-prefixed labels terminated by a zero octet.
func EncodeDomainName(name string) ([]byte, error) {
	n := names.Parse(name)
	var encoded []byte
	for _, label := range n.Labels() {
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}
	encoded = append(encoded, 0)
	return encoded, nil
}

// DecodeDomainName decodes a single length-prefixed-label name with no
// compression support, starting at data[0]. Returns the presentation name
// and the number of bytes consumed. Used by this package's standalone rdata
// decoders, which don't see a full message buffer.
func DecodeDomainName(data []byte) (string, int, error) {
	var labels []string
	offset := 0
	for {
		if offset >= len(data) {
			return "", 0, fmt.Errorf("truncated name")
		}
		length := int(data[offset])
		if length&0xC0 != 0 {
			return "", 0, fmt.Errorf("unexpected compression pointer in standalone rdata")
		}
		offset++
		if length == 0 {
			break
		}
		if offset+length > len(data) {
			return "", 0, fmt.Errorf("truncated label")
		}
		labels = append(labels, string(data[offset:offset+length]))
		offset += length
	}
	if len(labels) == 0 {
		return ".", offset, nil
	}
	return strings.Join(labels, ".") + ".", offset, nil
}

func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}
