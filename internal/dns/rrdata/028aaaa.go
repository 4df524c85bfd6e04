package rrdata

import (
	"fmt"
	"net"
)

// EncodeAAAA encodes an AAAA record's IPv6 text into its 16-octet form.
// AAAA records may be carried even though the server itself binds IPv4
// only for transport (spec Non-goals exclude IPv6 *transport*, not the
// record type).
func EncodeAAAA(text string) ([]byte, error) {
	ip := net.ParseIP(text)
	if ip == nil || !isIPv6(ip) {
		return nil, fmt.Errorf("invalid AAAA record address: %s", text)
	}
	return ip.To16(), nil
}

// DecodeAAAA decodes a 16-octet AAAA record into IPv6 text.
func DecodeAAAA(data []byte) (string, error) {
	if len(data) != 16 {
		return "", fmt.Errorf("invalid AAAA record length: %d", len(data))
	}
	return net.IP(data).String(), nil
}
