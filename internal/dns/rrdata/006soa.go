package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// EncodeSOA encodes "mname rname serial refresh retry expire minimum" into
// its wire form (RFC 1035 §3.3.13).
func EncodeSOA(text string) ([]byte, error) {
	parts := strings.Fields(text)
	if len(parts) != 7 {
		return nil, fmt.Errorf("invalid SOA record (want 7 fields): %s", text)
	}
	mname, err := EncodeDomainName(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid SOA mname: %w", err)
	}
	rname, err := EncodeDomainName(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid SOA rname: %w", err)
	}
	ints := make([]byte, 20)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseUint(parts[i+2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid SOA field %d: %w", i+2, err)
		}
		binary.BigEndian.PutUint32(ints[i*4:], uint32(v))
	}
	out := append([]byte{}, mname...)
	out = append(out, rname...)
	out = append(out, ints...)
	return out, nil
}

// DecodeSOA decodes an SOA record back into its textual field-space form.
func DecodeSOA(data []byte) (string, error) {
	mname, n, err := DecodeDomainName(data)
	if err != nil {
		return "", fmt.Errorf("invalid SOA mname: %w", err)
	}
	rname, n2, err := DecodeDomainName(data[n:])
	if err != nil {
		return "", fmt.Errorf("invalid SOA rname: %w", err)
	}
	off := n + n2
	if off+20 > len(data) {
		return "", fmt.Errorf("truncated SOA counters")
	}
	vals := make([]uint32, 5)
	for i := 0; i < 5; i++ {
		vals[i] = binary.BigEndian.Uint32(data[off+i*4:])
	}
	return fmt.Sprintf("%s %s %d %d %d %d %d", mname, rname, vals[0], vals[1], vals[2], vals[3], vals[4]), nil
}
