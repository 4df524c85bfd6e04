package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// EncodeMX encodes "preference exchange" into its wire form.
func EncodeMX(text string) ([]byte, error) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid MX record (want: preference exchange): %s", text)
	}
	pref, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid MX preference: %s", parts[0])
	}
	prefBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(prefBytes, uint16(pref))
	exchange, err := EncodeDomainName(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid MX exchange: %w", err)
	}
	return append(prefBytes, exchange...), nil
}

// DecodeMX decodes an MX record back into "preference exchange" text.
func DecodeMX(data []byte) (string, error) {
	if len(data) < 3 {
		return "", fmt.Errorf("truncated MX record")
	}
	pref := binary.BigEndian.Uint16(data[:2])
	exchange, _, err := DecodeDomainName(data[2:])
	if err != nil {
		return "", fmt.Errorf("invalid MX exchange: %w", err)
	}
	return fmt.Sprintf("%d %s", pref, exchange), nil
}
