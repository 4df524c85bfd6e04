package rrdata

import (
	"fmt"
	"net"
)

// EncodeA encodes an A record's dotted-quad text into its 4-octet form.
func EncodeA(text string) ([]byte, error) {
	ip := net.ParseIP(text)
	if ip == nil || !isIPv4(ip) {
		return nil, fmt.Errorf("invalid A record address: %s", text)
	}
	return ip.To4(), nil
}

// DecodeA decodes a 4-octet A record into dotted-quad text.
func DecodeA(data []byte) (string, error) {
	if len(data) != 4 {
		return "", fmt.Errorf("invalid A record length: %d", len(data))
	}
	return net.IP(data).String(), nil
}
