package rrdata

import (
	"testing"

	"github.com/hendrikto/gumped/internal/dns/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		rrType domain.RRType
		text   string
	}{
		{domain.RRTypeA, "10.0.1.5"},
		{domain.RRTypeNS, "ns1.gumpe."},
		{domain.RRTypeCNAME, "server2.gumpe."},
		{domain.RRTypeSOA, "ns1.gumpe. hostmaster.gumpe. 1 3600 600 86400 300"},
		{domain.RRTypePTR, "host.gumpe."},
		{domain.RRTypeMX, "10 mail.gumpe."},
		{domain.RRTypeTXT, "hello world"},
		{domain.RRTypeAAAA, "2001:db8::1"},
	}
	for _, c := range cases {
		data, err := Encode(c.rrType, c.text)
		if err != nil {
			t.Fatalf("Encode(%v, %q): %v", c.rrType, c.text, err)
		}
		text, err := Decode(c.rrType, data)
		if err != nil {
			t.Fatalf("Decode(%v, %x): %v", c.rrType, data, err)
		}
		if text != c.text && c.rrType != domain.RRTypeAAAA {
			t.Errorf("round trip %v: got %q, want %q", c.rrType, text, c.text)
		}
	}
}

func TestEncodeARejectsInvalidAddress(t *testing.T) {
	if _, err := EncodeA("not-an-ip"); err == nil {
		t.Error("expected error for invalid A address")
	}
	if _, err := EncodeA("2001:db8::1"); err == nil {
		t.Error("expected error for IPv6 address passed to A encoder")
	}
}

func TestEncodeUnknownTypePassesThroughOpaque(t *testing.T) {
	data, err := Encode(domain.RRType(9999), "opaque-value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, err := Decode(domain.RRType(9999), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "opaque-value" {
		t.Errorf("got %q, want %q", text, "opaque-value")
	}
}
