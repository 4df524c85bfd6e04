package domain

import "fmt"

// RRClass identifies a DNS class. In practice only IN is matched for
// authoritative lookup; others are preserved but never match a zone.
type RRClass uint16

const (
	RRClassIN   RRClass = 1
	RRClassCH   RRClass = 3
	RRClassHS   RRClass = 4
	RRClassNONE RRClass = 254
	RRClassANY  RRClass = 255
)

// String returns the textual mnemonic for c, or "CLASS<n>" for unknown codes.
func (c RRClass) String() string {
	switch c {
	case RRClassIN:
		return "IN"
	case RRClassCH:
		return "CH"
	case RRClassHS:
		return "HS"
	case RRClassNONE:
		return "NONE"
	case RRClassANY:
		return "ANY"
	default:
		return fmt.Sprintf("CLASS%d", uint16(c))
	}
}

// ParseRRClass converts a class mnemonic into its RRClass, defaulting to IN
// for anything unrecognized (the master-file format allows the class field
// to be omitted, which means IN).
func ParseRRClass(s string) RRClass {
	switch s {
	case "", "IN":
		return RRClassIN
	case "CH":
		return RRClassCH
	case "HS":
		return RRClassHS
	case "NONE":
		return RRClassNONE
	case "ANY":
		return RRClassANY
	default:
		return RRClassIN
	}
}
