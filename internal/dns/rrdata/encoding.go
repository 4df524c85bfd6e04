package rrdata

import (
	"github.com/hendrikto/gumped/internal/dns/domain"
)

// Encode converts a record's presentation text into its wire encoding for
// the given type. Unsupported/unknown types pass the text through as
// opaque bytes, per §3's "opaque byte buffer" fallback.
func Encode(rrType domain.RRType, text string) ([]byte, error) {
	switch rrType {
	case domain.RRTypeA:
		return EncodeA(text)
	case domain.RRTypeNS:
		return EncodeNS(text)
	case domain.RRTypeCNAME:
		return EncodeCNAME(text)
	case domain.RRTypeSOA:
		return EncodeSOA(text)
	case domain.RRTypePTR:
		return EncodePTR(text)
	case domain.RRTypeMX:
		return EncodeMX(text)
	case domain.RRTypeTXT:
		return EncodeTXT(text)
	case domain.RRTypeAAAA:
		return EncodeAAAA(text)
	default:
		return []byte(text), nil
	}
}
