package rrdata

import "github.com/hendrikto/gumped/internal/dns/domain"

// Decode converts a record's wire bytes back into presentation text for the
// given type. Names embedded in data must already be decompressed by the
// caller (the wire codec, which has the enclosing message in scope);
// Decode itself never follows compression pointers.
func Decode(rrType domain.RRType, data []byte) (string, error) {
	switch rrType {
	case domain.RRTypeA:
		return DecodeA(data)
	case domain.RRTypeNS:
		return DecodeNS(data)
	case domain.RRTypeCNAME:
		return DecodeCNAME(data)
	case domain.RRTypeSOA:
		return DecodeSOA(data)
	case domain.RRTypePTR:
		return DecodePTR(data)
	case domain.RRTypeMX:
		return DecodeMX(data)
	case domain.RRTypeTXT:
		return DecodeTXT(data)
	case domain.RRTypeAAAA:
		return DecodeAAAA(data)
	default:
		return string(data), nil
	}
}
