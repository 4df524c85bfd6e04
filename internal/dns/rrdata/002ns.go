package rrdata

// EncodeNS encodes an NS record's target name.
func EncodeNS(text string) ([]byte, error) {
	return EncodeDomainName(text)
}

// DecodeNS decodes an NS record's target name (no compression support;
// the wire codec decodes NS rdata against the full message itself and
// does not call this).
func DecodeNS(data []byte) (string, error) {
	name, _, err := DecodeDomainName(data)
	return name, err
}
