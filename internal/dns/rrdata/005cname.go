package rrdata

// EncodeCNAME encodes a CNAME record's target name.
func EncodeCNAME(text string) ([]byte, error) {
	return EncodeDomainName(text)
}

// DecodeCNAME decodes a CNAME record's target name.
func DecodeCNAME(data []byte) (string, error) {
	name, _, err := DecodeDomainName(data)
	return name, err
}
