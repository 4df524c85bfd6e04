package rrdata

// EncodePTR encodes a PTR record's target name.
func EncodePTR(text string) ([]byte, error) {
	return EncodeDomainName(text)
}

// DecodePTR decodes a PTR record's target name.
func DecodePTR(data []byte) (string, error) {
	name, _, err := DecodeDomainName(data)
	return name, err
}
