package domain

// Message is a full DNS message: a Header plus its four sections
// (RFC 1035 §4.1). This is what the wire codec encodes/decodes; the
// narrower Question/ResourceRecord types above are its building blocks.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []ResourceRecord
	Authorities []ResourceRecord
	Additionals []ResourceRecord
}

// Equal implements §4.1's round-trip contract: set equality of answers,
// authorities, and additionals, with question order preserved. Only the
// header's ID and Flags are compared: the section counts are derived from
// the section lengths on encode.
func (m Message) Equal(other Message) bool {
	if m.Header.ID != other.Header.ID || m.Header.Flags != other.Header.Flags {
		return false
	}
	if len(m.Questions) != len(other.Questions) {
		return false
	}
	for i := range m.Questions {
		if m.Questions[i] != other.Questions[i] {
			return false
		}
	}
	return rrSetEqual(m.Answers, other.Answers) &&
		rrSetEqual(m.Authorities, other.Authorities) &&
		rrSetEqual(m.Additionals, other.Additionals)
}

// rrSetEqual compares two RR slices as sets (order-independent), per the
// §3 definition that record equality spans all five tuple fields.
func rrSetEqual(a, b []ResourceRecord) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ra := range a {
		found := false
		for j, rb := range b {
			if used[j] {
				continue
			}
			if ra.Equal(rb) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
