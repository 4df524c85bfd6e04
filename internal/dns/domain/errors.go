package domain

// FormatError indicates a DNS wire message failed to decode: truncated
// input, a bad label length, a compression loop, or section counts that
// overrun the remaining bytes. The resolver drops the offending response
// and tries the next candidate server; the dispatcher answers RCODE=1.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "dns: format error: " + e.Reason
}

// NewFormatError constructs a FormatError with the given reason.
func NewFormatError(reason string) *FormatError {
	return &FormatError{Reason: reason}
}
