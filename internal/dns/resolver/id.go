package resolver

import "sync/atomic"

var queryIDCounter uint32

// nextQueryID returns an arbitrary, distinct transaction ID for an
// outbound query. §4.4 step 2 only requires "id: arbitrary" — a counter
// is simpler to reason about in tests than a random source.
func nextQueryID() uint16 {
	return uint16(atomic.AddUint32(&queryIDCounter, 1))
}
