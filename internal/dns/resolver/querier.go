package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/wire"
)

// Querier sends a single outbound question to a nameserver and returns its
// reply. Implementations own the transport; the resolver only needs the
// round trip.
type Querier interface {
	Query(ctx context.Context, nsAddr string, q domain.Question, timeout time.Duration) (domain.Message, error)
}

// udpQuerier is the production Querier: one UDP socket per outbound query,
// per §4.4 step 2.
type udpQuerier struct {
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewUDPQuerier returns a Querier that dials real UDP sockets.
func NewUDPQuerier() Querier {
	return &udpQuerier{dial: (&net.Dialer{}).DialContext}
}

func (u *udpQuerier) Query(ctx context.Context, nsAddr string, q domain.Question, timeout time.Duration) (domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := u.dial(ctx, "udp", net.JoinHostPort(nsAddr, "53"))
	if err != nil {
		return domain.Message{}, fmt.Errorf("dial %s: %w", nsAddr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	var hdr domain.Header
	hdr.ID = nextQueryID()
	hdr.SetOpcode(0)
	hdr.SetRD(false)
	query := domain.Message{Header: hdr, Questions: []domain.Question{q}}

	data, err := wire.EncodeMessage(query)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode query: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return domain.Message{}, fmt.Errorf("write query: %w", err)
	}

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		return domain.Message{}, fmt.Errorf("read reply: %w", err)
	}

	return wire.DecodeMessage(buf[:n])
}
