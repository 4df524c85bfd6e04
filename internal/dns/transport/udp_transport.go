// Package transport is the UDP socket layer (§5, §6): bind, accept loop,
// one goroutine per datagram. It owns no DNS semantics — decoding,
// answering, and encoding all live in dispatch.
package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/hendrikto/gumped/internal/dns/log"
)

// maxDatagramSize is the inbound buffer size §6 mandates (1024 bytes).
// Outbound replies are written as the handler returns them: neither this
// package nor the dispatch/wire layers limit them to 512 bytes or set TC.
const maxDatagramSize = 1024

// Handler answers one datagram's worth of bytes with a reply to send back.
type Handler interface {
	Handle(ctx context.Context, data []byte, clientAddr net.Addr) []byte
}

// UDPTransport binds a single UDP socket and dispatches each inbound
// datagram to a Handler on its own goroutine.
type UDPTransport struct {
	addr   string
	logger log.Logger

	mu      sync.RWMutex
	conn    *net.UDPConn
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport returns a transport bound to addr once Start is called.
func NewUDPTransport(addr string, logger log.Logger) *UDPTransport {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &UDPTransport{addr: addr, logger: logger, stopCh: make(chan struct{})}
}

// Start binds the UDP socket and begins the accept loop in a background
// goroutine. It returns once the socket is bound.
func (t *UDPTransport) Start(ctx context.Context, handler Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("udp transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("resolve udp address %s: %w", t.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("bind udp socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.logger.Info(map[string]any{"address": t.addr}, "dns transport started")

	go t.acceptLoop(ctx, handler)
	return nil
}

// Stop closes the listening socket. The accept loop exits on its next
// failed receive; in-flight per-datagram goroutines are allowed to finish.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	close(t.stopCh)
	err := t.conn.Close()
	t.running = false
	t.logger.Info(map[string]any{"address": t.addr}, "dns transport stopped")
	return err
}

// Address returns the bound local address, or "" before Start succeeds.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn == nil {
		return ""
	}
	return t.conn.LocalAddr().String()
}

func (t *UDPTransport) acceptLoop(ctx context.Context, handler Handler) {
	buf := make([]byte, maxDatagramSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		default:
		}

		n, clientAddr, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			t.mu.RLock()
			running := t.running
			t.mu.RUnlock()
			if !running {
				return
			}
			t.logger.Warn(map[string]any{"error": err.Error()}, "failed to read udp datagram")
			continue
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		go t.handleDatagram(ctx, datagram, clientAddr, handler)
	}
}

// handleDatagram runs the handler and writes its reply back to the
// client, recovering from any panic so one bad request never takes down
// the accept loop (§7 addition).
func (t *UDPTransport) handleDatagram(ctx context.Context, data []byte, clientAddr *net.UDPAddr, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error(map[string]any{"client": clientAddr.String(), "panic": fmt.Sprintf("%v", r)}, "recovered from panic handling datagram")
		}
	}()

	reply := handler.Handle(ctx, data, clientAddr)
	if reply == nil {
		return
	}
	if _, err := t.conn.WriteToUDP(reply, clientAddr); err != nil {
		t.logger.Warn(map[string]any{"client": clientAddr.String(), "error": err.Error()}, "failed to send dns reply")
	}
}
