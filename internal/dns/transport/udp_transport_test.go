package transport

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"
)

type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, data []byte, clientAddr net.Addr) []byte {
	reply := make([]byte, len(data))
	copy(reply, data)
	return reply
}

type silentHandler struct{}

func (silentHandler) Handle(ctx context.Context, data []byte, clientAddr net.Addr) []byte {
	return nil
}

type panickyHandler struct{}

func (panickyHandler) Handle(ctx context.Context, data []byte, clientAddr net.Addr) []byte {
	panic("boom")
}

func TestUDPTransportEchoesDatagram(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tr.Start(ctx, echoHandler{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer tr.Stop()

	conn, err := net.Dial("udp", tr.Address())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	payload := []byte("hello")
	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Errorf("got %q, want %q", buf[:n], payload)
	}
}

func TestUDPTransportNilReplyDoesNotBlock(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tr.Start(ctx, silentHandler{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer tr.Stop()

	conn, err := net.Dial("udp", tr.Address())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, 64)
	if _, err := conn.Read(buf); err == nil {
		t.Errorf("expected read timeout, got a reply")
	}
}

func TestUDPTransportRecoversFromHandlerPanic(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tr.Start(ctx, panickyHandler{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer tr.Stop()

	conn, err := net.Dial("udp", tr.Address())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Send a second datagram after the first handler's panic; this only
	// checks that the client-side write still succeeds.
	time.Sleep(50 * time.Millisecond)
	if _, err := conn.Write([]byte("ping-again")); err != nil {
		t.Fatalf("second Write: %v", err)
	}
}

func TestUDPTransportStopClosesSocket(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tr.Start(ctx, echoHandler{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tr.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := tr.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}
