// Command dnsdig is a minimal test client: it sends one query to a given
// server and prints the decoded answer. It exists to drive the scenarios
// in spec.md §8 by hand, not to be a full dig replacement.
package main

import (
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/wire"
)

const queryTimeout = 5 * time.Second

var queryIDCounter uint32

// nextQueryID returns an arbitrary, distinct transaction ID for an
// outbound query, mirroring the server's own resolver.
func nextQueryID() uint16 {
	return uint16(atomic.AddUint32(&queryIDCounter, 1))
}

func main() {
	server := pflag.String("server", "127.0.0.1:53", "DNS server address to query")
	qtype := pflag.String("type", "A", "record type to query (A, NS, CNAME, ...)")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dnsdig [--server addr] [--type A] <name>")
		os.Exit(2)
	}
	name := pflag.Arg(0)

	reply, err := dig(*server, name, *qtype)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsdig: %v\n", err)
		os.Exit(1)
	}

	printMessage(reply)
}

// dig sends one query for (name, qtype) to server and returns the decoded
// reply.
func dig(server, name, qtype string) (domain.Message, error) {
	q, err := domain.NewQuestion(name, domain.RRTypeFromString(qtype), domain.RRClassIN)
	if err != nil {
		return domain.Message{}, fmt.Errorf("building question: %w", err)
	}

	var hdr domain.Header
	hdr.ID = nextQueryID()
	hdr.SetRD(true)

	query, err := wire.EncodeMessage(domain.Message{Header: hdr, Questions: []domain.Question{q}})
	if err != nil {
		return domain.Message{}, fmt.Errorf("encoding query: %w", err)
	}

	conn, err := net.Dial("udp", server)
	if err != nil {
		return domain.Message{}, fmt.Errorf("dialing %s: %w", server, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(queryTimeout)); err != nil {
		return domain.Message{}, fmt.Errorf("setting deadline: %w", err)
	}
	if _, err := conn.Write(query); err != nil {
		return domain.Message{}, fmt.Errorf("sending query: %w", err)
	}

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		return domain.Message{}, fmt.Errorf("reading reply: %w", err)
	}

	reply, err := wire.DecodeMessage(buf[:n])
	if err != nil {
		return domain.Message{}, fmt.Errorf("decoding reply: %w", err)
	}
	if reply.Header.ID != hdr.ID {
		return domain.Message{}, fmt.Errorf("reply id %d does not match query id %d", reply.Header.ID, hdr.ID)
	}
	return reply, nil
}

func printMessage(msg domain.Message) {
	fmt.Printf(";; rcode: %s, ancount: %d\n", msg.Header.Rcode(), msg.Header.ANCount)
	for _, q := range msg.Questions {
		fmt.Printf(";; question: %s %s %s\n", q.Name, q.Class, q.Type)
	}
	for _, rr := range msg.Answers {
		fmt.Printf("%s\t%d\t%s\t%s\t%s\n", rr.Name, rr.TTL, rr.Class, rr.Type, rr.Text)
	}
}
