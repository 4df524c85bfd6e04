package wire

import (
	"testing"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/rrdata"
)

func buildQuery(name string) domain.Message {
	q, _ := domain.NewQuestion(name, domain.RRTypeA, domain.RRClassIN)
	var hdr domain.Header
	hdr.ID = 0x1234
	hdr.SetRD(true)
	hdr.SetOpcode(0)
	return domain.Message{Header: hdr, Questions: []domain.Question{q}}
}

func TestEncodeDecodeMessageRoundTripQuery(t *testing.T) {
	msg := buildQuery("www.example.com.")

	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	decoded, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if !decoded.Equal(msg) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, msg)
	}
}

func TestEncodeDecodeMessageRoundTripResponse(t *testing.T) {
	q, _ := domain.NewQuestion("example.com.", domain.RRTypeA, domain.RRClassIN)
	rr1, err := domain.NewResourceRecord("example.com.", domain.RRTypeA, domain.RRClassIN, 300, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("NewResourceRecord: %v", err)
	}
	rr2, err := domain.NewResourceRecord("example.com.", domain.RRTypeA, domain.RRClassIN, 300, nil, "10.0.0.2")
	if err != nil {
		t.Fatalf("NewResourceRecord: %v", err)
	}
	ns, err := domain.NewResourceRecord("example.com.", domain.RRTypeNS, domain.RRClassIN, 3600, nil, "ns1.example.com.")
	if err != nil {
		t.Fatalf("NewResourceRecord: %v", err)
	}

	var hdr domain.Header
	hdr.ID = 0xABCD
	hdr.SetQR(true)
	hdr.SetAA(true)
	hdr.SetRcode(domain.RCodeNoError)

	msg := domain.Message{
		Header:      hdr,
		Questions:   []domain.Question{q},
		Answers:     []domain.ResourceRecord{rr1, rr2},
		Authorities: []domain.ResourceRecord{ns},
	}

	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	decoded, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if !decoded.Equal(msg) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, msg)
	}
	if !decoded.Header.QR() || !decoded.Header.AA() {
		t.Error("expected QR and AA set on decoded header")
	}
}

func TestEncodeMessageReusesNameCompressionAcrossSections(t *testing.T) {
	q, _ := domain.NewQuestion("example.com.", domain.RRTypeA, domain.RRClassIN)
	rr, err := domain.NewResourceRecord("example.com.", domain.RRTypeA, domain.RRClassIN, 300, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("NewResourceRecord: %v", err)
	}
	msg := domain.Message{Questions: []domain.Question{q}, Answers: []domain.ResourceRecord{rr}}

	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	// The question's name is written out in full; the answer's owner name
	// (the same string) should compress down to a single pointer rather
	// than repeating "example.com." in full.
	uncompressedLen := 1 + len("example") + 1 + len("com") + 1 // "example" "com" + terminator
	if len(data) > headerSize+uncompressedLen+4+uncompressedLen+10+4 {
		t.Errorf("expected answer owner name to be compressed, message too large: %d bytes", len(data))
	}
}

func TestDecodeMessageRejectsTruncatedHeader(t *testing.T) {
	if _, err := DecodeMessage([]byte{0x00, 0x01}); err == nil {
		t.Error("expected error for truncated header")
	}
}

func TestDecodeMessageRejectsOverclaimedQuestionCount(t *testing.T) {
	data := make([]byte, headerSize)
	data[5] = 1 // QDCount = 1, but no question bytes follow
	if _, err := DecodeMessage(data); err == nil {
		t.Error("expected error for question count exceeding buffer")
	}
}

// TestDecodeMessageDecompressesNSTargetInRData builds a response by hand
// whose answer reuses the question name, both as its own owner name and as
// a compressed NSDNAME inside its RDATA, the way a real referral compresses
// an NS target against the zone name to stay under a 512-byte reply.
func TestDecodeMessageDecompressesNSTargetInRData(t *testing.T) {
	var data []byte
	data = append(data, 0x12, 0x34) // ID
	data = append(data, 0x80, 0x00) // QR=1
	data = append(data, 0x00, 0x01) // QDCount=1
	data = append(data, 0x00, 0x01) // ANCount=1
	data = append(data, 0x00, 0x00) // NSCount=0
	data = append(data, 0x00, 0x00) // ARCount=0

	nameOffset := len(data)
	data = append(data, 7)
	data = append(data, "example"...)
	data = append(data, 3)
	data = append(data, "com"...)
	data = append(data, 0)
	data = append(data, 0x00, 0x01) // QTYPE A
	data = append(data, 0x00, 0x01) // QCLASS IN

	ptr := []byte{0xC0, byte(nameOffset)}
	data = append(data, ptr...)                 // answer owner name, compressed
	data = append(data, 0x00, 0x02)             // TYPE NS
	data = append(data, 0x00, 0x01)             // CLASS IN
	data = append(data, 0x00, 0x00, 0x0E, 0x10)  // TTL 3600
	data = append(data, 0x00, 0x02)             // RDLENGTH 2
	data = append(data, ptr...)                 // RDATA: compressed NS target

	msg, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if len(msg.Answers) != 1 {
		t.Fatalf("expected one answer, got %d", len(msg.Answers))
	}
	rr := msg.Answers[0]
	if rr.Name != "example.com." {
		t.Errorf("expected decompressed owner name example.com., got %q", rr.Name)
	}
	if rr.Text != "example.com." {
		t.Errorf("expected decompressed NS target example.com., got %q", rr.Text)
	}
	want, err := rrdata.EncodeDomainName("example.com.")
	if err != nil {
		t.Fatalf("EncodeDomainName: %v", err)
	}
	if string(rr.Data) != string(want) {
		t.Errorf("expected Data to store the fully expanded name, got % x", rr.Data)
	}
}

// TestDecodeMessageDecompressesSOANamesInRData covers the two-name case: an
// SOA's mname and rname can each independently be compressed.
func TestDecodeMessageDecompressesSOANamesInRData(t *testing.T) {
	var data []byte
	data = append(data, 0x43, 0x21) // ID
	data = append(data, 0x80, 0x00) // QR=1
	data = append(data, 0x00, 0x01) // QDCount=1
	data = append(data, 0x00, 0x01) // ANCount=1
	data = append(data, 0x00, 0x00)
	data = append(data, 0x00, 0x00)

	nameOffset := len(data)
	data = append(data, 7)
	data = append(data, "example"...)
	data = append(data, 3)
	data = append(data, "com"...)
	data = append(data, 0)
	data = append(data, 0x00, 0x06) // QTYPE SOA
	data = append(data, 0x00, 0x01) // QCLASS IN

	ptr := []byte{0xC0, byte(nameOffset)}
	data = append(data, ptr...)                // answer owner name, compressed
	data = append(data, 0x00, 0x06)            // TYPE SOA
	data = append(data, 0x00, 0x01)            // CLASS IN
	data = append(data, 0x00, 0x00, 0x0E, 0x10) // TTL
	data = append(data, 0x00, 0x18)            // RDLENGTH 24 (2+2+20)
	data = append(data, ptr...)                // mname, compressed
	data = append(data, ptr...)                // rname, compressed
	data = append(data, 0x00, 0x00, 0x00, 0x01) // serial
	data = append(data, 0x00, 0x00, 0x00, 0x02) // refresh
	data = append(data, 0x00, 0x00, 0x00, 0x03) // retry
	data = append(data, 0x00, 0x00, 0x00, 0x04) // expire
	data = append(data, 0x00, 0x00, 0x00, 0x05) // minimum

	msg, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if len(msg.Answers) != 1 {
		t.Fatalf("expected one answer, got %d", len(msg.Answers))
	}
	want := "example.com. example.com. 1 2 3 4 5"
	if msg.Answers[0].Text != want {
		t.Errorf("expected SOA text %q, got %q", want, msg.Answers[0].Text)
	}
}

func TestDecodeMessageRejectsTruncatedRData(t *testing.T) {
	q, _ := domain.NewQuestion("example.com.", domain.RRTypeA, domain.RRClassIN)
	rr, err := domain.NewResourceRecord("example.com.", domain.RRTypeA, domain.RRClassIN, 300, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("NewResourceRecord: %v", err)
	}
	msg := domain.Message{Questions: []domain.Question{q}, Answers: []domain.ResourceRecord{rr}}
	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	truncated := data[:len(data)-2]
	if _, err := DecodeMessage(truncated); err == nil {
		t.Error("expected error for truncated rdata")
	}
}
