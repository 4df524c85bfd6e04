package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/hendrikto/gumped/internal/dns/domain"
	"github.com/hendrikto/gumped/internal/dns/rrdata"
)

const headerSize = 12

// EncodeMessage serializes msg to its wire form. Section counts in the
// written header are derived from the slice lengths, not from
// msg.Header.QDCount etc — callers build sections, not counts.
func EncodeMessage(msg domain.Message) ([]byte, error) {
	buf := make([]byte, headerSize)
	binary.BigEndian.PutUint16(buf[0:2], msg.Header.ID)
	binary.BigEndian.PutUint16(buf[2:4], msg.Header.Flags)
	binary.BigEndian.PutUint16(buf[4:6], uint16(len(msg.Questions)))
	binary.BigEndian.PutUint16(buf[6:8], uint16(len(msg.Answers)))
	binary.BigEndian.PutUint16(buf[8:10], uint16(len(msg.Authorities)))
	binary.BigEndian.PutUint16(buf[10:12], uint16(len(msg.Additionals)))

	c := newCompressor()

	for _, q := range msg.Questions {
		if err := encodeName(&buf, c, q.Name); err != nil {
			return nil, err
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(q.Type))
		buf = binary.BigEndian.AppendUint16(buf, uint16(q.Class))
	}

	for _, section := range [][]domain.ResourceRecord{msg.Answers, msg.Authorities, msg.Additionals} {
		for _, rr := range section {
			var err error
			buf, err = encodeRR(buf, c, rr)
			if err != nil {
				return nil, err
			}
		}
	}

	return buf, nil
}

func encodeRR(buf []byte, c *compressor, rr domain.ResourceRecord) ([]byte, error) {
	if err := encodeName(&buf, c, rr.Name); err != nil {
		return nil, err
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(rr.Type))
	buf = binary.BigEndian.AppendUint16(buf, uint16(rr.Class))
	buf = binary.BigEndian.AppendUint32(buf, rr.TTL)

	data := rr.Data
	if data == nil {
		encoded, err := rrdata.Encode(rr.Type, rr.Text)
		if err != nil {
			return nil, err
		}
		data = encoded
	}
	if len(data) > 0xFFFF {
		return nil, domain.NewFormatError("rdata too long")
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(data)))
	buf = append(buf, data...)
	return buf, nil
}

// DecodeMessage parses a full wire message. It returns a *domain.FormatError
// (per §4.1) for any structural violation: truncated header, section counts
// that overrun the buffer, malformed names, or truncated RDATA.
func DecodeMessage(data []byte) (domain.Message, error) {
	if len(data) < headerSize {
		return domain.Message{}, domain.NewFormatError("message shorter than header")
	}

	var msg domain.Message
	msg.Header = domain.Header{
		ID:      binary.BigEndian.Uint16(data[0:2]),
		Flags:   binary.BigEndian.Uint16(data[2:4]),
		QDCount: binary.BigEndian.Uint16(data[4:6]),
		ANCount: binary.BigEndian.Uint16(data[6:8]),
		NSCount: binary.BigEndian.Uint16(data[8:10]),
		ARCount: binary.BigEndian.Uint16(data[10:12]),
	}

	offset := headerSize

	msg.Questions = make([]domain.Question, 0, msg.Header.QDCount)
	for i := uint16(0); i < msg.Header.QDCount; i++ {
		q, next, err := decodeQuestion(data, offset)
		if err != nil {
			// The header itself decoded cleanly, so its ident is still
			// useful to a caller building a FormatError reply (§4.5 step 1).
			return domain.Message{Header: msg.Header}, err
		}
		msg.Questions = append(msg.Questions, q)
		offset = next
	}

	for _, pair := range []struct {
		count int
		dst   *[]domain.ResourceRecord
	}{
		{int(msg.Header.ANCount), &msg.Answers},
		{int(msg.Header.NSCount), &msg.Authorities},
		{int(msg.Header.ARCount), &msg.Additionals},
	} {
		records := make([]domain.ResourceRecord, 0, pair.count)
		for i := 0; i < pair.count; i++ {
			rr, next, err := decodeRR(data, offset)
			if err != nil {
				return domain.Message{Header: msg.Header, Questions: msg.Questions}, err
			}
			records = append(records, rr)
			offset = next
		}
		*pair.dst = records
	}

	return msg, nil
}

func decodeQuestion(data []byte, offset int) (domain.Question, int, error) {
	name, offset, err := decodeName(data, offset)
	if err != nil {
		return domain.Question{}, 0, err
	}
	if offset+4 > len(data) {
		return domain.Question{}, 0, domain.NewFormatError("question truncated")
	}
	q := domain.Question{
		Name:  name,
		Type:  domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2])),
		Class: domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4])),
	}
	return q, offset + 4, nil
}

func decodeRR(data []byte, offset int) (domain.ResourceRecord, int, error) {
	name, offset, err := decodeName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}
	if offset+10 > len(data) {
		return domain.ResourceRecord{}, 0, domain.NewFormatError("resource record header truncated")
	}
	rrType := domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2]))
	class := domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
	ttl := binary.BigEndian.Uint32(data[offset+4 : offset+8])
	rdlength := int(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
	offset += 10

	if offset+rdlength > len(data) {
		return domain.ResourceRecord{}, 0, domain.NewFormatError("rdata truncated")
	}
	rdataEnd := offset + rdlength

	text, rdataBytes, err := decodeRData(rrType, data, offset, rdataEnd)
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}

	rr := domain.ResourceRecord{
		Name:  name,
		Type:  rrType,
		Class: class,
		TTL:   ttl,
		Data:  rdataBytes,
		Text:  text,
	}
	return rr, rdataEnd, nil
}

// decodeRData decodes the rdata for rrType starting at offset within the
// full message buffer data (not a standalone slice), so that any name
// embedded in the rdata — NS/CNAME/PTR targets, SOA mname/rname, MX
// exchange — can follow compression pointers into earlier parts of the
// message, per §4.1's "name parsing MUST follow compression pointers".
// It returns the presentation text and the fully expanded (never
// pointer-compressed) wire bytes to store as ResourceRecord.Data.
func decodeRData(rrType domain.RRType, data []byte, offset, rdataEnd int) (string, []byte, error) {
	switch rrType {
	case domain.RRTypeNS, domain.RRTypeCNAME, domain.RRTypePTR:
		name, consumed, err := decodeName(data, offset)
		if err != nil {
			return "", nil, err
		}
		if consumed > rdataEnd {
			return "", nil, domain.NewFormatError("rdata name extends past rdlength")
		}
		expanded, err := rrdata.EncodeDomainName(name)
		if err != nil {
			return "", nil, err
		}
		return name, expanded, nil

	case domain.RRTypeSOA:
		mname, next, err := decodeName(data, offset)
		if err != nil {
			return "", nil, err
		}
		if next > rdataEnd {
			return "", nil, domain.NewFormatError("rdata name extends past rdlength")
		}
		rname, next, err := decodeName(data, next)
		if err != nil {
			return "", nil, err
		}
		if next+20 > rdataEnd {
			return "", nil, domain.NewFormatError("truncated SOA counters")
		}
		counters := data[next : next+20]
		text := fmt.Sprintf("%s %s %d %d %d %d %d", mname, rname,
			binary.BigEndian.Uint32(counters[0:4]),
			binary.BigEndian.Uint32(counters[4:8]),
			binary.BigEndian.Uint32(counters[8:12]),
			binary.BigEndian.Uint32(counters[12:16]),
			binary.BigEndian.Uint32(counters[16:20]))
		expanded, err := rrdata.Encode(rrType, text)
		if err != nil {
			return "", nil, err
		}
		return text, expanded, nil

	case domain.RRTypeMX:
		if offset+2 > rdataEnd {
			return "", nil, domain.NewFormatError("truncated MX preference")
		}
		pref := binary.BigEndian.Uint16(data[offset : offset+2])
		exchange, consumed, err := decodeName(data, offset+2)
		if err != nil {
			return "", nil, err
		}
		if consumed > rdataEnd {
			return "", nil, domain.NewFormatError("rdata name extends past rdlength")
		}
		text := fmt.Sprintf("%d %s", pref, exchange)
		expanded, err := rrdata.Encode(rrType, text)
		if err != nil {
			return "", nil, err
		}
		return text, expanded, nil

	default:
		rdata := data[offset:rdataEnd]
		text, err := rrdata.Decode(rrType, rdata)
		if err != nil {
			return "", nil, err
		}
		return text, append([]byte(nil), rdata...), nil
	}
}
