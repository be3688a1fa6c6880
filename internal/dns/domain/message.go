package domain

// Header is the 12-byte DNS message header (RFC 1035 §4.1.1).
type Header struct {
	ID      uint16
	QR      bool
	OpCode  OpCode
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       bool
	AD      bool
	CD      bool
	RCode   RCode
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// NewQueryHeader builds the header of an outgoing query: QR=0, OPCODE=Query,
// RD=1, AD=1, and all section counts zeroed.
func NewQueryHeader(id uint16) Header {
	return Header{ID: id, OpCode: OpCodeQuery, RD: true, AD: true}
}

// NewResponseHeader derives a response header from the request it answers:
// same ID and OPCODE, QR=1, RA=1, AD=0 (authoritative for its own domain but
// not claiming DNSSEC validation).
func NewResponseHeader(request Header) Header {
	h := request
	h.QR = true
	h.RA = true
	h.AD = false
	h.QDCount, h.ANCount, h.NSCount, h.ARCount = 0, 0, 0, 0
	return h
}

func decodeHeader(r *Reader) (Header, error) {
	id, err := r.TakeUint16()
	if err != nil {
		return Header{}, err
	}
	flags, err := r.TakeUint16()
	if err != nil {
		return Header{}, err
	}
	qd, err := r.TakeUint16()
	if err != nil {
		return Header{}, err
	}
	an, err := r.TakeUint16()
	if err != nil {
		return Header{}, err
	}
	ns, err := r.TakeUint16()
	if err != nil {
		return Header{}, err
	}
	ar, err := r.TakeUint16()
	if err != nil {
		return Header{}, err
	}

	h := Header{
		ID:      id,
		QR:      flags&0x8000 != 0,
		OpCode:  OpCode((flags >> 11) & 0x0F),
		AA:      flags&0x0400 != 0,
		TC:      flags&0x0200 != 0,
		RD:      flags&0x0100 != 0,
		RA:      flags&0x0080 != 0,
		Z:       flags&0x0040 != 0,
		AD:      flags&0x0020 != 0,
		CD:      flags&0x0010 != 0,
		RCode:   RCode(flags & 0x000F),
		QDCount: qd,
		ANCount: an,
		NSCount: ns,
		ARCount: ar,
	}
	return h, nil
}

func (h Header) encodeTo(w *Writer) error {
	var flags uint16
	if h.QR {
		flags |= 0x8000
	}
	flags |= uint16(h.OpCode&0x0F) << 11
	if h.AA {
		flags |= 0x0400
	}
	if h.TC {
		flags |= 0x0200
	}
	if h.RD {
		flags |= 0x0100
	}
	if h.RA {
		flags |= 0x0080
	}
	if h.Z {
		flags |= 0x0040
	}
	if h.AD {
		flags |= 0x0020
	}
	if h.CD {
		flags |= 0x0010
	}
	flags |= uint16(h.RCode & 0x0F)

	if err := w.WriteUint16(h.ID); err != nil {
		return err
	}
	if err := w.WriteUint16(flags); err != nil {
		return err
	}
	if err := w.WriteUint16(h.QDCount); err != nil {
		return err
	}
	if err := w.WriteUint16(h.ANCount); err != nil {
		return err
	}
	if err := w.WriteUint16(h.NSCount); err != nil {
		return err
	}
	return w.WriteUint16(h.ARCount)
}

// Question is a single entry of a message's question section.
type Question struct {
	Name  Name
	Type  RRType
	Class RRClass
}

func decodeQuestion(r *Reader) (Question, error) {
	name, err := r.TakeName()
	if err != nil {
		return Question{}, err
	}
	typ, err := r.TakeUint16()
	if err != nil {
		return Question{}, err
	}
	class, err := r.TakeUint16()
	if err != nil {
		return Question{}, err
	}
	if !RRType(typ).IsValid() {
		return Question{}, ErrInvalidType
	}
	if !RRClass(class).IsValid() {
		return Question{}, ErrInvalidClass
	}
	return Question{Name: name, Type: RRType(typ), Class: RRClass(class)}, nil
}

func (q Question) encodeTo(w *Writer) error {
	if err := q.Name.EncodeTo(w); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(q.Type)); err != nil {
		return err
	}
	return w.WriteUint16(uint16(q.Class))
}

// Message is a full DNS message: header, questions, and answers. Authority
// and additional records are not retained structurally; DecodeMessage skips
// their bodies by RDLENGTH so the reader ends at the frame boundary.
type Message struct {
	Header    Header
	Questions []Question
	Answers   []Record
}

// TryDecodeHeader attempts to read just the 12-byte header out of buf,
// ignoring everything after it. It exists so a handler facing a message that
// fails to decode in full can still echo the transaction ID on a best-effort
// FORMERR response, per RFC 1035's guidance that a server should never drop
// a malformed query silently. ok is false when buf is shorter than a header.
func TryDecodeHeader(buf []byte) (h Header, ok bool) {
	r := NewReader(buf)
	h, err := decodeHeader(r)
	return h, err == nil
}

// DecodeMessage parses a complete DNS message out of buf. The header's
// counts drive how many questions and answers are read; authority and
// additional records are skipped using their own RDLENGTH so decoding
// consumes exactly the bytes RFC 1035 attributes to those sections.
func DecodeMessage(buf []byte) (Message, error) {
	r := NewReader(buf)
	h, err := decodeHeader(r)
	if err != nil {
		return Message{}, err
	}

	questions := make([]Question, 0, h.QDCount)
	for i := uint16(0); i < h.QDCount; i++ {
		q, err := decodeQuestion(r)
		if err != nil {
			return Message{}, err
		}
		questions = append(questions, q)
	}

	answers := make([]Record, 0, h.ANCount)
	for i := uint16(0); i < h.ANCount; i++ {
		rec, err := DecodeRecord(r)
		if err != nil {
			return Message{}, err
		}
		answers = append(answers, rec)
	}

	for i := uint16(0); i < h.NSCount+h.ARCount; i++ {
		if err := skipRecord(r); err != nil {
			return Message{}, err
		}
	}

	return Message{Header: h, Questions: questions, Answers: answers}, nil
}

// skipRecord advances r past one resource record without materializing its
// RDATA, using the RDLENGTH field to jump over the payload.
func skipRecord(r *Reader) error {
	if _, err := r.TakeName(); err != nil {
		return err
	}
	if _, err := r.TakeUint16(); err != nil { // type
		return err
	}
	if _, err := r.TakeUint16(); err != nil { // class
		return err
	}
	if _, err := r.TakeUint32(); err != nil { // ttl
		return err
	}
	rdlength, err := r.TakeUint16()
	if err != nil {
		return err
	}
	_, err = r.Take(int(rdlength))
	return err
}

// EncodeTo writes the full wire form of the message: header, then every
// question, then every answer. The header's section counts are overwritten
// from the list lengths, ignoring whatever was set on m.Header. If the
// encoded message would exceed w's capacity, it fails with
// ErrTruncatedMessage before any partial frame is written.
func (m Message) EncodeTo(w *Writer) error {
	h := m.Header
	h.QDCount = uint16(len(m.Questions))
	h.ANCount = uint16(len(m.Answers))
	h.NSCount = 0
	h.ARCount = 0

	scratch := NewWriter(0)
	if err := h.encodeTo(scratch); err != nil {
		return err
	}
	for _, q := range m.Questions {
		if err := q.encodeTo(scratch); err != nil {
			return err
		}
	}
	for _, a := range m.Answers {
		if err := a.EncodeTo(scratch); err != nil {
			return err
		}
	}
	if remaining := w.Remaining(); remaining >= 0 && scratch.Len() > remaining {
		return ErrTruncatedMessage
	}
	return w.Write(scratch.Bytes())
}
