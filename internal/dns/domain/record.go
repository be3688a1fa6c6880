package domain

import "fmt"

// Record is a single resource record: a name bound to a type, class, TTL,
// and type-specific RDATA.
type Record struct {
	Name  Name
	Type  RRType
	Class RRClass
	TTL   uint32
	RData RData
}

// DecodeRecord reads one resource record starting at the reader's current
// position, including its owner name, type, class, TTL, and RDLENGTH-bounded
// RDATA.
func DecodeRecord(r *Reader) (Record, error) {
	name, err := r.TakeName()
	if err != nil {
		return Record{}, err
	}
	typ, err := r.TakeUint16()
	if err != nil {
		return Record{}, err
	}
	class, err := r.TakeUint16()
	if err != nil {
		return Record{}, err
	}
	ttl, err := r.TakeUint32()
	if err != nil {
		return Record{}, err
	}
	rdlength, err := r.TakeUint16()
	if err != nil {
		return Record{}, err
	}

	rdataStart := r.Offset()
	rdata, err := decodeRData(r, RRType(typ), int(rdlength))
	if err != nil {
		return Record{}, err
	}
	if consumed := r.Offset() - rdataStart; consumed != int(rdlength) {
		return Record{}, ErrInvalidType
	}

	return Record{
		Name:  name,
		Type:  RRType(typ),
		Class: RRClass(class),
		TTL:   ttl,
		RData: rdata,
	}, nil
}

// decodeRData dispatches to the RDATA decoder for typ, falling back to
// UnknownData for any type this codec does not parse structurally.
func decodeRData(r *Reader, typ RRType, rdlength int) (RData, error) {
	switch typ {
	case RRTypeA:
		if rdlength < 4 {
			return nil, ErrInvalidARecord
		}
		return decodeAData(r)
	case RRTypeAAAA:
		if rdlength < 16 {
			return nil, ErrInvalidAAAARecord
		}
		return decodeAAAAData(r)
	case RRTypeNS:
		return decodeNSData(r)
	case RRTypeCNAME:
		return decodeCNAMEData(r)
	case RRTypePTR:
		return decodePTRData(r)
	case RRTypeMX:
		if rdlength < 3 {
			return nil, ErrInvalidMXRecord
		}
		return decodeMXData(r)
	case RRTypeSOA:
		return decodeSOAData(r)
	case RRTypeTXT:
		return decodeTXTData(r, rdlength)
	default:
		return decodeUnknownData(r, rdlength)
	}
}

// EncodeTo writes the record's wire form: owner name, type, class, TTL, and
// an RDLENGTH-prefixed RDATA. RDATA is serialized into a scratch buffer first
// so its length is known before the RDLENGTH field is written.
func (rec Record) EncodeTo(w *Writer) error {
	if rec.RData == nil {
		return ErrEncodeNotImplemented
	}
	if err := rec.Name.EncodeTo(w); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(rec.Type)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(rec.Class)); err != nil {
		return err
	}
	if err := w.WriteUint32(rec.TTL); err != nil {
		return err
	}

	scratch := NewWriter(0)
	if err := rec.RData.EncodeTo(scratch); err != nil {
		return err
	}
	payload := scratch.Bytes()
	if len(payload) > 0xFFFF {
		return ErrTruncatedMessage
	}
	if err := w.WriteUint16(uint16(len(payload))); err != nil {
		return err
	}
	return w.Write(payload)
}

func (rec Record) String() string {
	return fmt.Sprintf("%s\t%d\t%s\t%s\t%s", rec.Name, rec.TTL, rec.Class, rec.Type, rec.RData)
}
