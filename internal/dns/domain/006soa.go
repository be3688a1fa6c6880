package domain

import "fmt"

// SOAData is the RDATA of an SOA record, marking the start of a zone of
// authority (RFC 1035 §3.3.13).
type SOAData struct {
	MName   Name
	RName   Name
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (d SOAData) EncodeTo(w *Writer) error {
	if err := d.MName.EncodeTo(w); err != nil {
		return err
	}
	if err := d.RName.EncodeTo(w); err != nil {
		return err
	}
	for _, v := range []uint32{d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum} {
		if err := w.WriteUint32(v); err != nil {
			return err
		}
	}
	return nil
}

func (d SOAData) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", d.MName, d.RName, d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum)
}

func decodeSOAData(r *Reader) (SOAData, error) {
	mname, err := r.TakeName()
	if err != nil {
		return SOAData{}, err
	}
	rname, err := r.TakeName()
	if err != nil {
		return SOAData{}, err
	}
	var vals [5]uint32
	for i := range vals {
		v, err := r.TakeUint32()
		if err != nil {
			return SOAData{}, err
		}
		vals[i] = v
	}
	return SOAData{
		MName:   mname,
		RName:   rname,
		Serial:  vals[0],
		Refresh: vals[1],
		Retry:   vals[2],
		Expire:  vals[3],
		Minimum: vals[4],
	}, nil
}
