package domain

import "fmt"

// TXTData is the RDATA of a TXT record: an opaque byte string, commonly
// (but not necessarily) printable text.
type TXTData struct {
	Text []byte
}

func (d TXTData) EncodeTo(w *Writer) error {
	return w.Write(d.Text)
}

func (d TXTData) String() string {
	return fmt.Sprintf("%q", d.Text)
}

func decodeTXTData(r *Reader, rdlength int) (TXTData, error) {
	b, err := r.Take(rdlength)
	if err != nil {
		return TXTData{}, err
	}
	return TXTData{Text: append([]byte(nil), b...)}, nil
}
