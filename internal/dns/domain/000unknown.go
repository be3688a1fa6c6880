package domain

import "fmt"

// UnknownData is the RDATA of any record type this codec does not parse
// structurally. The original type is preserved on the Record, not here, so
// round-tripping an unrecognized RR requires no special casing beyond
// carrying the raw payload through unchanged.
type UnknownData struct {
	Raw []byte
}

func (d UnknownData) EncodeTo(w *Writer) error {
	return w.Write(d.Raw)
}

// String renders the RFC 3597 "unknown RR" presentation form: \# length hex.
func (d UnknownData) String() string {
	return fmt.Sprintf("\\# %d %x", len(d.Raw), d.Raw)
}

func decodeUnknownData(r *Reader, rdlength int) (UnknownData, error) {
	b, err := r.Take(rdlength)
	if err != nil {
		return UnknownData{}, err
	}
	return UnknownData{Raw: append([]byte(nil), b...)}, nil
}
