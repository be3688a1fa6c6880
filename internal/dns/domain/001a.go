package domain

import "net"

// AData is the RDATA of an A record: a 4-byte IPv4 address.
type AData struct {
	Addr [4]byte
}

// EncodeTo writes the 4-byte address.
func (d AData) EncodeTo(w *Writer) error {
	return w.Write(d.Addr[:])
}

// String returns the dotted-quad presentation form.
func (d AData) String() string {
	return net.IP(d.Addr[:]).String()
}

// decodeAData reads a fixed 4-byte A record payload from r. The caller
// (decodeRData) has already rejected any rdlength under 4.
func decodeAData(r *Reader) (AData, error) {
	b, err := r.Take(4)
	if err != nil {
		return AData{}, err
	}
	var d AData
	copy(d.Addr[:], b)
	return d, nil
}
