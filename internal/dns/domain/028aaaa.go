package domain

import "net"

// AAAAData is the RDATA of an AAAA record: a 16-byte IPv6 address (RFC 3596).
type AAAAData struct {
	Addr [16]byte
}

func (d AAAAData) EncodeTo(w *Writer) error {
	return w.Write(d.Addr[:])
}

func (d AAAAData) String() string {
	return net.IP(d.Addr[:]).String()
}

// decodeAAAAData reads a fixed 16-byte AAAA record payload from r. The
// caller (decodeRData) has already rejected any rdlength under 16.
func decodeAAAAData(r *Reader) (AAAAData, error) {
	b, err := r.Take(16)
	if err != nil {
		return AAAAData{}, err
	}
	var d AAAAData
	copy(d.Addr[:], b)
	return d, nil
}
