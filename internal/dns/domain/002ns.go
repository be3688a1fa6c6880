package domain

// NSData is the RDATA of an NS record: the authoritative name server.
type NSData struct {
	Target Name
}

func (d NSData) EncodeTo(w *Writer) error {
	return d.Target.EncodeTo(w)
}

func (d NSData) String() string {
	return d.Target.String()
}

func decodeNSData(r *Reader) (NSData, error) {
	name, err := r.TakeName()
	if err != nil {
		return NSData{}, err
	}
	return NSData{Target: name}, nil
}
