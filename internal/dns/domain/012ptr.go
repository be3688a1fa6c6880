package domain

// PTRData is the RDATA of a PTR record, pointing at another location in
// the domain name space (commonly used for reverse lookups).
type PTRData struct {
	Target Name
}

func (d PTRData) EncodeTo(w *Writer) error {
	return d.Target.EncodeTo(w)
}

func (d PTRData) String() string {
	return d.Target.String()
}

func decodePTRData(r *Reader) (PTRData, error) {
	name, err := r.TakeName()
	if err != nil {
		return PTRData{}, err
	}
	return PTRData{Target: name}, nil
}
