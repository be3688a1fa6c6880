package domain

// CNAMEData is the RDATA of a CNAME record: the canonical name this owner
// name is an alias for.
type CNAMEData struct {
	Target Name
}

func (d CNAMEData) EncodeTo(w *Writer) error {
	return d.Target.EncodeTo(w)
}

func (d CNAMEData) String() string {
	return d.Target.String()
}

func decodeCNAMEData(r *Reader) (CNAMEData, error) {
	name, err := r.TakeName()
	if err != nil {
		return CNAMEData{}, err
	}
	return CNAMEData{Target: name}, nil
}
