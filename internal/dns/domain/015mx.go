package domain

import "fmt"

// MXData is the RDATA of an MX record: a mail exchanger preference and the
// host name of the exchanger.
type MXData struct {
	Preference uint16
	Exchanger  Name
}

func (d MXData) EncodeTo(w *Writer) error {
	if err := w.WriteUint16(d.Preference); err != nil {
		return err
	}
	return d.Exchanger.EncodeTo(w)
}

func (d MXData) String() string {
	return fmt.Sprintf("%d %s", d.Preference, d.Exchanger)
}

// decodeMXData requires the caller to have already validated rdlength >= 3.
func decodeMXData(r *Reader) (MXData, error) {
	pref, err := r.TakeUint16()
	if err != nil {
		return MXData{}, err
	}
	exchanger, err := r.TakeName()
	if err != nil {
		return MXData{}, err
	}
	return MXData{Preference: pref, Exchanger: exchanger}, nil
}
