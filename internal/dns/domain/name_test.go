package domain

import (
	"errors"
	"testing"
)

func TestFromText(t *testing.T) {
	cases := []struct {
		input      string
		wantLabels int
		wantString string
	}{
		{"www.example.com.", 3, "www.example.com."},
		{"www.example.com", 3, "www.example.com."},
		{".", 0, "."},
		{"", 0, "."},
		{"*.example.com.", 3, "*.example.com."},
	}
	for _, tc := range cases {
		n, err := FromText(tc.input)
		if err != nil {
			t.Fatalf("FromText(%q): %v", tc.input, err)
		}
		if n.LabelCount() != tc.wantLabels {
			t.Errorf("FromText(%q).LabelCount() = %d, want %d", tc.input, n.LabelCount(), tc.wantLabels)
		}
		if got := n.String(); got != tc.wantString {
			t.Errorf("FromText(%q).String() = %q, want %q", tc.input, got, tc.wantString)
		}
	}
}

func TestFromText_Errors(t *testing.T) {
	cases := []struct {
		input   string
		wantErr error
	}{
		{"a..b.", ErrInvalidName},
		{"foo*.example.com.", ErrWildcardNotAlone},
		{"example.*.com.", ErrWildcardNotFirst},
	}
	for _, tc := range cases {
		_, err := FromText(tc.input)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("FromText(%q) error = %v, want wrapping %v", tc.input, err, tc.wantErr)
		}
	}
}

func TestFromText_LabelTooLong(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	_, err := FromText(string(long) + ".com.")
	if !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("error = %v, want wrapping ErrLabelTooLong", err)
	}
}

func TestName_EncodeDecodeRoundTrip(t *testing.T) {
	n, err := FromText("www.example.com.")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	w := NewWriter(0)
	if err := n.EncodeTo(w); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}

	got, next, err := Decode(w.Bytes(), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if next != len(w.Bytes()) {
		t.Errorf("next = %d, want %d", next, len(w.Bytes()))
	}
	if !got.Equal(n) {
		t.Errorf("Decode result = %v, want %v", got, n)
	}
}

// TestName_Decode_CompressionPointer builds a buffer with "example.com."
// written once at offset 0 and "www.example.com." written starting at
// offset 20 as a "www" label followed by a pointer back to offset 0.
func TestName_Decode_CompressionPointer(t *testing.T) {
	buf := make([]byte, 32)
	base, err := FromText("example.com.")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	copy(buf[0:], base.Bytes())

	const wwwOffset = 20
	buf[wwwOffset] = 3
	copy(buf[wwwOffset+1:], "www")
	ptrPos := wwwOffset + 4
	buf[ptrPos] = 0xC0 | byte(0>>8)
	buf[ptrPos+1] = byte(0)

	got, next, err := Decode(buf, wwwOffset)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want, err := FromText("www.example.com.")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Decode result = %v, want %v", got, want)
	}
	if next != ptrPos+2 {
		t.Errorf("next = %d, want %d (just past the pointer, not followed)", next, ptrPos+2)
	}
}

func TestName_Decode_PointerMustPointStrictlyBackward(t *testing.T) {
	buf := make([]byte, 8)
	buf[0] = 0xC0
	buf[1] = 0x02 // points forward to offset 2, >= parsePos 0
	if _, _, err := Decode(buf, 0); !errors.Is(err, ErrInvalidPointer) {
		t.Errorf("error = %v, want wrapping ErrInvalidPointer", err)
	}
}

func TestName_Decode_PointerToSelfRejected(t *testing.T) {
	buf := make([]byte, 8)
	buf[0] = 0xC0
	buf[1] = 0x00 // points at itself
	if _, _, err := Decode(buf, 0); !errors.Is(err, ErrInvalidPointer) {
		t.Errorf("error = %v, want wrapping ErrInvalidPointer", err)
	}
}

func TestName_Decode_ReservedLabelHeaderRejected(t *testing.T) {
	for _, header := range []byte{0x40, 0x80} {
		buf := []byte{header, 0x00}
		if _, _, err := Decode(buf, 0); !errors.Is(err, ErrInvalidLabelHeader) {
			t.Errorf("header %#x: error = %v, want wrapping ErrInvalidLabelHeader", header, err)
		}
	}
}

func TestName_Decode_MissingRootLabel(t *testing.T) {
	buf := []byte{3, 'w', 'w', 'w'}
	if _, _, err := Decode(buf, 0); !errors.Is(err, ErrNoRootLabel) {
		t.Errorf("error = %v, want wrapping ErrNoRootLabel", err)
	}
}

func TestName_IsWildcard(t *testing.T) {
	wc, _ := FromText("*.example.com.")
	notWc, _ := FromText("www.example.com.")
	if !wc.IsWildcard() {
		t.Error("*.example.com. should be a wildcard name")
	}
	if notWc.IsWildcard() {
		t.Error("www.example.com. should not be a wildcard name")
	}
	if Root.IsWildcard() {
		t.Error("root should not be a wildcard name")
	}
}

func TestName_Equal_CaseInsensitive(t *testing.T) {
	a, _ := FromText("WWW.Example.COM.")
	b, _ := FromText("www.example.com.")
	if !a.Equal(b) {
		t.Error("names should compare equal case-insensitively")
	}
}

func TestName_IsSubdomainOf(t *testing.T) {
	origin, _ := FromText("example.com.")
	child, _ := FromText("www.example.com.")
	other, _ := FromText("www.example.org.")
	wildcardOrigin, _ := FromText("*.example.com.")
	wildcardMatch, _ := FromText("anything.example.com.")

	if !child.IsSubdomainOf(origin) {
		t.Error("www.example.com. should be a subdomain of example.com.")
	}
	if !origin.IsSubdomainOf(origin) {
		t.Error("a name should be a subdomain of itself")
	}
	if other.IsSubdomainOf(origin) {
		t.Error("www.example.org. should not be a subdomain of example.com.")
	}
	if !wildcardMatch.IsSubdomainOf(wildcardOrigin) {
		t.Error("anything.example.com. should match *.example.com. as an origin")
	}
}

func TestName_IterContext(t *testing.T) {
	origin, _ := FromText("example.com.")
	name, _ := FromText("www.example.com.")

	labels, err := name.IterContext(origin)
	if err != nil {
		t.Fatalf("IterContext: %v", err)
	}
	if len(labels) != 1 || string(labels[0]) != "www" {
		t.Errorf("labels = %v, want [www]", labels)
	}

	exact, err := origin.IterContext(origin)
	if err != nil {
		t.Fatalf("IterContext: %v", err)
	}
	if len(exact) != 0 {
		t.Errorf("labels = %v, want empty", exact)
	}

	other, _ := FromText("www.example.org.")
	if _, err := other.IterContext(origin); !errors.Is(err, ErrNotASubdomain) {
		t.Errorf("error = %v, want wrapping ErrNotASubdomain", err)
	}
}

func TestName_LabelsAndReverse(t *testing.T) {
	n, _ := FromText("www.example.com.")
	labels := n.Labels()
	if len(labels) != 3 || string(labels[0]) != "www" || string(labels[2]) != "com" {
		t.Errorf("Labels() = %v, want [www example com]", labels)
	}
	rev := n.LabelsReverse()
	if len(rev) != 3 || string(rev[0]) != "com" || string(rev[2]) != "www" {
		t.Errorf("LabelsReverse() = %v, want [com example www]", rev)
	}
}
