package domain

import (
	"bytes"
	"fmt"
	"strings"
)

// maxNameWire is the maximum encoded length of a name on the wire,
// including the terminating root label (RFC 1035 §3.1).
const maxNameWire = 255

// maxLabel is the maximum length of a single label.
const maxLabel = 63

// maxLabels is the maximum number of non-root labels in a name.
const maxLabels = 127

// Name is an RFC 1035 domain name. It owns a fixed wire-form buffer
// (length-prefixed labels terminated by the zero-length root label) plus an
// offset table indexing each label's start within that buffer. Encoding a
// Name is therefore a single write of the cached bytes, and decoding never
// allocates more than one backing array per name.
//
// Name is a value type: the zero Name is the root ("."). All operations
// return a new Name rather than mutating the receiver.
type Name struct {
	buf     [maxNameWire]byte
	size    int   // bytes used in buf, including the terminating root byte
	offsets []int // start offset of each non-root label, leaf-to-TLD order
}

// Root is the zero-length root name, which displays as ".".
var Root = Name{buf: [maxNameWire]byte{0}, size: 1}

// FromText parses a domain name in presentation format ("www.example.com."
// or "www.example.com"). A trailing dot is accepted and discarded; a bare
// "." yields the root name.
func FromText(s string) (Name, error) {
	if s == "." || s == "" {
		return Root, nil
	}
	s = strings.TrimSuffix(s, ".")
	parts := strings.Split(s, ".")

	var n Name
	n.offsets = make([]int, 0, len(parts))
	pos := 0
	for i, part := range parts {
		label := []byte(part)
		if len(label) == 0 {
			return Name{}, fmt.Errorf("%w: empty label", ErrInvalidName)
		}
		if len(label) > maxLabel {
			return Name{}, fmt.Errorf("%w: %q", ErrLabelTooLong, part)
		}
		if bytes.Equal(label, []byte("*")) {
			if i != 0 {
				return Name{}, fmt.Errorf("%w: %q", ErrWildcardNotFirst, s)
			}
		} else if bytes.IndexByte(label, '*') >= 0 {
			return Name{}, fmt.Errorf("%w: %q", ErrWildcardNotAlone, part)
		}
		if i+1 > maxLabels {
			return Name{}, fmt.Errorf("%w: %q", ErrTooManyLabels, s)
		}
		if pos+1+len(label)+1 > maxNameWire {
			return Name{}, fmt.Errorf("%w: %q", ErrNameTooLong, s)
		}
		n.buf[pos] = byte(len(label))
		copy(n.buf[pos+1:], label)
		n.offsets = append(n.offsets, pos)
		pos += 1 + len(label)
	}
	n.buf[pos] = 0
	n.size = pos + 1
	return n, nil
}

// Decode parses an RFC 1035 name beginning at offset within buf, following
// compression pointers (RFC 1035 §4.1.4) that must always point strictly
// backward from their own position. It returns the decoded Name and the
// position the caller's sequential reader should resume from: this equals
// offset+consumed when no pointer was followed, or the position right past
// the first pointer's two bytes otherwise (the reader never follows a jump).
func Decode(buf []byte, offset int) (Name, int, error) {
	var n Name
	n.offsets = make([]int, 0, 8)

	parsePos := offset
	readerPos := offset
	jumped := false
	labelCount := 0
	size := 0

	for {
		if parsePos >= len(buf) {
			return Name{}, 0, ErrNoRootLabel
		}
		b := buf[parsePos]
		switch b & 0xC0 {
		case 0x00:
			length := int(b & 0x3F)
			if length == 0 {
				if size+1 > maxNameWire {
					return Name{}, 0, ErrNameTooLong
				}
				n.buf[size] = 0
				size++
				parsePos++
				if !jumped {
					readerPos = parsePos
				}
				n.size = size
				return n, readerPos, nil
			}
			if parsePos+1+length > len(buf) {
				return Name{}, 0, ErrNotEnoughBytes
			}
			if size+1+length+1 > maxNameWire {
				return Name{}, 0, ErrNameTooLong
			}
			n.buf[size] = byte(length)
			copy(n.buf[size+1:], buf[parsePos+1:parsePos+1+length])
			n.offsets = append(n.offsets, size)
			size += 1 + length
			labelCount++
			if labelCount > maxLabels {
				return Name{}, 0, ErrTooManyLabels
			}
			parsePos += 1 + length
			if !jumped {
				readerPos = parsePos
			}
		case 0xC0:
			if parsePos+1 >= len(buf) {
				return Name{}, 0, ErrNotEnoughBytes
			}
			target := (int(b&0x3F) << 8) | int(buf[parsePos+1])
			if target >= parsePos {
				return Name{}, 0, ErrInvalidPointer
			}
			if !jumped {
				readerPos = parsePos + 2
				jumped = true
			}
			parsePos = target
		default:
			return Name{}, 0, ErrInvalidLabelHeader
		}
	}
}

// DecodedLength reports the encoded byte length and label count of the name
// starting at offset, without requiring the caller to materialize the Name
// first. It applies the same bounds and pointer rules as Decode.
func DecodedLength(buf []byte, offset int) (int, int, error) {
	n, _, err := Decode(buf, offset)
	if err != nil {
		return 0, 0, err
	}
	return n.size, len(n.offsets), nil
}

// Bytes returns the cached wire-form encoding of the name.
func (n Name) Bytes() []byte {
	if n.size == 0 {
		return []byte{0}
	}
	return n.buf[:n.size]
}

// EncodeTo writes the uncompressed wire form of the name to w.
func (n Name) EncodeTo(w *Writer) error {
	return w.Write(n.Bytes())
}

// EncodedLength returns the wire length of the name, including the
// terminating root byte.
func (n Name) EncodedLength() int {
	if n.size == 0 {
		return 1
	}
	return n.size
}

// LabelCount returns the number of non-root labels.
func (n Name) LabelCount() int {
	return len(n.offsets)
}

// label returns a view of the i'th label (leaf-to-TLD order), 0-indexed.
func (n Name) label(i int) []byte {
	start := n.offsets[i]
	length := int(n.buf[start])
	return n.buf[start+1 : start+1+length]
}

// Labels returns the labels leaf-to-TLD, e.g. ["www", "example", "com"].
func (n Name) Labels() [][]byte {
	out := make([][]byte, len(n.offsets))
	for i := range n.offsets {
		out[i] = append([]byte(nil), n.label(i)...)
	}
	return out
}

// LabelsReverse returns the labels TLD-to-leaf, e.g. ["com", "example", "www"].
func (n Name) LabelsReverse() [][]byte {
	labels := n.Labels()
	out := make([][]byte, len(labels))
	for i, l := range labels {
		out[len(labels)-1-i] = l
	}
	return out
}

// IsWildcard reports whether the leftmost label is the literal "*".
func (n Name) IsWildcard() bool {
	return len(n.offsets) > 0 && bytes.Equal(n.label(0), []byte("*"))
}

// equalASCIIFold compares two labels case-insensitively (ASCII only, as DNS
// labels are never subject to full Unicode case folding).
func equalASCIIFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Equal reports whether two names have the same label sequence, compared
// case-insensitively.
func (n Name) Equal(other Name) bool {
	if len(n.offsets) != len(other.offsets) {
		return false
	}
	for i := range n.offsets {
		if !equalASCIIFold(n.label(i), other.label(i)) {
			return false
		}
	}
	return true
}

// IsSubdomainOf reports whether n is origin itself or a strict descendant of
// origin, where a "*" label in origin matches any single label of n at that
// reverse position. Subdomain-of is defined as "at least as many labels as
// origin, and every label of
// origin (TLD-to-leaf) matches the label of n at the same reverse position".
func (n Name) IsSubdomainOf(origin Name) bool {
	if n.LabelCount() < origin.LabelCount() {
		return false
	}
	nRev := n.LabelsReverse()
	oRev := origin.LabelsReverse()
	for i, ol := range oRev {
		if bytes.Equal(ol, []byte("*")) {
			continue
		}
		if !equalASCIIFold(nRev[i], ol) {
			return false
		}
	}
	return true
}

// IterContext returns the labels of n that lie strictly below origin, in
// reverse order (origin-to-leaf, i.e. the same order NameTree.Find consumes
// labels in). It returns ErrNotASubdomain if n is not origin or a descendant
// of origin, and (nil, nil) when n equals origin exactly.
func (n Name) IterContext(origin Name) ([][]byte, error) {
	if !n.IsSubdomainOf(origin) {
		return nil, ErrNotASubdomain
	}
	if n.LabelCount() == origin.LabelCount() {
		return nil, nil
	}
	nRev := n.LabelsReverse()
	below := nRev[origin.LabelCount():]
	out := make([][]byte, len(below))
	copy(out, below)
	return out, nil
}

// String formats the name in presentation form, always with a trailing dot.
func (n Name) String() string {
	if len(n.offsets) == 0 {
		return "."
	}
	labels := n.Labels()
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ".") + "."
}
