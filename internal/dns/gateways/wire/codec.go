package wire

import "github.com/nsforge/authdns/internal/dns/domain"

// DNSCodec converts between DNS wire format and domain.Message for a given
// transport. Different transports (UDP, TCP) share the same decode path but
// differ in framing and maximum response size, so EncodeResponse takes the
// size ceiling explicitly rather than hardcoding it.
type DNSCodec interface {
	// DecodeQuery parses a raw query datagram/stream payload into a Message
	// and validates it carries exactly one question.
	DecodeQuery(data []byte) (domain.Message, error)

	// EncodeResponse serializes resp, truncating (TC bit set, answers
	// dropped) if it would exceed maxSize.
	EncodeResponse(resp domain.Message, maxSize int) ([]byte, error)
}
