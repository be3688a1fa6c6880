// Package wire provides encoding and decoding of DNS messages for UDP and TCP
// transport. It handles the DNS wire format as specified in RFC 1035.
package wire

import (
	"errors"

	"github.com/nsforge/authdns/internal/dns/common/log"
	"github.com/nsforge/authdns/internal/dns/domain"
)

// ErrNotSingleQuestion is returned when a decoded query does not carry
// exactly one question, which this server requires to answer it.
var ErrNotSingleQuestion = errors.New("wire: query must carry exactly one question")

// udpCodec implements DNSCodec for standard DNS over UDP messages per RFC
// 1035. It is also used, unmodified, for TCP payloads once the 2-byte
// length prefix has been stripped by the TCP transport, since wire format
// is identical on both transports.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec creates and returns a new instance of udpCodec using the provided logger.
func NewUDPCodec(logger log.Logger) *udpCodec {
	return &udpCodec{logger: logger}
}

// DecodeQuery parses a DNS query message from data.
func (c *udpCodec) DecodeQuery(data []byte) (domain.Message, error) {
	msg, err := domain.DecodeMessage(data)
	if err != nil {
		return domain.Message{}, err
	}
	if len(msg.Questions) != 1 {
		return domain.Message{}, ErrNotSingleQuestion
	}
	c.logger.Debug(map[string]any{
		"query_id": msg.Header.ID,
		"name":     msg.Questions[0].Name.String(),
		"type":     msg.Questions[0].Type.String(),
	}, "decoded DNS query")
	return msg, nil
}

// EncodeResponse serializes resp into wire format bounded by maxSize. If the
// full response would not fit, it retries with the TC bit set and the
// answer section dropped, matching RFC 1035 §4.1.1's truncation contract.
func (c *udpCodec) EncodeResponse(resp domain.Message, maxSize int) ([]byte, error) {
	w := domain.NewWriter(maxSize)
	if err := resp.EncodeTo(w); err == nil {
		return w.Bytes(), nil
	} else if !errors.Is(err, domain.ErrTruncatedMessage) {
		return nil, err
	}

	truncated := resp
	truncated.Header.TC = true
	truncated.Answers = nil

	tw := domain.NewWriter(maxSize)
	if err := truncated.EncodeTo(tw); err != nil {
		return nil, err
	}
	c.logger.Warn(map[string]any{
		"query_id": resp.Header.ID,
		"answers":  len(resp.Answers),
	}, "response truncated to fit transport size limit")
	return tw.Bytes(), nil
}

var _ DNSCodec = &udpCodec{}
