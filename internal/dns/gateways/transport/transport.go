// Package transport provides network transport abstractions for DNS server implementations.
// It handles the conversion between wire format and domain objects, allowing the service
// layer to work purely with domain types while supporting multiple transport protocols.
package transport

import (
	"context"
	"net"

	"github.com/nsforge/authdns/internal/dns/domain"
)

// ServerTransport defines the interface for DNS server transport implementations.
// Different transport types (UDP, TCP, and eventually DoH/DoT/DoQ) can implement
// this interface while providing the same request handling contract to the
// server layer.
type ServerTransport interface {
	// Start begins listening for requests and handling them via the provided handler.
	Start(ctx context.Context, handler RequestHandler) error

	// Stop gracefully shuts down the transport, closing connections and cleaning up resources.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// RequestHandler defines how the server layer receives and processes DNS requests.
// The transport layer converts wire format to domain objects before calling this
// interface, and converts the response back to wire format for transmission.
type RequestHandler interface {
	// HandleRequest answers a single-question query message with a response
	// message. The transport handles all network protocol details - the
	// handler only sees domain objects.
	HandleRequest(ctx context.Context, query domain.Message, clientAddr net.Addr) domain.Message
}

// TransportType represents the different types of DNS transport protocols supported.
type TransportType string

const (
	// TransportUDP represents standard DNS over UDP (RFC 1035)
	TransportUDP TransportType = "udp"

	// TransportTCP represents standard DNS over TCP with 2-byte length prefixing (RFC 1035 §4.2.2)
	TransportTCP TransportType = "tcp"

	// TransportDoH represents DNS over HTTPS (RFC 8484) - future implementation
	TransportDoH TransportType = "doh"

	// TransportDoT represents DNS over TLS (RFC 7858) - future implementation
	TransportDoT TransportType = "dot"

	// TransportDoQ represents DNS over QUIC (RFC 9250) - future implementation
	TransportDoQ TransportType = "doq"
)

// questionLabel returns the name of msg's first question, or "" if it has
// none - used for log fields where a malformed or answerless message should
// still produce a loggable line rather than panic on an empty slice.
func questionLabel(msg domain.Message) string {
	if len(msg.Questions) == 0 {
		return ""
	}
	return msg.Questions[0].Name.String()
}

// questionType returns the type of msg's first question, or "" if it has none.
func questionType(msg domain.Message) string {
	if len(msg.Questions) == 0 {
		return ""
	}
	return msg.Questions[0].Type.String()
}
