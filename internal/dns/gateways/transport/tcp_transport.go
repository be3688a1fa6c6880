package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/nsforge/authdns/internal/dns/common/log"
	"github.com/nsforge/authdns/internal/dns/domain"
	"github.com/nsforge/authdns/internal/dns/gateways/wire"
)

// maxTCPResponseSize is the RFC 1035 §4.2.2 2-byte length prefix's ceiling;
// TCP responses are never truncated below it since there is no 512-byte
// datagram limit to respect.
const maxTCPResponseSize = 65535

// TCPTransport implements ServerTransport for DNS over TCP (RFC 1035 §4.2.2):
// each message is framed with a 2-byte big-endian length prefix. One
// goroutine handles each accepted connection, answering every query sent
// over it until the client closes or the transport stops.
type TCPTransport struct {
	addr     string
	listener net.Listener
	codec    wire.DNSCodec
	logger   log.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewTCPTransport creates a new TCP transport instance.
func NewTCPTransport(addr string, codec wire.DNSCodec, logger log.Logger) *TCPTransport {
	return &TCPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins listening for TCP DNS connections on the configured address.
func (t *TCPTransport) Start(ctx context.Context, handler RequestHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("TCP transport already running")
	}

	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to bind TCP socket on %s: %w", t.addr, err)
	}

	t.listener = ln
	t.running = true

	t.logger.Info(log.TransportFields("tcp", t.addr), "DNS transport started")

	go t.acceptLoop(ctx, handler)

	return nil
}

// Stop gracefully shuts down the TCP transport.
func (t *TCPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)

	var closeErr error
	if t.listener != nil {
		closeErr = t.listener.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{"error": closeErr.Error()}, "Error closing TCP listener")
		}
	}

	t.running = false

	t.logger.Info(log.TransportFields("tcp", t.addr), "DNS transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *TCPTransport) Address() string {
	return t.addr
}

func (t *TCPTransport) acceptLoop(ctx context.Context, handler RequestHandler) {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			t.mu.RLock()
			running := t.running
			t.mu.RUnlock()
			if !running {
				return
			}
			t.logger.Warn(map[string]any{"error": err.Error()}, "Failed to accept TCP connection")
			continue
		}
		go t.handleConn(ctx, conn, handler)
	}
}

func (t *TCPTransport) handleConn(ctx context.Context, conn net.Conn, handler RequestHandler) {
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		default:
		}

		var lenPrefix [2]byte
		if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
			return
		}
		msgLen := binary.BigEndian.Uint16(lenPrefix[:])

		payload := make([]byte, msgLen)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}

		query, err := t.codec.DecodeQuery(payload)
		if err != nil {
			t.logger.Warn(map[string]any{
				"client": conn.RemoteAddr().String(),
				"error":  err.Error(),
			}, "Failed to decode DNS query")
			t.sendFormErr(conn, payload)
			return
		}

		response := handler.HandleRequest(ctx, query, conn.RemoteAddr())

		responseData, err := t.codec.EncodeResponse(response, maxTCPResponseSize)
		if err != nil {
			t.logger.Error(map[string]any{
				"client":   conn.RemoteAddr().String(),
				"query_id": response.Header.ID,
				"error":    err.Error(),
			}, "Failed to encode DNS response")
			return
		}

		if err := writeFrame(conn, responseData); err != nil {
			return
		}

		t.logger.Debug(log.QueryFields(conn.RemoteAddr().String(), response.Header.ID, questionLabel(response), questionType(response), response.Header.RCode.String(), len(response.Answers)), "Sent DNS response")
	}
}

// writeFrame writes payload prefixed with its 2-byte big-endian length.
func writeFrame(conn net.Conn, payload []byte) error {
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(payload)))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

// sendFormErr answers an undecodable query with a FORMERR response, echoing
// the transaction ID if the 12-byte header itself could be read. It is a
// best-effort courtesy: the connection is closed either way once this
// returns, since the framing itself cannot be trusted past this point.
func (t *TCPTransport) sendFormErr(conn net.Conn, payload []byte) {
	h, ok := domain.TryDecodeHeader(payload)
	if !ok {
		return
	}
	resp := domain.Message{Header: domain.NewResponseHeader(h)}
	resp.Header.RCode = domain.RCodeFormErr

	responseData, err := t.codec.EncodeResponse(resp, maxTCPResponseSize)
	if err != nil {
		t.logger.Error(map[string]any{"client": conn.RemoteAddr().String(), "error": err.Error()}, "Failed to encode FORMERR response")
		return
	}
	if err := writeFrame(conn, responseData); err != nil {
		t.logger.Error(map[string]any{"client": conn.RemoteAddr().String(), "error": err.Error()}, "Failed to send FORMERR response")
	}
}
