package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/nsforge/authdns/internal/dns/common/log"
	"github.com/nsforge/authdns/internal/dns/domain"
	"github.com/nsforge/authdns/internal/dns/gateways/wire"
)

// maxUDPResponseSize is the standard DNS UDP packet size limit absent EDNS0.
const maxUDPResponseSize = 512

// UDPTransport implements ServerTransport for standard DNS over UDP (RFC 1035).
// It handles UDP socket management, packet reception/transmission, and wire format
// conversion while delegating DNS logic to the server layer.
type UDPTransport struct {
	addr   string
	conn   *net.UDPConn
	codec  wire.DNSCodec
	logger log.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, codec wire.DNSCodec, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins listening for UDP DNS queries on the configured address.
func (t *UDPTransport) Start(ctx context.Context, handler RequestHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true

	t.logger.Info(log.TransportFields("udp", t.addr), "DNS transport started")

	go t.listenLoop(ctx, handler)

	return nil
}

// Stop gracefully shuts down the UDP transport.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{"error": closeErr.Error()}, "Error closing UDP connection")
		}
	}

	t.running = false

	t.logger.Info(log.TransportFields("udp", t.addr), "DNS transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *UDPTransport) Address() string {
	return t.addr
}

// listenLoop continuously listens for UDP packets and handles them.
func (t *UDPTransport) listenLoop(ctx context.Context, handler RequestHandler) {
	buffer := make([]byte, maxUDPResponseSize)

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
			return
		case <-t.stopCh:
			t.logger.Debug(nil, "UDP transport stopping due to stop signal")
			return
		default:
			n, clientAddr, err := t.conn.ReadFromUDP(buffer)
			if err != nil {
				t.mu.RLock()
				running := t.running
				t.mu.RUnlock()

				if !running {
					return
				}

				t.logger.Warn(map[string]any{"error": err.Error()}, "Failed to read UDP packet")
				continue
			}

			packet := make([]byte, n)
			copy(packet, buffer[:n])
			go t.handlePacket(ctx, packet, clientAddr, handler)
		}
	}
}

// handlePacket processes a single UDP DNS packet. A query that fails to
// decode never passes silently: a best-effort FORMERR response is sent
// instead, echoing the transaction ID when the header itself was legible.
func (t *UDPTransport) handlePacket(ctx context.Context, data []byte, clientAddr *net.UDPAddr, handler RequestHandler) {
	query, err := t.codec.DecodeQuery(data)
	if err != nil {
		t.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
			"size":   len(data),
		}, "Failed to decode DNS query")
		t.sendFormErr(data, clientAddr)
		return
	}

	response := handler.HandleRequest(ctx, query, clientAddr)

	responseData, err := t.codec.EncodeResponse(response, maxUDPResponseSize)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": response.Header.ID,
			"error":    err.Error(),
		}, "Failed to encode DNS response")
		return
	}

	if _, err := t.conn.WriteToUDP(responseData, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": response.Header.ID,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return
	}

	fields := log.QueryFields(clientAddr.String(), response.Header.ID, questionLabel(response), questionType(response), response.Header.RCode.String(), len(response.Answers))
	fields["size"] = len(responseData)
	t.logger.Debug(fields, "Sent DNS response")
}

// sendFormErr answers an undecodable query with a FORMERR response, echoing
// the transaction ID if the 12-byte header itself could be read.
func (t *UDPTransport) sendFormErr(data []byte, clientAddr *net.UDPAddr) {
	h, ok := domain.TryDecodeHeader(data)
	if !ok {
		return
	}
	resp := domain.Message{Header: domain.NewResponseHeader(h)}
	resp.Header.RCode = domain.RCodeFormErr

	responseData, err := t.codec.EncodeResponse(resp, maxUDPResponseSize)
	if err != nil {
		t.logger.Error(map[string]any{"client": clientAddr.String(), "error": err.Error()}, "Failed to encode FORMERR response")
		return
	}
	if _, err := t.conn.WriteToUDP(responseData, clientAddr); err != nil {
		t.logger.Error(map[string]any{"client": clientAddr.String(), "error": err.Error()}, "Failed to send FORMERR response")
	}
}
