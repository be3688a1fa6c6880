// Package server implements the authoritative request handler: the piece
// that sits between the transport layer and the zone set, turning a decoded
// query into a response message per spec §4.5 and §7's RCODE mapping.
package server

import (
	"context"
	"net"

	"github.com/nsforge/authdns/internal/dns/common/log"
	"github.com/nsforge/authdns/internal/dns/domain"
	"github.com/nsforge/authdns/internal/dns/zone"
)

// Responder answers queries against a fixed set of authoritative zones. It
// implements transport.RequestHandler without importing the transport
// package, keeping the dependency direction pointing outward from the core.
type Responder struct {
	zones  []*zone.Zone
	logger log.Logger
}

// NewResponder builds a Responder over zones, tried in order; the first zone
// whose context is a superdomain of the query name and that returns a
// non-empty RecordSet wins.
func NewResponder(logger log.Logger, zones ...*zone.Zone) *Responder {
	return &Responder{zones: zones, logger: logger}
}

// HandleRequest answers a single-question query. It never returns an error:
// every failure mode maps to an RCODE on a well-formed response, per spec §7
// ("the server never emits garbage or drops silently").
func (s *Responder) HandleRequest(ctx context.Context, query domain.Message, clientAddr net.Addr) domain.Message {
	resp := domain.Message{Header: domain.NewResponseHeader(query.Header)}

	if len(query.Questions) != 1 {
		resp.Header.RCode = domain.RCodeFormErr
		return resp
	}
	q := query.Questions[0]
	resp.Questions = []domain.Question{q}

	if query.Header.OpCode != domain.OpCodeQuery {
		resp.Header.RCode = domain.RCodeNotImp
		return resp
	}

	answers, rcode := s.lookup(q.Name, q.Type, q.Class, query.Header.RD)
	resp.Header.RCode = rcode
	if len(answers) > 0 {
		resp.Header.AA = true
		resp.Answers = answers
	}

	fields := log.QueryFields(clientAddr.String(), query.Header.ID, q.Name.String(), q.Type.String(), rcode.String(), len(answers))
	if rcode.IsError() {
		s.logger.Warn(fields, "answered DNS query with non-success RCode")
	} else {
		s.logger.Debug(fields, "answered DNS query")
	}

	return resp
}

// lookup tries every configured zone in order and classifies the outcome
// into an RCode per spec §4.5/§7: the first zone that is authoritative for
// name and returns records wins with NOERROR; any zone whose backend fails
// yields SERVFAIL. If no zone answers, spec §4.5 gates NXDOMAIN on the
// query's RD bit - "the transport surfaces this as NXDOMAIN only when the
// query was RD and no other zone answers" - so a non-recursive query that no
// zone answers gets a plain empty NOERROR instead.
func (s *Responder) lookup(name domain.Name, typ domain.RRType, class domain.RRClass, recursionDesired bool) (zone.RecordSet, domain.RCode) {
	for _, z := range s.zones {
		rs, err := z.Query(name, typ, class)
		if err != nil {
			s.logger.Warn(map[string]any{"zone": z.Context().String(), "error": err.Error()}, "zone query failed")
			return nil, domain.RCodeServFail
		}
		if len(rs) > 0 {
			return rs, domain.RCodeNoError
		}
	}
	// No zone held records at this (name, type, class) - spec §8 S5 treats an
	// authoritative-but-empty match the same as a name that does not exist at
	// all, so both collapse the same way here.
	if !recursionDesired {
		return nil, domain.RCodeNoError
	}
	return nil, domain.RCodeNXDomain
}
