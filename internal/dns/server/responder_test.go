package server

import (
	"context"
	"net"
	"testing"

	"github.com/nsforge/authdns/internal/dns/common/log"
	"github.com/nsforge/authdns/internal/dns/domain"
	"github.com/nsforge/authdns/internal/dns/zone"
)

func mustName(t *testing.T, s string) domain.Name {
	t.Helper()
	n, err := domain.FromText(s)
	if err != nil {
		t.Fatalf("FromText(%q): %v", s, err)
	}
	return n
}

func newTestZone(t *testing.T, origin string, records ...domain.Record) *zone.Zone {
	t.Helper()
	backend, err := zone.NewDictBackend(mustName(t, origin), zone.DictBackendOptions{})
	if err != nil {
		t.Fatalf("NewDictBackend: %v", err)
	}
	for _, rec := range records {
		if err := backend.Insert(rec); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	return zone.New(mustName(t, origin), backend)
}

func query(t *testing.T, id uint16, name string, typ domain.RRType) domain.Message {
	t.Helper()
	return domain.Message{
		Header:    domain.NewQueryHeader(id),
		Questions: []domain.Question{{Name: mustName(t, name), Type: typ, Class: domain.RRClassIN}},
	}
}

var testClientAddr net.Addr = &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5353}

func TestResponder_AnswersWithMatchingRecord(t *testing.T) {
	rec := domain.Record{
		Name: mustName(t, "google.com."), Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300,
		RData: domain.AData{Addr: [4]byte{1, 2, 3, 4}},
	}
	z := newTestZone(t, "com.", rec)
	s := NewResponder(log.NewNoopLogger(), z)

	resp := s.HandleRequest(context.Background(), query(t, 0x1111, "google.com.", domain.RRTypeA), testClientAddr)

	if !resp.Header.QR || !resp.Header.RA || resp.Header.AD {
		t.Errorf("header = %+v", resp.Header)
	}
	if resp.Header.RCode != domain.RCodeNoError {
		t.Errorf("RCode = %v, want NoError", resp.Header.RCode)
	}
	if !resp.Header.AA {
		t.Error("expected AA=true for an authoritative answer")
	}
	if len(resp.Answers) != 1 {
		t.Fatalf("len(Answers) = %d, want 1", len(resp.Answers))
	}
}

func TestResponder_NXDomainWhenNoZoneAnswers(t *testing.T) {
	z := newTestZone(t, "example.com.")
	s := NewResponder(log.NewNoopLogger(), z)

	resp := s.HandleRequest(context.Background(), query(t, 7, "www.example.com.", domain.RRTypeA), testClientAddr)

	if resp.Header.RCode != domain.RCodeNXDomain {
		t.Errorf("RCode = %v, want NXDomain", resp.Header.RCode)
	}
	if len(resp.Answers) != 0 {
		t.Errorf("Answers = %v, want none", resp.Answers)
	}
}

func TestResponder_NoErrorInsteadOfNXDomainWhenNotRecursionDesired(t *testing.T) {
	z := newTestZone(t, "example.com.")
	s := NewResponder(log.NewNoopLogger(), z)

	q := query(t, 7, "www.example.com.", domain.RRTypeA)
	q.Header.RD = false

	resp := s.HandleRequest(context.Background(), q, testClientAddr)

	if resp.Header.RCode != domain.RCodeNoError {
		t.Errorf("RCode = %v, want NoError", resp.Header.RCode)
	}
	if len(resp.Answers) != 0 {
		t.Errorf("Answers = %v, want none", resp.Answers)
	}
	if resp.Header.AA {
		t.Error("expected AA=false when no zone answered")
	}
}

func TestResponder_NXDomainWhenNoZoneIsAuthoritative(t *testing.T) {
	z := newTestZone(t, "example.com.")
	s := NewResponder(log.NewNoopLogger(), z)

	resp := s.HandleRequest(context.Background(), query(t, 8, "www.other.org.", domain.RRTypeA), testClientAddr)

	if resp.Header.RCode != domain.RCodeNXDomain {
		t.Errorf("RCode = %v, want NXDomain", resp.Header.RCode)
	}
}

func TestResponder_FormErrOnMultipleQuestions(t *testing.T) {
	s := NewResponder(log.NewNoopLogger())
	q := query(t, 9, "example.com.", domain.RRTypeA)
	q.Questions = append(q.Questions, q.Questions[0])

	resp := s.HandleRequest(context.Background(), q, testClientAddr)
	if resp.Header.RCode != domain.RCodeFormErr {
		t.Errorf("RCode = %v, want FormErr", resp.Header.RCode)
	}
}

func TestResponder_NotImpOnNonQueryOpcode(t *testing.T) {
	s := NewResponder(log.NewNoopLogger())
	q := query(t, 10, "example.com.", domain.RRTypeA)
	q.Header.OpCode = domain.OpCodeNotify

	resp := s.HandleRequest(context.Background(), q, testClientAddr)
	if resp.Header.RCode != domain.RCodeNotImp {
		t.Errorf("RCode = %v, want NotImp", resp.Header.RCode)
	}
}

func TestResponder_EchoesTransactionID(t *testing.T) {
	s := NewResponder(log.NewNoopLogger())
	resp := s.HandleRequest(context.Background(), query(t, 0xBEEF, "example.com.", domain.RRTypeA), testClientAddr)
	if resp.Header.ID != 0xBEEF {
		t.Errorf("ID = %x, want 0xBEEF", resp.Header.ID)
	}
}

func TestResponder_SecondZoneAnswersWhenFirstIsNotAuthoritative(t *testing.T) {
	recA := domain.Record{
		Name: mustName(t, "www.example.com."), Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60,
		RData: domain.AData{Addr: [4]byte{9, 9, 9, 9}},
	}
	zoneA := newTestZone(t, "other.net.")
	zoneB := newTestZone(t, "example.com.", recA)
	s := NewResponder(log.NewNoopLogger(), zoneA, zoneB)

	resp := s.HandleRequest(context.Background(), query(t, 11, "www.example.com.", domain.RRTypeA), testClientAddr)
	if resp.Header.RCode != domain.RCodeNoError || len(resp.Answers) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}
