package zone

import (
	"testing"

	"github.com/nsforge/authdns/internal/dns/domain"
)

func TestZone_Query_NotAuthoritativeReturnsNilNil(t *testing.T) {
	origin := mustName(t, "example.com.")
	backend, err := NewDictBackend(origin, DictBackendOptions{})
	if err != nil {
		t.Fatalf("NewDictBackend: %v", err)
	}
	z := New(origin, backend)

	other := mustName(t, "www.example.org.")
	rs, err := z.Query(other, domain.RRTypeA, domain.RRClassIN)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if rs != nil {
		t.Errorf("rs = %v, want nil for a name outside the zone's context", rs)
	}
}

func TestZone_Query_DelegatesToBackend(t *testing.T) {
	origin := mustName(t, "example.com.")
	backend, err := NewDictBackend(origin, DictBackendOptions{})
	if err != nil {
		t.Fatalf("NewDictBackend: %v", err)
	}
	z := New(origin, backend)

	name := mustName(t, "www.example.com.")
	rec := domain.Record{
		Name:  name,
		Type:  domain.RRTypeA,
		Class: domain.RRClassIN,
		TTL:   60,
		RData: domain.AData{Addr: [4]byte{1, 2, 3, 4}},
	}
	if err := backend.Insert(rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rs, err := z.Query(name, rec.Type, rec.Class)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("len(rs) = %d, want 1", len(rs))
	}
}

func TestZone_Context(t *testing.T) {
	origin := mustName(t, "example.com.")
	backend, err := NewDictBackend(origin, DictBackendOptions{})
	if err != nil {
		t.Fatalf("NewDictBackend: %v", err)
	}
	z := New(origin, backend)
	if !z.Context().Equal(origin) {
		t.Errorf("Context() = %v, want %v", z.Context(), origin)
	}
}
