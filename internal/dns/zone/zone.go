// Package zone implements the authoritative zone dispatch boundary: a small
// polymorphic backend interface, queried by (name, type, class), with the
// dictionary-of-NameTrees backend as the reference implementation.
package zone

import (
	"fmt"

	"github.com/nsforge/authdns/internal/dns/domain"
)

// RecordSet is the value stored at a NameTree node: every record at a given
// (name, type, class).
type RecordSet []domain.Record

// Backend is the polymorphic boundary a Zone dispatches through. Query
// answers (name, type, class); Close releases whatever resources the
// backend owns (trees, caches, open files).
type Backend interface {
	Query(name domain.Name, typ domain.RRType, class domain.RRClass) (RecordSet, error)
	Close() error
}

// Zone is an opaque handle carrying a backend and the origin it is
// authoritative for.
type Zone struct {
	context domain.Name
	backend Backend
}

// New wraps backend as a Zone authoritative for context.
func New(context domain.Name, backend Backend) *Zone {
	return &Zone{context: context, backend: backend}
}

// Context returns the zone's origin.
func (z *Zone) Context() domain.Name {
	return z.context
}

// Query answers (name, type, class) against the zone. If name is not a
// subdomain of the zone's context, the zone is simply not authoritative for
// it: Query returns (nil, nil), letting the caller consult another zone or
// answer NXDOMAIN itself. Any other failure (unsupported class/type) comes
// back as the backend's own error, wrapped with the zone's context for
// diagnostics.
func (z *Zone) Query(name domain.Name, typ domain.RRType, class domain.RRClass) (RecordSet, error) {
	if !name.IsSubdomainOf(z.context) {
		return nil, nil
	}
	rs, err := z.backend.Query(name, typ, class)
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", z.context, err)
	}
	return rs, nil
}

// Close releases the zone's backend. It is safe to call more than once;
// the backend's own Close is responsible for idempotence.
func (z *Zone) Close() error {
	return z.backend.Close()
}
