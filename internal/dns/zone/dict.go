package zone

import (
	"sync"

	"github.com/nsforge/authdns/internal/dns/domain"
	"github.com/nsforge/authdns/internal/dns/nametree"
)

// supportedClasses/supportedTypes bound what the dictionary backend will
// build trees for. A query for any other class or type is a configuration
// mismatch, not a missing record, so it fails with ErrQueryError rather
// than returning an empty RecordSet.
var supportedClasses = []domain.RRClass{domain.RRClassIN, domain.RRClassCH, domain.RRClassHS}

var supportedTypes = []domain.RRType{
	domain.RRTypeA, domain.RRTypeNS, domain.RRTypeCNAME, domain.RRTypeSOA,
	domain.RRTypePTR, domain.RRTypeMX, domain.RRTypeTXT, domain.RRTypeAAAA,
	domain.RRTypeSRV, domain.RRTypeOPT,
}

// DictBackend is the reference Backend: a dictionary of NameTree[RecordSet]
// keyed by class then type, all anchored at the same zone origin. A
// negative-answer bloom filter records NXDOMAIN-class misses so a repeat
// miss is not recorded again, and a plan cache memoizes the IterContext tokenization of hot query
// names. Neither changes what Query returns; both are speed layers.
type DictBackend struct {
	origin domain.Name

	mu    sync.RWMutex
	trees map[domain.RRClass]map[domain.RRType]*nametree.NameTree[RecordSet]

	neg   *NegativeCache
	plans nametree.PlanCacher
}

// DictBackendOptions configures the optional speed layers. A zero value
// disables both: NegativeCacheCapacity <= 0 skips the bloom filter,
// PlanCacheSize <= 0 gives an always-miss plan cache.
type DictBackendOptions struct {
	NegativeCacheCapacity uint64
	NegativeCacheFPRate   float64
	PlanCacheSize         int
}

// NewDictBackend constructs an empty dictionary backend anchored at origin.
func NewDictBackend(origin domain.Name, opts DictBackendOptions) (*DictBackend, error) {
	trees := make(map[domain.RRClass]map[domain.RRType]*nametree.NameTree[RecordSet])
	for _, class := range supportedClasses {
		perType := make(map[domain.RRType]*nametree.NameTree[RecordSet])
		for _, typ := range supportedTypes {
			perType[typ] = nametree.NewNamespace[RecordSet](origin)
		}
		trees[class] = perType
	}

	plans, err := nametree.NewPlanCache(opts.PlanCacheSize)
	if err != nil {
		return nil, err
	}

	var neg *NegativeCache
	if opts.NegativeCacheCapacity > 0 {
		fpRate := opts.NegativeCacheFPRate
		if fpRate <= 0 {
			fpRate = 0.01
		}
		neg = NewNegativeCache(opts.NegativeCacheCapacity, fpRate)
	}

	return &DictBackend{origin: origin, trees: trees, neg: neg, plans: plans}, nil
}

// treeKey identifies a (class, type) tree for the negative cache, scoped
// per backend instance so two zones never share a false-positive.
func treeKey(class domain.RRClass, typ domain.RRType, name domain.Name) []byte {
	key := make([]byte, 0, len(name.Bytes())+4)
	key = append(key, byte(class>>8), byte(class))
	key = append(key, byte(typ>>8), byte(typ))
	key = append(key, name.Bytes()...)
	return key
}

// Insert adds a record to the tree selected by its class and type,
// appending it to whatever RecordSet already exists at that name.
func (b *DictBackend) Insert(rec domain.Record) error {
	perType, ok := b.trees[rec.Class]
	if !ok {
		return domain.ErrQueryError
	}
	tree, ok := perType[rec.Type]
	if !ok {
		return domain.ErrQueryError
	}

	labels, err := rec.Name.IterContext(b.origin)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	_, err = tree.Upsert(labels, func(existing RecordSet, hasExisting bool) RecordSet {
		if !hasExisting {
			return RecordSet{rec}
		}
		return append(existing, rec)
	})
	return err
}

// Query selects the (class, type) tree, consults the negative cache, and
// always answers from FindWithContextCached. A closest-enclosing node with no
// value is a confirmed miss: it is recorded in the negative cache (unless the
// filter already reports it) and returned as an empty RecordSet; Responder
// turns that into NXDOMAIN or an empty NOERROR depending on the RD bit.
func (b *DictBackend) Query(name domain.Name, typ domain.RRType, class domain.RRClass) (RecordSet, error) {
	perType, ok := b.trees[class]
	if !ok {
		return nil, domain.ErrQueryError
	}
	tree, ok := perType[typ]
	if !ok {
		return nil, domain.ErrQueryError
	}

	key := treeKey(class, typ, name)
	knownMiss := b.neg != nil && b.neg.MightBeAbsent(key)

	node, err := tree.FindWithContextCached(name, b.origin, b.plans)
	if err != nil {
		return nil, err
	}
	rs, ok := node.Value()
	if !ok {
		if b.neg != nil && !knownMiss {
			b.neg.MarkAbsent(key)
		}
		return nil, nil
	}
	return rs, nil
}

// Close tears down every tree owned by the backend.
func (b *DictBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for _, perType := range b.trees {
		for _, tree := range perType {
			if err := tree.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

var _ Backend = (*DictBackend)(nil)
