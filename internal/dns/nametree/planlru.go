package nametree

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// plan is the label slice a query would walk against a specific zone
// origin, memoized so repeated lookups against a hot name skip re-running
// Name.IterContext.
type plan struct {
	labels [][]byte
	err    error
}

// PlanCache memoizes the outcome of tokenizing a (name, origin) pair into
// the label slice NameTree.FindWithContext would walk. It is a pure speed
// layer above the trie: a miss always falls through to a live IterContext
// call, and a hit never changes which node Find/FindWithContext returns.
type PlanCache struct {
	cache     *lru.Cache[string, plan]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledPlanCache is a no-op PlanCache used when size <= 0.
type disabledPlanCache struct{}

// PlanCacher is satisfied by both PlanCache and disabledPlanCache.
type PlanCacher interface {
	get(key string) (plan, bool)
	put(key string, p plan)
}

// NewPlanCache creates a plan cache with the given entry capacity. A
// non-positive size returns a disabled cache that always misses.
func NewPlanCache(size int) (PlanCacher, error) {
	if size <= 0 {
		return &disabledPlanCache{}, nil
	}
	pc := &PlanCache{}
	cache, err := lru.NewWithEvict(size, func(_ string, _ plan) {
		atomic.AddUint64(&pc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	pc.cache = cache
	return pc, nil
}

func (c *PlanCache) get(key string) (plan, bool) {
	v, ok := c.cache.Get(key)
	if ok {
		atomic.AddUint64(&c.hits, 1)
	} else {
		atomic.AddUint64(&c.misses, 1)
	}
	return v, ok
}

func (c *PlanCache) put(key string, p plan) {
	c.cache.Add(key, p)
}

// Stats returns cumulative hit/miss/eviction counters.
func (c *PlanCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (d *disabledPlanCache) get(string) (plan, bool) { return plan{}, false }
func (d *disabledPlanCache) put(string, plan)        {}
