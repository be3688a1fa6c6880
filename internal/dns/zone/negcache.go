package zone

import (
	"math"
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// NegativeCache is a per-zone bloom filter of (class, type, name) keys that
// are known to miss the zone's trees. It is populated lazily on the query
// path: every closest-enclosing-node miss adds its key, and a repeat miss of
// the same absent name skips re-adding it. DictBackend.Query walks the tree
// on every lookup and consults MightBeAbsent alongside that walk, never
// instead of it, so the filter can never manufacture an NXDOMAIN that the
// tree itself would not have produced.
type NegativeCache struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

// NewNegativeCache sizes a filter for capacity expected entries at the
// given target false-positive rate.
func NewNegativeCache(capacity uint64, fpRate float64) *NegativeCache {
	m, k := estimateBloomParameters(capacity, fpRate)
	return &NegativeCache{bf: bitsbloom.New(uint(m), uint(k))}
}

// MightBeAbsent reports whether key has previously been recorded as a
// miss. A false negative (forgetting a real miss) never occurs; a false
// positive (claiming absence for a key that was never recorded) is
// possible.
func (c *NegativeCache) MightBeAbsent(key []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bf.Test(key)
}

// MarkAbsent records key as a confirmed miss.
func (c *NegativeCache) MarkAbsent(key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bf.Add(key)
}

// estimateBloomParameters derives bit-array size (m) and hash count (k)
// from the standard optimal-bloom-filter formulas.
func estimateBloomParameters(capacity uint64, fpRate float64) (m, k uint64) {
	if capacity == 0 {
		capacity = 1
	}
	ln2 := math.Ln2
	mf := -float64(capacity) * math.Log(fpRate) / (ln2 * ln2)
	m = uint64(math.Ceil(mf))
	if m < 1 {
		m = 1
	}
	kf := (mf / float64(capacity)) * ln2
	k = uint64(math.Round(kf))
	if k < 1 {
		k = 1
	}
	return m, k
}
