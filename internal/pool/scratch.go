package pool

import "sync"

const (
	// ScratchBucketStep is the capacity step between small scratch buckets.
	ScratchBucketStep = 8
	// ScratchSmallMax is the largest capacity served by a small bucket.
	ScratchSmallMax = 64

	scratchSmallBuckets = ScratchSmallMax / ScratchBucketStep
	scratchBucketLimit  = 64 // buffers kept per bucket
)

// ScratchCache caches short-lived byte buffers used to copy small pieces of wire
// data (permission data, item group ids) out of decode buffers.
//
// Buffers up to ScratchSmallMax bytes live in buckets of 8-byte capacity classes;
// anything larger goes to a single oversized bucket.
type ScratchCache struct {
	mu        sync.Locker
	small     [scratchSmallBuckets][][]byte
	oversized [][]byte
	stats     Stats
}

// NewScratchCache creates a scratch cache. A nil mu leaves it unsynchronized.
func NewScratchCache(mu sync.Locker) *ScratchCache {
	if mu == nil {
		mu = noLock{}
	}

	return &ScratchCache{mu: mu}
}

func bucketIndex(capacity int) int {
	return (capacity+ScratchBucketStep-1)/ScratchBucketStep - 1
}

// Get returns a buffer of length n.
func (c *ScratchCache) Get(n int) []byte {
	if n < 0 {
		n = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Gets++

	if n <= ScratchSmallMax {
		idx := bucketIndex(max(n, 1))
		bucket := c.small[idx]
		if last := len(bucket) - 1; last >= 0 {
			b := bucket[last]
			c.small[idx] = bucket[:last]

			return b[:n]
		}
		c.stats.Misses++

		return make([]byte, n, (idx+1)*ScratchBucketStep)
	}

	for i := len(c.oversized) - 1; i >= 0; i-- {
		b := c.oversized[i]
		if cap(b) >= n {
			c.oversized = append(c.oversized[:i], c.oversized[i+1:]...)
			return b[:n]
		}
	}
	c.stats.Misses++

	return make([]byte, n)
}

// Put returns b to the bucket matching its capacity. Small buffers whose
// capacity is not a multiple of ScratchBucketStep are dropped.
func (c *ScratchCache) Put(b []byte) {
	if cap(b) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	capacity := cap(b)
	if capacity <= ScratchSmallMax && capacity%ScratchBucketStep == 0 {
		idx := bucketIndex(capacity)
		if len(c.small[idx]) < scratchBucketLimit {
			c.small[idx] = append(c.small[idx], b[:0])
			c.stats.Puts++
		}

		return
	}

	if capacity > ScratchSmallMax && len(c.oversized) < scratchBucketLimit {
		c.oversized = append(c.oversized, b[:0])
		c.stats.Puts++
	}
}

// Stats returns a snapshot of the cache counters.
func (c *ScratchCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	for _, bucket := range c.small {
		s.Free += len(bucket)
	}
	s.Free += len(c.oversized)

	return s
}
