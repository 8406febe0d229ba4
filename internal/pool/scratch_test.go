package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratchCache_Buckets(t *testing.T) {
	tests := []struct {
		n       int
		wantCap int
	}{
		{0, 8},
		{1, 8},
		{8, 8},
		{9, 16},
		{33, 40},
		{64, 64},
	}

	for _, tt := range tests {
		c := NewScratchCache(nil)
		b := c.Get(tt.n)
		require.Len(t, b, tt.n)
		require.Equal(t, tt.wantCap, cap(b), "n=%d", tt.n)
	}
}

func TestScratchCache_Reuse(t *testing.T) {
	c := NewScratchCache(nil)

	b := c.Get(12)
	copy(b, "permissions!")
	c.Put(b)

	again := c.Get(10)
	require.Len(t, again, 10)
	require.Equal(t, &b[:1][0], &again[:1][0], "same backing array")

	s := c.Stats()
	require.Equal(t, uint64(2), s.Gets)
	require.Equal(t, uint64(1), s.Misses)
	require.Equal(t, uint64(1), s.Puts)
	require.Equal(t, 0, s.Free)
}

func TestScratchCache_Oversized(t *testing.T) {
	c := NewScratchCache(nil)

	big := c.Get(200)
	require.Len(t, big, 200)
	c.Put(big)

	smaller := c.Get(100)
	require.Len(t, smaller, 100)
	require.Equal(t, 200, cap(smaller))

	// Nothing large enough is pooled: allocate.
	c.Put(smaller)
	huge := c.Get(500)
	require.Len(t, huge, 500)
	require.Equal(t, 1, c.Stats().Free)
}

func TestScratchCache_PutOddCapacityDropped(t *testing.T) {
	c := NewScratchCache(nil)
	c.Put(make([]byte, 5))
	c.Put(nil)
	require.Equal(t, 0, c.Stats().Free)
}
