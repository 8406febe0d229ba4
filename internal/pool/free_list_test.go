package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObj struct {
	Marker
	id int
}

func newCounter() (func() *testObj, *int) {
	n := 0
	return func() *testObj {
		n++
		return &testObj{id: n}
	}, &n
}

func TestFreeList_GetPut(t *testing.T) {
	newFn, allocs := newCounter()
	l := NewFreeList(newFn, nil)

	a := l.Get()
	require.Equal(t, 1, *allocs)
	require.False(t, a.InPool())

	require.True(t, l.Put(a))
	require.True(t, a.InPool())
	require.Equal(t, 1, l.Len())

	b := l.Get()
	require.Same(t, a, b, "LIFO reuse")
	require.False(t, b.InPool())
	require.Equal(t, 1, *allocs, "no allocation on reuse")

	s := l.Stats()
	assert.Equal(t, uint64(2), s.Gets)
	assert.Equal(t, uint64(1), s.Puts)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 0, s.Free)
}

func TestFreeList_DoubleReleaseRejected(t *testing.T) {
	newFn, _ := newCounter()
	l := NewFreeList(newFn, nil)

	a := l.Get()
	require.True(t, l.Put(a))
	require.False(t, l.Put(a))
	require.Equal(t, 1, l.Len())
	require.Equal(t, uint64(1), l.Stats().Rejected)

	// The object is handed out once only.
	first := l.Get()
	second := l.Get()
	require.NotSame(t, first, second)
}

func TestFreeList_OwnedRejected(t *testing.T) {
	newFn, _ := newCounter()
	l := NewFreeList(newFn, nil)

	a := l.Get()
	SetOwned(a, true)
	require.True(t, a.Owned())
	require.False(t, l.Put(a))
	require.False(t, a.InPool())
	require.Equal(t, 0, l.Len())
	require.Equal(t, uint64(1), l.Stats().Rejected)

	SetOwned(a, false)
	require.True(t, l.Put(a))
	require.Same(t, a, l.Get())
}

func TestFreeList_NilRejected(t *testing.T) {
	newFn, _ := newCounter()
	l := NewFreeList(newFn, nil)

	require.False(t, l.Put(nil))
	require.Equal(t, 0, l.Len())
}

func TestFreeList_Preallocate(t *testing.T) {
	newFn, allocs := newCounter()
	l := NewFreeList(newFn, nil)

	l.Preallocate(4)
	require.Equal(t, 4, l.Len())
	require.Equal(t, 4, *allocs)

	for range 4 {
		v := l.Get()
		require.False(t, v.InPool())
	}
	require.Equal(t, 4, *allocs)
	require.Equal(t, uint64(0), l.Stats().Misses)
}

func TestFreeList_Synchronized(t *testing.T) {
	var mu sync.Mutex
	l := NewFreeList(func() *testObj { return &testObj{} }, &mu)
	l.Preallocate(16)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				v := l.Get()
				l.Put(v)
			}
		}()
	}
	wg.Wait()

	s := l.Stats()
	require.Equal(t, uint64(8000), s.Gets)
	require.Equal(t, uint64(8000), s.Puts)
	require.Equal(t, 16, s.Free)
}

func TestStats_Add(t *testing.T) {
	s := Stats{Gets: 1, Puts: 2, Misses: 3, Rejected: 4, Free: 5}
	s.Add(Stats{Gets: 1, Puts: 1, Misses: 1, Rejected: 1, Free: 1})
	require.Equal(t, Stats{Gets: 2, Puts: 3, Misses: 4, Rejected: 5, Free: 6}, s)
}

func BenchmarkFreeList_GetPut(b *testing.B) {
	l := NewFreeList(func() *testObj { return &testObj{} }, nil)
	l.Preallocate(1)

	b.ReportAllocs()
	for b.Loop() {
		v := l.Get()
		l.Put(v)
	}
}
