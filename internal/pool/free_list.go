// Package pool provides the object and buffer pools behind codec registries.
//
// FreeList is a typed free list of pointer objects. Every pooled object embeds a
// Marker recording whether it currently sits in a free list, so a second
// release of the same object is rejected instead of duplicating it:
//
//	type Int struct {
//		pool.Marker
//		v int64
//	}
//
//	ints := pool.NewFreeList(func() *Int { return &Int{} }, nil)
//	v := ints.Get()
//	ints.Put(v) // true
//	ints.Put(v) // false, already free
//
// An object bound into another one (an entry load, a summary) is marked with
// SetOwned; callers refuse to release owned objects directly.
//
// A FreeList is safe for concurrent use only when built with a non-nil locker.
package pool

import "sync"

// Marker records free-list membership and ownership. Embed it in pooled types.
type Marker struct {
	inPool bool
	owned  bool
}

// InPool reports whether the object currently sits in a free list.
func (m *Marker) InPool() bool {
	return m.inPool
}

// Owned reports whether the object is held by another pooled object and must
// only be released through it.
func (m *Marker) Owned() bool {
	return m.owned
}

func (m *Marker) poolMarker() *Marker {
	return m
}

// Ownable is implemented by every type that embeds Marker.
type Ownable interface {
	poolMarker() *Marker
}

// SetOwned marks v as held, or no longer held, by another pooled object.
func SetOwned(v Ownable, owned bool) {
	v.poolMarker().owned = owned
}

// Pooled is implemented by every comparable type that embeds Marker.
type Pooled interface {
	comparable
	Ownable
}

// Stats counts free-list traffic.
type Stats struct {
	Gets     uint64 // Gets counts Get calls.
	Puts     uint64 // Puts counts accepted Put calls.
	Misses   uint64 // Misses counts Get calls that had to allocate.
	Rejected uint64 // Rejected counts Put calls refused as double or owned releases.
	Free     int    // Free is the number of objects currently pooled.
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Gets += other.Gets
	s.Puts += other.Puts
	s.Misses += other.Misses
	s.Rejected += other.Rejected
	s.Free += other.Free
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// FreeList is a LIFO free list of objects of one concrete type.
type FreeList[T Pooled] struct {
	mu    sync.Locker
	newFn func() T
	items []T
	stats Stats
}

// NewFreeList creates a free list.
//
// Parameters:
//   - newFn: allocates a fresh object when the list is empty
//   - mu: guards the list; nil means the list is not synchronized
//
// Returns:
//   - *FreeList[T]: the empty free list
func NewFreeList[T Pooled](newFn func() T, mu sync.Locker) *FreeList[T] {
	if mu == nil {
		mu = noLock{}
	}

	return &FreeList[T]{mu: mu, newFn: newFn}
}

// Get returns a pooled object, or a new one when the list is empty.
func (l *FreeList[T]) Get() T {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.Gets++

	n := len(l.items)
	if n == 0 {
		l.stats.Misses++
		return l.newFn()
	}

	v := l.items[n-1]
	var zero T
	l.items[n-1] = zero
	l.items = l.items[:n-1]
	v.poolMarker().inPool = false

	return v
}

// Put returns v to the list.
//
// Returns false, leaving the list untouched, when v is the zero value, is
// already in a free list or is owned.
func (l *FreeList[T]) Put(v T) bool {
	var zero T
	if v == zero {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m := v.poolMarker()
	if m.inPool || m.owned {
		l.stats.Rejected++
		return false
	}

	m.inPool = true
	l.items = append(l.items, v)
	l.stats.Puts++

	return true
}

// Preallocate fills the list with n fresh objects.
func (l *FreeList[T]) Preallocate(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for range n {
		v := l.newFn()
		v.poolMarker().inPool = true
		l.items = append(l.items, v)
	}
}

// Len returns the number of pooled objects.
func (l *FreeList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.items)
}

// Stats returns a snapshot of the list counters.
func (l *FreeList[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.stats
	s.Free = len(l.items)

	return s
}
