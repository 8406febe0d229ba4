package pool

import "sync"

const (
	// EncodeBufferDefaultSize is the initial capacity of an encode buffer.
	EncodeBufferDefaultSize = 1024
	// EncodeBufferMaxThreshold is the largest buffer a registry pool retains.
	EncodeBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is the backing store of one container encode pass.
//
// The encode cursor writes into the whole capacity (Full). When it reports
// that the buffer is too small, Double hands it a larger one carrying the
// bytes written so far.
type ByteBuffer struct {
	buf []byte
}

// NewByteBuffer creates a ByteBuffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{buf: make([]byte, 0, capacity)}
}

// Full returns the buffer extended to its whole capacity.
func (bb *ByteBuffer) Full() []byte {
	return bb.buf[:cap(bb.buf)]
}

// Double doubles the capacity, keeping the first keep bytes of the full buffer.
//
// Parameters:
//   - keep: number of leading bytes to carry over (clamped to the capacity)
//
// Returns:
//   - []byte: the new full-capacity buffer, as returned by Full
func (bb *ByteBuffer) Double(keep int) []byte {
	size := cap(bb.buf) * 2
	if size == 0 {
		size = EncodeBufferDefaultSize
	}
	keep = min(keep, cap(bb.buf))

	grown := make([]byte, keep, size)
	copy(grown, bb.buf[:keep])
	bb.buf = grown

	return bb.Full()
}

// ByteBufferPool recycles encode buffers through a sync.Pool.
//
// Buffers that grew past maxThreshold are dropped on Put so that one
// oversized container does not pin memory for the lifetime of the registry.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize capacity.
// A maxThreshold of zero retains every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	if defaultSize <= 0 {
		defaultSize = EncodeBufferDefaultSize
	}

	p := &ByteBufferPool{maxThreshold: maxThreshold}
	p.pool.New = func() any { return NewByteBuffer(defaultSize) }

	return p
}

// Get retrieves a buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. Nil and oversized buffers are dropped.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || (p.maxThreshold > 0 && cap(bb.buf) > p.maxThreshold) {
		return
	}

	bb.buf = bb.buf[:0]
	p.pool.Put(bb)
}
