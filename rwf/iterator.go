// Package rwf implements the byte cursors of the omm wire format.
//
// The wire format is a compact, big-endian, self-describing layout for the
// container kinds (FieldList, ElementList, Map, Vector, Series, FilterList,
// Array) and the primitive kinds they carry. Two cursors walk it:
//
//   - DecodeIterator reads one container level. Headers are decoded with
//     DecodeFieldList, DecodeMap, ...; entries with DecodeFieldEntry,
//     DecodeMapEntry, ... until EndOfContainer. Nested containers are decoded
//     with a fresh iterator over the entry bytes one level deeper.
//   - EncodeIterator writes one container level into a caller-owned buffer.
//     Every Encode function is atomic: when it returns BufferTooSmall nothing
//     was written, so the caller can Realign to a larger buffer and retry the
//     same call.
//
// Primitives are encoded with the Append* functions and decoded with the
// Decode* functions over an entry's bytes. Zero-length data is blank.
package rwf

import (
	"github.com/arloliu/omm/endian"
	"github.com/arloliu/omm/format"
)

const (
	// MajorVersion is the wire major version implemented by this package.
	MajorVersion uint8 = 14
	// MinorVersion is the wire minor version implemented by this package.
	MinorVersion uint8 = 1
	// MaxNestingLevels is the deepest container nesting a decode may reach.
	MaxNestingLevels = 16
	// MaxLocalSetID is the largest id of a local set definition.
	MaxLocalSetID = 15
	// MaxU15 is the largest value of a u15rb length.
	MaxU15 = 0x7FFF
)

var engine = endian.GetWireEngine()

// DecodeIterator is a forward-only cursor over one encoded container.
//
// The zero value is ready for SetBufferAndVersion. A DecodeIterator must not be
// shared between goroutines or containers.
type DecodeIterator struct {
	buf   []byte
	major uint8
	minor uint8
	level int
	st    decodeState
}

// decodeState holds the entry-walking state of the container being decoded.
type decodeState struct {
	kind      format.DataType
	r         reader
	remaining int
	flags     uint8

	set         reader
	fieldSet    *FieldSetDef
	elementSet  *ElementSetDef
	setIdx      int
	hasStandard bool

	keyType       format.DataType
	containerType format.DataType
	primitive     format.DataType
	itemLen       int
}

// SetBufferAndVersion points the iterator at buf.
//
// Returns VersionNotSupported when major differs from MajorVersion.
func (it *DecodeIterator) SetBufferAndVersion(buf []byte, major, minor uint8) Status {
	if major != MajorVersion {
		return VersionNotSupported
	}

	it.buf = buf
	it.major = major
	it.minor = minor
	it.st = decodeState{}

	return Success
}

// Clear detaches the iterator from its buffer.
func (it *DecodeIterator) Clear() {
	*it = DecodeIterator{}
}

// Buffer returns the buffer the iterator is attached to.
func (it *DecodeIterator) Buffer() []byte { return it.buf }

// MajorVersion returns the major version the iterator was attached with.
func (it *DecodeIterator) MajorVersion() uint8 { return it.major }

// MinorVersion returns the minor version the iterator was attached with.
func (it *DecodeIterator) MinorVersion() uint8 { return it.minor }

// Level returns the nesting level of the container under the iterator.
func (it *DecodeIterator) Level() int { return it.level }

// SetLevel sets the nesting level. Returns IteratorOverrun past MaxNestingLevels.
func (it *DecodeIterator) SetLevel(level int) Status {
	if level > MaxNestingLevels {
		return IteratorOverrun
	}
	it.level = level

	return Success
}

// NestedIterator attaches child to data one level below it.
func (it *DecodeIterator) NestedIterator(child *DecodeIterator, data []byte) Status {
	if it.level+1 > MaxNestingLevels {
		return IteratorOverrun
	}

	if st := child.SetBufferAndVersion(data, it.major, it.minor); st != Success {
		return st
	}
	child.level = it.level + 1

	return Success
}

// beginContainer resets the entry state for a header decode of kind.
func (it *DecodeIterator) beginContainer(kind format.DataType) *reader {
	it.st = decodeState{kind: kind, r: reader{buf: it.buf}}
	return &it.st.r
}

// EncodeIterator writes one container into a caller-owned buffer.
//
// The whole length of the buffer is writable; EncodedBytes returns what has
// been written so far.
type EncodeIterator struct {
	buf   []byte
	pos   int
	major uint8
	minor uint8
	st    encodeState
}

type encodeState struct {
	kind          format.DataType
	start         int
	flags         uint8
	countPos      int
	count         int
	setLenPos     int
	fieldSet      *FieldSetDef
	elementSet    *ElementSetDef
	setIdx        int
	inSet         bool
	containerType format.DataType
	keyType       format.DataType
	primitive     format.DataType
	itemLen       int
}

// SetBufferAndVersion points the iterator at buf and resets the write position.
func (it *EncodeIterator) SetBufferAndVersion(buf []byte, major, minor uint8) Status {
	if major != MajorVersion {
		return VersionNotSupported
	}

	it.buf = buf
	it.pos = 0
	it.major = major
	it.minor = minor
	it.st = encodeState{}

	return Success
}

// Realign moves the written bytes into buf and continues encoding there.
//
// Returns BufferTooSmall when buf cannot hold the bytes already written.
func (it *EncodeIterator) Realign(buf []byte) Status {
	if len(buf) < it.pos {
		return BufferTooSmall
	}

	copy(buf, it.buf[:it.pos])
	it.buf = buf

	return Success
}

// EncodedBytes returns the bytes written so far.
func (it *EncodeIterator) EncodedBytes() []byte {
	return it.buf[:it.pos]
}

// Len returns the number of bytes written so far.
func (it *EncodeIterator) Len() int { return it.pos }

// MajorVersion returns the major version the iterator was attached with.
func (it *EncodeIterator) MajorVersion() uint8 { return it.major }

// MinorVersion returns the minor version the iterator was attached with.
func (it *EncodeIterator) MinorVersion() uint8 { return it.minor }

// Clear detaches the iterator from its buffer.
func (it *EncodeIterator) Clear() {
	*it = EncodeIterator{}
}

func (it *EncodeIterator) begin() writer {
	return writer{buf: it.buf, pos: it.pos}
}

func (it *EncodeIterator) commit(w *writer) Status {
	if w.short {
		return BufferTooSmall
	}
	it.pos = w.pos

	return Success
}

// reader decodes wire fields and records a short buffer instead of panicking.
type reader struct {
	buf   []byte
	pos   int
	short bool
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) have(n int) bool {
	if r.short || n < 0 || r.pos+n > len(r.buf) {
		r.short = true
		return false
	}

	return true
}

func (r *reader) u8() uint8 {
	if !r.have(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++

	return v
}

func (r *reader) u16() uint16 {
	if !r.have(2) {
		return 0
	}
	v := engine.Uint16(r.buf[r.pos:])
	r.pos += 2

	return v
}

func (r *reader) u32() uint32 {
	if !r.have(4) {
		return 0
	}
	v := engine.Uint32(r.buf[r.pos:])
	r.pos += 4

	return v
}

func (r *reader) bytes(n int) []byte {
	if !r.have(n) {
		return nil
	}
	b := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n

	return b
}

// u15rb reads a 1-byte length below 0x80, otherwise a 2-byte length with the
// high bit set.
func (r *reader) u15rb() int {
	b := r.u8()
	if b&0x80 == 0 {
		return int(b)
	}

	lo := r.u8()

	return int(b&0x7F)<<8 | int(lo)
}

// lenob reads a 1-byte length below 0xFE, 0xFE plus a u16, or 0xFF plus a u32.
func (r *reader) lenob() int {
	b := r.u8()
	switch b {
	case 0xFE:
		return int(r.u16())
	case 0xFF:
		return int(r.u32())
	default:
		return int(b)
	}
}

func (r *reader) u15Bytes() []byte {
	n := r.u15rb()
	return r.bytes(n)
}

func (r *reader) lenobBytes() []byte {
	n := r.lenob()
	return r.bytes(n)
}

// writer encodes wire fields into a fixed buffer and records overflow.
type writer struct {
	buf   []byte
	pos   int
	short bool
}

func (w *writer) need(n int) bool {
	if w.short || w.pos+n > len(w.buf) {
		w.short = true
		return false
	}

	return true
}

func (w *writer) u8(v uint8) {
	if w.need(1) {
		w.buf[w.pos] = v
		w.pos++
	}
}

func (w *writer) u16(v uint16) {
	if w.need(2) {
		engine.PutUint16(w.buf[w.pos:], v)
		w.pos += 2
	}
}

func (w *writer) u32(v uint32) {
	if w.need(4) {
		engine.PutUint32(w.buf[w.pos:], v)
		w.pos += 4
	}
}

func (w *writer) bytes(b []byte) {
	if w.need(len(b)) {
		copy(w.buf[w.pos:], b)
		w.pos += len(b)
	}
}

func (w *writer) str(s string) {
	if w.need(len(s)) {
		copy(w.buf[w.pos:], s)
		w.pos += len(s)
	}
}

func (w *writer) u15rb(v int) {
	if v < 0x80 {
		w.u8(uint8(v))
		return
	}
	w.u8(uint8(v>>8) | 0x80)
	w.u8(uint8(v))
}

func (w *writer) lenob(n int) {
	switch {
	case n < 0xFE:
		w.u8(uint8(n))
	case n <= 0xFFFF:
		w.u8(0xFE)
		w.u16(uint16(n))
	default:
		w.u8(0xFF)
		w.u32(uint32(n)) //nolint:gosec
	}
}

func (w *writer) u15Bytes(b []byte) {
	w.u15rb(len(b))
	w.bytes(b)
}

func (w *writer) lenobBytes(b []byte) {
	w.lenob(len(b))
	w.bytes(b)
}

// validContainerType reports whether t may be declared as the entry type of a
// Map, Vector, Series or FilterList.
func validContainerType(t format.DataType) bool {
	return t.IsWire() && !t.IsPrimitive() && t != format.Array
}

// wireType converts a value kind to its wire type byte.
func wireType(t format.DataType) (uint8, bool) {
	switch {
	case t.IsMessage():
		return uint8(format.Msg), true
	case t.IsWire():
		return uint8(t), true //nolint:gosec
	default:
		return 0, false
	}
}

// readType reads a wire type byte and reports whether it names a wire kind.
func readType(r *reader) (format.DataType, bool) {
	t := format.DataType(r.u8())
	return t, t.IsWire()
}
