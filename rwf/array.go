package rwf

import "github.com/arloliu/omm/format"

// Array is the header of an Array of primitives.
//
// Wire layout:
//
//	primitiveType u8, itemLength u8, count u16
//	items: itemLength bytes each, or lenob-prefixed when itemLength is 0
type Array struct {
	PrimitiveType format.DataType
	ItemLength    int
}

// ArrayEntry is one decoded or to-be-encoded Array item.
type ArrayEntry struct {
	EncData []byte
}

// ValidArrayItemLength reports whether items of t may be encoded with the fixed
// width n. Zero (variable width) is always valid.
func ValidArrayItemLength(t format.DataType, n int) bool {
	switch {
	case n == 0:
		return true
	case n < 0 || n > 0xFF:
		return false
	}

	switch t { //nolint:exhaustive
	case format.Int, format.UInt:
		return validFixedIntWidth(n)
	case format.Enum:
		return n == 1 || n == 2
	case format.Float, format.Date:
		return n == 4
	case format.Double:
		return n == 8
	case format.Buffer, format.Ascii, format.Utf8, format.Rmtes:
		return true
	default:
		return false
	}
}

// DecodeArray decodes an Array header.
func DecodeArray(it *DecodeIterator, a *Array) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.Array}
		return NoData
	}

	r := it.beginContainer(format.Array)
	t, ok := readType(r)
	*a = Array{PrimitiveType: t, ItemLength: int(r.u8())}
	count := int(r.u16())

	if r.short {
		return IncompleteData
	}
	if !ok || !t.IsPrimitive() || !ValidArrayItemLength(t, a.ItemLength) {
		return UnsupportedDataType
	}

	it.st.remaining = count
	it.st.primitive = t
	it.st.itemLen = a.ItemLength

	return Success
}

// DecodeArrayEntry decodes the next item. Returns EndOfContainer when none are left.
func DecodeArrayEntry(it *DecodeIterator, ae *ArrayEntry) Status {
	st := &it.st
	if st.kind != format.Array {
		return InvalidArgument
	}
	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	if st.itemLen > 0 {
		ae.EncData = st.r.bytes(st.itemLen)
	} else {
		ae.EncData = st.r.lenobBytes()
	}

	if st.r.short {
		st.remaining = 0
		return IncompleteData
	}

	return Success
}

// EncodeArrayInit writes an Array header.
func EncodeArrayInit(it *EncodeIterator, a *Array) Status {
	if it.st.kind != format.Unknown || !a.PrimitiveType.IsPrimitive() ||
		!ValidArrayItemLength(a.PrimitiveType, a.ItemLength) {
		return InvalidArgument
	}

	start := it.pos
	w := it.begin()
	w.u8(uint8(a.PrimitiveType))
	w.u8(uint8(a.ItemLength))
	countPos := w.pos
	w.u16(0)

	if st := it.commit(&w); st != Success {
		return st
	}

	it.st = encodeState{
		kind:      format.Array,
		start:     start,
		countPos:  countPos,
		primitive: a.PrimitiveType,
		itemLen:   a.ItemLength,
	}

	return Success
}

// EncodeArrayEntry writes one item. Fixed-width arrays require exactly
// ItemLength bytes per item and cannot carry blank items.
func EncodeArrayEntry(it *EncodeIterator, ae *ArrayEntry) Status {
	st := &it.st
	if st.kind != format.Array || st.count == 0xFFFF {
		return InvalidArgument
	}

	w := it.begin()
	if st.itemLen > 0 {
		if len(ae.EncData) != st.itemLen {
			return InvalidArgument
		}
		w.bytes(ae.EncData)
	} else {
		w.lenobBytes(ae.EncData)
	}

	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeArrayComplete finishes the Array. With success false the array is
// rolled back to where EncodeArrayInit started.
func EncodeArrayComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.Array, success, 2)
}
