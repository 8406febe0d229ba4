package rwf

import "github.com/arloliu/omm/format"

// Vector header flags.
const (
	VectorHasSetDefs          uint8 = 0x01
	VectorHasSummaryData      uint8 = 0x02
	VectorHasPerEntryPermData uint8 = 0x04
	VectorHasTotalCountHint   uint8 = 0x08
	VectorSupportsSorting     uint8 = 0x10
)

// Vector is the header of a Vector container.
//
// Wire layout:
//
//	flags u8, containerType u8
//	[setDefs lenob] [summary lenob] [totalCountHint u32]
//	count u16
//	entries: flags u8, index u32, [perm u15rb], [data lenob unless Clear/Delete]
type Vector struct {
	Flags          uint8
	ContainerType  format.DataType
	TotalCountHint uint32
	EncSetDefs     []byte
	EncSummaryData []byte
}

// VectorEntry is one decoded or to-be-encoded Vector entry.
type VectorEntry struct {
	Action   format.VectorAction
	Index    uint32
	PermData []byte
	EncData  []byte
}

// DecodeVector decodes a Vector header.
func DecodeVector(it *DecodeIterator, v *Vector) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.Vector}
		return NoData
	}

	r := it.beginContainer(format.Vector)
	*v = Vector{Flags: r.u8()}
	containerType, ok := readType(r)
	v.ContainerType = containerType

	if v.Flags&VectorHasSetDefs != 0 {
		v.EncSetDefs = r.lenobBytes()
	}
	if v.Flags&VectorHasSummaryData != 0 {
		v.EncSummaryData = r.lenobBytes()
	}
	if v.Flags&VectorHasTotalCountHint != 0 {
		v.TotalCountHint = r.u32()
	}
	count := int(r.u16())

	if r.short {
		return IncompleteData
	}
	if !ok || !validContainerType(containerType) {
		return UnsupportedDataType
	}

	it.st.remaining = count
	it.st.flags = v.Flags
	it.st.containerType = containerType

	return Success
}

// DecodeVectorEntry decodes the next entry. Returns EndOfContainer when none are left.
func DecodeVectorEntry(it *DecodeIterator, ve *VectorEntry) Status {
	st := &it.st
	if st.kind != format.Vector {
		return InvalidArgument
	}
	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	r := &st.r
	flags := r.u8()
	*ve = VectorEntry{Action: format.VectorAction(flags & EntryActionMask)}
	ve.Index = r.u32()
	if flags&EntryHasPermData != 0 {
		ve.PermData = r.u15Bytes()
	}
	if ve.Action.HasPayload() && st.containerType != format.NoData {
		ve.EncData = r.lenobBytes()
	}

	if r.short {
		st.remaining = 0
		return IncompleteData
	}
	if !ve.Action.IsValid() {
		return InvalidData
	}

	return Success
}

// EncodeVectorInit writes a Vector header including its set definitions and summary.
func EncodeVectorInit(it *EncodeIterator, v *Vector) Status {
	if it.st.kind != format.Unknown || !validContainerType(v.ContainerType) {
		return InvalidArgument
	}

	flags := v.Flags
	flags = setIf(flags, VectorHasSetDefs, len(v.EncSetDefs) > 0)
	flags = setIf(flags, VectorHasSummaryData, len(v.EncSummaryData) > 0)

	ct, _ := wireType(v.ContainerType)

	start := it.pos
	w := it.begin()
	w.u8(flags)
	w.u8(ct)
	if flags&VectorHasSetDefs != 0 {
		w.lenobBytes(v.EncSetDefs)
	}
	if flags&VectorHasSummaryData != 0 {
		w.lenobBytes(v.EncSummaryData)
	}
	if flags&VectorHasTotalCountHint != 0 {
		w.u32(v.TotalCountHint)
	}
	countPos := w.pos
	w.u16(0)

	if st := it.commit(&w); st != Success {
		return st
	}

	it.st = encodeState{
		kind:          format.Vector,
		start:         start,
		flags:         flags,
		countPos:      countPos,
		containerType: v.ContainerType,
	}

	return Success
}

// EncodeVectorEntry writes one entry. Clear and Delete entries, and entries of
// a NoData vector, carry no data.
func EncodeVectorEntry(it *EncodeIterator, ve *VectorEntry) Status {
	st := &it.st
	if st.kind != format.Vector {
		return InvalidArgument
	}
	if !ve.Action.IsValid() || len(ve.PermData) > MaxU15 || st.count == 0xFFFF {
		return InvalidArgument
	}

	flags := uint8(ve.Action)
	flags = setIf(flags, EntryHasPermData, len(ve.PermData) > 0)

	w := it.begin()
	w.u8(flags)
	w.u32(ve.Index)
	if flags&EntryHasPermData != 0 {
		w.u15Bytes(ve.PermData)
	}
	if ve.Action.HasPayload() && st.containerType != format.NoData {
		w.lenobBytes(ve.EncData)
	}

	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeVectorComplete finishes the Vector. With success false the container
// is rolled back to where EncodeVectorInit started.
func EncodeVectorComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.Vector, success, 2)
}
