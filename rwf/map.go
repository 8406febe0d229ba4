package rwf

import "github.com/arloliu/omm/format"

// Map header flags.
const (
	MapHasSetDefs          uint8 = 0x01
	MapHasSummaryData      uint8 = 0x02
	MapHasPerEntryPermData uint8 = 0x04
	MapHasTotalCountHint   uint8 = 0x08
	MapHasKeyFieldID       uint8 = 0x10
)

// Entry flags shared by Map, Vector and FilterList entries. The low four bits
// carry the action.
const (
	EntryActionMask       uint8 = 0x0F
	EntryHasPermData      uint8 = 0x10
	EntryHasContainerType uint8 = 0x20
)

// Map is the header of a Map container.
//
// Wire layout:
//
//	flags u8, keyType u8, containerType u8
//	[keyFieldID u16] [setDefs lenob] [summary lenob] [totalCountHint u32]
//	count u16
//	entries: flags u8, key u15rb, [perm u15rb], [data lenob unless Delete]
type Map struct {
	Flags            uint8
	KeyPrimitiveType format.DataType
	ContainerType    format.DataType
	KeyFieldID       int16
	TotalCountHint   uint32
	EncSetDefs       []byte
	EncSummaryData   []byte
}

// MapEntry is one decoded or to-be-encoded Map entry.
type MapEntry struct {
	Action   format.MapAction
	EncKey   []byte
	PermData []byte
	EncData  []byte
}

// DecodeMap decodes a Map header.
func DecodeMap(it *DecodeIterator, m *Map) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.Map}
		return NoData
	}

	r := it.beginContainer(format.Map)
	*m = Map{Flags: r.u8()}
	keyType, keyOK := readType(r)
	containerType, ctOK := readType(r)
	m.KeyPrimitiveType = keyType
	m.ContainerType = containerType

	if m.Flags&MapHasKeyFieldID != 0 {
		m.KeyFieldID = int16(r.u16()) //nolint:gosec
	}
	if m.Flags&MapHasSetDefs != 0 {
		m.EncSetDefs = r.lenobBytes()
	}
	if m.Flags&MapHasSummaryData != 0 {
		m.EncSummaryData = r.lenobBytes()
	}
	if m.Flags&MapHasTotalCountHint != 0 {
		m.TotalCountHint = r.u32()
	}
	count := int(r.u16())

	if r.short {
		return IncompleteData
	}
	if !keyOK || !keyType.IsPrimitive() || !ctOK || !validContainerType(containerType) {
		return UnsupportedDataType
	}

	it.st.remaining = count
	it.st.flags = m.Flags
	it.st.keyType = keyType
	it.st.containerType = containerType

	return Success
}

// DecodeMapEntry decodes the next entry. Returns EndOfContainer when none are left.
func DecodeMapEntry(it *DecodeIterator, me *MapEntry) Status {
	st := &it.st
	if st.kind != format.Map {
		return InvalidArgument
	}
	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	r := &st.r
	flags := r.u8()
	*me = MapEntry{Action: format.MapAction(flags & EntryActionMask)}
	me.EncKey = r.u15Bytes()
	if flags&EntryHasPermData != 0 {
		me.PermData = r.u15Bytes()
	}
	if me.Action.HasPayload() && st.containerType != format.NoData {
		me.EncData = r.lenobBytes()
	}

	if r.short {
		st.remaining = 0
		return IncompleteData
	}
	if !me.Action.IsValid() {
		return InvalidData
	}

	return Success
}

// EncodeMapInit writes a Map header including its set definitions and summary.
func EncodeMapInit(it *EncodeIterator, m *Map) Status {
	if it.st.kind != format.Unknown {
		return InvalidArgument
	}
	if !m.KeyPrimitiveType.IsPrimitive() || !validContainerType(m.ContainerType) {
		return InvalidArgument
	}

	flags := m.Flags
	flags = setIf(flags, MapHasSetDefs, len(m.EncSetDefs) > 0)
	flags = setIf(flags, MapHasSummaryData, len(m.EncSummaryData) > 0)

	ct, _ := wireType(m.ContainerType)

	start := it.pos
	w := it.begin()
	w.u8(flags)
	w.u8(uint8(m.KeyPrimitiveType))
	w.u8(ct)
	if flags&MapHasKeyFieldID != 0 {
		w.u16(uint16(m.KeyFieldID)) //nolint:gosec
	}
	if flags&MapHasSetDefs != 0 {
		w.lenobBytes(m.EncSetDefs)
	}
	if flags&MapHasSummaryData != 0 {
		w.lenobBytes(m.EncSummaryData)
	}
	if flags&MapHasTotalCountHint != 0 {
		w.u32(m.TotalCountHint)
	}
	countPos := w.pos
	w.u16(0)

	if st := it.commit(&w); st != Success {
		return st
	}

	it.st = encodeState{
		kind:          format.Map,
		start:         start,
		flags:         flags,
		countPos:      countPos,
		keyType:       m.KeyPrimitiveType,
		containerType: m.ContainerType,
	}

	return Success
}

// EncodeMapEntry writes one entry. The key and data are already encoded.
// Delete entries, and entries of a NoData map, carry no data.
func EncodeMapEntry(it *EncodeIterator, me *MapEntry) Status {
	st := &it.st
	if st.kind != format.Map {
		return InvalidArgument
	}
	if !me.Action.IsValid() || len(me.EncKey) == 0 || len(me.EncKey) > MaxU15 ||
		len(me.PermData) > MaxU15 || st.count == 0xFFFF {
		return InvalidArgument
	}

	flags := uint8(me.Action)
	flags = setIf(flags, EntryHasPermData, len(me.PermData) > 0)

	w := it.begin()
	w.u8(flags)
	w.u15Bytes(me.EncKey)
	if flags&EntryHasPermData != 0 {
		w.u15Bytes(me.PermData)
	}
	if me.Action.HasPayload() && st.containerType != format.NoData {
		w.lenobBytes(me.EncData)
	}

	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeMapComplete finishes the Map. With success false the container is
// rolled back to where EncodeMapInit started.
func EncodeMapComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.Map, success, 2)
}

func setIf(flags, bit uint8, cond bool) uint8 {
	if cond {
		return flags | bit
	}

	return flags &^ bit
}
