package rwf

import "github.com/arloliu/omm/format"

// FilterList header flags.
const (
	FilterListHasPerEntryPermData uint8 = 0x01
	FilterListHasTotalCountHint   uint8 = 0x02
)

// MaxFilterEntries is the largest number of entries a FilterList can carry.
const MaxFilterEntries = 0xFF

// FilterList is the header of a FilterList container.
//
// Wire layout:
//
//	flags u8, containerType u8, [totalCountHint u8], count u8
//	entries: flags u8, id u8, [containerType u8], [perm u15rb], [data lenob unless Clear]
type FilterList struct {
	Flags          uint8
	ContainerType  format.DataType
	TotalCountHint uint8
}

// FilterEntry is one decoded or to-be-encoded FilterList entry.
//
// ContainerType is format.Unknown when the entry uses the list's container type.
type FilterEntry struct {
	Action        format.FilterAction
	ID            uint8
	ContainerType format.DataType
	PermData      []byte
	EncData       []byte
}

// DecodeFilterList decodes a FilterList header.
func DecodeFilterList(it *DecodeIterator, fl *FilterList) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.FilterList}
		return NoData
	}

	r := it.beginContainer(format.FilterList)
	*fl = FilterList{Flags: r.u8()}
	containerType, ok := readType(r)
	fl.ContainerType = containerType

	if fl.Flags&FilterListHasTotalCountHint != 0 {
		fl.TotalCountHint = r.u8()
	}
	count := int(r.u8())

	if r.short {
		return IncompleteData
	}
	if !ok || !validContainerType(containerType) {
		return UnsupportedDataType
	}

	it.st.remaining = count
	it.st.flags = fl.Flags
	it.st.containerType = containerType

	return Success
}

// DecodeFilterEntry decodes the next entry. Returns EndOfContainer when none are left.
func DecodeFilterEntry(it *DecodeIterator, fe *FilterEntry) Status {
	st := &it.st
	if st.kind != format.FilterList {
		return InvalidArgument
	}
	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	r := &st.r
	flags := r.u8()
	*fe = FilterEntry{Action: format.FilterAction(flags & EntryActionMask), ID: r.u8()}

	effective := st.containerType
	typeOK := true
	if flags&EntryHasContainerType != 0 {
		fe.ContainerType, typeOK = readType(r)
		effective = fe.ContainerType
	}
	if flags&EntryHasPermData != 0 {
		fe.PermData = r.u15Bytes()
	}
	if fe.Action.HasPayload() && effective != format.NoData {
		fe.EncData = r.lenobBytes()
	}

	if r.short {
		st.remaining = 0
		return IncompleteData
	}
	if !fe.Action.IsValid() {
		return InvalidData
	}
	if !typeOK || !validContainerType(effective) {
		return UnsupportedDataType
	}

	return Success
}

// EncodeFilterListInit writes a FilterList header.
func EncodeFilterListInit(it *EncodeIterator, fl *FilterList) Status {
	if it.st.kind != format.Unknown || !validContainerType(fl.ContainerType) {
		return InvalidArgument
	}

	ct, _ := wireType(fl.ContainerType)

	start := it.pos
	w := it.begin()
	w.u8(fl.Flags)
	w.u8(ct)
	if fl.Flags&FilterListHasTotalCountHint != 0 {
		w.u8(fl.TotalCountHint)
	}
	countPos := w.pos
	w.u8(0)

	if st := it.commit(&w); st != Success {
		return st
	}

	it.st = encodeState{
		kind:          format.FilterList,
		start:         start,
		flags:         fl.Flags,
		countPos:      countPos,
		containerType: fl.ContainerType,
	}

	return Success
}

// EncodeFilterEntry writes one entry. Clear entries, and entries whose
// effective container type is NoData, carry no data.
func EncodeFilterEntry(it *EncodeIterator, fe *FilterEntry) Status {
	st := &it.st
	if st.kind != format.FilterList {
		return InvalidArgument
	}
	if !fe.Action.IsValid() || len(fe.PermData) > MaxU15 || st.count == MaxFilterEntries {
		return InvalidArgument
	}

	effective := st.containerType
	flags := uint8(fe.Action)
	if fe.ContainerType != format.Unknown && fe.ContainerType != st.containerType {
		if !validContainerType(fe.ContainerType) {
			return InvalidArgument
		}
		flags |= EntryHasContainerType
		effective = fe.ContainerType
	}
	flags = setIf(flags, EntryHasPermData, len(fe.PermData) > 0)

	w := it.begin()
	w.u8(flags)
	w.u8(fe.ID)
	if flags&EntryHasContainerType != 0 {
		ct, _ := wireType(effective)
		w.u8(ct)
	}
	if flags&EntryHasPermData != 0 {
		w.u15Bytes(fe.PermData)
	}
	if fe.Action.HasPayload() && effective != format.NoData {
		w.lenobBytes(fe.EncData)
	}

	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeFilterListComplete finishes the FilterList. With success false the
// container is rolled back to where EncodeFilterListInit started.
func EncodeFilterListComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.FilterList, success, 1)
}
