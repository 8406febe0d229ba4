package rwf

import "github.com/arloliu/omm/format"

// Series header flags.
const (
	SeriesHasSetDefs        uint8 = 0x01
	SeriesHasSummaryData    uint8 = 0x02
	SeriesHasTotalCountHint uint8 = 0x04
)

// Series is the header of a Series container.
//
// Wire layout:
//
//	flags u8, containerType u8
//	[setDefs lenob] [summary lenob] [totalCountHint u32]
//	count u16
//	entries: data lenob (absent for a NoData series)
type Series struct {
	Flags          uint8
	ContainerType  format.DataType
	TotalCountHint uint32
	EncSetDefs     []byte
	EncSummaryData []byte
}

// SeriesEntry is one decoded or to-be-encoded Series entry.
type SeriesEntry struct {
	EncData []byte
}

// DecodeSeries decodes a Series header.
func DecodeSeries(it *DecodeIterator, s *Series) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.Series}
		return NoData
	}

	r := it.beginContainer(format.Series)
	*s = Series{Flags: r.u8()}
	containerType, ok := readType(r)
	s.ContainerType = containerType

	if s.Flags&SeriesHasSetDefs != 0 {
		s.EncSetDefs = r.lenobBytes()
	}
	if s.Flags&SeriesHasSummaryData != 0 {
		s.EncSummaryData = r.lenobBytes()
	}
	if s.Flags&SeriesHasTotalCountHint != 0 {
		s.TotalCountHint = r.u32()
	}
	count := int(r.u16())

	if r.short {
		return IncompleteData
	}
	if !ok || !validContainerType(containerType) {
		return UnsupportedDataType
	}

	it.st.remaining = count
	it.st.flags = s.Flags
	it.st.containerType = containerType

	return Success
}

// DecodeSeriesEntry decodes the next entry. Returns EndOfContainer when none are left.
func DecodeSeriesEntry(it *DecodeIterator, se *SeriesEntry) Status {
	st := &it.st
	if st.kind != format.Series {
		return InvalidArgument
	}
	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	*se = SeriesEntry{}
	if st.containerType != format.NoData {
		se.EncData = st.r.lenobBytes()
	}

	if st.r.short {
		st.remaining = 0
		return IncompleteData
	}

	return Success
}

// EncodeSeriesInit writes a Series header including its set definitions and summary.
func EncodeSeriesInit(it *EncodeIterator, s *Series) Status {
	if it.st.kind != format.Unknown || !validContainerType(s.ContainerType) {
		return InvalidArgument
	}

	flags := s.Flags
	flags = setIf(flags, SeriesHasSetDefs, len(s.EncSetDefs) > 0)
	flags = setIf(flags, SeriesHasSummaryData, len(s.EncSummaryData) > 0)

	ct, _ := wireType(s.ContainerType)

	start := it.pos
	w := it.begin()
	w.u8(flags)
	w.u8(ct)
	if flags&SeriesHasSetDefs != 0 {
		w.lenobBytes(s.EncSetDefs)
	}
	if flags&SeriesHasSummaryData != 0 {
		w.lenobBytes(s.EncSummaryData)
	}
	if flags&SeriesHasTotalCountHint != 0 {
		w.u32(s.TotalCountHint)
	}
	countPos := w.pos
	w.u16(0)

	if st := it.commit(&w); st != Success {
		return st
	}

	it.st = encodeState{
		kind:          format.Series,
		start:         start,
		flags:         flags,
		countPos:      countPos,
		containerType: s.ContainerType,
	}

	return Success
}

// EncodeSeriesEntry writes one entry.
func EncodeSeriesEntry(it *EncodeIterator, se *SeriesEntry) Status {
	st := &it.st
	if st.kind != format.Series || st.count == 0xFFFF {
		return InvalidArgument
	}

	w := it.begin()
	if st.containerType != format.NoData {
		w.lenobBytes(se.EncData)
	}

	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeSeriesComplete finishes the Series. With success false the container
// is rolled back to where EncodeSeriesInit started.
func EncodeSeriesComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.Series, success, 2)
}
