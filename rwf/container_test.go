package rwf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/format"
)

func newEncoder(t *testing.T, size int) *EncodeIterator {
	t.Helper()

	it := &EncodeIterator{}
	require.Equal(t, Success, it.SetBufferAndVersion(make([]byte, size), MajorVersion, MinorVersion))

	return it
}

func newDecoder(t *testing.T, data []byte) *DecodeIterator {
	t.Helper()

	it := &DecodeIterator{}
	require.Equal(t, Success, it.SetBufferAndVersion(data, MajorVersion, MinorVersion))

	return it
}

func TestIterator_Version(t *testing.T) {
	var dit DecodeIterator
	require.Equal(t, VersionNotSupported, dit.SetBufferAndVersion(nil, 13, 0))

	var eit EncodeIterator
	require.Equal(t, VersionNotSupported, eit.SetBufferAndVersion(nil, 15, 0))

	require.Equal(t, Success, dit.SetBufferAndVersion(nil, MajorVersion, 0))
	require.Equal(t, MajorVersion, dit.MajorVersion())
}

func TestIterator_NestingLimit(t *testing.T) {
	it := newDecoder(t, []byte{0})
	require.Equal(t, Success, it.SetLevel(MaxNestingLevels))

	var child DecodeIterator
	require.Equal(t, IteratorOverrun, it.NestedIterator(&child, []byte{1}))

	require.Equal(t, Success, it.SetLevel(3))
	require.Equal(t, Success, it.NestedIterator(&child, []byte{1}))
	require.Equal(t, 4, child.Level())
	require.Equal(t, IteratorOverrun, it.SetLevel(MaxNestingLevels+1))
}

func TestFieldList_RoundTrip(t *testing.T) {
	enc := newEncoder(t, 256)
	fl := FieldList{Flags: FieldListHasInfo, DictionaryID: 1, FieldListNum: 77}
	require.Equal(t, Success, EncodeFieldListInit(enc, &fl, nil))

	bid, _ := AppendReal(nil, 10025, format.ExponentNeg2)
	entries := []FieldEntry{
		{FieldID: 22, EncData: bid},
		{FieldID: 3, EncData: []byte("IBM.N")},
		{FieldID: -5, EncData: nil},
	}
	for i := range entries {
		require.Equal(t, Success, EncodeFieldEntry(enc, &entries[i]))
	}
	require.Equal(t, Success, EncodeFieldListComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var got FieldList
	require.Equal(t, Success, DecodeFieldList(dec, &got, nil))
	require.Equal(t, uint16(1), got.DictionaryID)
	require.Equal(t, int16(77), got.FieldListNum)

	for _, want := range entries {
		var fe FieldEntry
		require.Equal(t, Success, DecodeFieldEntry(dec, &fe))
		require.Equal(t, want.FieldID, fe.FieldID)
		require.Equal(t, format.Unknown, fe.DataType)
		require.Equal(t, len(want.EncData), len(fe.EncData))
	}

	var fe FieldEntry
	require.Equal(t, EndOfContainer, DecodeFieldEntry(dec, &fe))
}

func TestFieldList_SetData(t *testing.T) {
	db := &LocalFieldSetDefDb{Definitions: []FieldSetDef{{
		SetID: 3,
		Entries: []FieldSetDefEntry{
			{FieldID: 22, DataType: format.Real},
			{FieldID: 25, DataType: format.Real},
		},
	}}}

	enc := newEncoder(t, 128)
	require.Equal(t, Success, EncodeFieldListInit(enc, &FieldList{Flags: FieldListHasSetData, SetID: 3}, db))

	bid, _ := AppendReal(nil, 100, format.ExponentNeg2)
	ask, _ := AppendReal(nil, 101, format.ExponentNeg2)

	require.Equal(t, InvalidArgument, EncodeFieldEntry(enc, &FieldEntry{FieldID: 25, EncData: ask}),
		"set entries must follow the definition order")
	require.Equal(t, Success, EncodeFieldEntry(enc, &FieldEntry{FieldID: 22, EncData: bid}))
	require.Equal(t, InvalidArgument, EncodeFieldListComplete(enc, true), "set data incomplete")
	require.Equal(t, Success, EncodeFieldEntry(enc, &FieldEntry{FieldID: 25, EncData: ask}))
	require.Equal(t, Success, EncodeFieldEntry(enc, &FieldEntry{FieldID: 6, EncData: AppendInt(nil, 9)}))
	require.Equal(t, Success, EncodeFieldListComplete(enc, true))

	data := enc.EncodedBytes()

	t.Run("with definitions", func(t *testing.T) {
		dec := newDecoder(t, data)
		var fl FieldList
		require.Equal(t, Success, DecodeFieldList(dec, &fl, db))
		require.Equal(t, uint16(3), fl.SetID)

		var fe FieldEntry
		require.Equal(t, Success, DecodeFieldEntry(dec, &fe))
		require.Equal(t, int16(22), fe.FieldID)
		require.Equal(t, format.Real, fe.DataType)

		require.Equal(t, Success, DecodeFieldEntry(dec, &fe))
		require.Equal(t, int16(25), fe.FieldID)

		require.Equal(t, Success, DecodeFieldEntry(dec, &fe))
		require.Equal(t, int16(6), fe.FieldID)
		require.Equal(t, format.Unknown, fe.DataType)

		require.Equal(t, EndOfContainer, DecodeFieldEntry(dec, &fe))
	})

	t.Run("without definitions", func(t *testing.T) {
		dec := newDecoder(t, data)
		var fl FieldList
		require.Equal(t, SetSkipped, DecodeFieldList(dec, &fl, nil))
	})
}

func TestElementList_RoundTrip(t *testing.T) {
	enc := newEncoder(t, 128)
	require.Equal(t, Success, EncodeElementListInit(enc, &ElementList{Flags: ElementListHasInfo, ElementListNum: 5}, nil))

	bid, _ := AppendReal(nil, 100, format.ExponentNeg2)
	require.Equal(t, Success, EncodeElementEntry(enc, &ElementEntry{Name: "BID", DataType: format.Real, EncData: bid}))
	require.Equal(t, Success, EncodeElementEntry(enc, &ElementEntry{Name: "NAME", DataType: format.Ascii, EncData: []byte("x")}))
	require.Equal(t, InvalidArgument, EncodeElementEntry(enc, &ElementEntry{Name: "", DataType: format.Ascii}))
	require.Equal(t, InvalidArgument, EncodeElementEntry(enc, &ElementEntry{Name: "BAD", DataType: format.Error}))
	require.Equal(t, Success, EncodeElementListComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var el ElementList
	require.Equal(t, Success, DecodeElementList(dec, &el, nil))
	require.Equal(t, int16(5), el.ElementListNum)

	var ee ElementEntry
	require.Equal(t, Success, DecodeElementEntry(dec, &ee))
	require.Equal(t, "BID", ee.Name)
	require.Equal(t, format.Real, ee.DataType)
	require.Equal(t, bid, ee.EncData)

	require.Equal(t, Success, DecodeElementEntry(dec, &ee))
	require.Equal(t, "NAME", ee.Name)
	require.Equal(t, EndOfContainer, DecodeElementEntry(dec, &ee))
}

func TestElementList_MessageEntriesUseMsgWireType(t *testing.T) {
	enc := newEncoder(t, 64)
	require.Equal(t, Success, EncodeElementListInit(enc, &ElementList{}, nil))
	require.Equal(t, Success, EncodeElementEntry(enc, &ElementEntry{
		Name: "MSG", DataType: format.UpdateMsg, EncData: []byte{MsgClassUpdate, 1},
	}))
	require.Equal(t, Success, EncodeElementListComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var el ElementList
	require.Equal(t, Success, DecodeElementList(dec, &el, nil))

	var ee ElementEntry
	require.Equal(t, Success, DecodeElementEntry(dec, &ee))
	require.Equal(t, format.Msg, ee.DataType)
}

func TestMap_RoundTrip(t *testing.T) {
	setDefs, st := AppendLocalFieldSetDefDb(nil, &LocalFieldSetDefDb{Definitions: []FieldSetDef{{
		SetID: 0, Entries: []FieldSetDefEntry{{FieldID: 22, DataType: format.Real}},
	}}})
	require.Equal(t, Success, st)

	enc := newEncoder(t, 256)
	m := Map{
		Flags:            MapHasKeyFieldID | MapHasTotalCountHint,
		KeyPrimitiveType: format.Ascii,
		ContainerType:    format.FieldList,
		KeyFieldID:       3,
		TotalCountHint:   2,
		EncSetDefs:       setDefs,
		EncSummaryData:   []byte{0x08, 0x00, 0x00},
	}
	require.Equal(t, Success, EncodeMapInit(enc, &m))
	require.Equal(t, Success, EncodeMapEntry(enc, &MapEntry{
		Action: format.MapAdd, EncKey: []byte("IBM"), PermData: []byte{1, 2}, EncData: []byte{0x08, 0, 0},
	}))
	require.Equal(t, Success, EncodeMapEntry(enc, &MapEntry{Action: format.MapDelete, EncKey: []byte("MSFT")}))
	require.Equal(t, InvalidArgument, EncodeMapEntry(enc, &MapEntry{Action: format.MapAdd}), "blank key")
	require.Equal(t, Success, EncodeMapComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var got Map
	require.Equal(t, Success, DecodeMap(dec, &got))
	require.Equal(t, format.Ascii, got.KeyPrimitiveType)
	require.Equal(t, format.FieldList, got.ContainerType)
	require.Equal(t, int16(3), got.KeyFieldID)
	require.Equal(t, uint32(2), got.TotalCountHint)
	require.Equal(t, setDefs, got.EncSetDefs)
	require.Equal(t, []byte{0x08, 0x00, 0x00}, got.EncSummaryData)

	var me MapEntry
	require.Equal(t, Success, DecodeMapEntry(dec, &me))
	require.Equal(t, format.MapAdd, me.Action)
	require.Equal(t, []byte("IBM"), me.EncKey)
	require.Equal(t, []byte{1, 2}, me.PermData)
	require.Equal(t, []byte{0x08, 0, 0}, me.EncData)

	require.Equal(t, Success, DecodeMapEntry(dec, &me))
	require.Equal(t, format.MapDelete, me.Action)
	require.Nil(t, me.EncData)
	require.Equal(t, EndOfContainer, DecodeMapEntry(dec, &me))

	var db LocalFieldSetDefDb
	require.Equal(t, Success, DecodeLocalFieldSetDefDb(got.EncSetDefs, &db))
	require.NotNil(t, db.Find(0))
}

func TestMap_InvalidTypes(t *testing.T) {
	enc := newEncoder(t, 64)
	require.Equal(t, InvalidArgument, EncodeMapInit(enc, &Map{KeyPrimitiveType: format.FieldList, ContainerType: format.FieldList}))
	require.Equal(t, InvalidArgument, EncodeMapInit(enc, &Map{KeyPrimitiveType: format.UInt, ContainerType: format.Real}))

	dec := newDecoder(t, []byte{0, byte(format.Map), byte(format.FieldList), 0, 0})
	var m Map
	require.Equal(t, UnsupportedDataType, DecodeMap(dec, &m))
}

func TestVector_RoundTrip(t *testing.T) {
	enc := newEncoder(t, 128)
	require.Equal(t, Success, EncodeVectorInit(enc, &Vector{Flags: VectorSupportsSorting, ContainerType: format.ElementList}))
	require.Equal(t, Success, EncodeVectorEntry(enc, &VectorEntry{Action: format.VectorSet, Index: 7, EncData: []byte{8, 0, 0}}))
	require.Equal(t, Success, EncodeVectorEntry(enc, &VectorEntry{Action: format.VectorClear, Index: 8, EncData: []byte{1}}))
	require.Equal(t, Success, EncodeVectorComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var v Vector
	require.Equal(t, Success, DecodeVector(dec, &v))
	require.NotZero(t, v.Flags&VectorSupportsSorting)

	var ve VectorEntry
	require.Equal(t, Success, DecodeVectorEntry(dec, &ve))
	require.Equal(t, uint32(7), ve.Index)
	require.Equal(t, []byte{8, 0, 0}, ve.EncData)

	require.Equal(t, Success, DecodeVectorEntry(dec, &ve))
	require.Equal(t, format.VectorClear, ve.Action)
	require.Nil(t, ve.EncData, "clear entries carry no data")
	require.Equal(t, EndOfContainer, DecodeVectorEntry(dec, &ve))
}

func TestSeries_RoundTrip(t *testing.T) {
	enc := newEncoder(t, 64)
	require.Equal(t, Success, EncodeSeriesInit(enc, &Series{Flags: SeriesHasTotalCountHint, TotalCountHint: 9, ContainerType: format.FieldList}))
	for i := range 3 {
		require.Equal(t, Success, EncodeSeriesEntry(enc, &SeriesEntry{EncData: []byte{byte(i)}}))
	}
	require.Equal(t, Success, EncodeSeriesComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var s Series
	require.Equal(t, Success, DecodeSeries(dec, &s))
	require.Equal(t, uint32(9), s.TotalCountHint)

	for i := range 3 {
		var se SeriesEntry
		require.Equal(t, Success, DecodeSeriesEntry(dec, &se))
		require.Equal(t, []byte{byte(i)}, se.EncData)
	}
	var se SeriesEntry
	require.Equal(t, EndOfContainer, DecodeSeriesEntry(dec, &se))
}

func TestFilterList_RoundTrip(t *testing.T) {
	enc := newEncoder(t, 64)
	require.Equal(t, Success, EncodeFilterListInit(enc, &FilterList{ContainerType: format.ElementList}))
	require.Equal(t, Success, EncodeFilterEntry(enc, &FilterEntry{Action: format.FilterSet, ID: 1, EncData: []byte{8, 0, 0}}))
	require.Equal(t, Success, EncodeFilterEntry(enc, &FilterEntry{
		Action: format.FilterUpdate, ID: 2, ContainerType: format.Map, PermData: []byte{9}, EncData: []byte{1, 2},
	}))
	require.Equal(t, Success, EncodeFilterEntry(enc, &FilterEntry{Action: format.FilterClear, ID: 3}))
	require.Equal(t, Success, EncodeFilterListComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var fl FilterList
	require.Equal(t, Success, DecodeFilterList(dec, &fl))
	require.Equal(t, format.ElementList, fl.ContainerType)

	var fe FilterEntry
	require.Equal(t, Success, DecodeFilterEntry(dec, &fe))
	require.Equal(t, uint8(1), fe.ID)
	require.Equal(t, format.Unknown, fe.ContainerType)

	require.Equal(t, Success, DecodeFilterEntry(dec, &fe))
	require.Equal(t, format.Map, fe.ContainerType)
	require.Equal(t, []byte{9}, fe.PermData)
	require.Equal(t, []byte{1, 2}, fe.EncData)

	require.Equal(t, Success, DecodeFilterEntry(dec, &fe))
	require.Equal(t, format.FilterClear, fe.Action)
	require.Equal(t, EndOfContainer, DecodeFilterEntry(dec, &fe))
}

func TestArray_RoundTrip(t *testing.T) {
	t.Run("variable width", func(t *testing.T) {
		enc := newEncoder(t, 64)
		require.Equal(t, Success, EncodeArrayInit(enc, &Array{PrimitiveType: format.Ascii}))
		for _, s := range []string{"a", "", "ccc"} {
			require.Equal(t, Success, EncodeArrayEntry(enc, &ArrayEntry{EncData: []byte(s)}))
		}
		require.Equal(t, Success, EncodeArrayComplete(enc, true))

		dec := newDecoder(t, enc.EncodedBytes())
		var a Array
		require.Equal(t, Success, DecodeArray(dec, &a))
		require.Equal(t, format.Ascii, a.PrimitiveType)

		for _, s := range []string{"a", "", "ccc"} {
			var ae ArrayEntry
			require.Equal(t, Success, DecodeArrayEntry(dec, &ae))
			require.Equal(t, s, string(ae.EncData))
		}
	})

	t.Run("fixed width", func(t *testing.T) {
		enc := newEncoder(t, 64)
		require.Equal(t, Success, EncodeArrayInit(enc, &Array{PrimitiveType: format.Int, ItemLength: 2}))
		item, ok := AppendIntFixed(nil, -300, 2)
		require.True(t, ok)
		require.Equal(t, Success, EncodeArrayEntry(enc, &ArrayEntry{EncData: item}))
		require.Equal(t, InvalidArgument, EncodeArrayEntry(enc, &ArrayEntry{EncData: []byte{1}}))
		require.Equal(t, Success, EncodeArrayComplete(enc, true))

		dec := newDecoder(t, enc.EncodedBytes())
		var a Array
		require.Equal(t, Success, DecodeArray(dec, &a))
		require.Equal(t, 2, a.ItemLength)

		var ae ArrayEntry
		require.Equal(t, Success, DecodeArrayEntry(dec, &ae))
		v, st := DecodeInt(ae.EncData)
		require.Equal(t, Success, st)
		require.Equal(t, int64(-300), v)
		require.Equal(t, EndOfContainer, DecodeArrayEntry(dec, &ae))
	})

	t.Run("invalid item length", func(t *testing.T) {
		enc := newEncoder(t, 64)
		require.Equal(t, InvalidArgument, EncodeArrayInit(enc, &Array{PrimitiveType: format.Real, ItemLength: 4}))
	})
}

func TestEncode_BufferTooSmallIsAtomic(t *testing.T) {
	enc := newEncoder(t, 8)
	require.Equal(t, Success, EncodeElementListInit(enc, &ElementList{}, nil))
	before := enc.Len()

	big := &ElementEntry{Name: "PAYLOAD", DataType: format.Buffer, EncData: make([]byte, 40)}
	require.Equal(t, BufferTooSmall, EncodeElementEntry(enc, big))
	require.Equal(t, before, enc.Len(), "nothing written on BufferTooSmall")

	require.Equal(t, BufferTooSmall, enc.Realign(make([]byte, before-1)))
	require.Equal(t, Success, enc.Realign(make([]byte, 128)))
	require.Equal(t, Success, EncodeElementEntry(enc, big))
	require.Equal(t, Success, EncodeElementListComplete(enc, true))

	dec := newDecoder(t, enc.EncodedBytes())
	var el ElementList
	require.Equal(t, Success, DecodeElementList(dec, &el, nil))

	var ee ElementEntry
	require.Equal(t, Success, DecodeElementEntry(dec, &ee))
	require.Equal(t, "PAYLOAD", ee.Name)
	require.Len(t, ee.EncData, 40)
	require.Equal(t, EndOfContainer, DecodeElementEntry(dec, &ee))
}

func TestEncode_CompleteRollback(t *testing.T) {
	enc := newEncoder(t, 64)
	require.Equal(t, Success, EncodeSeriesInit(enc, &Series{ContainerType: format.FieldList}))
	require.Equal(t, Success, EncodeSeriesEntry(enc, &SeriesEntry{EncData: []byte{1}}))
	require.Equal(t, Success, EncodeSeriesComplete(enc, false))
	require.Equal(t, 0, enc.Len())

	require.Equal(t, InvalidArgument, EncodeSeriesEntry(enc, &SeriesEntry{}), "no container in progress")
}

func TestDecode_Truncated(t *testing.T) {
	enc := newEncoder(t, 64)
	require.Equal(t, Success, EncodeFieldListInit(enc, &FieldList{}, nil))
	require.Equal(t, Success, EncodeFieldEntry(enc, &FieldEntry{FieldID: 1, EncData: []byte{1, 2, 3, 4}}))
	require.Equal(t, Success, EncodeFieldEntry(enc, &FieldEntry{FieldID: 2, EncData: []byte{5}}))
	require.Equal(t, Success, EncodeFieldListComplete(enc, true))

	data := enc.EncodedBytes()

	dec := newDecoder(t, data[:len(data)-2])
	var fl FieldList
	require.Equal(t, Success, DecodeFieldList(dec, &fl, nil))

	var fe FieldEntry
	require.Equal(t, Success, DecodeFieldEntry(dec, &fe))
	require.Equal(t, IncompleteData, DecodeFieldEntry(dec, &fe))
	require.Equal(t, EndOfContainer, DecodeFieldEntry(dec, &fe))

	dec = newDecoder(t, data[:2])
	require.Equal(t, IncompleteData, DecodeFieldList(dec, &fl, nil))

	dec = newDecoder(t, nil)
	require.Equal(t, NoData, DecodeFieldList(dec, &fl, nil))
	require.Equal(t, EndOfContainer, DecodeFieldEntry(dec, &fe))
}

func TestLocalElementSetDefDb_RoundTrip(t *testing.T) {
	db := &LocalElementSetDefDb{Definitions: []ElementSetDef{
		{SetID: 1, Entries: []ElementSetDefEntry{{Name: "BID", DataType: format.Real}, {Name: "ASK", DataType: format.Real}}},
		{SetID: 2, Entries: []ElementSetDefEntry{{Name: "NAME", DataType: format.Ascii}}},
	}}

	data, st := AppendLocalElementSetDefDb(nil, db)
	require.Equal(t, Success, st)

	var got LocalElementSetDefDb
	require.Equal(t, Success, DecodeLocalSetDefs(data, format.ElementList, nil, &got))
	require.Equal(t, db.Definitions, got.Definitions)

	require.Equal(t, UnsupportedDataType, DecodeLocalSetDefs(data, format.Map, nil, nil))
	require.Equal(t, IncompleteData, DecodeLocalElementSetDefDb(data[:len(data)-1], &got))

	_, st = AppendLocalElementSetDefDb(nil, &LocalElementSetDefDb{Definitions: []ElementSetDef{{SetID: 16, Entries: db.Definitions[0].Entries}}})
	require.Equal(t, InvalidArgument, st)
}
