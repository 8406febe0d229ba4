package rwf

import "github.com/arloliu/omm/format"

// FieldList header flags.
const (
	FieldListHasInfo         uint8 = 0x01
	FieldListHasSetData      uint8 = 0x02
	FieldListHasSetID        uint8 = 0x04
	FieldListHasStandardData uint8 = 0x08
)

// FieldList is the header of a FieldList container.
//
// Wire layout:
//
//	flags u8
//	[info: len u8, dictionaryID u15rb, fieldListNum u16]
//	[set data: setID u15rb (HasSetID), len u16, values lenob...]
//	[standard data: count u16, (fieldID u16, lenob data)...]
type FieldList struct {
	Flags        uint8
	DictionaryID uint16
	FieldListNum int16
	SetID        uint16
}

// FieldEntry is one decoded or to-be-encoded FieldList entry.
//
// Entries decoded from set data carry the DataType of their set definition;
// standard entries carry format.Unknown and are typed through the dictionary.
type FieldEntry struct {
	FieldID  int16
	DataType format.DataType
	EncData  []byte
}

// DecodeFieldList decodes a FieldList header. setDb resolves set data and may be
// nil when the container has none.
//
// Returns NoData for an empty buffer and SetSkipped when set data references a
// definition missing from setDb.
func DecodeFieldList(it *DecodeIterator, fl *FieldList, setDb *LocalFieldSetDefDb) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.FieldList}
		return NoData
	}

	r := it.beginContainer(format.FieldList)
	*fl = FieldList{Flags: r.u8()}

	if fl.Flags&FieldListHasInfo != 0 {
		ir := reader{buf: r.bytes(int(r.u8()))}
		fl.DictionaryID = uint16(ir.u15rb()) //nolint:gosec
		fl.FieldListNum = int16(ir.u16())    //nolint:gosec
		if r.short || ir.short {
			return IncompleteData
		}
	}

	st := &it.st
	if fl.Flags&FieldListHasSetData != 0 {
		if fl.Flags&FieldListHasSetID != 0 {
			fl.SetID = uint16(r.u15rb()) //nolint:gosec
		}
		setData := r.bytes(int(r.u16()))
		if r.short {
			return IncompleteData
		}

		def := setDb.Find(fl.SetID)
		if def == nil {
			return SetSkipped
		}
		st.set = reader{buf: setData}
		st.fieldSet = def
	}

	if fl.Flags&FieldListHasStandardData != 0 {
		st.remaining = int(r.u16())
		st.hasStandard = true
	}

	if r.short {
		return IncompleteData
	}

	return Success
}

// DecodeFieldEntry decodes the next entry: set-defined entries first, then
// standard entries. Returns EndOfContainer when none are left.
func DecodeFieldEntry(it *DecodeIterator, fe *FieldEntry) Status {
	st := &it.st
	if st.kind != format.FieldList {
		return InvalidArgument
	}

	if st.fieldSet != nil && st.setIdx < len(st.fieldSet.Entries) {
		def := st.fieldSet.Entries[st.setIdx]
		st.setIdx++

		data := st.set.lenobBytes()
		if st.set.short {
			st.setIdx = len(st.fieldSet.Entries)
			return IncompleteData
		}
		*fe = FieldEntry{FieldID: def.FieldID, DataType: def.DataType, EncData: data}

		return Success
	}

	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	fid := int16(st.r.u16()) //nolint:gosec
	data := st.r.lenobBytes()
	if st.r.short {
		st.remaining = 0
		return IncompleteData
	}
	*fe = FieldEntry{FieldID: fid, EncData: data}

	return Success
}

// EncodeFieldListInit writes a FieldList header. fl.Flags selects the info and
// set data parts; standard data is always declared.
//
// Returns InvalidArgument when set data is requested without a matching
// definition in setDb.
func EncodeFieldListInit(it *EncodeIterator, fl *FieldList, setDb *LocalFieldSetDefDb) Status {
	if it.st.kind != format.Unknown {
		return InvalidArgument
	}

	var def *FieldSetDef
	if fl.Flags&FieldListHasSetData != 0 {
		if def = setDb.Find(fl.SetID); def == nil || len(def.Entries) == 0 {
			return InvalidArgument
		}
	}
	if fl.Flags&FieldListHasInfo != 0 && fl.DictionaryID > MaxU15 {
		return InvalidArgument
	}

	flags := fl.Flags | FieldListHasStandardData
	if def != nil && fl.SetID != 0 {
		flags |= FieldListHasSetID
	} else {
		flags &^= FieldListHasSetID
	}

	start := it.pos
	w := it.begin()
	w.u8(flags)
	if flags&FieldListHasInfo != 0 {
		w.u8(uint8(u15Size(int(fl.DictionaryID)) + 2))
		w.u15rb(int(fl.DictionaryID))
		w.u16(uint16(fl.FieldListNum)) //nolint:gosec
	}

	setLenPos := 0
	if def != nil {
		if flags&FieldListHasSetID != 0 {
			w.u15rb(int(fl.SetID))
		}
		setLenPos = w.pos
		w.u16(0)
	}

	countPos := w.pos
	if def == nil {
		w.u16(0)
	}

	if st := it.commit(&w); st != Success {
		return st
	}

	it.st = encodeState{
		kind:      format.FieldList,
		flags:     flags,
		countPos:  countPos,
		setLenPos: setLenPos,
		fieldSet:  def,
		inSet:     def != nil,
		start:     start,
	}

	return Success
}

// EncodeFieldEntry writes one entry whose value is already encoded in fe.EncData.
// While a set definition is active the entries must follow it in order.
func EncodeFieldEntry(it *EncodeIterator, fe *FieldEntry) Status {
	st := &it.st
	if st.kind != format.FieldList {
		return InvalidArgument
	}

	w := it.begin()
	if st.inSet {
		def := st.fieldSet.Entries[st.setIdx]
		if def.FieldID != fe.FieldID {
			return InvalidArgument
		}

		w.lenobBytes(fe.EncData)
		last := st.setIdx+1 == len(st.fieldSet.Entries)
		if last {
			setLen := w.pos - st.setLenPos - 2
			if setLen > 0xFFFF {
				return InvalidData
			}
			countPos := w.pos
			w.u16(0)
			if w.short {
				return BufferTooSmall
			}
			engine.PutUint16(w.buf[st.setLenPos:], uint16(setLen))
			st.countPos = countPos
		}

		if status := it.commit(&w); status != Success {
			return status
		}
		st.setIdx++
		st.inSet = !last

		return Success
	}

	if st.count == 0xFFFF {
		return InvalidArgument
	}

	w.u16(uint16(fe.FieldID)) //nolint:gosec
	w.lenobBytes(fe.EncData)
	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeFieldListComplete finishes the FieldList. With success false the
// container is rolled back to where EncodeFieldListInit started.
func EncodeFieldListComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.FieldList, success, 2)
}

// completeCounted patches the entry count of a container whose count field
// has countWidth bytes and resets the encode state.
func completeCounted(it *EncodeIterator, kind format.DataType, success bool, countWidth int) Status {
	st := &it.st
	if st.kind != kind {
		return InvalidArgument
	}

	if !success {
		it.pos = st.start
		it.st = encodeState{}

		return Success
	}

	if st.inSet {
		return InvalidArgument
	}

	switch countWidth {
	case 1:
		it.buf[st.countPos] = uint8(st.count)
	default:
		engine.PutUint16(it.buf[st.countPos:], uint16(st.count)) //nolint:gosec
	}
	it.st = encodeState{}

	return Success
}
