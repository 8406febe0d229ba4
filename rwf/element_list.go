package rwf

import "github.com/arloliu/omm/format"

// ElementList header flags.
const (
	ElementListHasInfo         uint8 = 0x01
	ElementListHasSetData      uint8 = 0x02
	ElementListHasSetID        uint8 = 0x04
	ElementListHasStandardData uint8 = 0x08
)

// ElementList is the header of an ElementList container.
//
// Wire layout:
//
//	flags u8
//	[info: len u8, elementListNum u16]
//	[set data: setID u15rb (HasSetID), len u16, values lenob...]
//	[standard data: count u16, (name u15rb, type u8, lenob data)...]
type ElementList struct {
	Flags          uint8
	ElementListNum int16
	SetID          uint16
}

// ElementEntry is one decoded or to-be-encoded ElementList entry.
type ElementEntry struct {
	Name     string
	DataType format.DataType
	EncData  []byte
}

// DecodeElementList decodes an ElementList header. setDb resolves set data and
// may be nil when the container has none.
func DecodeElementList(it *DecodeIterator, el *ElementList, setDb *LocalElementSetDefDb) Status {
	if len(it.buf) == 0 {
		it.st = decodeState{kind: format.ElementList}
		return NoData
	}

	r := it.beginContainer(format.ElementList)
	*el = ElementList{Flags: r.u8()}

	if el.Flags&ElementListHasInfo != 0 {
		ir := reader{buf: r.bytes(int(r.u8()))}
		el.ElementListNum = int16(ir.u16()) //nolint:gosec
		if r.short || ir.short {
			return IncompleteData
		}
	}

	st := &it.st
	if el.Flags&ElementListHasSetData != 0 {
		if el.Flags&ElementListHasSetID != 0 {
			el.SetID = uint16(r.u15rb()) //nolint:gosec
		}
		setData := r.bytes(int(r.u16()))
		if r.short {
			return IncompleteData
		}

		def := setDb.Find(el.SetID)
		if def == nil {
			return SetSkipped
		}
		st.set = reader{buf: setData}
		st.elementSet = def
	}

	if el.Flags&ElementListHasStandardData != 0 {
		st.remaining = int(r.u16())
		st.hasStandard = true
	}

	if r.short {
		return IncompleteData
	}

	return Success
}

// DecodeElementEntry decodes the next entry: set-defined entries first, then
// standard entries. Returns EndOfContainer when none are left.
func DecodeElementEntry(it *DecodeIterator, ee *ElementEntry) Status {
	st := &it.st
	if st.kind != format.ElementList {
		return InvalidArgument
	}

	if st.elementSet != nil && st.setIdx < len(st.elementSet.Entries) {
		def := st.elementSet.Entries[st.setIdx]
		st.setIdx++

		data := st.set.lenobBytes()
		if st.set.short {
			st.setIdx = len(st.elementSet.Entries)
			return IncompleteData
		}
		*ee = ElementEntry{Name: def.Name, DataType: def.DataType, EncData: data}

		return Success
	}

	if st.remaining == 0 {
		return EndOfContainer
	}
	st.remaining--

	name := st.r.u15Bytes()
	t, ok := readType(&st.r)
	data := st.r.lenobBytes()
	if st.r.short {
		st.remaining = 0
		return IncompleteData
	}
	*ee = ElementEntry{Name: string(name), DataType: t, EncData: data}
	if !ok {
		return UnsupportedDataType
	}

	return Success
}

// EncodeElementListInit writes an ElementList header. el.Flags selects the info
// and set data parts; standard data is always declared.
func EncodeElementListInit(it *EncodeIterator, el *ElementList, setDb *LocalElementSetDefDb) Status {
	if it.st.kind != format.Unknown {
		return InvalidArgument
	}

	var def *ElementSetDef
	if el.Flags&ElementListHasSetData != 0 {
		if def = setDb.Find(el.SetID); def == nil || len(def.Entries) == 0 {
			return InvalidArgument
		}
	}

	flags := el.Flags | ElementListHasStandardData
	if def != nil && el.SetID != 0 {
		flags |= ElementListHasSetID
	} else {
		flags &^= ElementListHasSetID
	}

	start := it.pos
	w := it.begin()
	w.u8(flags)
	if flags&ElementListHasInfo != 0 {
		w.u8(2)
		w.u16(uint16(el.ElementListNum)) //nolint:gosec
	}

	setLenPos := 0
	if def != nil {
		if flags&ElementListHasSetID != 0 {
			w.u15rb(int(el.SetID))
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
		kind:       format.ElementList,
		start:      start,
		flags:      flags,
		countPos:   countPos,
		setLenPos:  setLenPos,
		elementSet: def,
		inSet:      def != nil,
	}

	return Success
}

// EncodeElementEntry writes one entry whose value is already encoded in
// ee.EncData. While a set definition is active the entries must follow it in
// order with matching names and types.
func EncodeElementEntry(it *EncodeIterator, ee *ElementEntry) Status {
	st := &it.st
	if st.kind != format.ElementList {
		return InvalidArgument
	}

	w := it.begin()
	if st.inSet {
		def := st.elementSet.Entries[st.setIdx]
		if def.Name != ee.Name || def.DataType != ee.DataType {
			return InvalidArgument
		}

		w.lenobBytes(ee.EncData)
		last := st.setIdx+1 == len(st.elementSet.Entries)
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

	wt, ok := wireType(ee.DataType)
	if !ok || ee.Name == "" || len(ee.Name) > MaxU15 || st.count == 0xFFFF {
		return InvalidArgument
	}

	w.u15rb(len(ee.Name))
	w.str(ee.Name)
	w.u8(wt)
	w.lenobBytes(ee.EncData)
	if status := it.commit(&w); status != Success {
		return status
	}
	st.count++

	return Success
}

// EncodeElementListComplete finishes the ElementList. With success false the
// container is rolled back to where EncodeElementListInit started.
func EncodeElementListComplete(it *EncodeIterator, success bool) Status {
	return completeCounted(it, format.ElementList, success, 2)
}
