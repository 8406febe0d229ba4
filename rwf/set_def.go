package rwf

import "github.com/arloliu/omm/format"

// FieldSetDefEntry is one field of a field set definition.
type FieldSetDefEntry struct {
	FieldID  int16
	DataType format.DataType
}

// FieldSetDef lists the fields, in order, whose values a FieldList carries in
// its set data.
type FieldSetDef struct {
	SetID   uint16
	Entries []FieldSetDefEntry
}

// LocalFieldSetDefDb is a table of field set definitions declared in the
// header of a Map, Vector or Series and used by its FieldList entries.
type LocalFieldSetDefDb struct {
	Definitions []FieldSetDef
}

// Find returns the definition with setID, or nil.
func (db *LocalFieldSetDefDb) Find(setID uint16) *FieldSetDef {
	if db == nil {
		return nil
	}

	for i := range db.Definitions {
		if db.Definitions[i].SetID == setID {
			return &db.Definitions[i]
		}
	}

	return nil
}

// Clear empties the table and keeps its storage.
func (db *LocalFieldSetDefDb) Clear() {
	db.Definitions = db.Definitions[:0]
}

// ElementSetDefEntry is one element of an element set definition.
type ElementSetDefEntry struct {
	Name     string
	DataType format.DataType
}

// ElementSetDef lists the elements, in order, whose values an ElementList
// carries in its set data.
type ElementSetDef struct {
	SetID   uint16
	Entries []ElementSetDefEntry
}

// LocalElementSetDefDb is a table of element set definitions.
type LocalElementSetDefDb struct {
	Definitions []ElementSetDef
}

// Find returns the definition with setID, or nil.
func (db *LocalElementSetDefDb) Find(setID uint16) *ElementSetDef {
	if db == nil {
		return nil
	}

	for i := range db.Definitions {
		if db.Definitions[i].SetID == setID {
			return &db.Definitions[i]
		}
	}

	return nil
}

// Clear empties the table and keeps its storage.
func (db *LocalElementSetDefDb) Clear() {
	db.Definitions = db.Definitions[:0]
}

func validSetEntryType(t format.DataType) bool {
	return t.IsPrimitive()
}

// AppendLocalFieldSetDefDb appends the wire form of db:
// a count byte, then per set its u15rb id, an entry count and the
// (field id, type) pairs.
func AppendLocalFieldSetDefDb(dst []byte, db *LocalFieldSetDefDb) ([]byte, Status) {
	if db == nil || len(db.Definitions) == 0 || len(db.Definitions) > MaxLocalSetID+1 {
		return dst, InvalidArgument
	}

	dst = append(dst, uint8(len(db.Definitions)))
	for _, def := range db.Definitions {
		if def.SetID > MaxLocalSetID || len(def.Entries) == 0 || len(def.Entries) > 0xFF {
			return dst, InvalidArgument
		}

		dst = append(dst, uint8(def.SetID), uint8(len(def.Entries)))
		for _, e := range def.Entries {
			if !validSetEntryType(e.DataType) {
				return dst, InvalidArgument
			}
			dst = engine.AppendUint16(dst, uint16(e.FieldID)) //nolint:gosec
			dst = append(dst, uint8(e.DataType))
		}
	}

	return dst, Success
}

// DecodeLocalFieldSetDefDb decodes data into db, replacing its definitions.
func DecodeLocalFieldSetDefDb(data []byte, db *LocalFieldSetDefDb) Status {
	db.Clear()

	r := reader{buf: data}
	count := int(r.u8())
	for range count {
		def := FieldSetDef{SetID: uint16(r.u15rb())} //nolint:gosec
		n := int(r.u8())
		if r.short || def.SetID > MaxLocalSetID {
			return InvalidData
		}

		def.Entries = make([]FieldSetDefEntry, 0, n)
		for range n {
			fid := int16(r.u16()) //nolint:gosec
			t, _ := readType(&r)
			if !validSetEntryType(t) {
				if r.short {
					return IncompleteData
				}

				return UnsupportedDataType
			}
			def.Entries = append(def.Entries, FieldSetDefEntry{FieldID: fid, DataType: t})
		}
		db.Definitions = append(db.Definitions, def)
	}

	if r.short {
		return IncompleteData
	}

	return Success
}

// AppendLocalElementSetDefDb appends the wire form of db: like the field form
// with (u15rb name, type) pairs.
func AppendLocalElementSetDefDb(dst []byte, db *LocalElementSetDefDb) ([]byte, Status) {
	if db == nil || len(db.Definitions) == 0 || len(db.Definitions) > MaxLocalSetID+1 {
		return dst, InvalidArgument
	}

	dst = append(dst, uint8(len(db.Definitions)))
	for _, def := range db.Definitions {
		if def.SetID > MaxLocalSetID || len(def.Entries) == 0 || len(def.Entries) > 0xFF {
			return dst, InvalidArgument
		}

		dst = append(dst, uint8(def.SetID), uint8(len(def.Entries)))
		for _, e := range def.Entries {
			if e.Name == "" || len(e.Name) > MaxU15 || !validSetEntryType(e.DataType) {
				return dst, InvalidArgument
			}
			w := writer{buf: make([]byte, u15Size(len(e.Name)))}
			w.u15rb(len(e.Name))
			dst = append(dst, w.buf...)
			dst = append(dst, e.Name...)
			dst = append(dst, uint8(e.DataType))
		}
	}

	return dst, Success
}

// DecodeLocalElementSetDefDb decodes data into db, replacing its definitions.
func DecodeLocalElementSetDefDb(data []byte, db *LocalElementSetDefDb) Status {
	db.Clear()

	r := reader{buf: data}
	count := int(r.u8())
	for range count {
		def := ElementSetDef{SetID: uint16(r.u15rb())} //nolint:gosec
		n := int(r.u8())
		if r.short || def.SetID > MaxLocalSetID {
			return InvalidData
		}

		def.Entries = make([]ElementSetDefEntry, 0, n)
		for range n {
			name := r.u15Bytes()
			t, _ := readType(&r)
			if !validSetEntryType(t) {
				if r.short {
					return IncompleteData
				}

				return UnsupportedDataType
			}
			def.Entries = append(def.Entries, ElementSetDefEntry{Name: string(name), DataType: t})
		}
		db.Definitions = append(db.Definitions, def)
	}

	if r.short {
		return IncompleteData
	}

	return Success
}

// DecodeLocalSetDefs decodes set definitions declared for containerType.
// Only FieldList and ElementList entries use set definitions; any other
// containerType returns UnsupportedDataType.
func DecodeLocalSetDefs(data []byte, containerType format.DataType,
	fields *LocalFieldSetDefDb, elements *LocalElementSetDefDb,
) Status {
	switch containerType { //nolint:exhaustive
	case format.FieldList:
		return DecodeLocalFieldSetDefDb(data, fields)
	case format.ElementList:
		return DecodeLocalElementSetDefDb(data, elements)
	default:
		return UnsupportedDataType
	}
}
