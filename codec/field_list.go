package codec

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/arloliu/omm/dictionary"
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// FieldEntry is one field of a FieldList: a field id and its value.
type FieldEntry struct {
	entryBase
	fid   int16
	def   dictionary.FieldDef
	known bool
}

// FieldID returns the id of the field.
func (e *FieldEntry) FieldID() int16 { return e.fid }

// Name returns the dictionary acronym of the field, or "" when the field is
// not in the dictionary.
func (e *FieldEntry) Name() string { return e.def.Acronym }

// RippleTo returns the field the value ripples to, or 0.
func (e *FieldEntry) RippleTo() int16 { return e.def.RippleTo }

// EnumDisplay returns the display string of an Enum value.
func (e *FieldEntry) EnumDisplay() (string, bool) {
	v, ok := e.load.v.(*Enum)
	if !ok || !e.known || e.def.Enums == nil {
		return "", false
	}

	return e.def.Enums.Display(v.Value())
}

func (e *FieldEntry) clearKey(*Registry) {
	e.fid = 0
	e.def = dictionary.FieldDef{}
	e.known = false
}

func (e *FieldEntry) reset(reg *Registry) {
	e.load.release(reg)
	e.clearKey(reg)
}

func (r *Registry) releaseFieldEntry(e *FieldEntry) {
	putBack(r.fieldEntries, e, func() { e.reset(r) })
}

// FieldList is a list of fields keyed by field id. Standard entries are typed
// through a dictionary; entries covered by a local set definition carry the
// type of the definition.
//
// A FieldList is either decoded with Decode and read with Size, All and Entry,
// or built with the Add methods and Complete and read back with EncodedData.
type FieldList struct {
	containerBase
	hdr     rwf.FieldList
	rfe     rwf.FieldEntry
	entries entryList[*FieldEntry]

	setDb  *rwf.LocalFieldSetDefDb
	set    *rwf.FieldSetDef
	setIdx int
}

var _ container = (*FieldList)(nil)

// DataType returns format.FieldList.
func (c *FieldList) DataType() format.DataType { return format.FieldList }

// Decode attaches the FieldList to data and decodes its header. Entries are
// decoded on first access.
//
// Parameters:
//   - data: the encoded FieldList; it must stay unchanged while the list is used
//   - major, minor: wire version of data
//   - dict: resolves the types of standard entries; required
//   - defs: local set definitions in scope, may be nil
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded. The list then
//     holds one Error entry.
func (c *FieldList) Decode(data []byte, major, minor uint8, dict FieldDictionary, defs *SetDefinitions) error {
	return c.attach(data, decodeScope{major: major, minor: minor, dict: dict, defs: defs})
}

func (c *FieldList) attach(data []byte, scope decodeScope) error {
	c.resetBuild()
	c.beginDecode(data, scope)
	c.hdr = rwf.FieldList{}
	if scope.dict == nil {
		return c.fail(format.FieldList, format.NoDictionary)
	}
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.FieldList, code)
	}

	return c.headerDecoded(format.FieldList, rwf.DecodeFieldList(&c.it, &c.hdr, scope.defs.fields()))
}

func (c *FieldList) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.fieldEntries.Get, c.reg.releaseFieldEntry)
		return
	case phaseAttached:
	default:
		return
	}

	c.entries.rewind()
	for {
		st := rwf.DecodeFieldEntry(&c.it, &c.rfe)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.fieldEntries.Get)
		if st != rwf.Success {
			e.clearKey(c.reg)
			e.load.bindError(c.reg, entryCode(st), nil)

			continue
		}

		e.fid = c.rfe.FieldID
		e.def, e.known = c.scope.dict.FieldByID(e.fid)
		kind := c.rfe.DataType
		if kind == format.Unknown {
			if !e.known {
				e.load.bindError(c.reg, format.FieldIDNotFound, c.rfe.EncData)
				continue
			}
			kind = e.def.Type
		}
		decodeLoad(c.reg, &e.load, kind, c.rfe.EncData, c.scope.nested(nil))
	}

	c.entries.truncate(c.reg.releaseFieldEntry)
	c.phase = phaseFilled
}

// Size returns the number of entries, decoding them on first call.
func (c *FieldList) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the list has no entries.
func (c *FieldList) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the entries in wire order.
func (c *FieldList) All() iter.Seq[*FieldEntry] { return allOf(&c.entries, c.fill) }

// Entry returns entry i.
func (c *FieldList) Entry(i int) (*FieldEntry, error) {
	c.fill()
	return entryAt("FieldList.Entry", &c.entries, i)
}

// HasInfo reports whether the header carries a dictionary id and list number.
func (c *FieldList) HasInfo() bool { return c.hdr.Flags&rwf.FieldListHasInfo != 0 }

// DictionaryID returns the dictionary id of the header.
func (c *FieldList) DictionaryID() uint16 { return c.hdr.DictionaryID }

// FieldListNum returns the list number of the header.
func (c *FieldList) FieldListNum() int16 { return c.hdr.FieldListNum }

// Info sets the dictionary id and list number of the header.
func (c *FieldList) Info(dictionaryID uint16, fieldListNum int16) error {
	const op = "FieldList.Info"
	if err := c.checkHeader(op); err != nil {
		return err
	}
	if dictionaryID > rwf.MaxU15 {
		return outOfRange(op, "dictionary id", int(dictionaryID))
	}

	c.hdr.Flags |= rwf.FieldListHasInfo
	c.hdr.DictionaryID = dictionaryID
	c.hdr.FieldListNum = fieldListNum

	return nil
}

// UseSetDefinition makes the first entries follow set setID of db. They must
// be added in the order and with the types of the definition.
func (c *FieldList) UseSetDefinition(db *rwf.LocalFieldSetDefDb, setID uint16) error {
	const op = "FieldList.UseSetDefinition"
	if err := c.checkHeader(op); err != nil {
		return err
	}
	def := db.Find(setID)
	if def == nil || len(def.Entries) == 0 {
		return errs.New(errs.KindInvalidArgument, op, fmt.Sprintf("no field set definition %d", setID))
	}

	c.hdr.Flags |= rwf.FieldListHasSetData
	c.hdr.SetID = setID
	c.setDb = db
	c.set = def
	c.setIdx = 0

	return nil
}

func (c *FieldList) inSet() bool {
	return c.set != nil && c.setIdx < len(c.set.Entries)
}

func (c *FieldList) checkSetEntry(op string, fid int16, kind format.DataType) error {
	if !c.inSet() {
		return nil
	}

	want := c.set.Entries[c.setIdx]
	if want.FieldID != fid {
		return errs.New(errs.KindInvalidUsage, op,
			fmt.Sprintf("set definition %d expects field %d, got %d", c.set.SetID, want.FieldID, fid))
	}
	if want.DataType != kind {
		return errs.New(errs.KindInvalidOperation, op,
			fmt.Sprintf("set definition %d declares field %d as %s, got %s", c.set.SetID, fid, want.DataType, kind))
	}

	return nil
}

func (c *FieldList) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeFieldListInit(it, &c.hdr, c.setDb)
}

func (c *FieldList) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeFieldEntry(it, &c.rfe)
}

func (c *FieldList) add(op string, fid int16, kind format.DataType, payload func() ([]byte, error)) error {
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if err := c.checkSetEntry(op, fid, kind); err != nil {
		return err
	}

	data, err := payload()
	if err != nil {
		return err
	}

	if c.phase == phaseIdle {
		if err := c.startEncode(op, c.encodeInit); err != nil {
			return err
		}
	}

	c.rfe = rwf.FieldEntry{FieldID: fid, DataType: kind, EncData: data}
	if err := c.enc.run(c.reg, op, c.encodeEntry); err != nil {
		return err
	}
	if c.inSet() {
		c.setIdx++
	}

	return nil
}

func (c *FieldList) addPrimitive(op string, fid int16, kind format.DataType, fn appendFunc) error {
	return c.add(op, fid, kind, func() ([]byte, error) { return c.enc.primitive(fn) })
}

func (c *FieldList) addValue(op string, fid int16, v Value) error {
	kind, err := valueKind(op, v)
	if err != nil {
		return err
	}

	return c.add(op, fid, kind, func() ([]byte, error) { return c.enc.value(op, v) })
}

// AddInt adds an Int field.
func (c *FieldList) AddInt(fid int16, v int64) error {
	return c.addPrimitive("FieldList.AddInt", fid, format.Int, intBytes(v))
}

// AddUInt adds a UInt field.
func (c *FieldList) AddUInt(fid int16, v uint64) error {
	return c.addPrimitive("FieldList.AddUInt", fid, format.UInt, uintBytes(v))
}

// AddFloat adds a Float field.
func (c *FieldList) AddFloat(fid int16, v float32) error {
	return c.addPrimitive("FieldList.AddFloat", fid, format.Float, floatBytes(v))
}

// AddDouble adds a Double field.
func (c *FieldList) AddDouble(fid int16, v float64) error {
	return c.addPrimitive("FieldList.AddDouble", fid, format.Double, doubleBytes(v))
}

// AddReal adds a Real field from a mantissa and magnitude type.
func (c *FieldList) AddReal(fid int16, mantissa int64, hint format.MagnitudeType) error {
	const op = "FieldList.AddReal"
	return c.addPrimitive(op, fid, format.Real, realBytes(op, mantissa, hint))
}

// AddRealFromDouble adds a Real field converted from v with hint.
func (c *FieldList) AddRealFromDouble(fid int16, v float64, hint format.MagnitudeType) error {
	const op = "FieldList.AddRealFromDouble"
	return c.addPrimitive(op, fid, format.Real, realFromDoubleBytes(op, v, hint))
}

// AddDate adds a Date field.
func (c *FieldList) AddDate(fid int16, year, month, day int) error {
	const op = "FieldList.AddDate"
	return c.addPrimitive(op, fid, format.Date, dateBytes(op, year, month, day))
}

// AddTime adds a Time field.
func (c *FieldList) AddTime(fid int16, hour, minute, second, milli, micro, nano int) error {
	const op = "FieldList.AddTime"
	return c.addPrimitive(op, fid, format.Time, timeBytes(op, hour, minute, second, milli, micro, nano))
}

// AddDateTime adds a DateTime field holding t in UTC.
func (c *FieldList) AddDateTime(fid int16, t time.Time) error {
	const op = "FieldList.AddDateTime"
	return c.addPrimitive(op, fid, format.DateTime, dateTimeBytes(op, t))
}

// AddQos adds a Qos field.
func (c *FieldList) AddQos(fid int16, q rwf.Qos) error {
	const op = "FieldList.AddQos"
	return c.addPrimitive(op, fid, format.Qos, qosBytes(op, q))
}

// AddState adds a State field.
func (c *FieldList) AddState(fid int16, stream format.StreamState, data format.DataState, code format.StatusCode, text string) error {
	const op = "FieldList.AddState"
	return c.addPrimitive(op, fid, format.State, stateBytes(op, stream, data, code, text))
}

// AddEnum adds an Enum field.
func (c *FieldList) AddEnum(fid int16, v uint16) error {
	return c.addPrimitive("FieldList.AddEnum", fid, format.Enum, enumBytes(v))
}

// AddBuffer adds a Buffer field.
func (c *FieldList) AddBuffer(fid int16, v []byte) error {
	return c.addPrimitive("FieldList.AddBuffer", fid, format.Buffer, rawBytes(v))
}

// AddAscii adds an Ascii field.
func (c *FieldList) AddAscii(fid int16, v string) error {
	return c.addPrimitive("FieldList.AddAscii", fid, format.Ascii, stringBytes(v))
}

// AddUtf8 adds a Utf8 field.
func (c *FieldList) AddUtf8(fid int16, v string) error {
	return c.addPrimitive("FieldList.AddUtf8", fid, format.Utf8, stringBytes(v))
}

// AddRmtes adds an Rmtes field.
func (c *FieldList) AddRmtes(fid int16, v []byte) error {
	return c.addPrimitive("FieldList.AddRmtes", fid, format.Rmtes, rawBytes(v))
}

// AddBlank adds a blank field of primitive kind.
func (c *FieldList) AddBlank(fid int16, kind format.DataType) error {
	const op = "FieldList.AddBlank"
	return c.addPrimitive(op, fid, kind, blankBytes(op, kind))
}

// AddArray adds an Array field.
func (c *FieldList) AddArray(fid int16, v *Array) error {
	if v == nil {
		return nilValue("FieldList.AddArray")
	}

	return c.addValue("FieldList.AddArray", fid, v)
}

// AddFieldList adds a nested FieldList. v must be complete or idle.
func (c *FieldList) AddFieldList(fid int16, v *FieldList) error {
	if v == nil {
		return nilValue("FieldList.AddFieldList")
	}

	return c.addValue("FieldList.AddFieldList", fid, v)
}

// AddElementList adds a nested ElementList.
func (c *FieldList) AddElementList(fid int16, v *ElementList) error {
	if v == nil {
		return nilValue("FieldList.AddElementList")
	}

	return c.addValue("FieldList.AddElementList", fid, v)
}

// AddMap adds a nested Map.
func (c *FieldList) AddMap(fid int16, v *Map) error {
	if v == nil {
		return nilValue("FieldList.AddMap")
	}

	return c.addValue("FieldList.AddMap", fid, v)
}

// AddVector adds a nested Vector.
func (c *FieldList) AddVector(fid int16, v *Vector) error {
	if v == nil {
		return nilValue("FieldList.AddVector")
	}

	return c.addValue("FieldList.AddVector", fid, v)
}

// AddSeries adds a nested Series.
func (c *FieldList) AddSeries(fid int16, v *Series) error {
	if v == nil {
		return nilValue("FieldList.AddSeries")
	}

	return c.addValue("FieldList.AddSeries", fid, v)
}

// AddFilterList adds a nested FilterList.
func (c *FieldList) AddFilterList(fid int16, v *FilterList) error {
	if v == nil {
		return nilValue("FieldList.AddFilterList")
	}

	return c.addValue("FieldList.AddFilterList", fid, v)
}

// AddOpaque adds an already encoded blob of kind: Opaque, Xml, AnsiPage, Json
// or a message kind.
func (c *FieldList) AddOpaque(fid int16, kind format.DataType, data []byte) error {
	const op = "FieldList.AddOpaque"
	if !kind.IsBlob() {
		return errs.New(errs.KindInvalidArgument, op, "not a blob kind: "+kind.String())
	}

	return c.addPrimitive(op, fid, kind, rawBytes(data))
}

// Add adds v as field fid.
func (c *FieldList) Add(fid int16, v Value) error {
	return c.addValue("FieldList.Add", fid, v)
}

// Complete finishes a build. Completing a finished build is a no-op.
//
// Returns:
//   - error: errs.ErrInvalidUsage for a decoded list or unfinished set data
func (c *FieldList) Complete() error {
	const op = "FieldList.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.inSet() {
		return errs.New(errs.KindInvalidUsage, op,
			fmt.Sprintf("set data incomplete: %d of %d fields", c.setIdx, len(c.set.Entries)))
	}
	if c.phase == phaseIdle {
		if err := c.startEncode(op, c.encodeInit); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeFieldListComplete)
}

// EncodedData returns the wire form: the decoded source, or the built bytes
// after completing the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *FieldList) EncodedData() []byte {
	return c.encodedData(format.FieldList, c.Complete)
}

func (c *FieldList) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *FieldList) String() string {
	return c.stringOf(format.FieldList, c.render)
}

func (c *FieldList) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("FieldList")
	if c.code == format.NoError && c.HasInfo() {
		w.attr("FieldListNum", strconv.Itoa(int(c.hdr.FieldListNum))).
			attr("DictionaryId", strconv.Itoa(int(c.hdr.DictionaryID)))
	}
	w.nl()

	if c.code != format.NoError {
		for _, e := range c.entries.items {
			renderFailure(w, indent+1, e.load.v)
		}
	} else {
		for _, e := range c.entries.items {
			w.indent(indent+1).str("FieldEntry").
				attr("fid", strconv.Itoa(int(e.fid))).
				attr("name", e.Name())
			renderLoad(w, indent+1, e.load.v, "FieldEntryEnd")
		}
	}

	w.indent(indent).str("FieldListEnd").nl()
}

func (c *FieldList) resetBuild() {
	c.setDb = nil
	c.set = nil
	c.setIdx = 0
}

// Clear releases every entry and load and returns the list to its empty state.
func (c *FieldList) Clear() {
	c.entries.clear(c.reg.releaseFieldEntry)
	c.resetBase()
	c.resetBuild()
	c.hdr = rwf.FieldList{}
	c.rfe = rwf.FieldEntry{}
}

// ReturnToPool clears the list and releases it to its registry.
// It does nothing when the list is the load of an entry; such a
// list returns to the pool with the container holding it.
func (c *FieldList) ReturnToPool() { c.returnToPool(c) }
