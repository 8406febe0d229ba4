package codec

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// ElementEntry is one element of an ElementList: a name and a typed value.
type ElementEntry struct {
	entryBase
	name string
}

// Name returns the element name.
func (e *ElementEntry) Name() string { return e.name }

func (e *ElementEntry) clearKey(*Registry) {
	e.name = ""
}

func (e *ElementEntry) reset(reg *Registry) {
	e.load.release(reg)
	e.clearKey(reg)
}

func (r *Registry) releaseElementEntry(e *ElementEntry) {
	putBack(r.elementEntries, e, func() { e.reset(r) })
}

// ElementList is a list of named, self-typed elements.
//
// Like FieldList it is either decoded and read, or built and encoded.
type ElementList struct {
	containerBase
	hdr     rwf.ElementList
	ree     rwf.ElementEntry
	entries entryList[*ElementEntry]

	setDb  *rwf.LocalElementSetDefDb
	set    *rwf.ElementSetDef
	setIdx int
}

var _ container = (*ElementList)(nil)

// DataType returns format.ElementList.
func (c *ElementList) DataType() format.DataType { return format.ElementList }

// Decode attaches the ElementList to data and decodes its header. dict is only
// used by nested FieldLists and may be nil; defs may be nil.
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded
func (c *ElementList) Decode(data []byte, major, minor uint8, dict FieldDictionary, defs *SetDefinitions) error {
	return c.attach(data, decodeScope{major: major, minor: minor, dict: dict, defs: defs})
}

func (c *ElementList) attach(data []byte, scope decodeScope) error {
	c.resetBuild()
	c.beginDecode(data, scope)
	c.hdr = rwf.ElementList{}
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.ElementList, code)
	}

	return c.headerDecoded(format.ElementList, rwf.DecodeElementList(&c.it, &c.hdr, scope.defs.elements()))
}

func (c *ElementList) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.elementEntries.Get, c.reg.releaseElementEntry)
		return
	case phaseAttached:
	default:
		return
	}

	c.entries.rewind()
	for {
		st := rwf.DecodeElementEntry(&c.it, &c.ree)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.elementEntries.Get)
		switch st { //nolint:exhaustive
		case rwf.Success:
			e.name = c.ree.Name
			decodeLoad(c.reg, &e.load, c.ree.DataType, c.ree.EncData, c.scope.nested(nil))
		case rwf.UnsupportedDataType:
			e.name = c.ree.Name
			e.load.bindError(c.reg, format.UnsupportedDataType, c.ree.EncData)
		default:
			e.clearKey(c.reg)
			e.load.bindError(c.reg, entryCode(st), nil)
		}
	}

	c.entries.truncate(c.reg.releaseElementEntry)
	c.phase = phaseFilled
}

// Size returns the number of entries, decoding them on first call.
func (c *ElementList) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the list has no entries.
func (c *ElementList) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the entries in wire order.
func (c *ElementList) All() iter.Seq[*ElementEntry] { return allOf(&c.entries, c.fill) }

// Entry returns entry i.
func (c *ElementList) Entry(i int) (*ElementEntry, error) {
	c.fill()
	return entryAt("ElementList.Entry", &c.entries, i)
}

// Find returns the first entry named name.
func (c *ElementList) Find(name string) (*ElementEntry, bool) {
	c.fill()
	for _, e := range c.entries.items {
		if e.name == name {
			return e, true
		}
	}

	return nil, false
}

// HasInfo reports whether the header carries a list number.
func (c *ElementList) HasInfo() bool { return c.hdr.Flags&rwf.ElementListHasInfo != 0 }

// ElementListNum returns the list number of the header.
func (c *ElementList) ElementListNum() int16 { return c.hdr.ElementListNum }

// Info sets the list number of the header.
func (c *ElementList) Info(elementListNum int16) error {
	if err := c.checkHeader("ElementList.Info"); err != nil {
		return err
	}
	c.hdr.Flags |= rwf.ElementListHasInfo
	c.hdr.ElementListNum = elementListNum

	return nil
}

// UseSetDefinition makes the first entries follow set setID of db.
func (c *ElementList) UseSetDefinition(db *rwf.LocalElementSetDefDb, setID uint16) error {
	const op = "ElementList.UseSetDefinition"
	if err := c.checkHeader(op); err != nil {
		return err
	}
	def := db.Find(setID)
	if def == nil || len(def.Entries) == 0 {
		return errs.New(errs.KindInvalidArgument, op, fmt.Sprintf("no element set definition %d", setID))
	}

	c.hdr.Flags |= rwf.ElementListHasSetData
	c.hdr.SetID = setID
	c.setDb = db
	c.set = def
	c.setIdx = 0

	return nil
}

func (c *ElementList) inSet() bool {
	return c.set != nil && c.setIdx < len(c.set.Entries)
}

func (c *ElementList) checkEntry(op string, name string, kind format.DataType) error {
	if !c.inSet() {
		if name == "" || len(name) > rwf.MaxU15 {
			return errs.New(errs.KindInvalidArgument, op, "element name must be 1 to 32767 bytes")
		}

		return nil
	}

	want := c.set.Entries[c.setIdx]
	if want.Name != name {
		return errs.New(errs.KindInvalidUsage, op,
			fmt.Sprintf("set definition %d expects element %q, got %q", c.set.SetID, want.Name, name))
	}
	if want.DataType != kind {
		return errs.New(errs.KindInvalidOperation, op,
			fmt.Sprintf("set definition %d declares %q as %s, got %s", c.set.SetID, name, want.DataType, kind))
	}

	return nil
}

func (c *ElementList) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeElementListInit(it, &c.hdr, c.setDb)
}

func (c *ElementList) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeElementEntry(it, &c.ree)
}

func (c *ElementList) add(op string, name string, kind format.DataType, payload func() ([]byte, error)) error {
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if err := c.checkEntry(op, name, kind); err != nil {
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

	c.ree = rwf.ElementEntry{Name: name, DataType: kind, EncData: data}
	if err := c.enc.run(c.reg, op, c.encodeEntry); err != nil {
		return err
	}
	if c.inSet() {
		c.setIdx++
	}

	return nil
}

func (c *ElementList) addPrimitive(op string, name string, kind format.DataType, fn appendFunc) error {
	return c.add(op, name, kind, func() ([]byte, error) { return c.enc.primitive(fn) })
}

func (c *ElementList) addValue(op string, name string, v Value) error {
	kind, err := valueKind(op, v)
	if err != nil {
		return err
	}

	return c.add(op, name, kind, func() ([]byte, error) { return c.enc.value(op, v) })
}

// AddInt adds an Int element.
func (c *ElementList) AddInt(name string, v int64) error {
	return c.addPrimitive("ElementList.AddInt", name, format.Int, intBytes(v))
}

// AddUInt adds a UInt element.
func (c *ElementList) AddUInt(name string, v uint64) error {
	return c.addPrimitive("ElementList.AddUInt", name, format.UInt, uintBytes(v))
}

// AddFloat adds a Float element.
func (c *ElementList) AddFloat(name string, v float32) error {
	return c.addPrimitive("ElementList.AddFloat", name, format.Float, floatBytes(v))
}

// AddDouble adds a Double element.
func (c *ElementList) AddDouble(name string, v float64) error {
	return c.addPrimitive("ElementList.AddDouble", name, format.Double, doubleBytes(v))
}

// AddReal adds a Real element from a mantissa and magnitude type.
func (c *ElementList) AddReal(name string, mantissa int64, hint format.MagnitudeType) error {
	const op = "ElementList.AddReal"
	return c.addPrimitive(op, name, format.Real, realBytes(op, mantissa, hint))
}

// AddRealFromDouble adds a Real element converted from v with hint.
func (c *ElementList) AddRealFromDouble(name string, v float64, hint format.MagnitudeType) error {
	const op = "ElementList.AddRealFromDouble"
	return c.addPrimitive(op, name, format.Real, realFromDoubleBytes(op, v, hint))
}

// AddDate adds a Date element.
func (c *ElementList) AddDate(name string, year, month, day int) error {
	const op = "ElementList.AddDate"
	return c.addPrimitive(op, name, format.Date, dateBytes(op, year, month, day))
}

// AddTime adds a Time element.
func (c *ElementList) AddTime(name string, hour, minute, second, milli, micro, nano int) error {
	const op = "ElementList.AddTime"
	return c.addPrimitive(op, name, format.Time, timeBytes(op, hour, minute, second, milli, micro, nano))
}

// AddDateTime adds a DateTime element holding t in UTC.
func (c *ElementList) AddDateTime(name string, t time.Time) error {
	const op = "ElementList.AddDateTime"
	return c.addPrimitive(op, name, format.DateTime, dateTimeBytes(op, t))
}

// AddQos adds a Qos element.
func (c *ElementList) AddQos(name string, q rwf.Qos) error {
	const op = "ElementList.AddQos"
	return c.addPrimitive(op, name, format.Qos, qosBytes(op, q))
}

// AddState adds a State element.
func (c *ElementList) AddState(name string, stream format.StreamState, data format.DataState, code format.StatusCode, text string) error {
	const op = "ElementList.AddState"
	return c.addPrimitive(op, name, format.State, stateBytes(op, stream, data, code, text))
}

// AddEnum adds an Enum element.
func (c *ElementList) AddEnum(name string, v uint16) error {
	return c.addPrimitive("ElementList.AddEnum", name, format.Enum, enumBytes(v))
}

// AddBuffer adds a Buffer element.
func (c *ElementList) AddBuffer(name string, v []byte) error {
	return c.addPrimitive("ElementList.AddBuffer", name, format.Buffer, rawBytes(v))
}

// AddAscii adds an Ascii element.
func (c *ElementList) AddAscii(name string, v string) error {
	return c.addPrimitive("ElementList.AddAscii", name, format.Ascii, stringBytes(v))
}

// AddUtf8 adds a Utf8 element.
func (c *ElementList) AddUtf8(name string, v string) error {
	return c.addPrimitive("ElementList.AddUtf8", name, format.Utf8, stringBytes(v))
}

// AddRmtes adds an Rmtes element.
func (c *ElementList) AddRmtes(name string, v []byte) error {
	return c.addPrimitive("ElementList.AddRmtes", name, format.Rmtes, rawBytes(v))
}

// AddBlank adds a blank element of primitive kind.
func (c *ElementList) AddBlank(name string, kind format.DataType) error {
	const op = "ElementList.AddBlank"
	return c.addPrimitive(op, name, kind, blankBytes(op, kind))
}

// AddArray adds an Array element.
func (c *ElementList) AddArray(name string, v *Array) error {
	if v == nil {
		return nilValue("ElementList.AddArray")
	}

	return c.addValue("ElementList.AddArray", name, v)
}

// AddFieldList adds a nested FieldList.
func (c *ElementList) AddFieldList(name string, v *FieldList) error {
	if v == nil {
		return nilValue("ElementList.AddFieldList")
	}

	return c.addValue("ElementList.AddFieldList", name, v)
}

// AddElementList adds a nested ElementList.
func (c *ElementList) AddElementList(name string, v *ElementList) error {
	if v == nil {
		return nilValue("ElementList.AddElementList")
	}

	return c.addValue("ElementList.AddElementList", name, v)
}

// AddMap adds a nested Map.
func (c *ElementList) AddMap(name string, v *Map) error {
	if v == nil {
		return nilValue("ElementList.AddMap")
	}

	return c.addValue("ElementList.AddMap", name, v)
}

// AddVector adds a nested Vector.
func (c *ElementList) AddVector(name string, v *Vector) error {
	if v == nil {
		return nilValue("ElementList.AddVector")
	}

	return c.addValue("ElementList.AddVector", name, v)
}

// AddSeries adds a nested Series.
func (c *ElementList) AddSeries(name string, v *Series) error {
	if v == nil {
		return nilValue("ElementList.AddSeries")
	}

	return c.addValue("ElementList.AddSeries", name, v)
}

// AddFilterList adds a nested FilterList.
func (c *ElementList) AddFilterList(name string, v *FilterList) error {
	if v == nil {
		return nilValue("ElementList.AddFilterList")
	}

	return c.addValue("ElementList.AddFilterList", name, v)
}

// AddOpaque adds an already encoded blob of kind.
func (c *ElementList) AddOpaque(name string, kind format.DataType, data []byte) error {
	const op = "ElementList.AddOpaque"
	if !kind.IsBlob() {
		return errs.New(errs.KindInvalidArgument, op, "not a blob kind: "+kind.String())
	}

	return c.addPrimitive(op, name, kind, rawBytes(data))
}

// Add adds v as element name.
func (c *ElementList) Add(name string, v Value) error {
	return c.addValue("ElementList.Add", name, v)
}

// Complete finishes a build. Completing a finished build is a no-op.
func (c *ElementList) Complete() error {
	const op = "ElementList.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.inSet() {
		return errs.New(errs.KindInvalidUsage, op,
			fmt.Sprintf("set data incomplete: %d of %d elements", c.setIdx, len(c.set.Entries)))
	}
	if c.phase == phaseIdle {
		if err := c.startEncode(op, c.encodeInit); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeElementListComplete)
}

// EncodedData returns the decoded source, or the built bytes after completing
// the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *ElementList) EncodedData() []byte {
	return c.encodedData(format.ElementList, c.Complete)
}

func (c *ElementList) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *ElementList) String() string {
	return c.stringOf(format.ElementList, c.render)
}

func (c *ElementList) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("ElementList")
	if c.code == format.NoError && c.HasInfo() {
		w.attr("ElementListNum", strconv.Itoa(int(c.hdr.ElementListNum)))
	}
	w.nl()

	if c.code != format.NoError {
		for _, e := range c.entries.items {
			renderFailure(w, indent+1, e.load.v)
		}
	} else {
		for _, e := range c.entries.items {
			w.indent(indent+1).str("ElementEntry").attr("name", e.name)
			renderLoad(w, indent+1, e.load.v, "ElementEntryEnd")
		}
	}

	w.indent(indent).str("ElementListEnd").nl()
}

func (c *ElementList) resetBuild() {
	c.setDb = nil
	c.set = nil
	c.setIdx = 0
}

// Clear releases every entry and load and returns the list to its empty state.
func (c *ElementList) Clear() {
	c.entries.clear(c.reg.releaseElementEntry)
	c.resetBase()
	c.resetBuild()
	c.hdr = rwf.ElementList{}
	c.ree = rwf.ElementEntry{}
}

// ReturnToPool clears the list and releases it to its registry.
// It does nothing when the list is the load of an entry; such a
// list returns to the pool with the container holding it.
func (c *ElementList) ReturnToPool() { c.returnToPool(c) }
