package codec

import (
	"iter"
	"strconv"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// MapEntry is one row of a Map: an action, a primitive key, optional
// permission data and the row's value.
type MapEntry struct {
	entryBase
	action format.MapAction
	key    loadSlot
	perm   permData
}

// Action returns the action of the entry.
func (e *MapEntry) Action() format.MapAction { return e.action }

// Key returns the key of the entry.
func (e *MapEntry) Key() Value { return e.key.v }

// PermData returns the permission data of the entry, or nil.
func (e *MapEntry) PermData() []byte {
	if len(e.perm.b) == 0 {
		return nil
	}

	return e.perm.b
}

func (e *MapEntry) clearKey(reg *Registry) {
	e.action = 0
	e.key.release(reg)
	e.perm.release(reg)
}

func (e *MapEntry) reset(reg *Registry) {
	e.load.release(reg)
	e.clearKey(reg)
}

func (r *Registry) releaseMapEntry(e *MapEntry) {
	putBack(r.mapEntries, e, func() { e.reset(r) })
}

// Map is a keyed collection of rows. All keys share one primitive kind and all
// rows share one container kind.
type Map struct {
	containerBase
	hdr     rwf.Map
	rme     rwf.MapEntry
	entries entryList[*MapEntry]
	head    headerData

	keyKind kindBinding
	keyBuf  []byte
}

var _ container = (*Map)(nil)

// DataType returns format.Map.
func (c *Map) DataType() format.DataType { return format.Map }

// Decode attaches the Map to data and decodes its header, including the set
// definitions it declares. dict is used by nested FieldLists.
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded
func (c *Map) Decode(data []byte, major, minor uint8, dict FieldDictionary, defs *SetDefinitions) error {
	return c.attach(data, decodeScope{major: major, minor: minor, dict: dict, defs: defs})
}

func (c *Map) attach(data []byte, scope decodeScope) error {
	c.resetBuild()
	c.beginDecode(data, scope)
	c.hdr = rwf.Map{}
	c.head.rewind()
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.Map, code)
	}

	st := rwf.DecodeMap(&c.it, &c.hdr)
	if st == rwf.Success {
		st = c.head.decodeDefs(c.hdr.EncSetDefs, c.hdr.ContainerType)
	}

	return c.headerDecoded(format.Map, st)
}

func (c *Map) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.mapEntries.Get, c.reg.releaseMapEntry)
		return
	case phaseAttached:
	default:
		return
	}

	scope := c.head.entryScope(c.scope)
	c.entries.rewind()
	for {
		st := rwf.DecodeMapEntry(&c.it, &c.rme)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.mapEntries.Get)
		if st != rwf.Success {
			e.clearKey(c.reg)
			e.load.bindError(c.reg, entryCode(st), nil)

			continue
		}

		e.action = c.rme.Action
		e.perm.set(c.reg, c.rme.PermData)
		decodeLoad(c.reg, &e.key, c.hdr.KeyPrimitiveType, c.rme.EncKey, scope)
		if e.action.HasPayload() {
			decodeLoad(c.reg, &e.load, c.hdr.ContainerType, c.rme.EncData, scope)
		} else {
			e.load.release(c.reg)
		}
	}

	c.entries.truncate(c.reg.releaseMapEntry)
	c.phase = phaseFilled
}

// Size returns the number of entries, decoding them on first call.
func (c *Map) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the map has no entries.
func (c *Map) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the entries in wire order.
func (c *Map) All() iter.Seq[*MapEntry] { return allOf(&c.entries, c.fill) }

// Entry returns entry i.
func (c *Map) Entry(i int) (*MapEntry, error) {
	c.fill()
	return entryAt("Map.Entry", &c.entries, i)
}

// KeyDataType returns the primitive kind of the keys.
func (c *Map) KeyDataType() format.DataType { return c.hdr.KeyPrimitiveType }

// ContainerType returns the kind of the rows.
func (c *Map) ContainerType() format.DataType { return c.hdr.ContainerType }

// HasKeyFieldID reports whether the header names the field the keys come from.
func (c *Map) HasKeyFieldID() bool { return c.hdr.Flags&rwf.MapHasKeyFieldID != 0 }

// KeyFieldIDValue returns the field id the keys come from.
func (c *Map) KeyFieldIDValue() int16 { return c.hdr.KeyFieldID }

// HasTotalCountHint reports whether the header carries a total count hint.
func (c *Map) HasTotalCountHint() bool { return c.hdr.Flags&rwf.MapHasTotalCountHint != 0 }

// TotalCountHintValue returns the total count hint.
func (c *Map) TotalCountHintValue() uint32 { return c.hdr.TotalCountHint }

// Summary returns the decoded summary data, or nil when there is none.
func (c *Map) Summary() Value {
	if !c.phase.decoded() || c.code != format.NoError {
		return nil
	}

	return c.head.summaryValue(c.reg, c.hdr.Flags&rwf.MapHasSummaryData != 0,
		c.hdr.EncSummaryData, c.hdr.ContainerType, c.scope)
}

// KeyType declares the primitive kind of the keys.
func (c *Map) KeyType(kind format.DataType) error {
	const op = "Map.KeyType"
	if err := c.checkHeader(op); err != nil {
		return err
	}
	if !kind.IsPrimitive() {
		return errs.New(errs.KindInvalidArgument, op, "key kind must be primitive, got "+kind.String())
	}
	c.keyKind.kind = kind

	return nil
}

// KeyFieldID declares the field the keys come from.
func (c *Map) KeyFieldID(fid int16) error {
	if err := c.checkHeader("Map.KeyFieldID"); err != nil {
		return err
	}
	c.hdr.Flags |= rwf.MapHasKeyFieldID
	c.hdr.KeyFieldID = fid

	return nil
}

// TotalCountHint declares the expected number of entries across all parts.
func (c *Map) TotalCountHint(n uint32) error {
	if err := c.checkHeader("Map.TotalCountHint"); err != nil {
		return err
	}
	c.hdr.Flags |= rwf.MapHasTotalCountHint
	c.hdr.TotalCountHint = n

	return nil
}

// SummaryData sets the summary and binds the row kind to its kind.
func (c *Map) SummaryData(v Value) error {
	const op = "Map.SummaryData"
	if err := c.checkHeader(op); err != nil {
		return err
	}

	return c.head.setSummary(op, v)
}

// SetDefinitions declares the set definitions used by the rows. Fields binds
// the row kind to FieldList, Elements to ElementList.
func (c *Map) SetDefinitions(defs *SetDefinitions) error {
	const op = "Map.SetDefinitions"
	if err := c.checkHeader(op); err != nil {
		return err
	}

	return c.head.setDefinitions(op, defs)
}

func (c *Map) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeMapInit(it, &c.hdr)
}

func (c *Map) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeMapEntry(it, &c.rme)
}

// begin writes the header with the bound kinds. Unbound kinds default to a
// Buffer key and NoData rows.
func (c *Map) begin(op string) error {
	c.hdr.KeyPrimitiveType = format.Buffer
	if c.keyKind.bound() {
		c.hdr.KeyPrimitiveType = c.keyKind.kind
	}
	c.hdr.ContainerType = format.NoData
	if c.head.kind.bound() {
		c.hdr.ContainerType = wireKind(c.head.kind.kind)
	}
	c.hdr.EncSummaryData = c.head.summaryBuf
	c.hdr.EncSetDefs = c.head.setDefBuf

	return c.startEncode(op, c.encodeInit)
}

func (c *Map) add(op string, keyKind format.DataType, key appendFunc, action format.MapAction, v Value, perm []byte) error {
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if !action.IsValid() {
		return errs.New(errs.KindInvalidArgument, op, "invalid map action "+action.String())
	}
	if len(perm) > rwf.MaxU15 {
		return outOfRange(op, "permission data length", len(perm))
	}
	kind, err := entryKind(op, &c.head.kind, v, action.HasPayload())
	if err != nil {
		return err
	}
	if err := c.head.kind.check(op, kind); err != nil {
		return err
	}
	if err := c.keyKind.check(op, keyKind); err != nil {
		return err
	}

	keyBytes, err := key(c.keyBuf[:0])
	if err != nil {
		return err
	}
	c.keyBuf = keyBytes[:0]
	if len(keyBytes) == 0 {
		return errs.New(errs.KindInvalidArgument, op, "map keys cannot be blank")
	}

	var data []byte
	if action.HasPayload() && v != nil {
		if data, err = c.enc.value(op, v); err != nil {
			return err
		}
	}

	if c.phase == phaseIdle {
		c.keyKind.kind = keyKind
		c.head.kind.kind = kind
		if err := c.begin(op); err != nil {
			c.keyKind = kindBinding{}
			c.head.kind = kindBinding{}

			return err
		}
	}

	c.rme = rwf.MapEntry{Action: action, EncKey: keyBytes, PermData: perm, EncData: data}
	if err := c.enc.run(c.reg, op, c.encodeEntry); err != nil {
		return err
	}
	if len(perm) > 0 {
		c.enc.markHeader(rwf.MapHasPerEntryPermData)
	}

	return nil
}

// AddKeyInt adds a row keyed by an Int. v may be nil for MapDelete.
func (c *Map) AddKeyInt(key int64, action format.MapAction, v Value, perm []byte) error {
	return c.add("Map.AddKeyInt", format.Int, intBytes(key), action, v, perm)
}

// AddKeyUInt adds a row keyed by a UInt.
func (c *Map) AddKeyUInt(key uint64, action format.MapAction, v Value, perm []byte) error {
	return c.add("Map.AddKeyUInt", format.UInt, uintBytes(key), action, v, perm)
}

// AddKeyAscii adds a row keyed by an Ascii string.
func (c *Map) AddKeyAscii(key string, action format.MapAction, v Value, perm []byte) error {
	return c.add("Map.AddKeyAscii", format.Ascii, stringBytes(key), action, v, perm)
}

// AddKeyBuffer adds a row keyed by a Buffer.
func (c *Map) AddKeyBuffer(key []byte, action format.MapAction, v Value, perm []byte) error {
	return c.add("Map.AddKeyBuffer", format.Buffer, rawBytes(key), action, v, perm)
}

// AddKeyUtf8 adds a row keyed by a Utf8 string.
func (c *Map) AddKeyUtf8(key string, action format.MapAction, v Value, perm []byte) error {
	return c.add("Map.AddKeyUtf8", format.Utf8, stringBytes(key), action, v, perm)
}

// AddKey adds a row keyed by any primitive value.
func (c *Map) AddKey(key Value, action format.MapAction, v Value, perm []byte) error {
	const op = "Map.AddKey"
	kind, err := valueKind(op, key)
	if err != nil {
		return err
	}
	sv, ok := key.(scalar)
	if !ok {
		return errs.New(errs.KindInvalidArgument, op, "key kind must be primitive, got "+kind.String())
	}

	return c.add(op, kind, func(dst []byte) ([]byte, error) { return sv.appendWire(dst), nil }, action, v, perm)
}

// Complete finishes a build. Completing a finished build is a no-op.
func (c *Map) Complete() error {
	const op = "Map.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.phase == phaseIdle {
		if err := c.begin(op); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeMapComplete)
}

// EncodedData returns the decoded source, or the built bytes after completing
// the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *Map) EncodedData() []byte {
	return c.encodedData(format.Map, c.Complete)
}

func (c *Map) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *Map) String() string {
	return c.stringOf(format.Map, c.render)
}

func (c *Map) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("Map")
	if c.code == format.NoError {
		if c.HasKeyFieldID() {
			w.attr("keyFieldId", strconv.Itoa(int(c.hdr.KeyFieldID)))
		}
		if c.HasTotalCountHint() {
			w.attr("totalCountHint", strconv.FormatUint(uint64(c.hdr.TotalCountHint), 10))
		}
	}
	w.nl()

	if c.code != format.NoError {
		for _, e := range c.entries.items {
			renderFailure(w, indent+1, e.load.v)
		}
		w.indent(indent).str("MapEnd").nl()

		return
	}

	renderSummary(w, indent+1, c.Summary())
	for _, e := range c.entries.items {
		w.indent(indent+1).str("MapEntry").attr("action", e.action.String())
		if k := e.key.v; k != nil {
			w.str(" key").attr("dataType", k.DataType().String()).attr("value", k.String())
		}
		if p := e.PermData(); p != nil {
			w.attr("permissionData", hexBytes(p))
		}
		renderLoad(w, indent+1, e.load.v, "MapEntryEnd")
	}
	w.indent(indent).str("MapEnd").nl()
}

func (c *Map) resetBuild() {
	c.keyKind = kindBinding{}
	c.head.resetBuild()
}

// Clear releases every entry, key and load and returns the map to its empty
// state.
func (c *Map) Clear() {
	c.entries.clear(c.reg.releaseMapEntry)
	c.head.release(c.reg)
	c.resetBase()
	c.resetBuild()
	c.hdr = rwf.Map{}
	c.rme = rwf.MapEntry{}
}

// ReturnToPool clears the map and releases it to its registry.
// It does nothing when the map is the load of an entry; such a
// map returns to the pool with the container holding it.
func (c *Map) ReturnToPool() { c.returnToPool(c) }
