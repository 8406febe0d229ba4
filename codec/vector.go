package codec

import (
	"iter"
	"strconv"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// VectorEntry is one position of a Vector.
type VectorEntry struct {
	entryBase
	action   format.VectorAction
	position uint32
	perm     permData
}

// Action returns the action of the entry.
func (e *VectorEntry) Action() format.VectorAction { return e.action }

// Position returns the position the entry applies to.
func (e *VectorEntry) Position() uint32 { return e.position }

// PermData returns the permission data of the entry, or nil.
func (e *VectorEntry) PermData() []byte {
	if len(e.perm.b) == 0 {
		return nil
	}

	return e.perm.b
}

func (e *VectorEntry) clearKey(reg *Registry) {
	e.action = 0
	e.position = 0
	e.perm.release(reg)
}

func (e *VectorEntry) reset(reg *Registry) {
	e.load.release(reg)
	e.clearKey(reg)
}

func (r *Registry) releaseVectorEntry(e *VectorEntry) {
	putBack(r.vectorEntries, e, func() { e.reset(r) })
}

// Vector is a position-indexed collection of containers of one kind.
type Vector struct {
	containerBase
	hdr     rwf.Vector
	rve     rwf.VectorEntry
	entries entryList[*VectorEntry]
	head    headerData
}

var _ container = (*Vector)(nil)

// DataType returns format.Vector.
func (c *Vector) DataType() format.DataType { return format.Vector }

// Decode attaches the Vector to data and decodes its header.
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded
func (c *Vector) Decode(data []byte, major, minor uint8, dict FieldDictionary, defs *SetDefinitions) error {
	return c.attach(data, decodeScope{major: major, minor: minor, dict: dict, defs: defs})
}

func (c *Vector) attach(data []byte, scope decodeScope) error {
	c.head.resetBuild()
	c.beginDecode(data, scope)
	c.hdr = rwf.Vector{}
	c.head.rewind()
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.Vector, code)
	}

	st := rwf.DecodeVector(&c.it, &c.hdr)
	if st == rwf.Success {
		st = c.head.decodeDefs(c.hdr.EncSetDefs, c.hdr.ContainerType)
	}

	return c.headerDecoded(format.Vector, st)
}

func (c *Vector) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.vectorEntries.Get, c.reg.releaseVectorEntry)
		return
	case phaseAttached:
	default:
		return
	}

	scope := c.head.entryScope(c.scope)
	c.entries.rewind()
	for {
		st := rwf.DecodeVectorEntry(&c.it, &c.rve)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.vectorEntries.Get)
		if st != rwf.Success {
			e.clearKey(c.reg)
			e.load.bindError(c.reg, entryCode(st), nil)

			continue
		}

		e.action = c.rve.Action
		e.position = c.rve.Index
		e.perm.set(c.reg, c.rve.PermData)
		if e.action.HasPayload() {
			decodeLoad(c.reg, &e.load, c.hdr.ContainerType, c.rve.EncData, scope)
		} else {
			e.load.release(c.reg)
		}
	}

	c.entries.truncate(c.reg.releaseVectorEntry)
	c.phase = phaseFilled
}

// Size returns the number of entries, decoding them on first call.
func (c *Vector) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the vector has no entries.
func (c *Vector) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the entries in wire order.
func (c *Vector) All() iter.Seq[*VectorEntry] { return allOf(&c.entries, c.fill) }

// Entry returns entry i.
func (c *Vector) Entry(i int) (*VectorEntry, error) {
	c.fill()
	return entryAt("Vector.Entry", &c.entries, i)
}

// ContainerType returns the kind of the entries.
func (c *Vector) ContainerType() format.DataType { return c.hdr.ContainerType }

// IsSortable reports whether the provider allows sorting the entries.
func (c *Vector) IsSortable() bool { return c.hdr.Flags&rwf.VectorSupportsSorting != 0 }

// HasTotalCountHint reports whether the header carries a total count hint.
func (c *Vector) HasTotalCountHint() bool { return c.hdr.Flags&rwf.VectorHasTotalCountHint != 0 }

// TotalCountHintValue returns the total count hint.
func (c *Vector) TotalCountHintValue() uint32 { return c.hdr.TotalCountHint }

// Summary returns the decoded summary data, or nil when there is none.
func (c *Vector) Summary() Value {
	if !c.phase.decoded() || c.code != format.NoError {
		return nil
	}

	return c.head.summaryValue(c.reg, c.hdr.Flags&rwf.VectorHasSummaryData != 0,
		c.hdr.EncSummaryData, c.hdr.ContainerType, c.scope)
}

// Sortable declares whether the entries may be sorted.
func (c *Vector) Sortable(sortable bool) error {
	if err := c.checkHeader("Vector.Sortable"); err != nil {
		return err
	}
	c.hdr.Flags = setFlag(c.hdr.Flags, rwf.VectorSupportsSorting, sortable)

	return nil
}

// TotalCountHint declares the expected number of entries across all parts.
func (c *Vector) TotalCountHint(n uint32) error {
	if err := c.checkHeader("Vector.TotalCountHint"); err != nil {
		return err
	}
	c.hdr.Flags |= rwf.VectorHasTotalCountHint
	c.hdr.TotalCountHint = n

	return nil
}

// SummaryData sets the summary and binds the entry kind to its kind.
func (c *Vector) SummaryData(v Value) error {
	const op = "Vector.SummaryData"
	if err := c.checkHeader(op); err != nil {
		return err
	}

	return c.head.setSummary(op, v)
}

// SetDefinitions declares the set definitions used by the entries.
func (c *Vector) SetDefinitions(defs *SetDefinitions) error {
	const op = "Vector.SetDefinitions"
	if err := c.checkHeader(op); err != nil {
		return err
	}

	return c.head.setDefinitions(op, defs)
}

func (c *Vector) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeVectorInit(it, &c.hdr)
}

func (c *Vector) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeVectorEntry(it, &c.rve)
}

func (c *Vector) begin(op string) error {
	c.hdr.ContainerType = format.NoData
	if c.head.kind.bound() {
		c.hdr.ContainerType = wireKind(c.head.kind.kind)
	}
	c.hdr.EncSummaryData = c.head.summaryBuf
	c.hdr.EncSetDefs = c.head.setDefBuf

	return c.startEncode(op, c.encodeInit)
}

// Add adds an entry at position. v may be nil for VectorClear and VectorDelete.
func (c *Vector) Add(position uint32, action format.VectorAction, v Value, perm []byte) error {
	const op = "Vector.Add"
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if !action.IsValid() {
		return errs.New(errs.KindInvalidArgument, op, "invalid vector action "+action.String())
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

	var data []byte
	if action.HasPayload() && v != nil {
		if data, err = c.enc.value(op, v); err != nil {
			return err
		}
	}

	if c.phase == phaseIdle {
		c.head.kind.kind = kind
		if err := c.begin(op); err != nil {
			c.head.kind = kindBinding{}
			return err
		}
	}

	c.rve = rwf.VectorEntry{Action: action, Index: position, PermData: perm, EncData: data}
	if err := c.enc.run(c.reg, op, c.encodeEntry); err != nil {
		return err
	}
	if len(perm) > 0 {
		c.enc.markHeader(rwf.VectorHasPerEntryPermData)
	}

	return nil
}

// Complete finishes a build. Completing a finished build is a no-op.
func (c *Vector) Complete() error {
	const op = "Vector.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.phase == phaseIdle {
		if err := c.begin(op); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeVectorComplete)
}

// EncodedData returns the decoded source, or the built bytes after completing
// the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *Vector) EncodedData() []byte {
	return c.encodedData(format.Vector, c.Complete)
}

func (c *Vector) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *Vector) String() string {
	return c.stringOf(format.Vector, c.render)
}

func (c *Vector) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("Vector")
	if c.code == format.NoError {
		w.attr("sortable", strconv.FormatBool(c.IsSortable()))
		if c.HasTotalCountHint() {
			w.attr("totalCountHint", strconv.FormatUint(uint64(c.hdr.TotalCountHint), 10))
		}
	}
	w.nl()

	if c.code != format.NoError {
		for _, e := range c.entries.items {
			renderFailure(w, indent+1, e.load.v)
		}
		w.indent(indent).str("VectorEnd").nl()

		return
	}

	renderSummary(w, indent+1, c.Summary())
	for _, e := range c.entries.items {
		w.indent(indent+1).str("VectorEntry").
			attr("action", e.action.String()).
			attr("index", strconv.FormatUint(uint64(e.position), 10))
		if p := e.PermData(); p != nil {
			w.attr("permissionData", hexBytes(p))
		}
		renderLoad(w, indent+1, e.load.v, "VectorEntryEnd")
	}
	w.indent(indent).str("VectorEnd").nl()
}

// Clear releases every entry and load and returns the vector to its empty
// state.
func (c *Vector) Clear() {
	c.entries.clear(c.reg.releaseVectorEntry)
	c.head.release(c.reg)
	c.resetBase()
	c.hdr = rwf.Vector{}
	c.rve = rwf.VectorEntry{}
}

// ReturnToPool clears the vector and releases it to its registry.
// It does nothing when the vector is the load of an entry; such a
// vector returns to the pool with the container holding it.
func (c *Vector) ReturnToPool() { c.returnToPool(c) }

func setFlag(flags, bit uint8, on bool) uint8 {
	if on {
		return flags | bit
	}

	return flags &^ bit
}
