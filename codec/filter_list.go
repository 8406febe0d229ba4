package codec

import (
	"iter"
	"strconv"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// FilterEntry is one entry of a FilterList, identified by a filter id.
type FilterEntry struct {
	entryBase
	action format.FilterAction
	id     uint8
	perm   permData
}

// Action returns the action of the entry.
func (e *FilterEntry) Action() format.FilterAction { return e.action }

// FilterID returns the filter id of the entry.
func (e *FilterEntry) FilterID() uint8 { return e.id }

// PermData returns the permission data of the entry, or nil.
func (e *FilterEntry) PermData() []byte {
	if len(e.perm.b) == 0 {
		return nil
	}

	return e.perm.b
}

func (e *FilterEntry) clearKey(reg *Registry) {
	e.action = 0
	e.id = 0
	e.perm.release(reg)
}

func (e *FilterEntry) reset(reg *Registry) {
	e.load.release(reg)
	e.clearKey(reg)
}

func (r *Registry) releaseFilterEntry(e *FilterEntry) {
	putBack(r.filterEntries, e, func() { e.reset(r) })
}

// FilterList is a small set of containers, each identified by a filter id. A
// decoded entry may override the list's container kind; built entries all
// share the kind of the first one.
type FilterList struct {
	containerBase
	hdr     rwf.FilterList
	rfe     rwf.FilterEntry
	entries entryList[*FilterEntry]

	kind  kindBinding
	count int
}

var _ container = (*FilterList)(nil)

// DataType returns format.FilterList.
func (c *FilterList) DataType() format.DataType { return format.FilterList }

// Decode attaches the FilterList to data and decodes its header.
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded
func (c *FilterList) Decode(data []byte, major, minor uint8, dict FieldDictionary, defs *SetDefinitions) error {
	return c.attach(data, decodeScope{major: major, minor: minor, dict: dict, defs: defs})
}

func (c *FilterList) attach(data []byte, scope decodeScope) error {
	c.resetBuild()
	c.beginDecode(data, scope)
	c.hdr = rwf.FilterList{}
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.FilterList, code)
	}

	return c.headerDecoded(format.FilterList, rwf.DecodeFilterList(&c.it, &c.hdr))
}

func (c *FilterList) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.filterEntries.Get, c.reg.releaseFilterEntry)
		return
	case phaseAttached:
	default:
		return
	}

	scope := c.scope.nested(nil)
	c.entries.rewind()
	for {
		st := rwf.DecodeFilterEntry(&c.it, &c.rfe)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.filterEntries.Get)
		switch st { //nolint:exhaustive
		case rwf.Success:
		case rwf.UnsupportedDataType:
			e.action = c.rfe.Action
			e.id = c.rfe.ID
			e.perm.set(c.reg, c.rfe.PermData)
			e.load.bindError(c.reg, format.UnsupportedDataType, c.rfe.EncData)

			continue
		default:
			e.clearKey(c.reg)
			e.load.bindError(c.reg, entryCode(st), nil)

			continue
		}

		e.action = c.rfe.Action
		e.id = c.rfe.ID
		e.perm.set(c.reg, c.rfe.PermData)
		if !e.action.HasPayload() {
			e.load.release(c.reg)
			continue
		}

		kind := c.hdr.ContainerType
		if c.rfe.ContainerType != format.Unknown {
			kind = c.rfe.ContainerType
		}
		decodeLoad(c.reg, &e.load, kind, c.rfe.EncData, scope)
	}

	c.entries.truncate(c.reg.releaseFilterEntry)
	c.phase = phaseFilled
}

// Size returns the number of entries, decoding them on first call.
func (c *FilterList) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the list has no entries.
func (c *FilterList) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the entries in wire order.
func (c *FilterList) All() iter.Seq[*FilterEntry] { return allOf(&c.entries, c.fill) }

// Entry returns entry i.
func (c *FilterList) Entry(i int) (*FilterEntry, error) {
	c.fill()
	return entryAt("FilterList.Entry", &c.entries, i)
}

// ContainerType returns the default kind of the entries.
func (c *FilterList) ContainerType() format.DataType { return c.hdr.ContainerType }

// HasTotalCountHint reports whether the header carries a total count hint.
func (c *FilterList) HasTotalCountHint() bool {
	return c.hdr.Flags&rwf.FilterListHasTotalCountHint != 0
}

// TotalCountHintValue returns the total count hint.
func (c *FilterList) TotalCountHintValue() uint8 { return c.hdr.TotalCountHint }

// TotalCountHint declares the expected number of entries across all parts.
func (c *FilterList) TotalCountHint(n uint8) error {
	if err := c.checkHeader("FilterList.TotalCountHint"); err != nil {
		return err
	}
	c.hdr.Flags |= rwf.FilterListHasTotalCountHint
	c.hdr.TotalCountHint = n

	return nil
}

func (c *FilterList) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeFilterListInit(it, &c.hdr)
}

func (c *FilterList) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeFilterEntry(it, &c.rfe)
}

func (c *FilterList) begin(op string) error {
	c.hdr.ContainerType = format.NoData
	if c.kind.bound() {
		c.hdr.ContainerType = wireKind(c.kind.kind)
	}

	return c.startEncode(op, c.encodeInit)
}

// Add adds the entry for filter id. v may be nil for FilterClear.
func (c *FilterList) Add(id uint8, action format.FilterAction, v Value, perm []byte) error {
	const op = "FilterList.Add"
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if !action.IsValid() {
		return errs.New(errs.KindInvalidArgument, op, "invalid filter action "+action.String())
	}
	if c.count == rwf.MaxFilterEntries {
		return outOfRange(op, "entry count", c.count+1)
	}
	if len(perm) > rwf.MaxU15 {
		return outOfRange(op, "permission data length", len(perm))
	}
	kind, err := entryKind(op, &c.kind, v, action.HasPayload())
	if err != nil {
		return err
	}
	if err := c.kind.check(op, kind); err != nil {
		return err
	}

	var data []byte
	if action.HasPayload() && v != nil {
		if data, err = c.enc.value(op, v); err != nil {
			return err
		}
	}

	if c.phase == phaseIdle {
		c.kind.kind = kind
		if err := c.begin(op); err != nil {
			c.kind = kindBinding{}
			return err
		}
	}

	c.rfe = rwf.FilterEntry{Action: action, ID: id, PermData: perm, EncData: data}
	if err := c.enc.run(c.reg, op, c.encodeEntry); err != nil {
		return err
	}
	c.count++
	if len(perm) > 0 {
		c.enc.markHeader(rwf.FilterListHasPerEntryPermData)
	}

	return nil
}

// Complete finishes a build. Completing a finished build is a no-op.
func (c *FilterList) Complete() error {
	const op = "FilterList.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.phase == phaseIdle {
		if err := c.begin(op); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeFilterListComplete)
}

// EncodedData returns the decoded source, or the built bytes after completing
// the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *FilterList) EncodedData() []byte {
	return c.encodedData(format.FilterList, c.Complete)
}

func (c *FilterList) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *FilterList) String() string {
	return c.stringOf(format.FilterList, c.render)
}

func (c *FilterList) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("FilterList")
	if c.code == format.NoError && c.HasTotalCountHint() {
		w.attr("totalCountHint", strconv.Itoa(int(c.hdr.TotalCountHint)))
	}
	w.nl()

	if c.code != format.NoError {
		for _, e := range c.entries.items {
			renderFailure(w, indent+1, e.load.v)
		}
		w.indent(indent).str("FilterListEnd").nl()

		return
	}

	for _, e := range c.entries.items {
		w.indent(indent+1).str("FilterEntry").
			attr("action", e.action.String()).
			attr("filterId", strconv.Itoa(int(e.id)))
		if p := e.PermData(); p != nil {
			w.attr("permissionData", hexBytes(p))
		}
		renderLoad(w, indent+1, e.load.v, "FilterEntryEnd")
	}
	w.indent(indent).str("FilterListEnd").nl()
}

func (c *FilterList) resetBuild() {
	c.kind = kindBinding{}
	c.count = 0
}

// Clear releases every entry and load and returns the list to its empty state.
func (c *FilterList) Clear() {
	c.entries.clear(c.reg.releaseFilterEntry)
	c.resetBase()
	c.resetBuild()
	c.hdr = rwf.FilterList{}
	c.rfe = rwf.FilterEntry{}
}

// ReturnToPool clears the list and releases it to its registry.
// It does nothing when the list is the load of an entry; such a
// list returns to the pool with the container holding it.
func (c *FilterList) ReturnToPool() { c.returnToPool(c) }
