package codec

import (
	"iter"
	"strconv"

	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// SeriesEntry is one row of a Series.
type SeriesEntry struct {
	entryBase
}

func (e *SeriesEntry) clearKey(*Registry) {}

func (r *Registry) releaseSeriesEntry(e *SeriesEntry) {
	putBack(r.seriesEntries, e, func() { e.load.release(r) })
}

// Series is an ordered list of containers of one kind without keys, typically
// the rows of a table whose layout is given once by set definitions.
type Series struct {
	containerBase
	hdr     rwf.Series
	rse     rwf.SeriesEntry
	entries entryList[*SeriesEntry]
	head    headerData
}

var _ container = (*Series)(nil)

// DataType returns format.Series.
func (c *Series) DataType() format.DataType { return format.Series }

// Decode attaches the Series to data and decodes its header.
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded
func (c *Series) Decode(data []byte, major, minor uint8, dict FieldDictionary, defs *SetDefinitions) error {
	return c.attach(data, decodeScope{major: major, minor: minor, dict: dict, defs: defs})
}

func (c *Series) attach(data []byte, scope decodeScope) error {
	c.head.resetBuild()
	c.beginDecode(data, scope)
	c.hdr = rwf.Series{}
	c.head.rewind()
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.Series, code)
	}

	st := rwf.DecodeSeries(&c.it, &c.hdr)
	if st == rwf.Success {
		st = c.head.decodeDefs(c.hdr.EncSetDefs, c.hdr.ContainerType)
	}

	return c.headerDecoded(format.Series, st)
}

func (c *Series) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.seriesEntries.Get, c.reg.releaseSeriesEntry)
		return
	case phaseAttached:
	default:
		return
	}

	scope := c.head.entryScope(c.scope)
	c.entries.rewind()
	for {
		st := rwf.DecodeSeriesEntry(&c.it, &c.rse)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.seriesEntries.Get)
		if st != rwf.Success {
			e.load.bindError(c.reg, entryCode(st), nil)
			continue
		}
		decodeLoad(c.reg, &e.load, c.hdr.ContainerType, c.rse.EncData, scope)
	}

	c.entries.truncate(c.reg.releaseSeriesEntry)
	c.phase = phaseFilled
}

// Size returns the number of entries, decoding them on first call.
func (c *Series) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the series has no entries.
func (c *Series) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the entries in wire order.
func (c *Series) All() iter.Seq[*SeriesEntry] { return allOf(&c.entries, c.fill) }

// Entry returns entry i.
func (c *Series) Entry(i int) (*SeriesEntry, error) {
	c.fill()
	return entryAt("Series.Entry", &c.entries, i)
}

// ContainerType returns the kind of the entries.
func (c *Series) ContainerType() format.DataType { return c.hdr.ContainerType }

// HasTotalCountHint reports whether the header carries a total count hint.
func (c *Series) HasTotalCountHint() bool { return c.hdr.Flags&rwf.SeriesHasTotalCountHint != 0 }

// TotalCountHintValue returns the total count hint.
func (c *Series) TotalCountHintValue() uint32 { return c.hdr.TotalCountHint }

// Summary returns the decoded summary data, or nil when there is none.
func (c *Series) Summary() Value {
	if !c.phase.decoded() || c.code != format.NoError {
		return nil
	}

	return c.head.summaryValue(c.reg, c.hdr.Flags&rwf.SeriesHasSummaryData != 0,
		c.hdr.EncSummaryData, c.hdr.ContainerType, c.scope)
}

// TotalCountHint declares the expected number of entries across all parts.
func (c *Series) TotalCountHint(n uint32) error {
	if err := c.checkHeader("Series.TotalCountHint"); err != nil {
		return err
	}
	c.hdr.Flags |= rwf.SeriesHasTotalCountHint
	c.hdr.TotalCountHint = n

	return nil
}

// SummaryData sets the summary and binds the entry kind to its kind.
func (c *Series) SummaryData(v Value) error {
	const op = "Series.SummaryData"
	if err := c.checkHeader(op); err != nil {
		return err
	}

	return c.head.setSummary(op, v)
}

// SetDefinitions declares the set definitions used by the entries.
func (c *Series) SetDefinitions(defs *SetDefinitions) error {
	const op = "Series.SetDefinitions"
	if err := c.checkHeader(op); err != nil {
		return err
	}

	return c.head.setDefinitions(op, defs)
}

func (c *Series) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeSeriesInit(it, &c.hdr)
}

func (c *Series) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeSeriesEntry(it, &c.rse)
}

func (c *Series) begin(op string) error {
	c.hdr.ContainerType = format.NoData
	if c.head.kind.bound() {
		c.hdr.ContainerType = wireKind(c.head.kind.kind)
	}
	c.hdr.EncSummaryData = c.head.summaryBuf
	c.hdr.EncSetDefs = c.head.setDefBuf

	return c.startEncode(op, c.encodeInit)
}

// Add appends v. Every entry must have the kind of the first one, or of the
// summary data when it was set.
func (c *Series) Add(v Value) error {
	const op = "Series.Add"
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if v == nil {
		return nilValue(op)
	}
	kind, err := entryKind(op, &c.head.kind, v, true)
	if err != nil {
		return err
	}
	if err := c.head.kind.check(op, kind); err != nil {
		return err
	}

	data, err := c.enc.value(op, v)
	if err != nil {
		return err
	}

	if c.phase == phaseIdle {
		c.head.kind.kind = kind
		if err := c.begin(op); err != nil {
			c.head.kind = kindBinding{}
			return err
		}
	}

	c.rse = rwf.SeriesEntry{EncData: data}

	return c.enc.run(c.reg, op, c.encodeEntry)
}

// Complete finishes a build. Completing a finished build is a no-op.
func (c *Series) Complete() error {
	const op = "Series.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.phase == phaseIdle {
		if err := c.begin(op); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeSeriesComplete)
}

// EncodedData returns the decoded source, or the built bytes after completing
// the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *Series) EncodedData() []byte {
	return c.encodedData(format.Series, c.Complete)
}

func (c *Series) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *Series) String() string {
	return c.stringOf(format.Series, c.render)
}

func (c *Series) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("Series")
	if c.code == format.NoError && c.HasTotalCountHint() {
		w.attr("totalCountHint", strconv.FormatUint(uint64(c.hdr.TotalCountHint), 10))
	}
	w.nl()

	if c.code != format.NoError {
		for _, e := range c.entries.items {
			renderFailure(w, indent+1, e.load.v)
		}
		w.indent(indent).str("SeriesEnd").nl()

		return
	}

	renderSummary(w, indent+1, c.Summary())
	for _, e := range c.entries.items {
		w.indent(indent + 1).str("SeriesEntry")
		renderLoad(w, indent+1, e.load.v, "SeriesEntryEnd")
	}
	w.indent(indent).str("SeriesEnd").nl()
}

// Clear releases every entry and load and returns the series to its empty
// state.
func (c *Series) Clear() {
	c.entries.clear(c.reg.releaseSeriesEntry)
	c.head.release(c.reg)
	c.resetBase()
	c.hdr = rwf.Series{}
	c.rse = rwf.SeriesEntry{}
}

// ReturnToPool clears the series and releases it to its registry.
// It does nothing when the series is the load of an entry; such a
// series returns to the pool with the container holding it.
func (c *Series) ReturnToPool() { c.returnToPool(c) }
