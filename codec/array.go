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

// ArrayEntry is one item of an Array.
type ArrayEntry struct {
	entryBase
}

func (e *ArrayEntry) clearKey(*Registry) {}

func (r *Registry) releaseArrayEntry(e *ArrayEntry) {
	putBack(r.arrayEntries, e, func() { e.load.release(r) })
}

// Array is a list of primitives of one kind, optionally encoded with a fixed
// item width.
type Array struct {
	containerBase
	hdr     rwf.Array
	rae     rwf.ArrayEntry
	entries entryList[*ArrayEntry]

	kind kindBinding
}

var _ container = (*Array)(nil)

// DataType returns format.Array.
func (c *Array) DataType() format.DataType { return format.Array }

// Decode attaches the Array to data and decodes its header.
//
// Returns:
//   - error: *errs.DecodeError when the header cannot be decoded
func (c *Array) Decode(data []byte, major, minor uint8) error {
	return c.attach(data, decodeScope{major: major, minor: minor})
}

func (c *Array) attach(data []byte, scope decodeScope) error {
	c.kind = kindBinding{}
	c.beginDecode(data, scope)
	c.hdr = rwf.Array{}
	if code := c.attachCursor(); code != format.NoError {
		return c.fail(format.Array, code)
	}

	return c.headerDecoded(format.Array, rwf.DecodeArray(&c.it, &c.hdr))
}

func (c *Array) fill() {
	switch c.phase { //nolint:exhaustive
	case phaseFailed:
		fillFailed(&c.containerBase, &c.entries, c.reg.arrayEntries.Get, c.reg.releaseArrayEntry)
		return
	case phaseAttached:
	default:
		return
	}

	c.entries.rewind()
	for {
		st := rwf.DecodeArrayEntry(&c.it, &c.rae)
		if st == rwf.EndOfContainer || st == rwf.InvalidArgument {
			break
		}

		e := c.entries.next(c.reg.arrayEntries.Get)
		if st != rwf.Success {
			e.load.bindError(c.reg, entryCode(st), nil)
			continue
		}
		decodeLoad(c.reg, &e.load, c.hdr.PrimitiveType, c.rae.EncData, c.scope)
	}

	c.entries.truncate(c.reg.releaseArrayEntry)
	c.phase = phaseFilled
}

// Size returns the number of items, decoding them on first call.
func (c *Array) Size() int {
	c.fill()
	return c.entries.len()
}

// IsEmpty reports whether the array has no items.
func (c *Array) IsEmpty() bool { return c.Size() == 0 }

// All iterates over the items in wire order.
func (c *Array) All() iter.Seq[*ArrayEntry] { return allOf(&c.entries, c.fill) }

// Entry returns item i.
func (c *Array) Entry(i int) (*ArrayEntry, error) {
	c.fill()
	return entryAt("Array.Entry", &c.entries, i)
}

// PrimitiveType returns the kind of the items.
func (c *Array) PrimitiveType() format.DataType { return c.hdr.PrimitiveType }

// ItemWidth returns the fixed item width, or 0 for variable width items.
func (c *Array) ItemWidth() int { return c.hdr.ItemLength }

// FixedWidth encodes every item with exactly n bytes. Int and UInt accept
// 1, 2, 4 and 8; Enum 1 and 2; Float and Date 4; Double 8; the string kinds
// any width. Zero restores variable width.
func (c *Array) FixedWidth(n int) error {
	const op = "Array.FixedWidth"
	if err := c.checkHeader(op); err != nil {
		return err
	}
	if n < 0 || n > 0xFF {
		return outOfRange(op, "item width", n)
	}
	c.hdr.ItemLength = n

	return nil
}

func (c *Array) encodeInit(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeArrayInit(it, &c.hdr)
}

func (c *Array) encodeEntry(it *rwf.EncodeIterator) rwf.Status {
	return rwf.EncodeArrayEntry(it, &c.rae)
}

// add appends one item of kind. fixed, when not nil, encodes the item at a
// fixed width instead of fn.
func (c *Array) add(op string, kind format.DataType, fn appendFunc, fixed func(width int) appendFunc) error {
	if err := c.checkBuild(op); err != nil {
		return err
	}
	if err := c.kind.check(op, kind); err != nil {
		return err
	}

	width := c.hdr.ItemLength
	if !rwf.ValidArrayItemLength(kind, width) {
		return errs.New(errs.KindInvalidArgument, op, fmt.Sprintf("%s items cannot have fixed width %d", kind, width))
	}
	if width > 0 && fixed != nil {
		fn = fixed(width)
	}

	data, err := c.enc.primitive(fn)
	if err != nil {
		return err
	}
	if width > 0 && len(data) != width {
		return errs.New(errs.KindInvalidArgument, op, fmt.Sprintf("item is %d bytes, fixed width is %d", len(data), width))
	}

	if c.phase == phaseIdle {
		c.kind.kind = kind
		c.hdr.PrimitiveType = kind
		if err := c.startEncode(op, c.encodeInit); err != nil {
			c.kind = kindBinding{}
			return err
		}
	}

	c.rae = rwf.ArrayEntry{EncData: data}

	return c.enc.run(c.reg, op, c.encodeEntry)
}

func fixedInt(op string, v int64) func(int) appendFunc {
	return func(width int) appendFunc {
		return func(dst []byte) ([]byte, error) {
			out, ok := rwf.AppendIntFixed(dst, v, width)
			if !ok {
				return dst, outOfRange(op, fmt.Sprintf("value for width %d", width), int(v))
			}

			return out, nil
		}
	}
}

func fixedUInt(op string, v uint64) func(int) appendFunc {
	return func(width int) appendFunc {
		return func(dst []byte) ([]byte, error) {
			out, ok := rwf.AppendUIntFixed(dst, v, width)
			if !ok {
				return dst, errs.New(errs.KindOutOfRange, op, fmt.Sprintf("value %d does not fit %d bytes", v, width))
			}

			return out, nil
		}
	}
}

// AddInt appends an Int item.
func (c *Array) AddInt(v int64) error {
	const op = "Array.AddInt"
	return c.add(op, format.Int, intBytes(v), fixedInt(op, v))
}

// AddUInt appends a UInt item.
func (c *Array) AddUInt(v uint64) error {
	const op = "Array.AddUInt"
	return c.add(op, format.UInt, uintBytes(v), fixedUInt(op, v))
}

// AddFloat appends a Float item.
func (c *Array) AddFloat(v float32) error {
	return c.add("Array.AddFloat", format.Float, floatBytes(v), nil)
}

// AddDouble appends a Double item.
func (c *Array) AddDouble(v float64) error {
	return c.add("Array.AddDouble", format.Double, doubleBytes(v), nil)
}

// AddReal appends a Real item.
func (c *Array) AddReal(mantissa int64, hint format.MagnitudeType) error {
	const op = "Array.AddReal"
	return c.add(op, format.Real, realBytes(op, mantissa, hint), nil)
}

// AddRealFromDouble appends a Real item converted from v with hint.
func (c *Array) AddRealFromDouble(v float64, hint format.MagnitudeType) error {
	const op = "Array.AddRealFromDouble"
	return c.add(op, format.Real, realFromDoubleBytes(op, v, hint), nil)
}

// AddDate appends a Date item.
func (c *Array) AddDate(year, month, day int) error {
	const op = "Array.AddDate"
	return c.add(op, format.Date, dateBytes(op, year, month, day), nil)
}

// AddTime appends a Time item.
func (c *Array) AddTime(hour, minute, second, milli, micro, nano int) error {
	const op = "Array.AddTime"
	return c.add(op, format.Time, timeBytes(op, hour, minute, second, milli, micro, nano), nil)
}

// AddDateTime appends a DateTime item holding t in UTC.
func (c *Array) AddDateTime(t time.Time) error {
	const op = "Array.AddDateTime"
	return c.add(op, format.DateTime, dateTimeBytes(op, t), nil)
}

// AddQos appends a Qos item.
func (c *Array) AddQos(q rwf.Qos) error {
	const op = "Array.AddQos"
	return c.add(op, format.Qos, qosBytes(op, q), nil)
}

// AddState appends a State item.
func (c *Array) AddState(stream format.StreamState, data format.DataState, code format.StatusCode, text string) error {
	const op = "Array.AddState"
	return c.add(op, format.State, stateBytes(op, stream, data, code, text), nil)
}

// AddEnum appends an Enum item.
func (c *Array) AddEnum(v uint16) error {
	const op = "Array.AddEnum"
	return c.add(op, format.Enum, enumBytes(v), fixedUInt(op, uint64(v)))
}

// AddBuffer appends a Buffer item.
func (c *Array) AddBuffer(v []byte) error {
	return c.add("Array.AddBuffer", format.Buffer, rawBytes(v), nil)
}

// AddAscii appends an Ascii item.
func (c *Array) AddAscii(v string) error {
	return c.add("Array.AddAscii", format.Ascii, stringBytes(v), nil)
}

// AddUtf8 appends a Utf8 item.
func (c *Array) AddUtf8(v string) error {
	return c.add("Array.AddUtf8", format.Utf8, stringBytes(v), nil)
}

// AddRmtes appends an Rmtes item.
func (c *Array) AddRmtes(v []byte) error {
	return c.add("Array.AddRmtes", format.Rmtes, rawBytes(v), nil)
}

// AddBlank appends a blank item of kind. Fixed width arrays cannot carry blank
// items.
func (c *Array) AddBlank(kind format.DataType) error {
	const op = "Array.AddBlank"
	return c.add(op, kind, blankBytes(op, kind), nil)
}

// Complete finishes a build. Completing a finished build is a no-op. An empty
// array is written with Int items.
func (c *Array) Complete() error {
	const op = "Array.Complete"
	if done, err := c.completeState(op); done || err != nil {
		return err
	}
	if c.phase == phaseIdle {
		c.hdr.PrimitiveType = format.Int
		if !rwf.ValidArrayItemLength(format.Int, c.hdr.ItemLength) {
			c.hdr.ItemLength = 0
		}
		if err := c.startEncode(op, c.encodeInit); err != nil {
			return err
		}
	}

	return c.completeEncode(op, rwf.EncodeArrayComplete)
}

// EncodedData returns the decoded source, or the built bytes after completing
// the build.
//
// Built bytes live in a pooled encode buffer owned by the container. They are
// valid until Clear or ReturnToPool; copy them to keep them longer.
func (c *Array) EncodedData() []byte {
	return c.encodedData(format.Array, c.Complete)
}

func (c *Array) encodedForParent(op string) ([]byte, error) {
	return c.forParent(op, c.Complete)
}

func (c *Array) String() string {
	return c.stringOf(format.Array, c.render)
}

func (c *Array) render(w *textWriter, indent int) {
	c.fill()

	w.indent(indent).str("OmmArray")
	if c.code == format.NoError && c.phase != phaseIdle {
		w.str(" with entries of").attr("dataType", c.hdr.PrimitiveType.String())
		if c.hdr.ItemLength > 0 {
			w.attr("fixedWidth", strconv.Itoa(c.hdr.ItemLength))
		}
	}
	w.nl()

	for _, e := range c.entries.items {
		if block, ok := e.load.v.(blockRenderer); ok {
			block.render(w, indent+1)
			continue
		}
		w.indent(indent + 1).str("value=\"" + e.load.v.String() + "\"").nl()
	}
	w.indent(indent).str("OmmArrayEnd").nl()
}

// Clear releases every item and returns the array to its empty state.
func (c *Array) Clear() {
	c.entries.clear(c.reg.releaseArrayEntry)
	c.resetBase()
	c.kind = kindBinding{}
	c.hdr = rwf.Array{}
	c.rae = rwf.ArrayEntry{}
}

// ReturnToPool clears the array and releases it to its registry.
// It does nothing when the array is the load of an entry; such a
// array returns to the pool with the container holding it.
func (c *Array) ReturnToPool() { c.returnToPool(c) }
