package codec

import (
	"strconv"

	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/pool"
	"github.com/arloliu/omm/rwf"
)

const blankText = "(blank data)"

// scalarBase carries the state shared by every primitive value: the blank
// marker and the encoded form.
//
// A decoded value keeps its source bytes in src and returns them unchanged
// from EncodedData. Any other value encodes itself into own on demand.
type scalarBase struct {
	pool.Marker
	blank    bool
	fromWire bool
	src      []byte
	own      []byte
}

// Code returns format.Blank for blank values and format.NoCode otherwise.
func (b *scalarBase) Code() format.DataCode {
	if b.blank {
		return format.Blank
	}

	return format.NoCode
}

// IsBlank reports whether the value is blank.
func (b *scalarBase) IsBlank() bool {
	return b.blank
}

func (b *scalarBase) encoded(appendFn func([]byte) []byte) []byte {
	if b.fromWire {
		return b.src
	}
	b.own = appendFn(b.own[:0])

	return b.own
}

// decoded records the source of a decode and maps NoData to blank.
func (b *scalarBase) decoded(data []byte, st rwf.Status) rwf.Status {
	b.src = data
	b.fromWire = true
	b.blank = st == rwf.NoData

	return st
}

func (b *scalarBase) assigned(blank bool) {
	b.src = nil
	b.fromWire = false
	b.blank = blank
}

func (b *scalarBase) resetBase() {
	b.blank = false
	b.fromWire = false
	b.src = nil
	b.own = b.own[:0]
}

// Int is a signed integer value.
type Int struct {
	scalarBase
	v int64
}

var _ scalar = (*Int)(nil)

// DataType returns format.Int.
func (v *Int) DataType() format.DataType { return format.Int }

// Value returns the integer. It is zero when the value is blank.
func (v *Int) Value() int64 { return v.v }

// Set assigns the integer.
func (v *Int) Set(x int64) {
	v.v = x
	v.assigned(false)
}

// SetBlank makes the value blank.
func (v *Int) SetBlank() {
	v.v = 0
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Int) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Int) String() string {
	if v.blank {
		return blankText
	}

	return strconv.FormatInt(v.v, 10)
}

func (v *Int) decode(data []byte) rwf.Status {
	x, st := rwf.DecodeInt(data)
	v.v = x

	return v.decoded(data, st)
}

func (v *Int) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendInt(dst, v.v)
}

func (v *Int) reset() {
	v.v = 0
	v.resetBase()
}

// UInt is an unsigned integer value.
type UInt struct {
	scalarBase
	v uint64
}

var _ scalar = (*UInt)(nil)

// DataType returns format.UInt.
func (v *UInt) DataType() format.DataType { return format.UInt }

// Value returns the integer. It is zero when the value is blank.
func (v *UInt) Value() uint64 { return v.v }

// Set assigns the integer.
func (v *UInt) Set(x uint64) {
	v.v = x
	v.assigned(false)
}

// SetBlank makes the value blank.
func (v *UInt) SetBlank() {
	v.v = 0
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *UInt) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *UInt) String() string {
	if v.blank {
		return blankText
	}

	return strconv.FormatUint(v.v, 10)
}

func (v *UInt) decode(data []byte) rwf.Status {
	x, st := rwf.DecodeUInt(data)
	v.v = x

	return v.decoded(data, st)
}

func (v *UInt) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendUInt(dst, v.v)
}

func (v *UInt) reset() {
	v.v = 0
	v.resetBase()
}

// Float is a 32-bit floating point value.
type Float struct {
	scalarBase
	v float32
}

var _ scalar = (*Float)(nil)

// DataType returns format.Float.
func (v *Float) DataType() format.DataType { return format.Float }

// Value returns the float. It is zero when the value is blank.
func (v *Float) Value() float32 { return v.v }

// Set assigns the float.
func (v *Float) Set(x float32) {
	v.v = x
	v.assigned(false)
}

// SetBlank makes the value blank.
func (v *Float) SetBlank() {
	v.v = 0
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Float) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Float) String() string {
	if v.blank {
		return blankText
	}

	return strconv.FormatFloat(float64(v.v), 'g', -1, 32)
}

func (v *Float) decode(data []byte) rwf.Status {
	x, st := rwf.DecodeFloat(data)
	v.v = x

	return v.decoded(data, st)
}

func (v *Float) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendFloat(dst, v.v)
}

func (v *Float) reset() {
	v.v = 0
	v.resetBase()
}

// Double is a 64-bit floating point value.
type Double struct {
	scalarBase
	v float64
}

var _ scalar = (*Double)(nil)

// DataType returns format.Double.
func (v *Double) DataType() format.DataType { return format.Double }

// Value returns the float. It is zero when the value is blank.
func (v *Double) Value() float64 { return v.v }

// Set assigns the float.
func (v *Double) Set(x float64) {
	v.v = x
	v.assigned(false)
}

// SetBlank makes the value blank.
func (v *Double) SetBlank() {
	v.v = 0
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Double) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Double) String() string {
	if v.blank {
		return blankText
	}

	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

func (v *Double) decode(data []byte) rwf.Status {
	x, st := rwf.DecodeDouble(data)
	v.v = x

	return v.decoded(data, st)
}

func (v *Double) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendDouble(dst, v.v)
}

func (v *Double) reset() {
	v.v = 0
	v.resetBase()
}

// Enum is a dictionary enumeration value.
type Enum struct {
	scalarBase
	v uint16
}

var _ scalar = (*Enum)(nil)

// DataType returns format.Enum.
func (v *Enum) DataType() format.DataType { return format.Enum }

// Value returns the enumeration value. It is zero when the value is blank.
func (v *Enum) Value() uint16 { return v.v }

// Set assigns the enumeration value.
func (v *Enum) Set(x uint16) {
	v.v = x
	v.assigned(false)
}

// SetBlank makes the value blank.
func (v *Enum) SetBlank() {
	v.v = 0
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Enum) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Enum) String() string {
	if v.blank {
		return blankText
	}

	return strconv.FormatUint(uint64(v.v), 10)
}

func (v *Enum) decode(data []byte) rwf.Status {
	x, st := rwf.DecodeEnum(data)
	v.v = x

	return v.decoded(data, st)
}

func (v *Enum) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendEnum(dst, v.v)
}

func (v *Enum) reset() {
	v.v = 0
	v.resetBase()
}
