package rwf

import (
	"math"

	"github.com/arloliu/omm/format"
)

// Date is the wire form of a Date primitive. The all-zero value is blank.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// IsBlank reports whether every field is zero.
func (d Date) IsBlank() bool { return d == Date{} }

// Time is the wire form of a Time primitive.
type Time struct {
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
	Microsecond uint16
	Nanosecond  uint16
}

// BlankTime is the time whose every field carries its blank marker.
var BlankTime = Time{
	Hour: 255, Minute: 255, Second: 255,
	Millisecond: 65535, Microsecond: 2047, Nanosecond: 2047,
}

// IsBlank reports whether t equals BlankTime.
func (t Time) IsBlank() bool { return t == BlankTime }

// DateTime is the wire form of a DateTime primitive.
type DateTime struct {
	Date Date
	Time Time
}

// Qos is the wire form of a quality-of-service descriptor.
type Qos struct {
	Timeliness format.Timeliness
	Rate       format.Rate
	Dynamic    bool
	TimeInfo   uint16 // delay in seconds, carried when Timeliness is TimelinessDelayed
	RateInfo   uint16 // conflation interval in milliseconds, carried when Rate is RateTimeConflated
}

// State is the wire form of a stream/data state.
type State struct {
	Stream format.StreamState
	Data   format.DataState
	Code   format.StatusCode
	Text   []byte
}

func intSize(v int64) int {
	for n := 1; n < 8; n++ {
		limit := int64(1) << uint(n*8-1)
		if v >= -limit && v < limit {
			return n
		}
	}

	return 8
}

func uintSize(v uint64) int {
	n := 1
	for v > 0xFF {
		v >>= 8
		n++
	}

	return n
}

func appendBE(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}

	return dst
}

// AppendInt appends v in the fewest two's complement bytes.
func AppendInt(dst []byte, v int64) []byte {
	return appendBE(dst, uint64(v), intSize(v)) //nolint:gosec
}

// AppendIntFixed appends v in exactly width bytes (1, 2, 4 or 8).
// Returns false when v does not fit.
func AppendIntFixed(dst []byte, v int64, width int) ([]byte, bool) {
	if !validFixedIntWidth(width) || intSize(v) > width {
		return dst, false
	}

	return appendBE(dst, uint64(v), width), true //nolint:gosec
}

// DecodeInt decodes a big-endian two's complement integer of 1 to 8 bytes.
func DecodeInt(data []byte) (int64, Status) {
	switch {
	case len(data) == 0:
		return 0, NoData
	case len(data) > 8:
		return 0, InvalidData
	}

	v := int64(int8(data[0]))
	for _, b := range data[1:] {
		v = v<<8 | int64(b)
	}

	return v, Success
}

// AppendUInt appends v in the fewest bytes.
func AppendUInt(dst []byte, v uint64) []byte {
	return appendBE(dst, v, uintSize(v))
}

// AppendUIntFixed appends v in exactly width bytes (1, 2, 4 or 8).
// Returns false when v does not fit.
func AppendUIntFixed(dst []byte, v uint64, width int) ([]byte, bool) {
	if !validFixedIntWidth(width) || uintSize(v) > width {
		return dst, false
	}

	return appendBE(dst, v, width), true
}

// DecodeUInt decodes a big-endian unsigned integer of 1 to 8 bytes.
func DecodeUInt(data []byte) (uint64, Status) {
	switch {
	case len(data) == 0:
		return 0, NoData
	case len(data) > 8:
		return 0, InvalidData
	}

	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}

	return v, Success
}

func validFixedIntWidth(width int) bool {
	return width == 1 || width == 2 || width == 4 || width == 8
}

// AppendFloat appends v as 4 IEEE-754 bytes.
func AppendFloat(dst []byte, v float32) []byte {
	return engine.AppendUint32(dst, math.Float32bits(v))
}

// DecodeFloat decodes a 4-byte IEEE-754 float.
func DecodeFloat(data []byte) (float32, Status) {
	switch len(data) {
	case 0:
		return 0, NoData
	case 4:
		return math.Float32frombits(engine.Uint32(data)), Success
	default:
		return 0, InvalidData
	}
}

// AppendDouble appends v as 8 IEEE-754 bytes.
func AppendDouble(dst []byte, v float64) []byte {
	return engine.AppendUint64(dst, math.Float64bits(v))
}

// DecodeDouble decodes an 8-byte IEEE-754 double.
func DecodeDouble(data []byte) (float64, Status) {
	switch len(data) {
	case 0:
		return 0, NoData
	case 8:
		return math.Float64frombits(engine.Uint64(data)), Success
	default:
		return 0, InvalidData
	}
}

// AppendReal appends a hint byte followed by the minimal mantissa. Infinity,
// NegInfinity and NotANumber carry no mantissa.
//
// Returns InvalidArgument for an undefined hint.
func AppendReal(dst []byte, mantissa int64, hint format.MagnitudeType) ([]byte, Status) {
	if !hint.IsValid() {
		return dst, InvalidArgument
	}

	dst = append(dst, uint8(hint))
	if hint.IsSpecial() {
		return dst, Success
	}

	return AppendInt(dst, mantissa), Success
}

// DecodeReal decodes a Real. Zero-length data is blank (NoData).
func DecodeReal(data []byte) (int64, format.MagnitudeType, Status) {
	if len(data) == 0 {
		return 0, 0, NoData
	}

	hint := format.MagnitudeType(data[0])
	if !hint.IsValid() {
		return 0, 0, InvalidData
	}

	if hint.IsSpecial() {
		if len(data) != 1 {
			return 0, 0, InvalidData
		}

		return 0, hint, Success
	}

	if len(data) == 1 {
		return 0, 0, InvalidData
	}

	mantissa, st := DecodeInt(data[1:])
	if st != Success {
		return 0, 0, InvalidData
	}

	return mantissa, hint, Success
}

// AppendDate appends day, month and a 2-byte year.
func AppendDate(dst []byte, d Date) []byte {
	dst = append(dst, d.Day, d.Month)
	return engine.AppendUint16(dst, d.Year)
}

// DecodeDate decodes a 4-byte Date. Zero-length data is blank (NoData).
func DecodeDate(data []byte) (Date, Status) {
	switch len(data) {
	case 0:
		return Date{}, NoData
	case 4:
		return Date{Day: data[0], Month: data[1], Year: engine.Uint16(data[2:])}, Success
	default:
		return Date{}, InvalidData
	}
}

func timeSize(t Time) int {
	switch {
	case t.Nanosecond != 0:
		return 9
	case t.Microsecond != 0:
		return 7
	case t.Millisecond != 0:
		return 5
	default:
		return 3
	}
}

// AppendTime appends hour, minute and second followed by as many of the
// millisecond, microsecond and nanosecond fields as are non-zero.
func AppendTime(dst []byte, t Time) []byte {
	n := timeSize(t)
	dst = append(dst, t.Hour, t.Minute, t.Second)
	if n >= 5 {
		dst = engine.AppendUint16(dst, t.Millisecond)
	}
	if n >= 7 {
		dst = engine.AppendUint16(dst, t.Microsecond)
	}
	if n >= 9 {
		dst = engine.AppendUint16(dst, t.Nanosecond)
	}

	return dst
}

// DecodeTime decodes a Time of 2, 3, 5, 7 or 9 bytes. Missing trailing fields
// are zero.
func DecodeTime(data []byte) (Time, Status) {
	var t Time

	switch len(data) {
	case 0:
		return t, NoData
	case 2, 3, 5, 7, 9:
	default:
		return t, InvalidData
	}

	t.Hour, t.Minute = data[0], data[1]
	if len(data) >= 3 {
		t.Second = data[2]
	}
	if len(data) >= 5 {
		t.Millisecond = engine.Uint16(data[3:])
	}
	if len(data) >= 7 {
		t.Microsecond = engine.Uint16(data[5:])
	}
	if len(data) >= 9 {
		t.Nanosecond = engine.Uint16(data[7:])
	}

	return t, Success
}

// AppendDateTime appends a Date followed by a Time.
func AppendDateTime(dst []byte, dt DateTime) []byte {
	dst = AppendDate(dst, dt.Date)
	return AppendTime(dst, dt.Time)
}

// DecodeDateTime decodes a 4-byte Date followed by a Time.
func DecodeDateTime(data []byte) (DateTime, Status) {
	if len(data) == 0 {
		return DateTime{}, NoData
	}

	if len(data) < 6 {
		return DateTime{}, InvalidData
	}

	d, st := DecodeDate(data[:4])
	if st != Success {
		return DateTime{}, InvalidData
	}

	t, st := DecodeTime(data[4:])
	if st != Success {
		return DateTime{}, InvalidData
	}

	return DateTime{Date: d, Time: t}, Success
}

// AppendQos appends the Qos flags byte and its optional time and rate info.
func AppendQos(dst []byte, q Qos) []byte {
	b := uint8(q.Timeliness)<<5 | uint8(q.Rate)<<1
	if q.Dynamic {
		b |= 0x01
	}
	dst = append(dst, b)

	if q.Timeliness == format.TimelinessDelayed {
		dst = engine.AppendUint16(dst, q.TimeInfo)
	}
	if q.Rate == format.RateTimeConflated {
		dst = engine.AppendUint16(dst, q.RateInfo)
	}

	return dst
}

// DecodeQos decodes a Qos.
func DecodeQos(data []byte) (Qos, Status) {
	if len(data) == 0 {
		return Qos{}, NoData
	}

	r := reader{buf: data}
	b := r.u8()
	q := Qos{
		Timeliness: format.Timeliness(b >> 5),
		Rate:       format.Rate(b >> 1 & 0x0F),
		Dynamic:    b&0x01 != 0,
	}

	if !q.Timeliness.IsValid() || !q.Rate.IsValid() {
		return Qos{}, InvalidData
	}
	if q.Timeliness == format.TimelinessDelayed {
		q.TimeInfo = r.u16()
	}
	if q.Rate == format.RateTimeConflated {
		q.RateInfo = r.u16()
	}

	if r.short || r.remaining() != 0 {
		return Qos{}, InvalidData
	}

	return q, Success
}

// AppendState appends the state byte, the status code and the u15rb text.
//
// Returns InvalidArgument when the text is longer than MaxU15.
func AppendState(dst []byte, s State) ([]byte, Status) {
	if len(s.Text) > MaxU15 {
		return dst, InvalidArgument
	}

	dst = append(dst, uint8(s.Stream)<<3|uint8(s.Data)&0x07, uint8(s.Code))
	w := writer{buf: make([]byte, u15Size(len(s.Text)))}
	w.u15rb(len(s.Text))
	dst = append(dst, w.buf...)

	return append(dst, s.Text...), Success
}

// DecodeState decodes a State. The returned text aliases data.
func DecodeState(data []byte) (State, Status) {
	if len(data) == 0 {
		return State{}, NoData
	}

	r := reader{buf: data}
	b := r.u8()
	s := State{
		Stream: format.StreamState(b >> 3),
		Data:   format.DataState(b & 0x07),
		Code:   format.StatusCode(r.u8()),
	}
	s.Text = r.u15Bytes()

	if r.short || r.remaining() != 0 {
		return State{}, InvalidData
	}

	return s, Success
}

// AppendEnum appends an enum value in one or two bytes.
func AppendEnum(dst []byte, v uint16) []byte {
	return AppendUInt(dst, uint64(v))
}

// DecodeEnum decodes an enum value of one or two bytes.
func DecodeEnum(data []byte) (uint16, Status) {
	if len(data) > 2 {
		return 0, InvalidData
	}

	v, st := DecodeUInt(data)

	return uint16(v), st //nolint:gosec
}

// DecodeMsgClass resolves a nested message blob to its message kind from the
// leading message class byte.
func DecodeMsgClass(data []byte) (format.DataType, Status) {
	if len(data) == 0 {
		return format.Unknown, NoData
	}

	switch data[0] {
	case MsgClassRequest:
		return format.ReqMsg, Success
	case MsgClassRefresh:
		return format.RefreshMsg, Success
	case MsgClassStatus:
		return format.StatusMsg, Success
	case MsgClassUpdate:
		return format.UpdateMsg, Success
	case MsgClassAck:
		return format.AckMsg, Success
	case MsgClassGeneric:
		return format.GenericMsg, Success
	case MsgClassPost:
		return format.PostMsg, Success
	default:
		return format.Unknown, UnsupportedDataType
	}
}

// Message classes carried in the first byte of a nested message blob.
const (
	MsgClassRequest uint8 = 1
	MsgClassRefresh uint8 = 2
	MsgClassStatus  uint8 = 3
	MsgClassUpdate  uint8 = 4
	MsgClassClose   uint8 = 5
	MsgClassAck     uint8 = 6
	MsgClassGeneric uint8 = 7
	MsgClassPost    uint8 = 8
)

// MsgClassOf returns the message class byte for a message kind.
func MsgClassOf(t format.DataType) (uint8, bool) {
	switch t { //nolint:exhaustive
	case format.ReqMsg:
		return MsgClassRequest, true
	case format.RefreshMsg:
		return MsgClassRefresh, true
	case format.StatusMsg:
		return MsgClassStatus, true
	case format.UpdateMsg:
		return MsgClassUpdate, true
	case format.AckMsg:
		return MsgClassAck, true
	case format.GenericMsg:
		return MsgClassGeneric, true
	case format.PostMsg:
		return MsgClassPost, true
	default:
		return 0, false
	}
}

func u15Size(n int) int {
	if n < 0x80 {
		return 1
	}

	return 2
}

func lenobSize(n int) int {
	switch {
	case n < 0xFE:
		return 1
	case n <= 0xFFFF:
		return 3
	default:
		return 5
	}
}
