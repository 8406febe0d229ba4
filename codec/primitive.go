package codec

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// appendFunc appends the wire form of one primitive to dst.
type appendFunc func(dst []byte) ([]byte, error)

// Limits of the Date and Time fields.
const (
	maxYear   = 4095
	maxMonth  = 12
	maxDay    = 31
	maxHour   = 23
	maxMinute = 59
	maxSecond = 60 // leap second
	maxMilli  = 999
	maxMicro  = 999
	maxNano   = 999
)

func outOfRange(op string, field string, v int) error {
	return errs.New(errs.KindOutOfRange, op, fmt.Sprintf("%s %d out of range", field, v))
}

func checkMagnitude(op string, hint format.MagnitudeType) error {
	if !hint.IsValid() {
		return errs.New(errs.KindInvalidValue, op, fmt.Sprintf("invalid magnitude type %d", hint))
	}

	return nil
}

// realFromDouble converts v to a mantissa under hint. NaN and infinities map to
// the special hints whatever hint was requested.
func realFromDouble(op string, v float64, hint format.MagnitudeType) (int64, format.MagnitudeType, error) {
	if !hint.IsExponent() && !hint.IsDivisor() {
		return 0, 0, errs.New(errs.KindInvalidValue, op, "magnitude type must be an exponent or a divisor: "+hint.String())
	}

	switch {
	case math.IsNaN(v):
		return 0, format.NotANumber, nil
	case math.IsInf(v, 1):
		return 0, format.Infinity, nil
	case math.IsInf(v, -1):
		return 0, format.NegInfinity, nil
	}

	var scaled float64
	switch {
	case hint.IsDivisor():
		scaled = v * float64(uint64(1)<<uint(hint.DivisorShift())) //nolint:gosec
	case hint.Exponent() < 0:
		scaled = v * math.Pow10(-hint.Exponent())
	default:
		scaled = v / math.Pow10(hint.Exponent())
	}

	m := math.Round(scaled)
	if m >= math.MaxInt64 || m < math.MinInt64 {
		return 0, 0, errs.New(errs.KindInvalidValue, op, "mantissa overflow")
	}

	return int64(m), hint, nil
}

// realToDouble converts a mantissa and hint back to a float64.
func realToDouble(mantissa int64, hint format.MagnitudeType) float64 {
	switch {
	case hint == format.Infinity:
		return math.Inf(1)
	case hint == format.NegInfinity:
		return math.Inf(-1)
	case hint == format.NotANumber:
		return math.NaN()
	case hint.IsDivisor():
		return float64(mantissa) / float64(uint64(1)<<uint(hint.DivisorShift())) //nolint:gosec
	case hint.Exponent() < 0:
		return float64(mantissa) / math.Pow10(-hint.Exponent())
	default:
		return float64(mantissa) * math.Pow10(hint.Exponent())
	}
}

func dateOf(op string, year, month, day int) (rwf.Date, error) {
	switch {
	case year < 0 || year > maxYear:
		return rwf.Date{}, outOfRange(op, "year", year)
	case month < 0 || month > maxMonth:
		return rwf.Date{}, outOfRange(op, "month", month)
	case day < 0 || day > maxDay:
		return rwf.Date{}, outOfRange(op, "day", day)
	}

	if year != 0 && month != 0 && day != 0 {
		last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		if day > last {
			return rwf.Date{}, outOfRange(op, "day", day)
		}
	}

	return rwf.Date{Year: uint16(year), Month: uint8(month), Day: uint8(day)}, nil //nolint:gosec
}

func timeOf(op string, hour, minute, second, milli, micro, nano int) (rwf.Time, error) {
	if hour == int(rwf.BlankTime.Hour) && minute == int(rwf.BlankTime.Minute) &&
		second == int(rwf.BlankTime.Second) && milli == int(rwf.BlankTime.Millisecond) &&
		micro == int(rwf.BlankTime.Microsecond) && nano == int(rwf.BlankTime.Nanosecond) {
		return rwf.BlankTime, nil
	}

	switch {
	case hour < 0 || hour > maxHour:
		return rwf.Time{}, outOfRange(op, "hour", hour)
	case minute < 0 || minute > maxMinute:
		return rwf.Time{}, outOfRange(op, "minute", minute)
	case second < 0 || second > maxSecond:
		return rwf.Time{}, outOfRange(op, "second", second)
	case milli < 0 || milli > maxMilli:
		return rwf.Time{}, outOfRange(op, "millisecond", milli)
	case micro < 0 || micro > maxMicro:
		return rwf.Time{}, outOfRange(op, "microsecond", micro)
	case nano < 0 || nano > maxNano:
		return rwf.Time{}, outOfRange(op, "nanosecond", nano)
	}

	return rwf.Time{
		Hour: uint8(hour), Minute: uint8(minute), Second: uint8(second), //nolint:gosec
		Millisecond: uint16(milli), Microsecond: uint16(micro), Nanosecond: uint16(nano), //nolint:gosec
	}, nil
}

// dateTimeOf converts t, in UTC, to its wire form.
func dateTimeOf(op string, t time.Time) (rwf.DateTime, error) {
	t = t.UTC()
	d, err := dateOf(op, t.Year(), int(t.Month()), t.Day())
	if err != nil {
		return rwf.DateTime{}, err
	}

	ns := t.Nanosecond()
	tm, err := timeOf(op, t.Hour(), t.Minute(), t.Second(), ns/1_000_000, ns/1_000%1_000, ns%1_000)
	if err != nil {
		return rwf.DateTime{}, err
	}

	return rwf.DateTime{Date: d, Time: tm}, nil
}

func checkQos(op string, q rwf.Qos) error {
	if !q.Timeliness.IsValid() {
		return outOfRange(op, "timeliness", int(q.Timeliness))
	}
	if !q.Rate.IsValid() {
		return outOfRange(op, "rate", int(q.Rate))
	}

	return nil
}

func stateOf(op string, stream format.StreamState, data format.DataState, code format.StatusCode, text string) (rwf.State, error) {
	switch {
	case !stream.IsValid():
		return rwf.State{}, outOfRange(op, "stream state", int(stream))
	case !data.IsValid():
		return rwf.State{}, outOfRange(op, "data state", int(data))
	case len(text) > rwf.MaxU15:
		return rwf.State{}, outOfRange(op, "text length", len(text))
	}

	return rwf.State{Stream: stream, Data: data, Code: code, Text: []byte(text)}, nil
}

func intBytes(v int64) appendFunc {
	return func(dst []byte) ([]byte, error) { return rwf.AppendInt(dst, v), nil }
}

func uintBytes(v uint64) appendFunc {
	return func(dst []byte) ([]byte, error) { return rwf.AppendUInt(dst, v), nil }
}

func floatBytes(v float32) appendFunc {
	return func(dst []byte) ([]byte, error) { return rwf.AppendFloat(dst, v), nil }
}

func doubleBytes(v float64) appendFunc {
	return func(dst []byte) ([]byte, error) { return rwf.AppendDouble(dst, v), nil }
}

func enumBytes(v uint16) appendFunc {
	return func(dst []byte) ([]byte, error) { return rwf.AppendEnum(dst, v), nil }
}

func realBytes(op string, mantissa int64, hint format.MagnitudeType) appendFunc {
	return func(dst []byte) ([]byte, error) {
		if err := checkMagnitude(op, hint); err != nil {
			return dst, err
		}
		out, _ := rwf.AppendReal(dst, mantissa, hint)

		return out, nil
	}
}

func realFromDoubleBytes(op string, v float64, hint format.MagnitudeType) appendFunc {
	return func(dst []byte) ([]byte, error) {
		mantissa, h, err := realFromDouble(op, v, hint)
		if err != nil {
			return dst, err
		}
		out, _ := rwf.AppendReal(dst, mantissa, h)

		return out, nil
	}
}

func dateBytes(op string, year, month, day int) appendFunc {
	return func(dst []byte) ([]byte, error) {
		d, err := dateOf(op, year, month, day)
		if err != nil {
			return dst, err
		}

		return rwf.AppendDate(dst, d), nil
	}
}

func timeBytes(op string, hour, minute, second, milli, micro, nano int) appendFunc {
	return func(dst []byte) ([]byte, error) {
		t, err := timeOf(op, hour, minute, second, milli, micro, nano)
		if err != nil {
			return dst, err
		}

		return rwf.AppendTime(dst, t), nil
	}
}

func dateTimeBytes(op string, t time.Time) appendFunc {
	return func(dst []byte) ([]byte, error) {
		dt, err := dateTimeOf(op, t)
		if err != nil {
			return dst, err
		}

		return rwf.AppendDateTime(dst, dt), nil
	}
}

func qosBytes(op string, q rwf.Qos) appendFunc {
	return func(dst []byte) ([]byte, error) {
		if err := checkQos(op, q); err != nil {
			return dst, err
		}

		return rwf.AppendQos(dst, q), nil
	}
}

func stateBytes(op string, stream format.StreamState, data format.DataState, code format.StatusCode, text string) appendFunc {
	return func(dst []byte) ([]byte, error) {
		s, err := stateOf(op, stream, data, code, text)
		if err != nil {
			return dst, err
		}
		out, _ := rwf.AppendState(dst, s)

		return out, nil
	}
}

func rawBytes(b []byte) appendFunc {
	return func(dst []byte) ([]byte, error) { return append(dst, b...), nil }
}

func stringBytes(s string) appendFunc {
	return func(dst []byte) ([]byte, error) { return append(dst, s...), nil }
}

func blankBytes(op string, kind format.DataType) appendFunc {
	return func(dst []byte) ([]byte, error) {
		if !kind.IsPrimitive() {
			return dst, errs.New(errs.KindInvalidArgument, op, "only primitive kinds can be blank: "+kind.String())
		}

		return dst, nil
	}
}
