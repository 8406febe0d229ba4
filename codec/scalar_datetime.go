package codec

import (
	"fmt"
	"time"

	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

var monthNames = [...]string{"   ", "JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

func formatDate(d rwf.Date) string {
	month := "   "
	if int(d.Month) < len(monthNames) {
		month = monthNames[d.Month]
	}

	return fmt.Sprintf("%02d %s %4d", d.Day, month, d.Year)
}

func formatTime(t rwf.Time) string {
	return fmt.Sprintf("%02d:%02d:%02d:%03d:%03d:%03d",
		t.Hour, t.Minute, t.Second, t.Millisecond, t.Microsecond, t.Nanosecond)
}

// Date is a calendar date. The all-zero date is blank.
type Date struct {
	scalarBase
	d rwf.Date
}

var _ scalar = (*Date)(nil)

// DataType returns format.Date.
func (v *Date) DataType() format.DataType { return format.Date }

// Year returns the year (0-4095).
func (v *Date) Year() int { return int(v.d.Year) }

// Month returns the month (0-12).
func (v *Date) Month() int { return int(v.d.Month) }

// Day returns the day of the month (0-31).
func (v *Date) Day() int { return int(v.d.Day) }

// Set assigns the date. All-zero fields make the value blank.
//
// Returns errs.ErrOutOfRange, leaving the value untouched, when a field is out
// of range or the day does not exist in the month.
func (v *Date) Set(year, month, day int) error {
	d, err := dateOf("Date.Set", year, month, day)
	if err != nil {
		return err
	}
	v.d = d
	v.assigned(d.IsBlank())

	return nil
}

// SetBlank makes the value blank.
func (v *Date) SetBlank() {
	v.d = rwf.Date{}
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Date) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Date) String() string {
	if v.blank {
		return blankText
	}

	return formatDate(v.d)
}

func (v *Date) decode(data []byte) rwf.Status {
	d, st := rwf.DecodeDate(data)
	v.d = d
	if st == rwf.Success && d.IsBlank() {
		st = rwf.NoData
	}

	return v.decoded(data, st)
}

func (v *Date) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendDate(dst, v.d)
}

func (v *Date) reset() {
	v.d = rwf.Date{}
	v.resetBase()
}

// Time is a time of day down to the nanosecond.
type Time struct {
	scalarBase
	t rwf.Time
}

var _ scalar = (*Time)(nil)

// DataType returns format.Time.
func (v *Time) DataType() format.DataType { return format.Time }

// Hour returns the hour.
func (v *Time) Hour() int { return int(v.t.Hour) }

// Minute returns the minute.
func (v *Time) Minute() int { return int(v.t.Minute) }

// Second returns the second.
func (v *Time) Second() int { return int(v.t.Second) }

// Millisecond returns the millisecond.
func (v *Time) Millisecond() int { return int(v.t.Millisecond) }

// Microsecond returns the microsecond.
func (v *Time) Microsecond() int { return int(v.t.Microsecond) }

// Nanosecond returns the nanosecond.
func (v *Time) Nanosecond() int { return int(v.t.Nanosecond) }

// Set assigns the time. Passing every blank marker (255 for hour, minute and
// second, 65535 for millisecond, 2047 for micro and nanosecond) makes the
// value blank.
//
// Returns errs.ErrOutOfRange, leaving the value untouched, when a field is out
// of range.
func (v *Time) Set(hour, minute, second, milli, micro, nano int) error {
	t, err := timeOf("Time.Set", hour, minute, second, milli, micro, nano)
	if err != nil {
		return err
	}
	v.t = t
	v.assigned(t.IsBlank())

	return nil
}

// SetBlank makes the value blank.
func (v *Time) SetBlank() {
	v.t = rwf.BlankTime
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Time) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Time) String() string {
	if v.blank {
		return blankText
	}

	return formatTime(v.t)
}

func (v *Time) decode(data []byte) rwf.Status {
	t, st := rwf.DecodeTime(data)
	v.t = t
	if st == rwf.Success && t.IsBlank() {
		st = rwf.NoData
	}

	return v.decoded(data, st)
}

func (v *Time) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendTime(dst, v.t)
}

func (v *Time) reset() {
	v.t = rwf.Time{}
	v.resetBase()
}

// DateTime is a Date followed by a Time.
type DateTime struct {
	scalarBase
	dt rwf.DateTime
}

var _ scalar = (*DateTime)(nil)

// DataType returns format.DateTime.
func (v *DateTime) DataType() format.DataType { return format.DateTime }

// Date returns the wire form of the date part.
func (v *DateTime) Date() rwf.Date { return v.dt.Date }

// Clock returns the wire form of the time part.
func (v *DateTime) Clock() rwf.Time { return v.dt.Time }

// Time converts the value to a UTC time.Time.
func (v *DateTime) Time() time.Time {
	d, t := v.dt.Date, v.dt.Time
	ns := int(t.Millisecond)*1_000_000 + int(t.Microsecond)*1_000 + int(t.Nanosecond)

	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day),
		int(t.Hour), int(t.Minute), int(t.Second), ns, time.UTC)
}

// Set assigns every field. Date and time fields follow Date.Set and Time.Set.
func (v *DateTime) Set(year, month, day, hour, minute, second, milli, micro, nano int) error {
	const op = "DateTime.Set"

	d, err := dateOf(op, year, month, day)
	if err != nil {
		return err
	}
	t, err := timeOf(op, hour, minute, second, milli, micro, nano)
	if err != nil {
		return err
	}
	v.dt = rwf.DateTime{Date: d, Time: t}
	v.assigned(false)

	return nil
}

// SetTime assigns t converted to UTC.
func (v *DateTime) SetTime(t time.Time) error {
	dt, err := dateTimeOf("DateTime.SetTime", t)
	if err != nil {
		return err
	}
	v.dt = dt
	v.assigned(false)

	return nil
}

// SetBlank makes the value blank.
func (v *DateTime) SetBlank() {
	v.dt = rwf.DateTime{Time: rwf.BlankTime}
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *DateTime) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *DateTime) String() string {
	if v.blank {
		return blankText
	}

	return formatDate(v.dt.Date) + " " + formatTime(v.dt.Time)
}

func (v *DateTime) decode(data []byte) rwf.Status {
	dt, st := rwf.DecodeDateTime(data)
	v.dt = dt
	if st == rwf.Success && dt.Date.IsBlank() && dt.Time.IsBlank() {
		st = rwf.NoData
	}

	return v.decoded(data, st)
}

func (v *DateTime) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendDateTime(dst, v.dt)
}

func (v *DateTime) reset() {
	v.dt = rwf.DateTime{}
	v.resetBase()
}
