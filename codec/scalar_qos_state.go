package codec

import (
	"strconv"

	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// Qos is a quality-of-service descriptor.
type Qos struct {
	scalarBase
	q rwf.Qos
}

var _ scalar = (*Qos)(nil)

// DataType returns format.Qos.
func (v *Qos) DataType() format.DataType { return format.Qos }

// Timeliness returns the timeliness.
func (v *Qos) Timeliness() format.Timeliness { return v.q.Timeliness }

// Rate returns the rate.
func (v *Qos) Rate() format.Rate { return v.q.Rate }

// IsDynamic reports whether the Qos may change over the stream's life.
func (v *Qos) IsDynamic() bool { return v.q.Dynamic }

// TimeInfo returns the delay in seconds of a TimelinessDelayed Qos.
func (v *Qos) TimeInfo() uint16 { return v.q.TimeInfo }

// RateInfo returns the conflation interval of a RateTimeConflated Qos.
func (v *Qos) RateInfo() uint16 { return v.q.RateInfo }

// Set assigns the Qos.
//
// Returns errs.ErrOutOfRange, leaving the value untouched, for an undefined
// timeliness or rate.
func (v *Qos) Set(q rwf.Qos) error {
	if err := checkQos("Qos.Set", q); err != nil {
		return err
	}
	v.q = q
	v.assigned(false)

	return nil
}

// SetBlank makes the value blank.
func (v *Qos) SetBlank() {
	v.q = rwf.Qos{}
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Qos) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Qos) String() string {
	if v.blank {
		return blankText
	}

	return formatQos(v.q)
}

func formatQos(q rwf.Qos) string {
	timeliness := q.Timeliness.String()
	if q.Timeliness == format.TimelinessDelayed {
		timeliness = "Timeliness: " + strconv.Itoa(int(q.TimeInfo))
	}
	rate := q.Rate.String()
	if q.Rate == format.RateTimeConflated {
		rate = "Rate: " + strconv.Itoa(int(q.RateInfo))
	}

	return timeliness + "/" + rate
}

func (v *Qos) decode(data []byte) rwf.Status {
	q, st := rwf.DecodeQos(data)
	v.q = q

	return v.decoded(data, st)
}

func (v *Qos) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}

	return rwf.AppendQos(dst, v.q)
}

func (v *Qos) reset() {
	v.q = rwf.Qos{}
	v.resetBase()
}

// State is a stream state, a data state, a status code and a status text.
type State struct {
	scalarBase
	s    rwf.State
	text []byte
}

var _ scalar = (*State)(nil)

// DataType returns format.State.
func (v *State) DataType() format.DataType { return format.State }

// StreamState returns the stream state.
func (v *State) StreamState() format.StreamState { return v.s.Stream }

// DataState returns the data state.
func (v *State) DataState() format.DataState { return v.s.Data }

// StatusCode returns the status code.
func (v *State) StatusCode() format.StatusCode { return v.s.Code }

// Text returns the status text.
func (v *State) Text() string { return string(v.s.Text) }

// Set assigns the state.
//
// Returns errs.ErrOutOfRange, leaving the value untouched, for an undefined
// stream or data state or a text longer than rwf.MaxU15 bytes.
func (v *State) Set(stream format.StreamState, data format.DataState, code format.StatusCode, text string) error {
	s, err := stateOf("State.Set", stream, data, code, text)
	if err != nil {
		return err
	}
	v.text = append(v.text[:0], text...)
	s.Text = v.text
	v.s = s
	v.assigned(false)

	return nil
}

// SetBlank makes the value blank.
func (v *State) SetBlank() {
	v.s = rwf.State{}
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *State) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *State) String() string {
	if v.blank {
		return blankText
	}

	return v.s.Stream.String() + " / " + v.s.Data.String() + " / " + v.s.Code.String() +
		" / '" + string(v.s.Text) + "'"
}

func (v *State) decode(data []byte) rwf.Status {
	s, st := rwf.DecodeState(data)
	v.s = s

	return v.decoded(data, st)
}

func (v *State) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}
	out, _ := rwf.AppendState(dst, v.s)

	return out
}

func (v *State) reset() {
	v.s = rwf.State{}
	v.text = v.text[:0]
	v.resetBase()
}
