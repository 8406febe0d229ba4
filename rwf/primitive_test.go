package rwf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/format"
)

func TestInt(t *testing.T) {
	tests := []struct {
		v    int64
		size int
	}{
		{0, 1},
		{127, 1},
		{-128, 1},
		{128, 2},
		{-129, 2},
		{1 << 40, 6},
		{math.MaxInt64, 8},
		{math.MinInt64, 8},
	}

	for _, tt := range tests {
		buf := AppendInt(nil, tt.v)
		require.Len(t, buf, tt.size, "v=%d", tt.v)

		got, st := DecodeInt(buf)
		require.Equal(t, Success, st)
		require.Equal(t, tt.v, got)
	}

	_, st := DecodeInt(nil)
	require.Equal(t, NoData, st)
	_, st = DecodeInt(make([]byte, 9))
	require.Equal(t, InvalidData, st)
}

func TestIntFixed(t *testing.T) {
	buf, ok := AppendIntFixed(nil, -2, 4)
	require.True(t, ok)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFE}, buf)

	got, st := DecodeInt(buf)
	require.Equal(t, Success, st)
	require.Equal(t, int64(-2), got)

	_, ok = AppendIntFixed(nil, 300, 1)
	require.False(t, ok)
	_, ok = AppendIntFixed(nil, 1, 3)
	require.False(t, ok)
}

func TestUInt(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 256, 1 << 32, math.MaxUint64} {
		got, st := DecodeUInt(AppendUInt(nil, v))
		require.Equal(t, Success, st)
		require.Equal(t, v, got)
	}

	buf, ok := AppendUIntFixed(nil, 0x0102, 2)
	require.True(t, ok)
	require.Equal(t, []byte{0x01, 0x02}, buf)

	_, ok = AppendUIntFixed(nil, 0x010203, 2)
	require.False(t, ok)
}

func TestFloatDouble(t *testing.T) {
	f, st := DecodeFloat(AppendFloat(nil, 1.5))
	require.Equal(t, Success, st)
	require.Equal(t, float32(1.5), f)

	d, st := DecodeDouble(AppendDouble(nil, -3.25))
	require.Equal(t, Success, st)
	require.Equal(t, -3.25, d)

	_, st = DecodeFloat([]byte{1, 2})
	require.Equal(t, InvalidData, st)
	_, st = DecodeDouble(nil)
	require.Equal(t, NoData, st)
}

func TestReal(t *testing.T) {
	t.Run("exponent", func(t *testing.T) {
		buf, st := AppendReal(nil, 10001, format.ExponentNeg2)
		require.Equal(t, Success, st)
		require.Equal(t, uint8(format.ExponentNeg2), buf[0])

		m, hint, st := DecodeReal(buf)
		require.Equal(t, Success, st)
		require.Equal(t, int64(10001), m)
		require.Equal(t, format.ExponentNeg2, hint)
	})

	t.Run("special values carry no mantissa", func(t *testing.T) {
		buf, st := AppendReal(nil, 42, format.Infinity)
		require.Equal(t, Success, st)
		require.Len(t, buf, 1)

		_, hint, st := DecodeReal(buf)
		require.Equal(t, Success, st)
		require.Equal(t, format.Infinity, hint)
	})

	t.Run("invalid hint", func(t *testing.T) {
		_, st := AppendReal(nil, 1, format.MagnitudeType(31))
		require.Equal(t, InvalidArgument, st)

		_, _, st = DecodeReal([]byte{32, 1})
		require.Equal(t, InvalidData, st)
	})

	t.Run("blank", func(t *testing.T) {
		_, _, st := DecodeReal(nil)
		require.Equal(t, NoData, st)
	})

	t.Run("missing mantissa", func(t *testing.T) {
		_, _, st := DecodeReal([]byte{byte(format.Exponent0)})
		require.Equal(t, InvalidData, st)
	})
}

func TestDateTime(t *testing.T) {
	d := Date{Year: 2024, Month: 3, Day: 15}
	gotDate, st := DecodeDate(AppendDate(nil, d))
	require.Equal(t, Success, st)
	require.Equal(t, d, gotDate)

	times := []Time{
		{Hour: 9, Minute: 30},
		{Hour: 9, Minute: 30, Second: 5},
		{Hour: 9, Minute: 30, Second: 5, Millisecond: 250},
		{Hour: 9, Minute: 30, Second: 5, Millisecond: 250, Microsecond: 7},
		{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999},
	}
	for _, tm := range times {
		got, st := DecodeTime(AppendTime(nil, tm))
		require.Equal(t, Success, st)
		require.Equal(t, tm, got)
	}

	require.Len(t, AppendTime(nil, Time{Hour: 1}), 3)
	require.Len(t, AppendTime(nil, Time{Nanosecond: 1}), 9)

	dt := DateTime{Date: d, Time: times[3]}
	gotDT, st := DecodeDateTime(AppendDateTime(nil, dt))
	require.Equal(t, Success, st)
	require.Equal(t, dt, gotDT)

	_, st = DecodeTime([]byte{1, 2, 3, 4})
	require.Equal(t, InvalidData, st)
	_, st = DecodeDateTime([]byte{1, 2, 3, 4})
	require.Equal(t, InvalidData, st)
}

func TestQos(t *testing.T) {
	tests := []Qos{
		{Timeliness: format.TimelinessRealTime, Rate: format.RateTickByTick},
		{Timeliness: format.TimelinessDelayed, Rate: format.RateTimeConflated, Dynamic: true, TimeInfo: 15, RateInfo: 500},
		{Timeliness: format.TimelinessDelayedUnknown, Rate: format.RateJitConflated},
	}

	for _, q := range tests {
		got, st := DecodeQos(AppendQos(nil, q))
		require.Equal(t, Success, st)
		require.Equal(t, q, got)
	}

	_, st := DecodeQos([]byte{byte(format.TimelinessDelayed) << 5})
	require.Equal(t, InvalidData, st, "missing time info")
}

func TestState(t *testing.T) {
	s := State{Stream: format.StreamOpen, Data: format.DataOk, Code: 0, Text: []byte("All is well")}
	buf, st := AppendState(nil, s)
	require.Equal(t, Success, st)

	got, st := DecodeState(buf)
	require.Equal(t, Success, st)
	require.Equal(t, s, got)

	long := State{Text: make([]byte, 200)}
	buf, st = AppendState(nil, long)
	require.Equal(t, Success, st)
	got, st = DecodeState(buf)
	require.Equal(t, Success, st)
	require.Len(t, got.Text, 200)

	_, st = AppendState(nil, State{Text: make([]byte, MaxU15+1)})
	require.Equal(t, InvalidArgument, st)
}

func TestEnum(t *testing.T) {
	for _, v := range []uint16{0, 1, 255, 256, 65535} {
		got, st := DecodeEnum(AppendEnum(nil, v))
		require.Equal(t, Success, st)
		require.Equal(t, v, got)
	}

	_, st := DecodeEnum([]byte{1, 2, 3})
	require.Equal(t, InvalidData, st)
}

func TestDecodeMsgClass(t *testing.T) {
	for _, kind := range []format.DataType{
		format.ReqMsg, format.RefreshMsg, format.StatusMsg, format.UpdateMsg,
		format.AckMsg, format.GenericMsg, format.PostMsg,
	} {
		class, ok := MsgClassOf(kind)
		require.True(t, ok)

		got, st := DecodeMsgClass([]byte{class, 0xAA})
		require.Equal(t, Success, st)
		require.Equal(t, kind, got)
	}

	_, st := DecodeMsgClass([]byte{MsgClassClose})
	require.Equal(t, UnsupportedDataType, st)
	_, st = DecodeMsgClass(nil)
	require.Equal(t, NoData, st)
}
