package codec

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

func TestInt(t *testing.T) {
	var v Int
	v.Set(-1234)
	assert.Equal(t, "-1234", v.String())
	assert.Equal(t, format.NoCode, v.Code())

	x, st := rwf.DecodeInt(v.EncodedData())
	require.Equal(t, rwf.Success, st)
	assert.Equal(t, int64(-1234), x)

	v.SetBlank()
	assert.True(t, v.IsBlank())
	assert.Equal(t, format.Blank, v.Code())
	assert.Equal(t, "(blank data)", v.String())
	assert.Empty(t, v.EncodedData())
}

func TestUIntAndEnum(t *testing.T) {
	var u UInt
	u.Set(math.MaxUint64)
	assert.Equal(t, "18446744073709551615", u.String())

	x, st := rwf.DecodeUInt(u.EncodedData())
	require.Equal(t, rwf.Success, st)
	assert.Equal(t, uint64(math.MaxUint64), x)

	var e Enum
	e.Set(29)
	assert.Equal(t, "29", e.String())
	assert.Equal(t, uint16(29), e.Value())
	e.SetBlank()
	assert.Equal(t, "(blank data)", e.String())
}

func TestFloatAndDouble(t *testing.T) {
	var f Float
	f.Set(1.5)
	assert.Equal(t, "1.5", f.String())
	assert.Len(t, f.EncodedData(), 4)

	var d Double
	d.Set(-0.25)
	assert.Equal(t, "-0.25", d.String())
	assert.Len(t, d.EncodedData(), 8)

	d.SetBlank()
	assert.True(t, d.IsBlank())
	assert.Empty(t, d.EncodedData())
}

func TestReal(t *testing.T) {
	tests := []struct {
		name     string
		mantissa int64
		hint     format.MagnitudeType
		want     string
		double   float64
	}{
		{"ExponentNeg2", 3990, format.ExponentNeg2, "39.90", 39.9},
		{"TrailingZeros", 1100, format.ExponentNeg2, "11.00", 11},
		{"SmallNegative", -5, format.ExponentNeg2, "-0.05", -0.05},
		{"Exponent0", 42, format.Exponent0, "42", 42},
		{"ExponentPos1", 42, format.ExponentPos1, "420", 420},
		{"Divisor2", 3, format.Divisor2, "1.5", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Real
			require.NoError(t, v.Set(tt.mantissa, tt.hint))
			assert.Equal(t, tt.want, v.String())
			assert.InDelta(t, tt.double, v.AsDouble(), 1e-9)

			m, h, st := rwf.DecodeReal(v.EncodedData())
			require.Equal(t, rwf.Success, st)
			assert.Equal(t, tt.mantissa, m)
			assert.Equal(t, tt.hint, h)
		})
	}

	t.Run("Special", func(t *testing.T) {
		var v Real
		require.NoError(t, v.Set(7, format.Infinity))
		assert.Equal(t, "Inf", v.String())
		assert.Equal(t, int64(0), v.Mantissa())
		assert.True(t, math.IsInf(v.AsDouble(), 1))

		require.NoError(t, v.SetFromDouble(math.NaN(), format.ExponentNeg2))
		assert.Equal(t, format.NotANumber, v.MagnitudeType())
		assert.Equal(t, "NaN", v.String())
	})

	t.Run("FromDouble", func(t *testing.T) {
		var v Real
		require.NoError(t, v.SetFromDouble(39.9, format.ExponentNeg2))
		assert.Equal(t, int64(3990), v.Mantissa())
		assert.Equal(t, "39.90", v.String())

		require.NoError(t, v.SetFromDouble(0.75, format.Divisor4))
		assert.Equal(t, int64(3), v.Mantissa())
	})

	t.Run("InvalidHint", func(t *testing.T) {
		var v Real
		require.NoError(t, v.Set(1, format.Exponent0))

		require.ErrorIs(t, v.Set(5, format.MagnitudeType(31)), errs.ErrInvalidValue)
		require.ErrorIs(t, v.SetFromDouble(1, format.Infinity), errs.ErrInvalidValue)
		require.ErrorIs(t, v.SetFromDouble(1e300, format.ExponentNeg14), errs.ErrInvalidValue)
		assert.Equal(t, int64(1), v.Mantissa(), "failed sets leave the value untouched")
	})
}

func TestDate(t *testing.T) {
	var v Date
	require.NoError(t, v.Set(2024, 3, 15))
	assert.Equal(t, "15 MAR 2024", v.String())
	assert.Equal(t, 2024, v.Year())
	assert.Equal(t, 3, v.Month())
	assert.Len(t, v.EncodedData(), 4)

	require.NoError(t, v.Set(2024, 2, 29))
	require.ErrorIs(t, v.Set(2023, 2, 29), errs.ErrOutOfRange)
	require.ErrorIs(t, v.Set(2024, 13, 1), errs.ErrOutOfRange)
	require.ErrorIs(t, v.Set(4096, 1, 1), errs.ErrOutOfRange)
	assert.Equal(t, 29, v.Day())

	require.NoError(t, v.Set(0, 0, 0))
	assert.True(t, v.IsBlank())
	assert.Equal(t, "(blank data)", v.String())

	require.NoError(t, v.Set(2024, 0, 0), "partial dates are allowed")
	assert.False(t, v.IsBlank())
}

func TestTime(t *testing.T) {
	var v Time
	require.NoError(t, v.Set(9, 30, 5, 123, 456, 789))
	assert.Equal(t, "09:30:05:123:456:789", v.String())
	assert.Equal(t, 456, v.Microsecond())

	require.NoError(t, v.Set(23, 59, 60, 0, 0, 0), "leap second")
	require.ErrorIs(t, v.Set(24, 0, 0, 0, 0, 0), errs.ErrOutOfRange)
	require.ErrorIs(t, v.Set(1, 0, 0, 1000, 0, 0), errs.ErrOutOfRange)
	require.ErrorIs(t, v.Set(1, 0, 0, 0, 0, -1), errs.ErrOutOfRange)
	assert.Equal(t, 60, v.Second())

	v.SetBlank()
	assert.Equal(t, "(blank data)", v.String())
}

func TestDateTime(t *testing.T) {
	var v DateTime
	ts := time.Date(2024, 3, 15, 9, 30, 5, 123456789, time.UTC)
	require.NoError(t, v.SetTime(ts))
	assert.True(t, ts.Equal(v.Time()))
	assert.Equal(t, "15 MAR 2024 09:30:05:123:456:789", v.String())

	local := ts.In(time.FixedZone("UTC+8", 8*3600))
	require.NoError(t, v.SetTime(local))
	assert.Equal(t, uint8(9), v.Clock().Hour)

	require.NoError(t, v.Set(2024, 3, 15, 0, 0, 0, 0, 0, 0))
	assert.Equal(t, uint8(15), v.Date().Day)
	require.ErrorIs(t, v.Set(2024, 3, 15, 25, 0, 0, 0, 0, 0), errs.ErrOutOfRange)
	require.ErrorIs(t, v.SetTime(time.Date(5000, 1, 1, 0, 0, 0, 0, time.UTC)), errs.ErrOutOfRange)

	v.SetBlank()
	assert.True(t, v.IsBlank())
	assert.Equal(t, "(blank data)", v.String())
}

func TestQos(t *testing.T) {
	var v Qos
	require.NoError(t, v.Set(rwf.Qos{Timeliness: format.TimelinessRealTime, Rate: format.RateTickByTick}))
	assert.Equal(t, "RealTime/TickByTick", v.String())
	assert.Equal(t, format.RateTickByTick, v.Rate())

	require.NoError(t, v.Set(rwf.Qos{
		Timeliness: format.TimelinessDelayed,
		TimeInfo:   15,
		Rate:       format.RateTimeConflated,
		RateInfo:   500,
		Dynamic:    true,
	}))
	assert.Equal(t, "Timeliness: 15/Rate: 500", v.String())
	assert.True(t, v.IsDynamic())

	q, st := rwf.DecodeQos(v.EncodedData())
	require.Equal(t, rwf.Success, st)
	assert.Equal(t, uint16(15), q.TimeInfo)
	assert.Equal(t, uint16(500), q.RateInfo)

	require.ErrorIs(t, v.Set(rwf.Qos{Timeliness: format.Timeliness(9)}), errs.ErrOutOfRange)
	require.ErrorIs(t, v.Set(rwf.Qos{Rate: format.Rate(9)}), errs.ErrOutOfRange)
	assert.Equal(t, uint16(500), v.RateInfo())
}

func TestState(t *testing.T) {
	var v State
	require.NoError(t, v.Set(format.StreamOpen, format.DataOk, format.StatusNone, "All is well"))
	assert.Equal(t, "Open / Ok / None / 'All is well'", v.String())
	assert.Equal(t, format.StreamOpen, v.StreamState())
	assert.Equal(t, "All is well", v.Text())

	s, st := rwf.DecodeState(v.EncodedData())
	require.Equal(t, rwf.Success, st)
	assert.Equal(t, format.DataOk, s.Data)
	assert.Equal(t, "All is well", string(s.Text))

	require.ErrorIs(t, v.Set(format.StreamState(9), format.DataOk, format.StatusNone, ""), errs.ErrOutOfRange)
	require.ErrorIs(t, v.Set(format.StreamOpen, format.DataState(9), format.StatusNone, ""), errs.ErrOutOfRange)
	assert.Equal(t, "All is well", v.Text())
}

func TestBuffer(t *testing.T) {
	v := &Buffer{kind: format.Buffer}
	v.Set([]byte{0xde, 0xad})
	assert.Equal(t, "de ad", v.String())
	assert.Equal(t, []byte{0xde, 0xad}, v.EncodedData())

	src := []byte("IBM.N")
	a := &Buffer{kind: format.Ascii}
	a.Set(src)
	src[0] = 'X'
	assert.Equal(t, "IBM.N", a.String(), "Set copies its input")

	a.SetString("")
	assert.True(t, a.IsBlank())
	assert.Equal(t, "(blank data)", a.String())
}

func TestOpaqueNoDataError(t *testing.T) {
	o := &Opaque{kind: format.Json}
	o.Set([]byte(`{}`))
	assert.Equal(t, "Json\n    7b 7d\nJsonEnd\n", o.String())

	var nd NoData
	assert.Equal(t, "NoData\nNoDataEnd\n", nd.String())
	assert.Nil(t, nd.EncodedData())

	ev := &ErrorValue{code: format.IncompleteData, raw: []byte{0x01}}
	assert.Equal(t, format.IncompleteData, ev.ErrorCode())
	assert.Equal(t, "OmmError\n    ErrorCode=\"IncompleteData\"\nOmmErrorEnd\n", ev.String())
}
