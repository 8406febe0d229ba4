package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
)

func TestArray_RoundTrip(t *testing.T) {
	reg := MustNewRegistry()

	a := reg.NewArray()
	defer a.ReturnToPool()
	require.NoError(t, a.AddInt(1))
	require.NoError(t, a.AddInt(-300))
	require.NoError(t, a.AddBlank(format.Int))
	require.NoError(t, a.Complete())

	want := strings.Join([]string{
		`OmmArray with entries of dataType="Int"`,
		`    value="1"`,
		`    value="-300"`,
		`    value="(blank data)"`,
		`OmmArrayEnd`,
		``,
	}, "\n")
	assert.Equal(t, want, a.String())

	out := reg.NewArray()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(a.EncodedData(), major, minor))
	assert.Equal(t, format.Int, out.PrimitiveType())
	assert.Equal(t, 0, out.ItemWidth())
	require.Equal(t, 3, out.Size())

	e, _ := out.Entry(1)
	i, err := e.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(-300), i.Value())

	e, _ = out.Entry(2)
	assert.Equal(t, format.Blank, e.Code())
	assert.Equal(t, want, out.String())
}

func TestArray_FixedWidth(t *testing.T) {
	reg := MustNewRegistry()

	t.Run("Int", func(t *testing.T) {
		a := reg.NewArray()
		defer a.ReturnToPool()
		require.NoError(t, a.FixedWidth(2))
		require.NoError(t, a.AddInt(1))
		require.NoError(t, a.AddInt(-2))
		require.ErrorIs(t, a.AddInt(70000), errs.ErrOutOfRange)
		require.ErrorIs(t, a.AddBlank(format.Int), errs.ErrInvalidArgument)
		require.ErrorIs(t, a.FixedWidth(4), errs.ErrInvalidUsage)

		out := reg.NewArray()
		defer out.ReturnToPool()
		require.NoError(t, out.Decode(a.EncodedData(), major, minor))
		assert.Equal(t, 2, out.ItemWidth())
		require.Equal(t, 2, out.Size())

		e, _ := out.Entry(1)
		i, err := e.Int()
		require.NoError(t, err)
		assert.Equal(t, int64(-2), i.Value())
		assert.Contains(t, out.String(), `fixedWidth="2"`)
	})

	t.Run("UIntAndEnum", func(t *testing.T) {
		a := reg.NewArray()
		defer a.ReturnToPool()
		require.NoError(t, a.FixedWidth(1))
		require.NoError(t, a.AddUInt(255))
		require.ErrorIs(t, a.AddUInt(256), errs.ErrOutOfRange)

		b := reg.NewArray()
		defer b.ReturnToPool()
		require.NoError(t, b.FixedWidth(2))
		require.NoError(t, b.AddEnum(29))

		out := reg.NewArray()
		defer out.ReturnToPool()
		require.NoError(t, out.Decode(b.EncodedData(), major, minor))
		e, _ := out.Entry(0)
		en, err := e.Enum()
		require.NoError(t, err)
		assert.Equal(t, uint16(29), en.Value())
	})

	t.Run("InvalidWidthForKind", func(t *testing.T) {
		a := reg.NewArray()
		defer a.ReturnToPool()
		require.ErrorIs(t, a.FixedWidth(-1), errs.ErrOutOfRange)
		require.NoError(t, a.FixedWidth(3))
		require.ErrorIs(t, a.AddInt(1), errs.ErrInvalidArgument)
		require.ErrorIs(t, a.AddDouble(1), errs.ErrInvalidArgument)
		require.NoError(t, a.AddAscii("ABC"))
		require.ErrorIs(t, a.AddAscii("AB"), errs.ErrInvalidArgument)

		out := reg.NewArray()
		defer out.ReturnToPool()
		require.NoError(t, out.Decode(a.EncodedData(), major, minor))
		assert.Equal(t, format.Ascii, out.PrimitiveType())
		assert.Equal(t, 1, out.Size())
	})

	t.Run("FloatAndDate", func(t *testing.T) {
		a := reg.NewArray()
		defer a.ReturnToPool()
		require.NoError(t, a.FixedWidth(4))
		require.NoError(t, a.AddDate(2024, 3, 15))

		out := reg.NewArray()
		defer out.ReturnToPool()
		require.NoError(t, out.Decode(a.EncodedData(), major, minor))
		e, _ := out.Entry(0)
		d, err := e.Date()
		require.NoError(t, err)
		assert.Equal(t, 15, d.Day())
	})
}

func TestArray_SingleKind(t *testing.T) {
	reg := MustNewRegistry()

	a := reg.NewArray()
	defer a.ReturnToPool()
	require.NoError(t, a.AddAscii("A"))
	require.ErrorIs(t, a.AddInt(1), errs.ErrInvalidOperation)
	require.ErrorIs(t, a.AddBlank(format.FieldList), errs.ErrInvalidOperation)
	require.NoError(t, a.AddAscii("B"))

	out := reg.NewArray()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(a.EncodedData(), major, minor))
	require.Equal(t, 2, out.Size())

	var got []string
	for e := range out.All() {
		got = append(got, e.Load().String())
	}
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestArray_Empty(t *testing.T) {
	reg := MustNewRegistry()

	a := reg.NewArray()
	defer a.ReturnToPool()
	require.NoError(t, a.Complete())

	out := reg.NewArray()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(a.EncodedData(), major, minor))
	assert.True(t, out.IsEmpty())
	assert.Equal(t, format.Int, out.PrimitiveType())
}

func TestArray_DecodeFailure(t *testing.T) {
	reg := MustNewRegistry()

	out := reg.NewArray()
	defer out.ReturnToPool()

	err := out.Decode([]byte{byte(format.FieldList), 0x00, 0x00, 0x00}, major, minor)
	require.ErrorIs(t, err, errs.ErrDecodeFailure)
	require.Equal(t, 1, out.Size())
	e, _ := out.Entry(0)
	assert.True(t, e.IsError())
	assert.Contains(t, out.String(), "OmmError")
}
