package omm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/codec"
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
)

// TestNewDefaultRegistry verifies the default registry builds and decodes an ElementList
func TestNewDefaultRegistry(t *testing.T) {
	reg := NewDefaultRegistry()
	require.NotNil(t, reg)
	require.Nil(t, reg.Dictionary())

	el := reg.NewElementList()
	defer el.ReturnToPool()
	require.NoError(t, el.AddReal("BID", 3990, format.ExponentNeg2))
	require.NoError(t, el.AddReal("ASK", 3994, format.ExponentNeg2))
	require.NoError(t, el.Complete())

	out := reg.NewElementList()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(el.EncodedData(), WireMajorVersion, WireMinorVersion, nil, nil))
	require.Equal(t, 2, out.Size())

	ask, ok := out.Find("ASK")
	require.True(t, ok)
	require.Equal(t, "39.94", ask.Load().String())
}

// TestNewRegistry verifies options are applied and validated
func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(codec.WithPreallocate(1), codec.WithSynchronized())
	require.NoError(t, err)
	require.Equal(t, 15, reg.Stats().Scalars.Free)

	_, err = NewRegistry(codec.WithPreallocate(-1))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

// TestLoadDictionary verifies a YAML dictionary types FieldList entries
func TestLoadDictionary(t *testing.T) {
	dict, err := LoadDictionary("dictionary/testdata/fields.yaml")
	require.NoError(t, err)

	reg, err := NewRegistry(codec.WithDictionary(dict))
	require.NoError(t, err)

	fl := reg.NewFieldList()
	defer fl.ReturnToPool()
	require.NoError(t, fl.AddReal(22, 3990, format.ExponentNeg2))
	require.NoError(t, fl.Complete())

	out := reg.NewFieldList()
	defer out.ReturnToPool()
	require.NoError(t, out.Decode(fl.EncodedData(), WireMajorVersion, WireMinorVersion, dict, nil))
	e, err := out.Entry(0)
	require.NoError(t, err)
	require.Equal(t, "BID", e.Name())

	_, err = LoadDictionary("dictionary/testdata/missing.yaml")
	require.Error(t, err)
}

// TestPackUnpack verifies the frame wrappers round-trip with every compression type
func TestPackUnpack(t *testing.T) {
	payload := make([]byte, 0, 4096)
	for i := range 4096 {
		payload = append(payload, byte(i%16))
	}

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			framed, err := Pack(payload, ct)
			require.NoError(t, err)

			got, n, err := Unpack(framed)
			require.NoError(t, err)
			require.Equal(t, len(framed), n)
			require.Equal(t, payload, got)
		})
	}

	_, err := Pack(payload, format.CompressionType(0x9))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)

	_, _, err = Unpack([]byte{0x4f})
	require.ErrorIs(t, err, errs.ErrFrameTooShort)
}
