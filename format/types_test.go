package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataType_Classes(t *testing.T) {
	tests := []struct {
		kind      DataType
		primitive bool
		container bool
		blob      bool
		wire      bool
	}{
		{Int, true, false, false, true},
		{Rmtes, true, false, false, true},
		{Array, false, false, false, true},
		{NoData, false, false, false, true},
		{FieldList, false, true, false, true},
		{Series, false, true, false, true},
		{Opaque, false, false, true, true},
		{Msg, false, false, true, true},
		{Json, false, false, true, true},
		{UpdateMsg, false, false, true, false},
		{Error, false, false, false, false},
		{Unknown, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.primitive, tt.kind.IsPrimitive())
			assert.Equal(t, tt.container, tt.kind.IsContainer())
			assert.Equal(t, tt.blob, tt.kind.IsBlob())
			assert.Equal(t, tt.wire, tt.kind.IsWire())
		})
	}

	assert.True(t, GenericMsg.IsMessage())
	assert.False(t, Msg.IsMessage())
	assert.True(t, Utf8.IsStringLike())
	assert.False(t, Enum.IsStringLike())
}

func TestParseDataType(t *testing.T) {
	for _, kind := range allDataTypes {
		got, ok := ParseDataType(kind.String())
		require.True(t, ok, kind.String())
		assert.Equal(t, kind, got)
	}

	got, ok := ParseDataType("Array")
	require.True(t, ok)
	assert.Equal(t, Array, got)
	assert.Equal(t, "OmmArray", Array.String())

	_, ok = ParseDataType("int")
	assert.False(t, ok, "matching is case sensitive")
	_, ok = ParseDataType("Unknown")
	assert.False(t, ok)
}

func TestCompressionType(t *testing.T) {
	tests := []struct {
		names []string
		want  CompressionType
	}{
		{[]string{"", "none", "None"}, CompressionNone},
		{[]string{"zstd", "Zstd"}, CompressionZstd},
		{[]string{"s2", "S2"}, CompressionS2},
		{[]string{"lz4", "LZ4"}, CompressionLZ4},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			for _, name := range tt.names {
				got, ok := ParseCompressionType(name)
				require.True(t, ok, name)
				assert.Equal(t, tt.want, got)
			}
		})
	}

	_, ok := ParseCompressionType("gzip")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", CompressionType(0).String())
}

func TestMagnitudeType(t *testing.T) {
	assert.Equal(t, "ExponentNeg14", ExponentNeg14.String())
	assert.Equal(t, "Exponent0", Exponent0.String())
	assert.Equal(t, "ExponentPos7", ExponentPos7.String())
	assert.Equal(t, "Divisor256", Divisor256.String())
	assert.Equal(t, "NotANumber", NotANumber.String())
	assert.Equal(t, "Unknown", MagnitudeType(31).String())

	assert.False(t, MagnitudeType(31).IsValid())
	assert.False(t, MagnitudeType(32).IsValid())
	assert.False(t, MagnitudeType(36).IsValid())
	assert.True(t, Infinity.IsSpecial())

	assert.Equal(t, -2, ExponentNeg2.Exponent())
	assert.Equal(t, 3, Divisor8.DivisorShift())
	assert.InDelta(t, 0.01, ExponentNeg2.Scale(), 1e-15)
	assert.InDelta(t, 0.125, Divisor8.Scale(), 1e-15)
	assert.True(t, math.IsNaN(Infinity.Scale()))
}

func TestActions(t *testing.T) {
	assert.True(t, MapDelete.IsValid())
	assert.False(t, MapAction(0).IsValid())
	assert.False(t, MapDelete.HasPayload())
	assert.True(t, MapAdd.HasPayload())

	assert.False(t, VectorClear.HasPayload())
	assert.False(t, VectorDelete.HasPayload())
	assert.True(t, VectorInsert.HasPayload())
	assert.Equal(t, "Insert", VectorInsert.String())
	assert.False(t, VectorAction(6).IsValid())

	assert.False(t, FilterClear.HasPayload())
	assert.Equal(t, "Set", FilterSet.String())
	assert.Equal(t, "Unknown", FilterAction(9).String())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "FieldIdNotFound", FieldIDNotFound.String())
	assert.Equal(t, "NoDictionary", NoDictionary.String())
	assert.Equal(t, "UnknownError", ErrorCode(200).String())
}
