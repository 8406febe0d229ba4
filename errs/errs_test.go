package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/omm/format"
)

func TestError_Is(t *testing.T) {
	err := New(KindOutOfRange, "Date.Set", "month 13")

	require.ErrorIs(t, err, ErrOutOfRange)
	require.NotErrorIs(t, err, ErrInvalidArgument)
	require.ErrorIs(t, fmt.Errorf("build quote: %w", err), ErrOutOfRange)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Date.Set", e.Op)
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"Full", New(KindInvalidOperation, "Map.AddKey", "kind mismatch"), "Map.AddKey: invalid_operation: kind mismatch"},
		{"NoOp", New(KindInvalidUsage, "", "not encoding"), "invalid_usage: not encoding"},
		{"KindOnly", ErrEncodeFailure, "encode_failure"},
		{"Cause", Wrap(KindEncodeFailure, "FieldList.Complete", "grow", io.ErrShortBuffer), "FieldList.Complete: encode_failure: grow (caused by: short buffer)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_Unwrap(t *testing.T) {
	err := Wrap(KindInvalidValue, "Real.SetFromDouble", "overflow", io.ErrUnexpectedEOF)

	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, io.ErrUnexpectedEOF, errors.Unwrap(err))
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Container: format.FieldList, Code: format.NoDictionary}

	assert.Equal(t, "failed to decode FieldList: NoDictionary", err.Error())
	require.ErrorIs(t, err, ErrDecodeFailure)
	require.ErrorIs(t, err, &DecodeError{Code: format.NoDictionary})
	require.NotErrorIs(t, err, &DecodeError{Code: format.IncompleteData})
	require.NotErrorIs(t, err, ErrInvalidArgument)

	var de *DecodeError
	require.ErrorAs(t, fmt.Errorf("frame 0: %w", err), &de)
	assert.Equal(t, format.FieldList, de.Container)
}
