// Package errs defines the errors returned by omm.
//
// Two families exist:
//
//   - Usage errors (*Error) are programmer errors detected at the call site of a
//     builder or setter: invalid arguments, out-of-range fields, kind mismatches
//     and calls made in the wrong order. They are never recovered automatically.
//     Match them with errors.Is against the Err* sentinels of the same Kind.
//   - Decode errors (*DecodeError) report the container-level status of a decode.
//     They are informational: the container stays usable and exposes one Error
//     entry carrying the raw bytes.
//
// Other sentinels (dictionary, frame) follow the plain errors.New style.
package errs

import (
	"errors"
	"strings"

	"github.com/arloliu/omm/format"
)

// Kind categorizes a usage error.
type Kind string

const (
	KindInvalidUsage     Kind = "invalid_usage"
	KindInvalidArgument  Kind = "invalid_argument"
	KindOutOfRange       Kind = "out_of_range"
	KindInvalidOperation Kind = "invalid_operation"
	KindInvalidValue     Kind = "invalid_value"
	KindEncodeFailure    Kind = "encode_failure"
	KindUnsupported      Kind = "unsupported"
)

// Error is the structured error returned for usage and encode failures.
type Error struct {
	Cause  error
	Kind   Kind
	Op     string // operation that failed, e.g. "FieldList.AddReal"
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}

	return false
}

// New creates an *Error.
func New(kind Kind, op string, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap creates an *Error with a cause.
func Wrap(kind Kind, op string, detail string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Cause: cause}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidUsage     = &Error{Kind: KindInvalidUsage}
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrOutOfRange       = &Error{Kind: KindOutOfRange}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrInvalidValue     = &Error{Kind: KindInvalidValue}
	ErrEncodeFailure    = &Error{Kind: KindEncodeFailure}
	ErrUnsupported      = &Error{Kind: KindUnsupported}
)

// DecodeError reports a container-level decode failure.
type DecodeError struct {
	Container format.DataType
	Code      format.ErrorCode
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return "failed to decode " + e.Container.String() + ": " + e.Code.String()
}

// Is matches another *DecodeError with the same code, or ErrDecodeFailure.
func (e *DecodeError) Is(target error) bool {
	if target == ErrDecodeFailure {
		return true
	}

	if t, ok := target.(*DecodeError); ok {
		return t.Code == e.Code
	}

	return false
}

// ErrDecodeFailure matches every *DecodeError.
var ErrDecodeFailure = errors.New("decode failure")

// Dictionary errors.
var (
	ErrDuplicateField    = errors.New("dictionary: duplicate field id")
	ErrDuplicateAcronym  = errors.New("dictionary: duplicate acronym")
	ErrInvalidFieldType  = errors.New("dictionary: invalid field type")
	ErrInvalidDictionary = errors.New("dictionary: invalid dictionary document")
)

// Frame errors.
var (
	ErrInvalidFrame       = errors.New("frame: invalid frame")
	ErrFrameTooShort      = errors.New("frame: frame too short")
	ErrChecksumMismatch   = errors.New("frame: checksum mismatch")
	ErrUnknownCompression = errors.New("frame: unknown compression type")
)
