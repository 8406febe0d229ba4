package codec

import (
	"github.com/arloliu/omm/dictionary"
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// Value is implemented by every scalar, container and sentinel load.
type Value interface {
	// DataType returns the kind of the value.
	DataType() format.DataType
	// Code reports whether a primitive value is blank.
	Code() format.DataCode
	// EncodedData returns the wire form of the value.
	EncodedData() []byte
	// String renders the value for display.
	String() string
}

// FieldDictionary resolves field ids while decoding FieldLists.
// *dictionary.Dictionary implements it.
type FieldDictionary interface {
	FieldByID(fid int16) (dictionary.FieldDef, bool)
}

// SetDefinitions holds the local set definitions in scope for one decode pass.
// Either table may be nil.
type SetDefinitions struct {
	Fields   *rwf.LocalFieldSetDefDb
	Elements *rwf.LocalElementSetDefDb
}

func (d *SetDefinitions) fields() *rwf.LocalFieldSetDefDb {
	if d == nil {
		return nil
	}

	return d.Fields
}

func (d *SetDefinitions) elements() *rwf.LocalElementSetDefDb {
	if d == nil {
		return nil
	}

	return d.Elements
}

// scalar is implemented by the primitive value types.
type scalar interface {
	Value
	decode(data []byte) rwf.Status
	appendWire(dst []byte) []byte
}

// container is implemented by the seven container types.
type container interface {
	Value
	attach(data []byte, scope decodeScope) error
	render(b *textWriter, indent int)
	encodedForParent(op string) ([]byte, error)
	ErrorCode() format.ErrorCode
	Clear()
}

// wireKind returns the kind written in a container header for entries of kind.
// Message kinds travel as Msg.
func wireKind(kind format.DataType) format.DataType {
	if kind.IsMessage() {
		return format.Msg
	}

	return kind
}

// wireBytes returns the bytes an entry carrying v must hold. Scalars are
// appended to scratch; containers and blobs return their own bytes.
func wireBytes(op string, v Value, scratch []byte) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, errs.New(errs.KindInvalidArgument, op, "nil value")
	case scalar:
		return t.appendWire(scratch[:0]), nil
	case container:
		return t.encodedForParent(op)
	case *Opaque:
		return t.data, nil
	case *NoData:
		return nil, nil
	case *ErrorValue:
		return nil, errs.New(errs.KindInvalidArgument, op, "an Error load cannot be encoded")
	default:
		return nil, errs.New(errs.KindInvalidArgument, op, "unsupported value type")
	}
}

// valueKind returns the kind of v, or an error for nil and Error loads.
func valueKind(op string, v Value) (format.DataType, error) {
	if v == nil {
		return format.Unknown, errs.New(errs.KindInvalidArgument, op, "nil value")
	}
	kind := v.DataType()
	if kind == format.Error || kind == format.Unknown {
		return format.Unknown, errs.New(errs.KindInvalidArgument, op, "value of kind "+kind.String()+" cannot be encoded")
	}

	return kind, nil
}
