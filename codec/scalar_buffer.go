package codec

import (
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/pool"
	"github.com/arloliu/omm/rwf"
)

// Buffer is a byte-string value. Its kind is one of format.Buffer,
// format.Ascii, format.Utf8 and format.Rmtes; an empty Buffer is blank.
type Buffer struct {
	scalarBase
	kind  format.DataType
	data  []byte
	owned []byte
}

var _ scalar = (*Buffer)(nil)

// DataType returns the string kind of the buffer.
func (v *Buffer) DataType() format.DataType { return v.kind }

// Bytes returns the buffer contents. Decoded buffers alias the source.
func (v *Buffer) Bytes() []byte { return v.data }

// Set copies b into the buffer.
func (v *Buffer) Set(b []byte) {
	v.owned = append(v.owned[:0], b...)
	v.data = v.owned
	v.assigned(len(b) == 0)
}

// SetString copies s into the buffer.
func (v *Buffer) SetString(s string) {
	v.owned = append(v.owned[:0], s...)
	v.data = v.owned
	v.assigned(len(s) == 0)
}

// SetBlank empties the buffer.
func (v *Buffer) SetBlank() {
	v.data = v.owned[:0]
	v.assigned(true)
}

// EncodedData returns the buffer contents.
func (v *Buffer) EncodedData() []byte { return v.data }

// String returns the contents as text, or as hex bytes for format.Buffer.
func (v *Buffer) String() string {
	if v.blank {
		return blankText
	}
	if v.kind == format.Buffer {
		return hexBytes(v.data)
	}

	return string(v.data)
}

func (v *Buffer) decode(data []byte) rwf.Status {
	st := rwf.Success
	if len(data) == 0 {
		st = rwf.NoData
	}
	v.data = data

	return v.decoded(data, st)
}

func (v *Buffer) appendWire(dst []byte) []byte {
	return append(dst, v.data...)
}

func (v *Buffer) reset() {
	v.data = nil
	v.owned = v.owned[:0]
	v.resetBase()
}

// Opaque is a nested blob carried without interpretation: Opaque, Xml,
// AnsiPage and Json documents and nested messages.
type Opaque struct {
	pool.Marker
	kind  format.DataType
	data  []byte
	owned []byte
}

// DataType returns the blob kind.
func (v *Opaque) DataType() format.DataType { return v.kind }

// Code always returns format.NoCode.
func (v *Opaque) Code() format.DataCode { return format.NoCode }

// Bytes returns the blob. Decoded blobs alias the source.
func (v *Opaque) Bytes() []byte { return v.data }

// Set copies b into the blob.
func (v *Opaque) Set(b []byte) {
	v.owned = append(v.owned[:0], b...)
	v.data = v.owned
}

// EncodedData returns the blob.
func (v *Opaque) EncodedData() []byte { return v.data }

func (v *Opaque) String() string {
	w := &textWriter{}
	v.render(w, 0)

	return w.String()
}

func (v *Opaque) render(w *textWriter, indent int) {
	w.indent(indent).str(v.kind.String()).nl()
	if len(v.data) > 0 {
		w.indent(indent + 1).str(hexBytes(v.data)).nl()
	}
	w.indent(indent).str(v.kind.String() + "End").nl()
}

func (v *Opaque) wrap(data []byte) {
	v.data = data
}

func (v *Opaque) reset() {
	v.data = nil
	v.owned = v.owned[:0]
}

// NoData is the load of an entry that carries no payload.
type NoData struct {
	pool.Marker
}

// DataType returns format.NoData.
func (v *NoData) DataType() format.DataType { return format.NoData }

// Code always returns format.NoCode.
func (v *NoData) Code() format.DataCode { return format.NoCode }

// EncodedData returns nil.
func (v *NoData) EncodedData() []byte { return nil }

func (v *NoData) String() string {
	w := &textWriter{}
	v.render(w, 0)

	return w.String()
}

func (v *NoData) render(w *textWriter, indent int) {
	w.indent(indent).str("NoData").nl()
	w.indent(indent).str("NoDataEnd").nl()
}

// ErrorValue is the load of an entry, or the single entry of a container,
// that failed to decode. It keeps the undecoded bytes.
type ErrorValue struct {
	pool.Marker
	code format.ErrorCode
	raw  []byte
}

// DataType returns format.Error.
func (v *ErrorValue) DataType() format.DataType { return format.Error }

// Code always returns format.NoCode.
func (v *ErrorValue) Code() format.DataCode { return format.NoCode }

// ErrorCode returns why decoding failed.
func (v *ErrorValue) ErrorCode() format.ErrorCode { return v.code }

// EncodedData returns the bytes that could not be decoded.
func (v *ErrorValue) EncodedData() []byte { return v.raw }

func (v *ErrorValue) String() string {
	w := &textWriter{}
	v.render(w, 0)

	return w.String()
}

func (v *ErrorValue) render(w *textWriter, indent int) {
	w.indent(indent).str("OmmError").nl()
	w.indent(indent + 1).str("ErrorCode=\"" + v.code.String() + "\"").nl()
	w.indent(indent).str("OmmErrorEnd").nl()
}

func (v *ErrorValue) reset() {
	v.code = format.NoError
	v.raw = nil
}
