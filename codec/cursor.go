package codec

import (
	"go.uber.org/zap"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/pool"
	"github.com/arloliu/omm/rwf"
)

// headerCode maps the status of a header decode to the code of the container's
// Error entry.
func headerCode(st rwf.Status) format.ErrorCode {
	switch st { //nolint:exhaustive
	case rwf.IteratorOverrun:
		return format.IteratorOverrun
	case rwf.IncompleteData:
		return format.IncompleteData
	case rwf.SetSkipped:
		return format.NoSetDefinition
	case rwf.UnsupportedDataType:
		return format.UnsupportedDataType
	case rwf.VersionNotSupported:
		return format.IteratorSetFailure
	default:
		return format.UnknownError
	}
}

// entryCode maps the status of an entry or primitive decode to the code of
// the entry's Error load.
func entryCode(st rwf.Status) format.ErrorCode {
	switch st { //nolint:exhaustive
	case rwf.IncompleteData, rwf.InvalidData:
		return format.IncompleteData
	case rwf.UnsupportedDataType:
		return format.UnsupportedDataType
	case rwf.IteratorOverrun:
		return format.IteratorOverrun
	case rwf.SetSkipped:
		return format.NoSetDefinition
	default:
		return format.UnknownError
	}
}

// decodeScope is the context a container is decoded in: wire version,
// dictionary, local set definitions and nesting level.
type decodeScope struct {
	major uint8
	minor uint8
	dict  FieldDictionary
	defs  *SetDefinitions
	level int
}

// nested returns the scope of a container nested one level below s. Local set
// definitions never cross a container boundary.
func (s decodeScope) nested(defs *SetDefinitions) decodeScope {
	return decodeScope{major: s.major, minor: s.minor, dict: s.dict, defs: defs, level: s.level + 1}
}

// decodeLoad decodes data as a value of kind into slot. Failures bind an Error
// load instead; container failures stay inside the nested container.
func decodeLoad(reg *Registry, slot *loadSlot, kind format.DataType, data []byte, scope decodeScope) {
	if kind == format.Msg {
		msgKind, st := rwf.DecodeMsgClass(data)
		if st != rwf.Success {
			slot.bindError(reg, entryCode(st), data)
			return
		}
		kind = msgKind
	}

	switch {
	case kind.IsContainer() || kind == format.Array:
		c, _ := slot.bind(reg, kind).(container)
		_ = c.attach(data, scope)
	case kind == format.NoData:
		slot.bind(reg, kind)
	case kind.IsBlob():
		o, _ := slot.bind(reg, kind).(*Opaque)
		o.wrap(data)
	case kind.IsPrimitive():
		v, _ := slot.bind(reg, kind).(scalar)
		if st := v.decode(data); st != rwf.Success && st != rwf.NoData {
			slot.bindError(reg, entryCode(st), data)
		}
	default:
		slot.bindError(reg, format.UnsupportedDataType, data)
	}
}

// encoder drives an rwf.EncodeIterator over a pooled buffer that doubles
// whenever the iterator reports BufferTooSmall.
type encoder struct {
	buf     *pool.ByteBuffer
	it      rwf.EncodeIterator
	out     []byte
	scratch []byte
}

func (e *encoder) start(reg *Registry) {
	e.buf = reg.encodeBuffers.Get()
	e.it.SetBufferAndVersion(e.buf.Full(), rwf.MajorVersion, rwf.MinorVersion)
	e.out = nil
}

// run calls fn until it stops reporting BufferTooSmall, growing the buffer
// between attempts. fn must be atomic: it writes everything or nothing.
func (e *encoder) run(reg *Registry, op string, fn func(it *rwf.EncodeIterator) rwf.Status) error {
	for {
		st := fn(&e.it)
		switch st { //nolint:exhaustive
		case rwf.Success:
			return nil
		case rwf.BufferTooSmall:
			grown := e.buf.Double(e.it.Len())
			if rs := e.it.Realign(grown); rs != rwf.Success {
				return errs.New(errs.KindEncodeFailure, op, rs.Text())
			}
			reg.logger.Debug("encode buffer grown",
				zap.String("op", op),
				zap.Int("capacity", len(grown)))
		default:
			return errs.New(errs.KindEncodeFailure, op, st.Text())
		}
	}
}

// finish records the encoded bytes.
func (e *encoder) finish() {
	e.out = e.it.EncodedBytes()
}

// release returns the buffer to reg and resets the iterator.
func (e *encoder) release(reg *Registry) {
	if e.buf != nil {
		reg.encodeBuffers.Put(e.buf)
		e.buf = nil
	}
	e.it.Clear()
	e.out = nil
}

// primitive appends one primitive with fn into the scratch buffer and returns it.
func (e *encoder) primitive(fn appendFunc) ([]byte, error) {
	data, err := fn(e.scratch[:0])
	if err != nil {
		return nil, err
	}
	e.scratch = data[:0]

	return data, nil
}

// value returns the entry bytes of v, using the scratch buffer for scalars.
func (e *encoder) value(op string, v Value) ([]byte, error) {
	data, err := wireBytes(op, v, e.scratch)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(scalar); ok {
		e.scratch = data[:0]
	}

	return data, nil
}

// markHeader sets bit in the flags byte of the container being encoded.
func (e *encoder) markHeader(bit uint8) {
	if b := e.it.EncodedBytes(); len(b) > 0 {
		b[0] |= bit
	}
}
