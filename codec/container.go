package codec

import (
	"iter"
	"strconv"

	"go.uber.org/zap"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/pool"
	"github.com/arloliu/omm/rwf"
)

// phase is the lifecycle state of a container.
type phase uint8

const (
	phaseIdle     phase = iota // empty, neither decoding nor building
	phaseAttached              // header decoded, entries not yet materialized
	phaseFailed                // header failed to decode
	phaseFilled                // entries materialized
	phaseEncoding              // building, entries being encoded
	phaseEncoded               // building complete
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "Idle"
	case phaseAttached:
		return "Attached"
	case phaseFailed:
		return "Failed"
	case phaseFilled:
		return "Filled"
	case phaseEncoding:
		return "Encoding"
	case phaseEncoded:
		return "Encoded"
	default:
		return "Unknown"
	}
}

// decoded reports whether the container holds a decode result.
func (p phase) decoded() bool {
	return p == phaseAttached || p == phaseFailed || p == phaseFilled
}

const encodingNotice = "String() is not available while a container is being encoded; call Complete first\n"

// containerBase holds the lifecycle shared by every container kind.
type containerBase struct {
	pool.Marker
	reg   *Registry
	phase phase
	src   []byte
	scope decodeScope
	it    rwf.DecodeIterator
	code  format.ErrorCode
	enc   encoder
}

// Code always returns format.NoCode.
func (c *containerBase) Code() format.DataCode {
	return format.NoCode
}

// ErrorCode returns the code of a container-level decode failure, or
// format.NoError.
func (c *containerBase) ErrorCode() format.ErrorCode {
	return c.code
}

// beginDecode drops any build state and records the source of a decode.
// Entries from a previous fill are kept for positional reuse.
func (c *containerBase) beginDecode(data []byte, scope decodeScope) {
	c.enc.release(c.reg)
	c.src = data
	c.scope = scope
	c.code = format.NoError
	c.phase = phaseIdle
}

// attachCursor points the iterator at the source.
func (c *containerBase) attachCursor() format.ErrorCode {
	if st := c.it.SetBufferAndVersion(c.src, c.scope.major, c.scope.minor); st != rwf.Success {
		return format.IteratorSetFailure
	}
	if st := c.it.SetLevel(c.scope.level); st != rwf.Success {
		return format.IteratorOverrun
	}

	return format.NoError
}

// headerDecoded moves to Attached after a successful header decode, or to
// Failed otherwise.
func (c *containerBase) headerDecoded(kind format.DataType, st rwf.Status) error {
	if st == rwf.Success || st == rwf.NoData {
		c.phase = phaseAttached
		return nil
	}

	return c.fail(kind, headerCode(st))
}

func (c *containerBase) fail(kind format.DataType, code format.ErrorCode) error {
	c.phase = phaseFailed
	c.code = code
	c.reg.logger.Debug("container decode failed",
		zap.Stringer("container", kind),
		zap.Stringer("code", code),
		zap.Int("level", c.scope.level),
		zap.Int("bytes", len(c.src)))

	return &errs.DecodeError{Container: kind, Code: code}
}

// checkHeader allows header setters only before the first entry is added.
func (c *containerBase) checkHeader(op string) error {
	switch {
	case c.phase == phaseIdle:
		return nil
	case c.phase.decoded():
		return errs.New(errs.KindInvalidUsage, op, "container holds a decode result; Clear it before building")
	default:
		return errs.New(errs.KindInvalidUsage, op, "header must be set before the first entry")
	}
}

// checkBuild allows adding entries to an idle or in-progress container.
func (c *containerBase) checkBuild(op string) error {
	switch {
	case c.phase == phaseIdle || c.phase == phaseEncoding:
		return nil
	case c.phase.decoded():
		return errs.New(errs.KindInvalidUsage, op, "container holds a decode result; Clear it before building")
	default:
		return errs.New(errs.KindInvalidUsage, op, "container is complete; Clear it before building")
	}
}

// startEncode begins a build with the container's header written by init.
func (c *containerBase) startEncode(op string, init func(it *rwf.EncodeIterator) rwf.Status) error {
	c.enc.start(c.reg)
	if err := c.enc.run(c.reg, op, init); err != nil {
		c.enc.release(c.reg)
		return err
	}
	c.phase = phaseEncoding

	return nil
}

// completeEncode finishes an in-progress build with complete.
func (c *containerBase) completeEncode(op string, complete func(it *rwf.EncodeIterator, success bool) rwf.Status) error {
	if err := c.enc.run(c.reg, op, func(it *rwf.EncodeIterator) rwf.Status {
		return complete(it, true)
	}); err != nil {
		return err
	}
	c.enc.finish()
	c.phase = phaseEncoded

	return nil
}

// encodedData implements EncodedData on top of the container's Complete.
func (c *containerBase) encodedData(kind format.DataType, complete func() error) []byte {
	switch {
	case c.phase.decoded():
		return c.src
	case c.phase == phaseEncoded:
		return c.enc.out
	}

	if err := complete(); err != nil {
		c.reg.logger.Debug("encode completion failed", zap.Stringer("container", kind), zap.Error(err))
		return nil
	}

	return c.enc.out
}

// forParent returns the bytes a parent entry carries for this container,
// completing an idle container first.
func (c *containerBase) forParent(op string, complete func() error) ([]byte, error) {
	switch {
	case c.phase == phaseEncoding:
		return nil, errs.New(errs.KindInvalidUsage, op, "nested container is not complete")
	case c.phase.decoded():
		return c.src, nil
	case c.phase == phaseIdle:
		if err := complete(); err != nil {
			return nil, err
		}
	}

	return c.enc.out, nil
}

// completeState reports whether Complete has nothing left to do, or returns
// errs.ErrInvalidUsage for a decoded container.
func (c *containerBase) completeState(op string) (bool, error) {
	switch {
	case c.phase == phaseEncoded:
		return true, nil
	case c.phase.decoded():
		return false, errs.New(errs.KindInvalidUsage, op, "container holds a decode result")
	}

	return false, nil
}

// resetBase returns the base to Idle and releases the encode buffer.
func (c *containerBase) resetBase() {
	c.enc.release(c.reg)
	c.phase = phaseIdle
	c.src = nil
	c.scope = decodeScope{}
	c.code = format.NoError
	c.it.Clear()
}

// returnToPool releases self to its registry. Registry.Release refuses
// containers bound to an entry load.
func (c *containerBase) returnToPool(self Value) {
	if c.reg != nil {
		c.reg.Release(self)
	}
}

// renderFailure writes the Error entry of a container whose header failed.
func renderFailure(w *textWriter, indent int, v Value) {
	if block, ok := v.(blockRenderer); ok {
		block.render(w, indent)
	}
}

// displayString renders encoded data of kind through the display registry.
func displayString(kind format.DataType, data []byte, dict FieldDictionary) string {
	reg := DisplayRegistry()
	c, _ := reg.Acquire(kind).(container)
	defer reg.Release(c)

	_ = c.attach(data, decodeScope{major: rwf.MajorVersion, minor: rwf.MinorVersion, dict: dict})
	w := &textWriter{}
	c.render(w, 0)

	return w.String()
}

// kindBinding is the declared entry kind of a Map, Vector, Series or
// FilterList being built.
type kindBinding struct {
	kind format.DataType
}

func (b *kindBinding) bound() bool {
	return b.kind != format.Unknown
}

// check returns errs.ErrInvalidOperation when kind differs from the bound kind.
func (b *kindBinding) check(op string, kind format.DataType) error {
	if b.bound() && b.kind != kind {
		return errs.New(errs.KindInvalidOperation, op,
			"entries are bound to "+b.kind.String()+", got "+kind.String())
	}

	return nil
}

// entryKind resolves the kind an added entry binds: the kind of v, or the bound
// kind (NoData when unbound) for actions without payload.
func entryKind(op string, b *kindBinding, v Value, hasPayload bool) (format.DataType, error) {
	if !hasPayload && v == nil {
		if b.bound() {
			return b.kind, nil
		}

		return format.NoData, nil
	}
	if v == nil {
		return format.NoData, nil
	}

	kind, err := valueKind(op, v)
	if err != nil {
		return format.Unknown, err
	}
	if !kind.IsContainer() && !kind.IsBlob() && kind != format.NoData {
		return format.Unknown, errs.New(errs.KindInvalidArgument, op, "entries must carry a container, a blob or NoData, got "+kind.String())
	}

	return kind, nil
}

func nilValue(op string) error {
	return errs.New(errs.KindInvalidArgument, op, "nil value")
}

// stringOf renders a container: decoded and idle containers directly, built
// ones by decoding their bytes through the display registry.
func (c *containerBase) stringOf(kind format.DataType, render func(w *textWriter, indent int)) string {
	switch c.phase { //nolint:exhaustive
	case phaseEncoding:
		return encodingNotice
	case phaseEncoded:
		return displayString(kind, c.enc.out, c.reg.dict)
	}

	w := &textWriter{}
	render(w, 0)

	return w.String()
}

// pooledEntry is implemented by the seven entry types.
type pooledEntry interface {
	pool.Pooled
	base() *entryBase
	clearKey(reg *Registry)
}

// fillFailed replaces the entries of a container whose header failed with one
// Error entry carrying the container's code and source.
func fillFailed[E pooledEntry](c *containerBase, l *entryList[E], acquire func() E, release func(E)) {
	l.rewind()
	e := l.next(acquire)
	e.clearKey(c.reg)
	e.base().load.bindError(c.reg, c.code, c.src)
	l.truncate(release)
	c.phase = phaseFilled
}

// entryAt returns entry i of l, or errs.ErrOutOfRange.
func entryAt[E pooledEntry](op string, l *entryList[E], i int) (E, error) {
	if i < 0 || i >= l.len() {
		var zero E
		return zero, errs.New(errs.KindOutOfRange, op, "index "+strconv.Itoa(i)+" out of range")
	}

	return l.items[i], nil
}

// allOf iterates over the entries of l after fill.
func allOf[E pooledEntry](l *entryList[E], fill func()) iter.Seq[E] {
	return func(yield func(E) bool) {
		fill()
		for _, e := range l.items {
			if !yield(e) {
				return
			}
		}
	}
}
