package codec

import (
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/pool"
)

// valueClass groups the kinds that share one pooled type.
func valueClass(kind format.DataType) format.DataType {
	switch {
	case kind.IsStringLike():
		return format.Buffer
	case kind.IsBlob():
		return format.Opaque
	default:
		return kind
	}
}

// loadSlot is the load of an entry: unset, or bound to one pooled value.
//
// bind is the only transition. A bound value is marked owned so that only the
// slot can release it. Rebinding to a kind served by the bound value's
// type keeps the handle, so repeated writes of one kind cause no pool traffic.
type loadSlot struct {
	v Value
}

// bind returns a value of kind, reusing the bound one when its type matches.
// The returned value must be fully overwritten by the caller.
func (s *loadSlot) bind(reg *Registry, kind format.DataType) Value {
	if s.v != nil {
		if valueClass(s.v.DataType()) == valueClass(kind) {
			switch t := s.v.(type) {
			case *Buffer:
				t.kind = kind
			case *Opaque:
				t.kind = kind
			}

			return s.v
		}
		s.drop(reg)
	}
	s.v = reg.Acquire(kind)
	if o, ok := s.v.(pool.Ownable); ok {
		pool.SetOwned(o, true)
	}

	return s.v
}

// bindError binds an Error load carrying code and the undecoded bytes.
func (s *loadSlot) bindError(reg *Registry, code format.ErrorCode, raw []byte) {
	ev, _ := s.bind(reg, format.Error).(*ErrorValue)
	ev.code = code
	ev.raw = raw
}

// release returns the bound value to reg and unsets the slot.
func (s *loadSlot) release(reg *Registry) {
	if s.v != nil {
		s.drop(reg)
	}
}

// drop hands the bound value back to reg. A bound value is owned by the slot,
// so Registry.Release refuses it until the mark is cleared here.
func (s *loadSlot) drop(reg *Registry) {
	if o, ok := s.v.(pool.Ownable); ok {
		pool.SetOwned(o, false)
	}
	reg.Release(s.v)
	s.v = nil
}

func (s *loadSlot) kind() format.DataType {
	if s.v == nil {
		return format.NoData
	}

	return s.v.DataType()
}

// entryBase is embedded in every entry type.
type entryBase struct {
	pool.Marker
	load loadSlot
}

// Load returns the entry's value. It is nil only for entries whose action
// carries no payload.
func (e *entryBase) Load() Value { return e.load.v }

// DataType returns the kind of the load, format.NoData when there is none.
func (e *entryBase) DataType() format.DataType { return e.load.kind() }

// Code returns the data code of the load.
func (e *entryBase) Code() format.DataCode {
	if e.load.v == nil {
		return format.NoCode
	}

	return e.load.v.Code()
}

// IsError reports whether the load failed to decode.
func (e *entryBase) IsError() bool { return e.load.kind() == format.Error }

// loadAs returns the load as T, or errs.ErrInvalidOperation naming the actual kind.
func loadAs[T Value](e *entryBase, op string) (T, error) {
	v, ok := e.load.v.(T)
	if !ok {
		var zero T
		return zero, errs.New(errs.KindInvalidOperation, op, "load is "+e.load.kind().String())
	}

	return v, nil
}

// Int returns the load as an Int.
func (e *entryBase) Int() (*Int, error) { return loadAs[*Int](e, "Entry.Int") }

// UInt returns the load as a UInt.
func (e *entryBase) UInt() (*UInt, error) { return loadAs[*UInt](e, "Entry.UInt") }

// Float returns the load as a Float.
func (e *entryBase) Float() (*Float, error) { return loadAs[*Float](e, "Entry.Float") }

// Double returns the load as a Double.
func (e *entryBase) Double() (*Double, error) { return loadAs[*Double](e, "Entry.Double") }

// Real returns the load as a Real.
func (e *entryBase) Real() (*Real, error) { return loadAs[*Real](e, "Entry.Real") }

// Date returns the load as a Date.
func (e *entryBase) Date() (*Date, error) { return loadAs[*Date](e, "Entry.Date") }

// Time returns the load as a Time.
func (e *entryBase) Time() (*Time, error) { return loadAs[*Time](e, "Entry.Time") }

// DateTime returns the load as a DateTime.
func (e *entryBase) DateTime() (*DateTime, error) { return loadAs[*DateTime](e, "Entry.DateTime") }

// Qos returns the load as a Qos.
func (e *entryBase) Qos() (*Qos, error) { return loadAs[*Qos](e, "Entry.Qos") }

// State returns the load as a State.
func (e *entryBase) State() (*State, error) { return loadAs[*State](e, "Entry.State") }

// Enum returns the load as an Enum.
func (e *entryBase) Enum() (*Enum, error) { return loadAs[*Enum](e, "Entry.Enum") }

// Buffer returns the load as a Buffer of any string kind.
func (e *entryBase) Buffer() (*Buffer, error) { return loadAs[*Buffer](e, "Entry.Buffer") }

// Opaque returns the load as a blob.
func (e *entryBase) Opaque() (*Opaque, error) { return loadAs[*Opaque](e, "Entry.Opaque") }

// ErrorValue returns the load of an entry that failed to decode.
func (e *entryBase) ErrorValue() (*ErrorValue, error) {
	return loadAs[*ErrorValue](e, "Entry.ErrorValue")
}

// FieldList returns the load as a FieldList.
func (e *entryBase) FieldList() (*FieldList, error) { return loadAs[*FieldList](e, "Entry.FieldList") }

// ElementList returns the load as an ElementList.
func (e *entryBase) ElementList() (*ElementList, error) {
	return loadAs[*ElementList](e, "Entry.ElementList")
}

// Map returns the load as a Map.
func (e *entryBase) Map() (*Map, error) { return loadAs[*Map](e, "Entry.Map") }

// Vector returns the load as a Vector.
func (e *entryBase) Vector() (*Vector, error) { return loadAs[*Vector](e, "Entry.Vector") }

// Series returns the load as a Series.
func (e *entryBase) Series() (*Series, error) { return loadAs[*Series](e, "Entry.Series") }

// FilterList returns the load as a FilterList.
func (e *entryBase) FilterList() (*FilterList, error) {
	return loadAs[*FilterList](e, "Entry.FilterList")
}

// Array returns the load as an Array.
func (e *entryBase) Array() (*Array, error) { return loadAs[*Array](e, "Entry.Array") }

// entryList is the ordered entry collection of a container. Refills reuse the
// existing entries positionally.
type entryList[E pool.Pooled] struct {
	items []E
	n     int
}

// rewind starts a refill at position zero.
func (l *entryList[E]) rewind() {
	l.n = 0
}

// next returns the entry at the fill position, acquiring one when the list is
// exhausted.
func (l *entryList[E]) next(acquire func() E) E {
	if l.n < len(l.items) {
		e := l.items[l.n]
		l.n++

		return e
	}

	e := acquire()
	l.items = append(l.items, e)
	l.n++

	return e
}

// truncate releases the entries past the fill position.
func (l *entryList[E]) truncate(release func(E)) {
	var zero E
	for i := l.n; i < len(l.items); i++ {
		release(l.items[i])
		l.items[i] = zero
	}
	l.items = l.items[:l.n]
}

// clear releases every entry.
func (l *entryList[E]) clear(release func(E)) {
	l.n = 0
	l.truncate(release)
}

func (l *entryList[E]) len() int {
	return len(l.items)
}

func (e *entryBase) base() *entryBase { return e }

// permData is an entry's copy of its permission data, held in a registry
// scratch buffer.
type permData struct {
	b []byte
}

func (p *permData) set(reg *Registry, src []byte) {
	p.b = reg.copyScratch(p.b, src)
}

func (p *permData) release(reg *Registry) {
	if cap(p.b) > 0 {
		reg.ReleaseScratch(p.b)
	}
	p.b = nil
}
