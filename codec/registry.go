package codec

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/options"
	"github.com/arloliu/omm/internal/pool"
)

// PoolStats counts the traffic of one group of free lists.
type PoolStats = pool.Stats

// Stats is a snapshot of a registry's pool traffic.
type Stats struct {
	Scalars    PoolStats // scalar, blob, NoData and Error values
	Entries    PoolStats // entries of every container kind
	Containers PoolStats // containers of every kind
	Scratch    PoolStats // scratch byte buffers
}

type registryConfig struct {
	preallocate      int
	encodeBufferSize int
	dict             FieldDictionary
	synchronized     bool
	logger           *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption = options.Option[*registryConfig]

// WithPreallocate fills every free list with n objects up front.
func WithPreallocate(n int) RegistryOption {
	return options.New("WithPreallocate", func(c *registryConfig) error {
		if n < 0 {
			return errs.New(errs.KindInvalidArgument, "WithPreallocate", "negative count")
		}
		c.preallocate = n

		return nil
	})
}

// WithEncodeBufferSize sets the initial capacity of encode buffers.
func WithEncodeBufferSize(n int) RegistryOption {
	return options.New("WithEncodeBufferSize", func(c *registryConfig) error {
		if n <= 0 {
			return errs.New(errs.KindInvalidArgument, "WithEncodeBufferSize", "size must be positive")
		}
		c.encodeBufferSize = n

		return nil
	})
}

// WithDictionary sets the dictionary used to render built FieldLists.
func WithDictionary(d FieldDictionary) RegistryOption {
	return options.NoError("WithDictionary", func(c *registryConfig) {
		c.dict = d
	})
}

// WithSynchronized guards every free list with a lock so the registry can be
// shared between goroutines. Containers themselves are still not shareable.
func WithSynchronized() RegistryOption {
	return options.NoError("WithSynchronized", func(c *registryConfig) {
		c.synchronized = true
	})
}

// WithLogger sets the logger of the registry and of the containers it hands out.
// A nil logger selects the package logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return options.NoError("WithLogger", func(c *registryConfig) {
		c.logger = l
	})
}

// Registry owns the free lists of every value, entry and container type.
//
// An object obtained from a Registry is owned by the caller until it is
// released, either explicitly with Release or by the container holding it.
// Releasing an object that is already pooled is ignored.
type Registry struct {
	scalarMu sync.Mutex
	mu       sync.Mutex

	ints      *pool.FreeList[*Int]
	uints     *pool.FreeList[*UInt]
	floats    *pool.FreeList[*Float]
	doubles   *pool.FreeList[*Double]
	reals     *pool.FreeList[*Real]
	dates     *pool.FreeList[*Date]
	times     *pool.FreeList[*Time]
	dateTimes *pool.FreeList[*DateTime]
	qoses     *pool.FreeList[*Qos]
	states    *pool.FreeList[*State]
	enums     *pool.FreeList[*Enum]
	buffers   *pool.FreeList[*Buffer]
	opaques   *pool.FreeList[*Opaque]
	noData    *pool.FreeList[*NoData]
	errorVals *pool.FreeList[*ErrorValue]

	fieldEntries   *pool.FreeList[*FieldEntry]
	elementEntries *pool.FreeList[*ElementEntry]
	mapEntries     *pool.FreeList[*MapEntry]
	vectorEntries  *pool.FreeList[*VectorEntry]
	seriesEntries  *pool.FreeList[*SeriesEntry]
	filterEntries  *pool.FreeList[*FilterEntry]
	arrayEntries   *pool.FreeList[*ArrayEntry]

	fieldLists   *pool.FreeList[*FieldList]
	elementLists *pool.FreeList[*ElementList]
	maps         *pool.FreeList[*Map]
	vectors      *pool.FreeList[*Vector]
	series       *pool.FreeList[*Series]
	filterLists  *pool.FreeList[*FilterList]
	arrays       *pool.FreeList[*Array]

	scratch       *pool.ScratchCache
	encodeBuffers *pool.ByteBufferPool

	dict   FieldDictionary
	logger *zap.Logger
}

// NewRegistry creates a registry.
//
// Parameters:
//   - opts: WithPreallocate, WithEncodeBufferSize, WithDictionary,
//     WithSynchronized, WithLogger
//
// Returns:
//   - *Registry: the registry
//   - error: the first option that failed
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	cfg := &registryConfig{encodeBufferSize: pool.EncodeBufferDefaultSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r := &Registry{dict: cfg.dict, logger: cfg.logger}
	if r.logger == nil {
		r.logger = Logger()
	}

	var mu sync.Locker
	if cfg.synchronized {
		mu = &r.mu
	}
	sm := &r.scalarMu

	r.ints = pool.NewFreeList(func() *Int { return &Int{} }, sm)
	r.uints = pool.NewFreeList(func() *UInt { return &UInt{} }, sm)
	r.floats = pool.NewFreeList(func() *Float { return &Float{} }, sm)
	r.doubles = pool.NewFreeList(func() *Double { return &Double{} }, sm)
	r.reals = pool.NewFreeList(func() *Real { return &Real{} }, sm)
	r.dates = pool.NewFreeList(func() *Date { return &Date{} }, sm)
	r.times = pool.NewFreeList(func() *Time { return &Time{} }, sm)
	r.dateTimes = pool.NewFreeList(func() *DateTime { return &DateTime{} }, sm)
	r.qoses = pool.NewFreeList(func() *Qos { return &Qos{} }, sm)
	r.states = pool.NewFreeList(func() *State { return &State{} }, sm)
	r.enums = pool.NewFreeList(func() *Enum { return &Enum{} }, sm)
	r.buffers = pool.NewFreeList(func() *Buffer { return &Buffer{} }, sm)
	r.opaques = pool.NewFreeList(func() *Opaque { return &Opaque{} }, sm)
	r.noData = pool.NewFreeList(func() *NoData { return &NoData{} }, sm)
	r.errorVals = pool.NewFreeList(func() *ErrorValue { return &ErrorValue{} }, sm)

	r.fieldEntries = pool.NewFreeList(func() *FieldEntry { return &FieldEntry{} }, mu)
	r.elementEntries = pool.NewFreeList(func() *ElementEntry { return &ElementEntry{} }, mu)
	r.mapEntries = pool.NewFreeList(func() *MapEntry { return &MapEntry{} }, mu)
	r.vectorEntries = pool.NewFreeList(func() *VectorEntry { return &VectorEntry{} }, mu)
	r.seriesEntries = pool.NewFreeList(func() *SeriesEntry { return &SeriesEntry{} }, mu)
	r.filterEntries = pool.NewFreeList(func() *FilterEntry { return &FilterEntry{} }, mu)
	r.arrayEntries = pool.NewFreeList(func() *ArrayEntry { return &ArrayEntry{} }, mu)

	r.fieldLists = pool.NewFreeList(func() *FieldList { return &FieldList{} }, mu)
	r.elementLists = pool.NewFreeList(func() *ElementList { return &ElementList{} }, mu)
	r.maps = pool.NewFreeList(func() *Map { return &Map{} }, mu)
	r.vectors = pool.NewFreeList(func() *Vector { return &Vector{} }, mu)
	r.series = pool.NewFreeList(func() *Series { return &Series{} }, mu)
	r.filterLists = pool.NewFreeList(func() *FilterList { return &FilterList{} }, mu)
	r.arrays = pool.NewFreeList(func() *Array { return &Array{} }, mu)

	r.scratch = pool.NewScratchCache(mu)
	r.encodeBuffers = pool.NewByteBufferPool(cfg.encodeBufferSize, pool.EncodeBufferMaxThreshold)

	if n := cfg.preallocate; n > 0 {
		r.preallocate(n)
	}

	return r, nil
}

func (r *Registry) preallocate(n int) {
	r.ints.Preallocate(n)
	r.uints.Preallocate(n)
	r.floats.Preallocate(n)
	r.doubles.Preallocate(n)
	r.reals.Preallocate(n)
	r.dates.Preallocate(n)
	r.times.Preallocate(n)
	r.dateTimes.Preallocate(n)
	r.qoses.Preallocate(n)
	r.states.Preallocate(n)
	r.enums.Preallocate(n)
	r.buffers.Preallocate(n)
	r.opaques.Preallocate(n)
	r.noData.Preallocate(n)
	r.errorVals.Preallocate(n)

	r.fieldEntries.Preallocate(n)
	r.elementEntries.Preallocate(n)
	r.mapEntries.Preallocate(n)
	r.vectorEntries.Preallocate(n)
	r.seriesEntries.Preallocate(n)
	r.filterEntries.Preallocate(n)
	r.arrayEntries.Preallocate(n)

	r.fieldLists.Preallocate(n)
	r.elementLists.Preallocate(n)
	r.maps.Preallocate(n)
	r.vectors.Preallocate(n)
	r.series.Preallocate(n)
	r.filterLists.Preallocate(n)
	r.arrays.Preallocate(n)
}

// MustNewRegistry is like NewRegistry but panics on an invalid option.
func MustNewRegistry(opts ...RegistryOption) *Registry {
	r, err := NewRegistry(opts...)
	if err != nil {
		panic(err)
	}

	return r
}

var (
	displayRegistry     *Registry
	displayRegistryOnce sync.Once
)

// DisplayRegistry returns the process-wide registry used to decode completed
// built containers for String. It is synchronized. Owners should build their
// own registries instead of using it.
func DisplayRegistry() *Registry {
	displayRegistryOnce.Do(func() {
		displayRegistry = MustNewRegistry(WithSynchronized())
	})

	return displayRegistry
}

// Dictionary returns the dictionary configured WithDictionary, or nil.
func (r *Registry) Dictionary() FieldDictionary {
	return r.dict
}

// Acquire returns a pristine value of kind from its free list.
//
// Buffer, Ascii, Utf8 and Rmtes share the Buffer type; the blob and message
// kinds share the Opaque type. Returns nil for format.Unknown and other kinds
// that have no value type.
func (r *Registry) Acquire(kind format.DataType) Value {
	switch kind { //nolint:exhaustive
	case format.Int:
		return r.ints.Get()
	case format.UInt:
		return r.uints.Get()
	case format.Float:
		return r.floats.Get()
	case format.Double:
		return r.doubles.Get()
	case format.Real:
		return r.reals.Get()
	case format.Date:
		return r.dates.Get()
	case format.Time:
		return r.times.Get()
	case format.DateTime:
		return r.dateTimes.Get()
	case format.Qos:
		return r.qoses.Get()
	case format.State:
		return r.states.Get()
	case format.Enum:
		return r.enums.Get()
	case format.Buffer, format.Ascii, format.Utf8, format.Rmtes:
		v := r.buffers.Get()
		v.kind = kind

		return v
	case format.NoData:
		return r.noData.Get()
	case format.Error:
		return r.errorVals.Get()
	case format.FieldList:
		return r.NewFieldList()
	case format.ElementList:
		return r.NewElementList()
	case format.Map:
		return r.NewMap()
	case format.Vector:
		return r.NewVector()
	case format.Series:
		return r.NewSeries()
	case format.FilterList:
		return r.NewFilterList()
	case format.Array:
		return r.NewArray()
	}

	if kind.IsBlob() {
		v := r.opaques.Get()
		v.kind = kind

		return v
	}

	return nil
}

// Release clears v and returns it to its free list. Containers release their
// entries and loads first.
//
// Releasing nil or an already pooled value is a no-op. So is releasing a value
// obtained from an entry (a load, a key or a summary): it stays owned by the
// entry and returns to the pool when its container is cleared. Refused
// releases are counted in Stats as Rejected.
func (r *Registry) Release(v Value) {
	switch t := v.(type) {
	case *Int:
		putBack(r.ints, t, t.reset)
	case *UInt:
		putBack(r.uints, t, t.reset)
	case *Float:
		putBack(r.floats, t, t.reset)
	case *Double:
		putBack(r.doubles, t, t.reset)
	case *Real:
		putBack(r.reals, t, t.reset)
	case *Date:
		putBack(r.dates, t, t.reset)
	case *Time:
		putBack(r.times, t, t.reset)
	case *DateTime:
		putBack(r.dateTimes, t, t.reset)
	case *Qos:
		putBack(r.qoses, t, t.reset)
	case *State:
		putBack(r.states, t, t.reset)
	case *Enum:
		putBack(r.enums, t, t.reset)
	case *Buffer:
		putBack(r.buffers, t, t.reset)
	case *Opaque:
		putBack(r.opaques, t, t.reset)
	case *NoData:
		putBack(r.noData, t, func() {})
	case *ErrorValue:
		putBack(r.errorVals, t, t.reset)
	case *FieldList:
		putBack(r.fieldLists, t, t.Clear)
	case *ElementList:
		putBack(r.elementLists, t, t.Clear)
	case *Map:
		putBack(r.maps, t, t.Clear)
	case *Vector:
		putBack(r.vectors, t, t.Clear)
	case *Series:
		putBack(r.series, t, t.Clear)
	case *FilterList:
		putBack(r.filterLists, t, t.Clear)
	case *Array:
		putBack(r.arrays, t, t.Clear)
	}
}

// putBack resets v unless it is already pooled or owned, then offers it to l
// so that a refused release is counted as rejected.
func putBack[T interface {
	pool.Pooled
	InPool() bool
	Owned() bool
}](l *pool.FreeList[T], v T, reset func()) {
	if !v.InPool() && !v.Owned() {
		reset()
	}
	l.Put(v)
}

// NewFieldList returns an empty FieldList owned by the caller.
func (r *Registry) NewFieldList() *FieldList {
	fl := r.fieldLists.Get()
	fl.reg = r

	return fl
}

// NewElementList returns an empty ElementList owned by the caller.
func (r *Registry) NewElementList() *ElementList {
	el := r.elementLists.Get()
	el.reg = r

	return el
}

// NewMap returns an empty Map owned by the caller.
func (r *Registry) NewMap() *Map {
	m := r.maps.Get()
	m.reg = r

	return m
}

// NewVector returns an empty Vector owned by the caller.
func (r *Registry) NewVector() *Vector {
	v := r.vectors.Get()
	v.reg = r

	return v
}

// NewSeries returns an empty Series owned by the caller.
func (r *Registry) NewSeries() *Series {
	s := r.series.Get()
	s.reg = r

	return s
}

// NewFilterList returns an empty FilterList owned by the caller.
func (r *Registry) NewFilterList() *FilterList {
	fl := r.filterLists.Get()
	fl.reg = r

	return fl
}

// NewArray returns an empty Array owned by the caller.
func (r *Registry) NewArray() *Array {
	a := r.arrays.Get()
	a.reg = r

	return a
}

// AcquireScratch returns a scratch buffer of length n.
func (r *Registry) AcquireScratch(n int) []byte {
	return r.scratch.Get(n)
}

// ReleaseScratch returns a buffer obtained from AcquireScratch.
func (r *Registry) ReleaseScratch(b []byte) {
	r.scratch.Put(b)
}

// copyScratch copies src into dst, trading dst for a larger scratch buffer
// when it is too small. Empty src releases nothing and returns dst emptied.
func (r *Registry) copyScratch(dst, src []byte) []byte {
	if len(src) == 0 {
		return dst[:0]
	}
	if cap(dst) < len(src) {
		if cap(dst) > 0 {
			r.scratch.Put(dst)
		}
		dst = r.scratch.Get(len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)

	return dst
}

// Stats returns a snapshot of the registry's pool traffic.
func (r *Registry) Stats() Stats {
	var s Stats

	s.Scalars.Add(r.ints.Stats())
	s.Scalars.Add(r.uints.Stats())
	s.Scalars.Add(r.floats.Stats())
	s.Scalars.Add(r.doubles.Stats())
	s.Scalars.Add(r.reals.Stats())
	s.Scalars.Add(r.dates.Stats())
	s.Scalars.Add(r.times.Stats())
	s.Scalars.Add(r.dateTimes.Stats())
	s.Scalars.Add(r.qoses.Stats())
	s.Scalars.Add(r.states.Stats())
	s.Scalars.Add(r.enums.Stats())
	s.Scalars.Add(r.buffers.Stats())
	s.Scalars.Add(r.opaques.Stats())
	s.Scalars.Add(r.noData.Stats())
	s.Scalars.Add(r.errorVals.Stats())

	s.Entries.Add(r.fieldEntries.Stats())
	s.Entries.Add(r.elementEntries.Stats())
	s.Entries.Add(r.mapEntries.Stats())
	s.Entries.Add(r.vectorEntries.Stats())
	s.Entries.Add(r.seriesEntries.Stats())
	s.Entries.Add(r.filterEntries.Stats())
	s.Entries.Add(r.arrayEntries.Stats())

	s.Containers.Add(r.fieldLists.Stats())
	s.Containers.Add(r.elementLists.Stats())
	s.Containers.Add(r.maps.Stats())
	s.Containers.Add(r.vectors.Stats())
	s.Containers.Add(r.series.Stats())
	s.Containers.Add(r.filterLists.Stats())
	s.Containers.Add(r.arrays.Stats())

	s.Scratch = r.scratch.Stats()

	return s
}
