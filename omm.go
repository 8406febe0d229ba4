// Package omm encodes and decodes RWF market-data containers.
//
// The container codec lives in the codec package: FieldList, ElementList,
// Map, Vector, Series, FilterList and Array values are acquired from a
// Registry, decoded lazily from a wire buffer or built entry by entry, and
// returned to the registry when done. FieldList entries are typed through a
// field dictionary (package dictionary). Encoded payloads can be wrapped in
// checksummed, optionally compressed frames (package frame).
//
// # Core Features
//
//   - Lazy decode: entries are materialized on first access
//   - Pooled values and entries through a per-registry free list
//   - Per-entry failure isolation with typed Error loads
//   - YAML field dictionaries with an xxHash acronym index
//   - Optional frame compression (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Building an ElementList:
//
//	reg := omm.NewDefaultRegistry()
//	el := reg.NewElementList()
//	defer el.ReturnToPool()
//	el.AddReal("BID", 3990, format.ExponentNeg2)
//	el.AddReal("ASK", 3994, format.ExponentNeg2)
//	el.Complete()
//	payload := el.EncodedData()
//
// Decoding a FieldList:
//
//	dict, _ := omm.LoadDictionary("fields.yaml")
//	reg, _ := omm.NewRegistry(codec.WithDictionary(dict))
//	fl := reg.NewFieldList()
//	defer fl.ReturnToPool()
//	if err := fl.Decode(payload, omm.WireMajorVersion, omm.WireMinorVersion, dict, nil); err != nil {
//	    return err
//	}
//	for e := range fl.All() {
//	    fmt.Println(e.Name(), e.Load())
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec,
// dictionary and frame packages. For fine-grained control, use those
// packages directly.
package omm

import (
	"github.com/arloliu/omm/codec"
	"github.com/arloliu/omm/dictionary"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/frame"
	"github.com/arloliu/omm/rwf"
)

// Version is the library version.
const Version = "0.1.0"

// Wire version written by encoders and expected by decoders.
const (
	WireMajorVersion = rwf.MajorVersion
	WireMinorVersion = rwf.MinorVersion
)

// NewRegistry creates a value registry with custom options.
//
// Parameters:
//   - opts: Optional configuration functions (see codec.RegistryOption)
//
// Returns:
//   - *codec.Registry: The created registry.
//   - error: An error if an option is invalid.
//
// Available options:
//   - codec.WithPreallocate(n)
//   - codec.WithEncodeBufferSize(n)
//   - codec.WithDictionary(dict)
//   - codec.WithSynchronized()
//   - codec.WithLogger(logger)
func NewRegistry(opts ...codec.RegistryOption) (*codec.Registry, error) {
	return codec.NewRegistry(opts...)
}

// NewDefaultRegistry creates an unsynchronized registry without a dictionary.
// It is meant for one goroutine building or decoding ElementList, Map, Vector,
// Series, FilterList and Array values.
func NewDefaultRegistry() *codec.Registry {
	return codec.MustNewRegistry()
}

// LoadDictionary reads a YAML field dictionary from path.
func LoadDictionary(path string) (*dictionary.Dictionary, error) {
	return dictionary.LoadFile(path)
}

// Pack wraps payload in one frame compressed with ct. Payloads too small or
// too random to shrink are stored uncompressed.
func Pack(payload []byte, ct format.CompressionType) ([]byte, error) {
	p, err := frame.NewPacker(frame.WithCompression(ct))
	if err != nil {
		return nil, err
	}

	return p.Pack(payload)
}

// Unpack returns the payload of the frame at the start of data and the number
// of bytes the frame occupies.
func Unpack(data []byte) ([]byte, int, error) {
	payload, _, n, err := frame.Unpack(data)

	return payload, n, err
}
