package compress

import (
	"fmt"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
)

// Compressor compresses one frame payload.
type Compressor interface {
	// Compress returns the compressed form of data. The result is owned by the
	// caller. Empty input yields an empty result.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original payload, or an error when data is
	// corrupted or was produced by another algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
	// Type returns the compression type written into frame headers.
	Type() format.CompressionType
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// ForType returns the shared built-in codec for compressionType.
//
// Returns:
//   - Codec: the codec
//   - error: errs.ErrUnknownCompression for an undefined type
func ForType(compressionType format.CompressionType) (Codec, error) {
	if c, ok := builtinCodecs[compressionType]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnknownCompression, compressionType)
}

// ParseCodec resolves a codec by name ("none", "zstd", "s2" or "lz4").
func ParseCodec(name string) (Codec, error) {
	ct, ok := format.ParseCompressionType(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownCompression, name)
	}

	return ForType(ct)
}

// Ratio returns compressed/original, 0 for empty input.
func Ratio(original, compressed int) float64 {
	if original == 0 {
		return 0
	}

	return float64(compressed) / float64(original)
}
