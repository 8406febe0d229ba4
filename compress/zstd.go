package compress

import "github.com/arloliu/omm/format"

// zstdLevel is the compression level used by both Zstd backends.
const zstdLevel = 3

// ZstdCompressor compresses payloads as Zstandard frames. The backend is
// chosen at build time, see the package documentation.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates the Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (ZstdCompressor) Type() format.CompressionType { return format.CompressionZstd }
