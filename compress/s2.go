package compress

import (
	"github.com/klauspost/compress/s2"

	"github.com/arloliu/omm/format"
)

// S2Compressor compresses payloads with S2.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// NewS2Compressor creates the S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Type returns format.CompressionS2.
func (S2Compressor) Type() format.CompressionType { return format.CompressionS2 }

// Compress encodes data as an S2 block.
func (S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block.
func (S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
