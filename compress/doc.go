// Package compress provides the payload codecs used by transport frames.
//
// A frame carries one encoded container, optionally compressed. The codec is
// selected by the frame's format.CompressionType byte:
//
//   - CompressionNone: payload stored as is
//   - CompressionZstd: Zstandard, best ratio, for snapshots and dictionaries
//   - CompressionS2: S2, balanced, for update streams
//   - CompressionLZ4: LZ4 block, fastest decompression
//
// Every codec implements Codec:
//
//	c, err := compress.ForType(format.CompressionS2)
//	if err != nil {
//		return err
//	}
//	packed, err := c.Compress(payload)
//
// Zstd uses github.com/valyala/gozstd when cgo is available and the pure Go
// github.com/klauspost/compress/zstd otherwise (or with the purego build tag).
// Both produce standard Zstandard frames and decode each other's output.
//
// All codecs are safe for concurrent use. Compress never modifies its input;
// only the NoOp codec returns its input slice.
package compress
