// Package frame wraps encoded container payloads in a checksummed, optionally
// compressed envelope for transport or storage.
//
// Wire layout, big-endian:
//
//	offset  size  field
//	0       2     magic 0x4f 0x4d ("OM")
//	2       1     version (1)
//	3       1     compression type (format.CompressionType)
//	4       4     stored payload length
//	8       4     raw payload length
//	12      8     xxHash64 of the raw payload
//	20      n     stored payload
//
// A Packer compresses payloads with its configured codec and falls back to
// CompressionNone when compression would not shrink the payload. Unpack and
// Reader verify the checksum after decompression.
package frame
