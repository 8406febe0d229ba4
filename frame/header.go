package frame

import (
	"fmt"

	"github.com/arloliu/omm/endian"
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
)

const (
	// Magic opens every frame.
	Magic uint16 = 0x4f4d
	// Version is the frame layout version written by this package.
	Version uint8 = 1
	// HeaderSize is the fixed header length.
	HeaderSize = 20
)

var engine = endian.GetWireEngine()

// Header is the fixed frame header.
type Header struct {
	Version     uint8
	Compression format.CompressionType
	PayloadLen  uint32 // stored bytes following the header
	RawLen      uint32 // payload length after decompression
	Checksum    uint64 // xxHash64 of the raw payload
}

// AppendHeader appends the wire form of h to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = engine.AppendUint16(dst, Magic)
	dst = append(dst, h.Version, byte(h.Compression))
	dst = engine.AppendUint32(dst, h.PayloadLen)
	dst = engine.AppendUint32(dst, h.RawLen)

	return engine.AppendUint64(dst, h.Checksum)
}

// DecodeHeader decodes the first HeaderSize bytes of b.
//
// Returns:
//   - Header: the decoded header
//   - error: errs.ErrFrameTooShort for a short buffer, errs.ErrInvalidFrame
//     for a bad magic or an unsupported version
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d header bytes", errs.ErrFrameTooShort, len(b))
	}
	if m := engine.Uint16(b[0:2]); m != Magic {
		return Header{}, fmt.Errorf("%w: magic %#04x", errs.ErrInvalidFrame, m)
	}

	h := Header{
		Version:     b[2],
		Compression: format.CompressionType(b[3]),
		PayloadLen:  engine.Uint32(b[4:8]),
		RawLen:      engine.Uint32(b[8:12]),
		Checksum:    engine.Uint64(b[12:20]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: version %d", errs.ErrInvalidFrame, h.Version)
	}

	return h, nil
}
