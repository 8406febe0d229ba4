package frame

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/omm/compress"
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/hash"
	"github.com/arloliu/omm/internal/options"
)

// Packer builds frames. It is safe for concurrent use.
type Packer struct {
	cfg *config
}

// NewPacker creates a Packer.
//
// Parameters:
//   - opts: WithCompression, WithMinCompressSize, WithMaxPayload, WithLogger
//
// Returns:
//   - *Packer: the packer
//   - error: the first option that failed
func NewPacker(opts ...Option) (*Packer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Packer{cfg: cfg}, nil
}

// Compression returns the configured compression type.
func (p *Packer) Compression() format.CompressionType {
	return p.cfg.codec.Type()
}

// Append appends the frame of payload to dst.
//
// Returns:
//   - []byte: dst extended with the frame
//   - error: errs.ErrInvalidArgument when payload exceeds the size limit, or the
//     codec failure
func (p *Packer) Append(dst, payload []byte) ([]byte, error) {
	if len(payload) > p.cfg.maxPayload {
		return dst, errs.New(errs.KindInvalidArgument, "Packer.Append",
			fmt.Sprintf("payload of %d bytes exceeds %d", len(payload), p.cfg.maxPayload))
	}

	stored, ct := payload, format.CompressionNone
	if p.cfg.codec.Type() != format.CompressionNone && len(payload) >= p.cfg.minCompress {
		packed, err := p.cfg.codec.Compress(payload)
		if err != nil {
			return dst, fmt.Errorf("compress %s payload: %w", p.cfg.codec.Type(), err)
		}

		if len(packed) < len(payload) {
			stored, ct = packed, p.cfg.codec.Type()
		} else {
			p.cfg.logger.Debug("frame stored uncompressed",
				zap.Stringer("codec", p.cfg.codec.Type()),
				zap.Int("raw", len(payload)),
				zap.Int("compressed", len(packed)))
		}
	}

	h := Header{
		Version:     Version,
		Compression: ct,
		PayloadLen:  uint32(len(stored)),  //nolint:gosec
		RawLen:      uint32(len(payload)), //nolint:gosec
		Checksum:    hash.Checksum(payload),
	}
	dst = AppendHeader(dst, h)

	return append(dst, stored...), nil
}

// Pack returns the frame of payload.
func (p *Packer) Pack(payload []byte) ([]byte, error) {
	return p.Append(make([]byte, 0, HeaderSize+len(payload)), payload)
}

// Unpack decodes the first frame of data.
//
// The payload of an uncompressed frame aliases data.
//
// Returns:
//   - []byte: the raw payload
//   - Header: the frame header
//   - int: the number of bytes of data the frame occupies
//   - error: errs.ErrFrameTooShort, errs.ErrInvalidFrame,
//     errs.ErrUnknownCompression or errs.ErrChecksumMismatch
func Unpack(data []byte, opts ...Option) ([]byte, Header, int, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, Header{}, 0, err
	}

	h, err := DecodeHeader(data)
	if err != nil {
		return nil, Header{}, 0, err
	}
	if err := checkLimits(h, cfg.maxPayload); err != nil {
		return nil, h, 0, err
	}

	end := HeaderSize + int(h.PayloadLen)
	if len(data) < end {
		return nil, h, 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrFrameTooShort, end, len(data))
	}

	payload, err := open(h, data[HeaderSize:end])
	if err != nil {
		return nil, h, 0, err
	}

	return payload, h, end, nil
}

func checkLimits(h Header, maxPayload int) error {
	if int64(h.PayloadLen) > int64(maxPayload) || int64(h.RawLen) > int64(maxPayload) {
		return fmt.Errorf("%w: payload of %d bytes exceeds %d", errs.ErrInvalidFrame, max(h.PayloadLen, h.RawLen), maxPayload)
	}
	if h.Compression == format.CompressionNone && h.PayloadLen != h.RawLen {
		return fmt.Errorf("%w: uncompressed lengths differ", errs.ErrInvalidFrame)
	}

	return nil
}

// open decompresses and verifies a stored payload.
func open(h Header, stored []byte) ([]byte, error) {
	codec, err := compress.ForType(h.Compression)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
	}
	if len(payload) != int(h.RawLen) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", errs.ErrInvalidFrame, len(payload), h.RawLen)
	}
	if sum := hash.Checksum(payload); sum != h.Checksum {
		return nil, fmt.Errorf("%w: got %#016x, want %#016x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	return payload, nil
}

// Writer writes frames to an io.Writer.
type Writer struct {
	w   io.Writer
	p   *Packer
	buf []byte
}

// NewWriter creates a Writer packing with p.
func NewWriter(w io.Writer, p *Packer) *Writer {
	return &Writer{w: w, p: p}
}

// WriteFrame writes the frame of payload.
func (w *Writer) WriteFrame(payload []byte) error {
	var err error
	w.buf, err = w.p.Append(w.buf[:0], payload)
	if err != nil {
		return err
	}
	_, err = w.w.Write(w.buf)

	return err
}

// Reader reads frames from an io.Reader.
type Reader struct {
	r          io.Reader
	maxPayload int
	hdr        [HeaderSize]byte
	buf        []byte
}

// NewReader creates a Reader. Only WithMaxPayload applies.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Reader{r: r, maxPayload: cfg.maxPayload}, nil
}

// ReadFrame reads the next frame and returns its payload. The payload of an
// uncompressed frame is valid until the next call.
//
// Returns io.EOF when the stream ends on a frame boundary and
// errs.ErrFrameTooShort when it ends inside a frame.
func (r *Reader) ReadFrame() ([]byte, Header, error) {
	if _, err := io.ReadFull(r.r, r.hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, Header{}, fmt.Errorf("%w: truncated header", errs.ErrFrameTooShort)
		}

		return nil, Header{}, err
	}

	h, err := DecodeHeader(r.hdr[:])
	if err != nil {
		return nil, Header{}, err
	}
	if err := checkLimits(h, r.maxPayload); err != nil {
		return nil, h, err
	}

	if cap(r.buf) < int(h.PayloadLen) {
		r.buf = make([]byte, h.PayloadLen)
	}
	stored := r.buf[:h.PayloadLen]
	if _, err := io.ReadFull(r.r, stored); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, h, fmt.Errorf("%w: truncated payload", errs.ErrFrameTooShort)
		}

		return nil, h, err
	}

	payload, err := open(h, stored)
	if err != nil {
		return nil, h, err
	}

	return payload, h, nil
}
