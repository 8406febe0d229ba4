package frame

import (
	"go.uber.org/zap"

	"github.com/arloliu/omm/compress"
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/internal/options"
)

// DefaultMaxPayload bounds the raw and stored payload of one frame.
const DefaultMaxPayload = 16 << 20

// DefaultMinCompressSize is the smallest payload a Packer tries to compress.
const DefaultMinCompressSize = 64

type config struct {
	codec       compress.Codec
	minCompress int
	maxPayload  int
	logger      *zap.Logger
}

func defaultConfig() *config {
	return &config{
		codec:       compress.NewNoOpCompressor(),
		minCompress: DefaultMinCompressSize,
		maxPayload:  DefaultMaxPayload,
		logger:      zap.NewNop(),
	}
}

// Option configures a Packer or a Reader.
type Option = options.Option[*config]

// WithCompression selects the payload codec.
func WithCompression(ct format.CompressionType) Option {
	return options.New("WithCompression", func(c *config) error {
		codec, err := compress.ForType(ct)
		if err != nil {
			return err
		}
		c.codec = codec

		return nil
	})
}

// WithMinCompressSize stores payloads shorter than n bytes uncompressed.
func WithMinCompressSize(n int) Option {
	return options.New("WithMinCompressSize", func(c *config) error {
		if n < 0 {
			return errs.New(errs.KindInvalidArgument, "WithMinCompressSize", "negative size")
		}
		c.minCompress = n

		return nil
	})
}

// WithMaxPayload bounds the payload size accepted by Pack and Unpack.
func WithMaxPayload(n int) Option {
	return options.New("WithMaxPayload", func(c *config) error {
		if n <= 0 || uint64(n) > uint64(^uint32(0)) {
			return errs.New(errs.KindOutOfRange, "WithMaxPayload", "size must be in 1..4GiB")
		}
		c.maxPayload = n

		return nil
	})
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return options.NoError("WithLogger", func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}
