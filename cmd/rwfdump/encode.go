package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/omm/frame"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		output string
		framed bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "encode [spec.yaml]",
		Short: "Build a container from a YAML description",
		Long: `Encode reads a YAML description of a FieldList, ElementList, Map or
Series from a file (or stdin) and writes the encoded bytes. Output to stdout
is hex text unless --raw is set. With --framed the payload is wrapped in a
frame using the configured compression.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args, false)
			if err != nil {
				return err
			}
			spec, err := parseSpec(bytes.NewReader(src))
			if err != nil {
				return err
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}
			b := &builder{reg: reg, dict: a.dict}

			v, err := b.build(spec)
			if err != nil {
				return fmt.Errorf("encode %s: %w", spec.Type, err)
			}
			defer reg.Release(v)

			data := v.EncodedData()
			a.log.Debug("container encoded",
				zap.Stringer("type", v.DataType()),
				zap.Int("bytes", len(data)))

			if framed {
				if data, err = a.pack(data); err != nil {
					return err
				}
			}

			return writeOutput(cmd, output, data, raw)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&framed, "framed", false, "wrap the payload in a frame")
	cmd.Flags().BoolVar(&raw, "raw", false, "write binary instead of hex to stdout")

	return cmd
}

// pack wraps payload in one frame using the configured compression.
func (a *app) pack(payload []byte) ([]byte, error) {
	p, err := frame.NewPacker(
		frame.WithCompression(a.cfg.Compression),
		frame.WithMinCompressSize(a.cfg.MinCompress),
		frame.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := frame.NewWriter(&buf, p).WriteFrame(payload); err != nil {
		return nil, err
	}
	a.log.Debug("payload framed",
		zap.Stringer("compression", p.Compression()),
		zap.Int("raw", len(payload)),
		zap.Int("framed", buf.Len()))

	return buf.Bytes(), nil
}
