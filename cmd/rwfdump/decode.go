package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/omm/codec"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/frame"
)

// decodable is implemented by every container except Array.
type decodable interface {
	codec.Value
	Decode(data []byte, major, minor uint8, dict codec.FieldDictionary, defs *codec.SetDefinitions) error
}

func newDecodeCmd(a *app) *cobra.Command {
	var (
		typeName string
		hexInput bool
		framed   bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Render an encoded container as text",
		Long: `Decode reads an encoded container from a file (or stdin) and prints its
text rendering. With --framed the input is a stream of frames and every
frame payload is decoded in turn.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := format.ParseDataType(typeName)
			if !ok || (!kind.IsContainer() && kind != format.Array) {
				return fmt.Errorf("--type %q is not a container type", typeName)
			}

			data, err := readInput(cmd, args, hexInput)
			if err != nil {
				return err
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}

			if !framed {
				return a.decodeOne(cmd.OutOrStdout(), reg, kind, data)
			}

			r, err := frame.NewReader(bytes.NewReader(data))
			if err != nil {
				return err
			}
			for n := 0; ; n++ {
				payload, hdr, err := r.ReadFrame()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("frame %d: %w", n, err)
				}
				a.log.Debug("frame read",
					zap.Int("index", n),
					zap.Stringer("compression", hdr.Compression),
					zap.Uint32("stored", hdr.PayloadLen),
					zap.Uint32("raw", hdr.RawLen))

				if err := a.decodeOne(cmd.OutOrStdout(), reg, kind, payload); err != nil {
					return fmt.Errorf("frame %d: %w", n, err)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", format.FieldList.String(), "container type of the payload")
	cmd.Flags().BoolVar(&hexInput, "hex", false, "input is hex text")
	cmd.Flags().BoolVar(&framed, "framed", false, "input is a stream of frames")

	return cmd
}

// decodeOne decodes data as a container of kind and writes its rendering to
// w. The rendering is written even when the header fails so that the Error
// entry is visible.
func (a *app) decodeOne(w io.Writer, reg *codec.Registry, kind format.DataType, data []byte) error {
	v := reg.Acquire(kind)
	defer reg.Release(v)

	var err error
	switch c := v.(type) {
	case *codec.Array:
		err = c.Decode(data, a.cfg.Major, a.cfg.Minor)
	case decodable:
		err = c.Decode(data, a.cfg.Major, a.cfg.Minor, a.fieldDictionary(), nil)
	default:
		return fmt.Errorf("cannot decode %s", kind)
	}

	if _, werr := io.WriteString(w, v.String()); werr != nil {
		return werr
	}

	return err
}
