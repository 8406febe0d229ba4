package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/omm/compress"
	"github.com/arloliu/omm/frame"
)

func newFrameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Pack, unpack and inspect frames",
	}

	var hexInput bool
	cmd.PersistentFlags().BoolVar(&hexInput, "hex", false, "input is hex text")

	info := &cobra.Command{
		Use:   "info [file]",
		Short: "Show the header of every frame in a stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, hexInput)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for n, off := 0, 0; off < len(data); n++ {
				_, h, size, err := frame.Unpack(data[off:])
				if err != nil {
					return fmt.Errorf("frame %d at offset %d: %w", n, off, err)
				}
				fmt.Fprintf(out, "frame %d: offset=%d version=%d compression=%s stored=%d raw=%d ratio=%.2f checksum=%016x\n",
					n, off, h.Version, h.Compression, h.PayloadLen, h.RawLen,
					compress.Ratio(int(h.RawLen), int(h.PayloadLen)), h.Checksum)
				off += size
			}

			return nil
		},
	}

	var (
		output string
		raw    bool
	)
	pack := &cobra.Command{
		Use:   "pack [file]",
		Short: "Wrap a payload in one frame",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, hexInput)
			if err != nil {
				return err
			}
			framed, err := a.pack(data)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, framed, raw)
		},
	}
	pack.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	pack.Flags().BoolVar(&raw, "raw", false, "write binary instead of hex to stdout")

	unpack := &cobra.Command{
		Use:   "unpack [file]",
		Short: "Concatenate the payloads of every frame in a stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, hexInput)
			if err != nil {
				return err
			}

			r, err := frame.NewReader(bytes.NewReader(data))
			if err != nil {
				return err
			}
			var payloads []byte
			for {
				p, _, err := r.ReadFrame()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				payloads = append(payloads, p...)
			}

			return writeOutput(cmd, output, payloads, raw)
		},
	}
	unpack.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	unpack.Flags().BoolVar(&raw, "raw", false, "write binary instead of hex to stdout")

	cmd.AddCommand(info, pack, unpack)

	return cmd
}
