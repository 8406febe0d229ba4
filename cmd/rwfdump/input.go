package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readInput reads the first positional argument, or stdin when it is absent
// or "-". Hex input may contain whitespace between bytes.
func readInput(cmd *cobra.Command, args []string, hexInput bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if !hexInput {
		return data, nil
	}

	raw, err := hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	if err != nil {
		return nil, fmt.Errorf("parse hex input: %w", err)
	}

	return raw, nil
}

// writeOutput writes data to path, or to stdout when path is empty. Binary
// output to stdout is hex encoded unless raw is set.
func writeOutput(cmd *cobra.Command, path string, data []byte, raw bool) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	out := cmd.OutOrStdout()
	if raw {
		_, err := out.Write(data)
		return err
	}

	_, err := fmt.Fprintln(out, hex.EncodeToString(data))

	return err
}
