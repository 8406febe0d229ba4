package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/omm/dictionary"
)

var errNoDictionary = errors.New("no dictionary: use --dict or set dictionary in the config file")

func newDictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Inspect the field dictionary",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show dictionary summary",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.dict == nil {
					return errNoDictionary
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "version: %s\n", a.dict.Version)
				fmt.Fprintf(out, "fields: %d\n", a.dict.Len())
				fmt.Fprintf(out, "acronym hash collisions: %t\n", a.dict.HasAcronymCollision())

				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every field in fid order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.dict == nil {
					return errNoDictionary
				}
				for def := range a.dict.All() {
					printField(cmd.OutOrStdout(), def)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "lookup <fid|acronym>...",
			Short: "Look up fields by id or acronym",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.dict == nil {
					return errNoDictionary
				}
				for _, arg := range args {
					def, ok := lookupField(a.dict, arg)
					if !ok {
						return fmt.Errorf("field %q not found", arg)
					}
					printField(cmd.OutOrStdout(), def)
				}

				return nil
			},
		},
	)

	return cmd
}

func lookupField(d *dictionary.Dictionary, key string) (dictionary.FieldDef, bool) {
	if fid, err := strconv.ParseInt(key, 10, 16); err == nil {
		return d.FieldByID(int16(fid))
	}

	return d.FieldByName(key)
}

func printField(w io.Writer, def dictionary.FieldDef) {
	fmt.Fprintf(w, "%6d  %-16s %-8s", def.FieldID, def.Acronym, def.Type)
	if def.RippleTo != 0 {
		fmt.Fprintf(w, " rippleTo=%d", def.RippleTo)
	}
	if def.Enums != nil {
		fmt.Fprintf(w, " enums=%d", def.Enums.Len())
	}
	fmt.Fprintln(w)
}
