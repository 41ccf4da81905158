package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFlagsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Print the option bit-set selected by the flags",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			opts, err := a.stretchOptions()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "0x%08x %v\n", uint32(opts.Flags()), opts)
			return nil
		},
	}
	addStretchFlags(cmd)
	return cmd
}
