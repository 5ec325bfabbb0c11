package cmd

import (
	"os"

	"github.com/liamg/arpsweep/link"
	"github.com/liamg/arpsweep/output"
	"github.com/spf13/cobra"
)

var interfacesCmd = &cobra.Command{
	Use:     "interfaces",
	Aliases: []string{"ifaces"},
	Short:   "List the interfaces that can be scanned",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		format, err := output.ParseFormat(cfg.Output)
		if err != nil {
			return usageError{err}
		}

		infos, err := link.Available()
		if err != nil {
			return err
		}
		return output.WriteInterfaces(os.Stdout, format, infos)
	},
}
