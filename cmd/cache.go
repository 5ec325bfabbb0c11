package cmd

import (
	"os"

	"github.com/liamg/arpsweep/enrich"
	"github.com/liamg/arpsweep/link"
	"github.com/liamg/arpsweep/output"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache [CIDR]",
	Short: "Show the operating system's ARP cache without sending anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		format, err := output.ParseFormat(cfg.Output)
		if err != nil {
			return usageError{err}
		}

		iface, err := selectInterface(cfg.Interface)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if iface.Subnet, err = parseSubnet(args[0]); err != nil {
				return err
			}
		}

		hosts := link.CacheTable(iface.Subnet)
		if cfg.Vendor {
			enrich.Vendors(hosts)
		}

		return output.Write(os.Stdout, format, output.Report{
			Interface: iface.Name,
			Subnet:    iface.Subnet,
			Hosts:     hosts,
		})
	},
}
