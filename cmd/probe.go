package cmd

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/fatih/color"
	"github.com/liamg/arpsweep/enrich"
	"github.com/liamg/arpsweep/link"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe IP",
	Short: "Resolve the hardware address of a single host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		ip, err := netip.ParseAddr(args[0])
		if err != nil || !ip.Is4() {
			return usageError{fmt.Errorf("invalid IPv4 address '%s'", args[0])}
		}

		iface, err := selectInterface(cfg.Interface)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		mac, err := link.Resolve(ctx, iface, ip)
		if err != nil {
			return fmt.Errorf("%s did not answer: %w", ip, err)
		}

		line := fmt.Sprintf("%s is at %s", ip, color.GreenString(mac.String()))
		if cfg.Vendor {
			if vendor := enrich.Vendor(mac); vendor != "" {
				line += fmt.Sprintf(" (%s)", vendor)
			}
		}
		fmt.Println(line)
		return nil
	},
}
