package cmd

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/liamg/arpsweep/config"
	"github.com/liamg/arpsweep/enrich"
	"github.com/liamg/arpsweep/link"
	"github.com/liamg/arpsweep/output"
	"github.com/liamg/arpsweep/scan"
	"github.com/liamg/arpsweep/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// minPrefixBits is the widest subnet scanned without --force.
const minPrefixBits = 16

var configFile string
var versionRequested bool

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", configFile, "Config file (default $HOME/.config/arpsweep/arpsweep.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&versionRequested, "version", "", versionRequested, "Output version information and exit")
	rootCmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringP(config.KeyInterface, "i", "", "Interface to use (default: the interface carrying the default route)")
	rootCmd.PersistentFlags().StringP(config.KeyOutput, "o", "plain", "Output format. Must be one of plain, json, yaml, csv")
	rootCmd.PersistentFlags().String(config.KeyColor, "auto", "Colour output. Must be one of auto, on, off")
	rootCmd.PersistentFlags().DurationP(config.KeyTimeout, "t", 0, "Time to wait for replies (default: from profile)")
	rootCmd.PersistentFlags().String(config.KeyBackend, "", "Link backend. Must be one of afpacket, pcap (default: afpacket on linux, pcap elsewhere)")
	rootCmd.PersistentFlags().Bool(config.KeyVendor, true, "Look up MAC vendors")

	rootCmd.Flags().StringP(config.KeyProfile, "p", config.DefaultProfile, "Scan profile. Must be one of default, fast, stealth, chaos")
	rootCmd.Flags().Duration(config.KeyQuantum, scan.DefaultReceiveQuantum, "Longest single wait for a frame")
	rootCmd.Flags().Duration(config.KeyInterval, 0, "Delay between requests once the burst is spent (default: from profile)")
	rootCmd.Flags().Int(config.KeyBurst, scan.DefaultBurst, "Requests sent back to back before pacing applies")
	rootCmd.Flags().Int(config.KeyPasses, 0, "Request passes per address (default: from profile)")
	rootCmd.Flags().Bool(config.KeyRandom, false, "Probe addresses in random order (default: from profile)")
	rootCmd.Flags().BoolP(config.KeyResolve, "r", false, "Resolve hostnames with reverse DNS")
	rootCmd.Flags().Bool(config.KeyMDNS, false, "Resolve hostnames with multicast DNS")
	rootCmd.Flags().String(config.KeyPcapFile, "", "Write all ARP traffic of the scan to a pcap file")
	rootCmd.Flags().Bool(config.KeyForce, false, "Allow scanning subnets wider than /16, up to /12")

	rootCmd.AddCommand(interfacesCmd, cacheCmd, probeCmd)
}

var rootCmd = &cobra.Command{
	Use:   "arpsweep [CIDR]",
	Short: "arpsweep finds the devices on your LAN",
	Long: `Broadcasts an ARP request to every address of a local IPv4 subnet and lists
the hosts that answer, along with their hardware (MAC) addresses.

The subnet defaults to the one assigned to the chosen interface. Raw link-layer
access is required: run as root or grant CAP_NET_RAW.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if versionRequested {
			v := version.Version
			if v == "" {
				v = "development version"
			}
			fmt.Printf("arpsweep %s\n", v)
			return nil
		}

		cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		format, err := output.ParseFormat(cfg.Output)
		if err != nil {
			return usageError{err}
		}

		backend, err := link.ParseBackend(cfg.Backend)
		if err != nil {
			return usageError{err}
		}

		iface, err := selectInterface(cfg.Interface)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			subnet, err := parseSubnet(args[0])
			if err != nil {
				return err
			}
			if !subnet.Contains(iface.Address) {
				log.Warnf("%s is not the subnet of %s (%s); only on-link hosts can answer", subnet, iface.Name, iface.Subnet)
			}
			iface.Subnet = subnet
		}

		if iface.Subnet.Bits() < minPrefixBits && !cfg.Force {
			return usageError{fmt.Errorf("refusing to scan %s: wider than /%d, use --force to scan it anyway", iface.Subnet, minPrefixBits)}
		}

		opener := link.Opener(backend)
		if cfg.PcapFile != "" {
			f, err := os.Create(cfg.PcapFile)
			if err != nil {
				return err
			}
			defer f.Close()
			opener = link.RecordingOpener(opener, f)
		}

		scanner := scan.NewARPScanner(opener, append(cfg.ScanOptions(), scan.WithLogger(log.StandardLogger()))...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		log.Debugf("Scanning %s on %s (%s backend, %s profile)...", iface.Subnet, iface.Name, backend, cfg.Profile)
		result, err := scanner.Scan(ctx, iface)
		if err != nil {
			return err
		}

		hosts := result.Hosts()
		if cfg.Vendor {
			enrich.Vendors(hosts)
		}
		if cfg.Resolve {
			enrich.ReverseNames(ctx, hosts)
		}
		if cfg.MDNS {
			enrich.MDNSNames(iface.Name, hosts, cfg.Timeout)
		}

		stats := result.Stats()
		return output.Write(os.Stdout, format, output.Report{
			Interface: iface.Name,
			Subnet:    iface.Subnet,
			Hosts:     hosts,
			Stats:     &stats,
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// setup loads the configuration for cmd and applies its logging and colour
// settings.
func setup(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.New(cmd.Flags(), configFile)
	if err != nil {
		return nil, usageError{err}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, usageError{err}
	}

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	switch cfg.Color {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}

	return cfg, nil
}

func selectInterface(name string) (scan.Interface, error) {
	if name != "" {
		return link.Lookup(name)
	}
	iface, err := link.DefaultInterface()
	if err != nil {
		return iface, err
	}
	log.Debugf("Using interface %s (%s, %s)", iface.Name, iface.HardwareAddr, iface.Subnet)
	return iface, nil
}

func parseSubnet(s string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, usageError{fmt.Errorf("invalid subnet '%s': %w", s, err)}
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, usageError{fmt.Errorf("invalid subnet '%s': only IPv4 is supported", s)}
	}
	return prefix.Masked(), nil
}
