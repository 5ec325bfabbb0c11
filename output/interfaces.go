package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/fatih/color"
	"github.com/liamg/arpsweep/link"
	"gopkg.in/yaml.v3"
)

// WriteInterfaces renders the interface list in the same formats as Write.
func WriteInterfaces(w io.Writer, format Format, infos []link.Info) error {
	if infos == nil {
		infos = []link.Info{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"index", "name", "mac", "ipv4", "ipv6", "flags"})
		for _, info := range infos {
			_ = cw.Write([]string{
				fmt.Sprint(info.Index),
				info.Name,
				info.HardwareAddr,
				joinPrefixes(info.IPv4),
				joinPrefixes(info.IPv6),
				info.Flags.String(),
			})
		}
		cw.Flush()
		return cw.Error()
	case FormatPlain:
		return writeInterfacesPlain(w, infos)
	}
	return fmt.Errorf("unknown output format '%s'", format)
}

func writeInterfacesPlain(w io.Writer, infos []link.Info) error {
	headingColor.Fprintln(w, "Available network interfaces:")

	nameWidth, macWidth := 0, 0
	for _, info := range infos {
		if len(info.Name) > nameWidth {
			nameWidth = len(info.Name)
		}
		if len(info.HardwareAddr) > macWidth {
			macWidth = len(info.HardwareAddr)
		}
	}

	for _, info := range infos {
		color.New(color.FgYellow).Fprintf(w, "%d:", info.Index)
		color.New(color.FgCyan).Fprintf(w, " Name: %s", pad(info.Name, nameWidth))
		color.New(color.FgWhite).Fprintf(w, " MAC: [%s]", pad(info.HardwareAddr, macWidth))
		color.New(color.FgMagenta).Fprintf(w, " IPv4: [%s]", joinPrefixes(info.IPv4))
		color.New(color.FgYellow).Fprintf(w, " IPv6: [%s]", joinPrefixes(info.IPv6))
		color.New(color.FgWhite).Fprintf(w, " Flags: [%s]\n", info.Flags)
	}
	return nil
}

func joinPrefixes(prefixes []netip.Prefix) string {
	parts := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}
