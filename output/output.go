// Package output renders scan results for the terminal or for other tools.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/liamg/arpsweep/scan"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts a format name or its first letter.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "plain", "p":
		return FormatPlain, nil
	case "json", "j":
		return FormatJSON, nil
	case "yaml", "y":
		return FormatYAML, nil
	case "csv", "c":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format '%s': must be one of plain, json, yaml, csv", s)
}

// Report is everything a presentation layer needs from one scan.
type Report struct {
	Interface string       `json:"interface" yaml:"interface"`
	Subnet    netip.Prefix `json:"subnet" yaml:"subnet"`
	Hosts     []scan.Host  `json:"hosts" yaml:"hosts"`
	Stats     *scan.Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func Write(w io.Writer, format Format, report Report) error {
	if report.Hosts == nil {
		report.Hosts = []scan.Host{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, report.Hosts)
	case FormatPlain:
		return writePlain(w, report)
	}
	return fmt.Errorf("unknown output format '%s'", format)
}

var csvHeader = []string{"ip", "mac", "vendor", "hostname"}

func writeCSV(w io.Writer, hosts []scan.Host) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, h := range hosts {
		if err := cw.Write([]string{h.IP.String(), h.MAC.String(), h.Vendor, h.Hostname}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	headingColor = color.New(color.FgGreen, color.Bold)
	ipColor      = color.New(color.FgCyan)
	macColor     = color.New(color.FgWhite)
	vendorColor  = color.New(color.FgMagenta)
	nameColor    = color.New(color.FgYellow)
	summaryColor = color.New(color.FgGreen)
)

func writePlain(w io.Writer, report Report) error {
	if report.Interface != "" {
		headingColor.Fprintf(w, "Scan results for %s on %s\n\n", report.Subnet, report.Interface)
	}

	if len(report.Hosts) == 0 {
		fmt.Fprintln(w, "No hosts found.")
	} else {
		fmt.Fprintf(w, "%s %s %s %s\n", pad("IP", 16), pad("MAC", 18), pad("VENDOR", 32), "HOSTNAME")
		for _, h := range report.Hosts {
			ipColor.Fprint(w, pad(h.IP.String(), 16), " ")
			macColor.Fprint(w, pad(h.MAC.String(), 18), " ")
			vendorColor.Fprint(w, pad(truncate(h.Vendor, 31), 32), " ")
			nameColor.Fprintln(w, h.Hostname)
		}
	}

	if report.Stats != nil {
		s := report.Stats
		fmt.Fprintln(w)
		summaryColor.Fprintf(
			w,
			"%d of %d hosts responded in %s (%d requests sent, %d failed, %d frames discarded)\n",
			len(report.Hosts),
			s.Targets,
			s.Elapsed.Round(time.Millisecond),
			s.Sent,
			s.SendFailures,
			s.Discarded,
		)
		if s.Unprobed > 0 {
			summaryColor.Fprintf(w, "%d addresses were never probed before the scan ended\n", s.Unprobed)
		}
	}
	return nil
}

// pad and truncate measure in runes; vendor names are not all ASCII.
func pad(input string, length int) string {
	if n := utf8.RuneCountInString(input); n < length {
		input += strings.Repeat(" ", length-n)
	}
	return input
}

func truncate(input string, length int) string {
	if utf8.RuneCountInString(input) <= length {
		return input
	}
	runes := []rune(input)
	return string(runes[:length-1]) + "…"
}
