package link

import (
	"net/netip"

	"github.com/liamg/arpsweep/scan"
	"github.com/mostlygeek/arp"
)

// CacheTable returns the operating system's ARP cache entries that fall
// inside subnet, in ascending address order. Incomplete entries are
// skipped.
func CacheTable(subnet netip.Prefix) []scan.Host {
	return filterCache(arp.Table(), subnet)
}

func filterCache(table map[string]string, subnet netip.Prefix) []scan.Host {
	result := scan.NewScanResult()
	for ipStr, macStr := range table {
		ip, err := netip.ParseAddr(ipStr)
		if err != nil || !subnet.Contains(ip) {
			continue
		}
		mac, err := scan.ParseHardwareAddr(macStr)
		if err != nil || mac.IsZero() {
			continue
		}
		result.Add(ip, mac)
	}
	return result.Hosts()
}
