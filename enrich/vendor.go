// Package enrich decorates discovered hosts with vendor and hostname
// information.
package enrich

import (
	"github.com/google/gopacket/macs"
	"github.com/liamg/arpsweep/scan"
)

// Vendor returns the manufacturer registered for the MAC's OUI, or an empty
// string when the prefix is unknown.
func Vendor(mac scan.HardwareAddr) string {
	return macs.ValidMACPrefixMap[[3]byte{mac[0], mac[1], mac[2]}]
}

func Vendors(hosts []scan.Host) {
	for i := range hosts {
		hosts[i].Vendor = Vendor(hosts[i].MAC)
	}
}
