package link

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/liamg/arpsweep/scan"
	"github.com/mdlayher/arp"
)

// Resolve asks a single address for its hardware address, waiting until
// ctx is done.
func Resolve(ctx context.Context, iface scan.Interface, ip netip.Addr) (scan.HardwareAddr, error) {
	ifi, err := net.InterfaceByName(iface.Name)
	if err != nil {
		return scan.HardwareAddr{}, fmt.Errorf("%w: %s", scan.ErrNoSuchInterface, iface.Name)
	}
	if err := CheckPrivileges(); err != nil {
		return scan.HardwareAddr{}, err
	}

	client, err := arp.Dial(ifi)
	if err != nil {
		return scan.HardwareAddr{}, classifyOpenError(ifi.Name, err)
	}
	defer client.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := client.SetDeadline(deadline); err != nil {
			return scan.HardwareAddr{}, err
		}
	}

	mac, err := client.Resolve(ip)
	if err != nil {
		if isTimeout(err) {
			return scan.HardwareAddr{}, scan.ErrTimeout
		}
		return scan.HardwareAddr{}, err
	}
	return scan.HardwareAddrFromSlice(mac)
}
