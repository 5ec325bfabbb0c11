//go:build !linux

package link

import (
	"context"
	"net/netip"

	"github.com/liamg/arpsweep/scan"
)

// Resolve asks a single address for its hardware address, waiting until
// ctx is done.
func Resolve(ctx context.Context, iface scan.Interface, ip netip.Addr) (scan.HardwareAddr, error) {
	t, err := Open(BackendPCAP, iface)
	if err != nil {
		return scan.HardwareAddr{}, err
	}
	defer t.Close()

	request, err := scan.EncodeRequest(iface.HardwareAddr, iface.Address, ip)
	if err != nil {
		return scan.HardwareAddr{}, err
	}
	if err := t.Send(request); err != nil {
		return scan.HardwareAddr{}, err
	}

	return awaitReply(ctx, t, ip)
}
