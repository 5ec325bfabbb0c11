package link

import (
	"fmt"

	"github.com/liamg/arpsweep/scan"
	"golang.org/x/sys/unix"
)

// CheckPrivileges reports scan.ErrPermissionDenied unless CAP_NET_RAW is in
// the effective capability set.
func CheckPrivileges() error {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return fmt.Errorf("%w: reading capabilities: %s", scan.ErrPermissionDenied, err)
	}

	if data[unix.CAP_NET_RAW/32].Effective&(1<<(unix.CAP_NET_RAW%32)) == 0 {
		return scan.ErrPermissionDenied
	}
	return nil
}
