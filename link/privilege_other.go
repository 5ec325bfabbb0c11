//go:build !linux && !windows

package link

import (
	"os"

	"github.com/liamg/arpsweep/scan"
)

// CheckPrivileges reports scan.ErrPermissionDenied unless running as root;
// BPF devices are root-only by default.
func CheckPrivileges() error {
	if os.Geteuid() != 0 {
		return scan.ErrPermissionDenied
	}
	return nil
}
