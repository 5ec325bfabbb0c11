//go:build !linux

package link

import (
	"fmt"
	"net"

	"github.com/liamg/arpsweep/scan"
)

const DefaultBackend = BackendPCAP

func openAFPacket(ifi *net.Interface) (scan.Transport, error) {
	return nil, fmt.Errorf("the %s backend is only available on linux", BackendAFPacket)
}
