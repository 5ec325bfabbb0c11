// Package link provides the raw link-layer transports used by the scanner,
// along with the interface and neighbour-table lookups that surround a scan.
package link

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/liamg/arpsweep/scan"
)

type Backend string

const (
	// BackendAFPacket uses a Linux AF_PACKET socket.
	BackendAFPacket Backend = "afpacket"
	// BackendPCAP uses libpcap and works wherever libpcap (or Npcap) does.
	BackendPCAP Backend = "pcap"
)

const snapLen = 65536

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(s)) {
	case "":
		return DefaultBackend, nil
	case BackendAFPacket:
		return BackendAFPacket, nil
	case BackendPCAP:
		return BackendPCAP, nil
	}
	return "", fmt.Errorf("unknown link backend '%s': must be one of %s, %s", s, BackendAFPacket, BackendPCAP)
}

// Open binds a transport for backend to the named interface. The caller's
// privileges are checked up front so a missing capability is reported as
// scan.ErrPermissionDenied rather than whatever the OS returns.
func Open(backend Backend, iface scan.Interface) (scan.Transport, error) {
	ifi, err := net.InterfaceByName(iface.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scan.ErrNoSuchInterface, iface.Name)
	}
	if len(ifi.HardwareAddr) != 6 {
		return nil, fmt.Errorf("%w: %s has no Ethernet address", scan.ErrNoSuchInterface, iface.Name)
	}

	if err := CheckPrivileges(); err != nil {
		return nil, err
	}

	switch backend {
	case BackendAFPacket:
		return openAFPacket(ifi)
	case BackendPCAP:
		return openPCAP(ifi)
	}
	return nil, fmt.Errorf("unknown link backend '%s'", backend)
}

// Opener adapts Open to the scanner's opener signature.
func Opener(backend Backend) scan.Opener {
	return func(iface scan.Interface) (scan.Transport, error) {
		return Open(backend, iface)
	}
}

// classifyOpenError maps OS and libpcap failures onto the scan error
// taxonomy. libpcap only reports errors as text.
func classifyOpenError(name string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, os.ErrPermission),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "operation not permitted"),
		strings.Contains(msg, "you don't have permission"):
		return fmt.Errorf("%w: %s: %s", scan.ErrPermissionDenied, name, err)
	case strings.Contains(msg, "no such device"),
		strings.Contains(msg, "no such interface"):
		return fmt.Errorf("%w: %s: %s", scan.ErrNoSuchInterface, name, err)
	}
	return fmt.Errorf("opening %s: %w", name, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
