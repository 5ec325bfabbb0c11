package scan

import (
	"net/netip"
	"time"
)

// Transport sends and receives raw Ethernet frames on one interface. A
// transport belongs to a single scan session and is closed when it ends.
type Transport interface {
	// Send writes exactly one frame.
	Send(frame []byte) error
	// Receive blocks until a frame arrives or timeout elapses, in which case
	// it returns ErrTimeout.
	Receive(timeout time.Duration) ([]byte, error)
	Close() error
}

// Opener binds a new Transport to the given interface.
type Opener func(iface Interface) (Transport, error)

// Interface describes the local interface a scan is sent from.
type Interface struct {
	Name         string
	HardwareAddr HardwareAddr
	// Address is the interface's own IPv4 address, used as the ARP sender
	// and to match replies.
	Address netip.Addr
	// Subnet is the range to scan. It usually is the interface's own
	// network but may be narrowed by the caller.
	Subnet netip.Prefix
}
