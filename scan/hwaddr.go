package scan

import (
	"fmt"
	"net"
)

// HardwareAddr is a 6 byte Ethernet MAC address. Unlike net.HardwareAddr it
// is comparable and can be used as a map key.
type HardwareAddr [6]byte

var (
	ZeroHardwareAddr      = HardwareAddr{}
	BroadcastHardwareAddr = HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
)

// ParseHardwareAddr parses any form accepted by net.ParseMAC, provided it
// describes a 48 bit address.
func ParseHardwareAddr(s string) (HardwareAddr, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return HardwareAddr{}, err
	}
	return HardwareAddrFromSlice(mac)
}

func HardwareAddrFromSlice(b []byte) (HardwareAddr, error) {
	var mac HardwareAddr
	if len(b) != len(mac) {
		return mac, fmt.Errorf("invalid hardware address length %d", len(b))
	}
	copy(mac[:], b)
	return mac, nil
}

func (m HardwareAddr) String() string {
	return net.HardwareAddr(m[:]).String()
}

func (m HardwareAddr) IsZero() bool {
	return m == ZeroHardwareAddr
}

// Net returns a copy of the address as a net.HardwareAddr.
func (m HardwareAddr) Net() net.HardwareAddr {
	out := make(net.HardwareAddr, len(m))
	copy(out, m[:])
	return out
}

func (m HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *HardwareAddr) UnmarshalText(text []byte) error {
	parsed, err := ParseHardwareAddr(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
