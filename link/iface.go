package link

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/liamg/arpsweep/scan"
)

// Info describes a host network interface for display.
type Info struct {
	Index        int            `json:"index" yaml:"index"`
	Name         string         `json:"name" yaml:"name"`
	HardwareAddr string         `json:"mac" yaml:"mac"`
	IPv4         []netip.Prefix `json:"ipv4" yaml:"ipv4"`
	IPv6         []netip.Prefix `json:"ipv6" yaml:"ipv6"`
	Flags        net.Flags      `json:"-" yaml:"-"`
	MTU          int            `json:"mtu" yaml:"mtu"`
}

// Usable reports whether ARP scanning makes sense on the interface.
func (i Info) Usable() bool {
	return i.Flags&net.FlagUp != 0 &&
		i.Flags&net.FlagLoopback == 0 &&
		len(i.IPv4) > 0
}

// Available lists the interfaces that are up, not loopback and carry an
// IPv4 address.
func Available() ([]Info, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []Info
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		info := newInfo(ifi, addrs)
		if info.Usable() {
			out = append(out, info)
		}
	}
	return out, nil
}

// Lookup resolves the named interface into the scanner's view of it.
func Lookup(name string) (scan.Interface, error) {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return scan.Interface{}, fmt.Errorf("%w: %s", scan.ErrNoSuchInterface, name)
	}
	return fromNet(ifi, nil)
}

func fromNet(ifi *net.Interface, preferred net.IP) (scan.Interface, error) {
	mac, err := scan.HardwareAddrFromSlice(ifi.HardwareAddr)
	if err != nil {
		return scan.Interface{}, fmt.Errorf("%w: %s has no Ethernet address", scan.ErrNoSuchInterface, ifi.Name)
	}

	addrs, err := ifi.Addrs()
	if err != nil {
		return scan.Interface{}, fmt.Errorf("%w: %s: %s", scan.ErrNoSuchInterface, ifi.Name, err)
	}

	prefix, ok := pickIPv4(addrs, preferred)
	if !ok {
		return scan.Interface{}, fmt.Errorf("%w: %s has no IPv4 address", scan.ErrNoSuchInterface, ifi.Name)
	}

	return scan.Interface{
		Name:         ifi.Name,
		HardwareAddr: mac,
		Address:      prefix.Addr(),
		Subnet:       prefix.Masked(),
	}, nil
}

// firstUsable picks the first interface that is up, not loopback, and has
// both a MAC and an IPv4 address.
func firstUsable() (scan.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return scan.Interface{}, err
	}
	for i := range ifaces {
		ifi := &ifaces[i]
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface, err := fromNet(ifi, nil); err == nil {
			return iface, nil
		}
	}
	return scan.Interface{}, fmt.Errorf("%w: no usable interface found", scan.ErrNoSuchInterface)
}

// pickIPv4 returns the IPv4 address (with its prefix length) matching
// preferred, or the first IPv4 address when preferred is nil or absent.
func pickIPv4(addrs []net.Addr, preferred net.IP) (netip.Prefix, bool) {
	var first netip.Prefix
	for _, addr := range addrs {
		prefix, ok := ipv4Prefix(addr)
		if !ok {
			continue
		}
		if preferred != nil && preferred.Equal(net.IP(prefix.Addr().AsSlice())) {
			return prefix, true
		}
		if !first.IsValid() {
			first = prefix
		}
	}
	return first, first.IsValid()
}

func ipv4Prefix(addr net.Addr) (netip.Prefix, bool) {
	ipnet, ok := addr.(*net.IPNet)
	if !ok {
		return netip.Prefix{}, false
	}
	ip4 := ipnet.IP.To4()
	if ip4 == nil {
		return netip.Prefix{}, false
	}
	ones, bits := ipnet.Mask.Size()
	switch bits {
	case 32:
	case 128:
		ones -= 96
	default:
		return netip.Prefix{}, false
	}
	if ones < 0 {
		return netip.Prefix{}, false
	}
	ip, _ := netip.AddrFromSlice(ip4)
	return netip.PrefixFrom(ip, ones), true
}

func newInfo(ifi net.Interface, addrs []net.Addr) Info {
	info := Info{
		Index:        ifi.Index,
		Name:         ifi.Name,
		HardwareAddr: ifi.HardwareAddr.String(),
		Flags:        ifi.Flags,
		MTU:          ifi.MTU,
	}
	for _, addr := range addrs {
		if prefix, ok := ipv4Prefix(addr); ok {
			info.IPv4 = append(info.IPv4, prefix)
			continue
		}
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(ipnet.IP)
		if !ok {
			continue
		}
		ones, _ := ipnet.Mask.Size()
		info.IPv6 = append(info.IPv6, netip.PrefixFrom(ip, ones))
	}
	return info
}
