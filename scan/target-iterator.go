package scan

import (
	"encoding/binary"
	"fmt"
	"io"
	"net/netip"
)

// TargetIterator walks the host addresses of an IPv4 subnet in ascending
// order. The network and broadcast addresses are skipped, except for /31
// (both addresses are hosts) and /32 (the single address).
type TargetIterator struct {
	prefix netip.Prefix
	first  uint32
	last   uint32
	next   uint64
}

func NewTargetIterator(prefix netip.Prefix) (*TargetIterator, error) {
	if !prefix.IsValid() || !prefix.Addr().Is4() {
		return nil, fmt.Errorf("'%s' is not an IPv4 subnet", prefix)
	}

	prefix = prefix.Masked()
	base := addrToUint(prefix.Addr())
	size := uint64(1) << (32 - prefix.Bits())
	broadcast := uint32(uint64(base) + size - 1)

	ti := &TargetIterator{prefix: prefix}

	switch prefix.Bits() {
	case 32:
		ti.first, ti.last = base, base
	case 31:
		ti.first, ti.last = base, broadcast
	default:
		ti.first, ti.last = base+1, broadcast-1
	}

	ti.Reset()
	return ti, nil
}

// Targets materialises every target address of the subnet. Subnets with
// more than MaxTargets addresses are refused with ErrTooManyTargets.
func Targets(prefix netip.Prefix) ([]netip.Addr, error) {
	ti, err := NewTargetIterator(prefix)
	if err != nil {
		return nil, err
	}
	if ti.Len() > MaxTargets {
		return nil, fmt.Errorf("%w: %s has %d addresses, at most %d can be scanned", ErrTooManyTargets, ti.Prefix(), ti.Len(), MaxTargets)
	}

	targets := make([]netip.Addr, 0, ti.Len())
	for {
		ip, err := ti.Next()
		if err == io.EOF {
			return targets, nil
		}
		targets = append(targets, ip)
	}
}

// Prefix returns the normalised subnet being walked.
func (ti *TargetIterator) Prefix() netip.Prefix {
	return ti.prefix
}

// Len is the total number of targets, regardless of position.
func (ti *TargetIterator) Len() uint64 {
	return uint64(ti.last) - uint64(ti.first) + 1
}

func (ti *TargetIterator) Peek() (netip.Addr, error) {
	if ti.next > uint64(ti.last) {
		return netip.Addr{}, io.EOF
	}
	return uintToAddr(uint32(ti.next)), nil
}

func (ti *TargetIterator) Next() (netip.Addr, error) {
	ip, err := ti.Peek()
	if err != nil {
		return ip, err
	}
	ti.next++
	return ip, nil
}

// Reset rewinds the iterator to the first target.
func (ti *TargetIterator) Reset() {
	ti.next = uint64(ti.first)
}

func addrToUint(ip netip.Addr) uint32 {
	b := ip.As4()
	return binary.BigEndian.Uint32(b[:])
}

func uintToAddr(n uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return netip.AddrFrom4(b)
}
