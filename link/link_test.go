package link

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"syscall"
	"testing"

	"github.com/liamg/arpsweep/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("PCAP")
	require.NoError(t, err)
	assert.Equal(t, BackendPCAP, b)

	b, err = ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, b)

	_, err = ParseBackend("bpf")
	assert.Error(t, err)
}

func TestClassifyOpenError(t *testing.T) {
	eperm := os.NewSyscallError("socket", syscall.EPERM)
	assert.ErrorIs(t, classifyOpenError("eth0", eperm), scan.ErrPermissionDenied)

	pcapErr := errors.New("eth0: You don't have permission to capture on that device (socket: Operation not permitted)")
	assert.ErrorIs(t, classifyOpenError("eth0", pcapErr), scan.ErrPermissionDenied)

	noDev := errors.New("eth9: SIOCETHTOOL(ETHTOOL_GET_TS_INFO) ioctl failed: No such device")
	assert.ErrorIs(t, classifyOpenError("eth9", noDev), scan.ErrNoSuchInterface)

	other := fmt.Errorf("boom")
	err := classifyOpenError("eth0", other)
	assert.ErrorIs(t, err, other)
	assert.False(t, errors.Is(err, scan.ErrPermissionDenied))
}

func TestOpenUnknownInterface(t *testing.T) {
	_, err := Open(BackendPCAP, scan.Interface{Name: "does-not-exist0"})
	assert.ErrorIs(t, err, scan.ErrNoSuchInterface)
}

func TestPickIPv4(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPNet{IP: net.IPv4(192, 168, 1, 10).To4(), Mask: net.CIDRMask(24, 32)},
		&net.IPNet{IP: net.IPv4(10, 0, 0, 5), Mask: net.CIDRMask(104, 128)},
	}

	prefix, ok := pickIPv4(addrs, nil)
	require.True(t, ok)
	assert.Equal(t, netip.MustParsePrefix("192.168.1.10/24"), prefix)

	prefix, ok = pickIPv4(addrs, net.IPv4(10, 0, 0, 5))
	require.True(t, ok)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.5/8"), prefix)

	_, ok = pickIPv4(addrs[:1], nil)
	assert.False(t, ok)
}

func TestInfoUsable(t *testing.T) {
	eth := net.Interface{
		Index:        2,
		Name:         "eth0",
		HardwareAddr: net.HardwareAddr{2, 0, 0, 0, 0, 1},
		Flags:        net.FlagUp | net.FlagBroadcast,
	}
	addrs := []net.Addr{
		&net.IPNet{IP: net.IPv4(192, 168, 1, 10).To4(), Mask: net.CIDRMask(24, 32)},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
	}

	info := newInfo(eth, addrs)
	assert.True(t, info.Usable())
	assert.Equal(t, []netip.Prefix{netip.MustParsePrefix("192.168.1.10/24")}, info.IPv4)
	assert.Equal(t, []netip.Prefix{netip.MustParsePrefix("fe80::1/64")}, info.IPv6)
	assert.Equal(t, "02:00:00:00:00:01", info.HardwareAddr)

	lo := eth
	lo.Flags |= net.FlagLoopback
	assert.False(t, newInfo(lo, addrs).Usable())

	down := eth
	down.Flags = 0
	assert.False(t, newInfo(down, addrs).Usable())

	assert.False(t, newInfo(eth, addrs[1:]).Usable())
}

func TestFilterCache(t *testing.T) {
	table := map[string]string{
		"192.168.1.20": "aa:bb:cc:dd:ee:20",
		"192.168.1.3":  "AA:BB:CC:DD:EE:03",
		"192.168.1.4":  "00:00:00:00:00:00",
		"10.0.0.1":     "aa:bb:cc:dd:ee:01",
		"bogus":        "aa:bb:cc:dd:ee:02",
	}

	hosts := filterCache(table, netip.MustParsePrefix("192.168.1.0/24"))
	require.Len(t, hosts, 2)
	assert.Equal(t, "192.168.1.3", hosts[0].IP.String())
	assert.Equal(t, "aa:bb:cc:dd:ee:03", hosts[0].MAC.String())
	assert.Equal(t, "192.168.1.20", hosts[1].IP.String())
}
