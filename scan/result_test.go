package scan

import (
	"net/netip"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultAddIsIdempotent(t *testing.T) {
	r := NewScanResult()
	ip := netip.MustParseAddr("10.0.0.2")
	mac := HardwareAddr{1, 2, 3, 4, 5, 6}

	assert.True(t, r.Add(ip, mac))
	assert.False(t, r.Add(ip, mac))
	assert.Equal(t, 1, r.Len())
}

func TestResultLastHardwareAddrWins(t *testing.T) {
	r := NewScanResult()
	ip := netip.MustParseAddr("10.0.0.2")

	r.Add(ip, HardwareAddr{1, 1, 1, 1, 1, 1})
	assert.True(t, r.Add(ip, HardwareAddr{2, 2, 2, 2, 2, 2}))
	assert.Equal(t, 1, r.Len())

	mac, ok := r.Get(ip)
	require.True(t, ok)
	assert.Equal(t, HardwareAddr{2, 2, 2, 2, 2, 2}, mac)
}

func TestResultHostsAreOrdered(t *testing.T) {
	r := NewScanResult()
	for _, s := range []string{"10.0.0.200", "10.0.0.3", "10.0.0.20", "10.0.0.1", "10.0.1.0"} {
		r.Add(netip.MustParseAddr(s), HardwareAddr{})
	}

	var got []string
	for _, h := range r.Hosts() {
		got = append(got, h.IP.String())
	}
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.3", "10.0.0.20", "10.0.0.200", "10.0.1.0"}, got)
}

func TestResultConcurrentAdd(t *testing.T) {
	r := NewScanResult()
	targets, err := Targets(netip.MustParsePrefix("10.1.0.0/24"))
	require.NoError(t, err)

	wg := &sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, ip := range targets {
				r.Add(ip, HardwareAddr{0xaa})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(targets), r.Len())
}
