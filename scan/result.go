package scan

import (
	"net/netip"
	"sort"
	"sync"
	"time"
)

// Host is a single discovered device.
type Host struct {
	IP       netip.Addr   `json:"ip" yaml:"ip"`
	MAC      HardwareAddr `json:"mac" yaml:"mac"`
	Vendor   string       `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Hostname string       `json:"hostname,omitempty" yaml:"hostname,omitempty"`
}

// Stats counts what happened on the wire during a scan.
type Stats struct {
	Targets      int           `json:"targets" yaml:"targets"`
	Sent         int           `json:"sent" yaml:"sent"`
	SendFailures int           `json:"send_failures" yaml:"send_failures"`
	Unprobed     int           `json:"unprobed" yaml:"unprobed"`
	Received     int           `json:"received" yaml:"received"`
	Discarded    int           `json:"discarded" yaml:"discarded"`
	Replies      int           `json:"replies" yaml:"replies"`
	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
}

// ScanResult accumulates unique address pairs. It is safe for concurrent
// use; the receiver goroutine writes while the sender reads.
type ScanResult struct {
	mu    sync.RWMutex
	hosts map[netip.Addr]HardwareAddr
	stats Stats
}

func NewScanResult() *ScanResult {
	return &ScanResult{
		hosts: map[netip.Addr]HardwareAddr{},
	}
}

// Add records mac as the hardware address of ip. It reports whether the
// result changed; adding a pair that is already present is a no-op.
func (r *ScanResult) Add(ip netip.Addr, mac HardwareAddr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.hosts[ip]; ok && existing == mac {
		return false
	}
	r.hosts[ip] = mac
	return true
}

func (r *ScanResult) Get(ip netip.Addr) (HardwareAddr, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mac, ok := r.hosts[ip]
	return mac, ok
}

func (r *ScanResult) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hosts)
}

// Hosts returns the discovered hosts in ascending address order.
func (r *ScanResult) Hosts() []Host {
	r.mu.RLock()
	hosts := make([]Host, 0, len(r.hosts))
	for ip, mac := range r.hosts {
		hosts = append(hosts, Host{IP: ip, MAC: mac})
	}
	r.mu.RUnlock()

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].IP.Less(hosts[j].IP)
	})
	return hosts
}

func (r *ScanResult) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

func (r *ScanResult) updateStats(fn func(*Stats)) {
	r.mu.Lock()
	fn(&r.stats)
	r.mu.Unlock()
}
