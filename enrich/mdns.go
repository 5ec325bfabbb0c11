package enrich

import (
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/liamg/arpsweep/scan"
	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

var mdnsGroup = &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251), Port: 5353}

const mdnsReadQuantum = 150 * time.Millisecond

// MDNSNames fills in missing hostnames from multicast DNS answers heard on
// the named interface within timeout.
func MDNSNames(ifaceName string, hosts []scan.Host, timeout time.Duration) {
	ifi, err := net.InterfaceByName(ifaceName)
	if err != nil {
		logrus.Debugf("mDNS lookup skipped: %s", err)
		return
	}
	names := queryMDNS(ifi, timeout)
	for i := range hosts {
		if hosts[i].Hostname != "" {
			continue
		}
		if name, ok := names[hosts[i].IP]; ok {
			hosts[i].Hostname = name
		}
	}
}

func queryMDNS(ifi *net.Interface, timeout time.Duration) map[netip.Addr]string {
	out := map[netip.Addr]string{}

	conn, err := net.ListenMulticastUDP("udp4", ifi, mdnsGroup)
	if err != nil {
		logrus.Debugf("mDNS listen on %s failed: %s", ifi.Name, err)
		return out
	}
	defer conn.Close()

	_ = conn.SetReadBuffer(1 << 20)

	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn("_services._dns-sd._udp.local"), dns.TypePTR)
	b, err := q.Pack()
	if err != nil {
		return out
	}

	// multicast is lossy, ask twice
	_, _ = conn.WriteToUDP(b, mdnsGroup)
	time.Sleep(50 * time.Millisecond)
	_, _ = conn.WriteToUDP(b, mdnsGroup)

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 65536)

	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(mdnsReadQuantum))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		m := new(dns.Msg)
		if err := m.Unpack(buf[:n]); err != nil {
			continue
		}
		collectNames(m, out)
	}

	return out
}

// collectNames records every IPv4 A record in the answer and additional
// sections.
func collectNames(m *dns.Msg, out map[netip.Addr]string) {
	for _, rr := range append(m.Answer, m.Extra...) {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(a.A.To4())
		if !ok {
			continue
		}
		out[ip] = strings.TrimSuffix(a.Hdr.Name, ".")
	}
}
