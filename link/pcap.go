package link

import (
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket/pcap"
	"github.com/liamg/arpsweep/scan"
)

// pcapPollInterval is the libpcap read timeout. Receive loops over it until
// its own timeout has passed.
const pcapPollInterval = 50 * time.Millisecond

type pcapTransport struct {
	handle *pcap.Handle
}

func openPCAP(ifi *net.Interface) (scan.Transport, error) {
	handle, err := pcap.OpenLive(ifi.Name, snapLen, false, pcapPollInterval)
	if err != nil {
		return nil, classifyOpenError(ifi.Name, err)
	}
	if err := handle.SetBPFFilter("arp"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("setting arp filter on %s: %w", ifi.Name, err)
	}
	return &pcapTransport{handle: handle}, nil
}

func (t *pcapTransport) Send(frame []byte) error {
	if err := t.handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("%w: %s", scan.ErrSendFailed, err)
	}
	return nil
}

func (t *pcapTransport) Receive(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		data, _, err := t.handle.ReadPacketData()
		if err == nil {
			return data, nil
		}
		if err != pcap.NextErrorTimeoutExpired {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, scan.ErrTimeout
		}
	}
}

func (t *pcapTransport) Close() error {
	t.handle.Close()
	return nil
}
