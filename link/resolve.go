package link

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/liamg/arpsweep/scan"
)

const resolvePoll = 100 * time.Millisecond

// awaitReply reads from t until ip answers or ctx is done. Receive errors
// other than timeouts end the wait.
func awaitReply(ctx context.Context, t scan.Transport, ip netip.Addr) (scan.HardwareAddr, error) {
	for ctx.Err() == nil {
		data, err := t.Receive(resolvePoll)
		if errors.Is(err, scan.ErrTimeout) {
			continue
		}
		if err != nil {
			return scan.HardwareAddr{}, err
		}
		frame, err := scan.Decode(data)
		if err == nil && frame.Kind == scan.FrameReply && frame.SenderIP == ip {
			return frame.SenderMAC, nil
		}
	}
	return scan.HardwareAddr{}, scan.ErrTimeout
}
