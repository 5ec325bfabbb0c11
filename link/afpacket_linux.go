package link

import (
	"fmt"
	"net"
	"time"

	"github.com/liamg/arpsweep/scan"
	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/packet"
)

const DefaultBackend = BackendAFPacket

type afpacketTransport struct {
	conn *packet.Conn
	buf  []byte
}

func openAFPacket(ifi *net.Interface) (scan.Transport, error) {
	conn, err := packet.Listen(ifi, packet.Raw, int(ethernet.EtherTypeARP), nil)
	if err != nil {
		return nil, classifyOpenError(ifi.Name, err)
	}
	return &afpacketTransport{
		conn: conn,
		buf:  make([]byte, snapLen),
	}, nil
}

func (t *afpacketTransport) Send(frame []byte) error {
	if len(frame) < 6 {
		return fmt.Errorf("%w: frame of %d bytes", scan.ErrSendFailed, len(frame))
	}
	// raw sockets still need a link-layer destination for the sockaddr
	dst := &packet.Addr{HardwareAddr: net.HardwareAddr(frame[0:6])}
	if _, err := t.conn.WriteTo(frame, dst); err != nil {
		return fmt.Errorf("%w: %s", scan.ErrSendFailed, err)
	}
	return nil
}

func (t *afpacketTransport) Receive(timeout time.Duration) ([]byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	n, _, err := t.conn.ReadFrom(t.buf)
	if err != nil {
		if isTimeout(err) {
			return nil, scan.ErrTimeout
		}
		return nil, err
	}
	out := make([]byte, n)
	copy(out, t.buf[:n])
	return out, nil
}

func (t *afpacketTransport) Close() error {
	return t.conn.Close()
}
