package link

import (
	"bytes"
	"io"
	"net/netip"
	"testing"
	"time"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/liamg/arpsweep/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loopback struct {
	frames [][]byte
	closed bool
}

func (l *loopback) Send(frame []byte) error {
	l.frames = append(l.frames, frame)
	return nil
}

func (l *loopback) Receive(time.Duration) ([]byte, error) {
	if len(l.frames) == 0 {
		return nil, scan.ErrTimeout
	}
	frame := l.frames[0]
	l.frames = l.frames[1:]
	return frame, nil
}

func (l *loopback) Close() error {
	l.closed = true
	return nil
}

func TestRecordWritesCapture(t *testing.T) {
	mac := scan.HardwareAddr{0x02, 0, 0, 0, 0, 1}
	request, err := scan.EncodeRequest(mac, netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.2"))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	open := RecordingOpener(func(scan.Interface) (scan.Transport, error) {
		return &loopback{}, nil
	}, buf)

	transport, err := open(scan.Interface{Name: "lo"})
	require.NoError(t, err)

	require.NoError(t, transport.Send(request))
	received, err := transport.Receive(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, request, received)

	_, err = transport.Receive(time.Millisecond)
	assert.ErrorIs(t, err, scan.ErrTimeout)
	require.NoError(t, transport.Close())

	reader, err := pcapgo.NewReader(buf)
	require.NoError(t, err)
	assert.Equal(t, layers.LinkTypeEthernet, reader.LinkType())

	var packets [][]byte
	for {
		data, _, err := reader.ReadPacketData()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		packets = append(packets, data)
	}
	assert.Equal(t, [][]byte{request, request}, packets, "one sent and one received frame")
}

func TestRecordingOpenerPassesErrors(t *testing.T) {
	open := RecordingOpener(func(scan.Interface) (scan.Transport, error) {
		return nil, scan.ErrPermissionDenied
	}, &bytes.Buffer{})

	_, err := open(scan.Interface{Name: "eth0"})
	assert.ErrorIs(t, err, scan.ErrPermissionDenied)
}
