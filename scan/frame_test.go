package scan

import (
	"encoding/binary"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	localMAC = HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	localIP  = netip.MustParseAddr("192.168.1.10")
)

func TestEncodeRequestLayout(t *testing.T) {
	target := netip.MustParseAddr("192.168.1.42")

	data, err := EncodeRequest(localMAC, localIP, target)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), MinFrameLen)

	assert.Equal(t, BroadcastHardwareAddr[:], data[0:6], "ethernet destination")
	assert.Equal(t, localMAC[:], data[6:12], "ethernet source")
	assert.Equal(t, uint16(0x0806), binary.BigEndian.Uint16(data[12:14]), "ethertype")

	arp := data[14:]
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(arp[0:2]), "hardware type")
	assert.Equal(t, uint16(0x0800), binary.BigEndian.Uint16(arp[2:4]), "protocol type")
	assert.Equal(t, byte(6), arp[4])
	assert.Equal(t, byte(4), arp[5])
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(arp[6:8]), "opcode")
	assert.Equal(t, localMAC[:], arp[8:14])
	assert.Equal(t, []byte{192, 168, 1, 10}, arp[14:18])
	assert.Equal(t, make([]byte, 6), arp[18:24])
	assert.Equal(t, []byte{192, 168, 1, 42}, arp[24:28])
}

func TestEncodeRequestIsDeterministic(t *testing.T) {
	target := netip.MustParseAddr("192.168.1.42")

	a, err := EncodeRequest(localMAC, localIP, target)
	require.NoError(t, err)
	b, err := EncodeRequest(localMAC, localIP, target)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeRejectsIPv6(t *testing.T) {
	_, err := EncodeRequest(localMAC, netip.MustParseAddr("fe80::1"), localIP)
	assert.Error(t, err)

	_, err = EncodeRequest(localMAC, localIP, netip.Addr{})
	assert.Error(t, err)
}

func TestDecodeRequestIsNotAReply(t *testing.T) {
	target := netip.MustParseAddr("192.168.1.42")

	data, err := EncodeRequest(localMAC, localIP, target)
	require.NoError(t, err)

	frame, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FrameRequest, frame.Kind)
	assert.NotEqual(t, FrameReply, frame.Kind)
	assert.Equal(t, localMAC, frame.SenderMAC)
	assert.Equal(t, localIP, frame.SenderIP)
	assert.True(t, frame.TargetMAC.IsZero())
	assert.Equal(t, target, frame.TargetIP)
}

func TestDecodeReply(t *testing.T) {
	remoteMAC, err := ParseHardwareAddr("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	remoteIP := netip.MustParseAddr("192.168.1.42")

	data, err := EncodeReply(remoteMAC, remoteIP, localMAC, localIP)
	require.NoError(t, err)
	assert.Equal(t, localMAC[:], data[0:6], "replies are unicast to the requester")

	frame, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Frame{
		Kind:      FrameReply,
		SenderMAC: remoteMAC,
		SenderIP:  remoteIP,
		TargetMAC: localMAC,
		TargetIP:  localIP,
	}, frame)
}

func TestDecodeIgnoresTrailingPadding(t *testing.T) {
	data, err := EncodeReply(localMAC, localIP, localMAC, localIP)
	require.NoError(t, err)

	unpadded := append([]byte{}, data[:MinFrameLen]...)
	padded := append(append([]byte{}, unpadded...), make([]byte, 64)...)
	for i := MinFrameLen; i < len(padded); i++ {
		padded[i] = 0xa5
	}

	a, err := Decode(unpadded)
	require.NoError(t, err)
	b, err := Decode(padded)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeTruncated(t *testing.T) {
	data, err := EncodeRequest(localMAC, localIP, localIP)
	require.NoError(t, err)

	for n := 0; n < MinFrameLen; n++ {
		assert.NotPanics(t, func() {
			_, err := Decode(data[:n])
			assert.ErrorIs(t, err, ErrMalformed, "length %d", n)
		})
	}
}

func TestDecodeWrongEtherType(t *testing.T) {
	data, err := EncodeRequest(localMAC, localIP, localIP)
	require.NoError(t, err)
	binary.BigEndian.PutUint16(data[12:14], 0x0800)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeUnsupportedProtocol(t *testing.T) {
	data, err := EncodeRequest(localMAC, localIP, localIP)
	require.NoError(t, err)

	hardware := append([]byte{}, data...)
	binary.BigEndian.PutUint16(hardware[14:16], 6) // IEEE 802
	_, err = Decode(hardware)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)

	protocol := append([]byte{}, data...)
	binary.BigEndian.PutUint16(protocol[16:18], 0x86dd)
	_, err = Decode(protocol)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestDecodeBadAddressLengths(t *testing.T) {
	data, err := EncodeRequest(localMAC, localIP, localIP)
	require.NoError(t, err)

	data[18] = 200
	assert.NotPanics(t, func() {
		_, err = Decode(data)
	})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeUnknownOpcode(t *testing.T) {
	data, err := EncodeRequest(localMAC, localIP, localIP)
	require.NoError(t, err)
	binary.BigEndian.PutUint16(data[20:22], 3) // RARP request

	frame, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FrameUnsupported, frame.Kind)
}

func TestHardwareAddrString(t *testing.T) {
	mac, err := ParseHardwareAddr("AA-BB-CC-DD-EE-FF")
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mac.String())

	_, err = ParseHardwareAddr("00:00:5e:00:53:01:00:00")
	assert.Error(t, err)
}
