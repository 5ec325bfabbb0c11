package scan

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	ethernetHeaderLen = 14
	arpPacketLen      = 28

	// MinFrameLen is the shortest byte sequence Decode will look at.
	MinFrameLen = ethernetHeaderLen + arpPacketLen
)

type FrameKind uint8

const (
	FrameUnsupported FrameKind = iota
	FrameRequest
	FrameReply
)

func (k FrameKind) String() string {
	switch k {
	case FrameRequest:
		return "request"
	case FrameReply:
		return "reply"
	}
	return "unsupported"
}

// Frame is a decoded Ethernet/IPv4 ARP packet.
type Frame struct {
	Kind      FrameKind
	SenderMAC HardwareAddr
	SenderIP  netip.Addr
	TargetMAC HardwareAddr
	TargetIP  netip.Addr
}

var serializeOptions = gopacket.SerializeOptions{
	FixLengths: true,
}

// EncodeRequest builds a broadcast ARP request asking who has targetIP.
func EncodeRequest(senderMAC HardwareAddr, senderIP, targetIP netip.Addr) ([]byte, error) {
	return encode(layers.ARPRequest, BroadcastHardwareAddr, senderMAC, senderIP, ZeroHardwareAddr, targetIP)
}

// EncodeReply builds a unicast ARP reply telling targetMAC that senderIP is at
// senderMAC.
func EncodeReply(senderMAC HardwareAddr, senderIP netip.Addr, targetMAC HardwareAddr, targetIP netip.Addr) ([]byte, error) {
	return encode(layers.ARPReply, targetMAC, senderMAC, senderIP, targetMAC, targetIP)
}

func encode(op uint16, dst, senderMAC HardwareAddr, senderIP netip.Addr, targetMAC HardwareAddr, targetIP netip.Addr) ([]byte, error) {
	if !senderIP.Is4() {
		return nil, fmt.Errorf("sender address %s is not IPv4", senderIP)
	}
	if !targetIP.Is4() {
		return nil, fmt.Errorf("target address %s is not IPv4", targetIP)
	}

	sip := senderIP.As4()
	tip := targetIP.As4()

	eth := layers.Ethernet{
		SrcMAC:       senderMAC.Net(),
		DstMAC:       dst.Net(),
		EthernetType: layers.EthernetTypeARP,
	}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         op,
		SourceHwAddress:   senderMAC[:],
		SourceProtAddress: sip[:],
		DstHwAddress:      targetMAC[:],
		DstProtAddress:    tip[:],
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, serializeOptions, &eth, &arp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses an Ethernet frame carrying an ARP packet. Only the fixed
// size fields are read, so trailing padding is ignored.
func Decode(data []byte) (Frame, error) {
	var frame Frame

	if len(data) < MinFrameLen {
		return frame, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformed, len(data), MinFrameLen)
	}

	eth := layers.Ethernet{}
	if err := eth.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return frame, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if eth.EthernetType != layers.EthernetTypeARP {
		return frame, fmt.Errorf("%w: ethertype %s", ErrMalformed, eth.EthernetType)
	}

	// The header is checked before handing the payload to gopacket, which
	// trusts the encoded address lengths when slicing.
	payload := eth.Payload
	if len(payload) < arpPacketLen {
		return frame, fmt.Errorf("%w: arp payload %d bytes", ErrMalformed, len(payload))
	}
	htype := binary.BigEndian.Uint16(payload[0:2])
	ptype := binary.BigEndian.Uint16(payload[2:4])
	if htype != uint16(layers.LinkTypeEthernet) || ptype != uint16(layers.EthernetTypeIPv4) {
		return frame, fmt.Errorf("%w: hardware type %d, protocol type %#04x", ErrUnsupportedProtocol, htype, ptype)
	}
	if payload[4] != 6 || payload[5] != 4 {
		return frame, fmt.Errorf("%w: address lengths %d/%d", ErrMalformed, payload[4], payload[5])
	}

	arp := layers.ARP{}
	if err := arp.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return frame, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	copy(frame.SenderMAC[:], arp.SourceHwAddress)
	copy(frame.TargetMAC[:], arp.DstHwAddress)
	frame.SenderIP = netip.AddrFrom4([4]byte(arp.SourceProtAddress))
	frame.TargetIP = netip.AddrFrom4([4]byte(arp.DstProtAddress))

	switch arp.Operation {
	case layers.ARPRequest:
		frame.Kind = FrameRequest
	case layers.ARPReply:
		frame.Kind = FrameReply
	default:
		frame.Kind = FrameUnsupported
	}

	return frame, nil
}
