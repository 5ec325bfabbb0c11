package link

import (
	"io"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/liamg/arpsweep/scan"
	"github.com/sirupsen/logrus"
)

// recorder copies every frame sent or received to a pcap capture.
type recorder struct {
	scan.Transport

	mu sync.Mutex
	w  *pcapgo.Writer
}

// Record wraps t so that all traffic through it is written to w in pcap
// format. Capture write errors are logged and otherwise ignored.
func Record(t scan.Transport, w io.Writer) (scan.Transport, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		return nil, err
	}
	return &recorder{Transport: t, w: pw}, nil
}

// RecordingOpener wraps every transport returned by open with Record.
func RecordingOpener(open scan.Opener, w io.Writer) scan.Opener {
	return func(iface scan.Interface) (scan.Transport, error) {
		t, err := open(iface)
		if err != nil {
			return nil, err
		}
		rec, err := Record(t, w)
		if err != nil {
			_ = t.Close()
			return nil, err
		}
		return rec, nil
	}
}

func (r *recorder) Send(frame []byte) error {
	if err := r.Transport.Send(frame); err != nil {
		return err
	}
	r.write(frame)
	return nil
}

func (r *recorder) Receive(timeout time.Duration) ([]byte, error) {
	data, err := r.Transport.Receive(timeout)
	if err != nil {
		return nil, err
	}
	r.write(data)
	return data, nil
}

func (r *recorder) write(data []byte) {
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(data),
		Length:        len(data),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.w.WritePacket(ci, data); err != nil {
		logrus.Debugf("Writing capture failed: %s", err)
	}
}
