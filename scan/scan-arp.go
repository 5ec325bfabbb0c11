package scan

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// receiveErrorBackoff stops a failing transport from spinning the receiver.
const receiveErrorBackoff = 10 * time.Millisecond

type sessionState uint8

const (
	stateIdle sessionState = iota
	stateSending
	stateListening
	stateDraining
	stateComplete
)

func (s sessionState) String() string {
	switch s {
	case stateSending:
		return "sending"
	case stateListening:
		return "listening"
	case stateDraining:
		return "draining"
	case stateComplete:
		return "complete"
	}
	return "idle"
}

// ARPScanner discovers hosts by broadcasting an ARP request to every
// address of a subnet and collecting the replies until its deadline.
type ARPScanner struct {
	open Opener
	options
}

func NewARPScanner(open Opener, opts ...Option) *ARPScanner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ARPScanner{
		open:    open,
		options: o,
	}
}

// Scan runs one scan session on iface. The session ends when its window
// elapses, when every target has answered, or when ctx is done, whichever
// comes first. The window is the timeout plus the time send pacing needs
// to release every request. Only a failure to open the transport is returned as an
// error, and then no result is returned.
func (s *ARPScanner) Scan(ctx context.Context, iface Interface) (*ScanResult, error) {
	if !iface.Address.Is4() {
		return nil, &ScanError{
			Interface: iface.Name,
			Err:       fmt.Errorf("%w: %s has no IPv4 address", ErrNoSuchInterface, iface.Name),
		}
	}

	targets, err := Targets(iface.Subnet)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithField("iface", iface.Name)

	transport, err := s.open(iface)
	if err != nil {
		return nil, &ScanError{Interface: iface.Name, Err: err}
	}
	defer func() {
		if err := transport.Close(); err != nil {
			logger.WithError(err).Debug("Failed to close transport")
		}
	}()

	start := time.Now()
	sess := newSession(iface, transport, logger, targets)
	sess.result.updateStats(func(st *Stats) {
		st.Targets = len(sess.targets)
	})

	window := s.timeout + s.pacing(len(sess.targets))
	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()
	logger.WithField("window", window).Debug("Scan window set")

	listenChan := make(chan struct{})
	go func() {
		sess.listen(ctx, s.quantum)
		close(listenChan)
	}()

	sess.setState(stateSending)
	if unprobed := s.send(ctx, sess); unprobed > 0 {
		sess.result.updateStats(func(st *Stats) {
			st.Unprobed = unprobed
		})
		logger.WithField("unprobed", unprobed).Warn("Scan ended before every target was probed")
	}

	sess.setState(stateListening)
	select {
	case <-ctx.Done():
	case <-sess.answered:
		logger.Debug("All targets answered")
	}
	cancel()

	sess.setState(stateDraining)
	<-listenChan
	sess.setState(stateComplete)

	sess.result.updateStats(func(st *Stats) {
		st.Elapsed = time.Since(start)
	})
	return sess.result, nil
}

// pacing is the time the rate limiter needs to release every request of
// every pass once the burst is spent. The listen window is extended by it.
func (o options) pacing(targets int) time.Duration {
	if o.interval <= 0 {
		return 0
	}
	paced := targets*o.passes - o.burst
	if paced <= 0 {
		return 0
	}
	return time.Duration(paced) * o.interval
}

// send runs every pass and returns how many targets never got a request
// because ctx ended first.
func (s *ARPScanner) send(ctx context.Context, sess *session) int {
	limit := rate.Inf
	if s.interval > 0 {
		limit = rate.Every(s.interval)
	}
	limiter := rate.NewLimiter(limit, s.burst)

	for pass := 1; pass <= s.passes; pass++ {
		order := sess.unanswered()
		if len(order) == 0 {
			return 0
		}
		if s.randomOrder {
			rand.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		sess.log.WithField("pass", pass).Debugf("Sending %d requests", len(order))
		for i, target := range order {
			if err := limiter.Wait(ctx); err != nil {
				sess.log.Debugf("Send window closed: %s", err)
				if pass == 1 {
					return len(order) - i
				}
				return 0
			}
			sess.request(target)
		}
	}
	return 0
}

// session is the state of a single Scan call. It never outlives it.
type session struct {
	iface     Interface
	transport Transport
	result    *ScanResult
	log       logrus.FieldLogger
	targets   []netip.Addr

	mu       sync.Mutex
	state    sessionState
	pending  map[netip.Addr]struct{}
	answered chan struct{}
}

func newSession(iface Interface, transport Transport, logger logrus.FieldLogger, all []netip.Addr) *session {
	sess := &session{
		iface:     iface,
		transport: transport,
		result:    NewScanResult(),
		log:       logger,
		targets:   make([]netip.Addr, 0, len(all)),
		pending:   make(map[netip.Addr]struct{}, len(all)),
		answered:  make(chan struct{}),
	}

	for _, target := range all {
		// nobody answers our own requests
		if target == iface.Address {
			continue
		}
		sess.targets = append(sess.targets, target)
		sess.pending[target] = struct{}{}
	}
	if len(sess.pending) == 0 {
		close(sess.answered)
	}
	return sess
}

func (sess *session) setState(state sessionState) {
	sess.mu.Lock()
	sess.state = state
	sess.mu.Unlock()
	sess.log.WithField("state", state).Debug("Scan state changed")
}

// unanswered returns the targets still pending, in ascending order.
func (sess *session) unanswered() []netip.Addr {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]netip.Addr, 0, len(sess.pending))
	for _, target := range sess.targets {
		if _, ok := sess.pending[target]; ok {
			out = append(out, target)
		}
	}
	return out
}

// isTarget reports whether ip is one of the addresses this session probes.
// Targets are contiguous apart from the local address.
func (sess *session) isTarget(ip netip.Addr) bool {
	if len(sess.targets) == 0 || ip == sess.iface.Address {
		return false
	}
	first, last := sess.targets[0], sess.targets[len(sess.targets)-1]
	return !ip.Less(first) && !last.Less(ip)
}

func (sess *session) markAnswered(ip netip.Addr) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, ok := sess.pending[ip]; !ok {
		return
	}
	delete(sess.pending, ip)
	if len(sess.pending) == 0 {
		close(sess.answered)
	}
}

func (sess *session) request(target netip.Addr) {
	frame, err := EncodeRequest(sess.iface.HardwareAddr, sess.iface.Address, target)
	if err == nil {
		err = sess.transport.Send(frame)
	}
	if err != nil {
		sess.result.updateStats(func(st *Stats) {
			st.SendFailures++
		})
		sess.log.WithField("target", target).WithError(err).Warn("Failed to send ARP request")
		return
	}
	sess.result.updateStats(func(st *Stats) {
		st.Sent++
	})
}

func (sess *session) listen(ctx context.Context, quantum time.Duration) {
	deadline, _ := ctx.Deadline()

	for ctx.Err() == nil {
		wait := quantum
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		if wait <= 0 {
			return
		}

		data, err := sess.transport.Receive(wait)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				continue
			}
			sess.log.WithError(err).Debug("Receive failed")
			select {
			case <-ctx.Done():
			case <-time.After(receiveErrorBackoff):
			}
			continue
		}

		sess.handle(data)
	}
}

func (sess *session) handle(data []byte) {
	frame, err := Decode(data)
	if err != nil || frame.Kind != FrameReply || frame.TargetIP != sess.iface.Address || !sess.isTarget(frame.SenderIP) {
		sess.result.updateStats(func(st *Stats) {
			st.Received++
			st.Discarded++
		})
		return
	}

	sess.result.updateStats(func(st *Stats) {
		st.Received++
		st.Replies++
	})

	if sess.result.Add(frame.SenderIP, frame.SenderMAC) {
		sess.log.WithFields(logrus.Fields{
			"ip":  frame.SenderIP,
			"mac": frame.SenderMAC,
		}).Debug("Host discovered")
	}
	sess.markAnswered(frame.SenderIP)
}
