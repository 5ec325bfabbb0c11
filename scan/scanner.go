package scan

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Scanner interface {
	Scan(ctx context.Context, iface Interface) (*ScanResult, error)
}

const (
	DefaultTimeout        = 3 * time.Second
	DefaultReceiveQuantum = 500 * time.Millisecond
	DefaultBurst          = 256
	// MaxTargets bounds the addresses a single scan will enumerate, a /12.
	MaxTargets = 1<<20 - 2
)

type options struct {
	timeout     time.Duration
	quantum     time.Duration
	interval    time.Duration
	burst       int
	passes      int
	randomOrder bool
	logger      logrus.FieldLogger
}

func defaultOptions() options {
	return options{
		timeout: DefaultTimeout,
		quantum: DefaultReceiveQuantum,
		burst:   DefaultBurst,
		passes:  1,
		logger:  logrus.StandardLogger(),
	}
}

type Option func(*options)

// WithTimeout sets the length of the listen window, measured from the
// moment the transport is open. Paced scans get the pacing time on top.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithReceiveQuantum bounds each individual receive call so the deadline is
// rechecked at least this often.
func WithReceiveQuantum(quantum time.Duration) Option {
	return func(o *options) {
		if quantum > 0 {
			o.quantum = quantum
		}
	}
}

// WithSendInterval paces requests once the burst allowance is spent. Zero
// sends as fast as the transport accepts them.
func WithSendInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval >= 0 {
			o.interval = interval
		}
	}
}

func WithBurst(burst int) Option {
	return func(o *options) {
		if burst > 0 {
			o.burst = burst
		}
	}
}

// WithPasses sends every request this many times. Later passes only target
// addresses that have not answered yet.
func WithPasses(passes int) Option {
	return func(o *options) {
		if passes > 0 {
			o.passes = passes
		}
	}
}

func WithRandomOrder(random bool) Option {
	return func(o *options) {
		o.randomOrder = random
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
