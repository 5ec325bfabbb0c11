package scan

import (
	"errors"
	"fmt"
)

// Transport errors. ErrTimeout is expected while listening and is never
// reported as a failure.
var (
	ErrPermissionDenied = errors.New("permission denied: raw link-layer access requires root or CAP_NET_RAW")
	ErrNoSuchInterface  = errors.New("no such interface")
	ErrSendFailed       = errors.New("send failed")
	ErrTimeout          = errors.New("receive timed out")
)

// Decode errors. Frames failing with these are dropped by the scanner.
var (
	ErrMalformed           = errors.New("malformed frame")
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
)

var (
	ErrTransportUnavailable = errors.New("transport unavailable")
	ErrTooManyTargets       = errors.New("too many targets")
)

// ScanError is returned when a scan cannot start because its transport
// failed to open. It matches ErrTransportUnavailable and unwraps to the
// underlying transport error.
type ScanError struct {
	Interface string
	Err       error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s on %s: %s", ErrTransportUnavailable, e.Interface, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func (e *ScanError) Is(target error) bool {
	return target == ErrTransportUnavailable
}
