package cmd

import (
	"errors"

	"github.com/liamg/arpsweep/scan"
)

// Exit codes follow sysexits.h.
const (
	exitFailure     = 1
	exitUsage       = 64
	exitUnavailable = 69
	exitNoPerm      = 77
)

type usageError struct {
	error
}

func (e usageError) Unwrap() error {
	return e.error
}

func exitCode(err error) int {
	var usage usageError
	switch {
	case errors.As(err, &usage), errors.Is(err, scan.ErrTooManyTargets):
		return exitUsage
	case errors.Is(err, scan.ErrPermissionDenied):
		return exitNoPerm
	case errors.Is(err, scan.ErrNoSuchInterface), errors.Is(err, scan.ErrTransportUnavailable):
		return exitUnavailable
	default:
		return exitFailure
	}
}
