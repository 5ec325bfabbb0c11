package cmd

import (
	"errors"
	"fmt"
	"net/netip"
	"testing"

	"github.com/liamg/arpsweep/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"usage", usageError{errors.New("bad flag")}, exitUsage},
		{"permission", &scan.ScanError{Interface: "eth0", Err: scan.ErrPermissionDenied}, exitNoPerm},
		{"wrapped permission", fmt.Errorf("probe: %w", scan.ErrPermissionDenied), exitNoPerm},
		{"no interface", fmt.Errorf("%w: eth9", scan.ErrNoSuchInterface), exitUnavailable},
		{"transport", &scan.ScanError{Interface: "eth0", Err: errors.New("socket: boom")}, exitUnavailable},
		{"too many targets", fmt.Errorf("%w: 0.0.0.0/0", scan.ErrTooManyTargets), exitUsage},
		{"other", errors.New("disk full"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestParseSubnet(t *testing.T) {
	prefix, err := parseSubnet("10.1.2.3/24")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParsePrefix("10.1.2.0/24"), prefix)

	_, err = parseSubnet("10.1.2.3")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = parseSubnet("fe80::/64")
	assert.Equal(t, exitUsage, exitCode(err))
}
