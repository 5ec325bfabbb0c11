//go:build !linux

package link

import "github.com/liamg/arpsweep/scan"

// DefaultInterface returns the first usable interface.
func DefaultInterface() (scan.Interface, error) {
	return firstUsable()
}
