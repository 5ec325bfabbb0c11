package link

import (
	"net"

	"github.com/google/gopacket/routing"
	"github.com/liamg/arpsweep/scan"
	"github.com/sirupsen/logrus"
)

// probeDestination is any off-link address; only the route to it matters.
var probeDestination = net.IPv4(1, 1, 1, 1)

// DefaultInterface returns the interface carrying the default route, or the
// first usable interface when there is no default route.
func DefaultInterface() (scan.Interface, error) {
	router, err := routing.New()
	if err != nil {
		logrus.Debugf("Reading routing table failed: %s", err)
		return firstUsable()
	}

	ifi, _, src, err := router.Route(probeDestination)
	if err != nil {
		logrus.Debugf("No default route: %s", err)
		return firstUsable()
	}

	iface, err := fromNet(ifi, src)
	if err != nil {
		logrus.Debugf("Default route interface %s unusable: %s", ifi.Name, err)
		return firstUsable()
	}
	return iface, nil
}
