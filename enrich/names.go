package enrich

import (
	"context"
	"net"
	"strings"

	"github.com/liamg/arpsweep/scan"
	"golang.org/x/sync/errgroup"
)

const lookupParallelism = 16

var lookupAddr = net.DefaultResolver.LookupAddr

// ReverseNames fills in missing hostnames from reverse DNS. Failed lookups
// leave the host untouched.
func ReverseNames(ctx context.Context, hosts []scan.Host) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupParallelism)

	for i := range hosts {
		if hosts[i].Hostname != "" {
			continue
		}
		host := &hosts[i]
		g.Go(func() error {
			names, err := lookupAddr(ctx, host.IP.String())
			if err == nil && len(names) > 0 {
				host.Hostname = strings.TrimSuffix(names[0], ".")
			}
			return nil
		})
	}
	_ = g.Wait()
}
