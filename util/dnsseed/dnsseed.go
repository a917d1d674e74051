// Package dnsseed turns DNS seed host names into peer addresses.
package dnsseed

import (
	"context"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/ulogger"
	"golang.org/x/sync/errgroup"
)

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

type Seeder struct {
	logger   ulogger.Logger
	resolver Resolver
}

// New returns a Seeder using resolver, or net.DefaultResolver when nil.
func New(logger ulogger.Logger, resolver Resolver) *Seeder {
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	return &Seeder{
		logger:   logger,
		resolver: resolver,
	}
}

// Resolve looks up every seed concurrently, each bounded by lookupTimeout, and
// returns the distinct resulting addresses on port in a stable order. A seed
// given as an IP literal resolves to itself and a seed given as host:port uses
// its own port. A seed that fails to resolve is logged and skipped; no address
// at all is a configuration error.
func (s *Seeder) Resolve(ctx context.Context, seeds []string, port uint16, lookupTimeout time.Duration) ([]netip.AddrPort, error) {
	if len(seeds) == 0 {
		return nil, errors.NewConfigurationError("[Resolve] no dns seeds configured")
	}

	var (
		mu    sync.Mutex
		found = make(map[netip.AddrPort]struct{})
	)

	g, gCtx := errgroup.WithContext(ctx)

	for _, seed := range seeds {
		g.Go(func() error {
			addrs, err := s.lookup(gCtx, seed, port, lookupTimeout)
			if err != nil {
				s.logger.Warnf("[Resolve] skipping dns seed %s: %v", seed, err)
				return nil
			}

			s.logger.Infof("[Resolve] dns seed %s resolved to %d addresses", seed, len(addrs))

			mu.Lock()
			for _, addr := range addrs {
				found[addr] = struct{}{}
			}
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	if len(found) == 0 {
		return nil, errors.NewConfigurationError("[Resolve] none of the %d dns seeds resolved to an address", len(seeds))
	}

	result := make([]netip.AddrPort, 0, len(found))
	for addr := range found {
		result = append(result, addr)
	}

	slices.SortFunc(result, func(a, b netip.AddrPort) int {
		return a.Compare(b)
	})

	return result, nil
}

func (s *Seeder) lookup(ctx context.Context, seed string, port uint16, lookupTimeout time.Duration) ([]netip.AddrPort, error) {
	host := strings.TrimSpace(seed)

	// host:port overrides the default port
	if ap, err := netip.ParseAddrPort(host); err == nil {
		return []netip.AddrPort{unmap(ap)}, nil
	}

	if h, p, err := net.SplitHostPort(host); err == nil {
		if parsed, err := strconv.ParseUint(p, 10, 16); err == nil {
			host, port = h, uint16(parsed)
		}
	}

	if ip, err := netip.ParseAddr(host); err == nil {
		return []netip.AddrPort{unmap(netip.AddrPortFrom(ip, port))}, nil
	}

	if host == "" {
		return nil, errors.NewInvalidArgumentError("empty seed host")
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	ips, err := s.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, errors.NewProcessingError("lookup of %s failed", host, err)
	}

	addrs := make([]netip.AddrPort, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, unmap(netip.AddrPortFrom(ip, port)))
	}

	return addrs, nil
}

func unmap(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
