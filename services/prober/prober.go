// Package prober runs one handshake against every target at once and tallies the
// outcomes.
package prober

import (
	"context"
	"fmt"
	"net/netip"
	"runtime/debug"
	"slices"
	"time"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/peer"
	"github.com/bitcoin-sv/handshake/ulogger"
	"github.com/ordishs/go-utils"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Handshaker runs a single attempt. *peer.Handshaker satisfies it.
type Handshaker interface {
	Handshake(ctx context.Context, addr netip.AddrPort, timeout time.Duration) *peer.Outcome
}

type Prober struct {
	logger     ulogger.Logger
	handshaker Handshaker
	listeners  []EventListener
	inFlight   atomic.Int32
}

func New(logger ulogger.Logger, handshaker Handshaker, listeners ...EventListener) *Prober {
	initPrometheusMetrics()

	return &Prober{
		logger:     logger,
		handshaker: handshaker,
		listeners:  listeners,
	}
}

// InFlight is the number of attempts currently running.
func (p *Prober) InFlight() int32 {
	return p.inFlight.Load()
}

// Run attempts a handshake with every distinct address, all concurrently, each
// bounded by timeout. It returns once every attempt has an outcome. A panic in
// one attempt fails that address only.
func (p *Prober) Run(ctx context.Context, addrs []netip.AddrPort, timeout time.Duration) *Report {
	targets := dedupe(addrs)
	report := newReport(len(targets))

	prometheusProberRuns.Inc()
	prometheusProberLastTotal.Set(float64(len(targets)))

	p.logger.Infof("[Run][%s] starting %d handshakes, timeout %s", report.RunID, len(targets), timeout)

	outcomes := make(chan *peer.Outcome, len(targets))

	g, gCtx := errgroup.WithContext(ctx)

	for _, addr := range targets {
		g.Go(func() error {
			utils.SafeSend(outcomes, p.attempt(gCtx, addr, timeout))
			return nil
		})
	}

	go func() {
		_ = g.Wait()

		close(outcomes)
	}()

	for o := range outcomes {
		report.add(o)
		observeOutcome(o)

		for _, l := range p.listeners {
			l.OnOutcome(o)
		}
	}

	slices.SortFunc(report.Outcomes, func(a, b *peer.Outcome) int {
		return a.Addr.Compare(b.Addr)
	})

	report.Duration = time.Since(report.Start)

	for _, l := range p.listeners {
		l.OnSummary(report)
	}

	return report
}

func (p *Prober) attempt(ctx context.Context, addr netip.AddrPort, timeout time.Duration) (outcome *peer.Outcome) {
	p.inFlight.Inc()
	prometheusProberInFlight.Inc()

	start := time.Now()

	defer func() {
		p.inFlight.Dec()
		prometheusProberInFlight.Dec()

		if r := recover(); r != nil {
			p.logger.Debugf("[Run][%s] recovered panic: %v\n%s", addr, r, debug.Stack())

			outcome = peer.NewFailedOutcome(addr, peer.CauseInternal, errors.NewPeerInternalError("[Run][%s] handshake panicked: %s", addr, fmt.Sprint(r)))
			outcome.Duration = time.Since(start)
		}
	}()

	outcome = p.handshaker.Handshake(ctx, addr, timeout)
	if outcome == nil {
		outcome = peer.NewFailedOutcome(addr, peer.CauseInternal, errors.NewPeerInternalError("[Run][%s] handshake returned no outcome", addr))
		outcome.Duration = time.Since(start)
	}

	return outcome
}

// dedupe drops repeated addresses, keeping first-seen order. IPv4-mapped IPv6
// addresses count as their IPv4 form.
func dedupe(addrs []netip.AddrPort) []netip.AddrPort {
	seen := make(map[netip.AddrPort]struct{}, len(addrs))
	targets := make([]netip.AddrPort, 0, len(addrs))

	for _, addr := range addrs {
		addr = netip.AddrPortFrom(addr.Addr().Unmap(), addr.Port())

		if _, ok := seen[addr]; ok {
			continue
		}

		seen[addr] = struct{}{}
		targets = append(targets, addr)
	}

	return targets
}
