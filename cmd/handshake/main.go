// Package main is the handshake command line tool. It resolves DNS seeds, runs a
// version handshake with every node they return and prints the tally.
//
// Usage:
//
//	handshake [--network mainnet] [--port 8333] [--timeout 10] [dns-seed ...]
//
// Without seeds the network's default seeds are used. Flags override the
// settings.conf values of the same setting.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/peer"
	"github.com/bitcoin-sv/handshake/services/prober"
	"github.com/bitcoin-sv/handshake/settings"
	"github.com/bitcoin-sv/handshake/ulogger"
	"github.com/bitcoin-sv/handshake/util/dnsseed"
	"github.com/bitcoin-sv/handshake/util/health"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const progname = "handshake"

// settings keys set from string flags
var stringFlagKeys = map[string]string{
	"network":        "network",
	"log-level":      "logLevel",
	"logger-type":    "loggerType",
	"metrics-listen": "metrics_listenAddress",
	"proxy":          "handshake_socksProxy",
	"user-agent":     "handshake_userAgent",
}

// settings keys set from int flags
var intFlagKeys = map[string]string{
	"port":         "handshake_port",
	"timeout":      "handshake_timeout",
	"start-height": "handshake_startHeight",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", progname, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      progname,
		Usage:     "Perform a bitcoin version handshake with every node behind the given DNS seeds",
		ArgsUsage: "[dns-seed ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "network",
				Aliases: []string{"n"},
				Usage:   "network to probe: mainnet, testnet or regtest",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "port used for every resolved address (default: the network's port)",
			},
			&cli.IntFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "handshake timeout in seconds (default: 10)",
			},
			&cli.IntFlag{
				Name:  "start-height",
				Usage: "block height advertised in our version message",
			},
			&cli.StringFlag{
				Name:  "user-agent",
				Usage: "user agent advertised in our version message",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "DEBUG, INFO, WARN, ERROR or FATAL",
			},
			&cli.StringFlag{
				Name:  "logger-type",
				Usage: "zerolog or gocore",
			},
			&cli.StringFlag{
				Name:  "metrics-listen",
				Usage: "serve prometheus metrics on this address, e.g. :9090",
			},
			&cli.StringFlag{
				Name:  "proxy",
				Usage: "connect through this SOCKS5 proxy, e.g. 127.0.0.1:9050",
			},
		},
		Action: run,
	}
}

// applyFlags copies the flags that were given into the gocore config, so the
// settings package sees a single source.
func applyFlags(c *cli.Context) {
	for flag, key := range stringFlagKeys {
		if c.IsSet(flag) {
			gocore.Config().Set(key, c.String(flag))
		}
	}

	for flag, key := range intFlagKeys {
		if c.IsSet(flag) {
			gocore.Config().Set(key, strconv.Itoa(c.Int(flag)))
		}
	}
}

func run(c *cli.Context) error {
	applyFlags(c)

	tSettings, err := settings.New()
	if err != nil {
		return err
	}

	logger := ulogger.New(progname, ulogger.WithLevel(tSettings.LogLevel), ulogger.WithLoggerType(tSettings.LoggerType))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handshaker := peer.New(logger.New("peer"), peer.NewConfig(tSettings))
	p := prober.New(logger, handshaker, prober.NewLoggingListener(logger))

	if tSettings.Metrics.ListenAddress != "" {
		srv := startMetricsServer(logger, tSettings.Metrics.ListenAddress, health.Check{
			Name: "prober",
			Check: func(context.Context, bool) (int, string, error) {
				return http.StatusOK, fmt.Sprintf("%d handshakes in flight", p.InFlight()), nil
			},
		})

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	seeds := c.Args().Slice()
	if len(seeds) == 0 {
		seeds = tSettings.DNSSeed.Hosts
	}

	logger.Infof("Resolving %d DNS seeds for %s: %v", len(seeds), tSettings.Network, seeds)

	addrs, err := dnsseed.New(logger, nil).Resolve(ctx, seeds, uint16(tSettings.Handshake.Port), tSettings.DNSSeed.LookupTimeout)
	if err != nil {
		return err
	}

	logger.Infof("Resolved %d addresses. Starting handshakes...", len(addrs))

	report := p.Run(ctx, addrs, tSettings.Handshake.Timeout)

	if failures := report.Failures(); len(failures) > 0 {
		logger.Debugf("[%s] failures by cause: %v", report.RunID, failures)
	}

	return nil
}

func startMetricsServer(logger ulogger.Logger, addr string, checks ...health.Check) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", health.Handler(checks...))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("Serving /metrics and /health on %s", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server on %s failed: %v", addr, err)
		}
	}()

	return srv
}
