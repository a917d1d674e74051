// Package peer performs a single outbound version handshake with a bitcoin node
// and classifies how far it got.
//
// Each call to Handshake owns its connection and its own state machine:
//
//	Init -> VersionSent -> AwaitingPeerVersion -> AwaitingPeerVerAck -> Completed
//	                                                                 \-> PartiallyCompleted
//	any non-terminal state -> Failed
//
// Errors never escape Handshake; they are carried in the returned Outcome.
package peer

import (
	"context"
	"io"
	"math/rand/v2"
	"net"
	"net/netip"
	"time"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/settings"
	"github.com/bitcoin-sv/handshake/ulogger"
	"github.com/bitcoin-sv/handshake/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/looplab/fsm"
	"github.com/ordishs/gocore"
)

// Dialer opens the stream to a peer. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Config holds what this node advertises in its version message.
type Config struct {
	Net             wire.BitcoinNet
	ProtocolVersion uint32
	Services        wire.ServiceFlag
	UserAgent       string
	StartHeight     int32
	Relay           bool

	// Dialer defaults to a plain *net.Dialer.
	Dialer Dialer
}

// NewConfig builds a Config from the handshake settings. A configured SOCKS
// proxy becomes the Dialer.
func NewConfig(tSettings *settings.Settings) *Config {
	c := &Config{
		Net:             tSettings.ChainCfgParams.Net,
		ProtocolVersion: uint32(tSettings.Handshake.ProtocolVersion),
		Services:        wire.ServiceFlag(tSettings.Handshake.Services),
		UserAgent:       tSettings.Handshake.UserAgent,
		StartHeight:     int32(tSettings.Handshake.StartHeight),
		Relay:           tSettings.Handshake.Relay,
	}

	if hs := tSettings.Handshake; hs.SocksProxy != "" {
		c.Dialer = NewProxyDialer(hs.SocksProxy, hs.ProxyUser, hs.ProxyPass, hs.TorIsolation)
	}

	return c
}

// Handshaker runs handshakes. It holds no per-attempt state and is safe for
// concurrent use.
type Handshaker struct {
	logger ulogger.Logger
	config Config
}

func New(logger ulogger.Logger, config *Config) *Handshaker {
	c := *config
	if c.Dialer == nil {
		c.Dialer = &net.Dialer{}
	}

	if c.ProtocolVersion == 0 {
		c.ProtocolVersion = wire.ProtocolVersion
	}

	if c.UserAgent == "" {
		c.UserAgent = wire.DefaultUserAgent
	}

	return &Handshaker{
		logger: logger,
		config: c,
	}
}

// attempt is the state of one handshake.
type attempt struct {
	h       *Handshaker
	addr    netip.AddrPort
	fsm     *fsm.FSM
	nonce   uint64
	outcome *Outcome
}

// Handshake dials addr and runs the version/verack exchange. The whole attempt,
// dial included, is bounded by timeout; cancelling ctx ends it the same way.
func (h *Handshaker) Handshake(ctx context.Context, addr netip.AddrPort, timeout time.Duration) *Outcome {
	start := time.Now()

	a := h.newAttempt(addr)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a.run(ctx)

	a.outcome.FinalState = a.fsm.Current()
	a.outcome.Duration = time.Since(start)

	return a.outcome
}

// newAttempt starts out as an internal failure. Only a completed exchange turns
// the outcome into Ok or PartiallyOk.
func (h *Handshaker) newAttempt(addr netip.AddrPort) *attempt {
	a := &attempt{
		h:     h,
		addr:  addr,
		nonce: rand.Uint64(),
		outcome: &Outcome{
			Addr:  addr,
			Kind:  OutcomeFailed,
			Cause: CauseInternal,
		},
	}

	a.fsm = NewFiniteStateMachine(fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			h.logger.Debugf("[Handshake][%s] %s -> %s", addr, e.Src, e.Dst)
		},
	})

	return a
}

func (a *attempt) run(ctx context.Context) {
	cfg := &a.h.config

	conn, err := cfg.Dialer.DialContext(ctx, "tcp", a.addr.String())
	if err != nil {
		if ctx.Err() != nil || errors.IsTimeoutError(err) {
			a.fail(ctx, CauseTimeout, errors.NewPeerTimeoutError("[Handshake][%s] dial timed out", a.addr, err))
			return
		}

		a.fail(ctx, CauseConnect, errors.NewPeerConnectError("[Handshake][%s] dial failed", a.addr, err))

		return
	}

	defer func() {
		_ = conn.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// unblock pending reads and writes as soon as the attempt is cancelled
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	// both address descriptors are placeholders, only our services are advertised
	version := wire.NewMsgVersion(&wire.NetAddress{Services: cfg.Services}, &wire.NetAddress{}, a.nonce, cfg.StartHeight)
	version.ProtocolVersion = int32(cfg.ProtocolVersion)
	version.Services = cfg.Services
	version.UserAgent = cfg.UserAgent
	version.Relay = cfg.Relay

	if err = a.write(conn, version); err != nil {
		a.failStream(ctx, "send version", err)
		return
	}

	if !a.event(ctx, EventSendVersion) || !a.event(ctx, EventAwaitVersion) {
		return
	}

	msg, err := a.read(conn)
	if err != nil {
		a.failStream(ctx, "read version", err)
		return
	}

	peerVersion, ok := msg.(*wire.MsgVersion)
	if !ok {
		a.outcome.Command = msg.Command()
		a.fail(ctx, CauseUnexpectedCommand, errors.NewPeerProtocolOrderError("[Handshake][%s] expected %s, got %s", a.addr, wire.CmdVersion, msg.Command()))

		return
	}

	a.outcome.PeerVersion = peerVersion

	if peerVersion.Nonce == a.nonce {
		a.fail(ctx, CauseSelfConnection, errors.NewPeerSelfConnectionError("[Handshake][%s] peer echoed our nonce %d", a.addr, a.nonce))
		return
	}

	if err = a.write(conn, wire.NewMsgVerAck()); err != nil {
		a.failStream(ctx, "send verack", err)
		return
	}

	if !a.event(ctx, EventPeerVersion) {
		return
	}

	msg, err = a.read(conn)
	if err != nil {
		a.failStream(ctx, "read verack", err)
		return
	}

	if msg.Command() == wire.CmdVerAck {
		if a.event(ctx, EventPeerVerAck) {
			a.outcome.Kind = OutcomeOk
			a.outcome.Cause = CauseNone
		}

		return
	}

	if a.event(ctx, EventPeerOtherThan) {
		a.outcome.Kind = OutcomePartiallyOk
		a.outcome.Cause = CauseNone
		a.outcome.Command = msg.Command()
	}
}

func (a *attempt) write(conn net.Conn, msg wire.Message) error {
	a.dump("sending", msg)

	return wire.WriteMessage(conn, a.h.config.Net, msg)
}

func (a *attempt) read(conn net.Conn) (wire.Message, error) {
	msg, payload, err := wire.ReadMessage(conn, a.h.config.Net)
	if err != nil {
		return nil, err
	}

	a.h.logger.Debugf("[Handshake][%s] received %s with %d byte payload", a.addr, msg.Command(), len(payload))
	a.dump("received", msg)

	return msg, nil
}

func (a *attempt) dump(direction string, msg wire.Message) {
	if a.h.logger.LogLevel() != int(gocore.DEBUG) {
		return
	}

	a.h.logger.Debugf("[Handshake][%s] %s %s:\n%s", a.addr, direction, msg.Command(), spew.Sdump(msg))
}

// event fires a state machine event. A rejected transition is a bug in this
// package and fails the attempt as internal. Transitions are recorded even when
// the attempt context is already done.
func (a *attempt) event(ctx context.Context, event string) bool {
	if err := a.fsm.Event(context.WithoutCancel(ctx), event); err != nil {
		a.outcome.Kind = OutcomeFailed
		a.outcome.Cause = CauseInternal
		a.outcome.Err = errors.NewPeerInternalError("[Handshake][%s] event %s rejected in state %s", a.addr, event, a.fsm.Current(), err)

		return false
	}

	return true
}

func (a *attempt) fail(ctx context.Context, cause FailureCause, err error) {
	_ = a.fsm.Event(context.WithoutCancel(ctx), EventFail)

	a.outcome.Kind = OutcomeFailed
	a.outcome.Cause = cause
	a.outcome.Err = err
}

// failStream classifies a read or write error. Expired or cancelled attempts are
// timeouts, a stream that ended or broke is an io failure, and anything the codec
// rejected is a decode failure.
func (a *attempt) failStream(ctx context.Context, op string, err error) {
	switch {
	case ctx.Err() != nil || errors.IsTimeoutError(err):
		a.fail(ctx, CauseTimeout, errors.NewPeerTimeoutError("[Handshake][%s] %s timed out", a.addr, op, err))
	case isStreamError(err):
		a.fail(ctx, CauseIO, errors.NewPeerIOError("[Handshake][%s] %s failed", a.addr, op, err))
	case errors.IsWireError(err):
		a.fail(ctx, CauseDecode, errors.NewPeerDecodeError("[Handshake][%s] %s: malformed message", a.addr, op, err))
	default:
		a.fail(ctx, CauseIO, errors.NewPeerIOError("[Handshake][%s] %s failed", a.addr, op, err))
	}
}

func isStreamError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
