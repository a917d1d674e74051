package prober

import (
	"context"
	"io"
	"math/rand/v2"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/bitcoin-sv/handshake/peer"
	"github.com/bitcoin-sv/handshake/ulogger"
	"github.com/bitcoin-sv/handshake/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// peerScript plays one kind of remote node on an accepted connection.
type peerScript func(conn net.Conn, latency time.Duration)

func readOne(conn net.Conn) bool {
	_, _, err := wire.ReadMessage(conn, wire.MainNet)
	return err == nil
}

func remoteVersion() *wire.MsgVersion {
	return wire.NewMsgVersion(&wire.NetAddress{}, &wire.NetAddress{}, 42, 840000)
}

func drainConn(conn net.Conn) {
	_, _ = io.Copy(io.Discard, conn)
}

var loopbackScripts = []struct {
	name  string
	kind  peer.OutcomeKind
	cause peer.FailureCause
	run   peerScript
}{
	{"version and verack", peer.OutcomeOk, peer.CauseNone, func(conn net.Conn, latency time.Duration) {
		if !readOne(conn) {
			return
		}

		time.Sleep(latency)

		_ = wire.WriteMessage(conn, wire.MainNet, remoteVersion())
		_ = wire.WriteMessage(conn, wire.MainNet, wire.NewMsgVerAck())

		drainConn(conn)
	}},
	{"ping after version", peer.OutcomePartiallyOk, peer.CauseNone, func(conn net.Conn, latency time.Duration) {
		if !readOne(conn) {
			return
		}

		time.Sleep(latency)

		_ = wire.WriteMessage(conn, wire.MainNet, remoteVersion())
		_ = wire.WriteMessage(conn, wire.MainNet, wire.NewMsgUnknown(wire.CmdPing, make([]byte, 8)))

		drainConn(conn)
	}},
	{"ping first", peer.OutcomeFailed, peer.CauseUnexpectedCommand, func(conn net.Conn, latency time.Duration) {
		if !readOne(conn) {
			return
		}

		time.Sleep(latency)

		_ = wire.WriteMessage(conn, wire.MainNet, wire.NewMsgUnknown(wire.CmdPing, make([]byte, 8)))

		drainConn(conn)
	}},
	{"silent", peer.OutcomeFailed, peer.CauseTimeout, func(conn net.Conn, _ time.Duration) {
		drainConn(conn)
	}},
	{"close after our version", peer.OutcomeFailed, peer.CauseIO, func(conn net.Conn, latency time.Duration) {
		readOne(conn)
		time.Sleep(latency)
	}},
}

// listenScripted serves script on its own loopback listener.
func listenScripted(t *testing.T, script peerScript, latency time.Duration) netip.AddrPort {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = l.Close()
	})

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}

		defer func() {
			_ = conn.Close()
		}()

		script(conn, latency)
	}()

	return netip.MustParseAddrPort(l.Addr().String())
}

func TestRunAgainstLoopbackPeers(t *testing.T) {
	const perScript = 8

	type want struct {
		name  string
		kind  peer.OutcomeKind
		cause peer.FailureCause
	}

	var (
		addrs    []netip.AddrPort
		expected = make(map[netip.AddrPort]want)
		counts   = make(map[peer.OutcomeKind]int)
		causes   = make(map[peer.FailureCause]int)
	)

	order := make([]int, 0, perScript*len(loopbackScripts))
	for i := range loopbackScripts {
		for j := 0; j < perScript; j++ {
			order = append(order, i)
		}
	}

	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, i := range order {
		s := loopbackScripts[i]

		addr := listenScripted(t, s.run, rand.N(100*time.Millisecond))
		addrs = append(addrs, addr)
		expected[addr] = want{s.name, s.kind, s.cause}

		counts[s.kind]++
		if s.kind == peer.OutcomeFailed {
			causes[s.cause]++
		}
	}

	handshaker := peer.New(ulogger.TestLogger{}, &peer.Config{Net: wire.MainNet})
	listener := &recordingListener{}
	p := New(ulogger.TestLogger{}, handshaker, listener)

	report := p.Run(context.Background(), addrs, 500*time.Millisecond)

	assert.Equal(t, counts[peer.OutcomeOk], report.Ok)
	assert.Equal(t, counts[peer.OutcomePartiallyOk], report.PartiallyOk)
	assert.Equal(t, counts[peer.OutcomeFailed], report.Failed)
	assert.Equal(t, causes, report.Failures())
	assert.Len(t, listener.outcomes, len(addrs))
	assert.Equal(t, int32(0), p.InFlight())

	for _, o := range report.Outcomes {
		w := expected[o.Addr]
		assert.Equal(t, w.kind, o.Kind, "%s (%s): %v", o.Addr, w.name, o.Err)
		assert.Equal(t, w.cause, o.Cause, "%s (%s): %v", o.Addr, w.name, o.Err)

		if o.Kind == peer.OutcomePartiallyOk {
			assert.Equal(t, wire.CmdPing, o.Command)
		}
	}

	// silent peers are bounded by the timeout, not by each other
	assert.Less(t, report.Duration, 2*time.Second)
}
