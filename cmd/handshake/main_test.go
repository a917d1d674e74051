package main

import (
	"net"
	"strconv"
	"testing"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/wire"
	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlagKeys removes every key the flags may have written.
func resetFlagKeys(t *testing.T) {
	t.Cleanup(func() {
		for _, key := range stringFlagKeys {
			gocore.Config().Unset(key)
		}

		for _, key := range intFlagKeys {
			gocore.Config().Unset(key)
		}
	})
}

func TestRunAgainstLoopbackPeer(t *testing.T) {
	resetFlagKeys(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer func() {
		_ = l.Close()
	}()

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}

		defer func() {
			_ = conn.Close()
		}()

		if _, _, err = wire.ReadMessage(conn, wire.RegTest); err != nil {
			return
		}

		version := wire.NewMsgVersion(&wire.NetAddress{}, &wire.NetAddress{}, 99, 0)
		_ = wire.WriteMessage(conn, wire.RegTest, version)
		_ = wire.WriteMessage(conn, wire.RegTest, wire.NewMsgVerAck())

		_, _, _ = wire.ReadMessage(conn, wire.RegTest)
	}()

	port := l.Addr().(*net.TCPAddr).Port

	err = newApp().Run([]string{progname, "--network", "regtest", "--port", strconv.Itoa(port), "--timeout", "2", "--log-level", "ERROR", "127.0.0.1"})
	require.NoError(t, err)

	network, _ := gocore.Config().Get("network")
	assert.Equal(t, "regtest", network)

	configuredPort, _ := gocore.Config().Get("handshake_port")
	assert.Equal(t, strconv.Itoa(port), configuredPort)
}

func TestRunNoAddresses(t *testing.T) {
	resetFlagKeys(t)

	// regtest has no default seeds
	err := newApp().Run([]string{progname, "--network", "regtest", "--log-level", "ERROR"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestRunBadNetwork(t *testing.T) {
	resetFlagKeys(t)

	err := newApp().Run([]string{progname, "--network", "nonet", "127.0.0.1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}
