package settings

import (
	"testing"
	"time"

	"github.com/bitcoin-sv/handshake/chaincfg"
	"github.com/bitcoin-sv/handshake/errors"
	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig sets gocore keys for the duration of the test.
func withConfig(t *testing.T, kv map[string]string) {
	t.Helper()

	for k, v := range kv {
		gocore.Config().Set(k, v)
	}

	t.Cleanup(func() {
		for k := range kv {
			gocore.Config().Unset(k)
		}
	})
}

// check settings object is initialised
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()

	require.NotNil(t, tSettings.ChainCfgParams)
	assert.Equal(t, "mainnet", tSettings.Network)
	assert.Equal(t, 8333, tSettings.Handshake.Port)
	assert.Equal(t, 10*time.Second, tSettings.Handshake.Timeout)
	assert.Equal(t, "/handshake:0.1.0/", tSettings.Handshake.UserAgent)
	assert.Equal(t, 70015, tSettings.Handshake.ProtocolVersion)
	assert.Equal(t, 0, tSettings.Handshake.StartHeight)
	assert.False(t, tSettings.Handshake.Relay)
	assert.Equal(t, chaincfg.MainNetParams.SeedHosts(), tSettings.DNSSeed.Hosts)
	assert.Equal(t, 10*time.Second, tSettings.DNSSeed.LookupTimeout)
	assert.Empty(t, tSettings.Metrics.ListenAddress)
}

func TestNetworkDefaults(t *testing.T) {
	tests := []struct {
		network string
		port    int
		seeds   []string
	}{
		{"testnet", 18333, chaincfg.TestNet3Params.SeedHosts()},
		{"regtest", 18444, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			withConfig(t, map[string]string{"network": tt.network})

			s, err := New()
			require.NoError(t, err)
			assert.Equal(t, tt.port, s.Handshake.Port)
			assert.Equal(t, tt.seeds, s.DNSSeed.Hosts)
		})
	}
}

func TestOverrides(t *testing.T) {
	withConfig(t, map[string]string{
		"handshake_port":        "9333",
		"handshake_timeout":     "3",
		"handshake_userAgent":   "/probe:1.0/",
		"handshake_startHeight": "800000",
		"handshake_relay":       "true",
		"dnsseed_hosts":         "seed.one.example|seed.two.example",
		"metrics_listenAddress": ":9090",
	})

	s, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9333, s.Handshake.Port)
	assert.Equal(t, 3*time.Second, s.Handshake.Timeout)
	assert.Equal(t, "/probe:1.0/", s.Handshake.UserAgent)
	assert.Equal(t, 800000, s.Handshake.StartHeight)
	assert.True(t, s.Handshake.Relay)
	assert.Equal(t, []string{"seed.one.example", "seed.two.example"}, s.DNSSeed.Hosts)
	assert.Equal(t, ":9090", s.Metrics.ListenAddress)
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		kv   map[string]string
	}{
		{"unknown network", map[string]string{"network": "nonet"}},
		{"port out of range", map[string]string{"handshake_port": "70000"}},
		{"zero timeout", map[string]string{"handshake_timeout": "0"}},
		{"negative protocol version", map[string]string{"handshake_protocolVersion": "-1"}},
		{"protocol version above int32", map[string]string{"handshake_protocolVersion": "2147483648"}},
		{"negative start height", map[string]string{"handshake_startHeight": "-5"}},
		{"negative services", map[string]string{"handshake_services": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.kv)

			_, err := New()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrConfiguration))
			assert.Panics(t, func() { NewSettings() })
		})
	}
}
