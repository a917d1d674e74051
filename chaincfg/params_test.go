package chaincfg

import (
	"testing"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChainParams(t *testing.T) {
	tests := []struct {
		network string
		net     wire.BitcoinNet
		port    string
	}{
		{"mainnet", wire.MainNet, "8333"},
		{"main", wire.MainNet, "8333"},
		{"testnet", wire.TestNet3, "18333"},
		{"testnet3", wire.TestNet3, "18333"},
		{"regtest", wire.RegTest, "18444"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			params, err := GetChainParams(tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.net, params.Net)
			assert.Equal(t, tt.port, params.DefaultPort)
		})
	}

	_, err := GetChainParams("stn")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestSeedHosts(t *testing.T) {
	hosts := MainNetParams.SeedHosts()
	assert.Len(t, hosts, 9)
	assert.Equal(t, "seed.bitcoin.sipa.be", hosts[0])

	assert.Empty(t, RegressionNetParams.SeedHosts())
	assert.Equal(t, "seed.tbtc.petertodd.net", TestNet3Params.DNSSeeds[1].String())
}

func TestRegisterDuplicate(t *testing.T) {
	err := Register(&Params{Name: "other", Net: wire.MainNet})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNet))

	err = Register(&Params{Name: "mainnet", Net: wire.BitcoinNet(0x01020304)})
	require.Error(t, err)
}
