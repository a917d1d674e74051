// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/wire"
)

// DNSSeed identifies a DNS seed.
type DNSSeed struct {
	// Host defines the hostname of the seed.
	Host string

	// HasFiltering defines whether the seed supports filtering
	// by service flags (wire.ServiceFlag).
	HasFiltering bool
}

// String returns the hostname of the DNS seed in human-readable form.
func (d DNSSeed) String() string {
	return d.Host
}

// Params defines a Bitcoin network by its parameters. These parameters may be
// used by Bitcoin applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DNSSeeds defines a list of DNS seeds for the network that are used
	// as one method to discover peers.
	DNSSeeds []DNSSeed
}

// SeedHosts returns the host names of the network's DNS seeds.
func (p *Params) SeedHosts() []string {
	hosts := make([]string, 0, len(p.DNSSeeds))
	for _, seed := range p.DNSSeeds {
		hosts = append(hosts, seed.Host)
	}

	return hosts
}

// MainNetParams defines the network parameters for the main Bitcoin network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         wire.MainNet,
	DefaultPort: "8333",
	DNSSeeds: []DNSSeed{
		{"seed.bitcoin.sipa.be", true},
		{"dnsseed.bluematt.me", true},
		{"dnsseed.bitcoin.dashjr-list-of-p2p-nodes.us", false},
		{"seed.bitcoinstats.com", true},
		{"seed.bitcoin.jonasschnelli.ch", true},
		{"seed.btc.petertodd.net", true},
		{"seed.bitcoin.sprovoost.nl", true},
		{"dnsseed.emzy.de", true},
		{"seed.bitcoin.wiz.biz", true},
	},
}

// TestNet3Params defines the network parameters for the test Bitcoin network
// (version 3).
var TestNet3Params = Params{
	Name:        "testnet",
	Net:         wire.TestNet3,
	DefaultPort: "18333",
	DNSSeeds: []DNSSeed{
		{"testnet-seed.bitcoin.jonasschnelli.ch", true},
		{"seed.tbtc.petertodd.net", true},
		{"testnet-seed.bluematt.me", false},
	},
}

// RegressionNetParams defines the network parameters for the regression test
// Bitcoin network. It has no DNS seeds; peers are given explicitly.
var RegressionNetParams = Params{
	Name:        "regtest",
	Net:         wire.RegTest,
	DefaultPort: "18444",
	DNSSeeds:    []DNSSeed{},
}

var (
	// ErrDuplicateNet describes an error where the parameters for a Bitcoin
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.NewConfigurationError("duplicate Bitcoin network")

	registeredNets = make(map[wire.BitcoinNet]*Params)
	registeredName = make(map[string]*Params)
)

// Register registers the network parameters for a Bitcoin network. This may
// error with ErrDuplicateNet if the network is already registered (either
// due to a previous Register call, or the network being one of the default
// networks).
//
// Network parameters should be registered into this package by a main package
// as early as possible.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}

	if _, ok := registeredName[params.Name]; ok {
		return ErrDuplicateNet
	}

	registeredNets[params.Net] = params
	registeredName[params.Name] = params

	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic(fmt.Sprintf("failed to register network: %v", err))
	}
}

// GetChainParams returns the parameters registered under network. "main" and
// "test" are accepted as aliases for mainnet and testnet.
func GetChainParams(network string) (*Params, error) {
	switch network {
	case "main":
		network = MainNetParams.Name
	case "test", "testnet3":
		network = TestNet3Params.Name
	}

	params, ok := registeredName[network]
	if !ok {
		return nil, errors.NewConfigurationError("unknown network %s", network)
	}

	return params, nil
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainNetParams)
	mustRegister(&TestNet3Params)
	mustRegister(&RegressionNetParams)
}
