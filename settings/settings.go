// Package settings reads the prober configuration from gocore (settings.conf,
// settings_local.conf and the environment) and applies defaults.
package settings

import (
	"math"
	"strconv"

	"github.com/bitcoin-sv/handshake/chaincfg"
	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bitcoin-sv/handshake/wire"
)

// NewSettings is New for callers that treat a bad configuration as fatal.
func NewSettings() *Settings {
	s, err := New()
	if err != nil {
		panic(err)
	}

	return s
}

// New builds the settings for the network named by the "network" key.
func New() (*Settings, error) {
	network := getString("network", "mainnet")

	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		return nil, err
	}

	defaultPort, err := strconv.Atoi(params.DefaultPort)
	if err != nil {
		return nil, errors.NewConfigurationError("invalid default port %q for network %s", params.DefaultPort, params.Name, err)
	}

	s := &Settings{
		Network:        params.Name,
		ChainCfgParams: params,
		LogLevel:       getString("logLevel", "INFO"),
		LoggerType:     getString("loggerType", "zerolog"),
		Handshake: HandshakeSettings{
			Port:            getInt("handshake_port", defaultPort),
			Timeout:         getSeconds("handshake_timeout", 10),
			UserAgent:       getString("handshake_userAgent", wire.DefaultUserAgent),
			ProtocolVersion: getInt("handshake_protocolVersion", int(wire.ProtocolVersion)),
			StartHeight:     getInt("handshake_startHeight", 0),
			Relay:           getBool("handshake_relay", false),
			Services:        getInt("handshake_services", 0),
			SocksProxy:      getString("handshake_socksProxy", ""),
			ProxyUser:       getString("handshake_proxyUser", ""),
			ProxyPass:       getString("handshake_proxyPass", ""),
			TorIsolation:    getBool("handshake_torIsolation", false),
		},
		DNSSeed: DNSSeedSettings{
			Hosts:         getMultiString("dnsseed_hosts", "|", params.SeedHosts()),
			LookupTimeout: getSeconds("dnsseed_lookupTimeout", 10),
		},
		Metrics: MetricsSettings{
			ListenAddress: getString("metrics_listenAddress", ""),
		},
	}

	if err = s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the values that cannot be defaulted away.
func (s *Settings) Validate() error {
	if s.Handshake.Port <= 0 || s.Handshake.Port > 65535 {
		return errors.NewConfigurationError("handshake_port %d is out of range", s.Handshake.Port)
	}

	if s.Handshake.Timeout <= 0 {
		return errors.NewConfigurationError("handshake_timeout must be positive, got %s", s.Handshake.Timeout)
	}

	if s.Handshake.ProtocolVersion <= 0 || s.Handshake.ProtocolVersion > math.MaxInt32 {
		return errors.NewConfigurationError("handshake_protocolVersion %d is out of range", s.Handshake.ProtocolVersion)
	}

	if s.Handshake.StartHeight < 0 || s.Handshake.StartHeight > math.MaxInt32 {
		return errors.NewConfigurationError("handshake_startHeight %d is out of range", s.Handshake.StartHeight)
	}

	if s.Handshake.Services < 0 {
		return errors.NewConfigurationError("handshake_services must not be negative, got %d", s.Handshake.Services)
	}

	if len(s.Handshake.UserAgent) > wire.MaxUserAgentLen {
		return errors.NewConfigurationError("handshake_userAgent is longer than %d bytes", wire.MaxUserAgentLen)
	}

	if s.DNSSeed.LookupTimeout <= 0 {
		return errors.NewConfigurationError("dnsseed_lookupTimeout must be positive, got %s", s.DNSSeed.LookupTimeout)
	}

	return nil
}
