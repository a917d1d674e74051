package settings

import (
	"time"

	"github.com/bitcoin-sv/handshake/chaincfg"
)

type HandshakeSettings struct {
	// Port is used for every resolved address that does not carry its own.
	Port            int
	Timeout         time.Duration
	UserAgent       string
	ProtocolVersion int
	StartHeight     int
	Relay           bool
	Services        int

	// SocksProxy routes every dial through a SOCKS5 proxy when set, e.g. "127.0.0.1:9050".
	SocksProxy   string
	ProxyUser    string
	ProxyPass    string
	TorIsolation bool
}

type DNSSeedSettings struct {
	Hosts         []string
	LookupTimeout time.Duration
}

type MetricsSettings struct {
	// ListenAddress serves /metrics when set, e.g. ":9090".
	ListenAddress string
}

type Settings struct {
	Network        string
	ChainCfgParams *chaincfg.Params
	LogLevel       string
	LoggerType     string
	Handshake      HandshakeSettings
	DNSSeed        DNSSeedSettings
	Metrics        MetricsSettings
}
