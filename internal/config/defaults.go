package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort             = 8765
	DefaultWriteTimeout     = 5 * time.Second
	DefaultWSURL            = "wss://stream.binance.com:9443/ws"
	DefaultHandshakeTimeout = 10 * time.Second
)

// DefaultSymbols is the catalog used when none is configured.
var DefaultSymbols = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT",
	"ADAUSDT", "DOGEUSDT", "AVAXUSDT", "DOTUSDT", "LINKUSDT",
	"MATICUSDT", "LTCUSDT", "UNIUSDT", "ATOMUSDT",
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	if c.Feed.WSURL == "" {
		c.Feed.WSURL = DefaultWSURL
	}
	if c.Feed.HandshakeTimeout == 0 {
		c.Feed.HandshakeTimeout = DefaultHandshakeTimeout
	}

	if len(c.Catalog.Symbols) == 0 {
		c.Catalog.Symbols = append([]string(nil), DefaultSymbols...)
	}
}
