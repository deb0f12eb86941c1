package config

import "time"

// Config is the root configuration for the relay.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Feed    FeedConfig    `yaml:"feed"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// ServerConfig holds the downstream websocket listener settings.
type ServerConfig struct {
	Host         string        `yaml:"host"` // Empty = all interfaces
	Port         int           `yaml:"port"`
	WriteTimeout time.Duration `yaml:"write_timeout"` // Per-send deadline for client deliveries
}

// FeedConfig holds the upstream price stream settings.
type FeedConfig struct {
	WSURL            string        `yaml:"ws_url"` // Base websocket URL, stream path is appended
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// CatalogConfig holds the fixed symbol catalog.
type CatalogConfig struct {
	Symbols []string `yaml:"symbols"`
}
