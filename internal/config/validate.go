package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("server.write_timeout must be positive")
	}

	if c.Feed.WSURL == "" {
		return errors.New("feed.ws_url is required")
	}
	if c.Feed.HandshakeTimeout <= 0 {
		return errors.New("feed.handshake_timeout must be positive")
	}

	if len(c.Catalog.Symbols) == 0 {
		return errors.New("catalog.symbols must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Catalog.Symbols))
	for i, sym := range c.Catalog.Symbols {
		if sym == "" {
			return fmt.Errorf("catalog.symbols[%d] is empty", i)
		}
		if _, dup := seen[sym]; dup {
			return fmt.Errorf("catalog.symbols contains duplicate %q", sym)
		}
		seen[sym] = struct{}{}
	}

	return nil
}
