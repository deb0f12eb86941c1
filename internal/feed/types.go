package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/akarpov/ticker-relay/internal/model"
)

var errMissingSymbol = errors.New("frame missing symbol")

// Config configures the feed manager.
type Config struct {
	WSURL            string        // Base websocket URL; the stream path is appended
	HandshakeTimeout time.Duration // Dial handshake deadline
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WSURL:            "wss://stream.binance.com:9443/ws",
		HandshakeTimeout: 10 * time.Second,
	}
}

// tickerFrame mirrors the provider's 24h ticker payload. All numeric fields
// arrive as strings.
type tickerFrame struct {
	Symbol    string `json:"s"`
	LastPrice string `json:"c"`
	ChangePct string `json:"P"`
	Volume    string `json:"v"`
}

// parseFrame decodes one upstream frame into a normalized update stamped
// with the given observation time.
func parseFrame(data []byte, observedAt time.Time) (model.PriceUpdate, error) {
	var f tickerFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return model.PriceUpdate{}, fmt.Errorf("decode frame: %w", err)
	}
	if f.Symbol == "" {
		return model.PriceUpdate{}, errMissingSymbol
	}

	price, err := strconv.ParseFloat(f.LastPrice, 64)
	if err != nil {
		return model.PriceUpdate{}, fmt.Errorf("parse last price %q: %w", f.LastPrice, err)
	}
	change, err := strconv.ParseFloat(f.ChangePct, 64)
	if err != nil {
		return model.PriceUpdate{}, fmt.Errorf("parse 24h change %q: %w", f.ChangePct, err)
	}
	volume, err := strconv.ParseFloat(f.Volume, 64)
	if err != nil {
		return model.PriceUpdate{}, fmt.Errorf("parse 24h volume %q: %w", f.Volume, err)
	}

	return model.PriceUpdate{
		Symbol:    f.Symbol,
		Price:     price,
		Change24h: change,
		Volume:    volume,
		Timestamp: observedAt,
	}, nil
}
