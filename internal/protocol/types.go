package protocol

import (
	"time"

	"github.com/akarpov/ticker-relay/internal/model"
)

// Message type tags (server to client).
const (
	TypeTickers     = "tickers"
	TypeStatus      = "status"
	TypePriceUpdate = "price_update"
)

// Feed status values carried by a StatusMessage.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// TickersMessage announces the monitored symbol catalog. Sent once to each
// session immediately after it connects, before any price data.
type TickersMessage struct {
	Type string   `json:"type"`
	Data []string `json:"data"`
}

// StatusMessage is the reply to a start or stop command.
type StatusMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// PriceUpdateMessage is one parsed upstream tick, broadcast to every session.
type PriceUpdateMessage struct {
	Type      string  `json:"type"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	Volume    float64 `json:"volume"`
	Timestamp string  `json:"timestamp"`
}

// NewTickersMessage builds the catalog announcement for a new session.
func NewTickersMessage(symbols []string) TickersMessage {
	return TickersMessage{Type: TypeTickers, Data: symbols}
}

// NewStatusMessage builds a status reply reflecting the feed's running state.
func NewStatusMessage(running bool) StatusMessage {
	status := StatusDisconnected
	if running {
		status = StatusConnected
	}
	return StatusMessage{Type: TypeStatus, Status: status}
}

// NewPriceUpdateMessage converts a domain update to its wire form. The
// timestamp is RFC 3339 in UTC.
func NewPriceUpdateMessage(u model.PriceUpdate) PriceUpdateMessage {
	return PriceUpdateMessage{
		Type:      TypePriceUpdate,
		Symbol:    u.Symbol,
		Price:     u.Price,
		Change24h: u.Change24h,
		Volume:    u.Volume,
		Timestamp: u.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
