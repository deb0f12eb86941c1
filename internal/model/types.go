package model

import "time"

// PriceUpdate is one normalized tick from the upstream feed. Produced
// transiently per inbound frame and handed to the broadcaster; never stored.
type PriceUpdate struct {
	Symbol    string    // Upstream symbol (e.g., "BTCUSDT")
	Price     float64   // Last traded price
	Change24h float64   // 24-hour percent change
	Volume    float64   // 24-hour volume
	Timestamp time.Time // Local observation time (UTC)
}
