// Package model defines shared data types used across the relay.
//
// Conventions:
//   - Prices, changes, and volumes: float64 as parsed from the upstream feed
//   - Timestamps: time.Time in UTC, formatted RFC 3339 on the wire
package model
