package catalog

import "strings"

// streamSuffix is the per-symbol stream identifier suffix in the provider's
// multiplexed-stream path convention.
const streamSuffix = "@ticker"

// Catalog holds the ordered set of monitored symbols.
type Catalog struct {
	symbols []string
}

// New creates a catalog from an ordered symbol list. The input slice is
// copied; the catalog never mutates after construction.
func New(symbols []string) *Catalog {
	c := &Catalog{symbols: make([]string, len(symbols))}
	copy(c.symbols, symbols)
	return c
}

// Symbols returns the monitored symbols in catalog order.
func (c *Catalog) Symbols() []string {
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Len returns the number of monitored symbols.
func (c *Catalog) Len() int {
	return len(c.symbols)
}

// StreamPath builds the multiplexed subscription path: one lowercase
// "<symbol>@ticker" identifier per symbol, joined with "/".
func (c *Catalog) StreamPath() string {
	streams := make([]string, len(c.symbols))
	for i, sym := range c.symbols {
		streams[i] = strings.ToLower(sym) + streamSuffix
	}
	return strings.Join(streams, "/")
}
