package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/akarpov/ticker-relay/internal/catalog"
	"github.com/akarpov/ticker-relay/internal/model"
	"github.com/akarpov/ticker-relay/internal/protocol"
)

// Session is the hub's view of one subscriber connection.
type Session interface {
	// ID uniquely identifies the session for registry membership.
	ID() string

	// RemoteAddr is the peer address, for diagnostics only.
	RemoteAddr() string

	// Send delivers one encoded message. Writes on a single session are
	// serialized by the implementation.
	Send(data []byte) error

	// Close tears down the underlying connection.
	Close() error
}

// Hub is the registry of live sessions and the broadcast fan-out point.
type Hub struct {
	catalog *catalog.Catalog
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]Session
}

// New creates an empty hub announcing the given catalog to new sessions.
func New(cat *catalog.Catalog, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		catalog:  cat,
		logger:   logger,
		sessions: make(map[string]Session),
	}
}

// Register adds a session and sends it the ticker catalog, so a new
// subscriber knows what is monitored before any price data arrives. A failed
// welcome send leaves the session unregistered and closed.
func (h *Hub) Register(s Session) {
	// The welcome precedes registration: a broadcast snapshotting the
	// registry concurrently must never deliver a price update ahead of
	// the catalog announcement.
	data, err := json.Marshal(protocol.NewTickersMessage(h.catalog.Symbols()))
	if err != nil {
		h.logger.Error("failed to encode catalog message", "error", err)
		return
	}
	if err := s.Send(data); err != nil {
		h.logger.Warn("failed to send catalog to new session",
			"session_id", s.ID(),
			"error", err,
		)
		s.Close()
		return
	}

	h.mu.Lock()
	h.sessions[s.ID()] = s
	total := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("session registered",
		"session_id", s.ID(),
		"remote_addr", s.RemoteAddr(),
		"total_sessions", total,
	)
}

// Unregister removes a session. Idempotent if already absent.
func (h *Hub) Unregister(s Session) {
	h.mu.Lock()
	_, present := h.sessions[s.ID()]
	delete(h.sessions, s.ID())
	total := len(h.sessions)
	h.mu.Unlock()

	if present {
		h.logger.Info("session unregistered",
			"session_id", s.ID(),
			"total_sessions", total,
		)
	}
}

// Count returns the current number of registered sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast delivers one update to every registered session. Membership is
// snapshotted before delivery and failed sessions are removed in one step
// afterwards, so broadcasting never iterates a mutating set and one dead
// client never aborts delivery to the others.
func (h *Hub) Broadcast(update model.PriceUpdate) {
	data, err := json.Marshal(protocol.NewPriceUpdateMessage(update))
	if err != nil {
		h.logger.Error("failed to encode price update", "error", err)
		return
	}

	h.mu.RLock()
	snapshot := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	var failed []Session
	for _, s := range snapshot {
		if err := s.Send(data); err != nil {
			h.logger.Warn("delivery failed, dropping session",
				"session_id", s.ID(),
				"symbol", update.Symbol,
				"error", err,
			)
			failed = append(failed, s)
		}
	}

	for _, s := range failed {
		h.drop(s)
	}
}

// drop removes a session from the registry and closes its connection.
func (h *Hub) drop(s Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID())
	h.mu.Unlock()
	s.Close()
}
