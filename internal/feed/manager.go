package feed

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akarpov/ticker-relay/internal/catalog"
	"github.com/akarpov/ticker-relay/internal/model"
)

// Broadcaster receives every parsed upstream update.
type Broadcaster interface {
	Broadcast(update model.PriceUpdate)
}

// Manager owns the shared upstream connection lifecycle.
type Manager interface {
	// Start opens the upstream connection and begins the receive loop.
	// No-op when already running.
	Start() error

	// Stop closes the upstream connection. No-op when not running.
	Stop() error

	// IsRunning reports whether the upstream connection is open.
	IsRunning() bool
}

// manager implements the Manager interface.
type manager struct {
	cfg     Config
	catalog *catalog.Catalog
	sink    Broadcaster
	logger  *slog.Logger

	// Invariant: conn is non-nil iff running is true. All transitions
	// happen under mu.
	mu      sync.Mutex
	conn    *websocket.Conn
	running bool
}

// NewManager creates a feed manager for the given catalog, forwarding parsed
// updates to sink.
func NewManager(cfg Config, cat *catalog.Catalog, sink Broadcaster, logger *slog.Logger) Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &manager{
		cfg:     cfg,
		catalog: cat,
		sink:    sink,
		logger:  logger,
	}
}

// Start dials the multiplexed stream and spawns the receive loop.
func (m *manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	target := strings.TrimRight(m.cfg.WSURL, "/") + "/" + m.catalog.StreamPath()

	dialer := websocket.Dialer{
		HandshakeTimeout: m.cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.Dial(target, nil)
	if err != nil {
		m.logger.Error("failed to open upstream feed", "url", target, "error", err)
		return fmt.Errorf("dial upstream: %w", err)
	}

	m.conn = conn
	m.running = true

	go m.readLoop(conn)

	m.logger.Info("upstream feed started", "symbols", m.catalog.Len())
	return nil
}

// Stop closes the connection; the receive loop observes the close and exits.
func (m *manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	conn := m.conn
	m.conn = nil
	m.running = false

	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	conn.Close()

	m.logger.Info("upstream feed stopped")
	return nil
}

// IsRunning reports the running flag.
func (m *manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// readLoop reads frames until the connection dies. Clearing the running flag
// on the way out is the sole failure-path reset, so the flag stays consistent
// even on an unexpected disconnect.
func (m *manager) readLoop(conn *websocket.Conn) {
	defer m.reset(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if m.detached(conn) {
				// Local Stop already closed this connection.
				return
			}
			m.logger.Warn("upstream connection closed", "error", err)
			return
		}

		update, err := parseFrame(data, time.Now().UTC())
		if err != nil {
			m.logger.Warn("malformed upstream frame", "error", err)
			continue
		}

		m.sink.Broadcast(update)
	}
}

// reset clears connection state if this loop's connection is still current.
func (m *manager) reset(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == conn {
		m.conn = nil
		m.running = false
		conn.Close()
	}
}

// detached reports whether conn is no longer the manager's current
// connection (i.e., Stop took it away from under the read loop).
func (m *manager) detached(conn *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != conn
}
