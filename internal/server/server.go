package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/akarpov/ticker-relay/internal/hub"
	"github.com/akarpov/ticker-relay/internal/protocol"
)

// Feed is the control surface sessions act on. Satisfied by feed.Manager.
type Feed interface {
	Start() error
	Stop() error
}

// Config configures the downstream listener.
type Config struct {
	Host            string        // Empty = all interfaces
	Port            int           // Default listening port is 8765
	WriteTimeout    time.Duration // Per-send deadline for client deliveries
	ShutdownTimeout time.Duration // Listener drain deadline on shutdown
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:            8765,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server accepts subscriber connections and runs their control loops.
type Server struct {
	cfg      Config
	hub      *hub.Hub
	feed     Feed
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a server delivering through h and controlling f.
func New(cfg Config, h *hub.Hub, f Feed, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		hub:    h,
		feed:   f,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Subscribers are unauthenticated; origin checks add nothing.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler accepting websocket upgrades.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleConnection)
	return mux
}

// Run binds the listener and serves until ctx is canceled. A bind failure is
// returned to the caller; it is the only fatal error class here. On
// cancellation the upstream feed and the listener are torn down gracefully;
// open client sessions are cut, not drained.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)),
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("relay listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := s.feed.Stop(); err != nil {
			s.logger.Warn("failed to stop upstream feed on shutdown", "error", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleConnection upgrades one subscriber and runs its session lifecycle.
func (s *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(conn, s.cfg.WriteTimeout)
	s.hub.Register(sess)
	defer func() {
		s.hub.Unregister(sess)
		sess.Close()
	}()

	s.controlLoop(sess)
}

// controlLoop processes inbound control messages until the session's read
// side fails. Decode errors never terminate the loop.
func (s *Server) controlLoop(sess *session) {
	logger := s.logger.With("session_id", sess.ID(), "remote_addr", sess.RemoteAddr())

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("session read ended", "error", err)
			}
			return
		}

		cmd, err := protocol.ParseCommand(data)
		if err != nil {
			logger.Warn("ignoring malformed client message", "error", err)
			continue
		}

		switch cmd {
		case protocol.CommandStart:
			running := true
			if err := s.feed.Start(); err != nil {
				logger.Warn("failed to start upstream feed", "error", err)
				running = false
			}
			s.reply(sess, logger, protocol.NewStatusMessage(running))

		case protocol.CommandStop:
			if err := s.feed.Stop(); err != nil {
				logger.Warn("failed to stop upstream feed", "error", err)
			}
			s.reply(sess, logger, protocol.NewStatusMessage(false))

		case protocol.CommandUnknown:
			// Forward-compatible no-op.
		}
	}
}

func (s *Server) reply(sess *session, logger *slog.Logger, msg protocol.StatusMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to encode status reply", "error", err)
		return
	}
	if err := sess.Send(data); err != nil {
		// The read loop will notice the dead connection shortly.
		logger.Debug("status reply failed", "error", err)
	}
}
