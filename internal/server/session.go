package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// session wraps one subscriber connection. It implements hub.Session.
type session struct {
	id   string
	conn *websocket.Conn

	// Serializes writes: broadcast deliveries and control replies may race.
	writeMu      sync.Mutex
	writeTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

func newSession(conn *websocket.Conn, writeTimeout time.Duration) *session {
	return &session{
		id:           uuid.NewString(),
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// ID returns the session's registry identity.
func (s *session) ID() string { return s.id }

// RemoteAddr returns the peer address for diagnostics.
func (s *session) RemoteAddr() string { return s.conn.RemoteAddr().String() }

// Send writes one text frame under the per-session write deadline.
func (s *session) Send(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the connection. Safe to call more than once.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
