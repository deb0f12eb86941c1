package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akarpov/ticker-relay/internal/catalog"
	"github.com/akarpov/ticker-relay/internal/model"
)

// mockUpstream is a test websocket server standing in for the provider.
type mockUpstream struct {
	server *httptest.Server
	dials  atomic.Int32
	path   atomic.Value // string, request path of the last upgrade
}

func newMockUpstream(t *testing.T, handler func(*websocket.Conn)) *mockUpstream {
	t.Helper()

	u := &mockUpstream{}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		u.dials.Add(1)
		u.path.Store(r.URL.Path)
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(u.server.Close)

	return u
}

func (u *mockUpstream) URL() string {
	return "ws" + strings.TrimPrefix(u.server.URL, "http")
}

// holdOpen keeps a server-side connection alive until the peer goes away.
func holdOpen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// captureSink records broadcast updates.
type captureSink struct {
	updates chan model.PriceUpdate
}

func newCaptureSink() *captureSink {
	return &captureSink{updates: make(chan model.PriceUpdate, 16)}
}

func (s *captureSink) Broadcast(u model.PriceUpdate) {
	s.updates <- u
}

func (s *captureSink) next(t *testing.T) model.PriceUpdate {
	t.Helper()
	select {
	case u := <-s.updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast update")
		return model.PriceUpdate{}
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func testConfig(url string) Config {
	return Config{
		WSURL:            url,
		HandshakeTimeout: 5 * time.Second,
	}
}

func TestManager_StartReceivesUpdates(t *testing.T) {
	upstream := newMockUpstream(t, func(conn *websocket.Conn) {
		frame := `{"s":"BTCUSDT","c":"65000.50","P":"1.20","v":"1000.0"}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
		holdOpen(conn)
	})

	sink := newCaptureSink()
	cat := catalog.New([]string{"BTCUSDT", "ETHUSDT"})
	m := NewManager(testConfig(upstream.URL()), cat, sink, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	if !m.IsRunning() {
		t.Error("expected IsRunning after Start")
	}

	update := sink.next(t)
	if update.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %q, want BTCUSDT", update.Symbol)
	}
	if update.Price != 65000.50 {
		t.Errorf("Price = %v, want 65000.50", update.Price)
	}
	if update.Change24h != 1.20 {
		t.Errorf("Change24h = %v, want 1.20", update.Change24h)
	}
	if update.Volume != 1000.0 {
		t.Errorf("Volume = %v, want 1000.0", update.Volume)
	}
	if update.Timestamp.IsZero() {
		t.Error("expected a non-zero observation timestamp")
	}

	if got, _ := upstream.path.Load().(string); got != "/btcusdt@ticker/ethusdt@ticker" {
		t.Errorf("subscription path = %q, want /btcusdt@ticker/ethusdt@ticker", got)
	}
}

func TestManager_StartIdempotent(t *testing.T) {
	upstream := newMockUpstream(t, holdOpen)

	m := NewManager(testConfig(upstream.URL()), catalog.New([]string{"BTCUSDT"}), newCaptureSink(), nil)

	if err := m.Start(); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	defer m.Stop()

	if err := m.Start(); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	// Give any accidental second dial time to land.
	time.Sleep(50 * time.Millisecond)
	if got := upstream.dials.Load(); got != 1 {
		t.Errorf("upstream dials = %d, want 1", got)
	}
}

func TestManager_StartDialFailure(t *testing.T) {
	upstream := newMockUpstream(t, holdOpen)
	url := upstream.URL()
	upstream.server.Close()

	m := NewManager(testConfig(url), catalog.New([]string{"BTCUSDT"}), newCaptureSink(), nil)

	if err := m.Start(); err == nil {
		t.Fatal("expected Start to fail against a closed server")
	}
	if m.IsRunning() {
		t.Error("expected IsRunning false after failed Start")
	}
}

func TestManager_StopWhenNotRunning(t *testing.T) {
	m := NewManager(DefaultConfig(), catalog.New([]string{"BTCUSDT"}), newCaptureSink(), nil)

	if err := m.Stop(); err != nil {
		t.Errorf("Stop on idle manager = %v, want nil", err)
	}
}

func TestManager_StopClearsRunning(t *testing.T) {
	upstream := newMockUpstream(t, holdOpen)

	m := NewManager(testConfig(upstream.URL()), catalog.New([]string{"BTCUSDT"}), newCaptureSink(), nil)
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if m.IsRunning() {
		t.Error("expected IsRunning false after Stop")
	}

	// A restart must dial again.
	if err := m.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return upstream.dials.Load() == 2 }, "expected a second dial after restart")
}

func TestManager_MalformedFrameDoesNotKillLoop(t *testing.T) {
	upstream := newMockUpstream(t, func(conn *websocket.Conn) {
		frames := []string{
			`{not json`,
			`{"s":"BTCUSDT","c":"not-a-number","P":"0","v":"0"}`,
			`{"c":"1.0","P":"0","v":"0"}`,
			`{"s":"ETHUSDT","c":"3200.25","P":"-0.5","v":"42.0"}`,
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		holdOpen(conn)
	})

	sink := newCaptureSink()
	m := NewManager(testConfig(upstream.URL()), catalog.New([]string{"ETHUSDT"}), sink, nil)
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	update := sink.next(t)
	if update.Symbol != "ETHUSDT" {
		t.Errorf("Symbol = %q, want ETHUSDT (malformed frames must be skipped)", update.Symbol)
	}
	if !m.IsRunning() {
		t.Error("receive loop must survive malformed frames")
	}
}

func TestManager_RemoteCloseClearsRunning(t *testing.T) {
	upstream := newMockUpstream(t, func(conn *websocket.Conn) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	})

	m := NewManager(testConfig(upstream.URL()), catalog.New([]string{"BTCUSDT"}), newCaptureSink(), nil)
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	waitFor(t, func() bool { return !m.IsRunning() }, "expected running flag cleared after remote close")
}
