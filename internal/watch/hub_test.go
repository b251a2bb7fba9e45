package watch

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"simlibrary/internal/sim"

	"github.com/gorilla/websocket"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestHub(opts ...Option) *Hub {
	opts = append([]Option{WithClock(func() time.Time { return t0 })}, opts...)
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Clients = %d; want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}
	return f
}

func state(stars int) sim.State {
	return sim.State{Stars: stars, Floors: []sim.Floor{{ID: "floor_1", Name: "Mystery Corner", Level: 1}}}
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestPublishReachesSpectator(t *testing.T) {
	h := newTestHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv, "?player=alice")
	waitClients(t, h, 1)
	h.Publish("alice", state(42))

	f := readFrame(t, conn)
	if f.Player != "alice" || f.State.Stars != 42 {
		t.Errorf("frame = %+v; want alice with 42 stars", f)
	}
	if f.Time != t0.UnixMilli() {
		t.Errorf("time = %d; want %d", f.Time, t0.UnixMilli())
	}
	if len(f.State.Floors) != 1 || f.State.Floors[0].Name != "Mystery Corner" {
		t.Errorf("floors = %+v", f.State.Floors)
	}
}

func TestNewSpectatorGetsLatestFrame(t *testing.T) {
	h := newTestHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	h.Publish("alice", state(1))
	h.Publish("alice", state(2))
	conn := dial(t, srv, "?player=alice")
	if f := readFrame(t, conn); f.State.Stars != 2 {
		t.Errorf("replayed stars = %d; want the latest (2)", f.State.Stars)
	}
}

func TestSpectatorFiltersByPlayer(t *testing.T) {
	h := newTestHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv, "?player=alice")
	waitClients(t, h, 1)
	h.Publish("bob", state(7))
	h.Publish("alice", state(9))
	if f := readFrame(t, conn); f.Player != "alice" {
		t.Errorf("first frame from %q; want alice only", f.Player)
	}
}

func TestUnfilteredSpectatorSeesEveryone(t *testing.T) {
	h := newTestHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	h.Publish("bob", state(1))
	h.Publish("alice", state(2))
	conn := dial(t, srv, "")
	first, second := readFrame(t, conn), readFrame(t, conn)
	if first.Player != "alice" || second.Player != "bob" {
		t.Errorf("replay order = %q, %q; want alice, bob", first.Player, second.Player)
	}
}

func TestForgetDropsReplay(t *testing.T) {
	h := newTestHub()
	h.Publish("alice", state(1))
	h.Forget("alice")
	c := h.join("alice")
	if len(c.out) != 0 {
		t.Errorf("forgotten player replayed %d frames", len(c.out))
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	h := newTestHub()
	c := h.join("alice") // never drained
	done := make(chan struct{})
	go func() {
		for i := range 5 * clientBuffer {
			h.Publish("alice", state(i))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full spectator")
	}
	if len(c.out) != clientBuffer {
		t.Errorf("buffered = %d; want %d", len(c.out), clientBuffer)
	}
}

func TestCloseDisconnectsSpectators(t *testing.T) {
	h := newTestHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv, "")
	waitClients(t, h, 1)
	h.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("read after Close = %v; want going-away close", err)
	}
	if h.Clients() != 0 {
		t.Errorf("Clients = %d; want 0", h.Clients())
	}
	h.Publish("alice", state(1)) // ignored after Close
}

func TestSpectatorLeaving(t *testing.T) {
	h := newTestHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv, "")
	waitClients(t, h, 1)
	conn.Close()
	waitClients(t, h, 0)
}

func TestRemoteSpectatorRefused(t *testing.T) {
	h := newTestHub()
	req := httptest.NewRequest(http.MethodGet, "/watch", nil)
	req.RemoteAddr = "203.0.113.5:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d; want 403", rec.Code)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:1234", true},
		{"[::1]:1234", true},
		{"::1", true},
		{"10.0.0.1:80", false},
		{"example.com:80", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isLoopbackRemote(c.addr); got != c.want {
			t.Errorf("isLoopbackRemote(%q) = %v; want %v", c.addr, got, c.want)
		}
	}
}
