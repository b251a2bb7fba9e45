// Package watch streams tower snapshots to read-only websocket spectators.
// Spectators never send anything that reaches a game; the hub only fans
// out frames published after each economy tick.
package watch

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"simlibrary/internal/sim"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	clientBuffer = 16
)

// Frame is one message sent to spectators.
type Frame struct {
	Player string    `json:"player"`
	Time   int64     `json:"time"` // unix ms
	State  sim.State `json:"state"`
}

type client struct {
	id     uint64
	player string // empty follows every tower
	out    chan []byte
}

type Hub struct {
	logger      *slog.Logger
	upgrader    websocket.Upgrader
	allowRemote bool
	now         func() time.Time
	nextID      atomic.Uint64

	mu      sync.Mutex
	clients map[uint64]*client
	last    map[string][]byte // latest frame per player, replayed to newcomers
	closed  bool
}

type Option func(*Hub)

// AllowRemote accepts spectators from any address instead of loopback only.
func AllowRemote() Option { return func(h *Hub) { h.allowRemote = true } }

func WithClock(now func() time.Time) Option { return func(h *Hub) { h.now = now } }

func NewHub(logger *slog.Logger, opts ...Option) *Hub {
	h := &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		now:     time.Now,
		clients: make(map[uint64]*client),
		last:    make(map[string][]byte),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Publish queues a snapshot of player's tower for its spectators. It never
// blocks: a spectator whose buffer is full misses the frame.
func (h *Hub) Publish(player string, state sim.State) {
	data, err := json.Marshal(Frame{Player: player, Time: h.now().UnixMilli(), State: state})
	if err != nil {
		h.logger.Warn("watch: cannot marshal frame", "player", player, "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last[player] = data
	for _, c := range h.clients {
		if c.player != "" && c.player != player {
			continue
		}
		select {
		case c.out <- data:
		default:
		}
	}
}

// Forget drops the replay frame of a player who has left.
func (h *Hub) Forget(player string) {
	h.mu.Lock()
	delete(h.last, player)
	h.mu.Unlock()
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every spectator. Later Publish calls are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		close(c.out)
		delete(h.clients, id)
	}
}

func (h *Hub) join(player string) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	c := &client{id: h.nextID.Add(1), player: player, out: make(chan []byte, clientBuffer)}
	names := make([]string, 0, len(h.last))
	for name := range h.last {
		if player == "" || name == player {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		select {
		case c.out <- h.last[name]:
		default:
		}
	}
	h.clients[c.id] = c
	return c
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		close(c.out)
		delete(h.clients, c.id)
	}
}

// ServeHTTP upgrades a spectator connection. ?player=NAME follows a single
// tower; without it every tower is streamed.
func (h *Hub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if !h.allowRemote && !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := h.join(r.URL.Query().Get("player"))
	if c == nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
		return
	}
	defer h.leave(c)
	h.logger.Info("watch: spectator connected", "remote", r.RemoteAddr, "player", c.player)

	// Reader: spectators send nothing, but control frames must be read.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case b, ok := <-c.out:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
