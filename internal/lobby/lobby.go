// Package lobby tracks who is connected to the server. Every player name
// holds at most one live session: towers are saved per name, so two
// sessions under one name would overwrite each other's saves.
package lobby

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// ErrAlreadyPlaying is returned by Join while the name has a live session.
var ErrAlreadyPlaying = errors.New("lobby: already playing")

// Session is one connected player.
type Session struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Joined time.Time `json:"joined"`
}

// Lobby is safe for concurrent use by the SSH handler goroutines.
type Lobby struct {
	mu       sync.Mutex
	sessions map[string]Session
	nextID   int
	now      func() time.Time
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Lobby {
	return &Lobby{
		sessions: make(map[string]Session),
		now:      time.Now,
		logger:   logger,
	}
}

// Join registers name and returns its session.
func (l *Lobby) Join(name string) (Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sessions[name]; ok {
		l.logger.Info("lobby: refused duplicate session", "player", name)
		return Session{}, ErrAlreadyPlaying
	}
	l.nextID++
	s := Session{ID: l.nextID, Name: name, Joined: l.now()}
	l.sessions[name] = s
	l.logger.Info("lobby: player joined", "player", name, "session", s.ID, "online", len(l.sessions))
	return s, nil
}

// Leave ends a session. A stale session (one whose name has since been
// taken by a newer session) is ignored.
func (l *Lobby) Leave(s Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.sessions[s.Name]
	if !ok || cur.ID != s.ID {
		return
	}
	delete(l.sessions, s.Name)
	l.logger.Info("lobby: player left", "player", s.Name, "session", s.ID,
		"played", l.now().Sub(s.Joined).Round(time.Second).String(), "online", len(l.sessions))
}

// Sessions lists the live sessions in join order.
func (l *Lobby) Sessions() []Session {
	l.mu.Lock()
	out := make([]Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s)
	}
	l.mu.Unlock()
	slices.SortFunc(out, func(a, b Session) int { return a.ID - b.ID })
	return out
}

func (l *Lobby) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}
