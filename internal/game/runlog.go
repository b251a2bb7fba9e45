package game

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"simlibrary/internal/store"
)

// SessionLog records statistics gathered while one tower was open.
type SessionLog struct {
	Timestamp     time.Time      `json:"timestamp"`
	Player        string         `json:"player,omitempty"`
	Seconds       int            `json:"seconds"`
	Ticks         int            `json:"ticks"`
	StarsEarned   int            `json:"stars_earned"`
	StarsFinal    int            `json:"stars_final"`
	FloorsBuilt   int            `json:"floors_built"`
	Upgrades      int            `json:"upgrades"`
	LevelUps      int            `json:"level_ups"`
	DecorPlaced   map[string]int `json:"decor_placed"`   // decor id → count
	BooksBorrowed map[string]int `json:"books_borrowed"` // category → count
	ReadersServed int            `json:"readers_served"`
	SaveErrors    int            `json:"save_errors"`
}

func newSessionLog(player string, start time.Time) SessionLog {
	return SessionLog{
		Timestamp:     start,
		Player:        player,
		DecorPlaced:   make(map[string]int),
		BooksBorrowed: make(map[string]int),
	}
}

// saveSessionLog appends the finished session as a single JSON line to
// sessions.jsonl. Errors are logged but never reach the player.
func saveSessionLog(sl SessionLog, logger *slog.Logger) {
	dir, err := store.DataDir()
	if err != nil {
		logger.Warn("session log: cannot determine data dir", "error", err)
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("session log: cannot create data dir", "error", err)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "sessions.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn("session log: cannot open file", "error", err)
		return
	}
	defer f.Close()
	data, err := json.Marshal(sl)
	if err != nil {
		logger.Warn("session log: cannot marshal JSON", "error", err)
		return
	}
	// One write per line: concurrent server sessions append to the same file.
	if _, err := f.Write(append(data, '\n')); err != nil {
		logger.Warn("session log: cannot write", "error", err)
	}
}
