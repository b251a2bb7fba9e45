package game

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSaveSessionLog(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	sl := newSessionLog("alice", time.Unix(1700000000, 0))
	sl.Ticks = 12
	sl.StarsEarned = 30
	sl.DecorPlaced["lamp"] = 2
	saveSessionLog(sl, slog.Default())

	logPath := filepath.Join(tmp, "simlibrary", "sessions.jsonl")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("sessions.jsonl not created: %v", err)
	}
	content := string(data)
	if !strings.HasSuffix(content, "\n") {
		t.Errorf("log entry should end with newline; got: %q", content)
	}

	var got SessionLog
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &got); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if got.Player != "alice" || got.Ticks != 12 || got.StarsEarned != 30 {
		t.Errorf("decoded = %+v; want player alice, 12 ticks, 30 stars", got)
	}
	if got.DecorPlaced["lamp"] != 2 {
		t.Errorf("decor_placed[lamp] = %d; want 2", got.DecorPlaced["lamp"])
	}
}

func TestSaveSessionLogAppendsMultiple(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	for i := range 3 {
		sl := newSessionLog("bob", time.Now())
		sl.FloorsBuilt = i
		saveSessionLog(sl, slog.Default())
	}

	data, err := os.ReadFile(filepath.Join(tmp, "simlibrary", "sessions.jsonl"))
	if err != nil {
		t.Fatalf("sessions.jsonl not found: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 log lines, got %d", len(lines))
	}
}

func TestSaveSessionLogConcurrentLinesStayWhole(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sl := newSessionLog(strings.Repeat("p", i+1), time.Now())
			for j := range 50 {
				sl.DecorPlaced[strings.Repeat("d", j+1)] = j
			}
			saveSessionLog(sl, slog.Default())
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(tmp, "simlibrary", "sessions.jsonl"))
	if err != nil {
		t.Fatalf("sessions.jsonl not found: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("got %d lines; want %d", len(lines), n)
	}
	for i, line := range lines {
		var sl SessionLog
		if err := json.Unmarshal([]byte(line), &sl); err != nil {
			t.Errorf("line %d is not JSON: %v", i, err)
		}
	}
}

func TestSaveSessionLogUnwritableDir(t *testing.T) {
	tmp := t.TempDir()
	// A regular file where the data dir should be makes MkdirAll fail.
	blocker := filepath.Join(tmp, "simlibrary")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_DATA_HOME", tmp)

	saveSessionLog(newSessionLog("", time.Now()), slog.Default()) // must not panic
}
