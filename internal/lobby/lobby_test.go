package lobby

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
)

func newTestLobby() *Lobby {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestJoinAndLeave(t *testing.T) {
	l := newTestLobby()
	s, err := l.Join("alice")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if s.Name != "alice" || s.ID != 1 {
		t.Errorf("session = %+v; want alice #1", s)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d; want 1", l.Len())
	}
	l.Leave(s)
	if l.Len() != 0 {
		t.Errorf("Len after Leave = %d; want 0", l.Len())
	}
}

func TestDuplicateNameRefused(t *testing.T) {
	l := newTestLobby()
	if _, err := l.Join("alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Join("alice"); !errors.Is(err, ErrAlreadyPlaying) {
		t.Errorf("second Join = %v; want ErrAlreadyPlaying", err)
	}
	if _, err := l.Join("bob"); err != nil {
		t.Errorf("other name refused: %v", err)
	}
}

func TestRejoinAfterLeave(t *testing.T) {
	l := newTestLobby()
	first, _ := l.Join("alice")
	l.Leave(first)
	second, err := l.Join("alice")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("rejoin reused session id %d", first.ID)
	}
}

func TestStaleLeaveIgnored(t *testing.T) {
	l := newTestLobby()
	first, _ := l.Join("alice")
	l.Leave(first)
	second, _ := l.Join("alice")

	l.Leave(first) // late cleanup of the old connection
	got := l.Sessions()
	if len(got) != 1 || got[0].ID != second.ID {
		t.Errorf("sessions = %+v; want only %+v", got, second)
	}
}

func TestSessionsInJoinOrder(t *testing.T) {
	l := newTestLobby()
	for _, name := range []string{"carol", "alice", "bob"} {
		if _, err := l.Join(name); err != nil {
			t.Fatal(err)
		}
	}
	got := l.Sessions()
	want := []string{"carol", "alice", "bob"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("Sessions()[%d] = %q; want %q", i, got[i].Name, want[i])
		}
	}
}

func TestConcurrentJoins(t *testing.T) {
	l := newTestLobby()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Join("same"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Join(fmt.Sprintf("p%d", i))
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("%d sessions won the same name; want 1", wins)
	}
	if l.Len() != 11 {
		t.Errorf("Len = %d; want 11", l.Len())
	}
}
