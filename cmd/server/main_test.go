package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"simlibrary/internal/lobby"
	"simlibrary/internal/watch"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{"normal short name", "Alice", "Alice"},
		{"exactly 16 bytes", "1234567890123456", "1234567890123456"},
		{"long name truncated", "ThisIsAVeryLongUsername", "ThisIsAVeryLongU"},
		{"control chars stripped", "he\x00ll\x1bo", "hello"},
		{"ansi escape partial", "he\x1b[31mllo", "he[31mllo"},
		{"empty input", "", ""},
		{"pure control chars", "\x00\x01\x02\x1b", ""},
		{"multi-byte runes truncated on a rune boundary", "日本語のテスト名前ですよね東京大阪京都", "日本語のテ"},
		{"emoji truncated on a rune boundary", "🎮Player🎮Name🎮", "🎮Player🎮Na"},
		{"invalid utf-8 dropped", "ab\xffcd", "abcd"},
		{"tabs stripped", "hello\tworld", "helloworld"},
		{"newlines stripped", "hello\nworld", "helloworld"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeName(tc.input)
			if got != tc.expect {
				t.Errorf("sanitizeName(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestAllowedTerms(t *testing.T) {
	cases := []struct {
		term    string
		allowed bool
	}{
		{"xterm-256color", true},
		{"tmux-256color", true},
		{"linux", true},
		{"vt100", true},
		{"screen", true},
		{"rxvt-unicode-256color", true},
		{"evil-term", false},
		{"../../../etc/passwd", false},
		{"", false},
		{"xterm-kitty", false},
	}
	for _, tc := range cases {
		if got := allowedTerms[tc.term]; got != tc.allowed {
			t.Errorf("allowedTerms[%q] = %v, want %v", tc.term, got, tc.allowed)
		}
	}
}

func TestSlotKeyPerPlayer(t *testing.T) {
	if slotKey("alice") == slotKey("bob") {
		t.Error("two players share a save key")
	}
	if got := slotKey("alice"); got != "simlibrary_save:alice" {
		t.Errorf("slotKey = %q", got)
	}
}

func TestTowersListsOnlinePlayers(t *testing.T) {
	logger := quietLogger()
	srv := &server{lobby: lobby.New(logger), hub: watch.NewHub(logger), logger: logger}
	if _, err := srv.lobby.Join("alice"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/towers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var got []lobby.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(got) != 1 || got[0].Name != "alice" {
		t.Errorf("towers = %+v; want alice", got)
	}

	rec = httptest.NewRecorder()
	srv.mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/towers", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d; want 405", rec.Code)
	}
}

func TestHostKeyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	first, err := loadOrCreateHostKey(path, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("key not written: %v", err)
	}
	second, err := loadOrCreateHostKey(path, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.PublicKey().Marshal(), second.PublicKey().Marshal()) {
		t.Error("reloaded key differs from the generated one")
	}
}

func TestHostKeyRegeneratedWhenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadOrCreateHostKey(path, quietLogger()); err != nil {
		t.Fatalf("corrupt key not replaced: %v", err)
	}
}
