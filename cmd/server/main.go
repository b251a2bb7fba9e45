// simlibrary-server serves the library tower over SSH. Every user name gets
// its own tower, saved in a shared SQLite database. Build:
//
//	go build -o simlibrary-server ./cmd/server
//
// Usage:
//
//	./simlibrary-server [--port 2222] [--key server_host_key] [--db towers.db]
//	                    [--watch 127.0.0.1:8080] [--config config.yaml]
//
// Connect with:
//
//	ssh -p 2222 alice@localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"simlibrary/internal/config"
	"simlibrary/internal/game"
	"simlibrary/internal/lobby"
	"simlibrary/internal/sim"
	internalssh "simlibrary/internal/ssh"
	"simlibrary/internal/store"
	"simlibrary/internal/watch"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// maxNameBytes bounds a player name, which doubles as the save key.
const maxNameBytes = 16

// allowedTerms is the set of TERM values the server will hand to terminfo.
// Anything else falls back to xterm-256color.
var allowedTerms = map[string]bool{
	"xterm-256color":        true,
	"xterm":                 true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"screen":                true,
	"screen-256color":       true,
	"rxvt-unicode-256color": true,
}

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	dbPath := flag.String("db", "", "SQLite database holding every tower (default: XDG data dir)")
	watchAddr := flag.String("watch", "", "Serve the spectator websocket on this address (disabled when empty)")
	cfgPath := flag.String("config", "", "YAML config file (default: XDG config path)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	db, err := openDB(*dbPath)
	if err != nil {
		logger.Error("database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	signer, err := loadOrCreateHostKey(*keyFile, logger)
	if err != nil {
		logger.Error("host key", "error", err)
		os.Exit(1)
	}

	srv := &server{
		cfg:    cfg,
		db:     db,
		lobby:  lobby.New(logger),
		hub:    watch.NewHub(logger),
		logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watchAddr != "" {
		web := &http.Server{Addr: *watchAddr, Handler: srv.mux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("spectator endpoint listening", "addr", *watchAddr)
			if err := web.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator endpoint", "error", err)
			}
		}()
		defer web.Close()
	}

	sshSrv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: srv.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication: the user name only picks a tower.
		HostSigners: []gossh.Signer{signer},
	}
	go func() {
		<-ctx.Done()
		srv.hub.Close()
		_ = sshSrv.Close()
	}()

	logger.Info("simlibrary SSH server listening", "port", *port)
	logger.Info(fmt.Sprintf("connect with:  ssh -p %d <name>@localhost", *port))
	if err := sshSrv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		logger.Error("ssh server", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

func openDB(path string) (*sql.DB, error) {
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "towers.db")
	}
	return store.OpenSQLite(path)
}

// ─── sessions ───────────────────────────────────────────────────────────────

type server struct {
	cfg    config.Config
	db     *sql.DB
	lobby  *lobby.Lobby
	hub    *watch.Hub
	logger *slog.Logger
}

// slotKey is the save key of a player's tower.
func slotKey(name string) string { return store.DefaultKey + ":" + name }

// handleSession is the gliderlabs SSH handler for one connection.
// It blocks for the duration of the connection so the SSH session stays open.
func (s *server) handleSession(sess gossh.Session) {
	pty, winCh, hasPTY := sess.Pty()
	if !hasPTY {
		fmt.Fprintln(sess, "This game requires a PTY. Connect with: ssh -t -p 2222 <name>@<host>")
		return
	}

	name := sanitizeName(sess.User())
	if name == "" {
		name = "guest"
	}
	seat, err := s.lobby.Join(name)
	if errors.Is(err, lobby.ErrAlreadyPlaying) {
		fmt.Fprintf(sess, "%s already has a tower open. Close it first, or pick another name.\n", name)
		return
	}
	defer s.lobby.Leave(seat)
	defer s.hub.Forget(name)

	logger := s.logger.With("player", name, "session", seat.ID)
	rng := s.cfg.NewRand()
	engine := sim.New(store.NewSQLiteSlot(s.db, slotKey(name)), sim.WithRand(rng), sim.WithLogger(logger))
	if err := engine.Load(); err != nil {
		logger.Warn("load failed", "error", err)
		fmt.Fprintf(sess, "Could not open your tower: %v\n", err)
		return
	}

	screen, err := newSessionScreen(sess, pty, winCh)
	if err != nil {
		fmt.Fprintf(sess, "Terminal setup failed: %v\n", err)
		return
	}
	defer screen.Fini()

	g := game.New(screen, engine, s.cfg,
		game.WithRand(rng),
		game.WithLogger(logger),
		game.WithPlayer(name),
		game.WithTickHook(func(st sim.State) { s.hub.Publish(name, st) }))
	if err := g.Run(sess.Context()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session ended", "error", err)
	}
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// newSessionScreen creates and initialises a tcell screen over the session.
func newSessionScreen(sess gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) (tcell.Screen, error) {
	term := pty.Term
	for _, env := range sess.Environ() {
		if strings.HasPrefix(env, "TERM=") {
			term = env[5:]
			break
		}
	}
	if !allowedTerms[term] {
		term = "xterm-256color"
	}

	tty := internalssh.NewSessionTty(sess, pty, winCh)
	// TERM must be set in the process environment before NewTerminfoScreenFromTty.
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}

// sanitizeName strips control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == utf8.RuneError || unicode.IsControl(r) {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ─── spectators ─────────────────────────────────────────────────────────────

// mux serves the spectator websocket and a JSON list of who is online.
func (s *server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/watch", s.hub)
	mux.HandleFunc("/towers", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.lobby.Sessions())
	})
	return mux
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer, nil
		}
	}

	logger.Info("generating new ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "simlibrary server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
			logger.Warn("cannot persist host key", "path", path, "error", err)
		}
	}
	return signer, nil
}
