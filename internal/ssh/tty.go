// Package ssh adapts an SSH session channel to the tcell.Tty interface so a
// tcell screen can be driven over the network.
package ssh

import (
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// SessionTty implements tcell.Tty backed by one SSH session. Resizes
// arrive on the window channel and are forwarded to tcell while the tty
// is started.
type SessionTty struct {
	ch    io.ReadWriteCloser
	winCh <-chan gossh.Window

	mu      sync.Mutex
	window  gossh.Window
	cb      func()
	started bool
	watch   sync.Once
}

// NewSessionTty wraps a gliderlabs SSH session. pty holds the initial
// window size; winCh delivers later resizes.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return newTty(s, pty.Window, winCh)
}

func newTty(ch io.ReadWriteCloser, win gossh.Window, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{ch: ch, window: win, winCh: winCh}
}

func (t *SessionTty) Read(b []byte) (int, error)  { return t.ch.Read(b) }
func (t *SessionTty) Write(b []byte) (int, error) { return t.ch.Write(b) }
func (t *SessionTty) Close() error                { return t.ch.Close() }

// Start marks the tty live; tcell calls it from Init and Resume.
func (t *SessionTty) Start() error {
	t.mu.Lock()
	t.started = true
	t.mu.Unlock()
	return nil
}

// Stop silences resize callbacks until the next Start. The channel itself
// stays open; the SSH handler owns its lifetime.
func (t *SessionTty) Stop() error {
	t.mu.Lock()
	t.started = false
	t.mu.Unlock()
	return nil
}

// Drain is a no-op: writes go straight to the channel.
func (t *SessionTty) Drain() error { return nil }

func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers the resize callback. The window channel is
// watched by a single goroutine that ends when the channel closes.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()
	t.watch.Do(func() { go t.watchWindow() })
}

func (t *SessionTty) watchWindow() {
	for win := range t.winCh {
		t.mu.Lock()
		t.window = win
		cb, live := t.cb, t.started
		t.mu.Unlock()
		if cb != nil && live {
			cb()
		}
	}
}
