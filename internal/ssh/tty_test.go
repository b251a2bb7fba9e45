package ssh

import (
	"bytes"
	"testing"
	"time"

	gossh "github.com/gliderlabs/ssh"
)

type fakeChannel struct {
	bytes.Buffer
	closed bool
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestWindowSizeFollowsResizes(t *testing.T) {
	winCh := make(chan gossh.Window)
	tty := newTty(&fakeChannel{}, gossh.Window{Width: 80, Height: 24}, winCh)
	if ws, _ := tty.WindowSize(); ws.Width != 80 || ws.Height != 24 {
		t.Errorf("initial size = %dx%d; want 80x24", ws.Width, ws.Height)
	}

	resized := make(chan struct{}, 1)
	_ = tty.Start()
	tty.NotifyResize(func() { resized <- struct{}{} })
	winCh <- gossh.Window{Width: 120, Height: 40}

	select {
	case <-resized:
	case <-time.After(2 * time.Second):
		t.Fatal("resize callback not called")
	}
	if ws, _ := tty.WindowSize(); ws.Width != 120 || ws.Height != 40 {
		t.Errorf("size after resize = %dx%d; want 120x40", ws.Width, ws.Height)
	}
	close(winCh)
}

func TestStoppedTtySkipsCallback(t *testing.T) {
	winCh := make(chan gossh.Window)
	tty := newTty(&fakeChannel{}, gossh.Window{Width: 80, Height: 24}, winCh)
	calls := 0
	tty.NotifyResize(func() { calls++ })

	// Unbuffered sends return once the watcher has received; the second
	// send also proves the first was fully handled.
	winCh <- gossh.Window{Width: 100, Height: 30}
	winCh <- gossh.Window{Width: 101, Height: 31}
	close(winCh)

	if ws, _ := tty.WindowSize(); ws.Width < 100 {
		t.Errorf("size not tracked while stopped: %dx%d", ws.Width, ws.Height)
	}
	tty.mu.Lock()
	defer tty.mu.Unlock()
	if calls != 0 {
		t.Errorf("callback called %d times while stopped", calls)
	}
}

func TestReadWriteClose(t *testing.T) {
	ch := &fakeChannel{}
	tty := newTty(ch, gossh.Window{}, nil)
	if _, err := tty.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if n, _ := tty.Read(buf); n != 2 || string(buf) != "hi" {
		t.Errorf("read %q; want hi", buf[:n])
	}
	_ = tty.Close()
	if !ch.closed {
		t.Error("Close did not close the channel")
	}
}
