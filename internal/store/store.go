// Package store provides the persisted key-value slots that hold a tower's
// save payload. A slot holds exactly one opaque byte payload; encoding is the
// caller's concern.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultKey is the slot key a tower is saved under.
const DefaultKey = "simlibrary_save"

// ErrEmpty is returned by Read when nothing has been written to the slot.
var ErrEmpty = errors.New("store: slot is empty")

// Slot is a single persisted cell. Write replaces the whole payload.
type Slot interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Clear() error
}

// Options selects and configures a slot backend.
type Options struct {
	Backend  string // "file", "sqlite" or "memory"
	Path     string // directory (file) or database path (sqlite); empty means the XDG data dir
	Key      string
	Compress bool // file backend only
}

// Open builds the slot described by opts. The returned close func releases
// any backend resources and is never nil.
func Open(opts Options) (Slot, func() error, error) {
	noop := func() error { return nil }
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	switch opts.Backend {
	case "", "file":
		dir := opts.Path
		if dir == "" {
			d, err := DataDir()
			if err != nil {
				return nil, noop, err
			}
			dir = d
		}
		return NewFileSlot(dir, opts.Key, opts.Compress), noop, nil
	case "sqlite":
		path := opts.Path
		if path == "" {
			d, err := DataDir()
			if err != nil {
				return nil, noop, err
			}
			path = filepath.Join(d, "simlibrary.db")
		}
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, noop, err
		}
		return NewSQLiteSlot(db, opts.Key), db.Close, nil
	case "memory":
		return NewMemorySlot(), noop, nil
	default:
		return nil, noop, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}

// DataDir returns the directory where saves are stored.
// Follows XDG Base Directory spec: $XDG_DATA_HOME/simlibrary,
// defaulting to ~/.local/share/simlibrary.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "simlibrary"), nil
}

// MemorySlot keeps the payload in process memory. FailWrites, when set,
// is returned from every Write to simulate an unavailable store.
type MemorySlot struct {
	mu         sync.Mutex
	data       []byte
	FailWrites error
	Writes     int
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.Writes++
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemorySlot) Clear() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
