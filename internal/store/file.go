package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// FileSlot stores the payload as <dir>/<key>.json, or <key>.json.zst when
// compression is on. Writes go through a temp file and a rename so a crash
// mid-write never leaves a truncated save behind.
type FileSlot struct {
	path     string
	compress bool
}

// NewFileSlot returns a slot for key inside dir. The directory is created
// on first write.
func NewFileSlot(dir, key string, compress bool) *FileSlot {
	name := key + ".json"
	if compress {
		name += ".zst"
	}
	return &FileSlot{path: filepath.Join(dir, name), compress: compress}
}

// Path is the file backing the slot.
func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Read() ([]byte, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	if !s.compress {
		return raw, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("store: decompress %s: %w", s.path, err)
	}
	return out, nil
}

func (s *FileSlot) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if s.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileSlot) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
