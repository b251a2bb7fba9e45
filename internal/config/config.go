// Package config loads the game's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxFloorsLimit is the tallest tower the 800px scene can draw with a build
// slot on top.
const MaxFloorsLimit = 6

type Config struct {
	TickInterval  time.Duration `yaml:"tick_interval"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	MaxFloors     int           `yaml:"max_floors"`
	BuildDuration time.Duration `yaml:"build_duration"`
	Seed          int64         `yaml:"seed"` // 0 = seed from the clock
	LogFile       string        `yaml:"log_file"`

	Storage  Storage  `yaml:"storage"`
	Visitors Visitors `yaml:"visitors"`
	Books    Books    `yaml:"books"`
}

type Storage struct {
	Backend  string `yaml:"backend"` // file | sqlite | memory
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
}

type Visitors struct {
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	WaitTime      time.Duration `yaml:"wait_time"`
	MaxPerFloor   int           `yaml:"max_per_floor"`
	MinDwell      time.Duration `yaml:"min_dwell"`
	MaxDwell      time.Duration `yaml:"max_dwell"`
}

type Books struct {
	MaxStock        int           `yaml:"max_stock"`
	RestockDuration time.Duration `yaml:"restock_duration"`
}

// NewRand returns a generator seeded from Seed, or from the clock when Seed
// is zero.
func (c Config) NewRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		TickInterval:  5 * time.Second,
		FrameInterval: 33 * time.Millisecond,
		MaxFloors:     5,
		BuildDuration: 10 * time.Second,
		Storage:       Storage{Backend: "file"},
		Visitors: Visitors{
			SpawnInterval: 3 * time.Second,
			WaitTime:      time.Second,
			MaxPerFloor:   4,
			MinDwell:      20 * time.Second,
			MaxDwell:      40 * time.Second,
		},
		Books: Books{
			MaxStock:        20,
			RestockDuration: 15 * time.Second,
		},
	}
}

// Load reads path over the defaults. Fields absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// LoadDefault loads the file at the XDG config path if it exists, and
// falls back to Default otherwise.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Path returns $XDG_CONFIG_HOME/simlibrary/config.yaml, defaulting to
// ~/.config/simlibrary/config.yaml.
func Path() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "simlibrary", "config.yaml"), nil
}

// Validate rejects values the game loop cannot run with.
func (c Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return errors.New("tick_interval must be positive")
	case c.FrameInterval <= 0:
		return errors.New("frame_interval must be positive")
	case c.MaxFloors < 1 || c.MaxFloors > MaxFloorsLimit:
		return fmt.Errorf("max_floors must be between 1 and %d", MaxFloorsLimit)
	case c.BuildDuration < 0:
		return errors.New("build_duration must not be negative")
	case c.Visitors.SpawnInterval <= 0:
		return errors.New("visitors.spawn_interval must be positive")
	case c.Visitors.MaxPerFloor < 0:
		return errors.New("visitors.max_per_floor must not be negative")
	case c.Visitors.MaxDwell < c.Visitors.MinDwell:
		return errors.New("visitors.max_dwell must be at least min_dwell")
	case c.Books.MaxStock < 1:
		return errors.New("books.max_stock must be positive")
	}
	switch c.Storage.Backend {
	case "", "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend %q is not one of file, sqlite, memory", c.Storage.Backend)
	}
	return nil
}
