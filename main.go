// simlibrary is an idle library-tower game for the terminal.
//
// Usage:
//
//	simlibrary [--config config.yaml] [--reset]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"simlibrary/internal/config"
	"simlibrary/internal/game"
	"simlibrary/internal/sim"
	"simlibrary/internal/store"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (default: XDG config path)")
	reset := flag.Bool("reset", false, "Discard the saved tower and start over")
	flag.Parse()

	if err := run(*cfgPath, *reset); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, reset bool) error {
	var (
		cfg config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs go to a file.
	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	slot, closeSlot, err := store.Open(store.Options{
		Backend:  cfg.Storage.Backend,
		Path:     cfg.Storage.Path,
		Compress: cfg.Storage.Compress,
	})
	if err != nil {
		return err
	}
	defer closeSlot()

	rng := cfg.NewRand()
	engine := sim.New(slot, sim.WithRand(rng), sim.WithLogger(logger))
	if reset {
		err = engine.Reset()
	} else {
		err = engine.Load()
	}
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := game.New(screen, engine, cfg, game.WithRand(rng), game.WithLogger(logger))
	if err := g.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openLog opens path for appending, defaulting to simlibrary.log in the
// data dir. Logging is dropped if no file can be opened.
func openLog(path string) (io.Writer, func()) {
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return io.Discard, func() {}
		}
		path = filepath.Join(dir, "simlibrary.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
