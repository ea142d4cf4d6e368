package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"internwatch/internal/config"
	"internwatch/internal/gh"
	"internwatch/internal/run"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Best-effort guard against an overlapping cron invocation. The
	// core itself assumes single-instance scheduling; this just makes a
	// double-fire exit quietly instead of double-sending.
	lp := lockPath(cfg)
	if err := os.MkdirAll(filepath.Dir(lp), 0o755); err != nil {
		log.Fatalf("[lock] %v", err)
	}
	fl := flock.New(lp)
	locked, err := fl.TryLock()
	if err != nil {
		log.Fatalf("[lock] %v", err)
	}
	if !locked {
		log.Printf("[lock] another run is active; exiting")
		return
	}
	defer fl.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src := gh.NewClient(cfg.Repo.Owner, cfg.Repo.Name, cfg.Repo.Token)
	if err := run.Once(ctx, cfg, src, run.NewNotifier(cfg)); err != nil {
		log.Fatalf("[run] %v", err)
	}
}

func lockPath(cfg config.Config) string {
	if cfg.Select.StateFile != "" {
		return cfg.Select.StateFile + ".lock"
	}
	return filepath.Join(os.TempDir(), "internwatch.lock")
}
