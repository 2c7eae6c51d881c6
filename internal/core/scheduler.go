package core

// scheduler.go runs the background sweep that ends idle sessions.
//
// The sweeper is long-running and stops when its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper removes idle sessions every interval until ctx is cancelled.
// Call it in its own goroutine.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("session sweeper started",
		"interval", interval,
		"idle_timeout", m.cfg.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := m.Sweep(ctx); n > 0 {
				slog.Info("expired idle sessions", "count", n, "live", m.Len())
			}
		}
	}
}
