package services

import (
	"context"
	"sync"
	"time"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
)

// SessionCleanupWorker logs session stats hourly and purges expired or
// revoked rows daily. Purging is bookkeeping only; validation never trusts
// a row just because the purge has not run yet.
type SessionCleanupWorker struct {
	log           *logger.Logger
	repo          repos.SessionRepo
	statsInterval time.Duration
	purgeInterval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionCleanupWorker(repo repos.SessionRepo, baseLog *logger.Logger) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		log:           baseLog.With("worker", "SessionCleanup"),
		repo:          repo,
		statsInterval: time.Hour,
		purgeInterval: 24 * time.Hour,
	}
}

func (w *SessionCleanupWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
	w.log.Info("Session cleanup worker started",
		"stats_interval", w.statsInterval, "purge_interval", w.purgeInterval)
}

func (w *SessionCleanupWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.log.Info("Session cleanup worker stopped")
}

func (w *SessionCleanupWorker) run(ctx context.Context) {
	defer w.wg.Done()

	statsTicker := time.NewTicker(w.statsInterval)
	purgeTicker := time.NewTicker(w.purgeInterval)
	defer statsTicker.Stop()
	defer purgeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-statsTicker.C:
			w.logStats(ctx)
		case <-purgeTicker.C:
			w.purge(ctx)
		}
	}
}

func (w *SessionCleanupWorker) logStats(ctx context.Context) {
	stats, err := w.repo.Stats(ctx, nil)
	if err != nil {
		w.log.Error("Failed to collect session stats", "error", err)
		return
	}
	w.log.Info("Session stats",
		"total", stats.Total, "active", stats.Active, "expired", stats.Expired)
}

func (w *SessionCleanupWorker) purge(ctx context.Context) {
	deleted, err := w.repo.DeleteExpired(ctx, nil)
	if err != nil {
		w.log.Error("Failed to purge expired sessions", "error", err)
		return
	}
	w.log.Info("Expired sessions purged", "deleted", deleted)
}
