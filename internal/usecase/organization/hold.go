package organization

import (
	"context"
	"sync/atomic"
	"time"

	domain "compliance-portal/internal/domain/organization"
	"compliance-portal/internal/infrastructure/logging"

	"go.uber.org/zap"
)

const DefaultHoldPollInterval = 30 * time.Second

// HoldWatcher keeps a periodically refreshed snapshot of which organizations
// are on hold. Readers may see a value up to one interval old.
type HoldWatcher struct {
	repo     domain.Repository
	interval time.Duration
	log      *zap.Logger
	snap     atomic.Pointer[map[domain.Code]bool]
}

func NewHoldWatcher(repo domain.Repository, interval time.Duration, log *zap.Logger) *HoldWatcher {
	if interval <= 0 {
		interval = DefaultHoldPollInterval
	}
	w := &HoldWatcher{repo: repo, interval: interval, log: logging.OrNop(log)}
	empty := map[domain.Code]bool{}
	w.snap.Store(&empty)
	return w
}

// Refresh replaces the snapshot. On error the previous snapshot is kept.
func (w *HoldWatcher) Refresh(ctx context.Context) error {
	orgs, err := w.repo.List(ctx)
	if err != nil {
		return err
	}
	next := make(map[domain.Code]bool, len(orgs))
	for _, o := range orgs {
		if o.OnHold {
			next[o.Code] = true
		}
	}
	w.snap.Store(&next)
	return nil
}

// Run refreshes immediately and then every interval until ctx ends.
func (w *HoldWatcher) Run(ctx context.Context) error {
	if err := w.Refresh(ctx); err != nil {
		w.log.Warn("hold refresh failed", zap.Error(err))
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				w.log.Warn("hold refresh failed", zap.Error(err))
			}
		}
	}
}

func (w *HoldWatcher) OnHold(code domain.Code) bool {
	return (*w.snap.Load())[code]
}
