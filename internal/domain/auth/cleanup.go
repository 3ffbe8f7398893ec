package auth

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type cleanupStore interface {
	PurgeCodes(ctx context.Context, now time.Time) (int64, error)
	DeleteOrphanMembers(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupConfig controls what a cleanup run removes.
type CleanupConfig struct {
	DeleteOrphans bool
	OrphanMinAge  time.Duration // only identities older than this
	Interval      time.Duration // zero disables the background loop
}

// CleanupResult counts the rows removed by one run.
type CleanupResult struct {
	Codes   int64
	Orphans int64
}

// CleanupService purges spent auth codes and, optionally, member identities
// that were left without a profile.
type CleanupService struct {
	store cleanupStore
	log   *zap.Logger
	now   func() time.Time
}

func NewCleanupService(store cleanupStore, log *zap.Logger) *CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupService{store: store, log: log, now: time.Now}
}

func (c *CleanupService) RunOnce(ctx context.Context, cfg CleanupConfig) (CleanupResult, error) {
	var res CleanupResult
	start := c.now()

	codes, err := c.store.PurgeCodes(ctx, start)
	if err != nil {
		return res, err
	}
	res.Codes = codes

	if cfg.DeleteOrphans {
		orphans, err := c.store.DeleteOrphanMembers(ctx, start.Add(-cfg.OrphanMinAge))
		if err != nil {
			return res, err
		}
		res.Orphans = orphans
	}

	c.log.Info("auth_cleanup_completed",
		zap.Int64("auth_codes", res.Codes),
		zap.Int64("orphan_identities", res.Orphans),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

// Run repeats RunOnce every cfg.Interval until ctx is done. Failed runs are
// logged and the loop keeps going.
func (c *CleanupService) Run(ctx context.Context, cfg CleanupConfig) error {
	if cfg.Interval <= 0 {
		c.log.Info("auth_cleanup_disabled")
		return nil
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := c.RunOnce(ctx, cfg); err != nil {
				c.log.Warn("auth_cleanup_failed", zap.Error(err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
