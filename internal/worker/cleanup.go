package worker

import (
	"context"
	"time"

	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/service"
)

// CleanupRunner fires the orphan sweep on a fixed interval. Overlapping or
// repeated sweeps are harmless; the sweep itself is idempotent.
type CleanupRunner struct {
	sweeper service.CleanupService
	cfg     config.CleanupConfig
	log     logger.Logger
}

func NewCleanupRunner(sweeper service.CleanupService, cfg config.CleanupConfig, log logger.Logger) *CleanupRunner {
	return &CleanupRunner{sweeper: sweeper, cfg: cfg, log: log}
}

// Run blocks until ctx is cancelled.
func (r *CleanupRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.log.Infof("cleanup runner started, interval %s, grace window %s", r.cfg.Interval, r.cfg.GraceWindow)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("cleanup runner stopped")
			return
		case <-ticker.C:
			if _, err := r.sweeper.Sweep(ctx); err != nil {
				r.log.Errorf("scheduled cleanup sweep failed: %v", err)
			}
		}
	}
}
