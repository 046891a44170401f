package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/creatorhubapp/creatorhub-server/internal/logger"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
)

// SyncJob runs the periodic mirror-to-store reconciliation. On shutdown it
// cancels the loop and pushes one final sync so mirror-only changes are not
// lost.
type SyncJob struct {
	sync   *service.SyncManager
	log    *logger.Logger
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SyncJob) Shutdown() error {
	j.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := j.sync.SyncAll(ctx); err != nil {
		j.log.Warn("Final sync on shutdown failed", "error", err)
	}
	return nil
}

// ProvideSyncJob provides the background sync loop.
func ProvideSyncJob(i do.Injector) (*SyncJob, error) {
	syncManager := do.MustInvoke[*service.SyncManager](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	go syncManager.Start(ctx)

	log.Info("Sync job started")

	return &SyncJob{sync: syncManager, log: log, cancel: cancel}, nil
}

// SweepJob runs the periodic expired-session sweep.
type SweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSweepJob provides the background session sweeper.
func ProvideSweepJob(i do.Injector) (*SweepJob, error) {
	userManager := do.MustInvoke[*service.UserManager](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	go userManager.StartSweeper(ctx)

	log.Info("Session sweep job started")

	return &SweepJob{cancel: cancel}, nil
}
