package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/clientdata"
	"github.com/aristath/stockdash/internal/config"
	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/session"
)

// Housekeeping schedules (cron with seconds)
const (
	clientDataCleanupSchedule = "0 */10 * * * *" // Every 10 minutes
	sessionSweepSchedule      = "30 */5 * * * *" // Every 5 minutes
	archiveRotationSchedule   = "0 0 3 * * *"    // Daily at 03:00
)

// RegisterJobs creates the housekeeping jobs and registers them with the scheduler.
// No job ever fetches market data.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	instances := &JobInstances{
		ClientDataCleanup: clientdata.NewCleanupJob(container.ClientDataRepo, log),
		SessionSweep:      session.NewSweepJob(container.SessionStore, log),
	}

	if err := container.Scheduler.AddJob(clientDataCleanupSchedule, instances.ClientDataCleanup); err != nil {
		return nil, fmt.Errorf("failed to register client data cleanup job: %w", err)
	}
	if err := container.Scheduler.AddJob(sessionSweepSchedule, instances.SessionSweep); err != nil {
		return nil, fmt.Errorf("failed to register session sweep job: %w", err)
	}

	if container.Archiver != nil && cfg.Export.Retention > 0 {
		instances.ArchiveRotation = export.NewRotationJob(container.Archiver, cfg.Export.Retention)
		if err := container.Scheduler.AddJob(archiveRotationSchedule, instances.ArchiveRotation); err != nil {
			return nil, fmt.Errorf("failed to register archive rotation job: %w", err)
		}
	}

	log.Info().Int("jobs", len(container.Scheduler.Jobs())).Msg("Jobs registered")

	return instances, nil
}
