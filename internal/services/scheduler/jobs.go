package scheduler

import (
	"context"
	"fmt"

	"github.com/kforero17/aicommissioner/internal/common"
	"github.com/kforero17/aicommissioner/internal/interfaces"
)

// Names of the built-in recurring jobs. Handlers use these to trigger
// manual runs through the scheduler API.
const (
	JobPowerRankings     = "power_rankings"
	JobWaiverRecap       = "waiver_recap"
	JobLeagueSync        = "league_sync"
	JobLeagueSyncGameDay = "league_sync_gameday"
	JobCleanup           = "cleanup"
	JobHealthCheck       = "health_check"
)

// RegisterDefaultJobs registers the built-in recurring jobs with the cron
// expressions from config. Must be called before Start.
func RegisterDefaultJobs(
	sched interfaces.SchedulerService,
	cfg *common.Config,
	recapService interfaces.RecapService,
	syncService interfaces.SyncService,
	maintenanceService interfaces.MaintenanceService,
) error {
	defaults := []struct {
		name        string
		schedule    string
		description string
		handler     func() error
	}{
		{
			name:        JobPowerRankings,
			schedule:    cfg.Scheduler.PowerRankingsCron,
			description: "Weekly power rankings recap for all enabled leagues",
			handler: func() error {
				return recapService.RunScheduledPowerRankings(context.Background())
			},
		},
		{
			name:        JobWaiverRecap,
			schedule:    cfg.Scheduler.WaiverRecapCron,
			description: "Weekly waiver activity recap for all enabled leagues",
			handler: func() error {
				return recapService.RunScheduledWaiverRecaps(context.Background())
			},
		},
		{
			name:        JobLeagueSync,
			schedule:    cfg.Scheduler.LeagueSyncCron,
			description: "Twice-daily data refresh for in-season leagues",
			handler: func() error {
				return syncService.SyncAllLeagues(context.Background())
			},
		},
		{
			name:        JobLeagueSyncGameDay,
			schedule:    cfg.Scheduler.LeagueSyncGameDayCron,
			description: "Frequent data refresh while games are being played",
			handler: func() error {
				return syncService.SyncAllLeagues(context.Background())
			},
		},
		{
			name:        JobCleanup,
			schedule:    cfg.Scheduler.CleanupCron,
			description: "Deletes weekly data past the retention window",
			handler: func() error {
				stats, err := maintenanceService.Cleanup(context.Background())
				if err != nil {
					return err
				}
				if len(stats.Errors) > 0 {
					return fmt.Errorf("cleanup finished with %d errors", len(stats.Errors))
				}
				return nil
			},
		},
		{
			name:        JobHealthCheck,
			schedule:    cfg.Scheduler.HealthCheckCron,
			description: "Storage connectivity check",
			handler: func() error {
				return maintenanceService.HealthCheck(context.Background())
			},
		},
	}

	for _, job := range defaults {
		if err := sched.RegisterJob(job.name, job.schedule, job.description, job.handler); err != nil {
			return fmt.Errorf("failed to register job %s: %w", job.name, err)
		}
	}

	return nil
}
