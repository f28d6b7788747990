package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/proplens/scout/internal/scoring"
	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/logger"
)

// RunRetentionJob prunes persisted scoring runs past the retention
// window so the runs table does not grow without bound.
type RunRetentionJob struct {
	runs   *scoring.Repository
	config *config.Config
	logger *logger.Logger
}

// NewRunRetentionJob creates a new retention job
func NewRunRetentionJob(runs *scoring.Repository, cfg *config.Config, log *logger.Logger) *RunRetentionJob {
	return &RunRetentionJob{
		runs:   runs,
		config: cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *RunRetentionJob) Name() string {
	return "run_retention"
}

// Schedule returns the cron schedule (every day at 3 AM)
func (j *RunRetentionJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run executes the retention sweep
func (j *RunRetentionJob) Run(ctx context.Context) error {
	days := j.config.Scheduler.RetentionDays
	if days <= 0 {
		j.logger.Debug("Run retention disabled")
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := j.runs.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete old runs: %w", err)
	}

	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff.Format("2006-01-02"),
		}).Info("Old scoring runs pruned")
	}

	return nil
}
