package jobs

import (
	"context"
	"fmt"

	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/internal/scoring"
	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/logger"
)

// RescoreJob retrains the models and persists a fresh shortlist for
// the configured default profile, keeping stored runs current as the
// suburb metrics change underneath them.
type RescoreJob struct {
	metrics *dataset.Repository
	runs    *scoring.Repository
	config  *config.Config
	logger  *logger.Logger
}

// NewRescoreJob creates a new rescore job
func NewRescoreJob(metrics *dataset.Repository, runs *scoring.Repository, cfg *config.Config, log *logger.Logger) *RescoreJob {
	return &RescoreJob{
		metrics: metrics,
		runs:    runs,
		config:  cfg,
		logger:  log,
	}
}

// Name returns the job name
func (j *RescoreJob) Name() string {
	return "daily_rescore"
}

// Schedule returns the configured cron expression
func (j *RescoreJob) Schedule() string {
	return j.config.Scheduler.RescoreCron
}

// Run executes one scoring pass end to end
func (j *RescoreJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled rescore")

	p, err := profileOrDefault(j.config.Scheduler.ProfilePath, j.logger)
	if err != nil {
		return fmt.Errorf("load rescore profile: %w", err)
	}

	table, err := j.metrics.LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("load metrics table: %w", err)
	}

	engine := scoring.NewEngine(scoring.DefaultConfig(), j.logger)

	report, err := engine.Train(ctx, table, p)
	if err != nil {
		return fmt.Errorf("train models: %w", err)
	}

	shortlist, err := engine.Shortlist(ctx, table, p, j.config.Engine.TopN)
	if err != nil {
		return fmt.Errorf("build shortlist: %w", err)
	}

	if err := j.runs.SaveShortlist(ctx, shortlist); err != nil {
		return fmt.Errorf("persist scoring run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  shortlist.RunID,
		"trained": report.Trained,
		"entries": len(shortlist.Entries),
	}).Info("Scheduled rescore completed")

	return nil
}

// profileOrDefault loads the configured profile, or falls back to an
// all-defaults profile when no path is set.
func profileOrDefault(path string, log *logger.Logger) (*profile.CustomerProfile, error) {
	if path == "" {
		log.Debug("No rescore profile configured, using defaults")
		return &profile.CustomerProfile{}, nil
	}
	return profile.Load(path)
}
