package scheduler

import (
	"context"
	"time"
)

// Job is one scheduled unit of work. Jobs own their cron expression so
// registration stays a one-liner in main.
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field included.
	// Example: "0 0 5 * * *" (every day at 5 AM)
	Schedule() string
}

// JobResult records one execution, retries folded in
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// historyLimit caps the in-memory results per job. At one rescore a
// day this covers over a month of runs.
const historyLimit = 50

// JobHistory keeps the recent executions of one job in memory
type JobHistory struct {
	Results []JobResult
}

// Add appends a result, dropping the oldest beyond the limit
func (h *JobHistory) Add(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// Last returns the most recent result, or nil before the first run
func (h *JobHistory) Last() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	return &h.Results[len(h.Results)-1]
}

// SuccessRate returns the fraction of successful runs (0.0 - 1.0)
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	success := 0
	for _, r := range h.Results {
		if r.Success {
			success++
		}
	}

	return float64(success) / float64(len(h.Results))
}
