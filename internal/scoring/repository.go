package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proplens/scout/internal/contracts"
)

// ErrRunNotFound is returned when a run id has no stored shortlist.
var ErrRunNotFound = errors.New("scoring run not found")

// Repository persists scoring runs and their shortlists. A run is
// written whole inside one transaction so a run id never points at a
// half-written shortlist.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a scoring run repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveShortlist stores one scoring run with its entries. Re-saving the
// same run id replaces the run and its entries.
func (r *Repository) SaveShortlist(ctx context.Context, s *contracts.Shortlist) error {
	filteredJSON, err := json.Marshal(s.Filtered)
	if err != nil {
		return fmt.Errorf("failed to marshal filter counts: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	runQuery := `
		INSERT INTO recommend.scoring_runs (
			run_id, generated_at, purpose,
			growth_weight, yield_weight, risk_weight,
			total_scored, total_shortlisted, filtered
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id) DO UPDATE SET
			generated_at = EXCLUDED.generated_at,
			purpose = EXCLUDED.purpose,
			growth_weight = EXCLUDED.growth_weight,
			yield_weight = EXCLUDED.yield_weight,
			risk_weight = EXCLUDED.risk_weight,
			total_scored = EXCLUDED.total_scored,
			total_shortlisted = EXCLUDED.total_shortlisted,
			filtered = EXCLUDED.filtered
	`

	_, err = tx.Exec(ctx, runQuery,
		s.RunID, s.GeneratedAt, s.Purpose,
		s.Weights.Growth, s.Weights.Yield, s.Weights.Risk,
		s.TotalScored, len(s.Entries), filteredJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save scoring run: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM recommend.shortlist_entries WHERE run_id = $1", s.RunID)
	if err != nil {
		return fmt.Errorf("failed to delete old entries: %w", err)
	}

	entryQuery := `
		INSERT INTO recommend.shortlist_entries (
			run_id, rank, suburb, state,
			growth_score, yield_score, risk_score, overall_score,
			reasons, narratives, confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, entry := range s.Entries {
		_, err := tx.Exec(ctx, entryQuery,
			s.RunID, entry.Rank, entry.Suburb, entry.State,
			entry.GrowthScore, entry.YieldScore, entry.RiskScore, entry.OverallScore,
			entry.Reasons, entry.Narratives, entry.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shortlist entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetShortlist loads one run with its entries, ordered by rank.
func (r *Repository) GetShortlist(ctx context.Context, runID string) (*contracts.Shortlist, error) {
	runQuery := `
		SELECT generated_at, purpose,
			growth_weight, yield_weight, risk_weight,
			total_scored, filtered
		FROM recommend.scoring_runs
		WHERE run_id = $1
	`

	s := &contracts.Shortlist{RunID: runID}
	var filteredJSON []byte

	err := r.pool.QueryRow(ctx, runQuery, runID).Scan(
		&s.GeneratedAt, &s.Purpose,
		&s.Weights.Growth, &s.Weights.Yield, &s.Weights.Risk,
		&s.TotalScored, &filteredJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scoring run: %w", err)
	}

	if len(filteredJSON) > 0 {
		if err := json.Unmarshal(filteredJSON, &s.Filtered); err != nil {
			return nil, fmt.Errorf("failed to unmarshal filter counts: %w", err)
		}
	}

	entryQuery := `
		SELECT rank, suburb, state,
			growth_score, yield_score, risk_score, overall_score,
			reasons, narratives, confidence
		FROM recommend.shortlist_entries
		WHERE run_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.pool.Query(ctx, entryQuery, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shortlist entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry contracts.ScoredSuburb
		err := rows.Scan(
			&entry.Rank, &entry.Suburb, &entry.State,
			&entry.GrowthScore, &entry.YieldScore, &entry.RiskScore, &entry.OverallScore,
			&entry.Reasons, &entry.Narratives, &entry.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		s.Entries = append(s.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return s, nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID            string    `json:"run_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	Purpose          string    `json:"purpose"`
	TotalScored      int       `json:"total_scored"`
	TotalShortlisted int       `json:"total_shortlisted"`
}

// ListRuns returns the most recent scoring runs, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, generated_at, purpose, total_scored, total_shortlisted
		FROM recommend.scoring_runs
		ORDER BY generated_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.RunID, &run.GeneratedAt, &run.Purpose, &run.TotalScored, &run.TotalShortlisted); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// DeleteRunsBefore removes scoring runs generated before the cutoff,
// entries included. Returns the number of runs removed.
func (r *Repository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM recommend.shortlist_entries
		WHERE run_id IN (
			SELECT run_id FROM recommend.scoring_runs WHERE generated_at < $1
		)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shortlist entries: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM recommend.scoring_runs WHERE generated_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete scoring runs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tag.RowsAffected(), nil
}
