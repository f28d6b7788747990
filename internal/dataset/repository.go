package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proplens/scout/internal/contracts"
)

// Repository loads the validated metrics table from Postgres. The
// ingestion collaborator writes one row per (suburb, state, metric),
// which keeps the schema stable while source workbooks add or drop
// columns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a metrics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.MetricsRepository = (*Repository)(nil)

// LoadRecords returns every suburb with its available metrics.
func (r *Repository) LoadRecords(ctx context.Context) ([]*contracts.SuburbRecord, error) {
	query := `
		SELECT suburb, state, COALESCE(region, ''), metric, value
		FROM market.suburb_metrics
		ORDER BY state, suburb, metric
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suburb metrics: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows.Next, rows.Scan, rows.Err)
}

// LoadRecordsByState restricts the table to one state.
func (r *Repository) LoadRecordsByState(ctx context.Context, state string) ([]*contracts.SuburbRecord, error) {
	query := `
		SELECT suburb, state, COALESCE(region, ''), metric, value
		FROM market.suburb_metrics
		WHERE state = $1
		ORDER BY suburb, metric
	`
	rows, err := r.pool.Query(ctx, query, state)
	if err != nil {
		return nil, fmt.Errorf("failed to query suburb metrics for %s: %w", state, err)
	}
	defer rows.Close()
	return collectRecords(rows.Next, rows.Scan, rows.Err)
}

// LoadTable is a convenience wrapper building a Table directly.
func (r *Repository) LoadTable(ctx context.Context) (*Table, error) {
	records, err := r.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	return New(records), nil
}

// collectRecords folds metric rows into one record per (suburb, state).
// Rows arrive ordered, so a key change means a new suburb.
func collectRecords(next func() bool, scan func(...any) error, rowsErr func() error) ([]*contracts.SuburbRecord, error) {
	var (
		records []*contracts.SuburbRecord
		current *contracts.SuburbRecord
	)
	for next() {
		var suburb, state, region, metric string
		var value float64
		if err := scan(&suburb, &state, &region, &metric, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		if current == nil || current.Suburb != suburb || current.State != state {
			current = contracts.NewSuburbRecord(suburb, state)
			current.Region = region
			records = append(records, current)
		}
		current.SetMetric(metric, value)
	}
	if err := rowsErr(); err != nil {
		return nil, fmt.Errorf("error iterating metric rows: %w", err)
	}
	return records, nil
}
