package contracts

import (
	"context"
)

// Repository interfaces are defined here and nowhere else; the pgx
// implementations live next to the stages that own them.

// MetricsRepository loads the validated suburb metrics table written by
// the ingestion collaborator.
type MetricsRepository interface {
	// LoadRecords returns every suburb with its available metrics.
	// Suburbs missing some columns are returned with partial maps.
	LoadRecords(ctx context.Context) ([]*SuburbRecord, error)
	// LoadRecordsByState restricts the table to one state.
	LoadRecordsByState(ctx context.Context, state string) ([]*SuburbRecord, error)
}
