// Package repository serves read queries over the published leaderboard report.
package repository

import (
	"context"

	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/sor"
	"github.com/okian/sor/internal/domain/types"
)

// Store provides read/write access to the published report.
type Store interface {
	// Publish replaces the served report. Readers see either the old or the new one.
	Publish(ctx context.Context, report *sor.Report) error

	// TopN returns the first n standings of a leaderboard.
	TopN(ctx context.Context, metric model.Metric, n int) ([]types.StandingRow, error)

	// Rank returns one competitor's standing.
	// Returns ErrNotFound if the competitor is unknown.
	Rank(ctx context.Context, metric model.Metric, competitorID string) (types.StandingRow, error)

	// Event returns the ranking of one event. Legacy codes resolve to their slot.
	Event(ctx context.Context, code string, metric model.Metric) ([]types.ResultRow, error)

	// Count returns the number of ranked competitors.
	Count(ctx context.Context) int
}
