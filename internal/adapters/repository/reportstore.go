package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/sor"
	"github.com/okian/sor/internal/domain/types"
	"github.com/okian/sor/pkg/metrics"
)

// Snapshot is an immutable, query-ready copy of a report.
type Snapshot struct {
	PublishedAt time.Time
	Competitors int

	// Per metric, ordered by rank.
	Standings [len(model.Metrics)][]types.StandingRow
	// Position in Standings by competitor id.
	IndexByCompetitor [len(model.Metrics)]map[string]int
	// Per metric and event slot.
	Events [len(model.Metrics)][event.Count][]types.ResultRow
}

// ReportStore is an in-memory Store. Publish swaps snapshots atomically, so
// reads never block.
type ReportStore struct {
	now      func() time.Time
	snapshot atomic.Pointer[Snapshot]
}

// NewReportStore constructs an empty store.
func NewReportStore(opts ...Option) *ReportStore {
	s := &ReportStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the published snapshot, or nil before the first Publish.
func (s *ReportStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Publish implements Store.Publish.
func (s *ReportStore) Publish(ctx context.Context, report *sor.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := &Snapshot{
		PublishedAt: s.now(),
		Competitors: len(report.Single.Standings),
	}
	for _, m := range model.Metrics {
		board := report.Board(m)
		rows := make([]types.StandingRow, len(board.Standings))
		index := make(map[string]int, len(board.Standings))
		for i, st := range board.Standings {
			rows[i] = standingRow(st)
			index[st.Competitor.ID()] = i
		}
		snap.Standings[m] = rows
		snap.IndexByCompetitor[m] = index

		for idx, er := range board.Events {
			snap.Events[m][idx] = resultRows(er)
		}
	}

	s.snapshot.Store(snap)
	metrics.UpdateStoreStandings(snap.Competitors)
	return nil
}

// TopN implements Store.TopN.
func (s *ReportStore) TopN(_ context.Context, metric model.Metric, n int) ([]types.StandingRow, error) {
	defer observe(time.Now())

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_ready")
		return nil, ErrNotReady
	}
	rows := snap.Standings[metric]
	return rows[:min(n, len(rows))], nil
}

// Rank implements Store.Rank.
func (s *ReportStore) Rank(_ context.Context, metric model.Metric, competitorID string) (types.StandingRow, error) {
	defer observe(time.Now())

	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_ready")
		return types.StandingRow{}, ErrNotReady
	}
	i, ok := snap.IndexByCompetitor[metric][competitorID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.StandingRow{}, ErrNotFound
	}
	return snap.Standings[metric][i], nil
}

// Event implements Store.Event. The multi-attempt average is not ranked and
// yields no rows.
func (s *ReportStore) Event(_ context.Context, code string, metric model.Metric) ([]types.ResultRow, error) {
	defer observe(time.Now())

	idx, ok := event.Lookup(code)
	if !ok {
		metrics.RecordErrorByComponent("repository", "unknown_event")
		return nil, ErrUnknownEvent
	}
	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_ready")
		return nil, ErrNotReady
	}
	return snap.Events[metric][idx], nil
}

// Count implements Store.Count.
func (s *ReportStore) Count(_ context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return snap.Competitors
}

func observe(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

func standingRow(st sor.Standing) types.StandingRow {
	cells := make([]types.Cell, event.Count)
	for i, c := range st.Cells {
		cells[i] = types.Cell{
			Event:   event.Get(event.Index(i)).Code,
			Rank:    c.Value(),
			Default: c.Kind == sor.Default,
			Blank:   c.Kind == sor.Blank,
		}
	}
	return types.StandingRow{
		Rank:           st.Rank,
		CompetitorID:   st.Competitor.ID(),
		CompetitorName: st.Competitor.Name(),
		Total:          st.Total,
		Cells:          cells,
	}
}

func resultRows(er sor.EventRanking) []types.ResultRow {
	rows := make([]types.ResultRow, len(er.Rows))
	for i, r := range er.Rows {
		rows[i] = types.ResultRow{
			Rank:           r.Rank,
			CompetitorID:   r.Owner.ID(),
			CompetitorName: r.Owner.Name(),
			Score:          r.Score.String(),
			Default:        r.Default,
		}
	}
	return rows
}
