// Package sor folds per-event rankings into sum-of-ranks leaderboards.
package sor

import (
	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/profile"
	"github.com/okian/sor/internal/domain/ranking"
	"github.com/okian/sor/internal/domain/result"
)

// CellKind tells how an event column contributes to a total.
type CellKind uint8

const (
	// Blank cells belong to events that are not ranked for the metric. They count 0.
	Blank CellKind = iota
	// Normal cells hold the rank of a valid result.
	Normal
	// Default cells hold the shared last place of a competitor without a valid result.
	Default
)

func (k CellKind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Normal:
		return "normal"
	case Default:
		return "default"
	}
	return "unknown"
}

// Cell is one event column of a standing.
type Cell struct {
	Kind CellKind
	Rank int
}

// Value is the amount the cell adds to a total.
func (c Cell) Value() int {
	if c.Kind == Blank {
		return 0
	}
	return c.Rank
}

// Standing is one competitor's row on a leaderboard.
type Standing struct {
	Competitor *profile.Profile
	Cells      [event.Count]Cell
	Total      int
	Rank       int
}

// EventRanking is the ranking of one event for one metric.
type EventRanking struct {
	Event  event.Descriptor
	Metric model.Metric
	Rows   []ranking.Row[*profile.Profile, result.Value]
	// Blank is set for events not ranked under Metric. Rows is empty then.
	Blank bool
}

// Board is a complete leaderboard for one metric.
type Board struct {
	Metric    model.Metric
	Standings []Standing
	Events    [event.Count]EventRanking
}

// Report holds both leaderboards.
type Report struct {
	Single  Board
	Average Board
}

// Board returns the leaderboard for metric.
func (r *Report) Board(metric model.Metric) *Board {
	if metric == model.Average {
		return &r.Average
	}
	return &r.Single
}

// Ranked reports whether idx contributes to the metric's totals.
// The multi-attempt event has no average.
func Ranked(idx event.Index, metric model.Metric) bool {
	return !(metric == model.Average && idx == event.MultiBlind)
}

// Compute ranks every event for both metrics and sums each competitor's ranks.
// Standings come out ordered by total; ties keep the order of profiles.
func Compute(profiles []*profile.Profile) Report {
	return Report{
		Single:  computeBoard(profiles, model.Single),
		Average: computeBoard(profiles, model.Average),
	}
}

func computeBoard(profiles []*profile.Profile, metric model.Metric) Board {
	board := Board{Metric: metric}
	cells := make([][event.Count]Cell, len(profiles))

	for _, d := range event.All() {
		er := EventRanking{Event: d, Metric: metric}
		if !Ranked(d.Index, metric) {
			er.Blank = true
			board.Events[d.Index] = er
			continue
		}

		entries := make([]ranking.Entry[int, result.Value], len(profiles))
		for i, p := range profiles {
			entries[i] = ranking.Entry[int, result.Value]{Owner: i, Score: p.Best(d.Index, metric)}
		}
		ranked := ranking.Rank(entries)

		er.Rows = make([]ranking.Row[*profile.Profile, result.Value], len(ranked))
		for i, row := range ranked {
			er.Rows[i] = ranking.Row[*profile.Profile, result.Value]{
				Owner:   profiles[row.Owner],
				Score:   row.Score,
				Rank:    row.Rank,
				Default: row.Default,
			}
			kind := Normal
			if row.Default {
				kind = Default
			}
			cells[row.Owner][d.Index] = Cell{Kind: kind, Rank: row.Rank}
		}
		board.Events[d.Index] = er
	}

	totals := make([]ranking.Entry[int, ranking.Total], len(profiles))
	for i := range profiles {
		sum := 0
		for _, c := range cells[i] {
			sum += c.Value()
		}
		totals[i] = ranking.Entry[int, ranking.Total]{Owner: i, Score: ranking.Total(sum)}
	}

	final := ranking.Rank(totals)
	board.Standings = make([]Standing, len(final))
	for i, row := range final {
		board.Standings[i] = Standing{
			Competitor: profiles[row.Owner],
			Cells:      cells[row.Owner],
			Total:      int(row.Score),
			Rank:       row.Rank,
		}
	}
	return board
}

// Find returns the standing of the competitor with id.
func (b *Board) Find(id string) (Standing, bool) {
	for _, s := range b.Standings {
		if s.Competitor.ID() == id {
			return s, true
		}
	}
	return Standing{}, false
}
