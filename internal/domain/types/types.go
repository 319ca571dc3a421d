// Package types contains the read shapes returned by leaderboard queries.
package types

// ResultRow is one competitor's place in a single event ranking.
type ResultRow struct {
	Rank           int    `json:"rank"`
	CompetitorID   string `json:"competitor_id"`
	CompetitorName string `json:"competitor_name"`
	Score          string `json:"score"`
	// Default marks competitors sharing last place without a valid result.
	Default bool `json:"default"`
}

// Cell is one event column of a sum-of-ranks standing.
type Cell struct {
	Event   string `json:"event"`
	Rank    int    `json:"rank"`
	Default bool   `json:"default,omitempty"`
	Blank   bool   `json:"blank,omitempty"`
}

// StandingRow is one row of a sum-of-ranks leaderboard.
type StandingRow struct {
	Rank           int    `json:"rank"`
	CompetitorID   string `json:"competitor_id"`
	CompetitorName string `json:"competitor_name"`
	Total          int    `json:"total"`
	Cells          []Cell `json:"cells,omitempty"`
}
