// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// RawResult is one row of the results export as the core sees it.
// Fields hold the export's encoded strings untouched.
type RawResult struct {
	CompetitionID  string
	EventCode      string
	Best           string // encoded best single
	Average        string // encoded average
	CompetitorID   string
	CompetitorName string
}

// Metric selects which best value of an event is ranked.
type Metric int

// Ranked metrics.
const (
	Single Metric = iota
	Average
)

// Metrics lists the ranked metrics in report order.
var Metrics = [...]Metric{Single, Average}

func (m Metric) String() string {
	switch m {
	case Single:
		return "single"
	case Average:
		return "average"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// Title is the heading used for the metric's leaderboard.
func (m Metric) Title() string {
	switch m {
	case Single:
		return "SOR (Single)"
	case Average:
		return "SOR (Average)"
	}
	return m.String()
}

// ParseMetric accepts "single" and "average" (case-insensitive). Empty means Single.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return Single, nil
	case "average", "avg":
		return Average, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}
