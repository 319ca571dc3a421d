// Package render writes leaderboards as HTML pages, spreadsheets, charts and
// terminal tables.
package render

import (
	"strconv"

	"github.com/okian/sor/internal/domain/sor"
)

// cellText is the printed form of a leaderboard cell. Blank cells print nothing.
func cellText(c sor.Cell) string {
	if c.Kind == sor.Blank {
		return ""
	}
	return strconv.Itoa(c.Rank)
}

func limitStandings(board *sor.Board, limit int) []sor.Standing {
	if limit <= 0 || limit >= len(board.Standings) {
		return board.Standings
	}
	return board.Standings[:limit]
}
