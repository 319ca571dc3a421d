// Package ranking assigns tie-aware ranks to scored rows.
package ranking

import (
	"slices"
)

// Score is a totally ordered value. Smaller scores rank first.
type Score[S any] interface {
	// Compare returns a negative number when the receiver ranks before other,
	// a positive number when it ranks after and 0 on a tie.
	Compare(other S) int
	// Valid reports whether the score is a real result rather than a placeholder.
	Valid() bool
}

// Entry pairs an owner with the score it is ranked by.
type Entry[O any, S Score[S]] struct {
	Owner O
	Score S
}

// Row is a ranked entry.
type Row[O any, S Score[S]] struct {
	Owner O
	Score S
	Rank  int
	// Default is set on rows sharing last place with an invalid score.
	Default bool
}

// Rank returns new rows ordered by score with 1-based ranks. The sort is stable,
// so tied entries keep their input order. A row tied with its predecessor
// copies its rank; any other row is ranked by its position, which leaves a gap
// after every tie (600, 600, 700 rank 1, 1, 3). Rows tied for last place with
// an invalid score are marked Default. entries is not modified.
func Rank[O any, S Score[S]](entries []Entry[O, S]) []Row[O, S] {
	rows := make([]Row[O, S], len(entries))
	for i, e := range entries {
		rows[i] = Row[O, S]{Owner: e.Owner, Score: e.Score}
	}
	if len(rows) == 0 {
		return rows
	}

	slices.SortStableFunc(rows, func(a, b Row[O, S]) int {
		return a.Score.Compare(b.Score)
	})

	rows[0].Rank = 1
	for i := 1; i < len(rows); i++ {
		if rows[i].Score.Compare(rows[i-1].Score) == 0 {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}

	last := rows[len(rows)-1].Rank
	for i := len(rows) - 1; i >= 0 && rows[i].Rank == last; i-- {
		rows[i].Default = !rows[i].Score.Valid()
	}
	return rows
}

// Ranks returns the rank of every row in order.
func Ranks[O any, S Score[S]](rows []Row[O, S]) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Rank
	}
	return out
}

// Total is a plain integer score, such as a sum of ranks. Every total is valid.
type Total int

// Compare orders totals ascending.
func (t Total) Compare(other Total) int {
	switch {
	case t < other:
		return -1
	case t > other:
		return 1
	}
	return 0
}

// Valid always reports true.
func (Total) Valid() bool { return true }
