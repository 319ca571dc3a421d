package wcaexport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/sor/internal/domain/model"
)

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 4096

// Competition is a row of the competitions table.
type Competition struct {
	ID        string
	Name      string
	CityName  string
	CountryID string
}

// TableStats counts the rows of one table scan.
type TableStats struct {
	Rows    int
	Skipped int
}

// Column names by field. Older exports use camelCase, newer ones snake_case.
var (
	competitionColumns = map[string][]string{
		"id":        {"id"},
		"name":      {"name"},
		"cityName":  {"cityName", "city_name"},
		"countryId": {"countryId", "country_id"},
	}
	resultColumns = map[string][]string{
		"competitionId": {"competitionId", "competition_id"},
		"eventId":       {"eventId", "event_id"},
		"best":          {"best"},
		"average":       {"average"},
		"personName":    {"personName", "person_name"},
		"personId":      {"personId", "person_id"},
	}
)

// ReadCompetitions calls fn for every competition row.
func ReadCompetitions(ctx context.Context, src Source, fn func(Competition) error) (TableStats, error) {
	return scan(ctx, src, TableCompetitions, competitionColumns, func(col columns, rec []string) error {
		return fn(Competition{
			ID:        col.get(rec, "id"),
			Name:      col.get(rec, "name"),
			CityName:  col.get(rec, "cityName"),
			CountryID: col.get(rec, "countryId"),
		})
	})
}

// ReadResults calls fn for every result row.
func ReadResults(ctx context.Context, src Source, fn func(model.RawResult) error) (TableStats, error) {
	return scan(ctx, src, TableResults, resultColumns, func(col columns, rec []string) error {
		return fn(model.RawResult{
			CompetitionID:  col.get(rec, "competitionId"),
			EventCode:      col.get(rec, "eventId"),
			Best:           col.get(rec, "best"),
			Average:        col.get(rec, "average"),
			CompetitorID:   col.get(rec, "personId"),
			CompetitorName: col.get(rec, "personName"),
		})
	})
}

// columns maps a field to its position in a record.
type columns struct {
	pos   map[string]int
	width int
}

func (c columns) get(rec []string, field string) string {
	return rec[c.pos[field]]
}

func resolveColumns(table string, header []string, want map[string][]string) (columns, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}

	col := columns{pos: make(map[string]int, len(want))}
	for field, aliases := range want {
		found := false
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				col.pos[field] = i
				col.width = max(col.width, i+1)
				found = true
				break
			}
		}
		if !found {
			return columns{}, fmt.Errorf("%w: %s: %s", ErrMissingColumn, table, field)
		}
	}
	return col, nil
}

func scan(ctx context.Context, src Source, table string, want map[string][]string, row func(columns, []string) error) (TableStats, error) {
	var stats TableStats

	rc, err := src.OpenTable(table)
	if err != nil {
		return stats, err
	}
	defer func() { _ = rc.Close() }()

	r := csv.NewReader(rc)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return stats, fmt.Errorf("read %s header: %w", table, err)
	}
	col, err := resolveColumns(table, header, want)
	if err != nil {
		return stats, err
	}

	for {
		if stats.Rows%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		stats.Rows++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("read %s: %w", table, err)
		}
		if len(rec) < col.width {
			stats.Skipped++
			continue
		}
		if err := row(col, rec); err != nil {
			return stats, err
		}
	}
}
