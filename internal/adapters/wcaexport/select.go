package wcaexport

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/okian/sor/internal/domain/model"
)

// Criteria selects the competitors of a region.
type Criteria struct {
	// Region is matched as a substring of competition city names.
	Region string
	// MinShare is the share of region results a competitor must exceed.
	MinShare float64
}

// Stats summarizes a selection.
type Stats struct {
	RegionCompetitions int
	RegionRecords      int
	OtherRecords       int
	SkippedRows        int
	Considered         int
	Kept               int
}

type group struct {
	records []model.RawResult
	region  int
}

// Select returns the results of every competitor who mostly competes in the
// region, grouped per competitor. Region results come first in each group,
// followed by results from elsewhere, both in table order. Groups are ordered
// by each competitor's first region result.
func Select(ctx context.Context, src Source, c Criteria) ([][]model.RawResult, Stats, error) {
	var stats Stats

	regionComps := mapset.NewThreadUnsafeSet[string]()
	ts, err := ReadCompetitions(ctx, src, func(comp Competition) error {
		if strings.Contains(comp.CityName, c.Region) {
			regionComps.Add(comp.ID)
		}
		return nil
	})
	stats.SkippedRows += ts.Skipped
	if err != nil {
		return nil, stats, err
	}
	stats.RegionCompetitions = regionComps.Cardinality()

	groups := make(map[string]*group)
	var order []string

	ts, err = ReadResults(ctx, src, func(r model.RawResult) error {
		if !regionComps.Contains(r.CompetitionID) {
			return nil
		}
		g, ok := groups[r.CompetitorID]
		if !ok {
			g = &group{}
			groups[r.CompetitorID] = g
			order = append(order, r.CompetitorID)
		}
		g.records = append(g.records, r)
		g.region++
		stats.RegionRecords++
		return nil
	})
	stats.SkippedRows += ts.Skipped
	if err != nil {
		return nil, stats, err
	}

	ts, err = ReadResults(ctx, src, func(r model.RawResult) error {
		if regionComps.Contains(r.CompetitionID) {
			return nil
		}
		g, ok := groups[r.CompetitorID]
		if !ok {
			return nil
		}
		g.records = append(g.records, r)
		stats.OtherRecords++
		return nil
	})
	stats.SkippedRows += ts.Skipped
	if err != nil {
		return nil, stats, err
	}

	stats.Considered = len(order)
	out := make([][]model.RawResult, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if float64(g.region)/float64(len(g.records)) > c.MinShare {
			out = append(out, g.records)
		}
	}
	stats.Kept = len(out)
	return out, stats, nil
}
