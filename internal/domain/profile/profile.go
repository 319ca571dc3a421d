// Package profile aggregates one competitor's personal bests per event.
package profile

import (
	"errors"

	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/result"
)

// ErrNoResults is returned when a profile is built from no records.
var ErrNoResults = errors.New("profile requires at least one result")

// Profile holds a competitor's best single and average for every event slot.
// It is read-only after New returns.
type Profile struct {
	id   string
	name string

	singles  [event.Count]result.Value
	averages [event.Count]result.Value

	unrecognized map[string]int
}

// New builds the profile of the competitor owning records. Identity comes from
// the first record; records of events outside the catalog are skipped and
// reported by Unrecognized.
func New(records []model.RawResult) (*Profile, error) {
	if len(records) == 0 {
		return nil, ErrNoResults
	}

	p := &Profile{
		id:   records[0].CompetitorID,
		name: records[0].CompetitorName,
	}

	for _, r := range records {
		idx, ok := event.Lookup(r.EventCode)
		if !ok {
			if p.unrecognized == nil {
				p.unrecognized = make(map[string]int)
			}
			p.unrecognized[r.EventCode]++
			continue
		}
		p.singles[idx] = result.Min(p.singles[idx], result.Parse(r.EventCode, r.Best))
		p.averages[idx] = result.Min(p.averages[idx], result.ParseAverage(r.EventCode, r.Average))
	}

	return p, nil
}

// ID returns the competitor id.
func (p *Profile) ID() string { return p.id }

// Name returns the competitor display name.
func (p *Profile) Name() string { return p.name }

// Single returns the best single of idx, or result.None for an unknown slot.
func (p *Profile) Single(idx event.Index) result.Value {
	if !idx.Valid() {
		return result.None
	}
	return p.singles[idx]
}

// Average returns the best average of idx, or result.None for an unknown slot.
func (p *Profile) Average(idx event.Index) result.Value {
	if !idx.Valid() {
		return result.None
	}
	return p.averages[idx]
}

// Best returns the best value of idx for metric.
func (p *Profile) Best(idx event.Index, metric model.Metric) result.Value {
	if metric == model.Average {
		return p.Average(idx)
	}
	return p.Single(idx)
}

// Unrecognized returns the number of skipped records per unknown event code.
func (p *Profile) Unrecognized() map[string]int {
	out := make(map[string]int, len(p.unrecognized))
	for code, n := range p.unrecognized {
		out[code] = n
	}
	return out
}
