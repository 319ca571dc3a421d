package synth

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/okian/sor/internal/adapters/wcaexport"
	"github.com/okian/sor/internal/domain/event"
	"github.com/okian/sor/internal/domain/model"
)

// Typical centisecond results per timed event for an average competitor.
var baseCentis = map[string]float64{ //nolint:gochecknoglobals // lookup table
	"skewb": 600, "222": 500, "333": 1500, "333bf": 6000, "333oh": 2800,
	"333ft": 6000, "444": 5500, "444bf": 30000, "555": 10000, "555bf": 60000,
	"666": 19000, "777": 28000, "sq1": 2500, "pyram": 600, "minx": 9000, "clock": 1200,
}

// Probabilities of a competition being held in the region, per competitor kind.
const (
	localRegionChance   = 0.85
	visitorRegionChance = 0.2
	noAverageChance     = 0.5
	firstYear           = 2005
	lastYear            = 2025
)

// Dataset is a generated export held in memory.
type Dataset struct {
	Competitions []wcaexport.Competition
	Results      []model.RawResult
	Stats        Stats
}

type competitor struct {
	id    string
	name  string
	local bool
	skill float64
}

// Generate builds a dataset for c. Equal configs yield equal datasets.
func Generate(ctx context.Context, c Config) (*Dataset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	f := gofakeit.New(c.Seed)
	d := &Dataset{}

	regionIdx := make([]int, 0, c.RegionCompetitions)
	otherIdx := make([]int, 0, c.OtherCompetitions)
	for i := range c.RegionCompetitions + c.OtherCompetitions {
		town := f.City()
		city := town + ", " + f.State()
		if i < c.RegionCompetitions {
			city = town + ", " + c.Region
			regionIdx = append(regionIdx, i)
		} else {
			otherIdx = append(otherIdx, i)
		}
		year := f.IntRange(firstYear, lastYear)
		name := fmt.Sprintf("%s Open %d", town, year)
		d.Competitions = append(d.Competitions, wcaexport.Competition{
			ID:        fmt.Sprintf("%s%02d%d", letters(name), i, year),
			Name:      name,
			CityName:  city,
			CountryID: "Synthland",
		})
	}

	people := make([]competitor, c.Competitors)
	ids := mapset.NewThreadUnsafeSet[string]()
	for i := range people {
		people[i] = competitor{
			id:    uniqueID(f, ids),
			name:  f.FirstName() + " " + f.LastName(),
			local: f.Float64() < c.LocalShare,
			skill: f.Float64Range(0.5, 2.5),
		}
	}

	// attendance[comp] lists competitor indexes in registration order.
	attendance := make([][]int, len(d.Competitions))
	for i, p := range people {
		chance := visitorRegionChance
		if p.local {
			chance = localRegionChance
		}
		attended := mapset.NewThreadUnsafeSet[int]()
		for range f.IntRange(1, c.MaxCompetitions) {
			pool := otherIdx
			if len(pool) == 0 || f.Float64() < chance {
				pool = regionIdx
			}
			comp := pool[f.IntRange(0, len(pool)-1)]
			if attended.Add(comp) {
				attendance[comp] = append(attendance[comp], i)
			}
		}
	}

	codes := event.Codes()
	for comp, entrants := range attendance {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, i := range entrants {
			p := people[i]
			f.ShuffleStrings(codes)
			for _, code := range codes[:f.IntRange(1, c.MaxEvents)] {
				best, avg := results(f, code, p.skill, c.DNFRate)
				d.Results = append(d.Results, model.RawResult{
					CompetitionID:  d.Competitions[comp].ID,
					EventCode:      code,
					Best:           best,
					Average:        avg,
					CompetitorID:   p.id,
					CompetitorName: p.name,
				})
			}
		}
	}

	d.Stats = Stats{
		Competitions:       len(d.Competitions),
		RegionCompetitions: len(regionIdx),
		Competitors:        len(people),
		Results:            len(d.Results),
	}
	return d, nil
}

// results returns encoded best and average values for one entry. Multi-blind
// entries always get a composite value since the reader only decodes that form.
func results(f *gofakeit.Faker, code string, skill, dnfRate float64) (best, avg string) {
	if code == event.CodeMultiBlind {
		attempted := f.IntRange(2, 2+int(10/skill))
		solved := f.IntRange((attempted+1)/2, attempted)
		missed := attempted - solved
		points := solved - missed
		seconds := f.IntRange(600, 3600)
		return strconv.Itoa((99-points)*10_000_000 + seconds*100 + missed), "0"
	}
	if f.Float64() < dnfRate {
		return "-1", "-1"
	}
	if code == event.CodeFewestMoves {
		moves := int(math.Round(22 * skill * f.Float64Range(0.9, 1.2)))
		return strconv.Itoa(moves), strconv.Itoa(moves*100 + f.IntRange(0, 400))
	}

	single := int(baseCentis[code] * skill * f.Float64Range(0.85, 1.15))
	if strings.HasSuffix(code, "bf") && f.Float64() < noAverageChance {
		return strconv.Itoa(single), "0"
	}
	return strconv.Itoa(single), strconv.Itoa(int(float64(single) * f.Float64Range(1.05, 1.3)))
}

// uniqueID returns an id shaped like 2015ABCD01 that is not in seen.
func uniqueID(f *gofakeit.Faker, seen mapset.Set[string]) string {
	for {
		id := fmt.Sprintf("%d%s%02d", f.IntRange(firstYear, lastYear), strings.ToUpper(f.LetterN(4)), f.IntRange(1, 99))
		if seen.Add(id) {
			return id
		}
	}
}

// letters keeps the ASCII letters of s.
func letters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 128 && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
