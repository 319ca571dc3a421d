// Package synth generates synthetic results exports for load and end-to-end tests.
package synth

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned for configurations that cannot generate an export.
var ErrInvalidConfig = errors.New("invalid synthetic export config")

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// Config holds configuration for a synthetic export.
type Config struct {
	// Seed for the generator. Equal seeds give equal exports.
	Seed uint64
	// Region is named in the city of every region competition.
	Region             string `validate:"required"`
	RegionCompetitions int    `validate:"gte=1"`
	OtherCompetitions  int    `validate:"gte=0"`
	Competitors        int    `validate:"gte=1"`
	// LocalShare is the share of competitors who mostly compete in the region.
	LocalShare float64 `validate:"gte=0,lte=1"`
	// MaxCompetitions and MaxEvents bound what one competitor enters.
	MaxCompetitions int     `validate:"gte=1"`
	MaxEvents       int     `validate:"gte=1,lte=18"`
	DNFRate         float64 `validate:"gte=0,lt=1"`
}

// DefaultConfig returns a mid-sized export for region.
func DefaultConfig(region string) Config {
	return Config{
		Seed:               1,
		Region:             region,
		RegionCompetitions: 8,
		OtherCompetitions:  12,
		Competitors:        200,
		LocalShare:         0.7,
		MaxCompetitions:    6,
		MaxEvents:          5,
		DNFRate:            0.05,
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Stats counts what an export holds.
type Stats struct {
	Competitions       int
	RegionCompetitions int
	Competitors        int
	Results            int
}
