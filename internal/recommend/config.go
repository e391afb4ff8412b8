package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds the tunable parameters of the proposal engine.
type Config struct {
	// CoverageWeight and PreferenceWeight combine into the base score.
	CoverageWeight   float64 `koanf:"coverage_weight" json:"coverage_weight"`
	PreferenceWeight float64 `koanf:"preference_weight" json:"preference_weight"`

	// MinCoverage drops recipes whose coverage ratio falls below it.
	MinCoverage float64 `koanf:"min_coverage" json:"min_coverage"`

	// ExpirationBonus is the multiplicative boost applied as (1 + bonus).
	ExpirationBonus      float64 `koanf:"expiration_bonus" json:"expiration_bonus"`
	ExpirationWindowDays int     `koanf:"expiration_window_days" json:"expiration_window_days"`

	// DecayRate is lambda in exp(-lambda * age_days).
	DecayRate     float64 `koanf:"decay_rate" json:"decay_rate"`
	ServingsFloor float64 `koanf:"servings_floor" json:"servings_floor"`

	// SeasoningExempt lists pantry staples ignored by coverage and boost.
	SeasoningExempt []string `koanf:"seasoning_exempt" json:"seasoning_exempt"`

	// Timezone is the reference zone for timestamps and "today".
	Timezone string `koanf:"timezone" json:"timezone"`
}

// DefaultSeasonings are the staples that never gate coverage.
var DefaultSeasonings = []string{
	"soy sauce",
	"salt",
	"sugar",
	"mirin",
	"sake",
	"cooking sake",
	"pepper",
	"sesame oil",
	"olive oil",
	"vinegar",
	"miso",
	"dashi",
	"chicken stock powder",
	"potato starch",
	"flour",
	"doubanjiang",
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	seasonings := make([]string, len(DefaultSeasonings))
	copy(seasonings, DefaultSeasonings)
	return Config{
		CoverageWeight:       0.7,
		PreferenceWeight:     0.3,
		MinCoverage:          0.2,
		ExpirationBonus:      0.1,
		ExpirationWindowDays: 3,
		DecayRate:            0.05,
		ServingsFloor:        0.1,
		SeasoningExempt:      seasonings,
		Timezone:             "UTC",
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", name, v))
		}
	}
	check("coverage_weight", c.CoverageWeight)
	check("preference_weight", c.PreferenceWeight)
	check("expiration_bonus", c.ExpirationBonus)
	check("decay_rate", c.DecayRate)
	check("servings_floor", c.ServingsFloor)
	if math.IsNaN(c.MinCoverage) || c.MinCoverage < 0 || c.MinCoverage > 1 {
		errs = append(errs, fmt.Errorf("min_coverage must be within [0, 1], got %v", c.MinCoverage))
	}
	if c.ExpirationWindowDays < 0 {
		errs = append(errs, fmt.Errorf("expiration_window_days must be >= 0, got %d", c.ExpirationWindowDays))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone. An empty value means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExemptSet merges the configured seasonings with extra names.
func (c Config) ExemptSet(extra map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{}, len(c.SeasoningExempt)+len(extra))
	for _, name := range c.SeasoningExempt {
		set[name] = struct{}{}
	}
	for name := range extra {
		set[name] = struct{}{}
	}
	return set
}
