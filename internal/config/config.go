// Package config holds the parameters of a simulation run.
package config

import (
	"errors"
	"fmt"

	"github.com/Koshroy/voting-abm/internal/agents"
	"github.com/Koshroy/voting-abm/internal/rules"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the read-only input to a run.
type Config struct {
	Population int   `json:"population"`
	Rounds     int   `json:"rounds"`
	Density    int   `json:"density"` // Posts per voter
	Seed       int64 `json:"seed"`    // 0 = draw from crypto/rand

	EnthusiastProb       float64 `json:"enthusiast_prob"`
	ExtremistProb        float64 `json:"extremist_prob"`
	ExtremistRadius      float64 `json:"extremist_radius"`
	NormalRadius         float64 `json:"normal_radius"`
	ExtremistSpread      float64 `json:"extremist_spread"`
	NormalEnthusiasm     int     `json:"normal_enthusiasm"`
	EnthusiastEnthusiasm int     `json:"enthusiast_enthusiasm"`

	Policy string `json:"policy"`
	TopK   int    `json:"top_k"`

	// Process-level knobs, not part of a single run's semantics.
	Runs          int    `json:"runs"`
	Parallel      int    `json:"parallel"`
	ProgressEvery int    `json:"progress_every"`
	DBPath        string `json:"-"`
	MetricsFile   string `json:"-"`
	LogLevel      string `json:"-"`
}

// Default returns the parameters of the reference experiment.
func Default() Config {
	return Config{
		Population:           3000,
		Rounds:               1,
		Density:              10,
		EnthusiastProb:       0.1,
		ExtremistProb:        0.08,
		ExtremistRadius:      0.01,
		NormalRadius:         0.1,
		ExtremistSpread:      0.001,
		NormalEnthusiasm:     10,
		EnthusiastEnthusiasm: 100,
		Policy:               rules.NameBase,
		TopK:                 20,
		Runs:                 1,
		Parallel:             1,
		ProgressEvery:        1,
		LogLevel:             "info",
	}
}

// Validate rejects configurations that would produce an invalid
// population. Values are never clamped.
func (c Config) Validate() error {
	var errs []error
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Population <= 0, "population must be positive, got %d", c.Population)
	check(c.Rounds < 0, "rounds must not be negative, got %d", c.Rounds)
	check(c.Density <= 0, "density must be positive, got %d", c.Density)
	check(!isProbability(c.EnthusiastProb), "enthusiast probability %v outside [0,1]", c.EnthusiastProb)
	check(!isProbability(c.ExtremistProb), "extremist probability %v outside [0,1]", c.ExtremistProb)
	check(!(c.ExtremistRadius > 0), "extremist radius must be positive, got %v", c.ExtremistRadius)
	check(!(c.NormalRadius > 0), "normal radius must be positive, got %v", c.NormalRadius)
	check(!(c.ExtremistSpread >= 0), "extremist spread must not be negative, got %v", c.ExtremistSpread)
	check(c.NormalEnthusiasm <= 0, "normal enthusiasm must be positive, got %d", c.NormalEnthusiasm)
	check(c.EnthusiastEnthusiasm <= 0, "enthusiast enthusiasm must be positive, got %d", c.EnthusiastEnthusiasm)
	check(c.TopK <= 0, "top-k must be positive, got %d", c.TopK)
	check(c.Runs <= 0, "runs must be positive, got %d", c.Runs)
	check(c.Parallel <= 0, "parallel must be positive, got %d", c.Parallel)
	check(c.ProgressEvery < 0, "progress interval must not be negative, got %d", c.ProgressEvery)

	if _, err := rules.ByName(c.Policy); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// PostCount is the number of posts seeded for a run.
func (c Config) PostCount() int {
	return c.Population * c.Density
}

// SpawnConfig extracts the population parameters.
func (c Config) SpawnConfig() agents.SpawnConfig {
	return agents.SpawnConfig{
		EnthusiastProb:       c.EnthusiastProb,
		ExtremistProb:        c.ExtremistProb,
		NormalRadius:         c.NormalRadius,
		ExtremistRadius:      c.ExtremistRadius,
		ExtremistSpread:      c.ExtremistSpread,
		NormalEnthusiasm:     c.NormalEnthusiasm,
		EnthusiastEnthusiasm: c.EnthusiastEnthusiasm,
	}
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}
