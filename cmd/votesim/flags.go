package main

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/rules"
)

var defaults = config.Default()

func positive(name string) func(int) error {
	return func(v int) error {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
		return nil
	}
}

func probability(name string) func(float64) error {
	return func(v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
		return nil
	}
}

var simulationFlags = []cli.Flag{
	&cli.IntFlag{
		Name:      "population",
		Aliases:   []string{"n"},
		Usage:     "Number of voters",
		Value:     defaults.Population,
		Sources:   cli.EnvVars("VOTESIM_POPULATION"),
		Validator: positive("population"),
	},
	&cli.IntFlag{
		Name:    "rounds",
		Aliases: []string{"r"},
		Usage:   "Rounds per run; every voter acts once per round",
		Value:   defaults.Rounds,
		Sources: cli.EnvVars("VOTESIM_ROUNDS"),
	},
	&cli.IntFlag{
		Name:      "density",
		Usage:     "Posts seeded per voter",
		Value:     defaults.Density,
		Sources:   cli.EnvVars("VOTESIM_DENSITY"),
		Validator: positive("density"),
	},
	&cli.Int64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "Random seed of the first run; 0 picks one",
		Value:   defaults.Seed,
		Sources: cli.EnvVars("VOTESIM_SEED"),
	},
	&cli.Float64Flag{
		Name:      "enthusiast-prob",
		Usage:     "Probability that a voter is an enthusiast",
		Value:     defaults.EnthusiastProb,
		Validator: probability("enthusiast-prob"),
	},
	&cli.Float64Flag{
		Name:      "extremist-prob",
		Usage:     "Probability that a voter is an extremist",
		Value:     defaults.ExtremistProb,
		Validator: probability("extremist-prob"),
	},
	&cli.Float64Flag{
		Name:  "extremist-radius",
		Usage: "Opinion radius of extremist voters",
		Value: defaults.ExtremistRadius,
	},
	&cli.Float64Flag{
		Name:  "normal-radius",
		Usage: "Opinion radius of normal voters",
		Value: defaults.NormalRadius,
	},
	&cli.Float64Flag{
		Name:  "extremist-spread",
		Usage: "Relative spread of extremist opinions around their consensus",
		Value: defaults.ExtremistSpread,
	},
	&cli.IntFlag{
		Name:      "normal-enthusiasm",
		Usage:     "Posts a normal voter reviews per round",
		Value:     defaults.NormalEnthusiasm,
		Validator: positive("normal-enthusiasm"),
	},
	&cli.IntFlag{
		Name:      "enthusiast-enthusiasm",
		Usage:     "Posts an enthusiast reviews per round",
		Value:     defaults.EnthusiastEnthusiasm,
		Validator: positive("enthusiast-enthusiasm"),
	},
	&cli.StringFlag{
		Name:    "policy",
		Aliases: []string{"p"},
		Usage:   fmt.Sprintf("Vote scoring policy, one of %v", rules.Names()),
		Value:   defaults.Policy,
		Sources: cli.EnvVars("VOTESIM_POLICY"),
		Validator: func(value string) error {
			if !slices.Contains(rules.Names(), value) {
				return fmt.Errorf("invalid policy: %s, allowed values are: %s", value, rules.Names())
			}
			return nil
		},
	},
	&cli.IntFlag{
		Name:      "top",
		Usage:     "Posts shown in the final report",
		Value:     defaults.TopK,
		Validator: positive("top"),
	},
	&cli.IntFlag{
		Name:      "runs",
		Usage:     "Independent runs with consecutive seeds",
		Value:     defaults.Runs,
		Sources:   cli.EnvVars("VOTESIM_RUNS"),
		Validator: positive("runs"),
	},
	&cli.IntFlag{
		Name:      "parallel",
		Usage:     "Maximum runs executed at once",
		Value:     defaults.Parallel,
		Sources:   cli.EnvVars("VOTESIM_PARALLEL"),
		Validator: positive("parallel"),
	},
	&cli.IntFlag{
		Name:  "progress-every",
		Usage: "Log progress every N rounds; 0 disables",
		Value: defaults.ProgressEvery,
	},
	&cli.StringFlag{
		Name:    "db",
		Usage:   "SQLite file to store run reports in; empty disables",
		Sources: cli.EnvVars("VOTESIM_DB"),
	},
	&cli.StringFlag{
		Name:    "metrics-file",
		Usage:   "Write Prometheus metrics to this textfile; empty disables",
		Sources: cli.EnvVars("VOTESIM_METRICS_FILE"),
	},
	&cli.StringFlag{
		Name:    "log-level",
		Aliases: []string{"l"},
		Usage:   "The level of the logs",
		Value:   defaults.LogLevel,
		Sources: cli.EnvVars("LOG_LEVEL"),
		Validator: func(value string) error {
			if !slices.Contains(validLogLevels, value) {
				return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
			}
			return nil
		},
	},
}

// configFromFlags builds the run configuration from parsed flags.
func configFromFlags(c *cli.Command) config.Config {
	return config.Config{
		Population:           c.Int("population"),
		Rounds:               c.Int("rounds"),
		Density:              c.Int("density"),
		Seed:                 c.Int64("seed"),
		EnthusiastProb:       c.Float64("enthusiast-prob"),
		ExtremistProb:        c.Float64("extremist-prob"),
		ExtremistRadius:      c.Float64("extremist-radius"),
		NormalRadius:         c.Float64("normal-radius"),
		ExtremistSpread:      c.Float64("extremist-spread"),
		NormalEnthusiasm:     c.Int("normal-enthusiasm"),
		EnthusiastEnthusiasm: c.Int("enthusiast-enthusiasm"),
		Policy:               c.String("policy"),
		TopK:                 c.Int("top"),
		Runs:                 c.Int("runs"),
		Parallel:             c.Int("parallel"),
		ProgressEvery:        c.Int("progress-every"),
		DBPath:               c.String("db"),
		MetricsFile:          c.String("metrics-file"),
		LogLevel:             c.String("log-level"),
	}
}
