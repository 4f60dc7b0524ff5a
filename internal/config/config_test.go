package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/rules"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 30000, cfg.PostCount())
	require.Equal(t, rules.NameBase, cfg.Policy)

	spawn := cfg.SpawnConfig()
	require.Equal(t, 0.08, spawn.ExtremistProb)
	require.Equal(t, 100, spawn.EnthusiastEnthusiasm)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*config.Config){
		"zero population":         func(c *config.Config) { c.Population = 0 },
		"negative rounds":         func(c *config.Config) { c.Rounds = -1 },
		"zero density":            func(c *config.Config) { c.Density = 0 },
		"enthusiast prob above 1": func(c *config.Config) { c.EnthusiastProb = 1.5 },
		"extremist prob below 0":  func(c *config.Config) { c.ExtremistProb = -0.1 },
		"zero extremist radius":   func(c *config.Config) { c.ExtremistRadius = 0 },
		"negative normal radius":  func(c *config.Config) { c.NormalRadius = -1 },
		"negative spread":         func(c *config.Config) { c.ExtremistSpread = -0.1 },
		"zero normal enthusiasm":  func(c *config.Config) { c.NormalEnthusiasm = 0 },
		"negative enthusiast":     func(c *config.Config) { c.EnthusiastEnthusiasm = -5 },
		"zero top-k":              func(c *config.Config) { c.TopK = 0 },
		"zero runs":               func(c *config.Config) { c.Runs = 0 },
		"zero parallel":           func(c *config.Config) { c.Parallel = 0 },
		"unknown policy":          func(c *config.Config) { c.Policy = "karma" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}

	t.Run("unknown policy keeps cause", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Policy = "karma"
		require.ErrorIs(t, cfg.Validate(), rules.ErrUnknownPolicy)
	})

	t.Run("zero rounds allowed", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Rounds = 0
		require.NoError(t, cfg.Validate())
	})
}
