package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/entity"
	"github.com/Koshroy/voting-abm/internal/entropy"
)

// Result is the outcome of one complete run.
type Result struct {
	Report   Report
	Started  time.Time
	Duration time.Duration
}

// Execute seeds a simulation from cfg, runs every round, reports and
// finishes it. cfg.Seed must already be resolved; obs may be nil.
func Execute(ctx context.Context, cfg config.Config, ids *entity.Allocator, obs Observer) (Result, error) {
	started := time.Now()

	sim, err := Seed(cfg, entropy.NewSource(cfg.Seed), ids)
	if err != nil {
		return Result{}, fmt.Errorf("seed: %w", err)
	}
	if obs != nil {
		sim.Observer = obs
	}

	eng := NewEngine(cfg.Rounds)
	eng.ProgressEvery = cfg.ProgressEvery
	eng.OnRound = func(int) error {
		return sim.RunRound()
	}
	eng.OnProgress = func(round int, elapsed time.Duration) {
		slog.Info("round completed",
			"seed", cfg.Seed,
			"round", round,
			"of", cfg.Rounds,
			"elapsed", elapsed.Round(time.Millisecond),
		)
	}

	if err := eng.Run(ctx); err != nil {
		return Result{}, fmt.Errorf("run seed %d: %w", cfg.Seed, err)
	}

	report, err := sim.Report(cfg.TopK)
	if err != nil {
		return Result{}, fmt.Errorf("report: %w", err)
	}
	sim.Finish()

	return Result{
		Report:   report,
		Started:  started,
		Duration: time.Since(started),
	}, nil
}

// RunMany executes one independent run per seed, at most limit at a time.
// Runs share nothing but the ID allocator and the observer. Each feed's
// (score, opinion) sequence is independent of scheduling; the ids are not,
// since the allocator interleaves across runs. Results are returned in seed
// order.
func RunMany(ctx context.Context, cfg config.Config, seeds []int64, limit int, ids *entity.Allocator, obs Observer) ([]Result, error) {
	results := make([]Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, limit))

	for i, seed := range seeds {
		runCfg := cfg
		runCfg.Seed = seed
		g.Go(func() error {
			res, err := Execute(ctx, runCfg, ids, obs)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Seeds resolves the seeds for n runs. A zero base draws a random one;
// consecutive runs use consecutive seeds.
func Seeds(base int64, n int) []int64 {
	if base == 0 {
		base = entropy.RandomSeed()
	}
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	return seeds
}
