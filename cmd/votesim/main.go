// Command votesim simulates voters ranking and voting on a pool of posts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/engine"
	"github.com/Koshroy/voting-abm/internal/entity"
	"github.com/Koshroy/voting-abm/internal/metrics"
	"github.com/Koshroy/voting-abm/internal/persistence"
)

const VERSION = "0.1.0"

var cmd = &cli.Command{
	Name:    "votesim",
	Usage:   "Simulate opinion dynamics on a score-ranked feed",
	Version: VERSION,
	Flags:   simulationFlags,
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := initLogger(c.String("log-level")); err != nil {
			return ctx, err
		}
		return ctx, nil
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, configFromFlags(c))
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("votesim failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	seeds := engine.Seeds(cfg.Seed, cfg.Runs)
	slog.Info("starting simulation",
		"voters", humanize.Comma(int64(cfg.Population)),
		"posts", humanize.Comma(int64(cfg.PostCount())),
		"rounds", cfg.Rounds,
		"policy", cfg.Policy,
		"runs", cfg.Runs,
		"first_seed", seeds[0],
	)

	// ── Storage ───────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.DBPath != "" {
		var err error
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── Simulation ────────────────────────────────────────────────────
	collector := metrics.NewCollector()
	ids := entity.NewAllocator(1)

	results, err := engine.RunMany(ctx, cfg, seeds, cfg.Parallel, ids, collector)
	if err != nil {
		return err
	}

	// ── Reporting ─────────────────────────────────────────────────────
	out := printer{w: os.Stdout}
	for _, res := range results {
		out.printResult(res)

		if db != nil {
			id, err := db.SaveRun(cfg, res)
			if err != nil {
				return fmt.Errorf("save run seed %d: %w", res.Report.Seed, err)
			}
			slog.Info("run saved", "id", id, "seed", res.Report.Seed)
		}
	}

	if db != nil {
		if err := db.SaveMeta("last_seed", strconv.FormatInt(seeds[len(seeds)-1], 10)); err != nil {
			slog.Error("meta save failed", "error", err)
		}
	}

	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		slog.Info("metrics written", "path", cfg.MetricsFile)
	}

	slog.Info("simulation finished", "runs", len(results), "entities", humanize.Comma(int64(ids.Issued())))
	return nil
}
