// Package engine provides the round-based simulation loop.
package engine

import (
	"context"
	"log/slog"
	"time"
)

// Engine drives a simulation forward one round at a time.
type Engine struct {
	Round         int // Last completed round (monotonic, never resets)
	Rounds        int // Rounds to run in total
	ProgressEvery int // Log progress every N rounds; 0 disables

	// OnRound runs one round. An error stops the engine.
	OnRound func(round int) error
	// OnProgress runs every ProgressEvery rounds, after OnRound.
	OnProgress func(round int, elapsed time.Duration)
}

// NewEngine creates an engine that runs the given number of rounds.
func NewEngine(rounds int) *Engine {
	return &Engine{
		Rounds:        rounds,
		ProgressEvery: 1,
	}
}

// Run executes the remaining rounds. Cancellation is checked between
// rounds, so a round is never interrupted halfway.
func (e *Engine) Run(ctx context.Context) error {
	slog.Debug("simulation engine started", "round", e.Round, "rounds", e.Rounds)
	start := time.Now()

	for e.Round < e.Rounds {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation engine interrupted", "round", e.Round)
			return err
		}

		if err := e.step(); err != nil {
			return err
		}

		if e.ProgressEvery > 0 && e.Round%e.ProgressEvery == 0 && e.OnProgress != nil {
			e.OnProgress(e.Round, time.Since(start))
		}
	}

	slog.Debug("simulation engine stopped", "round", e.Round)
	return nil
}

// step advances the simulation by one round.
func (e *Engine) step() error {
	next := e.Round + 1
	if e.OnRound != nil {
		if err := e.OnRound(next); err != nil {
			return err
		}
	}
	e.Round = next
	return nil
}
