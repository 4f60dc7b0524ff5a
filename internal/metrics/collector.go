// Package metrics exports simulation counters in the Prometheus format.
// There is no HTTP endpoint: the registry is written to a textfile when a
// process finishes.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Koshroy/voting-abm/internal/agents"
	"github.com/Koshroy/voting-abm/internal/content"
)

// Collector counts votes and rounds. It implements engine.Observer and is
// safe to share between concurrent runs.
type Collector struct {
	registry *prometheus.Registry

	votes      *prometheus.CounterVec
	scoreDelta *prometheus.CounterVec
	rounds     prometheus.Counter
	topScore   prometheus.Gauge
}

// NewCollector creates a collector backed by its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votesim_votes_total",
			Help: "Votes cast, by voter style and outcome.",
		}, []string{"style", "vote"}),
		scoreDelta: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votesim_score_delta_total",
			Help: "Absolute score change applied, by direction.",
		}, []string{"direction"}),
		rounds: factory.NewCounter(prometheus.CounterOpts{
			Name: "votesim_rounds_total",
			Help: "Completed simulation rounds across all runs.",
		}),
		topScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "votesim_top_score",
			Help: "Score of the highest-ranked post after the latest round.",
		}),
	}
}

// VoteCast records one applied vote.
func (c *Collector) VoteCast(style agents.Style, vote agents.Vote, delta int) {
	c.votes.WithLabelValues(style.String(), vote.String()).Inc()
	switch {
	case delta > 0:
		c.scoreDelta.WithLabelValues("up").Add(float64(delta))
	case delta < 0:
		c.scoreDelta.WithLabelValues("down").Add(float64(-delta))
	}
}

// RoundCompleted records a finished round and the current leader's score.
func (c *Collector) RoundCompleted(_ int, top *content.Post) {
	c.rounds.Inc()
	if top != nil {
		c.topScore.Set(float64(top.Score))
	}
}

// Votes returns the vote counter for tests and summaries.
func (c *Collector) Votes(style agents.Style, vote agents.Vote) prometheus.Counter {
	return c.votes.WithLabelValues(style.String(), vote.String())
}

// Rounds returns the round counter.
func (c *Collector) Rounds() prometheus.Counter {
	return c.rounds
}

// Gatherer exposes the underlying registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
