package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Koshroy/voting-abm/internal/agents"
	"github.com/Koshroy/voting-abm/internal/content"
	"github.com/Koshroy/voting-abm/internal/metrics"
)

func TestCollector_VoteCast(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	c.VoteCast(agents.StyleNormal, agents.VoteLike, 1)
	c.VoteCast(agents.StyleNormal, agents.VoteLike, 1)
	c.VoteCast(agents.StyleExtremist, agents.VoteDislike, -1)
	c.VoteCast(agents.StyleNormal, agents.VoteNeutral, 0)

	require.InDelta(t, 2.0, testutil.ToFloat64(c.Votes(agents.StyleNormal, agents.VoteLike)), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(c.Votes(agents.StyleExtremist, agents.VoteDislike)), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(c.Votes(agents.StyleNormal, agents.VoteNeutral)), 0)
	require.InDelta(t, 0.0, testutil.ToFloat64(c.Votes(agents.StyleExtremist, agents.VoteLike)), 0)
}

func TestCollector_RoundCompleted(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	c.RoundCompleted(1, &content.Post{ID: 1, Score: 7})
	c.RoundCompleted(2, nil)

	require.InDelta(t, 2.0, testutil.ToFloat64(c.Rounds()), 0)

	families, err := c.Gatherer().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "votesim_top_score" {
			found = true
			require.InDelta(t, 7.0, mf.GetMetric()[0].GetGauge().GetValue(), 0)
		}
	}
	require.True(t, found)
}

func TestCollector_WriteTextfile(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	c.VoteCast(agents.StyleExtremist, agents.VoteDislike, -1)

	path := filepath.Join(t.TempDir(), "votesim.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `votesim_votes_total{style="extremist",vote="dislike"} 1`)
	require.Contains(t, string(data), `votesim_score_delta_total{direction="down"} 1`)
}
