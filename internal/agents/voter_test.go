package agents_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Koshroy/voting-abm/internal/agents"
	"github.com/Koshroy/voting-abm/internal/content"
	"github.com/Koshroy/voting-abm/internal/entity"
)

func post(t *testing.T, opinion float64) *content.Post {
	t.Helper()

	p, err := content.NewPost(99, opinion)
	require.NoError(t, err)
	return p
}

func voter(t *testing.T, style agents.Style, opinion, radius float64) *agents.Voter {
	t.Helper()

	v, err := agents.NewVoter(1, style, opinion, radius, 10)
	require.NoError(t, err)
	return v
}

func TestVoter_Vote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		style   agents.Style
		opinion float64
		radius  float64
		post    float64
		want    agents.Vote
	}{
		{"normal agrees", agents.StyleNormal, 0.5, 0.1, 0.52, agents.VoteLike},
		{"normal disagrees", agents.StyleNormal, 0.5, 0.1, 0.70, agents.VoteNeutral},
		{"normal band edge", agents.StyleNormal, 0.5, 0.5, 0.75, agents.VoteLike},
		{"normal band edge rounding", agents.StyleNormal, 0.5, 0.1, 0.55, agents.VoteNeutral},
		{"extremist band edge", agents.StyleExtremist, 0.5, 0.5, 0.25, agents.VoteLike},
		{"extremist agrees", agents.StyleExtremist, 0.5, 0.01, 0.502, agents.VoteLike},
		{"extremist disagrees", agents.StyleExtremist, 0.5, 0.01, 0.70, agents.VoteDislike},
		{"zero opinion exact", agents.StyleNormal, 0, 0.1, 0, agents.VoteLike},
		{"zero opinion degenerate band", agents.StyleNormal, 0, 0.1, 0.001, agents.VoteNeutral},
		{"zero opinion extremist", agents.StyleExtremist, 0, 0.1, 0.001, agents.VoteDislike},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := voter(t, tc.style, tc.opinion, tc.radius)
			require.Equal(t, tc.want, v.Vote(post(t, tc.post)))
		})
	}
}

func TestVoter_VoteTotality(t *testing.T) {
	t.Parallel()

	for _, style := range []agents.Style{agents.StyleNormal, agents.StyleExtremist} {
		for vo := 0.0; vo <= 1.0; vo += 0.05 {
			v := voter(t, style, vo, 0.1)
			for po := 0.0; po <= 1.0; po += 0.05 {
				require.Contains(t, agents.Votes, v.Vote(post(t, po)))
			}
		}
	}
}

func TestVoter_VoteDoesNotMutatePost(t *testing.T) {
	t.Parallel()

	p := post(t, 0.3)
	p.Score = 4
	voter(t, agents.StyleExtremist, 0.9, 0.01).Vote(p)
	require.Equal(t, 4, p.Score)
	require.Equal(t, 0.3, p.Opinion)
}

func TestNewVoter_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]func() (*agents.Voter, error){
		"opinion below zero": func() (*agents.Voter, error) { return agents.NewVoter(1, agents.StyleNormal, -0.1, 0.1, 1) },
		"opinion above one":  func() (*agents.Voter, error) { return agents.NewVoter(1, agents.StyleNormal, 1.1, 0.1, 1) },
		"zero radius":        func() (*agents.Voter, error) { return agents.NewVoter(1, agents.StyleNormal, 0.5, 0, 1) },
		"zero enthusiasm":    func() (*agents.Voter, error) { return agents.NewVoter(1, agents.StyleNormal, 0.5, 0.1, 0) },
		"unknown style":      func() (*agents.Voter, error) { return agents.NewVoter(1, agents.Style(9), 0.5, 0.1, 1) },
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := build()
			require.ErrorIs(t, err, agents.ErrInvalidVoter)
		})
	}
}

func TestStyleAndVoteStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "normal", agents.StyleNormal.String())
	require.Equal(t, "extremist", agents.StyleExtremist.String())
	require.Equal(t, "like", agents.VoteLike.String())
	require.Equal(t, "neutral", agents.VoteNeutral.String())
	require.Equal(t, "dislike", agents.VoteDislike.String())
	require.Equal(t, entity.ID(1), voter(t, agents.StyleNormal, 0.5, 0.1).ID)
}
