package engine

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/Koshroy/voting-abm/internal/agents"
	"github.com/Koshroy/voting-abm/internal/content"
	"github.com/Koshroy/voting-abm/internal/entity"
)

// RankedPost is one line of the final feed.
type RankedPost struct {
	Rank    int       `json:"rank" db:"rank"`
	PostID  entity.ID `json:"post_id" db:"post_id"`
	Score   int       `json:"score" db:"score"`
	Opinion float64   `json:"opinion" db:"opinion"`
}

// VoterSummary identifies an extremist voter in the report roster.
type VoterSummary struct {
	VoterID entity.ID `json:"voter_id" db:"voter_id"`
	Opinion float64   `json:"opinion" db:"opinion"`
}

// Stats aggregates a finished run.
type Stats struct {
	ExtremistOpinion float64 `json:"extremist_opinion"`
	ExtremistCount   int     `json:"extremist_count"`
	EnthusiastCount  int     `json:"enthusiast_count"`
	Voters           int     `json:"voters"`
	Posts            int     `json:"posts"`
	TopOpinionMean   float64 `json:"top_opinion_mean"` // Mean opinion of the reported posts
	ConsensusGap     float64 `json:"consensus_gap"`    // |TopOpinionMean - ExtremistOpinion|
}

// Report is the read-only outcome of a run.
type Report struct {
	Seed       int64          `json:"seed"`
	Policy     string         `json:"policy"`
	Rounds     int            `json:"rounds"`
	TopPosts   []RankedPost   `json:"top_posts"`
	Stats      Stats          `json:"stats"`
	Extremists []VoterSummary `json:"extremists"`
}

// Report moves the simulation to the reporting phase and summarizes the k
// highest-ranked posts. Reporting never mutates the ranking.
func (s *Simulation) Report(k int) (Report, error) {
	if s.phase != PhaseRunning && s.phase != PhaseReporting {
		return Report{}, fmt.Errorf("%w: report in phase %s", ErrWrongPhase, s.phase)
	}
	if err := s.checkSize("report"); err != nil {
		return Report{}, err
	}
	s.phase = PhaseReporting

	top := s.Ranking.PeekTop(k)
	ranked := lo.Map(top, func(p *content.Post, i int) RankedPost {
		return RankedPost{Rank: i + 1, PostID: p.ID, Score: p.Score, Opinion: p.Opinion}
	})

	extremists := lo.Filter(s.Voters, func(v *agents.Voter, _ int) bool { return v.IsExtremist() })

	stats := Stats{
		ExtremistOpinion: s.ExtremistOpinion,
		ExtremistCount:   len(extremists),
		EnthusiastCount:  lo.CountBy(s.Voters, func(v *agents.Voter) bool { return v.Enthusiasm != s.normalEnthusiasm }),
		Voters:           len(s.Voters),
		Posts:            s.postCount,
	}
	if len(top) > 0 {
		stats.TopOpinionMean = lo.SumBy(top, func(p *content.Post) float64 { return p.Opinion }) / float64(len(top))
		stats.ConsensusGap = math.Abs(stats.TopOpinionMean - s.ExtremistOpinion)
	}

	roster := lo.Map(extremists, func(v *agents.Voter, _ int) VoterSummary {
		return VoterSummary{VoterID: v.ID, Opinion: v.Opinion}
	})

	return Report{
		Seed:       s.Seed,
		Policy:     s.Policy.Name(),
		Rounds:     s.Round,
		TopPosts:   ranked,
		Stats:      stats,
		Extremists: roster,
	}, nil
}
