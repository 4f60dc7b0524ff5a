// Simulation ties voters, the ranking and the voting policy together and
// runs the per-voter update passes.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Koshroy/voting-abm/internal/agents"
	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/content"
	"github.com/Koshroy/voting-abm/internal/entity"
	"github.com/Koshroy/voting-abm/internal/entropy"
	"github.com/Koshroy/voting-abm/internal/rules"
)

var (
	// ErrRankingCorruption means the ranking lost or duplicated posts. It is
	// a defect, never a runtime condition, and aborts the run.
	ErrRankingCorruption = errors.New("ranking corruption")
	// ErrWrongPhase is returned when an operation is not allowed in the
	// simulation's current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
)

// Phase is the lifecycle stage of a simulation.
type Phase uint8

const (
	PhaseSeeding Phase = iota
	PhaseRunning
	PhaseReporting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseSeeding:
		return "seeding"
	case PhaseRunning:
		return "running"
	case PhaseReporting:
		return "reporting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Observer is notified of every applied vote and every completed round.
// Implementations must not touch the ranking, and must be safe for
// concurrent use when shared by RunMany.
type Observer interface {
	VoteCast(style agents.Style, vote agents.Vote, delta int)
	RoundCompleted(round int, top *content.Post)
}

type noopObserver struct{}

func (noopObserver) VoteCast(agents.Style, agents.Vote, int) {}
func (noopObserver) RoundCompleted(int, *content.Post)       {}

// Simulation holds the complete state of one run.
type Simulation struct {
	Seed             int64
	Voters           []*agents.Voter
	Ranking          *content.Ranking
	Policy           rules.Policy
	ExtremistOpinion float64 // Latent consensus extremists cluster around
	Round            int     // Last completed round

	Observer Observer

	rng              entropy.Source
	phase            Phase
	postCount        int
	normalEnthusiasm int
	order            []int // Voter activation order, reshuffled every round
}

// Seed builds a simulation from cfg. Every entity ID comes from ids, which
// may be shared with other runs in the process.
func Seed(cfg config.Config, rng entropy.Source, ids *entity.Allocator) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := rules.ByName(cfg.Policy)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		Seed:     cfg.Seed,
		Policy:   policy,
		Observer: noopObserver{},
		rng:      rng,
		phase:    PhaseSeeding,

		normalEnthusiasm: cfg.NormalEnthusiasm,
	}

	s.ExtremistOpinion = rng.Float64()

	spawner := agents.NewSpawner(cfg.SpawnConfig(), rng, ids)

	posts, err := spawner.SpawnPosts(cfg.PostCount())
	if err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	s.Ranking = content.NewRanking()
	if err := s.Ranking.InsertAll(posts); err != nil {
		return nil, fmt.Errorf("seed ranking: %w", err)
	}
	s.postCount = len(posts)

	s.Voters, err = spawner.SpawnVoters(cfg.Population, s.ExtremistOpinion)
	if err != nil {
		return nil, fmt.Errorf("seed voters: %w", err)
	}
	s.order = make([]int, len(s.Voters))
	for i := range s.order {
		s.order[i] = i
	}

	s.phase = PhaseRunning
	slog.Debug("simulation seeded",
		"seed", s.Seed,
		"posts", s.postCount,
		"voters", len(s.Voters),
		"policy", policy.Name(),
		"extremist_opinion", s.ExtremistOpinion,
	)
	return s, nil
}

// Phase returns the current lifecycle stage.
func (s *Simulation) Phase() Phase {
	return s.phase
}

// PostCount returns the number of posts seeded into the ranking.
func (s *Simulation) PostCount() int {
	return s.postCount
}

// UpdatePass lets one voter review the top of the ranking: pop
// min(enthusiasm, size) posts, apply the policy to the voter's vote on each,
// and merge them back in one batch.
func (s *Simulation) UpdatePass(v *agents.Voter) error {
	if s.phase != PhaseRunning {
		return fmt.Errorf("%w: update pass in phase %s", ErrWrongPhase, s.phase)
	}
	if err := s.checkSize("before pass"); err != nil {
		return err
	}

	want := min(v.Enthusiasm, s.postCount)
	extracted := s.Ranking.PopTop(want)
	if len(extracted) != want {
		return fmt.Errorf("%w: voter %d extracted %d of %d posts", ErrRankingCorruption, v.ID, len(extracted), want)
	}

	for _, p := range extracted {
		vote := v.Vote(p)
		delta := s.Policy.Convert(vote)
		p.Score += delta
		s.Observer.VoteCast(v.Style, vote, delta)
	}

	if err := s.Ranking.InsertAll(extracted); err != nil {
		return fmt.Errorf("%w: reinsert for voter %d: %w", ErrRankingCorruption, v.ID, err)
	}
	return s.checkSize("after pass")
}

// RunRound activates every voter once in a fresh random order.
func (s *Simulation) RunRound() error {
	if s.phase != PhaseRunning {
		return fmt.Errorf("%w: round in phase %s", ErrWrongPhase, s.phase)
	}

	s.rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})

	for _, idx := range s.order {
		if err := s.UpdatePass(s.Voters[idx]); err != nil {
			return fmt.Errorf("round %d: %w", s.Round+1, err)
		}
	}

	s.Round++
	var top *content.Post
	if peek := s.Ranking.PeekTop(1); len(peek) > 0 {
		top = peek[0]
	}
	s.Observer.RoundCompleted(s.Round, top)
	return nil
}

// Finish moves the simulation to its terminal phase.
func (s *Simulation) Finish() {
	s.phase = PhaseDone
}

func (s *Simulation) checkSize(when string) error {
	if n := s.Ranking.Len(); n != s.postCount {
		return fmt.Errorf("%w: %s: ranking holds %d posts, seeded %d", ErrRankingCorruption, when, n, s.postCount)
	}
	return nil
}
