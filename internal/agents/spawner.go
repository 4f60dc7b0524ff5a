// Population spawning — creates the posts and voters a run starts with.
package agents

import (
	"fmt"

	"github.com/Koshroy/voting-abm/internal/content"
	"github.com/Koshroy/voting-abm/internal/entity"
	"github.com/Koshroy/voting-abm/internal/entropy"
)

// SpawnConfig controls initial population generation.
type SpawnConfig struct {
	EnthusiastProb       float64 // Chance a voter reviews deeper each round
	ExtremistProb        float64 // Chance a voter is an extremist
	NormalRadius         float64
	ExtremistRadius      float64
	ExtremistSpread      float64 // Relative spread of extremists around the consensus
	NormalEnthusiasm     int
	EnthusiastEnthusiasm int
}

// Spawner creates posts and voters, drawing every ID from one allocator.
type Spawner struct {
	cfg SpawnConfig
	rng entropy.Source
	ids *entity.Allocator
}

// NewSpawner creates a spawner. ids is shared with anything else that
// creates entities in the process.
func NewSpawner(cfg SpawnConfig, rng entropy.Source, ids *entity.Allocator) *Spawner {
	return &Spawner{cfg: cfg, rng: rng, ids: ids}
}

// SpawnPosts creates count posts at uniformly sampled opinions.
func (s *Spawner) SpawnPosts(count int) ([]*content.Post, error) {
	posts := make([]*content.Post, 0, count)
	for range count {
		p, err := content.NewPost(s.ids.Next(), s.rng.Float64())
		if err != nil {
			return nil, fmt.Errorf("spawn post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// SpawnVoters creates count voters. Extremists cluster around consensus.
func (s *Spawner) SpawnVoters(count int, consensus float64) ([]*Voter, error) {
	voters := make([]*Voter, 0, count)
	for range count {
		v, err := s.spawnOne(consensus)
		if err != nil {
			return nil, fmt.Errorf("spawn voter: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, nil
}

func (s *Spawner) spawnOne(consensus float64) (*Voter, error) {
	enthusiasm := s.cfg.NormalEnthusiasm
	if entropy.Bernoulli(s.rng, s.cfg.EnthusiastProb) {
		enthusiasm = s.cfg.EnthusiastEnthusiasm
	}

	if entropy.Bernoulli(s.rng, s.cfg.ExtremistProb) {
		spread := consensus * s.cfg.ExtremistSpread
		opinion := clampOpinion(entropy.Uniform(s.rng, consensus-spread, consensus+spread))
		return NewVoter(s.ids.Next(), StyleExtremist, opinion, s.cfg.ExtremistRadius, enthusiasm)
	}

	return NewVoter(s.ids.Next(), StyleNormal, s.rng.Float64(), s.cfg.NormalRadius, enthusiasm)
}

// clampOpinion keeps sampled opinions near the edges inside [0, 1].
func clampOpinion(o float64) float64 {
	return max(0, min(1, o))
}
