package agents

import (
	"errors"
	"fmt"
	"math"

	"github.com/Koshroy/voting-abm/internal/content"
	"github.com/Koshroy/voting-abm/internal/entity"
)

// ErrInvalidVoter is returned when a voter is constructed with out-of-range
// fields.
var ErrInvalidVoter = errors.New("invalid voter")

// Style determines how a voter treats posts it disagrees with.
type Style uint8

const (
	StyleNormal    Style = iota // Ignores disagreeable posts
	StyleExtremist              // Downvotes disagreeable posts
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleExtremist:
		return "extremist"
	default:
		return "unknown"
	}
}

// Voter reviews the top of the ranking each round. All fields are fixed at
// creation.
type Voter struct {
	ID            entity.ID `json:"id"`
	Opinion       float64   `json:"opinion"`        // 0.0–1.0
	OpinionRadius float64   `json:"opinion_radius"` // Fraction of Opinion tolerated
	Enthusiasm    int       `json:"enthusiasm"`     // Posts reviewed per round
	Style         Style     `json:"style"`
}

// NewVoter validates and builds a voter.
func NewVoter(id entity.ID, style Style, opinion, radius float64, enthusiasm int) (*Voter, error) {
	switch {
	case opinion < 0 || opinion > 1 || math.IsNaN(opinion):
		return nil, fmt.Errorf("%w: opinion %v outside [0,1]", ErrInvalidVoter, opinion)
	case radius <= 0 || math.IsNaN(radius):
		return nil, fmt.Errorf("%w: opinion radius %v must be positive", ErrInvalidVoter, radius)
	case enthusiasm <= 0:
		return nil, fmt.Errorf("%w: enthusiasm %d must be positive", ErrInvalidVoter, enthusiasm)
	case style != StyleNormal && style != StyleExtremist:
		return nil, fmt.Errorf("%w: unknown style %d", ErrInvalidVoter, style)
	}

	return &Voter{
		ID:            id,
		Opinion:       opinion,
		OpinionRadius: radius,
		Enthusiasm:    enthusiasm,
		Style:         style,
	}, nil
}

// Agrees reports whether the post's opinion is within the voter's
// tolerance. The band is scaled by the voter's own opinion, so a voter at
// opinion 0 only agrees with posts at exactly 0.
func (v *Voter) Agrees(p *content.Post) bool {
	return math.Abs(p.Opinion-v.Opinion) <= v.OpinionRadius*v.Opinion
}

// Vote renders the voter's judgment on a post. Reads only the post's
// opinion.
func (v *Voter) Vote(p *content.Post) Vote {
	if v.Agrees(p) {
		return VoteLike
	}
	if v.Style == StyleExtremist {
		return VoteDislike
	}
	return VoteNeutral
}

// IsExtremist reports whether the voter downvotes disagreement.
func (v *Voter) IsExtremist() bool {
	return v.Style == StyleExtremist
}
