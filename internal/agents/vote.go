// Package agents provides voters, the votes they cast, and the spawner that
// seeds a run's population.
package agents

// Vote is the judgment a voter renders on a post.
type Vote int8

const (
	VoteDislike Vote = -1
	VoteNeutral Vote = 0
	VoteLike    Vote = 1
)

// Votes lists every outcome.
var Votes = []Vote{VoteLike, VoteNeutral, VoteDislike}

func (v Vote) String() string {
	switch v {
	case VoteLike:
		return "like"
	case VoteNeutral:
		return "neutral"
	case VoteDislike:
		return "dislike"
	default:
		return "unknown"
	}
}
