// Package rules maps votes to score deltas. A policy is a stateless value
// injected into the engine, so changing platform behavior means supplying a
// different mapping.
package rules

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Koshroy/voting-abm/internal/agents"
)

// ErrUnknownPolicy is returned by ByName for unrecognized policy names.
var ErrUnknownPolicy = errors.New("unknown voting policy")

// Policy converts a vote into a signed score delta. Implementations must be
// pure.
type Policy interface {
	Name() string
	Convert(v agents.Vote) int
}

const (
	NameBase       = "base"
	NameNoDownvote = "no-downvote"
)

// Base scores a like +1, a neutral 0 and a dislike -1.
type Base struct{}

func (Base) Name() string { return NameBase }

func (Base) Convert(v agents.Vote) int {
	switch v {
	case agents.VoteLike:
		return 1
	case agents.VoteDislike:
		return -1
	default:
		return 0
	}
}

// NoDownvote only counts likes; dislikes are ignored.
type NoDownvote struct{}

func (NoDownvote) Name() string { return NameNoDownvote }

func (NoDownvote) Convert(v agents.Vote) int {
	if v == agents.VoteLike {
		return 1
	}
	return 0
}

var registry = map[string]Policy{
	NameBase:       Base{},
	NameNoDownvote: NoDownvote{},
}

// ByName returns the policy registered under name.
func ByName(name string) (Policy, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPolicy, name, Names())
	}
	return p, nil
}

// Names lists the registered policy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
