// Package content provides posts and the score-ordered ranking that owns them.
package content

import (
	"errors"
	"fmt"
	"math"

	"github.com/Koshroy/voting-abm/internal/entity"
)

// ErrInvalidPost is returned when a post is constructed with an opinion
// outside [0, 1].
var ErrInvalidPost = errors.New("invalid post")

// Post is a ranked content item. Opinion is fixed at creation; Score is
// changed only by the engine while the post is outside the ranking.
type Post struct {
	ID      entity.ID `json:"id"`
	Opinion float64   `json:"opinion"`
	Score   int       `json:"score"`
}

// NewPost creates a post with a zero score.
func NewPost(id entity.ID, opinion float64) (*Post, error) {
	if opinion < 0 || opinion > 1 || math.IsNaN(opinion) {
		return nil, fmt.Errorf("%w: opinion %v outside [0,1]", ErrInvalidPost, opinion)
	}
	return &Post{ID: id, Opinion: opinion}, nil
}

// ranksAbove orders posts by score descending, then by id ascending.
func ranksAbove(a, b *Post) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}
