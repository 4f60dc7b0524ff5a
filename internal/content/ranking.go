package content

import (
	"errors"
	"fmt"

	"github.com/google/btree"

	"github.com/Koshroy/voting-abm/internal/entity"
)

var (
	// ErrEmptyRanking is returned by PopMax when no posts remain.
	ErrEmptyRanking = errors.New("ranking is empty")
	// ErrDuplicatePost is returned when a post that is already ranked is
	// inserted again.
	ErrDuplicatePost = errors.New("post already ranked")
)

const treeDegree = 32

// Ranking is an ordered collection of posts keyed by (score desc, id asc).
//
// A post's score must not change while it is a member: pop it, rescore it,
// then insert it back. The tree is keyed on the score, so an in-place
// mutation would leave the post unreachable.
type Ranking struct {
	tree    *btree.BTreeG[*Post]
	members map[entity.ID]struct{}
}

// NewRanking returns an empty ranking.
func NewRanking() *Ranking {
	return &Ranking{
		tree:    btree.NewG(treeDegree, ranksAbove),
		members: make(map[entity.ID]struct{}),
	}
}

// Len returns the number of ranked posts.
func (r *Ranking) Len() int {
	return r.tree.Len()
}

// InsertAll adds a batch of posts. The batch is checked up front, so either
// every post is inserted or none is.
func (r *Ranking) InsertAll(posts []*Post) error {
	batch := make(map[entity.ID]struct{}, len(posts))
	for _, p := range posts {
		if p == nil {
			return fmt.Errorf("%w: nil post", ErrInvalidPost)
		}
		if _, ok := r.members[p.ID]; ok {
			return fmt.Errorf("%w: post %d", ErrDuplicatePost, p.ID)
		}
		if _, ok := batch[p.ID]; ok {
			return fmt.Errorf("%w: post %d appears twice in batch", ErrDuplicatePost, p.ID)
		}
		batch[p.ID] = struct{}{}
	}

	for _, p := range posts {
		r.tree.ReplaceOrInsert(p)
		r.members[p.ID] = struct{}{}
	}
	return nil
}

// PopMax removes and returns the highest-ranked post.
func (r *Ranking) PopMax() (*Post, error) {
	p, ok := r.tree.DeleteMin()
	if !ok {
		return nil, ErrEmptyRanking
	}
	delete(r.members, p.ID)
	return p, nil
}

// PopTop removes up to k of the highest-ranked posts, in rank order. k is
// clamped to the current size.
func (r *Ranking) PopTop(k int) []*Post {
	k = min(k, r.Len())
	if k <= 0 {
		return nil
	}

	out := make([]*Post, 0, k)
	for range k {
		p, err := r.PopMax()
		if err != nil {
			break
		}
		out = append(out, p)
	}
	return out
}

// PeekTop returns the k highest-ranked posts without removing them.
func (r *Ranking) PeekTop(k int) []*Post {
	k = min(k, r.Len())
	if k <= 0 {
		return nil
	}

	out := make([]*Post, 0, k)
	r.tree.Ascend(func(p *Post) bool {
		out = append(out, p)
		return len(out) < k
	})
	return out
}

// Contains reports whether the post with the given id is ranked.
func (r *Ranking) Contains(id entity.ID) bool {
	_, ok := r.members[id]
	return ok
}
