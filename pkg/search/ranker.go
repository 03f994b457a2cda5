// Package search ranks catalog entries against free-text queries using
// normalized fuzzy matching.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// DefaultLimit caps how many matches a query returns.
	DefaultLimit = 6
	// DefaultMaxDistance is the highest Levenshtein distance still
	// considered a match. Looser values surface unrelated titles.
	DefaultMaxDistance = 12
)

// Ranker matches queries against a set of named items.
type Ranker[T any] struct {
	name        func(T) string
	limit       int
	maxDistance int
}

// Option configures a Ranker.
type Option[T any] func(*Ranker[T])

// WithLimit overrides the maximum result count.
func WithLimit[T any](n int) Option[T] {
	return func(r *Ranker[T]) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithMaxDistance overrides the match distance cutoff.
func WithMaxDistance[T any](d int) Option[T] {
	return func(r *Ranker[T]) {
		r.maxDistance = d
	}
}

// NewRanker builds a Ranker that matches against name(item).
func NewRanker[T any](name func(T) string, opts ...Option[T]) *Ranker[T] {
	r := &Ranker[T]{
		name:        name,
		limit:       DefaultLimit,
		maxDistance: DefaultMaxDistance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank returns the items matching query, best first. An empty or blank
// query matches nothing.
func (r *Ranker[T]) Rank(query string, items []T) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	type scored struct {
		item T
		rank int
	}
	var matches []scored
	for _, item := range items {
		rank := fuzzy.RankMatchNormalizedFold(query, r.name(item))
		if rank < 0 || rank > r.maxDistance {
			continue
		}
		matches = append(matches, scored{item: item, rank: rank})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	if len(matches) > r.limit {
		matches = matches[:r.limit]
	}
	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}
