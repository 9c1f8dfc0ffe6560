package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrNoMatch is returned by BestMatch when no name matches the query.
var ErrNoMatch = errors.New("no match")

// Rank is one fuzzy match of a query against a list of names.
type Rank struct {
	Target        string
	Distance      int
	OriginalIndex int
}

// RankFind ranks names against query, closest first. Matching is case
// insensitive and ignores diacritics. An empty query matches everything in
// original order.
func RankFind(query string, names []string) []Rank {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Rank, len(names))
		for i, n := range names {
			out[i] = Rank{Target: n, OriginalIndex: i}
		}
		return out
	}
	found := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(found)
	out := make([]Rank, len(found))
	for i, r := range found {
		out[i] = Rank{Target: r.Target, Distance: r.Distance, OriginalIndex: r.OriginalIndex}
	}
	return out
}

// FilterIndexes returns the indexes of names matching query, in original
// order, which is what list views want.
func FilterIndexes(query string, names []string) []int {
	ranks := RankFind(query, names)
	idx := make([]int, len(ranks))
	for i, r := range ranks {
		idx[i] = r.OriginalIndex
	}
	sort.Ints(idx)
	return idx
}

// BestMatch picks the single best name for query. An exact
// case-insensitive match wins outright; otherwise the closest fuzzy match
// wins unless another candidate ties with it.
func BestMatch(query string, names []string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, query) {
			return i, nil
		}
	}
	ranks := RankFind(query, names)
	switch {
	case len(ranks) == 0:
		return -1, ErrNoMatch
	case len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance:
		return -1, fmt.Errorf("%w: %q and %q both match", ErrAmbiguous, ranks[0].Target, ranks[1].Target)
	}
	return ranks[0].OriginalIndex, nil
}
