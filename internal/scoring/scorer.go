// Package scoring implements the weighted keyword relevance model.
package scoring

import (
	"sort"
	"strings"
)

// keyword is one weighted term in a tier.
type keyword struct {
	term   string
	weight int
}

// Model holds the two keyword tiers and the minimum score threshold.
// Terms are lowercased and sorted within each tier at construction so that
// scoring output is deterministic regardless of map iteration order.
type Model struct {
	primary  []keyword
	context  []keyword
	minScore int
}

// NewModel builds a Model from the configured weight maps.
func NewModel(primary, context map[string]int, minScore int) *Model {
	return &Model{
		primary:  tier(primary),
		context:  tier(context),
		minScore: minScore,
	}
}

func tier(weights map[string]int) []keyword {
	kws := make([]keyword, 0, len(weights))
	for term, w := range weights {
		kws = append(kws, keyword{term: strings.ToLower(term), weight: w})
	}
	sort.Slice(kws, func(i, j int) bool { return kws[i].term < kws[j].term })
	return kws
}

// MinScore returns the configured relevance threshold.
func (m *Model) MinScore() int {
	return m.minScore
}

// Relevant reports whether score meets the threshold.
func (m *Model) Relevant(score int) bool {
	return score >= m.minScore
}

// Score computes the relevance score and matched keywords for text
// (typically title + abstract). Matching is case-insensitive substring
// containment, so short terms can match inside longer words ("ai" inside
// "pain"); this mirrors the documented behavior and is pinned by tests.
// Matched keywords are primary tier first, then context tier, alphabetical
// within each tier.
func (m *Model) Score(text string) (int, []string) {
	lower := strings.ToLower(text)
	score := 0
	var matched []string

	for _, kw := range m.primary {
		if strings.Contains(lower, kw.term) {
			score += kw.weight
			matched = append(matched, kw.term)
		}
	}
	for _, kw := range m.context {
		if strings.Contains(lower, kw.term) {
			score += kw.weight
			matched = append(matched, kw.term)
		}
	}

	return score, matched
}
