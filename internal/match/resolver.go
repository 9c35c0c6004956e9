package match

import "sort"

// Match is one scored candidate. Ephemeral: produced per query, not
// retained by the resolver.
type Match struct {
	Candidate  string
	Score      float64
	Normalized string
}

// Found reports whether the match cleared the accept threshold.
func (m Match) Found() bool {
	return m.Candidate != "" && m.Score > MatchThreshold
}

// Resolver applies the scorer across candidate lists.
type Resolver struct {
	scorer *Scorer
}

// NewResolver creates a resolver over the given scorer.
func NewResolver(scorer *Scorer) *Resolver {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &Resolver{scorer: scorer}
}

// NewDefaultResolver creates a resolver with the built-in alias table.
func NewDefaultResolver() *Resolver {
	return NewResolver(NewScorer(NewAliasTable()))
}

// Score exposes the underlying pairwise score.
func (r *Resolver) Score(target, candidate string) float64 {
	return r.scorer.Score(target, candidate)
}

// BestMatch scores target against each candidate in input order and
// returns the highest-scoring one, but only when its score clears
// MatchThreshold; otherwise the zero Match (no candidate, score 0) is
// returned. Ties keep the first occurrence.
func (r *Resolver) BestMatch(target string, candidates []string) Match {
	best := Match{}
	for _, candidate := range candidates {
		score := r.scorer.Score(target, candidate)
		if score > best.Score {
			best = Match{
				Candidate:  candidate,
				Score:      score,
				Normalized: Normalize(candidate),
			}
		}
	}

	if best.Score <= MatchThreshold {
		return Match{}
	}
	return best
}

// AllMatches returns every candidate scoring at or above threshold,
// sorted descending by score. The sort is stable, so equal scores keep
// their original relative order.
func (r *Resolver) AllMatches(target string, candidates []string, threshold float64) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		score := r.scorer.Score(target, candidate)
		if score >= threshold {
			matches = append(matches, Match{
				Candidate:  candidate,
				Score:      score,
				Normalized: Normalize(candidate),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
