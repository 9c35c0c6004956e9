package match

import "strings"

const (
	// MatchThreshold is the score above which a candidate counts as
	// the same application. Used for accept/reject decisions.
	MatchThreshold = 0.6

	// SuggestThreshold is the score at which a candidate is worth
	// surfacing as an autocomplete suggestion. Never used for focus
	// decisions.
	SuggestThreshold = 0.3
)

// Scorer computes a confidence score in [0,1] between a target name
// and a candidate name.
//
// Tiers are evaluated in order and the first applicable one wins, so a
// canonical exact match always beats containment even when both hold:
//
//	1.0        canonical exact match (alias-resolved)
//	0.95       normalized exact match
//	0.9 / 0.85 canonical containment (candidate-contains-target higher)
//	0.8 / 0.75 normalized containment, same asymmetry
//	0.675-0.75 word overlap ratio above one half
//	(0.6, 1)   combined Levenshtein/Jaro-Winkler, only when above 0.6
//	0          otherwise
//
// Scoring is deterministic and pure, and deliberately NOT symmetric:
// the containment tiers score "target inside candidate" above
// "candidate inside target", so Score(a, b) and Score(b, a) may
// differ. Callers must pass arguments in (target, candidate) order.
type Scorer struct {
	aliases *AliasTable
}

// NewScorer creates a scorer backed by the given alias table.
func NewScorer(aliases *AliasTable) *Scorer {
	if aliases == nil {
		aliases = NewAliasTable()
	}
	return &Scorer{aliases: aliases}
}

// Score returns the confidence in [0,1] that candidate names the same
// application as target. Empty names (after normalization) score 0.
func (s *Scorer) Score(target, candidate string) float64 {
	nt := Normalize(target)
	nc := Normalize(candidate)
	if nt == "" || nc == "" {
		return 0
	}

	ct := s.aliases.Canonical(nt)
	cc := s.aliases.Canonical(nc)

	// Tier 1: canonical exact match handles aliasing, e.g. "chrome"
	// vs "Google Chrome".
	if ct == cc {
		return 1.0
	}

	// Tier 2: exact match without aliasing.
	if nt == nc {
		return 0.95
	}

	// Tier 3: canonical containment. Candidate containing the target
	// ("Google Chrome" for target "chrome helper") outranks the
	// reverse direction.
	if strings.Contains(cc, ct) {
		return 0.9
	}
	if strings.Contains(ct, cc) {
		return 0.85
	}

	// Tier 4: same containment check on the non-canonicalized forms.
	if strings.Contains(nc, nt) {
		return 0.8
	}
	if strings.Contains(nt, nc) {
		return 0.75
	}

	// Tier 5: word overlap on canonical tokens.
	if ratio := wordOverlapRatio(ct, cc); ratio > 0.5 {
		return 0.6 + ratio*0.15
	}

	// Tier 6: fuzzy fallback for typos and truncations.
	fuzzy := 0.4*levenshteinSimilarity(ct, cc) + 0.6*jaroWinkler(ct, cc)
	if fuzzy > MatchThreshold {
		return fuzzy
	}

	return 0
}

// wordOverlapRatio splits both names on spaces and counts each target
// token as matched when any candidate token contains it or is
// contained by it. The ratio is matched count over the larger token
// count, so extra words on either side dilute the overlap.
func wordOverlapRatio(ct, cc string) float64 {
	targetTokens := strings.Fields(ct)
	candTokens := strings.Fields(cc)
	if len(targetTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	matched := 0
	for _, tt := range targetTokens {
		for _, cand := range candTokens {
			if strings.Contains(cand, tt) || strings.Contains(tt, cand) {
				matched++
				break
			}
		}
	}

	denom := len(targetTokens)
	if len(candTokens) > denom {
		denom = len(candTokens)
	}
	return float64(matched) / float64(denom)
}

// levenshteinSimilarity converts classic unit-cost edit distance into
// a [0,1] similarity: 1 - distance/max(len).
func levenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1
	}
	return 1 - float64(levenshteinDistance(ra, rb))/float64(longer)
}

// levenshteinDistance is the classic dynamic-programming edit distance
// with unit-cost insertion, deletion, and substitution.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// jaroWinkler computes the standard Jaro similarity plus the Winkler
// common-prefix bonus of 0.1 * prefixLen(<=4) * (1 - jaro).
func jaroWinkler(a, b string) float64 {
	j := jaro(a, b)

	prefix := 0
	ra, rb := []rune(a), []rune(b)
	for prefix < len(ra) && prefix < len(rb) && prefix < 4 && ra[prefix] == rb[prefix] {
		prefix++
	}

	return j + 0.1*float64(prefix)*(1-j)
}

// jaro computes the Jaro similarity: characters match within a window
// of floor(max(len)/2)-1 without reuse, transpositions are counted
// among the matched characters, and the result is the mean of the
// match ratios and the transposition-adjusted ratio.
func jaro(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}

	longer := la
	if lb > longer {
		longer = lb
	}
	window := longer/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, la)
	matchedB := make([]bool, lb)
	matches := 0

	for i := 0; i < la; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi >= lb {
			hi = lb - 1
		}
		for j := lo; j <= hi; j++ {
			if matchedB[j] || ra[i] != rb[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count out-of-order pairs among the matched characters; each
	// swap accounts for two of them.
	transpositions := 0
	j := 0
	for i := 0; i < la; i++ {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2)/m) / 3
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
