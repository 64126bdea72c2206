// Package fuzzy finds the declared flag a mistyped token most likely meant.
// Used by bind to attach a suggestion to unknown-flag errors.
package fuzzy

import (
	"slices"
	"strings"
)

// Matcher ranks candidate flag spellings by edit distance to an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher that accepts candidates up to maxDistance edits away.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2,
	}
}

// Match is one ranked candidate.
type Match struct {
	Value    string  // candidate as given, dashes included
	Distance int     // edits between the dash-less forms
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate for input, or "".
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within range, best first. Leading
// dashes are ignored on both sides, so "--verbos" is compared to "verbose".
// Exact matches are skipped; they are not typos.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	in := strings.ToLower(trimDashes(input))
	if len(in) < m.minLength {
		return nil
	}

	var matches []Match
	prev := make([]int, len(in)+1)
	cur := make([]int, len(in)+1)
	for _, c := range candidates {
		name := strings.ToLower(trimDashes(c))
		if name == in {
			continue
		}
		d := m.distance(in, name, prev, cur)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{Value: c, Distance: d, Score: m.score(in, name, d)})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Distance - b.Distance
		}
	})
	return matches
}

func trimDashes(s string) string {
	return strings.TrimLeft(s, "-")
}

// score blends edit distance with shared prefix and length similarity.
func (m *Matcher) score(a, b string, d int) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}

	s := 1.0 - float64(d)/float64(longest)
	if p := commonPrefix(a, b); p > 0 {
		s += float64(p) / float64(min(len(a), len(b))) * 0.3
	}
	s += (1.0 - float64(abs(len(a)-len(b)))/float64(longest)) * 0.2
	return min(s, 1.0)
}

// distance is the Levenshtein distance of a and b, cut off at maxDistance+1.
// a must be the input the rows were sized for.
func (m *Matcher) distance(a, b string, prev, cur []int) int {
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestFlag returns the declared flag spelling closest to token, or "".
func FindBestFlag(token string, flags []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(token, flags)
}

// FindSuggestions returns up to limit declared spellings close to token.
func FindSuggestions(token string, flags []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).FindMatches(token, flags)
	out := make([]string, 0, min(len(matches), limit))
	for _, m := range matches[:min(len(matches), limit)] {
		out = append(out, m.Value)
	}
	return out
}
