// Package fuzzy scores how well a short typed pattern matches candidate
// strings. It is used to resolve loosely typed month names.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Result is one scored candidate.
type Result struct {
	// Index of the candidate in the slice passed to Rank.
	Index int
	// Score is in [0, 1]; higher is better.
	Score float64
	// Matches holds the rune positions in the candidate that matched.
	Matches []int
}

// Rank scores every candidate against pattern and returns those scoring at
// least minScore, best first. Ties keep candidate order.
func Rank(pattern string, candidates []string, minScore float64) []Result {
	results := make([]Result, 0, len(candidates))
	for i, text := range candidates {
		score, matches := Match(pattern, text)
		if score >= minScore && score > 0 {
			results = append(results, Result{Index: i, Score: score, Matches: matches})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Best returns the index of the highest scoring candidate. It reports false
// when nothing reaches minScore or when the two best candidates tie, since
// the pattern is then ambiguous.
func Best(pattern string, candidates []string, minScore float64) (int, bool) {
	results := Rank(pattern, candidates, minScore)
	if len(results) == 0 {
		return 0, false
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return 0, false
	}
	return results[0].Index, true
}

// Match scores pattern against text case-insensitively. Exact matches score
// 1, prefixes 0.9, substrings 0.8 and in-order subsequences at most 0.7.
func Match(pattern, text string) (float64, []int) {
	p := []rune(strings.ToLower(pattern))
	t := []rune(strings.ToLower(text))

	if len(p) == 0 {
		return 1.0, []int{}
	}
	if len(p) > len(t) {
		return 0, []int{}
	}

	if string(p) == string(t) {
		return 1.0, span(0, len(p))
	}
	if hasPrefix(t, p) {
		return 0.9, span(0, len(p))
	}
	if at := index(t, p); at >= 0 {
		return 0.8, span(at, len(p))
	}

	matches := make([]int, 0, len(p))
	var i, j int
	for i < len(p) && j < len(t) {
		if p[i] == t[j] && !unicode.IsSpace(p[i]) {
			matches = append(matches, j)
			i++
		} else if unicode.IsSpace(p[i]) {
			i++
			continue
		}
		j++
	}
	if i < len(p) {
		return 0, []int{}
	}

	// Fewer gaps and an earlier first match score higher.
	score := float64(len(matches)) / float64(len(t))
	for k := 1; k < len(matches); k++ {
		if gap := matches[k] - matches[k-1] - 1; gap > 0 {
			score -= float64(gap) / float64(len(t))
		}
	}
	if len(matches) > 0 {
		score += 0.1 * (1.0 - float64(matches[0])/float64(len(t)))
	}

	score *= 0.7
	if score < 0 {
		score = 0
	} else if score > 0.7 {
		score = 0.7
	}
	return score, matches
}

func span(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

func hasPrefix(t, p []rune) bool {
	return len(t) >= len(p) && string(t[:len(p)]) == string(p)
}

func index(t, p []rune) int {
	for i := 0; i+len(p) <= len(t); i++ {
		if string(t[i:i+len(p)]) == string(p) {
			return i
		}
	}
	return -1
}
