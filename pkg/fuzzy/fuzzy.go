// Package fuzzy ranks short texts against a typed query with typo tolerance.
package fuzzy

import (
	"strings"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeString(s1))
	r2 := []rune(normalizeString(s2))
	m, n := len(r1), len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rows are enough for the distance alone.
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// Threshold is the typo tolerance for a query of this length.
func Threshold(query string) int {
	switch l := len([]rune(query)); {
	case l <= 3:
		return 1
	case l >= 8:
		return 3
	default:
		return 2
	}
}

// Match checks if query fuzzy-matches any word of text.
func Match(query, text string) bool {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}

	threshold := Threshold(query)
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) || LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// Score rates how relevant a thread is to query. Subject hits outweigh
// snippet hits. Zero means no match.
func Score(query, subject, snippet string) float64 {
	query = normalizeString(query)
	if query == "" {
		return 0
	}
	return fieldScore(query, normalizeString(subject), 100) + fieldScore(query, normalizeString(snippet), 40)
}

func fieldScore(query, text string, weight float64) float64 {
	if strings.Contains(text, query) {
		score := weight
		// Bonus for exact word match
		if containsWord(text, query) {
			score += weight / 2
		}
		return score
	}

	best := 0.0
	threshold := Threshold(query)
	for _, word := range strings.Fields(text) {
		s := 0.0
		if strings.HasPrefix(word, query) {
			s = weight * 0.4
		}
		if dist := LevenshteinDistance(query, word); dist <= threshold {
			s = max(s, weight/2-float64(dist)*weight*0.15)
		}
		best = max(best, s)
	}
	return best
}

// normalizeString lowercases and collapses whitespace
func normalizeString(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
