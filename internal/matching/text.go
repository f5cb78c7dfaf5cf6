// Package matching scores free-text requirements against catalog services,
// classifies their urgency and complexity, and prices them per category.
// Everything here is a pure function of its inputs.
package matching

import (
	"regexp"
	"sort"
	"strings"
)

// minTokenLen is the longest token that is still discarded.
const minTokenLen = 2

// nonWord matches runs of characters outside the ASCII word class.
var nonWord = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// tokenize lower-cases text, splits it on non-word runs and drops short tokens.
func tokenize(text string) []string {
	parts := nonWord.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > minTokenLen {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// termFrequencies counts token occurrences.
func termFrequencies(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}

// topTerms returns up to n distinct tokens ordered by descending frequency.
// Equal frequencies keep the order in which the tokens first appeared.
func topTerms(tokens []string, n int) []string {
	freq := termFrequencies(tokens)

	order := make([]string, 0, len(freq))
	seen := make(map[string]struct{}, len(freq))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		order = append(order, t)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// containsAny reports whether any token is in the set.
func containsAny(tokens []string, set map[string]struct{}) bool {
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
