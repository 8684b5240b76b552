// Package triage holds the pure scoring functions behind complaint triage:
// text similarity for duplicate detection, keyword classification of
// category and urgency, the impact score and the resolution-time table.
// Nothing here touches storage; every function is deterministic.
package triage

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are dropped before vectorizing. "I" is kept upper-case, so after
// lower-casing it never matches and the pronoun survives as the token "i".
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "with": {},
	"I": {}, "my": {}, "we": {}, "our": {}, "there": {}, "their": {},
	"this": {}, "these": {},
}

// Tokenize lower-cases text, extracts [a-z0-9]+ runs and removes stop words.
func Tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// TermVector maps a token to its frequency in a text.
type TermVector map[string]int

// Vectorize counts the tokens of text. Empty or all stop-word input gives an empty vector.
func Vectorize(text string) TermVector {
	vec := make(TermVector)
	for _, tok := range Tokenize(text) {
		vec[tok]++
	}
	return vec
}
