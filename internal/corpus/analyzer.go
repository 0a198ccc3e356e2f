// Package corpus provides the shared text analyzer and the tokenized-corpus
// providers that feed the index and emotion build stages.
package corpus

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Analyzer normalizes raw text into tokens. The exact same Analyzer instance
// must be used when building the index and when processing queries: any
// divergence between the two silently breaks retrieval.
type Analyzer struct {
	stemming bool
}

// NewAnalyzer creates an Analyzer. When stemming is enabled every token is
// passed through the snowball English stemmer after normalization.
func NewAnalyzer(stemming bool) *Analyzer {
	return &Analyzer{stemming: stemming}
}

// Words lower-cases the input and splits it on non-letter boundaries without
// stemming. Callers that match against surface-form resources (the synonym
// table) use this; Tokenize layers the stemmer on top.
func (a *Analyzer) Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// Tokenize lower-cases the input, splits on non-letter boundaries, and drops
// anything that is not purely alphabetic. Token order is preserved.
func (a *Analyzer) Tokenize(text string) []string {
	words := a.Words(text)
	if !a.stemming {
		return words
	}
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		stemmed, err := snowball.Stem(word, "english", false)
		if err != nil || stemmed == "" {
			tokens = append(tokens, word)
			continue
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// NormalizeToken applies the same rule to a single already-split token. Used
// by the query engine so synonym expansions go through the identical pipeline.
func (a *Analyzer) NormalizeToken(token string) string {
	tokens := a.Tokenize(token)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
