// Package search holds the shared tokenizer used by both the BM25 and
// TF-IDF indices (internal/search/bm25, internal/search/tfidf), modeled
// on internal/semantic.Stemmer for the porter2-stemming step.
package search

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// Tokenizer lower-cases, splits on non-alphanumeric runs, and stems each
// token with Porter2, the same pipeline semantic.Stemmer wraps around
// github.com/surgebase/porter2.
type Tokenizer struct {
	Stem      bool
	MinLength int
}

// NewTokenizer returns a Tokenizer with stemming enabled and a 3-rune
// minimum stem length, matching NewStemmer's own defaults.
func NewTokenizer() Tokenizer {
	return Tokenizer{Stem: true, MinLength: 3}
}

// Tokenize splits text into stemmed, lower-cased tokens.
func (t Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		word := cur.String()
		cur.Reset()
		tokens = append(tokens, t.stem(word))
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func (t Tokenizer) stem(word string) string {
	if !t.Stem || len(word) < t.MinLength {
		return word
	}
	return porter2.Stem(word)
}
