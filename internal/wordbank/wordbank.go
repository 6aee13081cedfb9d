// Package wordbank holds the categorized word lists and sentence pools that seed text generation.
package wordbank

import (
	"strings"
	"unicode/utf8"
)

// Category selects a word-length bucket.
type Category int

// Word-length buckets.
const (
	Short  Category = iota // up to 3 letters
	Medium                 // 4 to 6 letters
	Longer                 // more than 6 letters
)

// Pool selects a fixed sentence pool.
type Pool int

// Sentence pools.
const (
	Punctuation Pool = iota
	Numbers
	Quotes
)

// Bank is a read-only set of word buckets and sentence pools.
type Bank struct {
	words     [3][]string
	sentences [3][]string
}

var defaultBank = &Bank{
	words:     [3][]string{shortWords, mediumWords, longerWords},
	sentences: [3][]string{punctuationSentences, numberSentences, quotes},
}

// Default returns the built-in bank.
func Default() *Bank {
	return defaultBank
}

// FromWords builds a bank whose length buckets come from the given words.
// Sentence pools are shared with the built-in bank.
func FromWords(words []string) *Bank {
	b := &Bank{sentences: defaultBank.sentences}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !isWord(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		c := CategoryOf(w)
		b.words[c] = append(b.words[c], w)
	}
	return b
}

// CategoryOf returns the length bucket a word belongs to.
func CategoryOf(word string) Category {
	n := utf8.RuneCountInString(word)
	switch {
	case n <= 3:
		return Short
	case n <= 6:
		return Medium
	default:
		return Longer
	}
}

// WordsByLength returns a copy of the bucket for the category.
func (b *Bank) WordsByLength(c Category) []string {
	if c < Short || c > Longer {
		return nil
	}
	return append([]string(nil), b.words[c]...)
}

// SentencePool returns a copy of the sentence pool.
func (b *Bank) SentencePool(p Pool) []string {
	if p < Punctuation || p > Quotes {
		return nil
	}
	return append([]string(nil), b.sentences[p]...)
}

// Size returns the number of words across all length buckets.
func (b *Bank) Size() int {
	return len(b.words[Short]) + len(b.words[Medium]) + len(b.words[Longer])
}

// FallbackSentence is the text used for custom mode when none is supplied.
func FallbackSentence() string {
	return fallbackSentence
}
