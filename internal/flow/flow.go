// Package flow scores words by typing ergonomics.
//
// A word scores 2 points for every adjacent letter pair typed by opposite hands
// and 1 point for every home-row letter. Higher scores mean smoother rhythm.
package flow

import (
	"strings"
	"unicode/utf8"
)

type hand int8

const (
	noHand hand = iota
	leftHand
	rightHand
)

const (
	leftLetters  = "qwertasdfgzxcvb"
	rightLetters = "yuiophjklnm"
	homeRow      = "asdfghjkl"

	alternationReward = 2
	homeRowReward     = 1
)

var (
	hands   [26]hand
	homeKey [26]bool
)

func init() {
	for _, r := range leftLetters {
		hands[r-'a'] = leftHand
	}
	for _, r := range rightLetters {
		hands[r-'a'] = rightHand
	}
	for _, r := range homeRow {
		homeKey[r-'a'] = true
	}
}

// Entry is a word with its derived attributes.
type Entry struct {
	Word   string
	Length int
	Score  int
}

// NewEntry scores a word.
func NewEntry(word string) Entry {
	return Entry{
		Word:   word,
		Length: utf8.RuneCountInString(word),
		Score:  Score(word),
	}
}

// Score returns the flow score of a word. Non-letters score nothing.
func Score(word string) int {
	score := 0
	prev := noHand
	for _, r := range strings.ToLower(word) {
		h := handOf(r)
		if h != noHand && prev != noHand && h != prev {
			score += alternationReward
		}
		if isHome(r) {
			score += homeRowReward
		}
		prev = h
	}
	return score
}

func handOf(r rune) hand {
	if r < 'a' || r > 'z' {
		return noHand
	}
	return hands[r-'a']
}

func isHome(r rune) bool {
	if r < 'a' || r > 'z' {
		return false
	}
	return homeKey[r-'a']
}
