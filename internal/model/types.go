// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Mode selects how practice text is generated and how a test ends.
type Mode string

// Supported test modes.
const (
	ModeTime        Mode = "time"
	ModeWords       Mode = "words"
	ModeQuote       Mode = "quote"
	ModeZen         Mode = "zen"
	ModeCustom      Mode = "custom"
	ModePunctuation Mode = "punctuation"
	ModeNumbers     Mode = "numbers"
)

// DefaultMode is used for empty or unknown mode names.
const DefaultMode = ModeTime

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeTime, ModeWords, ModeQuote, ModeZen, ModeCustom, ModePunctuation, ModeNumbers}

// ParseMode maps a mode name to a Mode, falling back to DefaultMode.
func ParseMode(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if string(m) == s {
			return m
		}
	}
	return DefaultMode
}

// Known reports whether s names a supported mode.
func Known(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Bound describes what ends a test in a given mode.
type Bound int

// Test bounds.
const (
	BoundTime Bound = iota
	BoundLength
	BoundNone
)

// Bound returns the completion rule for the mode.
func (m Mode) Bound() Bound {
	switch m {
	case ModeWords, ModeQuote, ModeCustom:
		return BoundLength
	case ModeZen:
		return BoundNone
	default:
		return BoundTime
	}
}

// GenerationRequest asks the generator for practice text.
type GenerationRequest struct {
	Mode        Mode
	TargetCount int
	CustomText  string
}

// TypingSession is the mutable state of one test attempt.
type TypingSession struct {
	ReferenceText  string
	InputBuffer    string
	StartTimestamp *time.Time
	SampledWPM     []int
	Active         bool
	Finished       bool
}

// TestResult is the final, immutable outcome of a finished session.
type TestResult struct {
	WPM            int     `json:"wpm" yaml:"wpm"`
	RawWPM         int     `json:"raw_wpm" yaml:"raw_wpm"`
	Accuracy       int     `json:"accuracy" yaml:"accuracy"`
	Consistency    int     `json:"consistency" yaml:"consistency"`
	CorrectChars   int     `json:"correct_chars" yaml:"correct_chars"`
	IncorrectChars int     `json:"incorrect_chars" yaml:"incorrect_chars"`
	TotalChars     int     `json:"total_chars" yaml:"total_chars"`
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	ErrorPositions []int   `json:"error_positions" yaml:"error_positions"`
	Samples        []int   `json:"samples" yaml:"samples"`
}

// ResultRecord is a stored TestResult with its session context.
type ResultRecord struct {
	ID         string     `json:"id" yaml:"id"`
	User       string     `json:"user" yaml:"user"`
	Mode       Mode       `json:"mode" yaml:"mode"`
	TimeBudget int        `json:"time_budget" yaml:"time_budget"`
	WordBudget int        `json:"word_budget" yaml:"word_budget"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	EndedAt    time.Time  `json:"ended_at" yaml:"ended_at"`
	Result     TestResult `json:"result" yaml:"result"`
}

// Config defines practice settings.
type Config struct {
	Mode         Mode
	TimeSeconds  int
	Words        int
	CustomText   string
	User         string
	WordBankPath string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}
