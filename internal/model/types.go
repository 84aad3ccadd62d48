// Package model defines shared data structures.
package model

import (
	"math"
	"math/big"
	"unicode/utf8"
)

// SummaryFormat selects how the final timing statistics are printed.
type SummaryFormat string

// Summary formats.
const (
	FormatLines SummaryFormat = "lines"
	FormatTable SummaryFormat = "table"
)

// Config defines training settings.
type Config struct {
	RequiredCorrect int
	MeanLimit       float64
	StdLimit        float64
	Window          int
	AttemptLimit    int
	EchoGlyph       string
	Reference       string
	TimedReference  bool
	Format          SummaryFormat
	Color           bool
}

// Attempt is a single entry terminated by Enter or cancel.
type Attempt struct {
	Text string
	// Deltas holds seconds between consecutive keystrokes, the
	// terminating keystroke included.
	Deltas    []float64
	Cancelled bool
}

// Keystrokes returns the number of keys read for the attempt, the
// terminator or cancel key included.
func (a Attempt) Keystrokes() int {
	return utf8.RuneCountInString(a.Text) + 1
}

// Counters tracks attempt outcomes for a session.
type Counters struct {
	Correct   int
	Incorrect int
}

// Total returns the number of completed attempts.
func (c Counters) Total() int {
	return c.Correct + c.Incorrect
}

// PositionStat aggregates the deltas observed at one keystroke position.
type PositionStat struct {
	Mean float64
	Min  float64
	Max  float64
	Std  float64
}

// Profile summarizes the character classes of a reference password.
type Profile struct {
	Length      int
	Lower       int
	Upper       int
	Digits      int
	Other       int
	ClassCount  int
	ClassDepth  int
	SearchSpace *big.Int
}

// EntropyBits estimates the brute-force entropy of the profile.
func (p Profile) EntropyBits() float64 {
	if p.ClassDepth <= 1 || p.Length == 0 {
		return 0
	}
	return float64(p.Length) * math.Log2(float64(p.ClassDepth))
}

// Outcome describes how a training session ended.
type Outcome int

// Session outcomes.
const (
	OutcomeTooShort Outcome = iota
	OutcomeCompleted
	OutcomeConverged
	OutcomeExhausted
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTooShort:
		return "too-short"
	case OutcomeCompleted:
		return "completed"
	case OutcomeConverged:
		return "converged"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
