// Package metrics reduces typing session data into performance figures.
// All functions are pure and total: degenerate inputs yield defined values, never errors.
package metrics

import (
	"math"
	"sort"

	"github.com/verte-zerg/flowtype/internal/model"
)

const (
	charsPerWord     = 5
	minElapsedSecs   = 1.0
	minMeanWPM       = 1.0
	rawAccuracyFloor = 50
	fenceFactor      = 1.5
)

// WPM converts correct characters over elapsed seconds into words per minute.
// Elapsed time below one second counts as one second.
func WPM(correctChars int, elapsedSeconds float64) int {
	elapsed := math.Max(elapsedSeconds, minElapsedSecs)
	words := float64(correctChars) / charsPerWord
	return int(math.Round(words / (elapsed / 60)))
}

// Accuracy is the rounded percentage of correct characters, 100 when nothing was typed.
func Accuracy(correctChars, totalChars int) int {
	if totalChars <= 0 {
		return 100
	}
	pct := math.Round(float64(correctChars) / float64(totalChars) * 100)
	return int(math.Min(100, math.Max(0, pct)))
}

// RawWPM approximates error-inclusive speed from net WPM and accuracy.
func RawWPM(wpm, accuracy int) int {
	acc := max(accuracy, rawAccuracyFloor)
	return int(math.Round(float64(wpm) * (100 / float64(acc))))
}

// Consistency scores how stable WPM samples are on a 0–100 scale.
// Fewer than two samples score 100.
func Consistency(samples []int) int {
	if len(samples) < 2 {
		return 100
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s)
	}

	chosen := values
	if filtered := withinFence(values); 2*len(filtered) > len(values) {
		chosen = filtered
	}

	mean, sd := meanStdDev(chosen)
	cv := sd / math.Max(mean, minMeanWPM) * 100
	return int(math.Round(math.Max(0, 100-math.Min(100, cv))))
}

func withinFence(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - fenceFactor*iqr
	hi := q3 + fenceFactor*iqr
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}
	return out
}

// quantile interpolates linearly between closest ranks of a sorted slice.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func meanStdDev(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// CountChars compares input against reference index by index.
// Input beyond the end of reference counts as incorrect.
func CountChars(reference, input []rune) (correct, incorrect int) {
	for i, r := range input {
		if i < len(reference) && reference[i] == r {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

// ErrorPositions returns the ascending, de-duplicated 5-character buckets that contain a mismatch.
func ErrorPositions(reference, input []rune) []int {
	positions := []int{}
	last := -1
	for i, r := range input {
		if i < len(reference) && reference[i] == r {
			continue
		}
		bucket := i / charsPerWord
		if bucket != last {
			positions = append(positions, bucket)
			last = bucket
		}
	}
	return positions
}

// ErrorIndices returns every mismatching input index.
func ErrorIndices(reference, input []rune) []int {
	indices := []int{}
	for i, r := range input {
		if i >= len(reference) || reference[i] != r {
			indices = append(indices, i)
		}
	}
	return indices
}

// Capture is the frozen state of a finished session.
type Capture struct {
	Reference      string
	Input          string
	ElapsedSeconds float64
	Samples        []int
}

// Reduce computes the final result for a captured session.
func Reduce(c Capture) model.TestResult {
	ref := []rune(c.Reference)
	input := []rune(c.Input)
	correct, incorrect := CountChars(ref, input)
	wpm := WPM(correct, c.ElapsedSeconds)
	acc := Accuracy(correct, len(input))
	return model.TestResult{
		WPM:            wpm,
		RawWPM:         RawWPM(wpm, acc),
		Accuracy:       acc,
		Consistency:    Consistency(c.Samples),
		CorrectChars:   correct,
		IncorrectChars: incorrect,
		TotalChars:     len(input),
		ElapsedSeconds: c.ElapsedSeconds,
		ErrorPositions: ErrorPositions(ref, input),
		Samples:        append([]int{}, c.Samples...),
	}
}
