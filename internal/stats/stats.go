// Package stats contains statistics calculations and reporting over stored results.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/flowtype/internal/model"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// ResultMetrics returns the headline numbers of a stored result as floats for averaging and plotting.
func ResultMetrics(rec model.ResultRecord) (wpm, accuracy, consistency float64) {
	return float64(rec.Result.WPM), float64(rec.Result.Accuracy), float64(rec.Result.Consistency)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders values as a single line of block characters.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkBlocks[len(sparkBlocks)/2]), len(values))
	}
	var b strings.Builder
	top := float64(len(sparkBlocks) - 1)
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * top))
		b.WriteRune(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}
	return b.String()
}

// ErrorProfile sums error buckets across results; index i counts errors at characters [5i, 5i+5).
func ErrorProfile(records []model.ResultRecord) []float64 {
	var profile []float64
	for _, rec := range records {
		for _, bucket := range rec.Result.ErrorPositions {
			if bucket < 0 {
				continue
			}
			for len(profile) <= bucket {
				profile = append(profile, 0)
			}
			profile[bucket]++
		}
	}
	return profile
}

// RenderSummary prints aggregate numbers for the results.
func RenderSummary(w io.Writer, records []model.ResultRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	var sumWPM, sumRaw, sumAcc, sumCons, seconds float64
	best := records[0]
	for _, rec := range records {
		wpm, acc, cons := ResultMetrics(rec)
		sumWPM += wpm
		sumAcc += acc
		sumCons += cons
		sumRaw += float64(rec.Result.RawWPM)
		seconds += rec.Result.ElapsedSeconds
		if rec.Result.WPM > best.Result.WPM {
			best = rec
		}
	}
	n := float64(len(records))
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", len(records)),
		fmt.Sprintf("Time typed: %s", (time.Duration(seconds) * time.Second).String()),
		fmt.Sprintf("Avg WPM: %.1f", sumWPM/n),
		fmt.Sprintf("Avg Raw WPM: %.1f", sumRaw/n),
		fmt.Sprintf("Best WPM: %d (%s, %s)", best.Result.WPM, best.Mode, best.EndedAt.Local().Format("2006-01-02")),
		fmt.Sprintf("Avg Accuracy: %.1f%%", sumAcc/n),
		fmt.Sprintf("Avg Consistency: %.1f%%", sumCons/n),
	}
	if profile := ErrorProfile(records); len(profile) > 0 {
		lines = append(lines, "Errors by position: "+Sparkline(profile))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for WPM, accuracy and consistency.
func RenderCurves(w io.Writer, records []model.ResultRecord, window int) error {
	return RenderCurvesWithSize(w, records, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, records []model.ResultRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	wpms := make([]float64, len(records))
	accs := make([]float64, len(records))
	cons := make([]float64, len(records))
	for i, rec := range records {
		wpms[i], accs[i], cons[i] = ResultMetrics(rec)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
		{Name: "Consistency", Values: MovingAverage(cons, window)},
	}, width, height, useColor)
}

// ResultRows formats results newest first as table cells.
func ResultRows(records []model.ResultRecord, limit int) [][]string {
	rows := make([][]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(rows) >= limit {
			break
		}
		rec := records[i]
		rows = append(rows, []string{
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			string(rec.Mode),
			fmt.Sprintf("%d", rec.Result.WPM),
			fmt.Sprintf("%d", rec.Result.RawWPM),
			fmt.Sprintf("%d%%", rec.Result.Accuracy),
			fmt.Sprintf("%d%%", rec.Result.Consistency),
			fmt.Sprintf("%.1fs", rec.Result.ElapsedSeconds),
		})
	}
	return rows
}

// ResultHeaders are the column titles matching ResultRows.
var ResultHeaders = []string{"Finished", "Mode", "WPM", "Raw", "Acc", "Cons", "Time"}

// RenderResultTable prints the most recent results.
func RenderResultTable(w io.Writer, records []model.ResultRecord, limit int) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recent Results"); err != nil {
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(ResultHeaders, ResultRows(records, limit), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
