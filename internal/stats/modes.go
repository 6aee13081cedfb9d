package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/flowtype/internal/model"
)

// ModeCount is how often a mode was practiced and its mean speed.
type ModeCount struct {
	Mode    model.Mode
	Tests   int
	AvgWPM  float64
	BestWPM int
}

// ModeCounts groups results by mode, most practiced first.
func ModeCounts(records []model.ResultRecord) []ModeCount {
	byMode := map[model.Mode]*ModeCount{}
	for _, rec := range records {
		mc, ok := byMode[rec.Mode]
		if !ok {
			mc = &ModeCount{Mode: rec.Mode}
			byMode[rec.Mode] = mc
		}
		mc.Tests++
		mc.AvgWPM += float64(rec.Result.WPM)
		mc.BestWPM = max(mc.BestWPM, rec.Result.WPM)
	}
	out := make([]ModeCount, 0, len(byMode))
	for _, mc := range byMode {
		mc.AvgWPM /= float64(mc.Tests)
		out = append(out, *mc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tests == out[j].Tests {
			return out[i].Mode < out[j].Mode
		}
		return out[i].Tests > out[j].Tests
	})
	return out
}

// RenderModeTable prints per-mode counts.
func RenderModeTable(w io.Writer, counts []ModeCount) error {
	if len(counts) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(counts))
	for _, mc := range counts {
		rows = append(rows, []string{
			string(mc.Mode),
			fmt.Sprintf("%d", mc.Tests),
			fmt.Sprintf("%.1f", mc.AvgWPM),
			fmt.Sprintf("%d", mc.BestWPM),
		})
	}
	if _, err := fmt.Fprintln(w, "Modes"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Mode", "Tests", "Avg WPM", "Best"}, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
