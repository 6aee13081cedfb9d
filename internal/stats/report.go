package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/store"
)

// Report contains precomputed data for stats rendering.
// Best is the all-time personal best of the filtered user, ignoring Since and Last.
type Report struct {
	Results []model.ResultRecord
	Window  []model.ResultRecord
	Modes   []ModeCount
	Best    *model.ResultRecord
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Results: results,
		Window:  lastResults(results, cfg.CurveWindow),
		Modes:   ModeCounts(results),
	}
	if cfg.User != "" {
		best, ok, err := st.PersonalBest(ctx, cfg.User, model.Mode(cfg.Mode))
		if err != nil {
			return Report{}, err
		}
		if ok {
			report.Best = &best
		}
	}
	return report, nil
}

// Render writes the whole text report.
func (r Report) Render(w io.Writer, window, width int, useColor bool) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	if err := RenderCurvesWithSize(w, r.Results, window, width, defaultPlotHeight, useColor); err != nil {
		return err
	}
	if err := RenderModeTable(w, r.Modes); err != nil {
		return err
	}
	return RenderResultTable(w, r.Results, 10)
}

func lastResults(results []model.ResultRecord, window int) []model.ResultRecord {
	if window <= 0 || len(results) <= window {
		return results
	}
	return results[len(results)-window:]
}
