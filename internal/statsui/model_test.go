package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "flowtype.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	base := time.Unix(1_700_000_000, 0).UTC()
	recs := []struct {
		user string
		mode model.Mode
		wpm  int
	}{
		{"ana", model.ModeTime, 60},
		{"ana", model.ModeWords, 72},
		{"ana", model.ModeTime, 65},
		{"bo", model.ModeTime, 110},
	}
	for i, r := range recs {
		_, err := st.InsertResult(context.Background(), model.ResultRecord{
			User:      r.user,
			Mode:      r.mode,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Result: model.TestResult{
				WPM:            r.wpm,
				RawWPM:         r.wpm + 3,
				Accuracy:       96,
				Consistency:    80,
				ElapsedSeconds: 30,
			},
		})
		require.NoError(t, err)
	}
	return st
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewAndResultsTabs(t *testing.T) {
	m := NewModel(seedStore(t), model.StatsConfig{User: "ana"})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	require.Len(t, m.report.Results, 3)
	require.NotNil(t, m.report.Best)
	assert.Equal(t, 72, m.report.Best.Result.WPM)

	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Avg WPM")
	assert.Contains(t, view, "72 (words)")
	assert.Contains(t, view, "user=ana")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabResults, m.activeTab)
	assert.Len(t, m.results.Rows(), 3)
	assert.Equal(t, "65", m.results.Rows()[0][2])
	assert.Contains(t, m.View(), "Finished")
}

func TestCurveWindowKeys(t *testing.T) {
	m := NewModel(seedStore(t), model.StatsConfig{})
	assert.Equal(t, 1, m.cfg.CurveWindow)

	m.Update(key("="))
	assert.Equal(t, 5, m.cfg.CurveWindow)
	m.Update(key("="))
	assert.Equal(t, 10, m.cfg.CurveWindow)
	m.Update(key("-"))
	assert.Equal(t, 5, m.cfg.CurveWindow)
	m.Update(key("-"))
	assert.Equal(t, 1, m.cfg.CurveWindow)
}

func TestCurveWindowSteps(t *testing.T) {
	assert.Equal(t, 5, nextCurveWindow(1))
	assert.Equal(t, 10, nextCurveWindow(7))
	assert.Equal(t, 5, prevCurveWindow(7))
	assert.Equal(t, 1, prevCurveWindow(3))
}

func TestFilterFormAppliesConfig(t *testing.T) {
	m := NewModel(seedStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.Len(t, m.report.Results, 4)

	m.Update(key("/"))
	require.True(t, m.filterMode)
	assert.Contains(t, m.View(), "Filters (enter to apply")

	m.Update(key("bo"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filterMode)
	assert.Equal(t, "bo", m.cfg.User)
	require.Len(t, m.report.Results, 1)
	assert.Equal(t, 110, m.report.Results[0].Result.WPM)
}

func TestFilterFormRejectsBadInput(t *testing.T) {
	m := NewModel(seedStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(key("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(key("marathon"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.filterMode)
	assert.Contains(t, m.filterError, "unknown mode")
	assert.Contains(t, m.View(), "unknown mode")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterMode)
	assert.Empty(t, m.cfg.Mode)
}

func TestParseFilters(t *testing.T) {
	cfg, err := parseFilters([]string{"ana", "Time", "2024-03-01", "20", "5"})
	require.NoError(t, err)
	assert.Equal(t, "ana", cfg.User)
	assert.Equal(t, "time", cfg.Mode)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, "2024-03-01", cfg.Since.Format("2006-01-02"))
	assert.Equal(t, 20, cfg.Last)
	assert.Equal(t, 5, cfg.CurveWindow)

	cfg, err = parseFilters([]string{"", "", "", "", ""})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.CurveWindow)
	assert.Nil(t, cfg.Since)

	bad := [][]string{
		{"", "", "03/01/2024", "", ""},
		{"", "", "", "-2", ""},
		{"", "", "", "", "0"},
	}
	for _, values := range bad {
		_, err := parseFilters(values)
		assert.Error(t, err, strings.Join(values, ","))
	}
}

func TestEmptyStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "flowtype.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := NewModel(st, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Contains(t, m.View(), "No results found.")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
