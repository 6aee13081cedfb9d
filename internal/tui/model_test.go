package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flowtype/internal/clock"
	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/session"
	"github.com/verte-zerg/flowtype/internal/store"
)

func newTestModel(t *testing.T, cfg model.Config, st *store.Store) (*Model, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(1_700_000_000, 0))
	m := NewModel(cfg, Options{
		Store:        st,
		Generator:    generator.NewWithSeed(nil, 7),
		TrackerOpts:  []session.Option{session.WithClock(fake), session.WithScheduler(fake)},
		DisableTicks: true,
	})
	return m, fake
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "flowtype.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestWordsModeFinishesAndSaves(t *testing.T) {
	st := openStore(t)
	m, fake := newTestModel(t, model.Config{Mode: model.ModeWords, Words: 5, User: "ana"}, st)
	assert.Equal(t, 5, generator.WordCount(m.plan.Reference))

	ref := m.plan.Reference
	typeText(m, ref[:3])
	fake.Advance(2 * time.Second)
	typeText(m, ref[3:])

	require.Equal(t, screenResult, m.screen)
	require.NotNil(t, m.last)
	assert.NotEmpty(t, m.last.ID)
	assert.Equal(t, 100, m.last.Result.Accuracy)
	assert.True(t, m.newBest)
	assert.Contains(t, m.View(), "new personal best!")

	saved, err := st.GetResult(context.Background(), m.last.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", saved.User)
	assert.Equal(t, model.ModeWords, saved.Mode)
	assert.Equal(t, 5, saved.WordBudget)
	assert.Equal(t, m.last.Result.WPM, saved.Result.WPM)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, screenTyping, m.screen)
	assert.Empty(t, m.inputRunes)
	assert.Equal(t, session.Configured, m.tracker.State())
}

func TestTimeModeFinishesOnTick(t *testing.T) {
	m, fake := newTestModel(t, model.Config{Mode: model.ModeTime, TimeSeconds: 3}, nil)
	typeText(m, m.plan.Reference[:4])
	assert.Contains(t, m.renderStatus(), "3s")

	fake.Advance(3 * time.Second)
	assert.Equal(t, screenTyping, m.screen, "screen switches on the next refresh")
	m.Update(tickMsg(time.Now()))
	require.Equal(t, screenResult, m.screen)
	assert.Equal(t, 3.0, m.last.Result.ElapsedSeconds)
	assert.Len(t, m.last.Result.Samples, 3)
}

func TestEscFinishesZenAndQuitsWhenIdle(t *testing.T) {
	m, fake := newTestModel(t, model.Config{Mode: model.ModeZen}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd, "esc before typing quits")

	typeText(m, m.plan.Reference[:6])
	fake.Advance(5 * time.Second)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	require.Equal(t, screenResult, m.screen)
	assert.Equal(t, 5.0, m.last.Result.ElapsedSeconds)
	assert.Equal(t, 6, m.last.Result.TotalChars)
}

func TestBackspaceAndDeleteWord(t *testing.T) {
	m, _ := newTestModel(t, model.Config{Mode: model.ModeTime}, nil)
	typeText(m, "ab cd")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ab c", string(m.inputRunes))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "ab ", string(m.inputRunes))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Empty(t, m.inputRunes)
	assert.Equal(t, "", m.tracker.Session().InputBuffer)
}

func TestDeletingOnEmptyInputKeepsClockStopped(t *testing.T) {
	m, fake := newTestModel(t, model.Config{Mode: model.ModeTime, TimeSeconds: 3}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace, Alt: true})
	assert.Equal(t, session.Configured, m.tracker.State())
	assert.Equal(t, 0, fake.Pending())

	typeText(m, m.plan.Reference[:1])
	assert.Equal(t, session.Active, m.tracker.State())
}

func TestPersonalBestLoadedFromStore(t *testing.T) {
	st := openStore(t)
	_, err := st.InsertResult(context.Background(), model.ResultRecord{
		User:    "ana",
		Mode:    model.ModeWords,
		EndedAt: time.Now(),
		Result:  model.TestResult{WPM: 500},
	})
	require.NoError(t, err)

	m, fake := newTestModel(t, model.Config{Mode: model.ModeWords, Words: 3, User: "ana"}, st)
	assert.Contains(t, m.renderFooter(), "best 500 wpm")
	typeText(m, "x")
	fake.Advance(time.Second)
	typeText(m, m.plan.Reference[1:])
	require.Equal(t, screenResult, m.screen)
	assert.False(t, m.newBest)
	assert.Less(t, m.last.Result.Accuracy, 100)
}

func TestViewShowsWindowOfText(t *testing.T) {
	m, _ := newTestModel(t, model.Config{Mode: model.ModeTime}, nil)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	view := m.View()
	assert.Contains(t, view, "30s")
	assert.Contains(t, view, "tab restart")
	assert.Less(t, strings.Count(view, "\n"), 20)
	assert.Len(t, m.spans, len(wrapSpans(m.targetRunes, m.contentWidth())))
}
