// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/logger"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/practice"
	"github.com/verte-zerg/flowtype/internal/session"
	statsPkg "github.com/verte-zerg/flowtype/internal/stats"
	"github.com/verte-zerg/flowtype/internal/store"
)

const (
	refreshInterval = 200 * time.Millisecond
	textLines       = 3
)

type screen int

const (
	screenTyping screen = iota
	screenResult
)

type tickMsg time.Time

// Options wires the typing UI to its collaborators. Store may be nil to disable persistence.
type Options struct {
	Store        *store.Store
	Generator    *generator.Generator
	Log          *logger.Logger
	TrackerOpts  []session.Option
	DisableTicks bool
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	opts   Options
	log    *logger.Logger

	width  int
	height int

	plan        practice.Plan
	tracker     *session.Tracker
	targetRunes []rune
	inputRunes  []rune
	spans       []lineSpan
	spansWidth  int
	snap        session.Snapshot
	screen      screen

	last    *model.ResultRecord
	saveErr error
	bestWPM int
	hasBest bool
	newBest bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headlineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	bestStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, opts Options) *Model {
	if opts.Generator == nil {
		opts.Generator = generator.New(nil)
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	m := &Model{
		config: practice.Normalize(cfg),
		opts:   opts,
		log:    opts.Log,
	}
	m.loadBest()
	m.restart()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	if m.opts.DisableTicks {
		return nil
	}
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.screen == screenTyping {
			m.refresh()
		}
		return m, m.tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenResult {
			return m.updateResult(msg)
		}
		return m.updateTyping(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyEnter:
		m.restart()
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := len(m.inputRunes)
	switch msg.Type {
	case tea.KeyTab:
		m.restart()
		return m, nil
	case tea.KeyEsc:
		if m.tracker.State() != session.Active {
			return m, tea.Quit
		}
		m.tracker.Finish()
		m.refresh()
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if msg.Alt {
			m.deleteWord()
		} else if len(m.inputRunes) > 0 {
			m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
		}
	case tea.KeyCtrlW:
		m.deleteWord()
	case tea.KeySpace:
		m.appendRunes([]rune{' '})
	case tea.KeyRunes:
		m.appendRunes(msg.Runes)
	default:
		return m, nil
	}
	// Appends and deletes always change the length.
	if len(m.inputRunes) == before {
		return m, nil
	}
	m.tracker.OnInput(string(m.inputRunes))
	m.refresh()
	return m, nil
}

func (m *Model) appendRunes(runes []rune) {
	for _, r := range runes {
		if len(m.inputRunes) >= len(m.targetRunes) {
			return
		}
		m.inputRunes = append(m.inputRunes, r)
	}
}

func (m *Model) deleteWord() {
	end := len(m.inputRunes)
	for end > 0 && m.inputRunes[end-1] == ' ' {
		end--
	}
	for end > 0 && m.inputRunes[end-1] != ' ' {
		end--
	}
	m.inputRunes = m.inputRunes[:end]
}

// refresh pulls live stats and moves to the result screen once the tracker finishes.
func (m *Model) refresh() {
	m.snap = m.tracker.Snapshot()
	if m.snap.State == session.Finished {
		m.complete()
	}
}

func (m *Model) restart() {
	m.plan = practice.NewPlan(m.opts.Generator, m.config)
	m.targetRunes = []rune(m.plan.Reference)
	m.inputRunes = nil
	m.spans = nil
	if m.tracker == nil {
		m.tracker = m.plan.Tracker(m.opts.TrackerOpts...)
	} else {
		m.tracker.Reset(m.plan.Reference)
	}
	m.snap = m.tracker.Snapshot()
	m.screen = screenTyping
	m.last = nil
	m.saveErr = nil
	m.newBest = false
}

func (m *Model) complete() {
	m.screen = screenResult
	res, _ := m.tracker.Result()
	startedAt, endedAt := m.tracker.Span()
	rec := m.plan.Record(m.config.User, res, startedAt, endedAt)
	m.last = &rec
	if startedAt.IsZero() || res.TotalChars == 0 {
		return
	}
	m.newBest = !m.hasBest || res.WPM > m.bestWPM
	if m.newBest {
		m.bestWPM = res.WPM
		m.hasBest = true
	}
	if m.opts.Store == nil {
		return
	}
	id, err := m.opts.Store.InsertResult(context.Background(), rec)
	if err != nil {
		m.saveErr = err
		m.log.Errorf("failed to save result: %v", err)
		return
	}
	m.last.ID = id
	m.log.Debugf("saved result %s: %d wpm", id, res.WPM)
}

func (m *Model) loadBest() {
	if m.opts.Store == nil {
		return
	}
	best, ok, err := m.opts.Store.PersonalBest(context.Background(), m.config.User, m.config.Mode)
	if err != nil {
		m.log.Warnf("failed to load personal best: %v", err)
		return
	}
	if ok {
		m.bestWPM = best.Result.WPM
		m.hasBest = true
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.screen == screenResult {
		content = m.renderResult()
	} else {
		content = m.renderTyping()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderTyping() string {
	width := m.contentWidth()
	if m.spans == nil || m.spansWidth != width {
		m.spans = wrapSpans(m.targetRunes, width)
		m.spansWidth = width
	}
	cursor := len(m.inputRunes)
	first, last := visibleLines(m.spans, lineOf(m.spans, cursor), textLines)
	lines := make([]string, 0, last-first)
	for _, span := range m.spans[first:last] {
		lines = append(lines, styleRange(m.targetRunes, m.inputRunes, span.start, span.end, cursor))
	}
	text := lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
	return m.renderStatus() + "\n\n" + text
}

func (m *Model) renderStatus() string {
	var progress string
	switch m.plan.Mode.Bound() {
	case model.BoundTime:
		progress = fmt.Sprintf("%ds", int(math.Ceil(m.snap.Remaining.Seconds())))
	case model.BoundLength:
		progress = fmt.Sprintf("%d/%d", generator.WordCount(string(m.inputRunes)), m.plan.WordBudget)
	default:
		progress = fmt.Sprintf("%ds", int(m.snap.Elapsed.Seconds()))
	}
	if m.snap.State == session.Configured {
		return statusStyle.Render(progress)
	}
	return statusStyle.Render(fmt.Sprintf("%s  %d wpm  %d%%", progress, m.snap.WPM, m.snap.Accuracy))
}

func (m *Model) renderResult() string {
	if m.last == nil {
		return ""
	}
	res := m.last.Result
	lines := []string{
		headlineStyle.Render(fmt.Sprintf("%d wpm   %d%% acc", res.WPM, res.Accuracy)),
		fmt.Sprintf("raw %d   consistency %d%%   chars %d/%d   time %.1fs",
			res.RawWPM, res.Consistency, res.CorrectChars, res.IncorrectChars, res.ElapsedSeconds),
	}
	if len(res.Samples) > 1 {
		samples := make([]float64, len(res.Samples))
		for i, v := range res.Samples {
			samples[i] = float64(v)
		}
		lines = append(lines, pendingStyle.Render(statsPkg.Sparkline(samples)))
	}
	switch {
	case res.TotalChars == 0:
		lines = append(lines, pendingStyle.Render("nothing typed, result not saved"))
	case m.saveErr != nil:
		lines = append(lines, incorrectStyle.Render("could not save result"))
	case m.newBest:
		lines = append(lines, bestStyle.Render("new personal best!"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{modeLabel(m.plan)}
	if m.hasBest {
		segments = append(segments, fmt.Sprintf("best %d wpm", m.bestWPM))
	}
	if m.screen == screenResult {
		segments = append(segments, "tab next", "esc quit")
	} else {
		segments = append(segments, "tab restart", "esc finish")
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func modeLabel(plan practice.Plan) string {
	switch {
	case plan.TimeBudget > 0:
		return fmt.Sprintf("%s %ds", plan.Mode, plan.TimeBudget)
	case plan.WordBudget > 0:
		return fmt.Sprintf("%s %d", plan.Mode, plan.WordBudget)
	default:
		return string(plan.Mode)
	}
}
