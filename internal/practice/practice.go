// Package practice turns a practice configuration into a reference text and session settings.
package practice

import (
	"time"

	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/session"
)

const (
	// DefaultTimeSeconds is the time budget of time-bounded modes.
	DefaultTimeSeconds = 30
	// DefaultWords is the word budget of length-bounded modes.
	DefaultWords = 25
)

// Plan is everything needed to run one test.
type Plan struct {
	Mode       model.Mode
	TimeBudget int
	WordBudget int
	Reference  string
	Session    session.Config
}

// Normalize fills defaults and canonicalizes the mode.
func Normalize(cfg model.Config) model.Config {
	cfg.Mode = model.ParseMode(string(cfg.Mode))
	if cfg.TimeSeconds <= 0 {
		cfg.TimeSeconds = DefaultTimeSeconds
	}
	if cfg.Words <= 0 {
		cfg.Words = DefaultWords
	}
	return cfg
}

// NewPlan generates fresh text for cfg and trims it to the test length.
// Time-bounded and unbounded modes keep the full generated text.
func NewPlan(gen *generator.Generator, cfg model.Config) Plan {
	cfg = Normalize(cfg)
	text := gen.Generate(model.GenerationRequest{
		Mode:        cfg.Mode,
		TargetCount: cfg.Words,
		CustomText:  cfg.CustomText,
	})
	plan := Plan{
		Mode:    cfg.Mode,
		Session: session.Config{Mode: cfg.Mode},
	}
	switch cfg.Mode {
	case model.ModeWords:
		plan.WordBudget = cfg.Words
		plan.Reference = generator.TakeWords(text, cfg.Words)
	case model.ModeQuote:
		plan.WordBudget = cfg.Words
		plan.Reference = generator.TakeSentences(text, cfg.Words)
	case model.ModeCustom:
		n := generator.WordCount(cfg.CustomText)
		if n == 0 {
			n = cfg.Words
		}
		plan.WordBudget = n
		plan.Reference = generator.TakeWords(text, n)
	default:
		plan.Reference = text
	}
	if cfg.Mode.Bound() == model.BoundTime {
		plan.TimeBudget = cfg.TimeSeconds
		plan.Session.TimeBudget = time.Duration(cfg.TimeSeconds) * time.Second
	}
	return plan
}

// Tracker builds a tracker for the plan.
func (p Plan) Tracker(opts ...session.Option) *session.Tracker {
	return session.New(p.Session, p.Reference, opts...)
}

// Record wraps a finished result with its session context for storage.
func (p Plan) Record(user string, res model.TestResult, startedAt, endedAt time.Time) model.ResultRecord {
	return model.ResultRecord{
		User:       user,
		Mode:       p.Mode,
		TimeBudget: p.TimeBudget,
		WordBudget: p.WordBudget,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Result:     res,
	}
}
