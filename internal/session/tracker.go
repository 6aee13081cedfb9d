// Package session tracks one typing test from first keystroke to final result.
package session

import (
	"sync"
	"time"

	"github.com/verte-zerg/flowtype/internal/clock"
	"github.com/verte-zerg/flowtype/internal/metrics"
	"github.com/verte-zerg/flowtype/internal/model"
)

const (
	// DefaultSampleInterval is how often live WPM is sampled.
	DefaultSampleInterval = time.Second
	// DefaultTimeBudget applies to time-bounded modes configured without a budget.
	DefaultTimeBudget = 30 * time.Second
)

// State is the lifecycle position of a tracker.
type State int

// Tracker states.
const (
	Configured State = iota
	Active
	Finished
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "configured"
	}
}

// Config holds the explicit parameters of a test.
type Config struct {
	Mode           model.Mode
	TimeBudget     time.Duration
	SampleInterval time.Duration
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithScheduler sets the sampler scheduler.
func WithScheduler(s clock.Scheduler) Option {
	return func(t *Tracker) { t.sched = s }
}

// WithOnSample registers a callback run after every sampler tick.
func WithOnSample(fn func(Snapshot)) Option {
	return func(t *Tracker) { t.onSample = fn }
}

// WithOnFinish registers a callback run once per finished session.
func WithOnFinish(fn func(model.TestResult)) Option {
	return func(t *Tracker) { t.onFinish = fn }
}

// Tracker consumes input snapshots against a reference text.
// Methods are safe for concurrent use; callbacks run without the lock held.
type Tracker struct {
	mu    sync.Mutex
	cfg   Config
	clock clock.Clock
	sched clock.Scheduler

	onSample func(Snapshot)
	onFinish func(model.TestResult)

	sess      model.TypingSession
	ref       []rune
	input     []rune
	startedAt time.Time
	endedAt   time.Time
	cancel    func()
	epoch     int
	result    model.TestResult
}

// New returns a configured tracker for the reference text.
func New(cfg Config, reference string, opts ...Option) *Tracker {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = DefaultSampleInterval
	}
	if cfg.Mode.Bound() == model.BoundTime && cfg.TimeBudget <= 0 {
		cfg.TimeBudget = DefaultTimeBudget
	}
	t := &Tracker{cfg: cfg, clock: clock.Real{}, sched: clock.Real{}}
	for _, opt := range opts {
		opt(t)
	}
	t.resetLocked(reference)
	return t
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Start begins the test. It reports false unless the tracker was configured and idle.
func (t *Tracker) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked()
}

func (t *Tracker) startLocked() bool {
	if t.sess.Active || t.sess.Finished {
		return false
	}
	t.startedAt = t.clock.Now()
	started := t.startedAt
	t.sess.StartTimestamp = &started
	t.sess.Active = true
	epoch := t.epoch
	t.cancel = t.sched.Every(t.cfg.SampleInterval, func() { t.tick(epoch) })
	return true
}

// OnInput replaces the input buffer. The first call starts the clock;
// calls after the test finished are ignored.
func (t *Tracker) OnInput(buffer string) {
	t.mu.Lock()
	if t.sess.Finished {
		t.mu.Unlock()
		return
	}
	if !t.sess.Active {
		t.startLocked()
	}
	input := []rune(buffer)
	if len(input) > len(t.ref) {
		input = input[:len(t.ref)]
	}
	t.input = input
	t.sess.InputBuffer = string(input)

	var res model.TestResult
	done := t.completeLocked()
	if done {
		res, done = t.finishLocked()
	}
	t.mu.Unlock()
	if done {
		t.notifyFinish(res)
	}
}

func (t *Tracker) tick(epoch int) {
	t.mu.Lock()
	if epoch != t.epoch || !t.sess.Active || t.sess.Finished {
		t.mu.Unlock()
		return
	}
	elapsed := t.elapsedLocked().Seconds()
	correct, _ := metrics.CountChars(t.ref, t.input)
	t.sess.SampledWPM = append(t.sess.SampledWPM, metrics.WPM(correct, elapsed))
	snap := t.snapshotLocked()

	var res model.TestResult
	done := t.completeLocked()
	if done {
		res, done = t.finishLocked()
		snap = t.snapshotLocked()
	}
	t.mu.Unlock()

	if t.onSample != nil {
		t.onSample(snap)
	}
	if done {
		t.notifyFinish(res)
	}
}

func (t *Tracker) completeLocked() bool {
	if !t.sess.Active || t.sess.Finished {
		return false
	}
	switch t.cfg.Mode.Bound() {
	case model.BoundTime:
		return t.clock.Now().Sub(t.startedAt) >= t.cfg.TimeBudget
	case model.BoundLength:
		return len(t.input) >= len(t.ref)
	default:
		return false
	}
}

// Finish ends the test and returns its result. Repeated calls return the same result.
func (t *Tracker) Finish() model.TestResult {
	t.mu.Lock()
	res, first := t.finishLocked()
	t.mu.Unlock()
	if first {
		t.notifyFinish(res)
	}
	return res
}

func (t *Tracker) finishLocked() (model.TestResult, bool) {
	if t.sess.Finished {
		return t.result, false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	elapsed := t.elapsedLocked()
	t.endedAt = t.clock.Now()
	if t.startedAt.IsZero() {
		t.startedAt = t.endedAt
	}
	t.sess.Active = false
	t.sess.Finished = true
	t.result = metrics.Reduce(metrics.Capture{
		Reference:      t.sess.ReferenceText,
		Input:          t.sess.InputBuffer,
		ElapsedSeconds: elapsed.Seconds(),
		Samples:        t.sess.SampledWPM,
	})
	return t.result, true
}

func (t *Tracker) notifyFinish(res model.TestResult) {
	if t.onFinish != nil {
		t.onFinish(res)
	}
}

// Reset stops any running sampler and returns the tracker to the configured state with a new reference text.
func (t *Tracker) Reset(reference string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked(reference)
}

func (t *Tracker) resetLocked(reference string) {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.epoch++
	t.ref = []rune(reference)
	t.input = nil
	t.startedAt = time.Time{}
	t.endedAt = time.Time{}
	t.result = model.TestResult{}
	t.sess = model.TypingSession{ReferenceText: reference}
}

// elapsedLocked is the running time, clamped to the budget in time-bounded modes.
func (t *Tracker) elapsedLocked() time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	end := t.endedAt
	if end.IsZero() {
		end = t.clock.Now()
	}
	elapsed := end.Sub(t.startedAt)
	if t.cfg.Mode.Bound() == model.BoundTime && elapsed > t.cfg.TimeBudget {
		elapsed = t.cfg.TimeBudget
	}
	return elapsed
}

// State returns the lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

func (t *Tracker) stateLocked() State {
	switch {
	case t.sess.Finished:
		return Finished
	case t.sess.Active:
		return Active
	default:
		return Configured
	}
}

// Session returns a copy of the session state.
func (t *Tracker) Session() model.TypingSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.sess
	s.SampledWPM = append([]int(nil), t.sess.SampledWPM...)
	if t.sess.StartTimestamp != nil {
		ts := *t.sess.StartTimestamp
		s.StartTimestamp = &ts
	}
	return s
}

// Result returns the final result once the test has finished.
func (t *Tracker) Result() (model.TestResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.sess.Finished
}

// Span returns when the test started and ended; zero values mean not yet.
func (t *Tracker) Span() (startedAt, endedAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt, t.endedAt
}
