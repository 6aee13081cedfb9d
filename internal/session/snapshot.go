package session

import (
	"time"

	"github.com/verte-zerg/flowtype/internal/metrics"
	"github.com/verte-zerg/flowtype/internal/model"
)

// Snapshot is a point-in-time view of a running test for renderers.
type Snapshot struct {
	State     State         `json:"-"`
	Elapsed   time.Duration `json:"-"`
	Remaining time.Duration `json:"-"`
	WPM       int           `json:"wpm"`
	Accuracy  int           `json:"accuracy"`
	Typed     int           `json:"typed"`
	Progress  float64       `json:"progress"`
	Samples   []int         `json:"samples"`
}

// Snapshot returns live stats for the current test.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	elapsed := t.elapsedLocked()
	correct, _ := metrics.CountChars(t.ref, t.input)
	snap := Snapshot{
		State:    t.stateLocked(),
		Elapsed:  elapsed,
		WPM:      metrics.WPM(correct, elapsed.Seconds()),
		Accuracy: metrics.Accuracy(correct, len(t.input)),
		Typed:    len(t.input),
		Samples:  append([]int(nil), t.sess.SampledWPM...),
	}
	switch t.cfg.Mode.Bound() {
	case model.BoundTime:
		snap.Remaining = max(t.cfg.TimeBudget-elapsed, 0)
		snap.Progress = float64(elapsed) / float64(t.cfg.TimeBudget)
	case model.BoundLength:
		if len(t.ref) > 0 {
			snap.Progress = float64(len(t.input)) / float64(len(t.ref))
		}
	}
	if snap.State == Finished {
		snap.WPM = t.result.WPM
		snap.Accuracy = t.result.Accuracy
	}
	return snap
}
