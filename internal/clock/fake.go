package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock and Scheduler.
// Callbacks fire synchronously inside Advance, in due-time order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers map[int]*fakeTimer
}

type fakeTimer struct {
	id       int
	interval time.Duration
	next     time.Time
	fn       func()
}

// NewFake returns a Fake starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start, timers: map[int]*fakeTimer{}}
}

// Now implements Clock.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Every implements Scheduler.
func (f *Fake) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.timers[id] = &fakeTimer{id: id, interval: interval, next: f.now.Add(interval), fn: fn}
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.timers, id)
		f.mu.Unlock()
	}
}

// Advance moves virtual time forward by d, firing every callback that comes due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()
	for {
		f.mu.Lock()
		t := f.earliestDue(target)
		if t == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = t.next
		t.next = t.next.Add(t.interval)
		fn := t.fn
		f.mu.Unlock()
		fn()
	}
}

// Pending returns the number of active schedules.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *Fake) earliestDue(target time.Time) *fakeTimer {
	var best *fakeTimer
	for _, t := range f.timers {
		if t.next.After(target) {
			continue
		}
		if best == nil || t.next.Before(best.next) || (t.next.Equal(best.next) && t.id < best.id) {
			best = t
		}
	}
	return best
}
