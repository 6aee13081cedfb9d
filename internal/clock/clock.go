// Package clock abstracts wall time and periodic scheduling so session timing can run on virtual time in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs fn every interval until the returned cancel func is called.
// Cancel is idempotent and never waits for an in-flight fn, so fn may cancel its own schedule.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// Real uses the system clock and time.Ticker.
type Real struct{}

// Now implements Clock.
func (Real) Now() time.Time {
	return time.Now()
}

// Every implements Scheduler with one goroutine per schedule.
func (Real) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return func() {
		once.Do(func() { close(done) })
	}
}
