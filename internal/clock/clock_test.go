package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeAdvanceFiresInOrder(t *testing.T) {
	start := time.Unix(100, 0)
	f := NewFake(start)
	var fired []time.Time
	cancel := f.Every(time.Second, func() {
		fired = append(fired, f.Now())
	})
	f.Advance(3500 * time.Millisecond)
	assert.Equal(t, []time.Time{
		start.Add(1 * time.Second),
		start.Add(2 * time.Second),
		start.Add(3 * time.Second),
	}, fired)
	assert.Equal(t, start.Add(3500*time.Millisecond), f.Now())

	cancel()
	cancel()
	f.Advance(5 * time.Second)
	assert.Len(t, fired, 3)
	assert.Equal(t, 0, f.Pending())
}

func TestFakeCallbackCanCancelItself(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	count := 0
	var cancel func()
	cancel = f.Every(time.Second, func() {
		count++
		if count == 2 {
			cancel()
		}
	})
	f.Advance(10 * time.Second)
	assert.Equal(t, 2, count)
}

func TestRealEveryStops(t *testing.T) {
	var n atomic.Int32
	cancel := Real{}.Every(5*time.Millisecond, func() {
		n.Add(1)
	})
	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, n.Load(), stopped+1)
}
