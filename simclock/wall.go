package simclock

import (
	"sync"
	"time"
)

// timerPool recycles timers across Sleep calls to avoid allocating a new
// timer for every bit period at high baud rates.
var timerPool sync.Pool

func getTimer(d time.Duration) *time.Timer {
	if v := timerPool.Get(); v != nil {
		t, _ := v.(*time.Timer) // only *time.Timer is ever put into the pool
		if t.Reset(d) {
			// Timer was active, drain the channel to prevent potential leaks.
			select {
			case <-t.C:
			default:
			}
		}
		return t
	}
	return time.NewTimer(d)
}

func putTimer(t *time.Timer) {
	if !t.Stop() {
		// Drain t.C if it wasn't consumed by the caller yet.
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}

// Wall is a real-time clock, for driving an actual DUT.
//
// Note that wall-clock sleeps are subject to OS timer resolution; exact
// bit timing at high baud rates is only guaranteed by the simulated clock.
type Wall struct {
	start time.Time
}

var _ Clock = (*Wall)(nil)

// NewWall creates a wall clock whose session start is the moment of the call.
func NewWall() *Wall {
	return &Wall{start: time.Now()}
}

// Now returns the real time elapsed since the clock was created.
func (c *Wall) Now() time.Duration {
	return time.Since(c.start)
}

// Sleep blocks for d of real time. Non-positive durations are a no-op.
func (c *Wall) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	t := getTimer(d)
	<-t.C
	putTimer(t)
}
