package simclock

import (
	"sync"
	"time"
)

// Simulated is a virtual clock for deterministic simulation.
//
// Sleep advances the timeline by exactly the requested duration and returns
// immediately; no real time passes. The elapsed time is an accumulated sum,
// so repeated sleeps of one bit period stay exact integer multiples of it
// with no tick rounding.
//
// Simulated is safe for concurrent use, but the simulation model is a
// single logical timeline: concurrent sleepers advance the same clock
// independently rather than being interleaved by a scheduler.
type Simulated struct {
	mu      sync.Mutex
	elapsed time.Duration
}

var _ Clock = (*Simulated)(nil)

// NewSimulated creates a simulated clock at time zero.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Now returns the accumulated simulated time.
func (c *Simulated) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.elapsed
}

// Sleep advances the simulated time by d. Non-positive durations are a no-op.
func (c *Simulated) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	c.mu.Lock()
	c.elapsed += d
	c.mu.Unlock()
}
