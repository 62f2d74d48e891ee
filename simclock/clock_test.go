package simclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulated_SleepAdvancesExactly(t *testing.T) {
	c := NewSimulated()
	assert.Equal(t, time.Duration(0), c.Now())

	c.Sleep(104166 * time.Nanosecond)
	assert.Equal(t, 104166*time.Nanosecond, c.Now())

	// Accumulation, not tick rounding: n sleeps of one bit period land on
	// exactly n bit periods.
	bit := time.Second / 9600
	c2 := NewSimulated()
	for i := 0; i < 11; i++ {
		c2.Sleep(bit)
	}
	assert.Equal(t, 11*bit, c2.Now())
}

func TestSimulated_NonPositiveSleepIsNoOp(t *testing.T) {
	c := NewSimulated()
	c.Sleep(0)
	c.Sleep(-time.Second)
	assert.Equal(t, time.Duration(0), c.Now())
}

func TestWall_Now(t *testing.T) {
	c := NewWall()
	first := c.Now()
	c.Sleep(time.Millisecond)
	second := c.Now()

	assert.GreaterOrEqual(t, second-first, time.Millisecond)
}

func TestWall_NonPositiveSleepIsNoOp(t *testing.T) {
	c := NewWall()
	start := time.Now()
	c.Sleep(0)
	c.Sleep(-time.Second)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
