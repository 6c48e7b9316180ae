package profiler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepClock(t *testing.T) {
	c := NewStepClock(100, 10)
	require.EqualValues(t, 100, c.Peek())
	require.EqualValues(t, 110, c.Now())
	require.EqualValues(t, 120, c.Now())
	require.EqualValues(t, 120, c.Peek())
}

func TestStepClockConcurrent(t *testing.T) {
	c := NewStepClock(0, 1)
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				c.Now()
			}
		})
	}
	wg.Wait()
	require.EqualValues(t, 800, c.Peek())
}

func TestMonotonic(t *testing.T) {
	a := Monotonic.Now()
	b := Monotonic.Now()
	require.NotZero(t, a)
	require.GreaterOrEqual(t, b, a)
}

func TestClockFunc(t *testing.T) {
	var c Clock = ClockFunc(func() uint64 { return 42 })
	require.EqualValues(t, 42, c.Now())
}
