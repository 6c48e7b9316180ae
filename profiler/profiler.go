// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package profiler provides the time sources used to stamp display list
// descriptors.
package profiler

import (
	"sync/atomic"
	"time"
)

// Clock returns monotonically non-decreasing timestamps in nanoseconds.
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() uint64

func (f ClockFunc) Now() uint64 { return f() }

var epoch = time.Now()

type monotonic struct{}

// Now returns nanoseconds since process start, measured with the monotonic
// clock. It never returns 0, which marks an unset timestamp.
func (monotonic) Now() uint64 {
	return uint64(time.Since(epoch).Nanoseconds()) + 1
}

// Monotonic is the default clock.
var Monotonic Clock = monotonic{}

// StepClock is a deterministic clock for tests. Every call to Now advances
// it by Step and returns the new value.
type StepClock struct {
	Step uint64
	t    atomic.Uint64
}

func NewStepClock(start, step uint64) *StepClock {
	c := &StepClock{Step: step}
	c.t.Store(start)
	return c
}

func (c *StepClock) Now() uint64 {
	return c.t.Add(c.Step)
}

// Peek returns the last value returned by Now without advancing the clock.
func (c *StepClock) Peek() uint64 {
	return c.t.Load()
}
