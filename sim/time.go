// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

// sim.Time contains the timing state and step parameters for a run.
// Each Sim owns its own Time; nothing timing-related is global.
type Time struct {
	Time  float64 `inactive:"+" desc:"accumulated simulation time (msec)"`
	Step  int     `inactive:"+" desc:"number of accepted steps since Reset"`
	DtFix float64 `def:"0.1" min:"1e-06" desc:"fixed integration step (msec)"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.DtFix = 0.1
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	if tm.DtFix == 0 {
		tm.Defaults()
	}
}

// FixedInc increments by one fixed step.  Time is recomputed from the
// step count so long runs do not accumulate summation error.
func (tm *Time) FixedInc() {
	tm.Step++
	tm.Time = float64(tm.Step) * tm.DtFix
}

// Advance adds a variable step h (msec), for adaptive stepping.
func (tm *Time) Advance(h float64) {
	tm.Step++
	tm.Time += h
}
