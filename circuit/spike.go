// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import "math"

// SpikeParams are the shared spike detection settings for every cell.
type SpikeParams struct {
	Thr     float64 `def:"0" desc:"spike threshold (mV): an upward crossing of this potential is a spike"`
	Refract float64 `def:"3" min:"0" desc:"refractory hold (msec): crossings within this window of the last spike are ignored"`
}

func (sp *SpikeParams) Defaults() {
	sp.Thr = 0
	sp.Refract = 3
}

// SpikeDetector detects somatic spikes as upward threshold crossings
// with a refractory hold, keeping the crossing times for reporting.
type SpikeDetector struct {
	SpikeParams
	N     int       `inactive:"+" desc:"number of spikes detected"`
	LastT float64   `inactive:"+" desc:"time of the last detected spike (msec)"`
	Times []float64 `view:"-" desc:"detected spike times (msec)"`

	prev float64
}

// Init resets detection state; v is the membrane potential at time 0.
func (sd *SpikeDetector) Init(v float64) {
	sd.N = 0
	sd.LastT = -math.MaxFloat64
	sd.Times = sd.Times[:0]
	sd.prev = v
}

// Detect reports whether potential v at time t is an upward threshold
// crossing outside the refractory window.  Call once per step with the
// post-step somatic potential; the previous call's value is the
// crossing reference.
func (sd *SpikeDetector) Detect(v, t float64) bool {
	up := sd.prev < sd.Thr && v >= sd.Thr
	sd.prev = v
	if !up || t-sd.LastT < sd.Refract {
		return false
	}
	sd.N++
	sd.LastT = t
	sd.Times = append(sd.Times, t)
	return true
}
