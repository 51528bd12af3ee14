// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syn

import (
	"github.com/emer/emergent/erand"
)

// IClamp is the current-clamp electrode: a constant holding bias plus a
// rectangular pulse, with optional per-step random noise on the injected
// current.  Currents are in nA; positive is depolarizing.
type IClamp struct {
	erand.RndParams `view:"inline"`

	Bias  float64 `desc:"constant bias current (nA) applied for the whole run -- typically the holding-current solver's output"`
	Delay float64 `min:"0" desc:"pulse onset time (msec)"`
	Dur   float64 `min:"0" desc:"pulse duration (msec)"`
	Amp   float64 `desc:"pulse amplitude (nA)"`
	Noise bool    `desc:"add per-step noise drawn from the embedded random params to the injected current"`
	I     float64 `inactive:"+" desc:"current (nA) injected at the last evaluation"`
}

func NewIClamp() *IClamp {
	ic := &IClamp{}
	ic.Defaults()
	return ic
}

func (ic *IClamp) Defaults() {
	ic.Dist = erand.Gaussian
	ic.Mean = 0
	ic.Var = 0.01
}

// OnAt returns whether the pulse window covers time t (msec).
func (ic *IClamp) OnAt(t float64) bool {
	return t >= ic.Delay && t < ic.Delay+ic.Dur
}

// IAt returns the injected current (nA) for the step starting at time t.
// Noise, when enabled, is redrawn every call, so each step sees a fresh
// sample.
func (ic *IClamp) IAt(t float64) float64 {
	i := ic.Bias
	if ic.OnAt(t) {
		i += ic.Amp
	}
	if ic.Noise {
		i += ic.Gen(-1)
	}
	ic.I = i
	return i
}
