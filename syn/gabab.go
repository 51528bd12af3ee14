// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package syn provides the point processes attached to individual
compartments: the GABA-B shaped synaptic conductance used as the IPSC
model, discrete event scheduling for synaptic activation, the current
clamp electrode with optional per-step noise, and the series-resistance
voltage clamp used transiently by the holding-current solver.

Point processes work in absolute units (uS, nA, mV) and contribute to a
compartment through its per-step stimulus accumulators (AddInj / AddG),
so their conductances enter the implicit voltage solve.
*/
package syn

import (
	"math"
)

// GABABParams are the kernel parameters for the GABA-B shaped synaptic
// conductance: a double-exponential rise multiplying a biexponential
// decay, with the event weight acting as the fast-decay mixing fraction.
type GABABParams struct {
	Gmax        float64 `def:"0.005" min:"0" desc:"peak conductance (uS) of a single event with weight 1"`
	Erev        float64 `def:"0" desc:"synaptic reversal potential (mV); the IPSC model uses 0"`
	RiseTau     float64 `def:"25" min:"0.1" desc:"rise time constant (msec)"`
	FallFastTau float64 `def:"110" min:"0.1" desc:"fast decay time constant (msec)"`
	FallSlowTau float64 `def:"700" min:"0.1" desc:"slow decay time constant (msec)"`
	FastFrac    float64 `def:"0.85" min:"0" max:"1" desc:"default fast-decay mixing fraction for events that do not carry their own weight"`
	Norm        float64 `view:"-" json:"-" xml:"-" desc:"derived normalization so a weight-1 event peaks at Gmax"`
	PeakT       float64 `view:"-" json:"-" xml:"-" desc:"derived time from trigger to kernel peak (msec)"`
}

func (gp *GABABParams) Defaults() {
	gp.Gmax = 0.005
	gp.Erev = 0
	gp.RiseTau = 25
	gp.FallFastTau = 110
	gp.FallSlowTau = 700
	gp.FastFrac = 0.85
	gp.Update()
}

// raw is the unnormalized kernel for a weight-w event at elapsed time t.
func (gp *GABABParams) raw(t, w float64) float64 {
	if t < 0 {
		return 0
	}
	d := w*math.Exp(-t/gp.FallFastTau) + (1-w)*math.Exp(-t/gp.FallSlowTau)
	return (1 - math.Exp(-t/gp.RiseTau)) * d
}

// Update recomputes the peak normalization by locating the kernel maximum
// for the default mixing fraction.  The peak lies between the peak times
// of the pure fast and pure slow components, and the kernel is unimodal
// there, so a ternary search converges.
func (gp *GABABParams) Update() {
	hi := gp.RiseTau * math.Log(1+gp.FallSlowTau/gp.RiseTau)
	lo := 0.0
	for it := 0; it < 200; it++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if gp.raw(m1, gp.FastFrac) < gp.raw(m2, gp.FastFrac) {
			lo = m1
		} else {
			hi = m2
		}
	}
	gp.PeakT = 0.5 * (lo + hi)
	pk := gp.raw(gp.PeakT, gp.FastFrac)
	if pk > 0 {
		gp.Norm = 1 / pk
	} else {
		gp.Norm = 1
	}
}

// KernelAt returns the normalized conductance (uS) of a single weight-w
// event at elapsed time t, in closed form.  The stepped states reproduce
// this exactly because all four underlying exponentials decay exactly.
func (gp *GABABParams) KernelAt(t, w float64) float64 {
	return gp.Gmax * gp.Norm * gp.raw(t, w)
}

// GABABSyn is a GABA-B shaped synaptic point process.  Its conductance is
// the sum of four exact exponential states: the fast and slow decay terms
// and their rise-product terms, so any number of overlapping events
// superpose linearly.  At the trigger instant the conductance is exactly
// zero and rises monotonically over the rise time constant.
type GABABSyn struct {
	GABABParams
	F  float64 `desc:"fast decay state"`
	S  float64 `desc:"slow decay state"`
	FR float64 `desc:"fast decay x rise product state"`
	SR float64 `desc:"slow decay x rise product state"`
	G  float64 `inactive:"+" desc:"conductance (uS) at the last evaluation"`
	I  float64 `inactive:"+" desc:"current (nA) at the last evaluation"`
}

func NewGABABSyn() *GABABSyn {
	sy := &GABABSyn{}
	sy.Defaults()
	return sy
}

// Init clears all kernel states and the last conductance and current.
func (sy *GABABSyn) Init() {
	sy.F, sy.S, sy.FR, sy.SR = 0, 0, 0, 0
	sy.G, sy.I = 0, 0
}

// Deliver activates the synapse with the given event weight, the fast-decay
// mixing fraction for this event (slow fraction = 1-w).  The conductance
// contribution of this event starts at exactly zero.
func (sy *GABABSyn) Deliver(w float64) {
	a := sy.Gmax * sy.Norm * w
	b := sy.Gmax * sy.Norm * (1 - w)
	sy.F += a
	sy.FR += a
	sy.S += b
	sy.SR += b
}

// DeliverP activates the synapse at the default fast-decay mixing
// fraction, scaled by release probability p in 0..1.  Spike-driven
// events use this form: p scales the response amplitude and the kernel
// shape stays at its default mix.
func (sy *GABABSyn) DeliverP(p float64) {
	a := sy.Gmax * sy.Norm * p
	sy.F += a * sy.FastFrac
	sy.FR += a * sy.FastFrac
	sy.S += a * (1 - sy.FastFrac)
	sy.SR += a * (1 - sy.FastFrac)
}

// Step advances the four kernel states by dt msec with exact exponential
// decay; the product states decay at the combined rise+decay rate.
func (sy *GABABSyn) Step(dt float64) {
	sy.F *= math.Exp(-dt / sy.FallFastTau)
	sy.S *= math.Exp(-dt / sy.FallSlowTau)
	sy.FR *= math.Exp(-dt * (1/sy.FallFastTau + 1/sy.RiseTau))
	sy.SR *= math.Exp(-dt * (1/sy.FallSlowTau + 1/sy.RiseTau))
}

// Gsyn returns the present conductance (uS), caching it in G.
func (sy *GABABSyn) Gsyn() float64 {
	sy.G = (sy.F - sy.FR) + (sy.S - sy.SR)
	if sy.G < 0 {
		sy.G = 0
	}
	return sy.G
}

// GsynAt returns the conductance (uS) tau msec ahead of the present
// states without advancing them, exact because all four states decay
// exponentially.  Adaptive stepping uses this to evaluate the kernel at
// trial points inside a step.
func (sy *GABABSyn) GsynAt(tau float64) float64 {
	f := sy.F * math.Exp(-tau/sy.FallFastTau)
	s := sy.S * math.Exp(-tau/sy.FallSlowTau)
	fr := sy.FR * math.Exp(-tau*(1/sy.FallFastTau+1/sy.RiseTau))
	sr := sy.SR * math.Exp(-tau*(1/sy.FallSlowTau+1/sy.RiseTau))
	g := (f - fr) + (s - sr)
	if g < 0 {
		g = 0
	}
	return g
}

// CurrentAt reports the synaptic current (nA) at membrane potential v,
// caching it in I.
func (sy *GABABSyn) CurrentAt(v float64) float64 {
	sy.I = sy.Gsyn() * (v - sy.Erev)
	return sy.I
}
