// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "math"

// HCurrentParams are the kinetic parameters of the hyperpolarization-
// activated anomalous rectifier cation current (IH): a single slow gate
// that opens below rest and depolarizes the cell back toward threshold,
// pacing the rhythmic return from the hyperpolarized phase.  The mixed
// Na/K reversal (~ -43 mV) comes from the compartment's Erevs.
type HCurrentParams struct {
	Gbar     float64 `def:"2.2e-05" min:"0" desc:"maximal conductance density (S/cm2)"`
	Shift    float64 `def:"0" desc:"voltage shift (mV, positive = rightward) applied to activation and time-constant curves"`
	SlopeMul float64 `def:"1" min:"0.1" desc:"multiplier on the activation slope factor"`
}

func (hp *HCurrentParams) Defaults() {
	hp.Gbar = 2.2e-5
	hp.Shift = 0
	hp.SlopeMul = 1
	hp.Update()
}

func (hp *HCurrentParams) Update() {
}

// MinfFmV returns steady-state activation at voltage v
func (hp *HCurrentParams) MinfFmV(v float64) float64 {
	vs := v + hp.Shift
	return 1 / (1 + math.Exp((vs+75)/(5.5*hp.SlopeMul)))
}

// MTauFmV returns the activation time constant (msec) at voltage v, from
// the double-exponential rate fit to sag-current relaxations
func (hp *HCurrentParams) MTauFmV(v float64) float64 {
	vs := v + hp.Shift
	return 1 / (math.Exp(-14.59-0.086*vs) + math.Exp(-1.87+0.0701*vs))
}

// HCurrent is an anomalous rectifier current instance
type HCurrent struct {
	HCurrentParams
	M float64 `desc:"activation gate"`
	I float64 `inactive:"+" desc:"current density from last evaluation (mA/cm2)"`
}

// NewHCurrent returns a new default-parameterized h-current instance
func NewHCurrent() *HCurrent {
	hc := &HCurrent{}
	hc.Defaults()
	return hc
}

func (hc *HCurrent) Kind() ChanKinds { return IH }

func (hc *HCurrent) InitSteady(v float64, ion *Ions) {
	hc.M = hc.MinfFmV(v)
	hc.I = 0
}

func (hc *HCurrent) Step(v, dt float64, ion *Ions) {
	hc.M = GateExp(hc.M, hc.MinfFmV(v), hc.MTauFmV(v), dt)
}

func (hc *HCurrent) Current(v float64, ion *Ions) (i, g float64) {
	g = hc.Gbar * hc.M
	i = g * (v - ion.E.H)
	hc.I = i
	return
}

func (hc *HCurrent) ILast() float64 { return hc.I }

func (hc *HCurrent) NVars() int { return 1 }

func (hc *HCurrent) VarNames() []string { return []string{"m"} }

func (hc *HCurrent) Vars(ion *Ions, y []float64) {
	y[0] = hc.M
}

func (hc *HCurrent) SetVars(ion *Ions, y []float64) {
	hc.M = GateBound(y[0])
}

func (hc *HCurrent) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(hc.M, hc.MinfFmV(v), hc.MTauFmV(v))
}
