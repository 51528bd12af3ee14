// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "math"

// NaPParams are the kinetic parameters of the persistent (non-inactivating
// on spike timescales) sodium current (INaP): fast activation near rest
// amplifying depolarizations, with a very slow inactivation gate operating
// over seconds that modulates excitability between firing modes.
type NaPParams struct {
	Gbar float64 `def:"5.5e-06" min:"0" desc:"maximal conductance density (S/cm2)"`
	MTau float64 `def:"0.8" min:"0.01" desc:"activation time constant (msec), effectively instantaneous"`
}

func (np *NaPParams) Defaults() {
	np.Gbar = 5.5e-6
	np.MTau = 0.8
	np.Update()
}

func (np *NaPParams) Update() {
}

// MinfFmV returns steady-state activation at voltage v
func (np *NaPParams) MinfFmV(v float64) float64 {
	return 1 / (1 + math.Exp(-(v+57.9)/6.4))
}

// HinfFmV returns steady-state inactivation at voltage v
func (np *NaPParams) HinfFmV(v float64) float64 {
	return 1 / (1 + math.Exp((v+58.7)/14.2))
}

// HTauFmV returns the slow inactivation time constant (msec) at voltage v,
// ranging from ~1 s depolarized to ~10 s hyperpolarized
func (np *NaPParams) HTauFmV(v float64) float64 {
	return 1000 + 9000/(1+math.Exp((v+60)/10))
}

// NaP is a persistent sodium current instance
type NaP struct {
	NaPParams
	M float64 `desc:"activation gate"`
	H float64 `desc:"slow inactivation gate"`
	I float64 `inactive:"+" desc:"current density from last evaluation (mA/cm2)"`
}

// NewNaP returns a new default-parameterized persistent sodium instance
func NewNaP() *NaP {
	na := &NaP{}
	na.Defaults()
	return na
}

func (na *NaP) Kind() ChanKinds { return INaP }

func (na *NaP) InitSteady(v float64, ion *Ions) {
	na.M = na.MinfFmV(v)
	na.H = na.HinfFmV(v)
	na.I = 0
}

func (na *NaP) Step(v, dt float64, ion *Ions) {
	na.M = GateExp(na.M, na.MinfFmV(v), na.MTau, dt)
	na.H = GateExp(na.H, na.HinfFmV(v), na.HTauFmV(v), dt)
}

func (na *NaP) Current(v float64, ion *Ions) (i, g float64) {
	g = na.Gbar * na.M * na.H
	i = g * (v - ion.E.Na)
	na.I = i
	return
}

func (na *NaP) ILast() float64 { return na.I }

func (na *NaP) NVars() int { return 2 }

func (na *NaP) VarNames() []string { return []string{"m", "h"} }

func (na *NaP) Vars(ion *Ions, y []float64) {
	y[0] = na.M
	y[1] = na.H
}

func (na *NaP) SetVars(ion *Ions, y []float64) {
	na.M = GateBound(y[0])
	na.H = GateBound(y[1])
}

func (na *NaP) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(na.M, na.MinfFmV(v), na.MTau)
	dy[1] = GateDeriv(na.H, na.HinfFmV(v), na.HTauFmV(v))
}
