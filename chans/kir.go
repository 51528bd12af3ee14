// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "math"

// KirParams are the kinetic parameters of the inwardly rectifying potassium
// current (IKir): a single gate with steep activation below rest that
// stabilizes the hyperpolarized membrane and opposes the depolarizing drift
// from IH.  Gating is fast, with a shallow bell-shaped time constant
// centered on the half-activation voltage.
type KirParams struct {
	Gbar  float64 `def:"2e-05" min:"0" desc:"maximal conductance density (S/cm2)"`
	VHalf float64 `def:"-97.9" desc:"half-activation voltage (mV)"`
	Slope float64 `def:"9.7" min:"0.1" desc:"activation slope factor (mV)"`
}

func (kp *KirParams) Defaults() {
	kp.Gbar = 2e-5
	kp.VHalf = -97.9
	kp.Slope = 9.7
	kp.Update()
}

func (kp *KirParams) Update() {
}

// MinfFmV returns steady-state activation at voltage v
func (kp *KirParams) MinfFmV(v float64) float64 {
	return 1 / (1 + math.Exp((v-kp.VHalf)/kp.Slope))
}

// MTauFmV returns the activation time constant (msec) at voltage v
func (kp *KirParams) MTauFmV(v float64) float64 {
	return 0.5 + 9/(math.Exp((v-kp.VHalf)/12)+math.Exp(-(v-kp.VHalf)/12))
}

// Kir is an inward rectifier current instance
type Kir struct {
	KirParams
	M float64 `desc:"activation gate"`
	I float64 `inactive:"+" desc:"current density from last evaluation (mA/cm2)"`
}

// NewKir returns a new default-parameterized inward rectifier instance
func NewKir() *Kir {
	kr := &Kir{}
	kr.Defaults()
	return kr
}

func (kr *Kir) Kind() ChanKinds { return IKir }

func (kr *Kir) InitSteady(v float64, ion *Ions) {
	kr.M = kr.MinfFmV(v)
	kr.I = 0
}

func (kr *Kir) Step(v, dt float64, ion *Ions) {
	kr.M = GateExp(kr.M, kr.MinfFmV(v), kr.MTauFmV(v), dt)
}

func (kr *Kir) Current(v float64, ion *Ions) (i, g float64) {
	g = kr.Gbar * kr.M
	i = g * (v - ion.E.K)
	kr.I = i
	return
}

func (kr *Kir) ILast() float64 { return kr.I }

func (kr *Kir) NVars() int { return 1 }

func (kr *Kir) VarNames() []string { return []string{"m"} }

func (kr *Kir) Vars(ion *Ions, y []float64) {
	y[0] = kr.M
}

func (kr *Kir) SetVars(ion *Ions, y []float64) {
	kr.M = GateBound(y[0])
}

func (kr *Kir) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(kr.M, kr.MinfFmV(v), kr.MTauFmV(v))
}
