// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "math"

// ATypeParams are the kinetic parameters of the fast transient A-type
// potassium current (IA): rapidly activating and inactivating, it delays
// the onset of rebound bursts and slows repetitive firing.  m4h gating,
// kinetics referenced to 23.5 C with Q10 = 3.
type ATypeParams struct {
	Gbar    float64 `def:"0.0055" min:"0" desc:"maximal conductance density (S/cm2)"`
	Celsius float64 `def:"36" desc:"temperature (deg C) for the Q10 rate correction"`
	Phi     float64 `view:"-" json:"-" xml:"-" desc:"derived rate factor = 3^((Celsius-23.5)/10)"`
}

func (ap *ATypeParams) Defaults() {
	ap.Gbar = 0.0055
	ap.Celsius = 36
	ap.Update()
}

func (ap *ATypeParams) Update() {
	ap.Phi = Q10Factor(3, ap.Celsius, 23.5)
}

// MinfFmV returns steady-state activation at voltage v
func (ap *ATypeParams) MinfFmV(v float64) float64 {
	return 1 / (1 + math.Exp(-(v+60)/8.5))
}

// HinfFmV returns steady-state inactivation at voltage v
func (ap *ATypeParams) HinfFmV(v float64) float64 {
	return 1 / (1 + math.Exp((v+78)/6))
}

// MTauFmV returns the activation time constant (msec) at voltage v
func (ap *ATypeParams) MTauFmV(v float64) float64 {
	return (0.37 + 1/(math.Exp((v+35.8)/19.7)+math.Exp(-(v+79.7)/12.7))) / ap.Phi
}

// HTauFmV returns the inactivation time constant (msec) at voltage v:
// voltage-dependent below -63 mV, constant above
func (ap *ATypeParams) HTauFmV(v float64) float64 {
	if v < -63 {
		return 1 / (math.Exp((v+46)/5) + math.Exp(-(v+238)/37.5)) / ap.Phi
	}
	return 19 / ap.Phi
}

// AType is an A-type potassium current instance
type AType struct {
	ATypeParams
	M float64 `desc:"activation gate"`
	H float64 `desc:"inactivation gate"`
	I float64 `inactive:"+" desc:"current density from last evaluation (mA/cm2)"`
}

// NewAType returns a new default-parameterized A-type current instance
func NewAType() *AType {
	at := &AType{}
	at.Defaults()
	return at
}

func (at *AType) Kind() ChanKinds { return IA }

func (at *AType) InitSteady(v float64, ion *Ions) {
	at.M = at.MinfFmV(v)
	at.H = at.HinfFmV(v)
	at.I = 0
}

func (at *AType) Step(v, dt float64, ion *Ions) {
	at.M = GateExp(at.M, at.MinfFmV(v), at.MTauFmV(v), dt)
	at.H = GateExp(at.H, at.HinfFmV(v), at.HTauFmV(v), dt)
}

func (at *AType) Current(v float64, ion *Ions) (i, g float64) {
	m2 := at.M * at.M
	g = at.Gbar * m2 * m2 * at.H
	i = g * (v - ion.E.K)
	at.I = i
	return
}

func (at *AType) ILast() float64 { return at.I }

func (at *AType) NVars() int { return 2 }

func (at *AType) VarNames() []string { return []string{"m", "h"} }

func (at *AType) Vars(ion *Ions, y []float64) {
	y[0] = at.M
	y[1] = at.H
}

func (at *AType) SetVars(ion *Ions, y []float64) {
	at.M = GateBound(y[0])
	at.H = GateBound(y[1])
}

func (at *AType) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(at.M, at.MinfFmV(v), at.MTauFmV(v))
	dy[1] = GateDeriv(at.H, at.HinfFmV(v), at.HTauFmV(v))
}
