// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"math"

	"github.com/goki/ki/kit"
)

// TTypeParams are the kinetic parameters of the low-threshold T-type
// calcium current (IT), the burst generator of thalamic cells: inactive at
// depolarized potentials, de-inactivated by hyperpolarization, and producing
// a regenerative calcium spike on release.  Kinetics follow the
// voltage-clamp characterization of thalamocortical relay cells, with the
// current computed in the Goldman-Hodgkin-Katz constant-field form from
// calcium permeability and the intra/extracellular calcium concentrations.
type TTypeParams struct {
	PCa      float64   `def:"0.0002" min:"0" desc:"maximum calcium permeability density (cm/s)"`
	Shift    float64   `def:"2" desc:"uniform voltage shift (mV, positive = rightward) applied to all steady-state and time-constant curves, modeling screening-charge conditions"`
	SlopeMul float64   `def:"1" min:"0.1" desc:"multiplier on the steady-state slope factors, scaling the steepness of both activation and inactivation curves"`
	TauhMode TauhModes `desc:"functional form used for the inactivation time constant"`
	TauhMul  float64   `def:"2" min:"0" desc:"for TauhScaled mode: constant slowdown factor applied to the piecewise time constant"`
	TauhFix  float64   `def:"30" min:"0" desc:"for TauhConst mode: fixed voltage-independent inactivation time constant (msec)"`
	Celsius  float64   `def:"36" desc:"temperature (deg C) for the Q10 rate corrections (kinetics referenced to 24 C)"`
	PhiM     float64   `view:"-" json:"-" xml:"-" desc:"derived activation rate factor = 3.55^((Celsius-24)/10)"`
	PhiH     float64   `view:"-" json:"-" xml:"-" desc:"derived inactivation rate factor = 3^((Celsius-24)/10)"`
}

func (tp *TTypeParams) Defaults() {
	tp.PCa = 0.0002
	tp.Shift = 2
	tp.SlopeMul = 1
	tp.TauhMode = TauhPiecewise
	tp.TauhMul = 2
	tp.TauhFix = 30
	tp.Celsius = 36
	tp.Update()
}

func (tp *TTypeParams) Update() {
	tp.PhiM = Q10Factor(3.55, tp.Celsius, 24)
	tp.PhiH = Q10Factor(3, tp.Celsius, 24)
}

// MinfFmV returns steady-state activation at voltage v
func (tp *TTypeParams) MinfFmV(v float64) float64 {
	vs := v + tp.Shift
	return 1 / (1 + math.Exp(-(vs+57)/(6.2*tp.SlopeMul)))
}

// HinfFmV returns steady-state inactivation at voltage v
func (tp *TTypeParams) HinfFmV(v float64) float64 {
	vs := v + tp.Shift
	return 1 / (1 + math.Exp((vs+81)/(4.0*tp.SlopeMul)))
}

// MTauFmV returns the activation time constant (msec) at voltage v
func (tp *TTypeParams) MTauFmV(v float64) float64 {
	vs := v + tp.Shift
	return (0.612 + 1/(math.Exp(-(vs+132)/16.7)+math.Exp((vs+16.8)/18.2))) / tp.PhiM
}

// HTauFmV returns the inactivation time constant (msec) at voltage v,
// according to the selected TauhMode
func (tp *TTypeParams) HTauFmV(v float64) float64 {
	vs := v + tp.Shift
	switch tp.TauhMode {
	case TauhSmooth:
		return (30.8 + (211.4+math.Exp((vs+115.2)/5))/(1+math.Exp((vs+86)/3.2))) / tp.PhiH
	case TauhScaled:
		return tp.TauhMul * tp.tauhPiece(vs)
	case TauhConst:
		return tp.TauhFix
	}
	return tp.tauhPiece(vs)
}

// tauhPiece is the classic split-exponential inactivation time constant,
// in shifted voltage coordinates
func (tp *TTypeParams) tauhPiece(vs float64) float64 {
	if vs < -80 {
		return math.Exp((vs+467)/66.6) / tp.PhiH
	}
	return (28 + math.Exp(-(vs+22)/10.5)) / tp.PhiH
}

// TType is a T-type calcium current instance: kinetic parameters plus the
// m2h gating state and last computed current for one compartment.
type TType struct {
	TTypeParams
	M float64 `desc:"activation gate"`
	H float64 `desc:"inactivation gate"`
	I float64 `inactive:"+" desc:"current density from last evaluation (mA/cm2)"`
}

// NewTType returns a new default-parameterized T-type current instance
func NewTType() *TType {
	tt := &TType{}
	tt.Defaults()
	return tt
}

func (tt *TType) Kind() ChanKinds { return IT }

func (tt *TType) InitSteady(v float64, ion *Ions) {
	tt.M = tt.MinfFmV(v)
	tt.H = tt.HinfFmV(v)
	tt.I = 0
}

func (tt *TType) Step(v, dt float64, ion *Ions) {
	tt.M = GateExp(tt.M, tt.MinfFmV(v), tt.MTauFmV(v), dt)
	tt.H = GateExp(tt.H, tt.HinfFmV(v), tt.HTauFmV(v), dt)
}

func (tt *TType) Current(v float64, ion *Ions) (i, g float64) {
	p := tt.PCa * tt.M * tt.M * tt.H
	i = p * GHK(v, ion.Ca, ion.Cao, tt.Celsius)
	// constant-field form is nonlinear in v: slope conductance by finite
	// difference, as for any non-ohmic current
	g = p * (GHK(v+0.001, ion.Ca, ion.Cao, tt.Celsius) - GHK(v, ion.Ca, ion.Cao, tt.Celsius)) / 0.001
	tt.I = i
	ion.ICa += i
	return
}

func (tt *TType) ILast() float64 { return tt.I }

func (tt *TType) NVars() int { return 2 }

func (tt *TType) VarNames() []string { return []string{"m", "h"} }

func (tt *TType) Vars(ion *Ions, y []float64) {
	y[0] = tt.M
	y[1] = tt.H
}

func (tt *TType) SetVars(ion *Ions, y []float64) {
	tt.M = GateBound(y[0])
	tt.H = GateBound(y[1])
}

func (tt *TType) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(tt.M, tt.MinfFmV(v), tt.MTauFmV(v))
	dy[1] = GateDeriv(tt.H, tt.HinfFmV(v), tt.HTauFmV(v))
}

//////////////////////////////////////////////////////////////////////////////
//  TauhModes

// TauhModes are the selectable functional forms for the T-type current's
// inactivation time constant, reflecting different published fits
type TauhModes int

//go:generate stringer -type=TauhModes

var KiT_TauhModes = kit.Enums.AddEnum(TauhModesN, kit.NotBitFlag, nil)

func (ev TauhModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *TauhModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// TauhPiecewise is the classic split-exponential form: single
	// exponential below -80 mV, offset exponential above
	TauhPiecewise TauhModes = iota

	// TauhSmooth is a single continuous double-exponential-denominator fit
	// over the whole voltage range
	TauhSmooth

	// TauhScaled is the piecewise form multiplied by the constant TauhMul
	// slowdown factor
	TauhScaled

	// TauhConst is a fixed voltage-independent time constant TauhFix
	TauhConst

	TauhModesN
)
