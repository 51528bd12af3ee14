// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "math"

// HHParams are the kinetic parameters of the fast sodium + delayed
// rectifier potassium spiking currents (IHH), in the Traub-Miles
// alpha/beta rate form with a uniform threshold-setting voltage shift
// (VTraub).  These currents produce the large-amplitude action potentials
// riding on low-threshold bursts, and their stiffness is why fixed-step
// integration is required whenever they are active.
type HHParams struct {
	GNa     float64 `def:"0.09" min:"0" desc:"maximal sodium conductance density (S/cm2)"`
	GK      float64 `def:"0.01" min:"0" desc:"maximal potassium conductance density (S/cm2)"`
	VTraub  float64 `def:"-55" desc:"rate-equation voltage shift (mV) setting spike threshold"`
	Celsius float64 `def:"36" desc:"temperature (deg C) for the Q10 rate correction (reference 36 C)"`
	Tadj    float64 `view:"-" json:"-" xml:"-" desc:"derived rate factor = 3^((Celsius-36)/10)"`
}

func (hp *HHParams) Defaults() {
	hp.GNa = 0.09
	hp.GK = 0.01
	hp.VTraub = -55
	hp.Celsius = 36
	hp.Update()
}

func (hp *HHParams) Update() {
	hp.Tadj = Q10Factor(3, hp.Celsius, 36)
}

// MRates returns the sodium activation opening and closing rates (1/msec)
// at voltage v
func (hp *HHParams) MRates(v float64) (a, b float64) {
	v2 := v - hp.VTraub
	a = 1.28 * EFun((13-v2)/4)
	b = 1.4 * EFun((v2-40)/5)
	return
}

// HRates returns the sodium inactivation opening and closing rates (1/msec)
// at voltage v
func (hp *HHParams) HRates(v float64) (a, b float64) {
	v2 := v - hp.VTraub
	a = 0.128 * math.Exp((17-v2)/18)
	b = 4 / (1 + math.Exp((40-v2)/5))
	return
}

// NRates returns the potassium activation opening and closing rates (1/msec)
// at voltage v
func (hp *HHParams) NRates(v float64) (a, b float64) {
	v2 := v - hp.VTraub
	a = 0.16 * EFun((15-v2)/5)
	b = 0.5 * math.Exp((10-v2)/40)
	return
}

// MinfFmV returns steady-state sodium activation at voltage v
func (hp *HHParams) MinfFmV(v float64) float64 {
	a, b := hp.MRates(v)
	return a / (a + b)
}

// MTauFmV returns the sodium activation time constant (msec) at voltage v
func (hp *HHParams) MTauFmV(v float64) float64 {
	a, b := hp.MRates(v)
	return 1 / (a + b) / hp.Tadj
}

// HinfFmV returns steady-state sodium inactivation at voltage v
func (hp *HHParams) HinfFmV(v float64) float64 {
	a, b := hp.HRates(v)
	return a / (a + b)
}

// HTauFmV returns the sodium inactivation time constant (msec) at voltage v
func (hp *HHParams) HTauFmV(v float64) float64 {
	a, b := hp.HRates(v)
	return 1 / (a + b) / hp.Tadj
}

// NinfFmV returns steady-state potassium activation at voltage v
func (hp *HHParams) NinfFmV(v float64) float64 {
	a, b := hp.NRates(v)
	return a / (a + b)
}

// NTauFmV returns the potassium activation time constant (msec) at voltage v
func (hp *HHParams) NTauFmV(v float64) float64 {
	a, b := hp.NRates(v)
	return 1 / (a + b) / hp.Tadj
}

// HH is a fast spiking current pair instance: m3h sodium plus n4 potassium
type HH struct {
	HHParams
	M   float64 `desc:"sodium activation gate"`
	H   float64 `desc:"sodium inactivation gate"`
	N   float64 `desc:"potassium activation gate"`
	INa float64 `inactive:"+" desc:"sodium current density from last evaluation (mA/cm2)"`
	IK  float64 `inactive:"+" desc:"potassium current density from last evaluation (mA/cm2)"`
}

// NewHH returns a new default-parameterized fast spiking instance
func NewHH() *HH {
	hh := &HH{}
	hh.Defaults()
	return hh
}

func (hh *HH) Kind() ChanKinds { return IHH }

func (hh *HH) InitSteady(v float64, ion *Ions) {
	hh.M = hh.MinfFmV(v)
	hh.H = hh.HinfFmV(v)
	hh.N = hh.NinfFmV(v)
	hh.INa = 0
	hh.IK = 0
}

func (hh *HH) Step(v, dt float64, ion *Ions) {
	hh.M = GateExp(hh.M, hh.MinfFmV(v), hh.MTauFmV(v), dt)
	hh.H = GateExp(hh.H, hh.HinfFmV(v), hh.HTauFmV(v), dt)
	hh.N = GateExp(hh.N, hh.NinfFmV(v), hh.NTauFmV(v), dt)
}

func (hh *HH) Current(v float64, ion *Ions) (i, g float64) {
	gna := hh.GNa * hh.M * hh.M * hh.M * hh.H
	n2 := hh.N * hh.N
	gk := hh.GK * n2 * n2
	hh.INa = gna * (v - ion.E.Na)
	hh.IK = gk * (v - ion.E.K)
	i = hh.INa + hh.IK
	g = gna + gk
	return
}

func (hh *HH) ILast() float64 { return hh.INa + hh.IK }

func (hh *HH) NVars() int { return 3 }

func (hh *HH) VarNames() []string { return []string{"m", "h", "n"} }

func (hh *HH) Vars(ion *Ions, y []float64) {
	y[0] = hh.M
	y[1] = hh.H
	y[2] = hh.N
}

func (hh *HH) SetVars(ion *Ions, y []float64) {
	hh.M = GateBound(y[0])
	hh.H = GateBound(y[1])
	hh.N = GateBound(y[2])
}

func (hh *HH) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(hh.M, hh.MinfFmV(v), hh.MTauFmV(v))
	dy[1] = GateDeriv(hh.H, hh.HinfFmV(v), hh.HTauFmV(v))
	dy[2] = GateDeriv(hh.N, hh.NinfFmV(v), hh.NTauFmV(v))
}
