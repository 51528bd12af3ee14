// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

// KCaParams are the kinetic parameters of the calcium-activated potassium
// (afterhyperpolarization) current (IKCa): activation is driven by the
// intracellular calcium concentration rather than voltage, with opening
// rate proportional to [Ca]i^2, terminating bursts and spacing oscillation
// cycles.  Kinetics referenced to 22 C with Q10 = 3.
type KCaParams struct {
	Gbar    float64 `def:"0.0003" min:"0" desc:"maximal conductance density (S/cm2)"`
	CaRate  float64 `def:"48" min:"0" desc:"opening rate coefficient (1/msec per mM^2): alpha = CaRate * [Ca]i^2"`
	Beta    float64 `def:"0.03" min:"0" desc:"closing rate (1/msec)"`
	TauMin  float64 `def:"0.1" min:"0" desc:"floor on the gating time constant (msec), keeping the exact update well defined at high [Ca]i"`
	Celsius float64 `def:"36" desc:"temperature (deg C) for the Q10 rate correction"`
	Tadj    float64 `view:"-" json:"-" xml:"-" desc:"derived rate factor = 3^((Celsius-22)/10)"`
}

func (kp *KCaParams) Defaults() {
	kp.Gbar = 0.0003
	kp.CaRate = 48
	kp.Beta = 0.03
	kp.TauMin = 0.1
	kp.Celsius = 36
	kp.Update()
}

func (kp *KCaParams) Update() {
	kp.Tadj = Q10Factor(3, kp.Celsius, 22)
}

// MinfFmCa returns steady-state activation at calcium concentration ca (mM)
func (kp *KCaParams) MinfFmCa(ca float64) float64 {
	a := kp.CaRate * ca * ca
	return a / (a + kp.Beta)
}

// MTauFmCa returns the gating time constant (msec) at calcium
// concentration ca (mM), floored at TauMin
func (kp *KCaParams) MTauFmCa(ca float64) float64 {
	a := kp.CaRate * ca * ca
	tau := 1 / (a + kp.Beta) / kp.Tadj
	if tau < kp.TauMin {
		return kp.TauMin
	}
	return tau
}

// KCa is a calcium-activated potassium current instance
type KCa struct {
	KCaParams
	M float64 `desc:"activation gate"`
	I float64 `inactive:"+" desc:"current density from last evaluation (mA/cm2)"`
}

// NewKCa returns a new default-parameterized calcium-activated potassium
// instance
func NewKCa() *KCa {
	kc := &KCa{}
	kc.Defaults()
	return kc
}

func (kc *KCa) Kind() ChanKinds { return IKCa }

func (kc *KCa) InitSteady(v float64, ion *Ions) {
	kc.M = kc.MinfFmCa(ion.Ca)
	kc.I = 0
}

func (kc *KCa) Step(v, dt float64, ion *Ions) {
	kc.M = GateExp(kc.M, kc.MinfFmCa(ion.Ca), kc.MTauFmCa(ion.Ca), dt)
}

func (kc *KCa) Current(v float64, ion *Ions) (i, g float64) {
	g = kc.Gbar * kc.M * kc.M
	i = g * (v - ion.E.K)
	kc.I = i
	return
}

func (kc *KCa) ILast() float64 { return kc.I }

func (kc *KCa) NVars() int { return 1 }

func (kc *KCa) VarNames() []string { return []string{"m"} }

func (kc *KCa) Vars(ion *Ions, y []float64) {
	y[0] = kc.M
}

func (kc *KCa) SetVars(ion *Ions, y []float64) {
	kc.M = GateBound(y[0])
}

func (kc *KCa) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = GateDeriv(kc.M, kc.MinfFmCa(ion.Ca), kc.MTauFmCa(ion.Ca))
}
