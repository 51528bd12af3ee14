// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

// CaPoolParams are the parameters of the submembrane calcium pool (CaDyn):
// calcium influx from the T-type current is converted to a concentration
// rate in a thin shell below the membrane, and an ATPase pump returns
// [Ca]i to its resting level with a first-order time constant.  Only
// inward calcium flux drives accumulation; the pump never pulls [Ca]i
// below CaInf from influx alone.
type CaPoolParams struct {
	Depth float64 `def:"1" min:"0.01" desc:"depth of the submembrane shell (micron)"`
	Tau   float64 `def:"5" min:"0.01" desc:"pump removal time constant (msec)"`
	CaInf float64 `def:"0.00024" min:"0" desc:"resting equilibrium [Ca]i (mM)"`
}

func (cp *CaPoolParams) Defaults() {
	cp.Depth = 1
	cp.Tau = 5
	cp.CaInf = 2.4e-4
	cp.Update()
}

func (cp *CaPoolParams) Update() {
}

// DriveFmICa returns the shell concentration rate (mM/msec) from the
// accumulated calcium current density (mA/cm2, outward positive).  Inward
// (negative) current produces positive drive; outward flux is clipped to
// zero, as the pump alone handles removal.
func (cp *CaPoolParams) DriveFmICa(ica float64) float64 {
	drive := -1e4 * ica / (2 * Faraday * cp.Depth)
	if drive < 0 {
		return 0
	}
	return drive
}

// CaPool is a submembrane calcium pool instance.  The concentration state
// itself lives in the compartment's shared Ions, where the calcium-reading
// channels access it.
type CaPool struct {
	CaPoolParams
}

// NewCaPool returns a new default-parameterized calcium pool instance
func NewCaPool() *CaPool {
	cd := &CaPool{}
	cd.Defaults()
	return cd
}

func (cd *CaPool) Kind() ChanKinds { return CaDyn }

func (cd *CaPool) InitSteady(v float64, ion *Ions) {
	ion.Ca = cd.CaInf
}

// Step advances [Ca]i by the exact solution of the linear pool equation,
// holding the influx drive constant over the step
func (cd *CaPool) Step(v, dt float64, ion *Ions) {
	target := cd.CaInf + cd.Tau*cd.DriveFmICa(ion.ICa)
	ion.Ca = GateExp(ion.Ca, target, cd.Tau, dt)
}

func (cd *CaPool) Current(v float64, ion *Ions) (i, g float64) {
	return 0, 0
}

func (cd *CaPool) ILast() float64 { return 0 }

func (cd *CaPool) NVars() int { return 1 }

func (cd *CaPool) VarNames() []string { return []string{"ca"} }

func (cd *CaPool) Vars(ion *Ions, y []float64) {
	y[0] = ion.Ca
}

func (cd *CaPool) SetVars(ion *Ions, y []float64) {
	ca := y[0]
	if ca < 0 {
		ca = 0
	}
	ion.Ca = ca
}

func (cd *CaPool) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = cd.DriveFmICa(ion.ICa) + (cd.CaInf-ion.Ca)/cd.Tau
}
