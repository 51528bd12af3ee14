// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

// ClPoolParams are the parameters of the intracellular chloride pool
// (ClDyn): chloride carried by inhibitory synaptic current accumulates in
// the compartment, a KCC2-style cotransporter extrudes it back toward the
// resting level with a slow time constant, and adjacent compartments can
// exchange chloride diffusively.  The chloride reversal potential is
// recomputed from [Cl]i by the Nernst equation every step, so sustained
// inhibition progressively weakens itself.
type ClPoolParams struct {
	Depth    float64 `def:"1" min:"0.01" desc:"depth of the submembrane shell (micron)"`
	Tau      float64 `def:"3000" min:"1" desc:"KCC2 extrusion time constant (msec)"`
	ClInf    float64 `def:"6" min:"0" desc:"resting equilibrium [Cl]i (mM)"`
	Clo      float64 `def:"130.5" min:"0.1" desc:"extracellular chloride concentration (mM)"`
	DiffRate float64 `def:"0" min:"0" desc:"diffusive exchange rate with adjacent compartments (1/msec); 0 = no diffusion"`
	Celsius  float64 `def:"36" desc:"temperature (deg C) for the Nernst potential"`
}

func (cp *ClPoolParams) Defaults() {
	cp.Depth = 1
	cp.Tau = 3000
	cp.ClInf = 6
	cp.Clo = 130.5
	cp.DiffRate = 0
	cp.Celsius = 36
	cp.Update()
}

func (cp *ClPoolParams) Update() {
}

// DriveFmICl returns the shell concentration rate (mM/msec) from the
// accumulated chloride current density (mA/cm2, outward positive).
// Outward positive current is carried by chloride ions entering the cell,
// so positive current raises [Cl]i.
func (cp *ClPoolParams) DriveFmICl(icl float64) float64 {
	return 1e4 * icl / (Faraday * cp.Depth)
}

// EClFmCl returns the chloride reversal potential (mV) at [Cl]i = cli
func (cp *ClPoolParams) EClFmCl(cli float64) float64 {
	return NernstCl(cli, cp.Clo, cp.Celsius)
}

// ClPool is an intracellular chloride pool instance.  The concentration
// state lives in the compartment's shared Ions, and the compartment's
// chloride reversal potential tracks it.  Diffusive exchange between
// compartments is applied by the cable solver after the per-compartment
// updates, using DiffRate.
type ClPool struct {
	ClPoolParams
}

// clMin keeps [Cl]i strictly positive so the Nernst potential stays finite
const clMin = 1e-3

// NewClPool returns a new default-parameterized chloride pool instance
func NewClPool() *ClPool {
	cl := &ClPool{}
	cl.Defaults()
	return cl
}

func (cl *ClPool) Kind() ChanKinds { return ClDyn }

func (cl *ClPool) InitSteady(v float64, ion *Ions) {
	ion.Cl = cl.ClInf
	ion.E.Cl = cl.EClFmCl(ion.Cl)
}

// Step advances [Cl]i by the exact solution of the linear pool equation,
// holding the synaptic chloride drive constant over the step, then updates
// the Nernst reversal
func (cl *ClPool) Step(v, dt float64, ion *Ions) {
	target := cl.ClInf + cl.Tau*cl.DriveFmICl(ion.ICl)
	c := GateExp(ion.Cl, target, cl.Tau, dt)
	if c < clMin {
		c = clMin
	}
	ion.Cl = c
	ion.E.Cl = cl.EClFmCl(ion.Cl)
}

func (cl *ClPool) Current(v float64, ion *Ions) (i, g float64) {
	return 0, 0
}

func (cl *ClPool) ILast() float64 { return 0 }

func (cl *ClPool) NVars() int { return 1 }

func (cl *ClPool) VarNames() []string { return []string{"cl"} }

func (cl *ClPool) Vars(ion *Ions, y []float64) {
	y[0] = ion.Cl
}

func (cl *ClPool) SetVars(ion *Ions, y []float64) {
	c := y[0]
	if c < clMin {
		c = clMin
	}
	ion.Cl = c
	ion.E.Cl = cl.EClFmCl(ion.Cl)
}

func (cl *ClPool) Derivs(v float64, ion *Ions, dy []float64) {
	dy[0] = cl.DriveFmICl(ion.ICl) + (cl.ClInf-ion.Cl)/cl.Tau
}
