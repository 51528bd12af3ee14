// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cable implements the compartmental cable equation for a tree of
cylindrical membrane compartments: per-compartment membrane currents from
the chans mechanisms, axial coupling through half-resistances, and the
implicit (theta-weighted) voltage solve by direct Hines tree elimination --
children are eliminated strictly before their parents, then voltages
back-substitute from the root outward.  All compartment voltages advance
atomically per step.
*/
package cable

import (
	"fmt"
	"math"

	"github.com/emer/etable/minmax"
	"github.com/emer/thalamo/chans"
	"github.com/goki/ki/kit"
)

// Cable is an ordered tree of compartments: index 0 is the root (soma) and
// every parent index is strictly less than its children's indices, which
// the Hines elimination order depends on.  Topology is fixed once Build is
// called; geometry and mechanism parameters may still be adjusted.
type Cable struct {
	Comps  []*Comp    `desc:"compartments in tree order, root first"`
	Pars   []int      `desc:"parent index per compartment, -1 for the root"`
	Pos    []float64  `desc:"attachment position along parent in 0..1 -- selects which parent half carries the series resistance; for a uniform cylinder both halves are equal"`
	VRange minmax.F64 `desc:"physiologically plausible voltage range (mV); a solve leaving it is numerical divergence"`

	built bool      // topology frozen
	cpl   []float64 // coupling conductance to parent (uS)
	diag  []float64 // system diagonal (uS)
	rhs   []float64 // right-hand side (nA)
	dv    []float64 // solved voltage increment / gating voltage (mV)
}

// NewCable returns an empty cable with the default divergence range.
func NewCable() *Cable {
	cb := &Cable{}
	cb.Defaults()
	return cb
}

func (cb *Cable) Defaults() {
	cb.VRange.Set(-500, 500)
}

// AddComp appends a compartment with the given parent index and attachment
// position.  The first compartment must have par = -1 (the root); all
// others must name an already-added parent, which guarantees the
// parent-before-child ordering.  Returns the new compartment's index.
func (cb *Cable) AddComp(cp *Comp, par int, pos float64) (int, error) {
	if cb.built {
		return -1, fmt.Errorf("cable: topology is fixed after Build, cannot add %s", cp.Nm)
	}
	n := len(cb.Comps)
	if n == 0 {
		if par != -1 {
			return -1, fmt.Errorf("cable: first compartment %s must be the root (par = -1)", cp.Nm)
		}
	} else {
		if par < 0 || par >= n {
			return -1, fmt.Errorf("cable: compartment %s parent index %d out of range (have %d compartments)", cp.Nm, par, n)
		}
	}
	if pos < 0 || pos > 1 {
		return -1, fmt.Errorf("cable: compartment %s attachment position %g outside 0..1", cp.Nm, pos)
	}
	for _, ex := range cb.Comps {
		if ex.Nm == cp.Nm {
			return -1, fmt.Errorf("cable: duplicate compartment name %s", cp.Nm)
		}
	}
	cb.Comps = append(cb.Comps, cp)
	cb.Pars = append(cb.Pars, par)
	cb.Pos = append(cb.Pos, pos)
	return n, nil
}

// Build validates the topology and allocates the solver workspace.
// After Build, compartments can no longer be added.
func (cb *Cable) Build() error {
	n := len(cb.Comps)
	if n == 0 {
		return fmt.Errorf("cable: no compartments")
	}
	for i, cp := range cb.Comps {
		if cp.L <= 0 || cp.Diam <= 0 {
			return fmt.Errorf("cable: compartment %s has non-positive geometry", cp.Nm)
		}
		if i > 0 && (cb.Pars[i] < 0 || cb.Pars[i] >= i) {
			return fmt.Errorf("cable: compartment %s parent %d does not precede it", cp.Nm, cb.Pars[i])
		}
	}
	cb.cpl = make([]float64, n)
	cb.diag = make([]float64, n)
	cb.rhs = make([]float64, n)
	cb.dv = make([]float64, n)
	cb.built = true
	return nil
}

// Root returns the root (somatic) compartment.
func (cb *Cable) Root() *Comp {
	return cb.Comps[0]
}

// CompByName returns the compartment with the given name.
func (cb *Cable) CompByName(nm string) (*Comp, error) {
	for _, cp := range cb.Comps {
		if cp.Nm == nm {
			return cp, nil
		}
	}
	return nil, fmt.Errorf("cable: no compartment named %s", nm)
}

// InitSteady pins every compartment and its mechanisms to steady state at
// potential v.
func (cb *Cable) InitSteady(v float64) {
	for _, cp := range cb.Comps {
		cp.InitSteady(v)
	}
}

// ZeroStim clears all compartments' per-step stimulus accumulators.
func (cb *Cable) ZeroStim() {
	for _, cp := range cb.Comps {
		cp.ZeroStim()
	}
}

// Step advances all compartment voltages by dt msec with the given
// implicit method, then advances channel states in the staggered
// post-solve position and applies chloride diffusion.  The caller must
// already have loaded this step's stimulus and synaptic contributions into
// the compartments (ZeroStim + AddInj / AddG).  Returns a numerical
// divergence error if any voltage leaves VRange or becomes NaN.
func (cb *Cable) Step(dt float64, method Methods) error {
	if !cb.built {
		return fmt.Errorf("cable: Step before Build")
	}
	n := len(cb.Comps)
	theta := 1.0
	hdt := dt
	switch method {
	case CrankNicholson:
		theta = 0.5
	case CNCorrected:
		// backward Euler over a half step, then linear extrapolation:
		// second-order accurate with channel states aligned at midstep
		hdt = 0.5 * dt
	}

	// assemble: linearized membrane currents at present voltages
	for i, cp := range cb.Comps {
		im, gm := cp.MembCurrent(cp.Vm)
		cb.diag[i] = cp.Ctot/hdt + theta*gm
		cb.rhs[i] = -im
		cb.cpl[i] = 0
	}
	// axial coupling through series half-resistances
	for i := 1; i < n; i++ {
		cp := cb.Comps[i]
		p := cb.Pars[i]
		par := cb.Comps[p]
		a := 1 / (cp.RaHalf + par.RaHalf)
		cb.cpl[i] = a
		iax := a * (par.Vm - cp.Vm)
		cb.rhs[i] += iax
		cb.rhs[p] -= iax
		cb.diag[i] += theta * a
		cb.diag[p] += theta * a
	}

	// stage 1: eliminate children strictly before parents
	for i := n - 1; i >= 1; i-- {
		p := cb.Pars[i]
		f := theta * cb.cpl[i]
		cb.diag[p] -= f * f / cb.diag[i]
		cb.rhs[p] += f * cb.rhs[i] / cb.diag[i]
	}
	// stage 2: back-substitute from the root outward
	cb.dv[0] = cb.rhs[0] / cb.diag[0]
	for i := 1; i < n; i++ {
		cb.dv[i] = (cb.rhs[i] + theta*cb.cpl[i]*cb.dv[cb.Pars[i]]) / cb.diag[i]
	}

	// apply all voltages atomically; dv is repurposed to hold the voltage
	// at which channel states advance
	for i, cp := range cb.Comps {
		v0 := cp.Vm
		if method == CNCorrected {
			vh := v0 + cb.dv[i]
			cp.Vm = v0 + 2*cb.dv[i]
			cb.dv[i] = vh
		} else {
			cp.Vm = v0 + cb.dv[i]
			cb.dv[i] = cp.Vm
		}
	}
	for i, cp := range cb.Comps {
		cp.StepChans(cb.dv[i], dt)
	}
	cb.clDiffuse(dt)

	for i, cp := range cb.Comps {
		if math.IsNaN(cp.Vm) {
			return fmt.Errorf("cable: compartment %s (%d): Vm is NaN -- numerical divergence", cp.Nm, i)
		}
		if cp.Vm < cb.VRange.Min || cp.Vm > cb.VRange.Max {
			return fmt.Errorf("cable: compartment %s (%d): Vm = %g mV outside plausible range [%g, %g] -- numerical divergence", cp.Nm, i, cp.Vm, cb.VRange.Min, cb.VRange.Max)
		}
	}
	return nil
}

// clDiffuse exchanges chloride between adjacent compartments that both
// carry chloride dynamics with a non-zero diffusion rate, as a
// conservative explicit pass after the per-compartment updates.
func (cb *Cable) clDiffuse(dt float64) {
	for i := 1; i < len(cb.Comps); i++ {
		cp := cb.Comps[i]
		par := cb.Comps[cb.Pars[i]]
		cm, err := cp.Mech(chans.ClDyn)
		if err != nil {
			continue
		}
		pm, err := par.Mech(chans.ClDyn)
		if err != nil {
			continue
		}
		cpl := cm.(*chans.ClPool)
		ppl := pm.(*chans.ClPool)
		rate := 0.5 * (cpl.DiffRate + ppl.DiffRate)
		if rate <= 0 {
			continue
		}
		d := rate * dt * (par.Ion.Cl - cp.Ion.Cl)
		cp.Ion.Cl += d
		par.Ion.Cl -= d
		cp.Ion.E.Cl = cpl.EClFmCl(cp.Ion.Cl)
		par.Ion.E.Cl = ppl.EClFmCl(par.Ion.Cl)
	}
}

//////////////////////////////////////////////////////////////////////////////
//  State vector interface for adaptive integration

// NVars returns the total number of continuous state variables across the
// tree: each compartment's voltage plus all mechanism states.
func (cb *Cable) NVars() int {
	n := 0
	for _, cp := range cb.Comps {
		n++
		for _, ch := range cp.Chans {
			n += ch.NVars()
		}
	}
	return n
}

// Vars copies the full continuous state into y (length NVars): per
// compartment, Vm followed by its mechanisms' states in insertion order.
func (cb *Cable) Vars(y []float64) {
	k := 0
	for _, cp := range cb.Comps {
		y[k] = cp.Vm
		k++
		for _, ch := range cp.Chans {
			nv := ch.NVars()
			ch.Vars(&cp.Ion, y[k:k+nv])
			k += nv
		}
	}
}

// SetVars sets the full continuous state from y, bounding gating variables
// and concentrations.
func (cb *Cable) SetVars(y []float64) {
	k := 0
	for _, cp := range cb.Comps {
		cp.Vm = y[k]
		k++
		for _, ch := range cp.Chans {
			nv := ch.NVars()
			ch.SetVars(&cp.Ion, y[k:k+nv])
			k += nv
		}
	}
}

// Derivs writes the time derivatives of the full continuous state into dy,
// at the present state and stimulus accumulators.  Membrane currents are
// evaluated first (refilling the ion flux accumulators), then axial
// currents, then mechanism derivatives.
func (cb *Cable) Derivs(dy []float64) {
	if !cb.built {
		return
	}
	n := len(cb.Comps)
	for i, cp := range cb.Comps {
		im, _ := cp.MembCurrent(cp.Vm)
		cb.rhs[i] = -im
	}
	for i := 1; i < n; i++ {
		cp := cb.Comps[i]
		p := cb.Pars[i]
		par := cb.Comps[p]
		a := 1 / (cp.RaHalf + par.RaHalf)
		iax := a * (par.Vm - cp.Vm)
		cb.rhs[i] += iax
		cb.rhs[p] -= iax
	}
	k := 0
	for i, cp := range cb.Comps {
		dy[k] = cb.rhs[i] / cp.Ctot // nA / nF = mV/msec
		k++
		for _, ch := range cp.Chans {
			nv := ch.NVars()
			ch.Derivs(cp.Vm, &cp.Ion, dy[k:k+nv])
			k += nv
		}
	}
}

// CheckState returns a numerical divergence error if any voltage in the
// present state is NaN or outside VRange.
func (cb *Cable) CheckState() error {
	for i, cp := range cb.Comps {
		if math.IsNaN(cp.Vm) {
			return fmt.Errorf("cable: compartment %s (%d): Vm is NaN -- numerical divergence", cp.Nm, i)
		}
		if cp.Vm < cb.VRange.Min || cp.Vm > cb.VRange.Max {
			return fmt.Errorf("cable: compartment %s (%d): Vm = %g mV outside plausible range [%g, %g] -- numerical divergence", cp.Nm, i, cp.Vm, cb.VRange.Min, cb.VRange.Max)
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////
//  Methods

// Methods are the implicit integration schemes for the voltage solve.
type Methods int

//go:generate stringer -type=Methods

var KiT_Methods = kit.Enums.AddEnum(MethodsN, kit.NotBitFlag, nil)

func (ev Methods) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Methods) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// BackwardEuler is the first-order fully implicit scheme (theta = 1):
	// unconditionally stable and damping, the default.
	BackwardEuler Methods = iota

	// CrankNicholson is the second-order trapezoid scheme (theta = 0.5),
	// with channel states advanced at the post-step voltage.
	CrankNicholson

	// CNCorrected is Crank-Nicholson realized as a half-step backward
	// Euler solve plus linear extrapolation, with channel states advanced
	// at the midstep voltage (staggered alignment).
	CNCorrected

	MethodsN
)
