// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cable

import (
	"fmt"
	"math"

	"github.com/emer/thalamo/chans"
	"github.com/goki/ki/kit"
)

// Comp is one cylindrical membrane compartment: geometry, passive
// electrical properties, the set of inserted channel mechanisms, and the
// present membrane potential.  Derived electrical quantities (area,
// absolute capacitance, axial half-resistance) are recomputed immediately
// by the geometry setters, never deferred.
//
// Units: length and diameter in micron, Cm in uF/cm2, Ra in ohm cm,
// conductance densities in S/cm2, voltages in mV, absolute currents in nA
// (outward positive), absolute conductances in uS, capacitance in nF,
// time in msec.
type Comp struct {
	Nm   string  `desc:"compartment name, unique within a cell"`
	Role Roles   `desc:"topological role of this compartment in its cell"`
	L    float64 `min:"0" desc:"length (micron)"`
	Diam float64 `min:"0" desc:"diameter (micron)"`
	Cm   float64 `def:"0.88" min:"0" desc:"specific membrane capacitance (uF/cm2)"`
	Ra   float64 `def:"173" min:"0" desc:"axial resistivity (ohm cm)"`
	GPas float64 `def:"3.79e-05" min:"0" desc:"passive leak conductance density (S/cm2)"`
	EPas float64 `def:"-73" desc:"leak reversal potential (mV)"`

	Ion   chans.Ions   `view:"inline" desc:"shared per-compartment ionic state: reversals, concentrations, per-step ion fluxes"`
	Chans []chans.Chan `desc:"inserted channel mechanisms, in insertion order"`

	Vm float64 `inactive:"+" desc:"membrane potential (mV)"`

	// per-step external contributions, reset by ZeroStim each step
	Inj   float64 `inactive:"+" desc:"injected electrode current this step (nA, positive depolarizing)"`
	GSyn  float64 `inactive:"+" desc:"summed synaptic + clamp conductance this step (uS)"`
	GESyn float64 `inactive:"+" desc:"summed conductance-weighted reversal drive this step (uS mV = nA)"`

	// derived quantities, valid after UpdateDerived
	Area   float64 `inactive:"+" desc:"membrane surface area (cm2)"`
	Ctot   float64 `inactive:"+" desc:"absolute membrane capacitance (nF)"`
	RaHalf float64 `inactive:"+" desc:"axial resistance from compartment center to either end (Mohm)"`
}

// NewComp returns a compartment with the given name, role and geometry,
// with default passive properties and ionic state.
func NewComp(nm string, role Roles, length, diam float64) (*Comp, error) {
	cp := &Comp{Nm: nm, Role: role}
	cp.Defaults()
	if err := cp.SetGeom(length, diam); err != nil {
		return nil, err
	}
	return cp, nil
}

func (cp *Comp) Defaults() {
	cp.Cm = 0.88
	cp.Ra = 173
	cp.GPas = 3.79e-5
	cp.EPas = -73
	cp.Ion.Defaults()
	cp.Vm = cp.EPas
}

// SetGeom sets the length and diameter (micron) and immediately recomputes
// the derived electrical quantities.  Non-positive values are a
// configuration error.
func (cp *Comp) SetGeom(length, diam float64) error {
	if length <= 0 || diam <= 0 {
		return fmt.Errorf("cable.Comp %s: non-positive geometry: L=%g diam=%g", cp.Nm, length, diam)
	}
	cp.L = length
	cp.Diam = diam
	cp.UpdateDerived()
	return nil
}

// UpdateDerived recomputes area, absolute capacitance, and axial
// half-resistance from the current geometry and passive parameters.
// Must be called after any direct mutation of Cm or Ra.
func (cp *Comp) UpdateDerived() {
	cp.Area = math.Pi * cp.Diam * cp.L * 1e-8           // um2 -> cm2
	cp.Ctot = cp.Cm * cp.Area * 1e3                     // uF/cm2 * cm2 -> nF
	cp.RaHalf = 2 * cp.Ra * cp.L / (math.Pi * cp.Diam * cp.Diam) * 1e-2 // -> Mohm
}

// Insert adds the given mechanism instance, replacing any existing
// mechanism of the same kind (re-insert = overwrite).  The passive leak is
// part of the compartment itself and cannot be inserted.
func (cp *Comp) Insert(ch chans.Chan) error {
	if ch == nil {
		return fmt.Errorf("cable.Comp %s: Insert nil mechanism", cp.Nm)
	}
	if ch.Kind() == chans.Leak {
		return fmt.Errorf("cable.Comp %s: passive leak is built in, set GPas / EPas instead", cp.Nm)
	}
	for i, ex := range cp.Chans {
		if ex.Kind() == ch.Kind() {
			cp.Chans[i] = ch
			return nil
		}
	}
	cp.Chans = append(cp.Chans, ch)
	return nil
}

// Mech returns the inserted mechanism of the given kind.  Addressing a
// kind that was never inserted is a configuration error.
func (cp *Comp) Mech(kind chans.ChanKinds) (chans.Chan, error) {
	for _, ch := range cp.Chans {
		if ch.Kind() == kind {
			return ch, nil
		}
	}
	return nil, fmt.Errorf("cable.Comp %s: mechanism %v not inserted", cp.Nm, kind)
}

// HasMech returns true if a mechanism of the given kind is inserted.
func (cp *Comp) HasMech(kind chans.ChanKinds) bool {
	for _, ch := range cp.Chans {
		if ch.Kind() == kind {
			return true
		}
	}
	return false
}

// InitSteady pins the membrane potential to v and all inserted mechanisms
// to their steady state at v, and clears the per-step stimulus state.
func (cp *Comp) InitSteady(v float64) {
	cp.Vm = v
	cp.Ion.ZeroFlux()
	for _, ch := range cp.Chans {
		ch.InitSteady(v, &cp.Ion)
	}
	cp.ZeroStim()
}

// ZeroStim clears the per-step injected current and synaptic conductance
// accumulators.  Called by the solver at the start of each step, before
// stimulus and synapse evaluation.
func (cp *Comp) ZeroStim() {
	cp.Inj = 0
	cp.GSyn = 0
	cp.GESyn = 0
}

// AddInj adds electrode current (nA, positive depolarizing) for this step.
func (cp *Comp) AddInj(i float64) {
	cp.Inj += i
}

// AddG adds a synaptic or clamp conductance g (uS) with reversal potential
// e (mV) for this step.  The contribution enters the implicit system as
// conductance g and drive g*e.
func (cp *Comp) AddG(g, e float64) {
	cp.GSyn += g
	cp.GESyn += g * e
}

// MembCurrent returns the total membrane current (nA, outward positive)
// at voltage v for the present gating state, and its derivative dI/dV
// (uS) for the implicit solver: leak + inserted channel currents +
// synaptic/clamp conductances - injected current.  Ion current
// accumulators are zeroed and refilled, so each evaluation leaves the
// fluxes that drive the concentration pools this step.
func (cp *Comp) MembCurrent(v float64) (i, g float64) {
	id := cp.GPas * (v - cp.EPas) // densities, mA/cm2 and S/cm2
	gd := cp.GPas
	cp.Ion.ZeroFlux()
	for _, ch := range cp.Chans {
		ci, cg := ch.Current(v, &cp.Ion)
		id += ci
		gd += cg
	}
	sc := cp.Area * 1e6 // mA -> nA, S -> uS
	i = id*sc + cp.GSyn*v - cp.GESyn - cp.Inj
	g = gd*sc + cp.GSyn
	return
}

// ILeak returns the leak current (nA, outward positive) at the present
// membrane potential, for trace recording.
func (cp *Comp) ILeak() float64 {
	return cp.GPas * (cp.Vm - cp.EPas) * cp.Area * 1e6
}

// StepChans advances all inserted mechanisms by dt at voltage v, in the
// staggered post-solve position of the fixed-step scheme.
func (cp *Comp) StepChans(v, dt float64) {
	for _, ch := range cp.Chans {
		ch.Step(v, dt, &cp.Ion)
	}
}

//////////////////////////////////////////////////////////////////////////////
//  Roles

// Roles are the topological roles a compartment can play in a cell.
type Roles int

//go:generate stringer -type=Roles

var KiT_Roles = kit.Enums.AddEnum(RolesN, kit.NotBitFlag, nil)

func (ev Roles) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Roles) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Soma is the root compartment.
	Soma Roles = iota

	// ProxDend is a proximal dendritic compartment.
	ProxDend

	// DistDend is a distal dendritic compartment.
	DistDend

	// Flank is a short flanking segment adjacent to the soma,
	// concentrating synapse placement in reticular cells.
	Flank

	RolesN
)
