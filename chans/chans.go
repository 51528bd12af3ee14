// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the voltage-gated and ion-dependent membrane channel
kinetics used in biophysically detailed thalamic neuron models: the T-type
calcium current that generates low-threshold bursts, the anomalous rectifier
H-current, A-type and inward-rectifier potassium currents, persistent sodium,
fast Hodgkin-Huxley style spiking currents, calcium-activated potassium, and
the intracellular calcium and chloride pools those currents couple to.

All quantities follow standard cellular neurophysiology units: membrane
potential in mV, time in msec, conductance density in S/cm2 (permeability in
cm/s for the constant-field calcium current), current density in mA/cm2 with
outward current positive, and concentrations in mM.

Each channel kind is a params struct with Defaults() and Update() methods
(derived temperature factors and normalizers are computed in Update), plus
per-instance gating state.  Gating variables obey dx/dt = (xinf(V) - x)/tau(V)
and are advanced with the exact exponential update under fixed-step
integration, or exposed as explicit derivatives for adaptive integration.
*/
package chans

import (
	"fmt"

	"github.com/goki/ki/kit"
)

//////////////////////////////////////////////////////////////////////////////
//  ChanKinds

// ChanKinds are the kinds of membrane channel mechanisms that can be
// inserted into a compartment.  Leak is listed for identification and trace
// addressing, but is built into every compartment's passive parameters
// rather than inserted as a separate mechanism.
type ChanKinds int

//go:generate stringer -type=ChanKinds

var KiT_ChanKinds = kit.Enums.AddEnum(ChanKindsN, kit.NotBitFlag, nil)

func (ev ChanKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ChanKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Leak is the passive leak conductance, part of every compartment.
	Leak ChanKinds = iota

	// IT is the low-threshold T-type calcium current (burst generator).
	IT

	// IH is the hyperpolarization-activated anomalous rectifier cation current.
	IH

	// IA is the fast transient A-type potassium current.
	IA

	// IKir is the inwardly rectifying potassium current.
	IKir

	// INaP is the persistent (non-inactivating) sodium current.
	INaP

	// IHH is the fast sodium + delayed rectifier potassium spiking current pair.
	IHH

	// IKCa is the calcium-activated potassium (afterhyperpolarization) current.
	IKCa

	// CaDyn is the submembrane calcium pool (influx, pump removal) -- carries
	// no membrane current itself.
	CaDyn

	// ClDyn is the intracellular chloride pool (accumulation, KCC2-style
	// extrusion, optional diffusion) -- carries no membrane current itself.
	ClDyn

	ChanKindsN
)

//////////////////////////////////////////////////////////////////////////////
//  Erevs / Ions

// Erevs are the ionic reversal potentials for one compartment (mV).
// These are explicit per-compartment values passed into each channel's
// current computation -- there is no process-wide shared reversal state,
// so independent cells and runs can never couple through them.
type Erevs struct {
	Na float64 `def:"50" desc:"sodium reversal potential (mV)"`
	K  float64 `def:"-100" desc:"potassium reversal potential (mV)"`
	H  float64 `def:"-43" desc:"mixed Na/K reversal potential of the anomalous rectifier h-current (mV)"`
	Cl float64 `def:"-82" desc:"chloride reversal potential (mV) -- recomputed from [Cl]i by the Nernst equation each step when chloride dynamics are inserted"`
}

func (er *Erevs) Defaults() {
	er.Na = 50
	er.K = -100
	er.H = -43
	er.Cl = -82
}

// Ions is the shared per-compartment ionic state that channel mechanisms
// read and write: reversal potentials, intracellular concentrations, and the
// per-step accumulators of ion-specific membrane current that drive the
// concentration pools.  Current accumulators must be zeroed (ZeroFlux)
// before each round of Current evaluations.
type Ions struct {
	E   Erevs   `view:"inline" desc:"reversal potentials for this compartment"`
	Cao float64 `def:"2" desc:"extracellular calcium concentration (mM) for the constant-field calcium current"`
	Ca  float64 `desc:"intracellular (submembrane) calcium concentration (mM)"`
	Cl  float64 `desc:"intracellular chloride concentration (mM)"`
	ICa float64 `inactive:"+" desc:"calcium-carrying membrane current density accumulated this step (mA/cm2, outward positive)"`
	ICl float64 `inactive:"+" desc:"chloride-carrying membrane current density accumulated this step (mA/cm2, outward positive)"`
}

func (io *Ions) Defaults() {
	io.E.Defaults()
	io.Cao = 2
	io.Ca = 2.4e-4
	io.Cl = 6
	io.ZeroFlux()
}

// ZeroFlux resets the per-step ion current accumulators.
func (io *Ions) ZeroFlux() {
	io.ICa = 0
	io.ICl = 0
}

//////////////////////////////////////////////////////////////////////////////
//  Chan interface

// Chan is the interface shared by all channel mechanism instances inserted
// into a compartment.  A mechanism bundles its kinetic parameters and its
// gating / concentration state, so each compartment owns fully independent
// instances.
//
// The per-step calling sequence is: Current for every mechanism (assembling
// the voltage system and accumulating ion fluxes into Ions), then the
// voltage solve, then Step for every mechanism at the updated voltage.
type Chan interface {
	// Kind returns the channel kind tag for this mechanism.
	Kind() ChanKinds

	// Defaults sets default parameter values.
	Defaults()

	// Update computes derived parameters (temperature factors etc) after
	// any parameter change.
	Update()

	// InitSteady sets all gating and concentration state to its steady
	// state at fixed voltage v.
	InitSteady(v float64, ion *Ions)

	// Step advances gating and concentration state by dt msec at voltage v,
	// using the exact exponential update for the first-order kinetics.
	Step(v, dt float64, ion *Ions)

	// Current returns the membrane current density i (mA/cm2, outward
	// positive) at voltage v for the present state, and the slope
	// conductance g = dI/dV (S/cm2) used by the implicit voltage solver.
	// Ca- or Cl-carrying currents are also accumulated into ion.
	Current(v float64, ion *Ions) (i, g float64)

	// ILast returns the current density computed by the most recent
	// Current call, for trace recording.
	ILast() float64

	// NVars returns the number of continuous state variables.
	NVars() int

	// VarNames returns trace labels for the state variables, in Vars order.
	VarNames() []string

	// Vars copies the state variables into y, which must have NVars capacity.
	Vars(ion *Ions, y []float64)

	// SetVars sets the state variables from y, enforcing bounds
	// (gating in [0,1], concentrations >= 0).
	SetVars(ion *Ions, y []float64)

	// Derivs writes dy/dt for the state variables at voltage v into dy,
	// for adaptive integration.
	Derivs(v float64, ion *Ions, dy []float64)
}

// New returns a new default-initialized mechanism instance of the given kind.
// Leak is not constructible: it is part of the compartment's passive
// parameters.
func New(kind ChanKinds) (Chan, error) {
	switch kind {
	case IT:
		return NewTType(), nil
	case IH:
		return NewHCurrent(), nil
	case IA:
		return NewAType(), nil
	case IKir:
		return NewKir(), nil
	case INaP:
		return NewNaP(), nil
	case IHH:
		return NewHH(), nil
	case IKCa:
		return NewKCa(), nil
	case CaDyn:
		return NewCaPool(), nil
	case ClDyn:
		return NewClPool(), nil
	}
	return nil, fmt.Errorf("chans.New: kind %v is not an insertable mechanism", kind)
}
