// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sim drives a single cell through time: it binds point processes
(synapses, electrodes, voltage clamps) to compartments, selects the step
policy, runs the fixed-step or adaptive integration loop, records declared
traces into an etable, and computes holding currents.

Each Sim owns all of its run state: time, statistics, recorder buffers,
and point-process bindings.  Independent runs (a holding-current settle
vs. the main run, or successive sweep runs) therefore share nothing but
the cell itself, which every run re-initializes to a steady state before
stepping.

Within one step the order of operations is fixed: synapse and stimulus
contributions load into the compartment accumulators, the cable assembles
and solves the implicit system (evaluating channel currents at the
pre-step voltages), synaptic events due in [t, t+dt) deliver, and
recording captures the post-step values.  Nothing observes an
intermediate state.
*/
package sim

import (
	"fmt"
	"math"

	"github.com/emer/etable/etable"
	"github.com/emer/thalamo/cable"
	"github.com/emer/thalamo/cell"
	"github.com/emer/thalamo/chans"
	"github.com/emer/thalamo/syn"
	"github.com/goki/ki/kit"
)

// SynBind is a synaptic point process bound to a compartment, with its
// own event queue feeding it.
type SynBind struct {
	Syn    *syn.GABABSyn  `desc:"the synapse"`
	Comp   *cable.Comp    `desc:"attachment compartment"`
	Evts   syn.EventQueue `desc:"pending activation events for this synapse"`
	ProbWt bool           `desc:"event weights are release probabilities scaling a default-mix response, not fast-decay mixing fractions -- spike-driven network synapses use this"`
}

// deliver activates the synapse from an event under the binding's weight
// convention.
func (sb *SynBind) deliver(ev syn.Event) {
	if sb.ProbWt {
		sb.Syn.DeliverP(ev.Weight)
	} else {
		sb.Syn.Deliver(ev.Weight)
	}
}

// ClampBind is a current-clamp electrode bound to a compartment.
type ClampBind struct {
	Clamp *syn.IClamp `desc:"the electrode"`
	Comp  *cable.Comp `desc:"attachment compartment"`
}

// seBind is a transiently attached voltage clamp (holding solver use).
type seBind struct {
	Clamp *syn.SEClamp
	Comp  *cable.Comp
}

// Statistics reports integration effort for the last run.
type Statistics struct {
	Steps    int     `inactive:"+" desc:"accepted steps"`
	Rejected int     `inactive:"+" desc:"rejected adaptive step attempts"`
	Evals    int     `inactive:"+" desc:"derivative evaluations (adaptive mode)"`
	HMin     float64 `inactive:"+" desc:"smallest accepted adaptive step (msec)"`
	HMax     float64 `inactive:"+" desc:"largest accepted adaptive step (msec)"`
}

func (st *Statistics) Reset() {
	*st = Statistics{}
}

func (st *Statistics) accept(h float64) {
	st.Steps++
	if st.HMin == 0 || h < st.HMin {
		st.HMin = h
	}
	if h > st.HMax {
		st.HMax = h
	}
}

// Sim is the integration driver for one cell.
type Sim struct {
	Cell   *cell.Cell    `desc:"the neuron being simulated"`
	Time   Time          `desc:"timing state and fixed step size"`
	Policy StepPolicies  `desc:"requested step policy; AutoPolicy resolves from the mechanisms and noise present"`
	Method cable.Methods `desc:"implicit scheme used for fixed stepping"`
	VInit  float64       `def:"-70" desc:"initial potential (mV): all voltages and kinetic states pin to their steady state here before stepping"`
	Adams  AdamsParams   `view:"inline" desc:"adaptive integrator settings"`
	Rec    Recorder      `desc:"declarative trace recording"`
	Stats  Statistics    `inactive:"+" desc:"integration statistics from the last run"`
	Syns   []*SynBind    `desc:"synapses bound to compartments"`
	Clamps []*ClampBind  `desc:"current-clamp electrodes bound to compartments"`

	ses []*seBind // transiently attached voltage clamps
}

// NewSim returns a Sim for the given cell with default parameters.
func NewSim(cl *cell.Cell) *Sim {
	ss := &Sim{Cell: cl}
	ss.Defaults()
	return ss
}

func (ss *Sim) Defaults() {
	ss.Time.Defaults()
	ss.Adams.Defaults()
	ss.Method = cable.BackwardEuler
	ss.VInit = -70
}

// AddSyn binds a synapse to the named compartment and returns the
// binding, whose event queue schedules its activations.
func (ss *Sim) AddSyn(sy *syn.GABABSyn, compNm string) (*SynBind, error) {
	cp, err := ss.Cell.CompByName(compNm)
	if err != nil {
		return nil, fmt.Errorf("sim.AddSyn: %v", err)
	}
	sb := &SynBind{Syn: sy, Comp: cp}
	ss.Syns = append(ss.Syns, sb)
	return sb, nil
}

// AddIClamp binds a current-clamp electrode to the named compartment.
func (ss *Sim) AddIClamp(ic *syn.IClamp, compNm string) (*ClampBind, error) {
	cp, err := ss.Cell.CompByName(compNm)
	if err != nil {
		return nil, fmt.Errorf("sim.AddIClamp: %v", err)
	}
	cb := &ClampBind{Clamp: ic, Comp: cp}
	ss.Clamps = append(ss.Clamps, cb)
	return cb, nil
}

// AttachSEClamp transiently attaches a voltage clamp to the named
// compartment, returning an idempotent release function.  The
// holding-current solver is the intended user; the clamp participates in
// every solve until released.
func (ss *Sim) AttachSEClamp(se *syn.SEClamp, compNm string) (func(), error) {
	cp, err := ss.Cell.CompByName(compNm)
	if err != nil {
		return nil, fmt.Errorf("sim.AttachSEClamp: %v", err)
	}
	sb := &seBind{Clamp: se, Comp: cp}
	ss.ses = append(ss.ses, sb)
	released := false
	rel := func() {
		if released {
			return
		}
		released = true
		for i, b := range ss.ses {
			if b == sb {
				ss.ses = append(ss.ses[:i], ss.ses[i+1:]...)
				break
			}
		}
	}
	return rel, nil
}

// SynOn returns the first synapse bound to the named compartment, or nil.
func (ss *Sim) SynOn(compNm string) *SynBind {
	for _, sb := range ss.Syns {
		if sb.Comp.Nm == compNm {
			return sb
		}
	}
	return nil
}

// ClampOn returns the first electrode bound to the named compartment, or
// nil.
func (ss *Sim) ClampOn(compNm string) *ClampBind {
	for _, cb := range ss.Clamps {
		if cb.Comp.Nm == compNm {
			return cb
		}
	}
	return nil
}

// HasFastSpiking returns whether any compartment carries the fast Na/K
// spiking mechanisms.
func (ss *Sim) HasFastSpiking() bool {
	for _, cp := range ss.Cell.Cb.Comps {
		if cp.HasMech(chans.IHH) {
			return true
		}
	}
	return false
}

// HasNoise returns whether any bound electrode injects per-step noise.
func (ss *Sim) HasNoise() bool {
	for _, cb := range ss.Clamps {
		if cb.Clamp.Noise {
			return true
		}
	}
	return false
}

// ResolvePolicy returns the effective step policy.  Automatic selection
// picks fixed stepping whenever fast-spiking mechanisms are present (the
// adaptive solver's stiffness handling is unreliable across
// large-amplitude spikes) or per-step noise is enabled (noise breaks the
// smooth local error estimate).  Explicitly requesting adaptive stepping
// under either condition is a protocol error, never silently downgraded.
func (ss *Sim) ResolvePolicy() (StepPolicies, error) {
	fs := ss.HasFastSpiking()
	nz := ss.HasNoise()
	switch ss.Policy {
	case FixedStep:
		return FixedStep, nil
	case Adaptive:
		if fs {
			return FixedStep, fmt.Errorf("sim: adaptive stepping requested with fast-spiking mechanisms active: use fixed stepping")
		}
		if nz {
			return FixedStep, fmt.Errorf("sim: adaptive stepping requested with per-step noise enabled: use fixed stepping")
		}
		return Adaptive, nil
	case AutoPolicy:
		if fs || nz {
			return FixedStep, nil
		}
		return Adaptive, nil
	}
	return FixedStep, fmt.Errorf("sim: unknown step policy %v", ss.Policy)
}

// Init initializes run state: time and statistics reset, the cell pinned
// to steady state at VInit, synapse kernels cleared.  Pending synaptic
// events are preserved (they define the protocol); delivered events are
// consumed by the run that delivers them.
func (ss *Sim) Init() {
	ss.Time.Reset()
	ss.Stats.Reset()
	ss.Cell.SteadyInit(ss.VInit)
	for _, sb := range ss.Syns {
		sb.Syn.Init()
	}
}

// Run validates the protocol, initializes, and advances the simulation
// from 0 to tstop msec with the resolved step policy, returning the
// recorded trace table.  A numerical failure aborts the run with the
// failing step and time in the error; partial results are discarded.
func (ss *Sim) Run(tstop float64) (*etable.Table, error) {
	if ss.Cell == nil {
		return nil, fmt.Errorf("sim: no cell")
	}
	if tstop <= 0 {
		return nil, fmt.Errorf("sim: non-positive tstop %g", tstop)
	}
	pol, err := ss.ResolvePolicy()
	if err != nil {
		return nil, err
	}
	if ss.Rec.HasGating() && ss.HasNoise() {
		return nil, fmt.Errorf("sim: recording gating-state traces with per-step noise enabled is not supported: disable noise or drop the gating traces")
	}
	if err = ss.Rec.Config(ss); err != nil {
		return nil, err
	}
	ss.Init()
	ss.Rec.Record(0)
	if pol == FixedStep {
		err = ss.runFixed(tstop)
	} else {
		err = ss.runAdaptive(tstop)
	}
	if err != nil {
		return nil, err
	}
	return ss.Rec.Table, nil
}

// runFixed is the fixed-step loop.
func (ss *Sim) runFixed(tstop float64) error {
	dt := ss.Time.DtFix
	nst := int(math.Round(tstop / dt))
	for n := 0; n < nst; n++ {
		if err := ss.StepFixed(float64(n) * dt); err != nil {
			return err
		}
	}
	return nil
}

// StepFixed advances one fixed step of Time.DtFix msec from time t,
// loading point-process contributions, solving the cable, delivering
// synaptic events due in [t, t+dt), and recording.  The network layer
// calls this directly to keep many cells in lockstep; single-cell runs
// go through Run.
func (ss *Sim) StepFixed(t float64) error {
	dt := ss.Time.DtFix
	cb := ss.Cell.Cb
	cb.ZeroStim()
	for _, sb := range ss.Syns {
		sb.Comp.AddG(sb.Syn.Gsyn(), sb.Syn.Erev)
	}
	for _, icb := range ss.Clamps {
		icb.Comp.AddInj(icb.Clamp.IAt(t))
	}
	for _, se := range ss.ses {
		g, e := se.Clamp.Conduct()
		se.Comp.AddG(g, e)
	}
	if err := cb.Step(dt, ss.Method); err != nil {
		return fmt.Errorf("sim: step %d at t=%g msec: %v", ss.Time.Step, t, err)
	}
	for _, sb := range ss.Syns {
		sb.Syn.CurrentAt(sb.Comp.Vm)
		sb.Syn.Step(dt)
		sb.Evts.Deliver(t, dt, sb.deliver)
	}
	for _, se := range ss.ses {
		se.Clamp.Current(se.Comp.Vm)
	}
	ss.Time.FixedInc()
	ss.Stats.accept(dt)
	ss.Rec.Record(ss.Time.Time)
	return nil
}

//////////////////////////////////////////////////////////////////////////////
//  StepPolicies

// StepPolicies are the integration step policies.
type StepPolicies int

//go:generate stringer -type=StepPolicies

var KiT_StepPolicies = kit.Enums.AddEnum(StepPoliciesN, kit.NotBitFlag, nil)

func (ev StepPolicies) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *StepPolicies) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// FixedStep advances with the fixed step Time.DtFix, required whenever
	// fast-spiking mechanisms or per-step noise are present.
	FixedStep StepPolicies = iota

	// Adaptive advances with the variable-order Adams-Bashforth-Moulton
	// integrator; rejected at setup if fast-spiking mechanisms or noise
	// are present.
	Adaptive

	// AutoPolicy selects FixedStep when fast-spiking mechanisms or noise
	// are present, else Adaptive.
	AutoPolicy

	StepPoliciesN
)
