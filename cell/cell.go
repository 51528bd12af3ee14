// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cell assembles compartments and channel mechanisms into the two
standard thalamic neuron models: the thalamocortical relay cell (TC, soma
plus two dendritic compartments in series) and the reticular cell (RE, soma
plus optional flanking segments that concentrate synapse placement).

Geometry, build mode, and the dendritic correction factor come from an
explicit validated Config.  The correction factor compensates for dendritic
membrane area not resolved by the reduced compartment count: it multiplies
dendritic capacitance, axial resistivity, leak and channel conductance
densities, and is never applied to the soma.  Adjustment operations mutate
already-inserted mechanism parameters per compartment without rebuilding,
taking explicit per-compartment values plus the correction factor, again
applied only to non-somatic compartments.
*/
package cell

import (
	"fmt"

	"github.com/emer/thalamo/cable"
	"github.com/emer/thalamo/chans"
	"github.com/goki/ki/kit"
)

// Config specifies how to build a cell: kind, geometry, correction factor,
// and build mode.  All geometry is validated at build time.
type Config struct {
	Kind        NeuronKinds `desc:"which neuron model to build"`
	SomaDiam    float64     `def:"38.42" min:"0" desc:"soma diameter (micron); soma length equals its diameter"`
	DendLen     float64     `def:"240" min:"0" desc:"total dendritic (or flank) length (micron), split equally across the two non-somatic compartments; 0 for an RE cell builds a bare soma"`
	DendDiam    float64     `def:"3.5" min:"0" desc:"dendritic (or flank) compartment diameter (micron)"`
	DendCorr    float64     `def:"7.954" min:"0" desc:"dendritic correction factor for unresolved membrane area: multiplies dendritic Cm, Ra, and conductance densities, never somatic ones"`
	Active      bool        `desc:"insert the active channel complement; false = passive leak only"`
	FastSpiking bool        `desc:"insert the fast Na/K spiking currents at the soma (active mode only)"`
}

func (cf *Config) Defaults() {
	cf.SomaDiam = 38.42
	cf.DendLen = 240
	cf.DendDiam = 3.5
	cf.DendCorr = 7.954
}

// Validate returns a configuration error for invalid geometry or an
// inconsistent mode combination.
func (cf *Config) Validate() error {
	if cf.SomaDiam <= 0 {
		return fmt.Errorf("cell.Config: non-positive soma diameter %g", cf.SomaDiam)
	}
	if cf.Kind == TC && cf.DendLen <= 0 {
		return fmt.Errorf("cell.Config: TC cell requires positive dendritic length, got %g", cf.DendLen)
	}
	if cf.DendLen < 0 {
		return fmt.Errorf("cell.Config: negative dendritic length %g", cf.DendLen)
	}
	if cf.DendLen > 0 && cf.DendDiam <= 0 {
		return fmt.Errorf("cell.Config: non-positive dendritic diameter %g", cf.DendDiam)
	}
	if cf.DendCorr <= 0 {
		return fmt.Errorf("cell.Config: non-positive dendritic correction factor %g", cf.DendCorr)
	}
	if cf.FastSpiking && !cf.Active {
		return fmt.Errorf("cell.Config: fast-spiking mechanisms require active mode")
	}
	return nil
}

// Cell is a built neuron: its configuration and the compartment tree.
// Topology is fixed after Build; parameters can be changed through the
// adjustment operations.
type Cell struct {
	Cfg Config       `desc:"configuration this cell was built from"`
	Cb  *cable.Cable `desc:"compartment tree and solver"`
}

// Build constructs a cell from the given configuration.
func Build(cfg Config) (*Cell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cl := &Cell{Cfg: cfg, Cb: cable.NewCable()}
	var err error
	switch cfg.Kind {
	case TC:
		err = cl.buildTC()
	case RE:
		err = cl.buildRE()
	default:
		err = fmt.Errorf("cell.Build: unknown neuron kind %v", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	if err = cl.Cb.Build(); err != nil {
		return nil, err
	}
	return cl, nil
}

// Soma returns the somatic compartment.
func (cl *Cell) Soma() *cable.Comp {
	return cl.Cb.Root()
}

// Dend returns dendritic compartment i (1 or 2) of a TC cell.
func (cl *Cell) Dend(i int) (*cable.Comp, error) {
	return cl.Cb.CompByName(fmt.Sprintf("dend%d", i))
}

// Flank returns flanking compartment i (1 or 2) of an RE cell.
func (cl *Cell) Flank(i int) (*cable.Comp, error) {
	return cl.Cb.CompByName(fmt.Sprintf("flank%d", i))
}

// CompByName returns the named compartment.
func (cl *Cell) CompByName(nm string) (*cable.Comp, error) {
	return cl.Cb.CompByName(nm)
}

// SynLocs returns the attachable synapse locations in preference order:
// the synapse-concentrating compartments first (flanks for RE cells,
// soma for TC cells where the reference inhibitory input terminates
// perisomatically), then the remaining compartments.
func (cl *Cell) SynLocs() []string {
	ns := make([]string, 0, len(cl.Cb.Comps))
	if cl.Cfg.Kind == RE && len(cl.Cb.Comps) > 1 {
		for _, cp := range cl.Cb.Comps[1:] {
			ns = append(ns, cp.Nm)
		}
		ns = append(ns, cl.Soma().Nm)
		return ns
	}
	for _, cp := range cl.Cb.Comps {
		ns = append(ns, cp.Nm)
	}
	return ns
}

// SteadyInit pins every compartment voltage and every gating and
// concentration state to its steady state at potential v -- the relax-to-
// equilibrium initialization used before any run.
func (cl *Cell) SteadyInit(v float64) {
	cl.Cb.InitSteady(v)
}

//////////////////////////////////////////////////////////////////////////////
//  build internals

// nonSomaCorr applies the build-time dendritic correction to a freshly made
// non-somatic compartment: Cm, Ra and leak density are scaled up by the
// correction factor.
func (cl *Cell) nonSomaCorr(cp *cable.Comp) {
	cp.Cm *= cl.Cfg.DendCorr
	cp.Ra *= cl.Cfg.DendCorr
	cp.GPas *= cl.Cfg.DendCorr
	cp.UpdateDerived()
}

func (cl *Cell) buildTC() error {
	cfg := &cl.Cfg
	soma, err := cable.NewComp("soma", cable.Soma, cfg.SomaDiam, cfg.SomaDiam)
	if err != nil {
		return err
	}
	soma.EPas = -73
	if _, err = cl.Cb.AddComp(soma, -1, 0); err != nil {
		return err
	}
	hl := cfg.DendLen / 2
	d1, err := cable.NewComp("dend1", cable.ProxDend, hl, cfg.DendDiam)
	if err != nil {
		return err
	}
	d1.EPas = -73
	cl.nonSomaCorr(d1)
	i1, err := cl.Cb.AddComp(d1, 0, 1)
	if err != nil {
		return err
	}
	d2, err := cable.NewComp("dend2", cable.DistDend, hl, cfg.DendDiam)
	if err != nil {
		return err
	}
	d2.EPas = -73
	cl.nonSomaCorr(d2)
	if _, err = cl.Cb.AddComp(d2, i1, 1); err != nil {
		return err
	}
	if !cfg.Active {
		return nil
	}
	return cl.insertTC()
}

// insertTC inserts the TC active mechanism set: the full low-threshold
// burst complement in every compartment, fast spiking at the soma only.
// Dendritic densities carry the correction factor.
func (cl *Cell) insertTC() error {
	for i, cp := range cl.Cb.Comps {
		corr := 1.0
		if i > 0 {
			corr = cl.Cfg.DendCorr
		}
		tt := chans.NewTType()
		tt.TauhMode = chans.TauhPiecewise
		tt.PCa *= corr
		tt.Update()
		if err := cp.Insert(tt); err != nil {
			return err
		}
		hc := chans.NewHCurrent()
		hc.Gbar *= corr
		if err := cp.Insert(hc); err != nil {
			return err
		}
		at := chans.NewAType()
		at.Gbar *= corr
		if err := cp.Insert(at); err != nil {
			return err
		}
		kr := chans.NewKir()
		kr.Gbar *= corr
		if err := cp.Insert(kr); err != nil {
			return err
		}
		na := chans.NewNaP()
		na.Gbar *= corr
		if err := cp.Insert(na); err != nil {
			return err
		}
		if err := cp.Insert(chans.NewCaPool()); err != nil {
			return err
		}
	}
	if cl.Cfg.FastSpiking {
		hh := chans.NewHH()
		hh.VTraub = -52
		hh.Update()
		if err := cl.Soma().Insert(hh); err != nil {
			return err
		}
	}
	return nil
}

func (cl *Cell) buildRE() error {
	cfg := &cl.Cfg
	soma, err := cable.NewComp("soma", cable.Soma, cfg.SomaDiam, cfg.SomaDiam)
	if err != nil {
		return err
	}
	soma.EPas = -77
	soma.GPas = 5e-5
	soma.UpdateDerived()
	if _, err = cl.Cb.AddComp(soma, -1, 0); err != nil {
		return err
	}
	if cfg.DendLen > 0 {
		hl := cfg.DendLen / 2
		for i := 1; i <= 2; i++ {
			fl, err := cable.NewComp(fmt.Sprintf("flank%d", i), cable.Flank, hl, cfg.DendDiam)
			if err != nil {
				return err
			}
			fl.EPas = -77
			fl.GPas = 5e-5
			cl.nonSomaCorr(fl)
			// flanks attach at opposite ends of the soma
			pos := float64(i - 1)
			if _, err = cl.Cb.AddComp(fl, 0, pos); err != nil {
				return err
			}
		}
	}
	if !cfg.Active {
		return nil
	}
	return cl.insertRE()
}

// insertRE inserts the RE active mechanism set: T-type current with the
// smooth (reticular) inactivation kinetics, calcium-activated potassium,
// and the calcium pool, with fast spiking at the soma only.
func (cl *Cell) insertRE() error {
	for i, cp := range cl.Cb.Comps {
		corr := 1.0
		if i > 0 {
			corr = cl.Cfg.DendCorr
		}
		tt := chans.NewTType()
		tt.TauhMode = chans.TauhSmooth
		tt.PCa = 0.0003 * corr
		tt.Update()
		if err := cp.Insert(tt); err != nil {
			return err
		}
		kc := chans.NewKCa()
		kc.Gbar *= corr
		if err := cp.Insert(kc); err != nil {
			return err
		}
		if err := cp.Insert(chans.NewCaPool()); err != nil {
			return err
		}
	}
	if cl.Cfg.FastSpiking {
		hh := chans.NewHH()
		hh.VTraub = -55
		hh.Update()
		if err := cl.Soma().Insert(hh); err != nil {
			return err
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////
//  NeuronKinds

// NeuronKinds are the neuron models this package can build.
type NeuronKinds int

//go:generate stringer -type=NeuronKinds

var KiT_NeuronKinds = kit.Enums.AddEnum(NeuronKindsN, kit.NotBitFlag, nil)

func (ev NeuronKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// TC is the thalamocortical relay cell: soma + two dendritic
	// compartments in series.
	TC NeuronKinds = iota

	// RE is the reticular thalamic cell: soma + optional two flanking
	// segments.
	RE

	NeuronKindsN
)
