// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"

	"github.com/emer/thalamo/chans"
)

// adjustment operations: each takes explicit somatic and dendritic values
// plus the correction factor, and applies the factor only to non-somatic
// compartments.  Reversal potentials, time constants, and concentrations
// are not area densities and never carry the factor.  Adjusting a
// mechanism that is not inserted (e.g. an active-family adjustment on a
// passive build) is a configuration error.

// AdjustPassive sets membrane capacitance cm (uF/cm2) and axial
// resistivity ra (ohm cm) in every compartment, scaling both by corr in
// non-somatic compartments, and recomputes the derived absolute values.
func (cl *Cell) AdjustPassive(cm, ra, corr float64) error {
	if cm <= 0 || ra <= 0 {
		return fmt.Errorf("cell.AdjustPassive: non-positive cm=%g or ra=%g", cm, ra)
	}
	for i, cp := range cl.Cb.Comps {
		f := 1.0
		if i > 0 {
			f = corr
		}
		cp.Cm = cm * f
		cp.Ra = ra * f
		cp.UpdateDerived()
	}
	return nil
}

// AdjustLeak sets the leak conductance density g (S/cm2) and leak reversal
// e (mV) in every compartment; g is scaled by corr in non-somatic
// compartments, e is uniform.
func (cl *Cell) AdjustLeak(g, e, corr float64) error {
	if g < 0 {
		return fmt.Errorf("cell.AdjustLeak: negative conductance density %g", g)
	}
	for i, cp := range cl.Cb.Comps {
		f := 1.0
		if i > 0 {
			f = corr
		}
		cp.GPas = g * f
		cp.EPas = e
	}
	return nil
}

// adjustDensity sets a mechanism's density in every compartment: soma at
// the somatic value, all others at dend * corr.  set stores the located
// value into the mechanism.
func (cl *Cell) adjustDensity(op string, kind chans.ChanKinds, soma, dend, corr float64, set func(ch chans.Chan, val float64)) error {
	if soma < 0 || dend < 0 {
		return fmt.Errorf("cell.%s: negative density soma=%g dend=%g", op, soma, dend)
	}
	for i, cp := range cl.Cb.Comps {
		ch, err := cp.Mech(kind)
		if err != nil {
			return fmt.Errorf("cell.%s: %v", op, err)
		}
		v := soma
		if i > 0 {
			v = dend * corr
		}
		set(ch, v)
		ch.Update()
	}
	return nil
}

// AdjustIT sets the T-type calcium permeability density (cm/s) per
// location.
func (cl *Cell) AdjustIT(soma, dend, corr float64) error {
	return cl.adjustDensity("AdjustIT", chans.IT, soma, dend, corr, func(ch chans.Chan, v float64) {
		ch.(*chans.TType).PCa = v
	})
}

// AdjustITKinetics sets the T-type kinetic parameters uniformly across all
// compartments: the screening-charge voltage shift (mV), the steady-state
// slope multiplier, and the TauhScaled slowdown factor.
func (cl *Cell) AdjustITKinetics(shift, slopeMul, tauhMul float64) error {
	for _, cp := range cl.Cb.Comps {
		ch, err := cp.Mech(chans.IT)
		if err != nil {
			return fmt.Errorf("cell.AdjustITKinetics: %v", err)
		}
		tt := ch.(*chans.TType)
		tt.Shift = shift
		tt.SlopeMul = slopeMul
		tt.TauhMul = tauhMul
		tt.Update()
	}
	return nil
}

// AdjustIH sets the hyperpolarization-activated conductance density
// (S/cm2) per location.
func (cl *Cell) AdjustIH(soma, dend, corr float64) error {
	return cl.adjustDensity("AdjustIH", chans.IH, soma, dend, corr, func(ch chans.Chan, v float64) {
		ch.(*chans.HCurrent).Gbar = v
	})
}

// AdjustIHKinetics sets the h-current activation shift (mV) and slope
// multiplier uniformly.
func (cl *Cell) AdjustIHKinetics(shift, slopeMul float64) error {
	for _, cp := range cl.Cb.Comps {
		ch, err := cp.Mech(chans.IH)
		if err != nil {
			return fmt.Errorf("cell.AdjustIHKinetics: %v", err)
		}
		hc := ch.(*chans.HCurrent)
		hc.Shift = shift
		hc.SlopeMul = slopeMul
		hc.Update()
	}
	return nil
}

// AdjustIA sets the A-type potassium conductance density (S/cm2) per
// location.
func (cl *Cell) AdjustIA(soma, dend, corr float64) error {
	return cl.adjustDensity("AdjustIA", chans.IA, soma, dend, corr, func(ch chans.Chan, v float64) {
		ch.(*chans.AType).Gbar = v
	})
}

// AdjustIKir sets the inward-rectifier potassium conductance density
// (S/cm2) per location.
func (cl *Cell) AdjustIKir(soma, dend, corr float64) error {
	return cl.adjustDensity("AdjustIKir", chans.IKir, soma, dend, corr, func(ch chans.Chan, v float64) {
		ch.(*chans.Kir).Gbar = v
	})
}

// AdjustINaP sets the persistent sodium conductance density (S/cm2) per
// location.
func (cl *Cell) AdjustINaP(soma, dend, corr float64) error {
	return cl.adjustDensity("AdjustINaP", chans.INaP, soma, dend, corr, func(ch chans.Chan, v float64) {
		ch.(*chans.NaP).Gbar = v
	})
}

// AdjustIKCa sets the calcium-activated potassium conductance density
// (S/cm2) per location.
func (cl *Cell) AdjustIKCa(soma, dend, corr float64) error {
	return cl.adjustDensity("AdjustIKCa", chans.IKCa, soma, dend, corr, func(ch chans.Chan, v float64) {
		ch.(*chans.KCa).Gbar = v
	})
}

// AdjustCaDyn sets the calcium pool removal time constant (msec) and
// resting equilibrium concentration (mM) uniformly.  Pool parameters are
// not densities and never carry the correction factor.
func (cl *Cell) AdjustCaDyn(tau, cainf float64) error {
	for _, cp := range cl.Cb.Comps {
		ch, err := cp.Mech(chans.CaDyn)
		if err != nil {
			return fmt.Errorf("cell.AdjustCaDyn: %v", err)
		}
		pl := ch.(*chans.CaPool)
		pl.Tau = tau
		pl.CaInf = cainf
		pl.Update()
	}
	return nil
}

// AddClDyn inserts chloride dynamics (KCC2 extrusion plus optional
// axial diffusion) into every compartment with the given diffusion rate
// (1/msec).  Re-inserting replaces the existing pool.
func (cl *Cell) AddClDyn(diffRate float64) error {
	for _, cp := range cl.Cb.Comps {
		pl := chans.NewClPool()
		pl.DiffRate = diffRate
		if err := cp.Insert(pl); err != nil {
			return fmt.Errorf("cell.AddClDyn: %v", err)
		}
	}
	return nil
}

// AdjustClDyn sets the chloride extrusion time constant (msec), resting
// equilibrium concentration (mM), and diffusion rate (1/msec) uniformly.
func (cl *Cell) AdjustClDyn(tau, clinf, diffRate float64) error {
	for _, cp := range cl.Cb.Comps {
		ch, err := cp.Mech(chans.ClDyn)
		if err != nil {
			return fmt.Errorf("cell.AdjustClDyn: %v", err)
		}
		pl := ch.(*chans.ClPool)
		pl.Tau = tau
		pl.ClInf = clinf
		pl.DiffRate = diffRate
		pl.Update()
	}
	return nil
}

// AdjustHH sets the somatic fast sodium and delayed-rectifier potassium
// conductance densities (S/cm2).  Fast spiking is somatic only, so no
// correction factor applies.
func (cl *Cell) AdjustHH(gna, gk float64) error {
	if gna < 0 || gk < 0 {
		return fmt.Errorf("cell.AdjustHH: negative density gna=%g gk=%g", gna, gk)
	}
	ch, err := cl.Soma().Mech(chans.IHH)
	if err != nil {
		return fmt.Errorf("cell.AdjustHH: %v", err)
	}
	hh := ch.(*chans.HH)
	hh.GNa = gna
	hh.GK = gk
	hh.Update()
	return nil
}
