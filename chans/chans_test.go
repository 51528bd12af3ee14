// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-8

func TestGateExp(t *testing.T) {
	x0 := 0.2
	xinf := 0.9
	tau := 12.5
	dt := 0.1

	// one step must match the closed-form solution of the gating equation
	x1 := GateExp(x0, xinf, tau, dt)
	cor := xinf + (x0-xinf)*math.Exp(-dt/tau)
	if dif := math.Abs(x1 - cor); dif > difTol {
		t.Errorf("GateExp one step: x1: %v, cor: %v, dif: %v\n", x1, cor, dif)
	}

	// two half steps must compose exactly to one full step
	xh := GateExp(x0, xinf, tau, 0.5*dt)
	xh = GateExp(xh, xinf, tau, 0.5*dt)
	if dif := math.Abs(xh - x1); dif > difTol {
		t.Errorf("GateExp composition: two half steps: %v, one step: %v, dif: %v\n", xh, x1, dif)
	}

	// long step converges to xinf
	xl := GateExp(x0, xinf, tau, 1000*tau)
	if dif := math.Abs(xl - xinf); dif > difTol {
		t.Errorf("GateExp convergence: x: %v, xinf: %v, dif: %v\n", xl, xinf, dif)
	}
}

func TestEFun(t *testing.T) {
	// continuity across the linearization threshold
	lo := EFun(0.99e-4)
	hi := EFun(1.01e-4)
	if dif := math.Abs(lo - hi); dif > 1e-6 {
		t.Errorf("EFun continuity at threshold: lo: %v, hi: %v, dif: %v\n", lo, hi, dif)
	}
	if dif := math.Abs(EFun(0) - 1); dif > difTol {
		t.Errorf("EFun(0) should be 1: %v\n", EFun(0))
	}
}

func TestGHK(t *testing.T) {
	// zero flux when concentrations equal and v = 0
	if f := GHK(0, 2, 2, 36); math.Abs(f) > difTol {
		t.Errorf("GHK equilibrium flux should be 0: %v\n", f)
	}
	// physiological gradient at negative potentials drives inward current
	if f := GHK(-60, 2.4e-4, 2, 36); f >= 0 {
		t.Errorf("GHK inward flux should be negative: %v\n", f)
	}
	// flux factor increases monotonically with voltage
	prev := GHK(-120, 2.4e-4, 2, 36)
	for v := -119.0; v <= 50; v++ {
		cur := GHK(v, 2.4e-4, 2, 36)
		if cur <= prev {
			t.Errorf("GHK not monotone at v: %v, prev: %v, cur: %v\n", v, prev, cur)
			break
		}
		prev = cur
	}
}

func TestTTypeCurves(t *testing.T) {
	tp := TTypeParams{}
	tp.Defaults()

	// activation increases, inactivation decreases with voltage
	if tp.MinfFmV(-60) <= tp.MinfFmV(-90) {
		t.Errorf("TType minf not increasing: %v vs %v\n", tp.MinfFmV(-60), tp.MinfFmV(-90))
	}
	if tp.HinfFmV(-60) >= tp.HinfFmV(-90) {
		t.Errorf("TType hinf not decreasing: %v vs %v\n", tp.HinfFmV(-60), tp.HinfFmV(-90))
	}

	// shift property: shifted params at v = unshifted at v + shift
	ts := TTypeParams{}
	ts.Defaults()
	ts.Shift = 10
	ts.Update()
	t0 := TTypeParams{}
	t0.Defaults()
	t0.Shift = 0
	t0.Update()
	for v := -120.0; v <= 0; v += 5 {
		if dif := math.Abs(ts.MinfFmV(v) - t0.MinfFmV(v+10)); dif > difTol {
			t.Errorf("TType shift property minf at v: %v, dif: %v\n", v, dif)
		}
		if dif := math.Abs(ts.HTauFmV(v) - t0.HTauFmV(v+10)); dif > difTol {
			t.Errorf("TType shift property htau at v: %v, dif: %v\n", v, dif)
		}
	}
}

func TestTTypeTauhModes(t *testing.T) {
	pw := TTypeParams{}
	pw.Defaults()
	pw.TauhMode = TauhPiecewise

	sc := TTypeParams{}
	sc.Defaults()
	sc.TauhMode = TauhScaled
	sc.TauhMul = 2.5

	ct := TTypeParams{}
	ct.Defaults()
	ct.TauhMode = TauhConst
	ct.TauhFix = 42

	sm := TTypeParams{}
	sm.Defaults()
	sm.TauhMode = TauhSmooth

	for v := -120.0; v <= -20; v += 2.5 {
		if dif := math.Abs(sc.HTauFmV(v) - 2.5*pw.HTauFmV(v)); dif > difTol {
			t.Errorf("TauhScaled at v: %v, got: %v, want: %v\n", v, sc.HTauFmV(v), 2.5*pw.HTauFmV(v))
		}
		if ct.HTauFmV(v) != 42 {
			t.Errorf("TauhConst at v: %v, got: %v\n", v, ct.HTauFmV(v))
		}
		if sm.HTauFmV(v) <= 0 {
			t.Errorf("TauhSmooth nonpositive at v: %v: %v\n", v, sm.HTauFmV(v))
		}
	}

	// smooth form has no jump where the piecewise form breaks
	smJump := math.Abs(sm.HTauFmV(-80.01) - sm.HTauFmV(-79.99))
	pwJump := math.Abs(pw.HTauFmV(-82.01) - pw.HTauFmV(-81.99))
	if smJump > 1 {
		t.Errorf("TauhSmooth discontinuous near -80: %v\n", smJump)
	}
	if pwJump < 1 {
		t.Errorf("TauhPiecewise should jump at its breakpoint: %v\n", pwJump)
	}
}

func TestHHRates(t *testing.T) {
	hp := HHParams{}
	hp.Defaults()

	if m := hp.MinfFmV(0); m < 0.9 {
		t.Errorf("HH minf at 0 mV should be near 1: %v\n", m)
	}
	if m := hp.MinfFmV(-100); m > 0.05 {
		t.Errorf("HH minf at -100 mV should be near 0: %v\n", m)
	}
	// rate singularities are removable: taus stay positive and finite
	// right at the alpha-function break voltages
	for _, v := range []float64{hp.VTraub + 13, hp.VTraub + 40, hp.VTraub + 15} {
		for _, tau := range []float64{hp.MTauFmV(v), hp.HTauFmV(v), hp.NTauFmV(v)} {
			if math.IsNaN(tau) || math.IsInf(tau, 0) || tau <= 0 {
				t.Errorf("HH tau invalid at v: %v: %v\n", v, tau)
			}
		}
	}
}

func TestSteadyInit(t *testing.T) {
	ion := &Ions{}
	ion.Defaults()
	v := -70.0

	for k := IT; k < ChanKindsN; k++ {
		ch, err := New(k)
		if err != nil {
			t.Errorf("New(%v) error: %v\n", k, err)
			continue
		}
		if ch.Kind() != k {
			t.Errorf("Kind mismatch: got %v, want %v\n", ch.Kind(), k)
		}
		ch.InitSteady(v, ion)
		nv := ch.NVars()
		if nv != len(ch.VarNames()) {
			t.Errorf("%v NVars %v != len(VarNames) %v\n", k, nv, len(ch.VarNames()))
		}
		dy := make([]float64, nv)
		ion.ZeroFlux()
		ch.Derivs(v, ion, dy)
		for i, d := range dy {
			if math.Abs(d) > 1e-10 {
				t.Errorf("%v deriv %v (%v) not zero at steady state: %v\n", k, i, ch.VarNames()[i], d)
			}
		}
		// a long fixed-voltage step must not move the steady state
		y0 := make([]float64, nv)
		y1 := make([]float64, nv)
		ch.Vars(ion, y0)
		ch.Step(v, 1000, ion)
		ch.Vars(ion, y1)
		for i := range y0 {
			if dif := math.Abs(y1[i] - y0[i]); dif > 1e-9 {
				t.Errorf("%v steady state drifted: var %v, dif: %v\n", k, i, dif)
			}
		}
	}

	// Leak is not insertable
	if _, err := New(Leak); err == nil {
		t.Errorf("New(Leak) should be an error\n")
	}
}

func TestVarsRoundTrip(t *testing.T) {
	ion := &Ions{}
	ion.Defaults()
	for k := IT; k < ChanKindsN; k++ {
		ch, _ := New(k)
		ch.InitSteady(-65, ion)
		y0 := make([]float64, ch.NVars())
		y1 := make([]float64, ch.NVars())
		ch.Vars(ion, y0)
		ch.SetVars(ion, y0)
		ch.Vars(ion, y1)
		for i := range y0 {
			if y0[i] != y1[i] {
				t.Errorf("%v Vars round trip: var %v: %v != %v\n", k, i, y0[i], y1[i])
			}
		}
	}
}

func TestCaPoolStep(t *testing.T) {
	cd := NewCaPool()
	ion := &Ions{}
	ion.Defaults()
	cd.InitSteady(-70, ion)

	// inward calcium current accumulates toward CaInf + Tau*drive
	ion.ICa = -0.001
	drive := cd.DriveFmICa(ion.ICa)
	if drive <= 0 {
		t.Errorf("inward current should give positive drive: %v\n", drive)
	}
	cd.Step(-70, 100*cd.Tau, ion)
	target := cd.CaInf + cd.Tau*drive
	if dif := math.Abs(ion.Ca - target); dif > difTol {
		t.Errorf("CaPool long-step target: ca: %v, target: %v, dif: %v\n", ion.Ca, target, dif)
	}

	// outward flux is clipped: pump-only return to CaInf
	if d := cd.DriveFmICa(0.001); d != 0 {
		t.Errorf("outward current drive should clip to 0: %v\n", d)
	}
	ion.ICa = 0
	ca0 := ion.Ca
	dt := 2.5
	cd.Step(-70, dt, ion)
	cor := cd.CaInf + (ca0-cd.CaInf)*math.Exp(-dt/cd.Tau)
	if dif := math.Abs(ion.Ca - cor); dif > difTol {
		t.Errorf("CaPool decay: ca: %v, cor: %v, dif: %v\n", ion.Ca, cor, dif)
	}
}

func TestClPool(t *testing.T) {
	cl := NewClPool()
	ion := &Ions{}
	ion.Defaults()
	cl.InitSteady(-70, ion)

	if ion.Cl != cl.ClInf {
		t.Errorf("ClPool init: cl: %v, want: %v\n", ion.Cl, cl.ClInf)
	}
	if ion.E.Cl >= 0 {
		t.Errorf("ECl should be negative for inward gradient: %v\n", ion.E.Cl)
	}
	// chloride loading (outward positive current = inward Cl flux)
	// raises [Cl]i and depolarizes ECl
	e0 := ion.E.Cl
	ion.ICl = 0.002
	cl.Step(-70, 1000, ion)
	if ion.Cl <= cl.ClInf {
		t.Errorf("chloride load should raise [Cl]i: %v\n", ion.Cl)
	}
	if ion.E.Cl <= e0 {
		t.Errorf("chloride load should depolarize ECl: %v vs %v\n", ion.E.Cl, e0)
	}
}
