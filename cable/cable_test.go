// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cable

import (
	"math"
	"testing"

	"github.com/emer/thalamo/chans"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-9

func passiveComp(t *testing.T, nm string) *Comp {
	cp, err := NewComp(nm, Soma, 38.42, 26)
	if err != nil {
		t.Fatalf("NewComp error: %v\n", err)
	}
	return cp
}

func TestCompDerived(t *testing.T) {
	cp := passiveComp(t, "soma")

	area := math.Pi * 26 * 38.42 * 1e-8
	if dif := math.Abs(cp.Area - area); dif > difTol {
		t.Errorf("Area: %v, cor: %v\n", cp.Area, area)
	}
	ctot := cp.Cm * area * 1e3
	if dif := math.Abs(cp.Ctot - ctot); dif > difTol {
		t.Errorf("Ctot: %v, cor: %v\n", cp.Ctot, ctot)
	}

	// geometry setters recompute immediately
	if err := cp.SetGeom(100, 10); err != nil {
		t.Fatalf("SetGeom error: %v\n", err)
	}
	if cp.Area == area {
		t.Errorf("Area not recomputed after SetGeom\n")
	}
	if err := cp.SetGeom(-1, 10); err == nil {
		t.Errorf("non-positive geometry should be an error\n")
	}
}

func TestCompInsert(t *testing.T) {
	cp := passiveComp(t, "soma")

	if _, err := cp.Mech(chans.IT); err == nil {
		t.Errorf("Mech on uninserted kind should be an error\n")
	}
	if err := cp.Insert(chans.NewTType()); err != nil {
		t.Errorf("Insert error: %v\n", err)
	}
	if !cp.HasMech(chans.IT) {
		t.Errorf("HasMech after Insert should be true\n")
	}

	// re-insert overwrites in place
	tt := chans.NewTType()
	tt.PCa = 0.001
	if err := cp.Insert(tt); err != nil {
		t.Errorf("re-Insert error: %v\n", err)
	}
	if len(cp.Chans) != 1 {
		t.Errorf("re-Insert should not grow the mechanism list: %v\n", len(cp.Chans))
	}
	mch, err := cp.Mech(chans.IT)
	if err != nil {
		t.Fatalf("Mech error: %v\n", err)
	}
	if mch.(*chans.TType).PCa != 0.001 {
		t.Errorf("re-Insert should replace parameters\n")
	}

	if err := cp.Insert(nil); err == nil {
		t.Errorf("Insert nil should be an error\n")
	}
}

func TestTopologyErrors(t *testing.T) {
	cb := NewCable()
	soma := passiveComp(t, "soma")
	if _, err := cb.AddComp(soma, 0, 0); err == nil {
		t.Errorf("first compartment with parent should be an error\n")
	}
	if _, err := cb.AddComp(soma, -1, 0); err != nil {
		t.Fatalf("AddComp root error: %v\n", err)
	}
	d1 := passiveComp(t, "dend1")
	if _, err := cb.AddComp(d1, 3, 1); err == nil {
		t.Errorf("out-of-range parent should be an error\n")
	}
	if _, err := cb.AddComp(d1, 0, 1.5); err == nil {
		t.Errorf("attachment position outside 0..1 should be an error\n")
	}
	if _, err := cb.AddComp(d1, 0, 1); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	dup := passiveComp(t, "dend1")
	if _, err := cb.AddComp(dup, 0, 1); err == nil {
		t.Errorf("duplicate name should be an error\n")
	}
	if err := cb.Build(); err != nil {
		t.Fatalf("Build error: %v\n", err)
	}
	if _, err := cb.AddComp(passiveComp(t, "late"), 0, 1); err == nil {
		t.Errorf("AddComp after Build should be an error\n")
	}
}

// singleCompStep checks one solver step against the closed-form implicit
// update for a single passive compartment.
func singleCompStep(t *testing.T, method Methods, theta float64) {
	cb := NewCable()
	cp := passiveComp(t, "soma")
	if _, err := cb.AddComp(cp, -1, 0); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if err := cb.Build(); err != nil {
		t.Fatalf("Build error: %v\n", err)
	}
	v0 := -60.0
	cb.InitSteady(v0)
	dt := 0.1

	gl := cp.GPas * cp.Area * 1e6 // uS
	var cor float64
	if method == CNCorrected {
		dvh := -gl * (v0 - cp.EPas) / (cp.Ctot/(0.5*dt) + gl)
		cor = v0 + 2*dvh
	} else {
		dv := -gl * (v0 - cp.EPas) / (cp.Ctot/dt + theta*gl)
		cor = v0 + dv
	}

	cb.ZeroStim()
	if err := cb.Step(dt, method); err != nil {
		t.Fatalf("Step error: %v\n", err)
	}
	if dif := math.Abs(cp.Vm - cor); dif > difTol {
		t.Errorf("%v single comp step: Vm: %v, cor: %v, dif: %v\n", method, cp.Vm, cor, dif)
	}
}

func TestSolverSingleComp(t *testing.T) {
	singleCompStep(t, BackwardEuler, 1)
	singleCompStep(t, CrankNicholson, 0.5)
	singleCompStep(t, CNCorrected, 1)
}

func TestPassiveSteadyState(t *testing.T) {
	cb := NewCable()
	soma := passiveComp(t, "soma")
	dend := passiveComp(t, "dend1")
	dend.Role = ProxDend
	if err := dend.SetGeom(120, 3); err != nil {
		t.Fatalf("SetGeom error: %v\n", err)
	}
	if _, err := cb.AddComp(soma, -1, 0); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if _, err := cb.AddComp(dend, 0, 1); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if err := cb.Build(); err != nil {
		t.Fatalf("Build error: %v\n", err)
	}
	cb.InitSteady(-70)

	inj := 0.1 // nA at the soma
	for n := 0; n < 200000; n++ {
		cb.ZeroStim()
		soma.AddInj(inj)
		if err := cb.Step(0.1, BackwardEuler); err != nil {
			t.Fatalf("Step error: %v\n", err)
		}
	}

	// analytic steady state of the two-compartment passive system:
	// g1(V1-E1) + a(V1-V2) = inj ; g2(V2-E2) + a(V2-V1) = 0
	g1 := soma.GPas * soma.Area * 1e6
	g2 := dend.GPas * dend.Area * 1e6
	a := 1 / (soma.RaHalf + dend.RaHalf)
	v1 := (inj + g1*soma.EPas + a*g2*dend.EPas/(g2+a)) / (g1 + a - a*a/(g2+a))
	v2 := (g2*dend.EPas + a*v1) / (g2 + a)

	if dif := math.Abs(soma.Vm - v1); dif > 1e-6 {
		t.Errorf("soma steady state: Vm: %v, cor: %v, dif: %v\n", soma.Vm, v1, dif)
	}
	if dif := math.Abs(dend.Vm - v2); dif > 1e-6 {
		t.Errorf("dend steady state: Vm: %v, cor: %v, dif: %v\n", dend.Vm, v2, dif)
	}

	// soma is depolarized above the dendrite, both above rest
	if !(soma.Vm > dend.Vm && dend.Vm > soma.EPas) {
		t.Errorf("steady-state ordering: soma: %v, dend: %v, rest: %v\n", soma.Vm, dend.Vm, soma.EPas)
	}
}

func TestClampConductance(t *testing.T) {
	cb := NewCable()
	cp := passiveComp(t, "soma")
	if _, err := cb.AddComp(cp, -1, 0); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if err := cb.Build(); err != nil {
		t.Fatalf("Build error: %v\n", err)
	}
	cb.InitSteady(-73)

	// stiff clamp conductance pulls the compartment to its target
	vt := -60.0
	g := 1.0 / 0.001 // 1 kohm series resistance
	for n := 0; n < 100000; n++ {
		cb.ZeroStim()
		cp.AddG(g, vt)
		if err := cb.Step(0.1, BackwardEuler); err != nil {
			t.Fatalf("Step error: %v\n", err)
		}
	}
	gl := cp.GPas * cp.Area * 1e6
	cor := (gl*cp.EPas + g*vt) / (gl + g)
	if dif := math.Abs(cp.Vm - cor); dif > 1e-6 {
		t.Errorf("clamped steady state: Vm: %v, cor: %v, dif: %v\n", cp.Vm, cor, dif)
	}
	if math.Abs(cp.Vm-vt) > 0.01 {
		t.Errorf("stiff clamp should hold near target: Vm: %v, vt: %v\n", cp.Vm, vt)
	}
}

func TestDivergenceDetection(t *testing.T) {
	cb := NewCable()
	cp := passiveComp(t, "soma")
	if _, err := cb.AddComp(cp, -1, 0); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if err := cb.Build(); err != nil {
		t.Fatalf("Build error: %v\n", err)
	}
	cb.InitSteady(-70)
	cb.ZeroStim()
	cp.AddInj(1e12)
	if err := cb.Step(0.1, BackwardEuler); err == nil {
		t.Errorf("enormous injection should trigger divergence detection\n")
	}

	cb.InitSteady(-70)
	cp.Vm = math.NaN()
	if err := cb.CheckState(); err == nil {
		t.Errorf("NaN state should fail CheckState\n")
	}
}

func TestStateVector(t *testing.T) {
	cb := NewCable()
	soma := passiveComp(t, "soma")
	if err := soma.Insert(chans.NewTType()); err != nil {
		t.Fatalf("Insert error: %v\n", err)
	}
	if err := soma.Insert(chans.NewCaPool()); err != nil {
		t.Fatalf("Insert error: %v\n", err)
	}
	dend := passiveComp(t, "dend1")
	if err := dend.Insert(chans.NewHCurrent()); err != nil {
		t.Fatalf("Insert error: %v\n", err)
	}
	if _, err := cb.AddComp(soma, -1, 0); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if _, err := cb.AddComp(dend, 0, 1); err != nil {
		t.Fatalf("AddComp error: %v\n", err)
	}
	if err := cb.Build(); err != nil {
		t.Fatalf("Build error: %v\n", err)
	}
	cb.InitSteady(-70)

	// Vm + m,h + ca for soma; Vm + m for dend
	if nv := cb.NVars(); nv != 6 {
		t.Errorf("NVars: %v, want 6\n", nv)
	}
	y0 := make([]float64, cb.NVars())
	y1 := make([]float64, cb.NVars())
	cb.Vars(y0)
	cb.SetVars(y0)
	cb.Vars(y1)
	for i := range y0 {
		if y0[i] != y1[i] {
			t.Errorf("state vector round trip at %v: %v != %v\n", i, y0[i], y1[i])
		}
	}

	// derivatives vanish at the passive resting potential only when the
	// active currents balance; at the leak reversal with channels open the
	// voltage derivative reflects the net active current
	cb.InitSteady(soma.EPas)
	cb.ZeroStim()
	dy := make([]float64, cb.NVars())
	cb.Derivs(dy)
	im, _ := soma.MembCurrent(soma.Vm)
	a := 1 / (soma.RaHalf + dend.RaHalf)
	iax := a * (dend.Vm - soma.Vm)
	cor := (-im + iax) / soma.Ctot
	if dif := math.Abs(dy[0] - cor); dif > difTol {
		t.Errorf("soma dVm/dt: %v, cor: %v, dif: %v\n", dy[0], cor, dif)
	}
}
