// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"math"
	"testing"

	"github.com/emer/thalamo/chans"
)

// difTol is the numerical difference tolerance for tests
const difTol = 1.0e-10

func mkCell(t *testing.T, kind NeuronKinds, corr float64, active, fs bool) *Cell {
	cfg := Config{}
	cfg.Defaults()
	cfg.Kind = kind
	cfg.DendCorr = corr
	cfg.Active = active
	cfg.FastSpiking = fs
	cl, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build(%v) failed: %v", kind, err)
	}
	return cl
}

func TestBuildTCTopology(t *testing.T) {
	cl := mkCell(t, TC, 7.954, true, false)
	if n := len(cl.Cb.Comps); n != 3 {
		t.Fatalf("TC compartment count: got %v != 3", n)
	}
	names := []string{"soma", "dend1", "dend2"}
	pars := []int{-1, 0, 1}
	for i, cp := range cl.Cb.Comps {
		if cp.Nm != names[i] {
			t.Errorf("comp %v name: got %v != %v", i, cp.Nm, names[i])
		}
		if cl.Cb.Pars[i] != pars[i] {
			t.Errorf("comp %v parent: got %v != %v", i, cl.Cb.Pars[i], pars[i])
		}
	}
	for _, cp := range cl.Cb.Comps {
		for _, kind := range []chans.ChanKinds{chans.IT, chans.IH, chans.IA, chans.IKir, chans.INaP, chans.CaDyn} {
			if !cp.HasMech(kind) {
				t.Errorf("TC comp %v missing mechanism %v", cp.Nm, kind)
			}
		}
		if cp.HasMech(chans.IHH) {
			t.Errorf("TC comp %v has fast spiking without FastSpiking set", cp.Nm)
		}
	}
	d1, err := cl.Dend(1)
	if err != nil || d1.Nm != "dend1" {
		t.Errorf("Dend(1): got %v err %v", d1, err)
	}
	if _, err := cl.Dend(3); err == nil {
		t.Errorf("Dend(3) should be an error")
	}
}

func TestBuildTCFastSpiking(t *testing.T) {
	cl := mkCell(t, TC, 7.954, true, true)
	if !cl.Soma().HasMech(chans.IHH) {
		t.Errorf("fast-spiking TC soma missing HH mechanism")
	}
	for _, cp := range cl.Cb.Comps[1:] {
		if cp.HasMech(chans.IHH) {
			t.Errorf("fast spiking must be somatic only, found in %v", cp.Nm)
		}
	}
	ch, _ := cl.Soma().Mech(chans.IHH)
	if vt := ch.(*chans.HH).VTraub; math.Abs(vt-(-52)) > difTol {
		t.Errorf("TC HH VTraub: got %v != -52", vt)
	}
}

func TestBuildRETopology(t *testing.T) {
	cl := mkCell(t, RE, 7.954, true, true)
	if n := len(cl.Cb.Comps); n != 3 {
		t.Fatalf("RE compartment count: got %v != 3", n)
	}
	for i := 1; i <= 2; i++ {
		fl, err := cl.Flank(i)
		if err != nil {
			t.Fatalf("Flank(%v): %v", i, err)
		}
		if cl.Cb.Pars[i] != 0 {
			t.Errorf("flank %v must attach to the soma, got parent %v", fl.Nm, cl.Cb.Pars[i])
		}
	}
	if p1, p2 := cl.Cb.Pos[1], cl.Cb.Pos[2]; p1 != 0 || p2 != 1 {
		t.Errorf("flanks must attach at opposite soma ends: got %v, %v", p1, p2)
	}
	for _, cp := range cl.Cb.Comps {
		ch, err := cp.Mech(chans.IT)
		if err != nil {
			t.Fatalf("RE comp %v missing IT: %v", cp.Nm, err)
		}
		if md := ch.(*chans.TType).TauhMode; md != chans.TauhSmooth {
			t.Errorf("RE comp %v IT tauh mode: got %v != TauhSmooth", cp.Nm, md)
		}
		if !cp.HasMech(chans.IKCa) || !cp.HasMech(chans.CaDyn) {
			t.Errorf("RE comp %v missing IKCa or CaDyn", cp.Nm)
		}
		if cp.HasMech(chans.IH) {
			t.Errorf("RE comp %v must not carry the h-current", cp.Nm)
		}
	}
	ch, _ := cl.Soma().Mech(chans.IHH)
	if vt := ch.(*chans.HH).VTraub; math.Abs(vt-(-55)) > difTol {
		t.Errorf("RE HH VTraub: got %v != -55", vt)
	}
}

func TestBuildREBareSoma(t *testing.T) {
	cfg := Config{}
	cfg.Defaults()
	cfg.Kind = RE
	cfg.DendLen = 0
	cfg.Active = true
	cl, err := Build(cfg)
	if err != nil {
		t.Fatalf("RE bare soma build failed: %v", err)
	}
	if n := len(cl.Cb.Comps); n != 1 {
		t.Errorf("RE with zero dendritic length: got %v compartments != 1", n)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []func(cfg *Config){
		func(cfg *Config) { cfg.SomaDiam = 0 },
		func(cfg *Config) { cfg.SomaDiam = -3 },
		func(cfg *Config) { cfg.Kind = TC; cfg.DendLen = 0 },
		func(cfg *Config) { cfg.DendLen = -1 },
		func(cfg *Config) { cfg.DendDiam = 0 },
		func(cfg *Config) { cfg.DendCorr = 0 },
		func(cfg *Config) { cfg.FastSpiking = true; cfg.Active = false },
	}
	for i, mod := range bad {
		cfg := Config{}
		cfg.Defaults()
		cfg.Active = true
		mod(&cfg)
		if _, err := Build(cfg); err == nil {
			t.Errorf("bad config %v: expected a configuration error", i)
		}
	}
}

// TestCorrFactor verifies the dendritic correction asymmetry: the factor
// scales dendritic capacitance, axial resistivity, leak and channel
// densities, and never touches the soma.
func TestCorrFactor(t *testing.T) {
	base := mkCell(t, TC, 1, true, false)
	for _, corr := range []float64{0.5, 1, 7.954} {
		cl := mkCell(t, TC, corr, true, false)
		bs, cs := base.Soma(), cl.Soma()
		if cs.Cm != bs.Cm || cs.Ra != bs.Ra || cs.GPas != bs.GPas {
			t.Errorf("corr %v: somatic passive values changed: cm %v ra %v gpas %v", corr, cs.Cm, cs.Ra, cs.GPas)
		}
		bch, _ := bs.Mech(chans.IT)
		cch, _ := cs.Mech(chans.IT)
		if cch.(*chans.TType).PCa != bch.(*chans.TType).PCa {
			t.Errorf("corr %v: somatic IT density changed", corr)
		}
		for i := 1; i <= 2; i++ {
			bd, _ := base.Dend(i)
			cd, _ := cl.Dend(i)
			if dif := math.Abs(cd.Cm - bd.Cm*corr); dif > difTol {
				t.Errorf("corr %v dend%v Cm: got %v != %v", corr, i, cd.Cm, bd.Cm*corr)
			}
			if dif := math.Abs(cd.Ra - bd.Ra*corr); dif > difTol {
				t.Errorf("corr %v dend%v Ra: got %v != %v", corr, i, cd.Ra, bd.Ra*corr)
			}
			if dif := math.Abs(cd.GPas - bd.GPas*corr); dif > difTol {
				t.Errorf("corr %v dend%v GPas: got %v != %v", corr, i, cd.GPas, bd.GPas*corr)
			}
			bch, _ = bd.Mech(chans.IH)
			cch, _ = cd.Mech(chans.IH)
			bg := bch.(*chans.HCurrent).Gbar
			cg := cch.(*chans.HCurrent).Gbar
			if dif := math.Abs(cg - bg*corr); dif > difTol {
				t.Errorf("corr %v dend%v IH Gbar: got %v != %v", corr, i, cg, bg*corr)
			}
		}
	}
}

func TestAdjust(t *testing.T) {
	corr := 7.954
	cl := mkCell(t, TC, corr, true, true)
	if err := cl.AdjustIT(1e-4, 3e-4, corr); err != nil {
		t.Fatalf("AdjustIT: %v", err)
	}
	ch, _ := cl.Soma().Mech(chans.IT)
	if p := ch.(*chans.TType).PCa; math.Abs(p-1e-4) > difTol {
		t.Errorf("AdjustIT soma PCa: got %v != 1e-4", p)
	}
	d2, _ := cl.Dend(2)
	ch, _ = d2.Mech(chans.IT)
	if p := ch.(*chans.TType).PCa; math.Abs(p-3e-4*corr) > difTol {
		t.Errorf("AdjustIT dend PCa: got %v != %v", p, 3e-4*corr)
	}

	if err := cl.AdjustLeak(1e-5, -70, corr); err != nil {
		t.Fatalf("AdjustLeak: %v", err)
	}
	if g := cl.Soma().GPas; math.Abs(g-1e-5) > difTol {
		t.Errorf("AdjustLeak soma GPas: got %v != 1e-5", g)
	}
	if g := d2.GPas; math.Abs(g-1e-5*corr) > difTol {
		t.Errorf("AdjustLeak dend GPas: got %v != %v", g, 1e-5*corr)
	}
	if e := d2.EPas; math.Abs(e-(-70)) > difTol {
		t.Errorf("AdjustLeak reversal must be uniform: got %v != -70", e)
	}

	if err := cl.AdjustPassive(1, 100, corr); err != nil {
		t.Fatalf("AdjustPassive: %v", err)
	}
	if c := cl.Soma().Cm; math.Abs(c-1) > difTol {
		t.Errorf("AdjustPassive soma Cm: got %v != 1", c)
	}
	if c := d2.Cm; math.Abs(c-corr) > difTol {
		t.Errorf("AdjustPassive dend Cm: got %v != %v", c, corr)
	}
	// derived absolute capacitance must track the new density
	if dif := math.Abs(d2.Ctot - d2.Cm*d2.Area*1e3); dif > difTol {
		t.Errorf("AdjustPassive did not refresh derived Ctot: dif %v", dif)
	}

	if err := cl.AdjustITKinetics(0, 1.5, 3); err != nil {
		t.Fatalf("AdjustITKinetics: %v", err)
	}
	ch, _ = d2.Mech(chans.IT)
	if sh := ch.(*chans.TType).Shift; sh != 0 {
		t.Errorf("AdjustITKinetics shift: got %v != 0", sh)
	}

	if err := cl.AdjustHH(0.1, 0.01); err != nil {
		t.Fatalf("AdjustHH: %v", err)
	}
	ch, _ = cl.Soma().Mech(chans.IHH)
	if g := ch.(*chans.HH).GNa; math.Abs(g-0.1) > difTol {
		t.Errorf("AdjustHH GNa: got %v != 0.1", g)
	}
}

func TestAdjustErrors(t *testing.T) {
	pas := mkCell(t, TC, 7.954, false, false)
	if err := pas.AdjustIT(1e-4, 1e-4, 7.954); err == nil {
		t.Errorf("AdjustIT on a passive build must be a configuration error")
	}
	if err := pas.AdjustHH(0.1, 0.01); err == nil {
		t.Errorf("AdjustHH on a passive build must be a configuration error")
	}
	act := mkCell(t, TC, 7.954, true, false)
	if err := act.AdjustHH(0.1, 0.01); err == nil {
		t.Errorf("AdjustHH without fast spiking must be a configuration error")
	}
	if err := act.AdjustIKCa(1e-4, 1e-4, 7.954); err == nil {
		t.Errorf("AdjustIKCa on a TC build must be a configuration error")
	}
	if err := act.AdjustClDyn(3000, 6, 0); err == nil {
		t.Errorf("AdjustClDyn before AddClDyn must be a configuration error")
	}
	if err := act.AddClDyn(0.001); err != nil {
		t.Fatalf("AddClDyn: %v", err)
	}
	if err := act.AdjustClDyn(2500, 5, 0.002); err != nil {
		t.Errorf("AdjustClDyn after AddClDyn: %v", err)
	}
}

func TestSteadyInitAndSynLocs(t *testing.T) {
	cl := mkCell(t, TC, 7.954, true, false)
	cl.SteadyInit(-70)
	for _, cp := range cl.Cb.Comps {
		if cp.Vm != -70 {
			t.Errorf("SteadyInit comp %v Vm: got %v != -70", cp.Nm, cp.Vm)
		}
		if dif := math.Abs(cp.Ion.Ca - 0.00024); dif > difTol {
			t.Errorf("SteadyInit comp %v [Ca]i: got %v != 0.00024", cp.Nm, cp.Ion.Ca)
		}
	}
	locs := cl.SynLocs()
	if len(locs) != 3 || locs[0] != "soma" {
		t.Errorf("TC SynLocs: got %v", locs)
	}
	re := mkCell(t, RE, 7.954, true, false)
	locs = re.SynLocs()
	if len(locs) != 3 || locs[0] != "flank1" || locs[2] != "soma" {
		t.Errorf("RE SynLocs: got %v", locs)
	}
}
