// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"math"
	"strings"
	"testing"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/thalamo/cell"
	"github.com/emer/thalamo/syn"
)

// TestWiring builds a 7x7 grid with radius-2 circle connectivity and
// checks the structural wiring properties: no self connections, every
// connection within the radius, strictly-interior neighbors all
// connected, edge truncation, and the delay / release probability
// formulas.
func TestWiring(t *testing.T) {
	ct := New("wire")
	ct.CellCfg.Kind = cell.TC
	ct.Grid.Rows = 7
	ct.Grid.Cols = 7
	ct.Grid.Spacing = 1
	ct.Pat = NewCircleRadius(2)
	ct.Conn.DelayMs = 1
	ct.Conn.Velocity = 2
	ct.Conn.PMax = 1
	ct.Conn.PSigma = 2
	if err := ct.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(ct.Nodes) != 49 {
		t.Fatalf("nodes: %d != 49", len(ct.Nodes))
	}
	have := map[int64]bool{}
	for _, cn := range ct.Conns {
		if cn.Send == cn.Recv {
			t.Errorf("self connection at cell %d", cn.Send)
		}
		have[int64(cn.Recv)*49+int64(cn.Send)] = true
		sp, rp := ct.Nodes[cn.Send].Pos, ct.Nodes[cn.Recv].Pos
		if math.Abs(float64(sp.X-rp.X)) > 2.000001 || math.Abs(float64(sp.Y-rp.Y)) > 2.000001 {
			t.Errorf("connection %d -> %d beyond radius 2", cn.Send, cn.Recv)
		}
		d := float64(sp.DistTo(rp))
		wantDel := 1 + d/2
		if dif := math.Abs(cn.Delay - wantDel); dif > 1e-5 {
			t.Errorf("connection %d -> %d delay %v != %v", cn.Send, cn.Recv, cn.Delay, wantDel)
		}
		wantP := math.Exp(-(d * d) / 8)
		if dif := math.Abs(cn.P - wantP); dif > 1e-5 {
			t.Errorf("connection %d -> %d p %v != %v", cn.Send, cn.Recv, cn.P, wantP)
		}
	}
	// the connection list is exactly the pattern's connectivity
	shp := etensor.NewShape([]int{7, 7}, nil, []string{"Y", "X"})
	_, _, cons := ct.Pat.Connect(shp, shp, true)
	for ri := 0; ri < 49; ri++ {
		for si := 0; si < 49; si++ {
			if cons.Values.Index(ri*49+si) != have[int64(ri)*49+int64(si)] {
				t.Errorf("connection %d -> %d disagrees with pattern", si, ri)
			}
		}
	}
	// the center cell's 8 immediate neighbors (distance <= sqrt 2) are
	// all strictly inside the radius and must be connected
	ctr := 3*7 + 3
	in := map[int32]bool{}
	for _, cn := range ct.Conns {
		if int(cn.Recv) == ctr {
			in[cn.Send] = true
		}
	}
	for _, si := range []int{ctr - 8, ctr - 7, ctr - 6, ctr - 1, ctr + 1, ctr + 6, ctr + 7, ctr + 8} {
		if !in[int32(si)] {
			t.Errorf("neighbor %d not connected to center %d", si, ctr)
		}
	}
	// corner neighborhoods are truncated
	if ct.RConN[0] >= ct.RConN[ctr] {
		t.Errorf("corner recv count %d not below interior %d", ct.RConN[0], ct.RConN[ctr])
	}
	// send and recv totals both count every connection once
	tots, totr := 0, 0
	for i := range ct.SConN {
		tots += int(ct.SConN[i])
		totr += int(ct.RConN[i])
	}
	if tots != len(ct.Conns) || totr != len(ct.Conns) {
		t.Errorf("connection totals: send %d recv %d conns %d", tots, totr, len(ct.Conns))
	}
	for si := range ct.Nodes {
		for _, cn := range ct.SendConns(si) {
			if int(cn.Send) != si {
				t.Errorf("send grouping broken at cell %d", si)
			}
		}
	}
}

func TestSpikeDetector(t *testing.T) {
	sd := SpikeDetector{}
	sd.Defaults()
	sd.Init(-70)
	if sd.Detect(-10, 0.5) {
		t.Errorf("below threshold detected")
	}
	if !sd.Detect(5, 1) {
		t.Errorf("upward crossing missed")
	}
	if sd.Detect(10, 1.5) {
		t.Errorf("sustained suprathreshold re-detected")
	}
	if sd.Detect(-5, 2) {
		t.Errorf("downward crossing detected")
	}
	if sd.Detect(5, 2.5) {
		t.Errorf("refractory crossing not ignored")
	}
	if sd.Detect(-5, 5) {
		t.Errorf("downward crossing detected")
	}
	if !sd.Detect(5, 6) {
		t.Errorf("post-refractory crossing missed")
	}
	if sd.N != 2 || len(sd.Times) != 2 || sd.Times[0] != 1 || sd.Times[1] != 6 {
		t.Errorf("spike record wrong: N=%v times=%v", sd.N, sd.Times)
	}
	sd.Init(-70)
	if sd.N != 0 || len(sd.Times) != 0 {
		t.Errorf("init did not reset: N=%v times=%v", sd.N, sd.Times)
	}
}

// TestSpikeDelivery drives one of two mutually connected fast-spiking
// cells over threshold and checks that its spikes activate the other
// cell's synapse, with recording and reporting in place.
func TestSpikeDelivery(t *testing.T) {
	ct := New("pair")
	ct.CellCfg.Kind = cell.TC
	ct.CellCfg.Active = true
	ct.CellCfg.FastSpiking = true
	ct.Grid.Rows = 1
	ct.Grid.Cols = 2
	ct.Pat = prjn.NewFull()
	ct.Conn.DelayMs = 5
	ct.Conn.Velocity = 0
	ct.Conn.PMax = 0.5
	ct.Conn.PSigma = 0
	ct.Spike.Thr = -20
	ct.RecVm = true
	if err := ct.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(ct.Conns) != 2 {
		t.Fatalf("full pattern on 2 cells: %d conns != 2", len(ct.Conns))
	}
	ic := syn.NewIClamp()
	ic.Delay = 50
	ic.Dur = 100
	ic.Amp = 1.5
	if _, err := ct.Nodes[0].Sim.AddIClamp(ic, "soma"); err != nil {
		t.Fatalf("%v", err)
	}
	if err := ct.Run(300); err != nil {
		t.Fatalf("run: %v", err)
	}
	nd0, nd1 := ct.Nodes[0], ct.Nodes[1]
	if nd0.Det.N < 1 {
		t.Fatalf("driven cell never crossed threshold")
	}
	if ts := nd0.Det.Times[0]; ts < 50 || ts > 100 {
		t.Errorf("first spike at %v msec, want inside the pulse onset window", ts)
	}
	if nd1.Syn.Syn.G <= 0 {
		t.Errorf("receiving synapse never activated")
	}
	if (nd0.Syn.Syn.G > 0) != (nd1.Det.N > 0) {
		t.Errorf("reverse delivery inconsistent: G=%v spikes=%v", nd0.Syn.Syn.G, nd1.Det.N)
	}
	if ct.Table == nil || ct.Table.Rows != 3001 {
		t.Fatalf("trace table rows wrong")
	}
	for _, col := range []string{"Time", "TC0.Vm", "TC1.Vm"} {
		if _, err := ct.Table.ColIdxTry(col); err != nil {
			t.Errorf("missing column %v: %v", col, err)
		}
	}
	if rp := ct.SizeReport(); !strings.Contains(rp, "Cells: 2") {
		t.Errorf("size report: %v", rp)
	}
}

// TestDeterminism runs the same two-cell protocol twice and requires
// identical spike trains and final synapse state.
func TestDeterminism(t *testing.T) {
	mk := func() *Circuit {
		ct := New("det")
		ct.CellCfg.Kind = cell.TC
		ct.CellCfg.Active = true
		ct.CellCfg.FastSpiking = true
		ct.Grid.Rows = 1
		ct.Grid.Cols = 2
		ct.Pat = prjn.NewFull()
		ct.Conn.DelayMs = 3
		ct.Spike.Thr = -20
		if err := ct.Build(); err != nil {
			t.Fatalf("build: %v", err)
		}
		ic := syn.NewIClamp()
		ic.Delay = 20
		ic.Dur = 60
		ic.Amp = 1.5
		if _, err := ct.Nodes[0].Sim.AddIClamp(ic, "soma"); err != nil {
			t.Fatalf("%v", err)
		}
		if err := ct.Run(150); err != nil {
			t.Fatalf("run: %v", err)
		}
		return ct
	}
	a := mk()
	b := mk()
	if a.Nodes[0].Det.N != b.Nodes[0].Det.N {
		t.Fatalf("spike counts differ: %v vs %v", a.Nodes[0].Det.N, b.Nodes[0].Det.N)
	}
	for i, ts := range a.Nodes[0].Det.Times {
		if ts != b.Nodes[0].Det.Times[i] {
			t.Errorf("spike %d at %v vs %v", i, ts, b.Nodes[0].Det.Times[i])
		}
	}
	if a.Nodes[1].Syn.Syn.G != b.Nodes[1].Syn.Syn.G {
		t.Errorf("final synapse state differs: %v vs %v", a.Nodes[1].Syn.Syn.G, b.Nodes[1].Syn.Syn.G)
	}
}
