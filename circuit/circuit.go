// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package circuit wires many cells into a network: cells laid out on a
spatial grid, connectivity from a prjn.Pattern over the grid shape,
per-connection propagation delay and release probability derived from
inter-cell distance, spike detection at each soma, and a lockstep
fixed-step run that turns detected spikes into delayed synaptic events
in the receiving cells.

Every cell is built from one shared cell.Config and driven by its own
sim.Sim; the circuit advances them all one fixed step at a time in index
order, so the run is single-threaded and fully deterministic.  A
detected spike schedules one event per outgoing connection into the
receiving cell's synapse queue, at the post-step time plus the
connection delay, weighted by the connection's release probability.
*/
package circuit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/chewxy/math32"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/thalamo/cable"
	"github.com/emer/thalamo/cell"
	"github.com/emer/thalamo/sim"
	"github.com/emer/thalamo/syn"
	"github.com/goki/mat32"
)

// GridParams lay the cells out on a rectangular grid.
type GridParams struct {
	Rows    int     `min:"1" desc:"number of grid rows of cells"`
	Cols    int     `min:"1" desc:"number of grid columns of cells"`
	Spacing float32 `def:"1" min:"0" desc:"distance between adjacent cells (arbitrary spatial units; delays and falloffs are expressed in these)"`
}

func (gp *GridParams) Defaults() {
	gp.Rows = 4
	gp.Cols = 4
	gp.Spacing = 1
}

// N returns the total cell count.
func (gp *GridParams) N() int {
	return gp.Rows * gp.Cols
}

// Pos returns the spatial position of cell i: columns along X, rows
// along Y, Spacing apart.
func (gp *GridParams) Pos(i int) mat32.Vec2 {
	return mat32.Vec2{X: float32(i%gp.Cols) * gp.Spacing, Y: float32(i/gp.Cols) * gp.Spacing}
}

// ConnParams derive each connection's propagation delay and release
// probability from the distance between the two cells.
type ConnParams struct {
	DelayMs  float64 `def:"2" min:"0" desc:"base propagation delay (msec) applied to every connection"`
	Velocity float64 `def:"0" min:"0" desc:"conduction velocity (spatial units per msec); when > 0, distance / velocity adds to the base delay"`
	PMax     float32 `def:"1" min:"0" max:"1" desc:"release probability of a zero-distance connection"`
	PSigma   float32 `def:"2" min:"0" desc:"gaussian falloff width (spatial units) of the release probability with distance; 0 means no falloff"`
}

func (cn *ConnParams) Defaults() {
	cn.DelayMs = 2
	cn.Velocity = 0
	cn.PMax = 1
	cn.PSigma = 2
}

// DelayAt returns the propagation delay (msec) for inter-cell distance d.
func (cn *ConnParams) DelayAt(d float32) float64 {
	del := cn.DelayMs
	if cn.Velocity > 0 {
		del += float64(d) / cn.Velocity
	}
	return del
}

// PAt returns the release probability for inter-cell distance d.
func (cn *ConnParams) PAt(d float32) float32 {
	if cn.PSigma <= 0 {
		return cn.PMax
	}
	return cn.PMax * math32.Exp(-(d*d)/(2*cn.PSigma*cn.PSigma))
}

// Conn is one synaptic connection from a sending to a receiving cell.
type Conn struct {
	Send  int32   `desc:"sending cell index"`
	Recv  int32   `desc:"receiving cell index"`
	Delay float64 `desc:"propagation delay (msec) from spike to event delivery"`
	P     float64 `desc:"release probability carried as the event weight"`
}

// Node is one cell in the circuit: the built cell, its lockstep driver,
// the spike-driven synapse receiving upstream events, and the somatic
// spike detector.
type Node struct {
	Cell *cell.Cell    `desc:"the built cell"`
	Sim  *sim.Sim      `desc:"per-cell driver, stepped in lockstep"`
	Syn  *sim.SynBind  `desc:"spike-driven synapse receiving upstream events"`
	Det  SpikeDetector `desc:"somatic spike detector"`
	Pos  mat32.Vec2    `desc:"spatial position"`
}

// Circuit is a network of identically configured cells with
// distance-dependent connectivity.
type Circuit struct {
	Nm      string       `desc:"circuit name for reports and the trace table"`
	CellCfg cell.Config  `desc:"shared build configuration for every cell"`
	Grid    GridParams   `view:"inline" desc:"spatial layout"`
	Pat     prjn.Pattern `desc:"connectivity pattern over the grid shape; NewCircleRadius gives the distance-radius form"`
	Conn    ConnParams   `view:"inline" desc:"per-connection delay and release probability"`
	Spike   SpikeParams  `view:"inline" desc:"shared spike detection settings"`
	DtFix   float64      `def:"0.1" desc:"lockstep fixed step (msec) for every cell"`
	RecVm   bool         `desc:"record each cell's somatic potential into Table during Run"`

	Nodes       []*Node       `desc:"per-cell state, after Build"`
	Conns       []Conn        `desc:"all connections, grouped by sending cell"`
	SConN       []int32       `desc:"number of outgoing connections per cell"`
	SConIndexSt []int32       `desc:"starting index into Conns per sending cell"`
	RConN       []int32       `desc:"number of incoming connections per cell"`
	Table       *etable.Table `view:"no-inline" desc:"recorded soma potentials from the last run, when RecVm"`
}

// New returns a new Circuit with default parameters.
func New(nm string) *Circuit {
	ct := &Circuit{Nm: nm}
	ct.Defaults()
	return ct
}

func (ct *Circuit) Defaults() {
	ct.CellCfg.Defaults()
	ct.Grid.Defaults()
	ct.Conn.Defaults()
	ct.Spike.Defaults()
	ct.DtFix = 0.1
	if ct.Pat == nil {
		ct.Pat = prjn.NewFull()
	}
}

// NewCircleRadius returns a circle connectivity pattern connecting every
// cell pair within the given radius (grid units), without wrap-around
// and without self connections.
func NewCircleRadius(r int) *prjn.Circle {
	cr := prjn.NewCircle()
	cr.Radius = r
	cr.Wrap = false
	return cr
}

// Build constructs every cell from the shared configuration, binds a
// spike-driven synapse at each cell's first synapse location, and wires
// the connections from the pattern.
func (ct *Circuit) Build() error {
	if ct.Grid.Rows < 1 || ct.Grid.Cols < 1 {
		return fmt.Errorf("circuit %s: grid %dx%d invalid", ct.Nm, ct.Grid.Rows, ct.Grid.Cols)
	}
	if ct.Pat == nil {
		return fmt.Errorf("circuit %s: no connectivity pattern", ct.Nm)
	}
	if ct.DtFix <= 0 {
		return fmt.Errorf("circuit %s: non-positive step %g", ct.Nm, ct.DtFix)
	}
	n := ct.Grid.N()
	ct.Nodes = make([]*Node, n)
	for i := range ct.Nodes {
		cl, err := cell.Build(ct.CellCfg)
		if err != nil {
			return fmt.Errorf("circuit %s: cell %d: %v", ct.Nm, i, err)
		}
		ss := sim.NewSim(cl)
		ss.Policy = sim.FixedStep
		ss.Time.DtFix = ct.DtFix
		sb, err := ss.AddSyn(syn.NewGABABSyn(), cl.SynLocs()[0])
		if err != nil {
			return fmt.Errorf("circuit %s: cell %d: %v", ct.Nm, i, err)
		}
		sb.ProbWt = true
		nd := &Node{Cell: cl, Sim: ss, Syn: sb, Pos: ct.Grid.Pos(i)}
		nd.Det.SpikeParams = ct.Spike
		ct.Nodes[i] = nd
	}
	return ct.buildCons()
}

// buildCons consumes the connectivity pattern over the grid shape and
// fills the send-grouped connection list, deriving each connection's
// delay and release probability from the cell positions.
func (ct *Circuit) buildCons() error {
	n := ct.Grid.N()
	shp := etensor.NewShape([]int{ct.Grid.Rows, ct.Grid.Cols}, nil, []string{"Y", "X"})
	sendn, recvn, cons := ct.Pat.Connect(shp, shp, true)
	ct.SConN = make([]int32, n)
	ct.SConIndexSt = make([]int32, n)
	ct.RConN = make([]int32, n)
	copy(ct.RConN, recvn.Values)
	tot := int32(0)
	for si := 0; si < n; si++ {
		nc := sendn.Values[si]
		ct.SConN[si] = nc
		ct.SConIndexSt[si] = tot
		tot += nc
	}
	ct.Conns = make([]Conn, tot)
	sconN := make([]int32, n) // cur fill count per sender
	cbits := cons.Values
	for ri := 0; ri < n; ri++ {
		rbi := ri * n // recv bit index
		for si := 0; si < n; si++ {
			if !cbits.Index(rbi + si) { // no connection
				continue
			}
			if sconN[si] >= ct.SConN[si] {
				return fmt.Errorf("circuit %s: pattern %s: send con count exceeded at send %d, recv %d", ct.Nm, ct.Pat.Name(), si, ri)
			}
			ci := ct.SConIndexSt[si] + sconN[si]
			sconN[si]++
			d := ct.Nodes[si].Pos.DistTo(ct.Nodes[ri].Pos)
			ct.Conns[ci] = Conn{
				Send:  int32(si),
				Recv:  int32(ri),
				Delay: ct.Conn.DelayAt(d),
				P:     float64(ct.Conn.PAt(d)),
			}
		}
	}
	return nil
}

// SendConns returns the outgoing connections of cell si.
func (ct *Circuit) SendConns(si int) []Conn {
	st := ct.SConIndexSt[si]
	return ct.Conns[st : st+ct.SConN[si]]
}

// NodeName returns the report name of cell i: the cell kind plus index.
func (ct *Circuit) NodeName(i int) string {
	return fmt.Sprintf("%s%d", ct.CellCfg.Kind, i)
}

// Run advances every cell in lockstep fixed steps from 0 to tstop msec.
// Within each step: every cell advances one step in index order, then
// every soma is checked for a spike in index order, and each spike
// schedules one event per outgoing connection into the receiving
// synapse's queue at the current time plus the connection delay.
// Events land in time-sorted queues and deliver when their cell's step
// window covers them, so the whole run is deterministic.
func (ct *Circuit) Run(tstop float64) error {
	if len(ct.Nodes) == 0 {
		return fmt.Errorf("circuit %s: not built", ct.Nm)
	}
	if tstop <= 0 {
		return fmt.Errorf("circuit %s: non-positive tstop %g", ct.Nm, tstop)
	}
	dt := ct.DtFix
	nst := int(math.Round(tstop / dt))
	ct.ConfigTable()
	for _, nd := range ct.Nodes {
		nd.Sim.Time.DtFix = dt
		nd.Syn.Evts.Init()
		nd.Sim.Init()
		nd.Det.Init(nd.Cell.Soma().Vm)
	}
	ct.record(0)
	for n := 0; n < nst; n++ {
		t := float64(n) * dt
		for i, nd := range ct.Nodes {
			if err := nd.Sim.StepFixed(t); err != nil {
				return fmt.Errorf("circuit %s: cell %d: %v", ct.Nm, i, err)
			}
		}
		tnext := t + dt
		for si, nd := range ct.Nodes {
			if !nd.Det.Detect(nd.Cell.Soma().Vm, tnext) {
				continue
			}
			for _, cn := range ct.SendConns(si) {
				ct.Nodes[cn.Recv].Syn.Evts.Add(tnext+cn.Delay, cn.P)
			}
		}
		ct.record(tnext)
	}
	return nil
}

// ConfigTable allocates the trace table for RecVm runs: a Time column
// plus one soma potential column per cell.
func (ct *Circuit) ConfigTable() {
	if !ct.RecVm {
		ct.Table = nil
		return
	}
	sch := etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
	}
	for i := range ct.Nodes {
		sch = append(sch, etable.Column{ct.NodeName(i) + ".Vm", etensor.FLOAT64, nil, nil})
	}
	ct.Table = &etable.Table{}
	ct.Table.SetMetaData("name", ct.Nm)
	ct.Table.SetMetaData("precision", strconv.Itoa(sim.LogPrec))
	ct.Table.SetFromSchema(sch, 0)
}

func (ct *Circuit) record(t float64) {
	if ct.Table == nil {
		return
	}
	row := ct.Table.Rows
	ct.Table.SetNumRows(row + 1)
	ct.Table.SetCellFloat("Time", row, t)
	for i, nd := range ct.Nodes {
		ct.Table.SetCellFloat(ct.NodeName(i)+".Vm", row, nd.Cell.Soma().Vm)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Misc Reports

// SizeReport returns a string reporting the number of cells,
// compartments, and connections, and the memory footprint of each.
func (ct *Circuit) SizeReport() string {
	var b strings.Builder
	comps := 0
	for _, nd := range ct.Nodes {
		comps += len(nd.Cell.Cb.Comps)
	}
	compMem := comps * int(unsafe.Sizeof(cable.Comp{}))
	conMem := len(ct.Conns) * int(unsafe.Sizeof(Conn{}))
	fmt.Fprintf(&b, "%14s:\t Cells: %d\t Comps: %d\t CompMem: %v\t Conns: %d\t ConnMem: %v\n",
		ct.Nm, len(ct.Nodes), comps, (datasize.ByteSize)(compMem).HumanReadable(),
		len(ct.Conns), (datasize.ByteSize)(conMem).HumanReadable())
	return b.String()
}
