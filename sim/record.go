// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/thalamo/chans"
	"github.com/goki/ki/kit"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 6

// Quantities are the recordable per-compartment quantities.
type Quantities int

//go:generate stringer -type=Quantities

var KiT_Quantities = kit.Enums.AddEnum(QuantitiesN, kit.NotBitFlag, nil)

func (ev Quantities) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Quantities) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Vm is the compartment membrane potential (mV)
	Vm Quantities = iota

	// IChan is a channel's current density (mA/cm2) from its last evaluation
	IChan

	// Gate is a channel gating or pool state variable, selected by name
	Gate

	// CaConc is the submembrane calcium concentration (mM)
	CaConc

	// ClConc is the intracellular chloride concentration (mM)
	ClConc

	// GSyn is the conductance (uS) of the synapse bound to the compartment
	GSyn

	// ISyn is the current (nA) of the synapse bound to the compartment
	ISyn

	// IStim is the current (nA) injected by the electrode bound to the
	// compartment
	IStim

	QuantitiesN
)

// TraceSpec declares one recorded trace: the compartment, the quantity,
// and for channel quantities which channel and which state variable.
type TraceSpec struct {
	Comp  string          `desc:"compartment name, e.g. soma, dend1"`
	Quant Quantities      `desc:"what to record"`
	Chan  chans.ChanKinds `desc:"channel kind, for IChan and Gate"`
	Var   string          `desc:"state variable name from the channel's VarNames, for Gate"`
	Label string          `desc:"optional column name override"`
}

// ColName returns the table column name for this trace.
func (ts *TraceSpec) ColName() string {
	if ts.Label != "" {
		return ts.Label
	}
	switch ts.Quant {
	case Vm:
		return ts.Comp + ".Vm"
	case IChan:
		return ts.Comp + "." + ts.Chan.String() + ".I"
	case Gate:
		return ts.Comp + "." + ts.Chan.String() + "." + ts.Var
	case CaConc:
		return ts.Comp + ".Ca"
	case ClConc:
		return ts.Comp + ".Cl"
	case GSyn:
		return ts.Comp + ".GgabaB"
	case ISyn:
		return ts.Comp + ".IgabaB"
	case IStim:
		return ts.Comp + ".Istim"
	}
	return ts.Comp + "." + ts.Quant.String()
}

// Recorder turns a declarative list of trace specs into an etable with a
// Time column plus one FLOAT64 column per trace, appending one row per
// accepted step.  Each run reconfigures the table, so successive runs
// never share buffers.
type Recorder struct {
	Specs []TraceSpec   `desc:"declarative trace list, one column each"`
	Table *etable.Table `view:"no-inline" desc:"recorded rows from the last (or current) run"`

	cols []string
	fns  []func() float64
}

// AddTrace appends a trace spec; binding and validation happen when the
// run configures the recorder.
func (rc *Recorder) AddTrace(ts TraceSpec) {
	rc.Specs = append(rc.Specs, ts)
}

// AddVm is shorthand for recording a compartment's membrane potential.
func (rc *Recorder) AddVm(comp string) {
	rc.AddTrace(TraceSpec{Comp: comp, Quant: Vm})
}

// HasGating returns whether any trace records channel gating state.
func (rc *Recorder) HasGating() bool {
	for i := range rc.Specs {
		if rc.Specs[i].Quant == Gate {
			return true
		}
	}
	return false
}

// Config binds every trace spec against the simulation's cell and point
// processes and allocates a fresh empty table.  Binding failures
// (unknown compartment, uninserted channel, unknown state variable, no
// bound synapse or electrode) are configuration errors.
func (rc *Recorder) Config(ss *Sim) error {
	rc.cols = rc.cols[:0]
	rc.fns = rc.fns[:0]
	sch := etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
	}
	seen := map[string]bool{"Time": true}
	for i := range rc.Specs {
		tsp := &rc.Specs[i]
		fn, err := rc.bind(ss, tsp)
		if err != nil {
			return err
		}
		col := tsp.ColName()
		if seen[col] {
			return fmt.Errorf("sim: duplicate trace column %s", col)
		}
		seen[col] = true
		rc.cols = append(rc.cols, col)
		rc.fns = append(rc.fns, fn)
		sch = append(sch, etable.Column{col, etensor.FLOAT64, nil, nil})
	}
	rc.Table = &etable.Table{}
	rc.Table.SetMetaData("name", "Trace")
	rc.Table.SetMetaData("precision", strconv.Itoa(LogPrec))
	rc.Table.SetFromSchema(sch, 0)
	return nil
}

func (rc *Recorder) bind(ss *Sim, tsp *TraceSpec) (func() float64, error) {
	cp, err := ss.Cell.CompByName(tsp.Comp)
	if err != nil {
		return nil, fmt.Errorf("sim: trace %s: %v", tsp.ColName(), err)
	}
	switch tsp.Quant {
	case Vm:
		return func() float64 { return cp.Vm }, nil
	case IChan:
		ch, err := cp.Mech(tsp.Chan)
		if err != nil {
			return nil, fmt.Errorf("sim: trace %s: %v", tsp.ColName(), err)
		}
		return ch.ILast, nil
	case Gate:
		ch, err := cp.Mech(tsp.Chan)
		if err != nil {
			return nil, fmt.Errorf("sim: trace %s: %v", tsp.ColName(), err)
		}
		names := ch.VarNames()
		idx := -1
		for j, nm := range names {
			if nm == tsp.Var {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("sim: trace %s: %v has no state variable %s (have %s)", tsp.ColName(), tsp.Chan, tsp.Var, strings.Join(names, ", "))
		}
		buf := make([]float64, ch.NVars())
		return func() float64 {
			ch.Vars(&cp.Ion, buf)
			return buf[idx]
		}, nil
	case CaConc:
		return func() float64 { return cp.Ion.Ca }, nil
	case ClConc:
		return func() float64 { return cp.Ion.Cl }, nil
	case GSyn, ISyn:
		sb := ss.SynOn(tsp.Comp)
		if sb == nil {
			return nil, fmt.Errorf("sim: trace %s: no synapse bound to %s", tsp.ColName(), tsp.Comp)
		}
		if tsp.Quant == GSyn {
			return func() float64 { return sb.Syn.G }, nil
		}
		return func() float64 { return sb.Syn.I }, nil
	case IStim:
		cb := ss.ClampOn(tsp.Comp)
		if cb == nil {
			return nil, fmt.Errorf("sim: trace %s: no electrode bound to %s", tsp.ColName(), tsp.Comp)
		}
		return func() float64 { return cb.Clamp.I }, nil
	}
	return nil, fmt.Errorf("sim: trace %s: unknown quantity %v", tsp.ColName(), tsp.Quant)
}

// Record appends one row at time t with every bound trace's present
// value.
func (rc *Recorder) Record(t float64) {
	if rc.Table == nil {
		return
	}
	row := rc.Table.Rows
	rc.Table.SetNumRows(row + 1)
	rc.Table.SetCellFloat("Time", row, t)
	for i, fn := range rc.fns {
		rc.Table.SetCellFloat(rc.cols[i], row, fn())
	}
}
