// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// AdamsParams configure the adaptive variable-order
// Adams-Bashforth-Moulton predictor-corrector (orders 1..4, PECE).
// The step controller works on the weighted RMS of the
// corrector-predictor difference: reject and halve above 1, grow by
// doubling once the order is maximal and the error is far below 1.
// Integration is split at every scheduled discontinuity (synaptic event
// times, stimulus window edges) so event delivery stays exact; each
// segment restarts at order 1.
type AdamsParams struct {
	AbsTol   float64 `def:"1e-06" min:"0" desc:"absolute error tolerance per state variable"`
	RelTol   float64 `def:"0.0001" min:"0" desc:"relative error tolerance"`
	InitStep float64 `def:"0.025" min:"0" desc:"step (msec) used at the start of each segment"`
	MinStep  float64 `def:"1e-06" min:"0" desc:"smallest allowed step (msec); needing less is a stiffness failure"`
	MaxStep  float64 `def:"1" min:"0" desc:"largest allowed step (msec)"`
	MaxOrd   int     `def:"4" min:"1" max:"4" desc:"highest Adams order to reach"`
}

func (ad *AdamsParams) Defaults() {
	ad.AbsTol = 1e-6
	ad.RelTol = 1e-4
	ad.InitStep = 0.025
	ad.MinStep = 1e-6
	ad.MaxStep = 1
	ad.MaxOrd = 4
	ad.Update()
}

func (ad *AdamsParams) Update() {
	if ad.MaxOrd < 1 {
		ad.MaxOrd = 1
	}
	if ad.MaxOrd > 4 {
		ad.MaxOrd = 4
	}
}

// Adams-Bashforth predictor and Adams-Moulton corrector coefficients by
// order; the corrector's first coefficient multiplies the predicted
// derivative.
var (
	abCoef = [5][]float64{
		nil,
		{1},
		{3.0 / 2, -1.0 / 2},
		{23.0 / 12, -16.0 / 12, 5.0 / 12},
		{55.0 / 24, -59.0 / 24, 37.0 / 24, -9.0 / 24},
	}
	amCoef = [5][]float64{
		nil,
		{1},
		{1.0 / 2, 1.0 / 2},
		{5.0 / 12, 8.0 / 12, -1.0 / 12},
		{9.0 / 24, 19.0 / 24, -5.0 / 24, 1.0 / 24},
	}
)

// adamsWS is the adaptive integrator workspace: trial states and the
// derivative history, newest first.
type adamsWS struct {
	yp, yc, fp []float64
	hist       [][]float64
	nh         int
}

func newAdamsWS(n, maxOrd int) *adamsWS {
	ws := &adamsWS{
		yp:   make([]float64, n),
		yc:   make([]float64, n),
		fp:   make([]float64, n),
		hist: make([][]float64, maxOrd),
	}
	for i := range ws.hist {
		ws.hist[i] = make([]float64, n)
	}
	return ws
}

// push rotates the history and copies f to the front.
func (ws *adamsWS) push(f []float64) {
	last := ws.hist[len(ws.hist)-1]
	for i := len(ws.hist) - 1; i > 0; i-- {
		ws.hist[i] = ws.hist[i-1]
	}
	ws.hist[0] = last
	copy(ws.hist[0], f)
	if ws.nh < len(ws.hist) {
		ws.nh++
	}
}

// trunc discards all history but the newest derivative.
func (ws *adamsWS) trunc() {
	ws.nh = 1
}

// wrmsNorm is the weighted RMS of yc-yp with per-component weights
// atol + rtol*|y|; an acceptable step has norm <= 1.
func wrmsNorm(yc, yp, y []float64, atol, rtol float64) float64 {
	s := 0.0
	for i := range yc {
		w := atol + rtol*math.Abs(y[i])
		r := (yc[i] - yp[i]) / w
		s += r * r
	}
	return math.Sqrt(s / float64(len(yc)))
}

// breakTimes returns the sorted, deduplicated discontinuity times in
// (0, tstop): stimulus window edges and scheduled synaptic events, with
// tstop appended.
func (ss *Sim) breakTimes(tstop float64) []float64 {
	var bks []float64
	for _, icb := range ss.Clamps {
		ic := icb.Clamp
		if ic.Dur > 0 {
			if ic.Delay > 0 && ic.Delay < tstop {
				bks = append(bks, ic.Delay)
			}
			if end := ic.Delay + ic.Dur; end < tstop {
				bks = append(bks, end)
			}
		}
	}
	for _, sb := range ss.Syns {
		for _, ev := range sb.Evts.Evts {
			if ev.Time > 0 && ev.Time < tstop {
				bks = append(bks, ev.Time)
			}
		}
	}
	sort.Float64s(bks)
	out := bks[:0]
	last := math.Inf(-1)
	for _, b := range bks {
		if b-last > 1e-9 {
			out = append(out, b)
			last = b
		}
	}
	return append(out, tstop)
}

// runAdaptive integrates to tstop with the ABM predictor-corrector over
// the full continuous state (voltages, gating variables, concentrations).
// Synapse kernel states are advanced exactly per accepted step and
// evaluated in closed form at trial points, so they stay outside the ODE
// state.  Chloride axial diffusion is a stepwise exchange and is not part
// of the smooth derivatives; runs relying on it need fixed stepping.
func (ss *Sim) runAdaptive(tstop float64) error {
	ad := &ss.Adams
	ad.Update()
	if ad.MinStep <= 0 || ad.MaxStep < ad.MinStep || ad.InitStep <= 0 {
		return fmt.Errorf("sim: adaptive step bounds invalid: init=%g min=%g max=%g", ad.InitStep, ad.MinStep, ad.MaxStep)
	}
	cb := ss.Cell.Cb
	n := cb.NVars()
	ws := newAdamsWS(n, ad.MaxOrd)
	y := make([]float64, n)

	// deriv evaluates the state derivative at time t with trial state yv;
	// tau is the offset from the step start, where the exact synapse
	// kernels currently sit.
	deriv := func(t, tau float64, yv, dy []float64) {
		cb.SetVars(yv)
		cb.ZeroStim()
		for _, sb := range ss.Syns {
			sb.Comp.AddG(sb.Syn.GsynAt(tau), sb.Syn.Erev)
		}
		for _, icb := range ss.Clamps {
			icb.Comp.AddInj(icb.Clamp.IAt(t))
		}
		for _, se := range ss.ses {
			g, e := se.Clamp.Conduct()
			se.Comp.AddG(g, e)
		}
		cb.Derivs(dy)
		ss.Stats.Evals++
	}

	t := 0.0
	cb.Vars(y)
	for _, bend := range ss.breakTimes(tstop) {
		// events scheduled exactly at the segment start deliver now
		for _, sb := range ss.Syns {
			sb.Evts.Deliver(t, 1e-9, sb.deliver)
		}
		if err := ss.integrateSeg(t, bend, y, ws, deriv); err != nil {
			return err
		}
		t = bend
	}
	return nil
}

// integrateSeg advances the state from t0 to t1 with the PECE loop,
// recording each accepted step.
func (ss *Sim) integrateSeg(t0, t1 float64, y []float64, ws *adamsWS, deriv func(t, tau float64, yv, dy []float64)) error {
	const tiny = 1e-9
	ad := &ss.Adams
	cb := ss.Cell.Cb
	t := t0
	h := math.Min(ad.InitStep, ad.MaxStep)
	hPrev := 0.0

	deriv(t, 0, y, ws.hist[0])
	ws.nh = 1

	for t < t1-tiny {
		hs := h
		if hs > t1-t {
			hs = t1 - t
		}
		if hs != hPrev {
			ws.trunc()
		}
		ord := ws.nh

		// predict
		copy(ws.yp, y)
		for j := 0; j < ord; j++ {
			floats.AddScaled(ws.yp, hs*abCoef[ord][j], ws.hist[j])
		}
		// evaluate at the predicted point
		deriv(t+hs, hs, ws.yp, ws.fp)
		// correct
		copy(ws.yc, y)
		floats.AddScaled(ws.yc, hs*amCoef[ord][0], ws.fp)
		for j := 1; j < ord; j++ {
			floats.AddScaled(ws.yc, hs*amCoef[ord][j], ws.hist[j-1])
		}

		enorm := wrmsNorm(ws.yc, ws.yp, y, ad.AbsTol, ad.RelTol)
		if enorm > 1 {
			ss.Stats.Rejected++
			ws.trunc()
			h = hs / 2
			hPrev = 0
			if h < ad.MinStep {
				return fmt.Errorf("sim: adaptive stepping failed at t=%g msec after %d steps: step underflow below %g msec (stiffness)", t, ss.Stats.Steps, ad.MinStep)
			}
			continue
		}

		// accept
		copy(y, ws.yc)
		cb.SetVars(y)
		t += hs
		if err := cb.CheckState(); err != nil {
			return fmt.Errorf("sim: adaptive step %d at t=%g msec: %v", ss.Stats.Steps, t, err)
		}
		for _, sb := range ss.Syns {
			sb.Syn.Step(hs)
			sb.Syn.CurrentAt(sb.Comp.Vm)
		}
		for _, se := range ss.ses {
			se.Clamp.Current(se.Comp.Vm)
		}
		deriv(t, 0, y, ws.fp)
		ws.push(ws.fp)
		hPrev = hs
		ss.Time.Advance(hs)
		ss.Stats.accept(hs)
		ss.Rec.Record(ss.Time.Time)

		if enorm < 0.05 && ws.nh == ad.MaxOrd && hs < ad.MaxStep {
			h = math.Min(2*hs, ad.MaxStep)
		}
	}
	return nil
}
