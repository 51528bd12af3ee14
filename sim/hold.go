// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"math"

	"github.com/emer/thalamo/syn"
)

// HoldSettleMs is the default voltage-clamp settling duration (msec) for
// the holding-current solver.
const HoldSettleMs = 3000

// HoldingCurrent computes the constant bias current (nA) that holds the
// cell at the target potential (mV): a voltage clamp attaches at the
// soma, the cell pins to steady state at the target, a fixed-step settle
// of settleMs (<= 0 uses the 3000 msec default) lets the slow currents
// equilibrate under clamp, and the final clamp current is the answer.
//
// The sub-simulation is fully scoped: the clamp detaches before return,
// nothing is recorded, and the cell re-initializes to the target steady
// state afterward, so no clamp-era gating state leaks into a following
// run.  Calling it twice returns the same value.  Protocols that already
// know their holding current simply skip this and set the electrode bias
// directly.
func (ss *Sim) HoldingCurrent(target, settleMs float64) (float64, error) {
	if ss.Cell == nil {
		return 0, fmt.Errorf("sim: no cell")
	}
	if settleMs <= 0 {
		settleMs = HoldSettleMs
	}
	se := syn.NewSEClamp()
	se.Vt = target
	release, err := ss.AttachSEClamp(se, "soma")
	if err != nil {
		return 0, err
	}
	defer release()

	soma := ss.Cell.Soma()
	cb := ss.Cell.Cb
	dt := ss.Time.DtFix
	nst := int(math.Round(settleMs / dt))
	ss.Cell.SteadyInit(target)
	for _, sb := range ss.Syns {
		sb.Syn.Init()
	}
	for n := 0; n < nst; n++ {
		cb.ZeroStim()
		g, e := se.Conduct()
		soma.AddG(g, e)
		if err := cb.Step(dt, ss.Method); err != nil {
			return 0, fmt.Errorf("sim: holding settle step %d at t=%g msec: %v", n, float64(n)*dt, err)
		}
		se.Current(soma.Vm)
	}
	ihold := se.I

	release()
	ss.Cell.SteadyInit(target)
	return ihold, nil
}
