// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syn

// SEClamp is a single-electrode voltage clamp: a series resistance pulls
// the attachment compartment toward the target potential, entering the
// implicit solve as conductance 1/Rs with reversal Vt.  The current
// required is reported after each solve.  The holding-current solver
// attaches one transiently and releases it before the main run.
type SEClamp struct {
	Vt float64 `desc:"clamp target potential (mV)"`
	Rs float64 `def:"1" min:"1e-06" desc:"series resistance (Mohm)"`
	I  float64 `inactive:"+" desc:"clamp current (nA) at the last report"`
}

func NewSEClamp() *SEClamp {
	se := &SEClamp{}
	se.Defaults()
	return se
}

func (se *SEClamp) Defaults() {
	se.Rs = 1
}

// Conduct returns the conductance (uS) and driving potential (mV) this
// clamp contributes to its compartment for the coming solve.
func (se *SEClamp) Conduct() (g, e float64) {
	return 1 / se.Rs, se.Vt
}

// Current reports the clamp current (nA) at the compartment's post-solve
// potential v: positive current flows into the cell when v is below the
// target.
func (se *SEClamp) Current(v float64) float64 {
	se.I = (se.Vt - v) / se.Rs
	return se.I
}
