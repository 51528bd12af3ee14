// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "math"

// physical constants in the units used throughout (mV, msec, mM, mA/cm2)
const (
	// Faraday is the Faraday constant (coulombs / mole)
	Faraday = 96485.309

	// GasR is the gas constant (joules / mole-kelvin)
	GasR = 8.31441

	// ZeroC is absolute zero offset for celsius (kelvin)
	ZeroC = 273.15
)

// GateExp advances gating variable x toward steady state xinf with time
// constant tau (msec) over a step of dt msec, using the exact solution of
// the linear gating equation dx/dt = (xinf - x)/tau at fixed voltage.
// This is unconditionally stable for any dt.
func GateExp(x, xinf, tau, dt float64) float64 {
	return xinf + (x-xinf)*math.Exp(-dt/tau)
}

// GateDeriv returns dx/dt for gating variable x with steady state xinf and
// time constant tau (msec), for adaptive integration.
func GateDeriv(x, xinf, tau float64) float64 {
	return (xinf - x) / tau
}

// GateBound clips a gating variable to its defined [0,1] range.
func GateBound(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// EFun is the singularity-safe exponential quotient x / (e^x - 1),
// linearized to 1 - x/2 for |x| < 1e-4.
func EFun(x float64) float64 {
	if math.Abs(x) < 1e-4 {
		return 1 - x/2
	}
	return x / (math.Exp(x) - 1)
}

// GHK returns the Goldman-Hodgkin-Katz constant-field flux factor for a
// divalent cation (z=2) at voltage v (mV), intracellular concentration ci
// and extracellular co (mM), at the given temperature (celsius).
// Multiplying by a permeability density (cm/s) and the gating product
// yields current density in mA/cm2, outward positive.
func GHK(v, ci, co, celsius float64) float64 {
	z := 1e-3 * 2 * Faraday * v / (GasR * (celsius + ZeroC))
	eci := ci * EFun(-z)
	eco := co * EFun(z)
	return 1e-3 * 2 * Faraday * (eci - eco)
}

// NernstCl returns the chloride reversal potential (mV) from intracellular
// cli and extracellular clo concentrations (mM) at the given temperature
// (celsius).  Chloride valence is -1, so E = (RT/F) ln(cli/clo).
func NernstCl(cli, clo, celsius float64) float64 {
	return 1e3 * GasR * (celsius + ZeroC) / Faraday * math.Log(cli/clo)
}

// Q10Factor returns the rate scaling factor q10^((celsius - tref)/10)
// applied to kinetic rates measured at reference temperature tref.
func Q10Factor(q10, celsius, tref float64) float64 {
	return math.Pow(q10, (celsius-tref)/10)
}
