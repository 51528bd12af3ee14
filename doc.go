// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package thalamo is the overall repository for biophysically detailed
thalamic neuron models implemented in the Go language (golang), including
multi-compartment thalamocortical relay (TC) and thalamic reticular (RE)
cells with the full complement of voltage-gated and calcium-dependent
conductances that generate low-threshold bursting.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* chans: voltage-gated and ion-dependent membrane channel kinetics
(T-type calcium, H-current, A-type and inward-rectifier potassium,
persistent sodium, fast spiking sodium / potassium, calcium-dependent
potassium), plus intracellular calcium and chloride pools.

* cable: the compartmental cable equation -- electrical compartments,
their tree coupling, and the implicit (backward Euler and Crank-Nicolson)
solver that advances the voltage system by direct tree elimination.

* cell: assembly of compartments and channels into standard TC and RE
cell models, with morphology and density adjustment operations and
steady-state initialization.

* syn: synaptic conductances (slow GABA-B type inhibition), timed
stimulus event queues, current injection, and voltage clamp.

* sim: the simulation driver -- time state, fixed-step and adaptive
(Adams-Bashforth-Moulton) integration, holding-current search, and
trace recording to etable.Table for analysis and plotting.

* circuit: small networks of cells connected by synaptic projections,
with spike detection and inter-cell event routing.

* examples: runnable demonstrations, including the classic
hyperpolarization-rebound burst protocol in a TC cell (tcburst) and
steady-state activation curve plots for all channels (gatecurves).
*/
package thalamo
