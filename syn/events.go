// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syn

import "sort"

// Event is a pending synaptic activation: delivery time (msec) and the
// event weight (fast-decay mixing fraction, or channel activation
// probability for network-triggered events).
type Event struct {
	Time   float64 `desc:"delivery time (msec)"`
	Weight float64 `desc:"event weight in 0..1"`
}

// EventQueue holds pending synaptic activations sorted by delivery time.
// A single-shot trigger is one scheduled event; spike-driven synapses
// accumulate many, each carrying its own propagation delay and weight.
type EventQueue struct {
	Evts []Event `desc:"pending events in time order"`
}

// Init clears all pending events.
func (eq *EventQueue) Init() {
	eq.Evts = eq.Evts[:0]
}

// Len returns the number of pending events.
func (eq *EventQueue) Len() int {
	return len(eq.Evts)
}

// Add schedules an event, keeping the queue time-ordered.  Events may be
// added while a run is in progress (spike-triggered scheduling).
func (eq *EventQueue) Add(t, w float64) {
	i := sort.Search(len(eq.Evts), func(i int) bool { return eq.Evts[i].Time > t })
	eq.Evts = append(eq.Evts, Event{})
	copy(eq.Evts[i+1:], eq.Evts[i:])
	eq.Evts[i] = Event{Time: t, Weight: w}
}

// NextTime returns the delivery time of the earliest pending event, and
// false if the queue is empty.
func (eq *EventQueue) NextTime() (float64, bool) {
	if len(eq.Evts) == 0 {
		return 0, false
	}
	return eq.Evts[0].Time, true
}

// Deliver removes every event due strictly before t+dt (a half-open
// [t, t+dt) window; anything already overdue is delivered too) and calls
// fn for each in time order.  Returns the number delivered.
func (eq *EventQueue) Deliver(t, dt float64, fn func(ev Event)) int {
	n := 0
	for len(eq.Evts) > 0 && eq.Evts[0].Time < t+dt {
		ev := eq.Evts[0]
		eq.Evts = eq.Evts[1:]
		fn(ev)
		n++
	}
	return n
}
