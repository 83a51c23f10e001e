// Package sched runs compilation units and detects quiescence.
//
// A Coordinator owns the pending-task set. Every unit is added to the set
// synchronously by Spawn, before the spawning unit can finish, so JoinAll never
// observes an empty set while work is still being enumerated. Units that wait
// on the symbol registry Park themselves; the registry Wakes them before it
// closes their waiter channel. When no unit is active and some are parked the
// build is stalled, and OnStall runs so that the waits can be failed.
package sched
