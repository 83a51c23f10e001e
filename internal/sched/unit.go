package sched

import (
	"context"
	"sync"
)

type unitKey struct{}

// Unit is the coordinator-side handle of one running unit.
type Unit struct {
	c    *Coordinator
	name string

	mu      sync.Mutex
	parked  bool
	holding bool // holds a semaphore slot
}

// Name returns the unit name given to Spawn.
func (u *Unit) Name() string { return u.name }

// Coordinator returns the coordinator that runs u.
func (u *Unit) Coordinator() *Coordinator { return u.c }

// WithUnit attaches u to ctx.
func WithUnit(ctx context.Context, u *Unit) context.Context {
	return context.WithValue(ctx, unitKey{}, u)
}

// UnitFrom returns the unit running under ctx, or nil outside a coordinator.
func UnitFrom(ctx context.Context) *Unit {
	if ctx == nil {
		return nil
	}
	u, _ := ctx.Value(unitKey{}).(*Unit)
	return u
}

// Park marks the unit as suspended: it stops counting as active and gives
// its worker slot back. Callers must make the wait visible to its waker and
// call Park under the same lock, otherwise a Wake can arrive before Park.
// Park on a nil unit is a no-op.
func (u *Unit) Park() {
	if u == nil {
		return
	}
	u.mu.Lock()
	if u.parked {
		u.mu.Unlock()
		return
	}
	u.parked = true
	release := u.holding
	u.holding = false
	u.mu.Unlock()

	if release {
		u.c.sem.Release(1)
	}
	u.c.park()
}

// Wake makes a parked unit runnable again. It is called by whoever completes
// the wait, before the unit is released, so that the coordinator never sees
// a moment where the woken unit is neither active nor parked.
func (u *Unit) Wake() {
	if u == nil {
		return
	}
	u.mu.Lock()
	if !u.parked {
		u.mu.Unlock()
		return
	}
	u.parked = false
	u.mu.Unlock()
	u.c.wake()
}

// Resume is called by the unit itself after its wait completed; it takes a
// worker slot again.
func (u *Unit) Resume() {
	if u == nil {
		return
	}
	u.mu.Lock()
	holding := u.holding
	u.mu.Unlock()
	if holding {
		return
	}
	u.c.acquire()
	u.mu.Lock()
	u.holding = true
	u.mu.Unlock()
}
