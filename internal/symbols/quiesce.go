package symbols

import "slices"

// Quiesce is called when every unit of the run is parked. It marks the
// registry quiescent: from now on a missing name fails immediately. Waiters
// are failed in two steps so that the real cause is reported once:
//
//  1. waits on names nobody declared fail with ErrUnresolvedSymbol;
//  2. when there are none, waits that close a cycle fail with
//     ErrResolutionCycle.
//
// Units woken by step 1 or 2 fail their own symbols, which wakes the rest
// with ErrDependency. Quiesce may run again on the next stall. It returns
// the number of waiters it failed.
func (r *Registry) Quiesce() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quiescent = true

	names := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if len(e.waiters) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	failed := 0
	for _, name := range names {
		e := r.entries[name]
		if e.declared {
			continue
		}
		r.wakeLocked(e.waiters, &ResolveError{Name: name, Err: ErrUnresolvedSymbol})
		failed += len(e.waiters)
		e.waiters = nil
	}
	if failed > 0 {
		return failed
	}

	edges := make(map[string][]string)
	for _, name := range names {
		for _, w := range r.entries[name].waiters {
			if w.from != "" {
				edges[w.from] = append(edges[w.from], name)
			}
		}
	}

	for _, name := range names {
		e := r.entries[name]
		var keep, cyc []*waiter
		for _, w := range e.waiters {
			if w.from != "" && reachable(edges, name, w.from) {
				cyc = append(cyc, w)
			} else {
				keep = append(keep, w)
			}
		}
		if len(cyc) == 0 {
			continue
		}
		r.wakeLocked(cyc, &ResolveError{Name: name, Err: ErrResolutionCycle})
		failed += len(cyc)
		e.waiters = keep
	}
	if failed > 0 {
		return failed
	}

	// waits with no known requester: nothing else can finalize them
	for _, name := range names {
		e := r.entries[name]
		r.wakeLocked(e.waiters, &ResolveError{Name: name, Err: ErrResolutionCycle})
		failed += len(e.waiters)
		e.waiters = nil
	}
	return failed
}

// Abort fails every current and future wait with cause.
func (r *Registry) Abort(cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborted = cause
	r.quiescent = true
	for name, e := range r.entries {
		r.wakeLocked(e.waiters, &ResolveError{Name: name, Err: cause})
		e.waiters = nil
	}
}

// Quiescent reports whether Quiesce has run.
func (r *Registry) Quiescent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quiescent
}

func reachable(edges map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range edges[n] {
			if m == to {
				return true
			}
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}
