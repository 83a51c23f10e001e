package sched

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"

	"golang.org/x/sync/semaphore"

	"raven/internal/trace"
)

// Options configures a Coordinator.
type Options struct {
	// Workers bounds how many units execute CPU work at once; <= 0 means GOMAXPROCS.
	Workers int
	// OnStall runs on its own goroutine whenever every unit in the set is parked.
	OnStall func()
	// Tracer receives unit spans and stall points; nil means trace.Nop.
	Tracer trace.Tracer
}

// Stats is a snapshot of the pending-task set.
type Stats struct {
	InFlight int
	Active   int
	Parked   int
	Holds    int
	Spawned  int
	Stalls   int
}

// Coordinator owns the pending-task set of one pipeline run.
type Coordinator struct {
	opts Options
	sem  *semaphore.Weighted

	mu       sync.Mutex
	inflight int // spawned and not yet finished
	active   int // running or runnable units plus holds
	parked   int
	holds    int
	spawned  int
	stalls   int
	idle     chan struct{} // closed when inflight+holds drops to zero
	failures []TaskFailure
}

// New creates a Coordinator.
func New(opts Options) *Coordinator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	idle := make(chan struct{})
	close(idle)
	return &Coordinator{
		opts: opts,
		sem:  semaphore.NewWeighted(int64(opts.Workers)),
		idle: idle,
	}
}

// busyLocked opens a new idle channel when the set goes from empty to non-empty.
func (c *Coordinator) busyLocked() {
	if c.inflight+c.holds == 0 {
		c.idle = make(chan struct{})
	}
}

// Spawn adds a unit to the pending-task set and runs fn on a new goroutine.
// The unit is counted before Spawn returns. A panic or error from fn is
// recorded as a TaskFailure; siblings keep running.
func (c *Coordinator) Spawn(ctx context.Context, name string, fn func(ctx context.Context) error) {
	u := &Unit{c: c, name: name}

	c.mu.Lock()
	c.busyLocked()
	c.inflight++
	c.active++
	c.spawned++
	c.mu.Unlock()

	parent := trace.CurrentSpan(ctx).SpanID
	go c.run(WithUnit(context.WithoutCancel(ctx), u), u, parent, fn)
}

func (c *Coordinator) run(ctx context.Context, u *Unit, parent uint64, fn func(context.Context) error) {
	c.acquire()
	u.mu.Lock()
	u.holding = true
	u.mu.Unlock()

	span := trace.Begin(c.opts.Tracer, trace.ScopeUnit, u.name, parent)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	var err error
	defer func() {
		if r := recover(); r != nil {
			c.fail(TaskFailure{Unit: u.name, Err: &PanicError{Value: r}, Stack: debug.Stack()})
			span.End("panic")
		} else if err != nil {
			c.fail(TaskFailure{Unit: u.name, Err: err})
			span.End(err.Error())
		} else {
			span.End("")
		}
		u.mu.Lock()
		release := u.holding
		u.holding = false
		wasParked := u.parked
		u.mu.Unlock()
		if release {
			c.sem.Release(1)
		}
		c.finish(wasParked)
	}()

	err = fn(ctx)
}

func (c *Coordinator) acquire() {
	// Acquire only fails on context cancellation.
	_ = c.sem.Acquire(context.Background(), 1) //nolint:errcheck
}

func (c *Coordinator) fail(f TaskFailure) {
	c.mu.Lock()
	c.failures = append(c.failures, f)
	c.mu.Unlock()
}

func (c *Coordinator) finish(wasParked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if wasParked {
		// fn returned between Park and Resume
		c.parked--
	} else {
		c.active--
	}
	if c.inflight+c.holds == 0 {
		close(c.idle)
	}
	c.checkStallLocked()
}

func (c *Coordinator) park() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active--
	c.parked++
	c.checkStallLocked()
}

func (c *Coordinator) wake() {
	c.mu.Lock()
	c.parked--
	c.active++
	c.mu.Unlock()
}

func (c *Coordinator) checkStallLocked() {
	if c.active != 0 || c.parked == 0 {
		return
	}
	c.stalls++
	trace.Point(c.opts.Tracer, trace.ScopeUnit, "stall", "parked="+strconv.Itoa(c.parked), 0)
	if c.opts.OnStall != nil {
		go c.opts.OnStall()
	}
}

// Hold keeps the set non-empty (and active) until release is called, so that
// an external spawner can enumerate work without JoinAll returning early.
// release is idempotent.
func (c *Coordinator) Hold() (release func()) {
	c.mu.Lock()
	c.busyLocked()
	c.holds++
	c.active++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.holds--
			c.active--
			if c.inflight+c.holds == 0 {
				close(c.idle)
			}
			c.checkStallLocked()
		})
	}
}

// JoinAll waits until the pending-task set is empty and stays empty across a
// scheduling pass. Units spawned while JoinAll waits are awaited too.
// It returns a *FailureError when any unit failed, or ctx.Err() when the
// wait is abandoned.
func (c *Coordinator) JoinAll(ctx context.Context) error {
	for {
		c.mu.Lock()
		idle := c.idle
		c.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}

		runtime.Gosched()

		c.mu.Lock()
		empty := c.inflight+c.holds == 0
		var failures []TaskFailure
		if empty && len(c.failures) > 0 {
			failures = append(failures, c.failures...)
		}
		c.mu.Unlock()

		if !empty {
			continue
		}
		if len(failures) > 0 {
			return &FailureError{Failures: failures}
		}
		return nil
	}
}

// Failures returns the failures recorded so far.
func (c *Coordinator) Failures() []TaskFailure {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TaskFailure, len(c.failures))
	copy(out, c.failures)
	return out
}

// Stats returns a snapshot of the set counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		InFlight: c.inflight,
		Active:   c.active,
		Parked:   c.parked,
		Holds:    c.holds,
		Spawned:  c.spawned,
		Stalls:   c.stalls,
	}
}

// Probe adapts Stats for trace heartbeats.
func (c *Coordinator) Probe() map[string]string {
	s := c.Stats()
	return map[string]string{
		"inflight": strconv.Itoa(s.InFlight),
		"active":   strconv.Itoa(s.Active),
		"parked":   strconv.Itoa(s.Parked),
		"spawned":  strconv.Itoa(s.Spawned),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("inflight=%d active=%d parked=%d holds=%d spawned=%d stalls=%d",
		s.InFlight, s.Active, s.Parked, s.Holds, s.Spawned, s.Stalls)
}
