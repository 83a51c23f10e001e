package sched

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJoinAllEmpty(t *testing.T) {
	c := New(Options{Workers: 2})
	require.NoError(t, c.JoinAll(context.Background()))
}

func TestJoinAllWaitsForLateChildren(t *testing.T) {
	c := New(Options{Workers: 2})
	var done atomic.Int32

	ctx := context.Background()
	c.Spawn(ctx, "root", func(ctx context.Context) error {
		time.Sleep(5 * time.Millisecond)
		c.Spawn(ctx, "child", func(ctx context.Context) error {
			time.Sleep(5 * time.Millisecond)
			c.Spawn(ctx, "grandchild", func(context.Context) error {
				done.Add(1)
				return nil
			})
			done.Add(1)
			return nil
		})
		done.Add(1)
		return nil
	})

	require.NoError(t, c.JoinAll(ctx))
	require.Equal(t, int32(3), done.Load())
	st := c.Stats()
	require.Equal(t, 0, st.InFlight)
	require.Equal(t, 3, st.Spawned)
}

func TestPanicBecomesFailure(t *testing.T) {
	c := New(Options{Workers: 1})
	var sibling atomic.Bool
	ctx := context.Background()
	c.Spawn(ctx, "boom", func(context.Context) error {
		panic("kaput")
	})
	c.Spawn(ctx, "ok", func(context.Context) error {
		sibling.Store(true)
		return nil
	})

	err := c.JoinAll(ctx)
	require.Error(t, err)
	var fe *FailureError
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe.Failures, 1)
	require.Equal(t, "boom", fe.Failures[0].Unit)
	require.NotEmpty(t, fe.Failures[0].Stack)

	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "kaput", pe.Value)
	require.True(t, sibling.Load())
}

func TestErrorBecomesFailure(t *testing.T) {
	c := New(Options{Workers: 1})
	sentinel := errors.New("bad unit")
	c.Spawn(context.Background(), "u", func(context.Context) error { return sentinel })
	err := c.JoinAll(context.Background())
	require.ErrorIs(t, err, sentinel)
	require.Len(t, c.Failures(), 1)
}

func TestWorkersBoundConcurrency(t *testing.T) {
	c := New(Options{Workers: 2})
	var cur, peak atomic.Int32
	ctx := context.Background()
	for range 16 {
		c.Spawn(ctx, "w", func(context.Context) error {
			n := cur.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			cur.Add(-1)
			return nil
		})
	}
	require.NoError(t, c.JoinAll(ctx))
	require.LessOrEqual(t, peak.Load(), int32(2))
}

// waitGate is a minimal waker used to exercise Park/Wake the way a symbol
// table does: the wait is registered and the unit parked under one lock.
type waitGate struct {
	mu      sync.Mutex
	open    bool
	waiters []*Unit
	ch      chan struct{}
}

func newGate() *waitGate { return &waitGate{ch: make(chan struct{})} }

func (g *waitGate) wait(ctx context.Context) {
	u := UnitFrom(ctx)
	g.mu.Lock()
	if g.open {
		g.mu.Unlock()
		return
	}
	g.waiters = append(g.waiters, u)
	u.Park()
	g.mu.Unlock()
	<-g.ch
	u.Resume()
}

func (g *waitGate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		return
	}
	g.open = true
	for _, u := range g.waiters {
		u.Wake()
	}
	g.waiters = nil
	close(g.ch)
}

func TestParkedUnitsTriggerStall(t *testing.T) {
	gate := newGate()
	var stalls atomic.Int32
	c := New(Options{Workers: 1, OnStall: func() {
		stalls.Add(1)
		gate.release()
	}})
	ctx := context.Background()
	var resumed atomic.Int32
	for range 3 {
		c.Spawn(ctx, "waiter", func(ctx context.Context) error {
			gate.wait(ctx)
			resumed.Add(1)
			return nil
		})
	}

	require.NoError(t, c.JoinAll(ctx))
	require.Equal(t, int32(3), resumed.Load())
	require.GreaterOrEqual(t, stalls.Load(), int32(1))
	st := c.Stats()
	require.Equal(t, 0, st.Parked)
	require.Equal(t, 0, st.Active)
}

func TestParkedUnitWokenBySibling(t *testing.T) {
	gate := newGate()
	var stalls atomic.Int32
	c := New(Options{Workers: 1, OnStall: func() { stalls.Add(1) }})
	ctx := context.Background()
	parked := make(chan struct{})

	c.Spawn(ctx, "waiter", func(ctx context.Context) error {
		gate.wait(ctx)
		return nil
	})
	go func() {
		for c.Stats().Parked == 0 {
			time.Sleep(time.Millisecond)
		}
		close(parked)
	}()
	// the hold keeps the set active so no stall is reported
	release := c.Hold()
	<-parked
	c.Spawn(ctx, "finisher", func(context.Context) error {
		gate.release()
		return nil
	})
	release()

	require.NoError(t, c.JoinAll(ctx))
	require.Equal(t, int32(0), stalls.Load())
}

func TestHoldKeepsJoinAllWaiting(t *testing.T) {
	c := New(Options{Workers: 1})
	release := c.Hold()

	joined := make(chan error, 1)
	go func() { joined <- c.JoinAll(context.Background()) }()

	select {
	case <-joined:
		t.Fatal("JoinAll returned while a hold was outstanding")
	case <-time.After(20 * time.Millisecond):
	}
	release()
	release()
	require.NoError(t, <-joined)
	require.Equal(t, 0, c.Stats().Holds)
}

func TestJoinAllContextCancel(t *testing.T) {
	c := New(Options{Workers: 1})
	release := c.Hold()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, c.JoinAll(ctx), context.DeadlineExceeded)
}

func TestUnitFromOutsideCoordinator(t *testing.T) {
	require.Nil(t, UnitFrom(context.Background()))
	var u *Unit
	u.Park()
	u.Wake()
	u.Resume()
}
