package v2

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// InvariantError reports a broken internal invariant. It is a programming
// error, not something a run recovers from.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Msg
}

func invariant(format string, args ...interface{}) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}

// Gate admits at most Capacity units at once. Acquisitions of several
// units are granted whole or not at all.
//
// Waiters are served in arrival order: a small request queued behind a
// larger one waits even when enough units for it are free, so large
// requests are never starved by a stream of small ones.
//
// Acquire with n <= 0, n > Capacity, or releasing more than is held
// panics with an *InvariantError.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64

	held      atomic.Int64
	highWater atomic.Int64
}

// NewGate returns a gate with capacity units available
func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		invariant("gate capacity must be positive, got %d", capacity)
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

func (g *Gate) check(n int) int64 {
	if n <= 0 {
		invariant("gate asked for %d units", n)
	}
	if int64(n) > g.capacity {
		invariant("gate asked for %d units, capacity is %d", n, g.capacity)
	}
	return int64(n)
}

// Acquire blocks until n units are available and takes them
func (g *Gate) Acquire(n int) {
	// the background context is never done
	_ = g.AcquireContext(context.Background(), n)
}

// AcquireContext is Acquire but gives up when ctx is done. On error
// nothing is held.
func (g *Gate) AcquireContext(ctx context.Context, n int) error {
	w := g.check(n)
	if err := g.sem.Acquire(ctx, w); err != nil {
		return err
	}
	g.admit(w)
	return nil
}

// TryAcquire takes n units if they are available right now
func (g *Gate) TryAcquire(n int) bool {
	w := g.check(n)
	if !g.sem.TryAcquire(w) {
		return false
	}
	g.admit(w)
	return true
}

func (g *Gate) admit(w int64) {
	held := g.held.Add(w)
	if held > g.capacity {
		invariant("gate holds %d units, capacity is %d", held, g.capacity)
	}
	for {
		hw := g.highWater.Load()
		if held <= hw || g.highWater.CompareAndSwap(hw, held) {
			return
		}
	}
}

// Release gives back n units and wakes the waiters at the head of the
// queue that now fit
func (g *Gate) Release(n int) {
	w := g.check(n)
	if held := g.held.Add(-w); held < 0 {
		invariant("gate released %d units more than it held", -held)
	}
	g.sem.Release(w)
}

// Capacity of the gate
func (g *Gate) Capacity() int {
	return int(g.capacity)
}

// Available is a snapshot of the units nobody holds
func (g *Gate) Available() int {
	return int(g.capacity - g.held.Load())
}

// HighWater is the largest number of units held at the same time
func (g *Gate) HighWater() int {
	return int(g.highWater.Load())
}

func (g *Gate) String() string {
	return fmt.Sprintf("Gate(%d/%d)", g.held.Load(), g.capacity)
}
