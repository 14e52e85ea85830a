package v2

import "sync"

// Island has people waiting for a taxi and counts the people taxis
// dropped on it. Both counters are guarded by the island's own lock.
type Island struct {
	id      int
	initial int

	mu        sync.Mutex
	remaining int
	dropped   int
}

func newIsland(id, people int) *Island {
	return &Island{id: id, initial: people, remaining: people}
}

// ID of the island
func (i *Island) ID() int {
	return i.id
}

// TryPickup takes one waiting person, if there is any
func (i *Island) TryPickup() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.remaining <= 0 {
		return false
	}
	i.remaining--
	return true
}

// RecordDropoff counts one person delivered to the island
func (i *Island) RecordDropoff() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.dropped++
}

// SatisfiedCount is the number of people delivered so far
func (i *Island) SatisfiedCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.dropped
}

// Remaining is the number of people still waiting
func (i *Island) Remaining() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.remaining
}

// Initial is the number of people that were waiting when the run started
func (i *Island) Initial() int {
	return i.initial
}
