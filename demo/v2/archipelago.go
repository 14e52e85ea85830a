package v2

import (
	"errors"
	"fmt"

	demo "github.com/mikelsr/taxis-demo/demo"
)

// ErrNoBridge is returned when an island has no bridge at all
var ErrNoBridge = errors.New("no bridge leaves the island")

// Archipelago is the fixed set of islands and bridges of a run. Only the
// island counters and the bridge gates change once it is built.
type Archipelago struct {
	islands []*Island
	bridges []*Bridge
	total   int
}

// NewArchipelago builds the islands and bridges described by c. The
// first bridges join the islands in a ring so that every island can be
// reached, the rest join random pairs.
func NewArchipelago(c demo.Config, rnd Rand) (*Archipelago, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	a := &Archipelago{
		islands: make([]*Island, c.Islands),
		bridges: make([]*Bridge, c.Bridges),
		total:   c.TotalPeople(),
	}
	for i := range a.islands {
		a.islands[i] = newIsland(i, c.PeoplePerIsland)
	}
	ring := demo.RingSize(c.Islands)
	for i := range a.bridges {
		var from, to int
		if i < ring {
			from, to = i, (i+1)%c.Islands
		} else {
			from = rnd.IntN(c.Islands)
			to = otherIsland(rnd, c.Islands, from)
		}
		a.bridges[i] = newBridge(i, from, to, c.BridgeCapacity)
	}
	logger.Debugf("Built %d islands and %d bridges (%d in the ring)", len(a.islands), len(a.bridges), ring)
	return a, nil
}

// otherIsland draws an island different from not
func otherIsland(rnd Rand, n, not int) int {
	for {
		if i := rnd.IntN(n); i != not {
			return i
		}
	}
}

// Island returns the island with the given id
func (a *Archipelago) Island(id int) *Island {
	return a.islands[id]
}

// Bridge returns the bridge with the given id
func (a *Archipelago) Bridge(id int) *Bridge {
	return a.bridges[id]
}

// Islands is the number of islands
func (a *Archipelago) Islands() int {
	return len(a.islands)
}

// Bridges is the number of bridges
func (a *Archipelago) Bridges() int {
	return len(a.bridges)
}

// Route scans the bridges from a random offset and returns the first one
// touching island, together with the island on its other side. It is a
// random walk step, not a shortest path.
func (a *Archipelago) Route(island int, rnd Rand) (next, bridge int, err error) {
	n := len(a.bridges)
	shift := rnd.IntN(n)
	for i := 0; i < n; i++ {
		b := a.bridges[(i+shift)%n]
		if other, ok := b.Other(island); ok {
			return other, b.id, nil
		}
	}
	return -1, -1, fmt.Errorf("island %d: %w", island, ErrNoBridge)
}

// Delivered sums the people dropped on every island. Islands are locked
// one after the other, so the sum is a lower bound of the true count
// rather than a snapshot; it never decreases.
func (a *Archipelago) Delivered() int {
	sum := 0
	for _, i := range a.islands {
		sum += i.SatisfiedCount()
	}
	return sum
}

// Waiting sums the people still waiting for a taxi
func (a *Archipelago) Waiting() int {
	sum := 0
	for _, i := range a.islands {
		sum += i.Remaining()
	}
	return sum
}

// Total is the number of people that have to be delivered
func (a *Archipelago) Total() int {
	return a.total
}

// Done reports whether every person has been delivered. A false answer
// may be stale, a true one never is.
func (a *Archipelago) Done() bool {
	return a.Delivered() >= a.total
}
