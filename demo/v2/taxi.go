package v2

import (
	"context"
	"time"

	demo "github.com/mikelsr/taxis-demo/demo"
)

// Stats counts what a taxi did during a run
type Stats struct {
	Cycles     int
	PickedUp   int
	DroppedOff int
	Crossings  int
	IdleCycles int
}

// Taxi carries people between islands. Its seats and location belong to
// the goroutine running it; a Taxi is not safe for concurrent use.
type Taxi struct {
	id       int
	location int
	seats    [demo.Seats]int

	world *Archipelago
	rnd   Rand
	bus   *eventBus
	run   string

	crossing     demo.Crossing
	maxIdle      int
	crossingTime time.Duration

	idleStreak int
	stats      Stats

	// onBridge sees +1 when the taxi gets on a bridge and -1 before it
	// gives the gate back
	onBridge func(bridge, delta int)
}

func newTaxi(id, location int, world *Archipelago, rnd Rand, c demo.Config, bus *eventBus, run string) *Taxi {
	t := &Taxi{
		id:           id,
		location:     location,
		world:        world,
		rnd:          rnd,
		bus:          bus,
		run:          run,
		crossing:     c.Crossing,
		maxIdle:      c.MaxIdleCycles,
		crossingTime: c.CrossingTime,
	}
	for i := range t.seats {
		t.seats[i] = empty
	}
	return t
}

// ID of the taxi
func (t *Taxi) ID() int {
	return t.id
}

// Location is the island the taxi is on
func (t *Taxi) Location() int {
	return t.location
}

// Stats of the taxi so far
func (t *Taxi) Stats() Stats {
	return t.stats
}

// Passengers returns the destination of every occupied seat
func (t *Taxi) Passengers() []int {
	var dst []int
	for _, s := range t.seats {
		if s != empty {
			dst = append(dst, s)
		}
	}
	return dst
}

// Run picks up, crosses and drops off until every person has been
// delivered. It returns ctx.Err() if ctx is done first.
func (t *Taxi) Run(ctx context.Context) error {
	logger.Debugf("[%s] Starting on island %s", taxiLabel(t.id), islandLabel(t.location))
	for !t.world.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.cycle(ctx); err != nil {
			return err
		}
	}
	logger.Debugf("[%s] Stopped after %d cycles", taxiLabel(t.id), t.stats.Cycles)
	return nil
}

func (t *Taxi) cycle(ctx context.Context) error {
	t.stats.Cycles++
	t.pickUp()
	if err := t.cross(ctx); err != nil {
		return err
	}
	t.dropOff()
	return nil
}

// pickUp fills the empty seats with people waiting on the island
func (t *Taxi) pickUp() int {
	island := t.world.Island(t.location)
	n := 0
	for i := range t.seats {
		if t.seats[i] != empty || !island.TryPickup() {
			continue
		}
		t.seats[i] = otherIsland(t.rnd, t.world.Islands(), t.location)
		n++
	}
	if n > 0 {
		t.stats.PickedUp += n
		t.notify(PickedUp, n)
	}
	return n
}

// cross takes a random bridge of the island if the crossing policy
// allows it. The bridge gate is only held while moving.
func (t *Taxi) cross(ctx context.Context) error {
	next, id, err := t.world.Route(t.location, t.rnd)
	if err != nil {
		return err
	}
	if !t.shouldCross(next) {
		t.idleStreak++
		t.stats.IdleCycles++
		return nil
	}
	gate := t.world.Bridge(id).Gate()
	if err := gate.AcquireContext(ctx, 1); err != nil {
		return err
	}
	defer gate.Release(1)
	if t.onBridge != nil {
		t.onBridge(id, 1)
		defer t.onBridge(id, -1)
	}

	t.location = next
	t.idleStreak = 0
	t.stats.Crossings++
	if t.crossingTime > 0 {
		select {
		case <-time.After(t.crossingTime):
		case <-ctx.Done():
		}
	}
	return nil
}

func (t *Taxi) shouldCross(next int) bool {
	if t.crossing == demo.CrossAny {
		return true
	}
	loaded := false
	for _, s := range t.seats {
		if s == next {
			return true
		}
		if s != empty {
			loaded = true
		}
	}
	// nobody to align with: roam
	if !loaded {
		return true
	}
	return t.maxIdle > 0 && t.idleStreak >= t.maxIdle
}

// dropOff empties the seats of the people who arrived
func (t *Taxi) dropOff() int {
	island := t.world.Island(t.location)
	n := 0
	for i, dst := range t.seats {
		if dst != t.location {
			continue
		}
		t.seats[i] = empty
		island.RecordDropoff()
		n++
	}
	if n > 0 {
		t.stats.DroppedOff += n
		t.notify(DroppedOff, n)
	}
	return n
}

func (t *Taxi) notify(kind EventKind, count int) {
	t.bus.publish(Event{
		Kind:   kind,
		Run:    t.run,
		Taxi:   t.id,
		Island: t.location,
		Count:  count,
		At:     time.Now(),
	})
}
