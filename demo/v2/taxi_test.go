package v2

import (
	"context"
	"testing"
	"time"

	demo "github.com/mikelsr/taxis-demo/demo"
)

func twoIslands(t *testing.T) (demo.Config, *Archipelago) {
	t.Helper()
	c := smallConfig()
	c.Islands, c.Bridges, c.Taxis, c.PeoplePerIsland, c.BridgeCapacity = 2, 1, 1, 1, 1
	a, err := NewArchipelago(c, &seqRand{values: []int{0}})
	if err != nil {
		t.Fatal(err)
	}
	return c, a
}

func TestTaxi_DropOffOnce(t *testing.T) {
	c, a := twoIslands(t)
	taxi := newTaxi(0, 1, a, &seqRand{values: []int{0}}, c, nil, "test")
	taxi.seats[0] = 1

	if n := taxi.dropOff(); n != 1 {
		t.Errorf("expected 1 person dropped, got %d", n)
	}
	if n := taxi.dropOff(); n != 0 {
		t.Errorf("expected nobody left to drop, got %d", n)
	}
	if got := a.Island(1).SatisfiedCount(); got != 1 {
		t.Errorf("expected 1 person delivered, got %d", got)
	}
	if len(taxi.Passengers()) != 0 {
		t.Errorf("expected empty seats, got %v", taxi.Passengers())
	}
}

func TestTaxi_PickUp(t *testing.T) {
	c := smallConfig()
	c.PeoplePerIsland = 2
	a, err := NewArchipelago(c, NewRand(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	// the first draw is the taxi's own island and must be resampled
	taxi := newTaxi(0, 4, a, &seqRand{values: []int{4, 1, 4, 2}}, c, nil, "test")

	if n := taxi.pickUp(); n != 2 {
		t.Fatalf("expected 2 people picked up, got %d", n)
	}
	if a.Island(4).Remaining() != 0 {
		t.Errorf("expected island 4 to be empty, %d left", a.Island(4).Remaining())
	}
	got := taxi.Passengers()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected passengers for islands [1 2], got %v", got)
	}
	// nobody left, the free seats stay free
	if n := taxi.pickUp(); n != 0 {
		t.Errorf("expected no pickup, got %d", n)
	}
}

func TestTaxi_PickUpFullTaxi(t *testing.T) {
	c := smallConfig()
	c.PeoplePerIsland = 10
	a, err := NewArchipelago(c, NewRand(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	taxi := newTaxi(0, 0, a, NewRand(4, 1), c, nil, "test")
	if n := taxi.pickUp(); n != demo.Seats {
		t.Errorf("expected %d people picked up, got %d", demo.Seats, n)
	}
	for _, dst := range taxi.Passengers() {
		if dst == 0 {
			t.Errorf("passenger going to the island it was picked up on")
		}
	}
	if a.Island(0).Remaining() != 10-demo.Seats {
		t.Errorf("expected %d people left, got %d", 10-demo.Seats, a.Island(0).Remaining())
	}
}

func TestTaxi_ShouldCross(t *testing.T) {
	c := smallConfig()
	a, err := NewArchipelago(c, NewRand(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		crossing demo.Crossing
		maxIdle  int
		streak   int
		seats    []int
		next     int
		want     bool
	}{
		{"any policy", demo.CrossAny, 0, 0, []int{3}, 1, true},
		{"aligned match", demo.CrossAligned, 0, 0, []int{3, 1}, 1, true},
		{"aligned mismatch", demo.CrossAligned, 0, 100, []int{3}, 1, false},
		{"empty taxi roams", demo.CrossAligned, 0, 0, nil, 1, true},
		{"patience left", demo.CrossAligned, 4, 3, []int{3}, 1, false},
		{"patience over", demo.CrossAligned, 4, 4, []int{3}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Crossing, c.MaxIdleCycles = tt.crossing, tt.maxIdle
			taxi := newTaxi(0, 0, a, NewRand(1, 1), c, nil, "test")
			taxi.idleStreak = tt.streak
			copy(taxi.seats[:], tt.seats)
			if got := taxi.shouldCross(tt.next); got != tt.want {
				t.Errorf("shouldCross(%d) = %v, expected %v", tt.next, got, tt.want)
			}
		})
	}
}

func TestTaxi_IdleKeepsLocation(t *testing.T) {
	c := smallConfig()
	c.MaxIdleCycles = 0
	a := &Archipelago{
		islands: []*Island{newIsland(0, 0), newIsland(1, 0), newIsland(2, 0)},
		bridges: []*Bridge{newBridge(0, 0, 1, 1)},
		total:   3,
	}
	taxi := newTaxi(0, 0, a, &seqRand{values: []int{0}}, c, nil, "test")
	taxi.seats[0] = 2
	if err := taxi.cross(context.Background()); err != nil {
		t.Fatal(err)
	}
	if taxi.Location() != 0 || taxi.Stats().IdleCycles != 1 || taxi.Stats().Crossings != 0 {
		t.Errorf("expected the taxi to wait on island 0, got %d with %+v", taxi.Location(), taxi.Stats())
	}
	if a.Bridge(0).Gate().HighWater() != 0 {
		t.Error("an idle taxi used the bridge")
	}
}

// one taxi, two islands, one person each: out and back
func TestTaxi_RunTwoIslands(t *testing.T) {
	c, a := twoIslands(t)
	taxi := newTaxi(0, 0, a, NewRand(9, 1), c, nil, "test")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := taxi.Run(ctx); err != nil {
		t.Fatal(err)
	}
	s := taxi.Stats()
	if s.Cycles != 2 || s.Crossings != 2 || s.PickedUp != 2 || s.DroppedOff != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
	if !a.Done() || a.Waiting() != 0 {
		t.Errorf("expected everybody delivered, %d/%d", a.Delivered(), a.Total())
	}
}

func TestTaxi_RunCancelled(t *testing.T) {
	c, a := twoIslands(t)
	taxi := newTaxi(0, 0, a, NewRand(9, 1), c, nil, "test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := taxi.Run(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// a taxi waiting on a full bridge gives up when the run is cancelled
func TestTaxi_CrossCancelled(t *testing.T) {
	c, a := twoIslands(t)
	c.Crossing = demo.CrossAny
	taxi := newTaxi(0, 0, a, NewRand(9, 1), c, nil, "test")
	gate := a.Bridge(0).Gate()
	gate.Acquire(1)
	defer gate.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), testDelay)
	defer cancel()
	if err := taxi.cross(ctx); err == nil {
		t.Error("expected the crossing to fail")
	}
	if taxi.Location() != 0 {
		t.Errorf("taxi moved to %d without the bridge", taxi.Location())
	}
}
