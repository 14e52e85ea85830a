package v2

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	demo "github.com/mikelsr/taxis-demo/demo"
	"golang.org/x/sync/errgroup"
)

// Simulation owns the archipelago and the taxis of one run
type Simulation struct {
	// ID stamped on every event of the run
	ID string

	config demo.Config
	world  *Archipelago
	taxis  []*Taxi
	bus    *eventBus
}

type options struct {
	observers []Observer
	rand      func(stream uint64) Rand
	onBridge  func(bridge, delta int)
}

// Option changes how Setup builds a simulation
type Option func(*options)

// WithObservers sends the run events to obs
func WithObservers(obs ...Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs...)
	}
}

// WithRand replaces the random sources. Stream 0 builds the archipelago
// and places the taxis, taxi i draws from stream i+1 only.
func WithRand(f func(stream uint64) Rand) Option {
	return func(o *options) {
		o.rand = f
	}
}

func withBridgeHook(f func(bridge, delta int)) Option {
	return func(o *options) {
		o.onBridge = f
	}
}

// Setup validates c and builds the islands, bridges and taxis. Nothing
// runs until Run is called.
func Setup(c demo.Config, opts ...Option) (*Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		seed := c.SeedOrNow()
		logger.Debugf("Random seed %d", seed)
		o.rand = func(stream uint64) Rand {
			return NewRand(seed, stream)
		}
	}

	rnd := o.rand(0)
	world, err := NewArchipelago(c, rnd)
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		ID:     uuid.New().String(),
		config: c,
		world:  world,
		taxis:  make([]*Taxi, c.Taxis),
		bus:    newEventBus(c.EventBuffer, o.observers...),
	}
	for i := range s.taxis {
		location := rnd.IntN(world.Islands())
		s.taxis[i] = newTaxi(i, location, world, o.rand(uint64(i+1)), c, s.bus, s.ID)
		s.taxis[i].onBridge = o.onBridge
	}
	logger.Debugf("[%s] Created %d taxis on %d islands", shortStr(s.ID), len(s.taxis), world.Islands())
	return s, nil
}

// Config the simulation was built from
func (s *Simulation) Config() demo.Config {
	return s.config
}

// Archipelago of the run
func (s *Simulation) Archipelago() *Archipelago {
	return s.world
}

// Taxis of the run, indexed by id
func (s *Simulation) Taxis() []*Taxi {
	return s.taxis
}

// Result of a run
type Result struct {
	Run           string
	Elapsed       time.Duration
	Delivered     int
	Total         int
	Taxis         []Stats
	DroppedEvents int64
}

// Run starts one goroutine per taxi and waits until all of them stopped.
// The first taxi error cancels the others and is returned.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	s.bus.publish(Event{Kind: RunStarted, Run: s.ID, Taxi: -1, Island: -1, At: start})

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range s.taxis {
		g.Go(func() error {
			return t.Run(gctx)
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	s.bus.publish(Event{Kind: RunFinished, Run: s.ID, Taxi: -1, Island: -1, At: time.Now(), Elapsed: elapsed})
	r := Result{
		Run:           s.ID,
		Elapsed:       elapsed,
		Delivered:     s.world.Delivered(),
		Total:         s.world.Total(),
		Taxis:         make([]Stats, len(s.taxis)),
		DroppedEvents: s.bus.droppedEvents(),
	}
	for i, t := range s.taxis {
		r.Taxis[i] = t.Stats()
	}
	if err != nil {
		logger.Errorf("[%s] Run stopped: %s", shortStr(s.ID), err)
		return r, err
	}
	return r, nil
}

// Close waits for the pending events to be observed. The simulation
// cannot report events afterwards.
func (s *Simulation) Close() {
	s.bus.close()
}

func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d/%d people delivered in %d (ms)\n",
		r.Run, r.Delivered, r.Total, r.Elapsed.Milliseconds())
	fmt.Fprintf(&b, "%-6s %8s %8s %8s %8s %8s\n", "taxi", "cycles", "picked", "dropped", "crossed", "idle")
	for i, t := range r.Taxis {
		fmt.Fprintf(&b, "%-6s %8d %8d %8d %8d %8d\n",
			fmt.Sprintf("T%02d", i), t.Cycles, t.PickedUp, t.DroppedOff, t.Crossings, t.IdleCycles)
	}
	if r.DroppedEvents > 0 {
		fmt.Fprintf(&b, "%d events were not reported\n", r.DroppedEvents)
	}
	return b.String()
}
