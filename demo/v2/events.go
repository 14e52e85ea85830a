package v2

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventKind tells what happened
type EventKind int

const (
	// RunStarted is sent once, before any taxi moves
	RunStarted EventKind = iota
	// PickedUp is sent when a taxi took people on its island
	PickedUp
	// DroppedOff is sent when a taxi delivered people on its island
	DroppedOff
	// RunFinished is sent once, after every taxi stopped
	RunFinished
)

func (k EventKind) String() string {
	switch k {
	case RunStarted:
		return "run-started"
	case PickedUp:
		return "picked-up"
	case DroppedOff:
		return "dropped-off"
	case RunFinished:
		return "run-finished"
	}
	return "unknown"
}

// Event reported to observers. Taxi and Island are -1 for run events.
type Event struct {
	Kind    EventKind
	Run     string
	Taxi    int
	Island  int
	Count   int
	At      time.Time
	Elapsed time.Duration
}

// Observer receives the events of a run. It is called from a single
// goroutine, never from a taxi.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

// Observe calls f(e)
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// LogObserver writes the events to the simulation logger
func LogObserver() Observer {
	return ObserverFunc(func(e Event) {
		switch e.Kind {
		case RunStarted:
			logger.Infof("[%s] Run started", shortStr(e.Run))
		case PickedUp:
			logger.Infof("[%s] Taxi %s has picked up %d clients on island %s.",
				shortStr(e.Run), taxiLabel(e.Taxi), e.Count, islandLabel(e.Island))
		case DroppedOff:
			logger.Infof("[%s] Taxi %s has dropped %d clients on island %s.",
				shortStr(e.Run), taxiLabel(e.Taxi), e.Count, islandLabel(e.Island))
		case RunFinished:
			logger.Infof("[%s] Taxis have completed in %d (ms)", shortStr(e.Run), e.Elapsed.Milliseconds())
		}
	})
}

// eventBus hands events to the observers without ever blocking the
// sender. Events that do not fit in the buffer are dropped and counted.
type eventBus struct {
	observers []Observer
	events    chan Event
	done      chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func newEventBus(size int, observers ...Observer) *eventBus {
	b := &eventBus{
		observers: observers,
		events:    make(chan Event, size),
		done:      make(chan struct{}),
	}
	go b.dispatch()
	return b
}

func (b *eventBus) dispatch() {
	defer close(b.done)
	for e := range b.events {
		for _, o := range b.observers {
			o.Observe(e)
		}
	}
}

func (b *eventBus) publish(e Event) {
	if b == nil || len(b.observers) == 0 {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.events <- e:
	default:
		b.dropped.Add(1)
	}
}

// close waits until the buffered events have been observed
func (b *eventBus) close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
	b.mu.Unlock()
	<-b.done
}

func (b *eventBus) droppedEvents() int64 {
	return b.dropped.Load()
}
