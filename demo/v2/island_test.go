package v2

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestIsland_NoDoublePickup(t *testing.T) {
	tests := []struct {
		name    string
		people  int
		callers int
	}{
		{"more callers than people", 10, 64},
		{"more people than callers", 100, 16},
		{"nobody waiting", 0, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			island := newIsland(0, tt.people)
			var ok atomic.Int64
			var wg sync.WaitGroup
			for i := 0; i < tt.callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if island.TryPickup() {
						ok.Add(1)
					}
				}()
			}
			wg.Wait()

			want := min(tt.people, tt.callers)
			if int(ok.Load()) != want {
				t.Errorf("expected %d successful pickups, got %d", want, ok.Load())
			}
			if island.Remaining() != tt.people-want {
				t.Errorf("expected %d people left, got %d", tt.people-want, island.Remaining())
			}
		})
	}
}

func TestIsland_RecordDropoff(t *testing.T) {
	island := newIsland(3, 5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			island.RecordDropoff()
		}()
	}
	wg.Wait()
	if island.SatisfiedCount() != 50 {
		t.Errorf("expected 50 people dropped, got %d", island.SatisfiedCount())
	}
	// drop-offs do not touch the people waiting
	if island.Remaining() != 5 || island.Initial() != 5 {
		t.Errorf("expected 5 people waiting, got %d", island.Remaining())
	}
}
