package v2

import (
	"math/rand/v2"
	"sync"
)

// Rand draws uniform integers in [0, n)
type Rand interface {
	IntN(n int) int
}

// NewRand returns a generator for one goroutine. Generators built from
// the same seed and stream draw the same sequence.
func NewRand(seed int64, stream uint64) Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// lockedRand lets several goroutines share one generator
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

// NewLockedRand wraps r so it can be shared between goroutines
func NewLockedRand(r Rand) Rand {
	return &lockedRand{src: r}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}
