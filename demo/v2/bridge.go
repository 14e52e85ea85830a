package v2

// Bridge joins two islands. Its gate bounds how many taxis are on it at
// the same time.
type Bridge struct {
	id   int
	a, b int
	gate *Gate
}

func newBridge(id, a, b, capacity int) *Bridge {
	return &Bridge{id: id, a: a, b: b, gate: NewGate(capacity)}
}

// ID of the bridge
func (b *Bridge) ID() int {
	return b.id
}

// Ends returns the islands joined by the bridge
func (b *Bridge) Ends() (int, int) {
	return b.a, b.b
}

// Gate bounding the bridge occupancy
func (b *Bridge) Gate() *Gate {
	return b.gate
}

// Other returns the island across the bridge from island, and whether
// the bridge touches island at all.
func (b *Bridge) Other(island int) (int, bool) {
	switch island {
	case b.a:
		return b.b, true
	case b.b:
		return b.a, true
	}
	return -1, false
}
