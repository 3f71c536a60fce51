// Package admission implements the fixed-capacity concurrency gate guarding
// the transcription pipeline. Excess requests are rejected immediately; the
// gate never queues.
package admission

import "sync"

// Gate is a non-blocking counting gate with fixed capacity.
type Gate struct {
	mu       sync.Mutex
	capacity int
	inUse    int
}

// NewGate constructs a gate with the given capacity. Capacities below one
// are clamped to one.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{capacity: capacity}
}

// TryAcquire claims a slot if one is available. It never blocks.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inUse >= g.capacity {
		return false
	}
	g.inUse++
	return true
}

// Release returns a slot. Callers must pair every successful TryAcquire with
// exactly one Release; releasing an unheld slot panics because it means the
// pipeline's accounting is broken.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inUse <= 0 {
		panic("admission: release without acquire")
	}
	g.inUse--
}

// Capacity returns the configured slot count.
func (g *Gate) Capacity() int {
	return g.capacity
}

// InUse returns the number of currently held slots.
func (g *Gate) InUse() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inUse
}
