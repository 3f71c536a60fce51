package admission

import (
	"sync"
	"testing"
)

func TestTryAcquireRespectsCapacity(t *testing.T) {
	gate := NewGate(2)
	if !gate.TryAcquire() || !gate.TryAcquire() {
		t.Fatal("expected two acquisitions to succeed")
	}
	if gate.TryAcquire() {
		t.Fatal("third acquisition should fail at capacity 2")
	}
	gate.Release()
	if !gate.TryAcquire() {
		t.Fatal("acquisition after release should succeed")
	}
}

func TestCapacityClampedToOne(t *testing.T) {
	gate := NewGate(0)
	if gate.Capacity() != 1 {
		t.Fatalf("expected capacity 1, got %d", gate.Capacity())
	}
	if !gate.TryAcquire() {
		t.Fatal("first acquisition should succeed")
	}
	if gate.TryAcquire() {
		t.Fatal("second acquisition should fail")
	}
}

func TestReleaseWithoutAcquirePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unmatched release")
		}
	}()
	NewGate(1).Release()
}

func TestConcurrentAcquireNeverExceedsCapacity(t *testing.T) {
	const capacity = 3
	const workers = 50
	gate := NewGate(capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.TryAcquire() {
				mu.Lock()
				admitted++
				if in := gate.InUse(); in > capacity {
					t.Errorf("in-use %d exceeds capacity %d", in, capacity)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted > capacity {
		t.Fatalf("admitted %d workers with capacity %d", admitted, capacity)
	}
	if gate.InUse() != admitted {
		t.Fatalf("in-use %d does not match admitted %d", gate.InUse(), admitted)
	}
}
