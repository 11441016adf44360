// ABOUTME: Tests for back-pressure bookkeeping
package scheduler

import "testing"

func TestBufferManager_HasCapacity(t *testing.T) {
	b := NewBufferManager(100)
	if !b.HasCapacity(100) {
		t.Error("expected capacity for exactly the full budget")
	}
	if b.HasCapacity(101) {
		t.Error("expected no capacity beyond the budget")
	}
}

func TestBufferManager_RegisterTracksUsed(t *testing.T) {
	b := NewBufferManager(100)
	b.Register(1000, 40)
	b.Register(2000, 40)

	if used := b.Used(); used != 80 {
		t.Errorf("expected used 80, got %d", used)
	}
	if b.HasCapacity(30) {
		t.Error("expected no capacity for 30 more bytes (80+30 > 100)")
	}
	if !b.HasCapacity(20) {
		t.Error("expected capacity for 20 more bytes (80+20 == 100)")
	}
}

func TestBufferManager_PruneRemovesExpiredPrefix(t *testing.T) {
	b := NewBufferManager(100)
	b.Register(1000, 10)
	b.Register(2000, 10)
	b.Register(3000, 10)

	b.Prune(2000)

	if used := b.Used(); used != 10 {
		t.Errorf("expected used 10 after pruning first two entries, got %d", used)
	}
}

func TestBufferManager_PruneIsStrictlyFIFO(t *testing.T) {
	b := NewBufferManager(100)
	// A later arrival with an earlier end time does not get pruned out of
	// order; it waits behind the entry in front of it.
	b.Register(5000, 10)
	b.Register(1000, 10)

	b.Prune(3000)

	if used := b.Used(); used != 20 {
		t.Errorf("expected no pruning while the front entry is unexpired, got used=%d", used)
	}
}

func TestBufferManager_Clear(t *testing.T) {
	b := NewBufferManager(100)
	b.Register(1000, 50)
	b.Clear()

	if used := b.Used(); used != 0 {
		t.Errorf("expected used 0 after Clear, got %d", used)
	}
}
