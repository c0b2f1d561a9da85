package slot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocRoundTrip(t *testing.T) {
	a := NewAllocator(4)

	entry, err := a.Alloc(42, "payload")
	require.NoError(t, err)

	got, err := a.Free(entry.ID())
	require.NoError(t, err)
	require.Equal(t, uint64(42), got.Token)
	require.Equal(t, "payload", got.Extra)
}

func TestAllocExhaustion(t *testing.T) {
	a := NewAllocator(2)

	if _, err := a.Alloc(1, nil); err != nil {
		t.Fatalf("alloc 1: %v", err)
	}
	if _, err := a.Alloc(2, nil); err != nil {
		t.Fatalf("alloc 2: %v", err)
	}
	if _, err := a.Alloc(3, nil); err != ErrNoSpace {
		t.Fatalf("alloc 3 = %v, want ErrNoSpace", err)
	}
}

func TestZeroCapacityAlwaysFails(t *testing.T) {
	a := NewAllocator(0)
	if _, err := a.Alloc(1, nil); err != ErrNoSpace {
		t.Fatalf("alloc on zero-capacity arena = %v, want ErrNoSpace", err)
	}
}

func TestDoubleFreeDetected(t *testing.T) {
	a := NewAllocator(1)

	entry, err := a.Alloc(7, nil)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if _, err := a.Free(entry.ID()); err != nil {
		t.Fatalf("first free: %v", err)
	}
	if _, err := a.Free(entry.ID()); err != ErrAlreadyFreed {
		t.Fatalf("second free = %v, want ErrAlreadyFreed", err)
	}
}

func TestStaleIDAfterReuse(t *testing.T) {
	a := NewAllocator(1)

	first, err := a.Alloc(1, nil)
	if err != nil {
		t.Fatalf("alloc first: %v", err)
	}
	if _, err := a.Free(first.ID()); err != nil {
		t.Fatalf("free first: %v", err)
	}

	second, err := a.Alloc(2, nil)
	if err != nil {
		t.Fatalf("alloc second: %v", err)
	}
	if second.ID() == first.ID() {
		t.Fatalf("expected reused index to carry a bumped version")
	}

	// The stale handle from the freed generation must still be rejected,
	// even though its index has been reused by a live slot.
	if _, err := a.Free(first.ID()); err != ErrAlreadyFreed {
		t.Fatalf("free stale id = %v, want ErrAlreadyFreed", err)
	}

	if _, err := a.Free(second.ID()); err != nil {
		t.Fatalf("free second: %v", err)
	}
}

func TestSubmissionConservation(t *testing.T) {
	const capacity = 5
	a := NewAllocator(capacity)

	var entries []ID
	for i := 0; i < capacity; i++ {
		e, err := a.Alloc(uint64(i), nil)
		if err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
		entries = append(entries, e.ID())
	}
	if a.Len() != capacity {
		t.Fatalf("Len() = %d, want %d", a.Len(), capacity)
	}

	for _, id := range entries {
		if _, err := a.Free(id); err != nil {
			t.Fatalf("free %d: %v", id, err)
		}
	}
	if a.Len() != 0 {
		t.Fatalf("Len() after full reap = %d, want 0", a.Len())
	}
}

func TestValidReflectsLiveness(t *testing.T) {
	a := NewAllocator(1)

	e, err := a.Alloc(1, nil)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if !a.Valid(e.ID()) {
		t.Fatalf("freshly allocated entry should be valid")
	}
	if _, err := a.Free(e.ID()); err != nil {
		t.Fatalf("free: %v", err)
	}
	if a.Valid(e.ID()) {
		t.Fatalf("freed entry should no longer be valid")
	}
}
