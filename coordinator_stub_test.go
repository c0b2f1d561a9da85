//go:build !linux

package ioring

import "testing"

func TestNewReturnsErrNotSupported(t *testing.T) {
	c, err := New(DefaultParams())
	if c != nil {
		t.Fatal("expected nil Coordinator")
	}
	if err != ErrNotSupported {
		t.Fatalf("err = %v, want ErrNotSupported", err)
	}
}

func TestStubCloseIsNilSafe(t *testing.T) {
	c := &Coordinator{}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
}

func TestStubOperationsReturnErrNotSupported(t *testing.T) {
	c := &Coordinator{}
	if _, err := c.Noop(1); err != ErrNotSupported {
		t.Fatalf("Noop err = %v, want ErrNotSupported", err)
	}
	if _, err := c.Submit(); err != ErrNotSupported {
		t.Fatalf("Submit err = %v, want ErrNotSupported", err)
	}
	if _, err := c.Peek(); err != ErrNotSupported {
		t.Fatalf("Peek err = %v, want ErrNotSupported", err)
	}
}
