//go:build linux

package ioring

import (
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func TestOpenAt2RejectsOversizedPathBeforeTouchingRing(t *testing.T) {
	// A zero-value Coordinator has no ring or slot allocator; if the guard
	// ran after those were touched this would panic instead of returning
	// a clean error.
	c := &Coordinator{}

	path := strings.Repeat("a", maxPathLen)
	_, err := c.OpenAt2(AccessRead, 0, 0, 0, unix.AT_FDCWD, path, 1)
	if err == nil {
		t.Fatal("expected an error for a path at PATH_MAX")
	}
	if !IsCode(err, ErrCodeInvalidParameters) {
		t.Fatalf("err = %v, want ErrCodeInvalidParameters", err)
	}
}
