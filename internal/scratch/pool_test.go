package scratch

import "testing"

func TestGetReturnsRequestedLength(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"tiny", 8},
		{"exactly 64", 64},
		{"just over 64", 65},
		{"exactly 4k", 4096},
		{"over 4k", 5000},
		{"far over 4k", 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Get(tt.size)
			if len(buf) != tt.size {
				t.Fatalf("Get(%d) len = %d, want %d", tt.size, len(buf), tt.size)
			}
			Put(buf)
		})
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	buf := Get(32)
	for i := range buf {
		buf[i] = byte(i)
	}
	Put(buf)

	// A subsequent Get of a compatible size may or may not reuse the
	// buffer depending on pool state; only the length contract is
	// guaranteed.
	again := Get(32)
	if len(again) != 32 {
		t.Fatalf("len = %d, want 32", len(again))
	}
}

func TestPutOversizedBufferDropped(t *testing.T) {
	// A buffer whose capacity doesn't match a bucket size must not panic
	// on Put; it is simply not pooled.
	buf := make([]byte, 100)
	Put(buf)
}
