//go:build linux

package ioring

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestAccessOpenFlag(t *testing.T) {
	if AccessRead.openFlag() != ORdonly {
		t.Fatalf("AccessRead.openFlag() = %v, want ORdonly", AccessRead.openFlag())
	}
	if AccessWrite.openFlag() != OWronly {
		t.Fatalf("AccessWrite.openFlag() = %v, want OWronly", AccessWrite.openFlag())
	}
	if AccessReadWrite.openFlag() != ORdwr {
		t.Fatalf("AccessReadWrite.openFlag() = %v, want ORdwr", AccessReadWrite.openFlag())
	}
}

func TestOpenFlagsHas(t *testing.T) {
	f := OCreat | OTrunc | OCloexec
	if !f.Has(OCreat) {
		t.Fatal("expected OCreat to be set")
	}
	if !f.Has(OCreat | OTrunc) {
		t.Fatal("expected combined flags to be set")
	}
	if f.Has(OAppend) {
		t.Fatal("did not expect OAppend to be set")
	}
}

func TestResolveFlagsHas(t *testing.T) {
	f := ResolveBeneath | ResolveNoSymlinks
	if !f.Has(ResolveBeneath) {
		t.Fatal("expected ResolveBeneath to be set")
	}
	if f.Has(ResolveInRoot) {
		t.Fatal("did not expect ResolveInRoot to be set")
	}
}

func TestPollMaskHas(t *testing.T) {
	m := PollIn | PollErr
	if !m.Has(PollIn) {
		t.Fatal("expected PollIn to be set")
	}
	if m.Has(PollOut) {
		t.Fatal("did not expect PollOut to be set")
	}
}

func TestNewSockAddrInet4(t *testing.T) {
	addr := &unix.SockaddrInet4{Port: 8080, Addr: [4]byte{127, 0, 0, 1}}
	sa, err := NewSockAddr(addr)
	if err != nil {
		t.Fatalf("NewSockAddr: %v", err)
	}
	if sa.Len() == 0 {
		t.Fatal("expected non-zero length")
	}
	if sa.Raw() == nil {
		t.Fatal("expected non-nil raw pointer")
	}
}

func TestNewSockAddrInet6(t *testing.T) {
	addr := &unix.SockaddrInet6{Port: 443}
	sa, err := NewSockAddr(addr)
	if err != nil {
		t.Fatalf("NewSockAddr: %v", err)
	}
	if sa.Len() == 0 {
		t.Fatal("expected non-zero length")
	}
}

func TestNewSockAddrUnix(t *testing.T) {
	addr := &unix.SockaddrUnix{Name: "/tmp/ioring-test.sock"}
	sa, err := NewSockAddr(addr)
	if err != nil {
		t.Fatalf("NewSockAddr: %v", err)
	}
	wantLen := uint32(len("/tmp/ioring-test.sock")) + 3
	if sa.Len() != wantLen {
		t.Fatalf("Len() = %d, want %d", sa.Len(), wantLen)
	}
}

func TestNewSockAddrUnsupportedFamily(t *testing.T) {
	_, err := NewSockAddr(nil)
	if err == nil {
		t.Fatal("expected error for unsupported sockaddr")
	}
}

func TestHtons(t *testing.T) {
	if htons(0x0102) != 0x0201 {
		t.Fatalf("htons(0x0102) = %#x, want 0x0201", htons(0x0102))
	}
}
