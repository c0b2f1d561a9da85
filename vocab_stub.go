//go:build !linux

package ioring

import "golang.org/x/sys/unix"

// Access describes the intended direction of an OpenAt2 call. Kept portable
// on non-Linux builds so callers of the Coordinator stub still compile.
type Access int

const (
	AccessRead Access = iota
	AccessWrite
	AccessReadWrite
)

// OpenFlags is a bit-set of open(2) flags. On Linux these values are
// numerically aligned with golang.org/x/sys/unix's O_* constants; this stub
// only needs the type to exist for Coordinator's method signatures.
type OpenFlags uint32

// Has reports whether all bits of other are set in f.
func (f OpenFlags) Has(other OpenFlags) bool {
	return f&other == other
}

// ResolveFlags is the bit-set passed as open_how.resolve to openat2(2).
type ResolveFlags uint64

// Has reports whether all bits of other are set in f.
func (f ResolveFlags) Has(other ResolveFlags) bool {
	return f&other == other
}

// PollMask is the bit-set passed to PollAdd.
type PollMask uint32

// Has reports whether all bits of other are set in m.
func (m PollMask) Has(other PollMask) bool {
	return m&other == other
}

// SockAddr wraps an encoded socket address. Unusable on this platform;
// construct via NewSockAddr only succeeds on Linux builds.
type SockAddr struct{}

// NewSockAddr always fails on non-Linux platforms.
func NewSockAddr(addr unix.Sockaddr) (*SockAddr, error) {
	return nil, ErrNotSupported
}
