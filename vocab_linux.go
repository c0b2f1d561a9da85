//go:build linux

package ioring

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Access describes the intended direction of an OpenAt2 call.
type Access int

const (
	AccessRead Access = iota
	AccessWrite
	AccessReadWrite
)

func (a Access) openFlag() OpenFlags {
	switch a {
	case AccessRead:
		return OpenFlags(unix.O_RDONLY)
	case AccessWrite:
		return OpenFlags(unix.O_WRONLY)
	default:
		return OpenFlags(unix.O_RDWR)
	}
}

// OpenFlags is a bit-set of open(2) flags, numerically aligned with
// golang.org/x/sys/unix's O_* constants so values combine and compare
// directly with the kernel ABI.
type OpenFlags uint32

const (
	ORdonly    OpenFlags = unix.O_RDONLY
	OWronly    OpenFlags = unix.O_WRONLY
	ORdwr      OpenFlags = unix.O_RDWR
	OCreat     OpenFlags = unix.O_CREAT
	OExcl      OpenFlags = unix.O_EXCL
	ONoctty    OpenFlags = unix.O_NOCTTY
	OTrunc     OpenFlags = unix.O_TRUNC
	OAppend    OpenFlags = unix.O_APPEND
	ONonblock  OpenFlags = unix.O_NONBLOCK
	ODsync     OpenFlags = unix.O_DSYNC
	ODirect    OpenFlags = unix.O_DIRECT
	OLargefile OpenFlags = unix.O_LARGEFILE
	ODirectory OpenFlags = unix.O_DIRECTORY
	ONofollow  OpenFlags = unix.O_NOFOLLOW
	ONoatime   OpenFlags = unix.O_NOATIME
	OCloexec   OpenFlags = unix.O_CLOEXEC
	OSync      OpenFlags = unix.O_SYNC
	OPath      OpenFlags = unix.O_PATH
	OTmpfile   OpenFlags = unix.O_TMPFILE
)

// Has reports whether all bits of other are set in f.
func (f OpenFlags) Has(other OpenFlags) bool {
	return f&other == other
}

// ResolveFlags is the bit-set passed as open_how.resolve to openat2(2).
type ResolveFlags uint64

const (
	ResolveNoXDev       ResolveFlags = 0x01
	ResolveNoMagicLinks ResolveFlags = 0x02
	ResolveNoSymlinks   ResolveFlags = 0x04
	ResolveBeneath      ResolveFlags = 0x08
	ResolveInRoot       ResolveFlags = 0x10
	ResolveCached       ResolveFlags = 0x20
)

// Has reports whether all bits of other are set in f.
func (f ResolveFlags) Has(other ResolveFlags) bool {
	return f&other == other
}

// PollMask is the bit-set passed to PollAdd, matching unix.POLL* constants.
type PollMask uint32

const (
	PollIn  PollMask = unix.POLLIN
	PollOut PollMask = unix.POLLOUT
	PollErr PollMask = unix.POLLERR
	PollHup PollMask = unix.POLLHUP
)

// Has reports whether all bits of other are set in m.
func (m PollMask) Has(other PollMask) bool {
	return m&other == other
}

// SockAddr holds the raw kernel encoding of a socket address and its length,
// so a Connect or Accept submission can pin the encoded form for the kernel
// without the caller managing unsafe.Pointer lifetimes directly. It is built
// from a unix.Sockaddr by NewSockAddr; there is no conversion back to a
// unix.Sockaddr.
type SockAddr struct {
	raw unix.RawSockaddrAny
	len uint32
}

// NewSockAddr encodes addr into its raw kernel representation. Only the
// address families the operation catalogue actually submits (IPv4, IPv6,
// Unix domain) are supported.
func NewSockAddr(addr unix.Sockaddr) (*SockAddr, error) {
	s := &SockAddr{}
	switch sa := addr.(type) {
	case *unix.SockaddrInet4:
		raw := unix.RawSockaddrInet4{Family: unix.AF_INET, Port: htons(uint16(sa.Port))}
		copy(raw.Addr[:], sa.Addr[:])
		*(*unix.RawSockaddrInet4)(unsafe.Pointer(&s.raw)) = raw
		s.len = uint32(unsafe.Sizeof(raw))
	case *unix.SockaddrInet6:
		raw := unix.RawSockaddrInet6{Family: unix.AF_INET6, Port: htons(uint16(sa.Port)), Scope_id: sa.ZoneId}
		copy(raw.Addr[:], sa.Addr[:])
		*(*unix.RawSockaddrInet6)(unsafe.Pointer(&s.raw)) = raw
		s.len = uint32(unsafe.Sizeof(raw))
	case *unix.SockaddrUnix:
		raw := unix.RawSockaddrUnix{Family: unix.AF_UNIX}
		n := copy(raw.Path[:], sa.Name)
		*(*unix.RawSockaddrUnix)(unsafe.Pointer(&s.raw)) = raw
		s.len = uint32(unsafe.Offsetof(raw.Path)) + uint32(n) + 1
	default:
		return nil, unix.EAFNOSUPPORT
	}
	return s, nil
}

func htons(v uint16) uint16 {
	return v<<8 | v>>8
}

// Len returns the length of the encoded address in bytes.
func (s *SockAddr) Len() uint32 {
	return s.len
}

// Raw returns a pointer to the encoded sockaddr, suitable for passing to
// PrepConnect/PrepAccept.
func (s *SockAddr) Raw() unsafe.Pointer {
	return unsafe.Pointer(&s.raw)
}

// LenPtr returns a pointer to the address length word, which Accept's
// kernel-side completion writes back into.
func (s *SockAddr) LenPtr() *uint32 {
	return &s.len
}
