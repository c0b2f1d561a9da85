//go:build linux

package uring

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-ioring/internal/sys"
)

// OpenHow mirrors struct open_how, the argument to openat2(2).
type OpenHow struct {
	Flags   uint64
	Mode    uint64
	Resolve uint64
}

// PrepNop fills sqe for a no-op, used for wake-ups and plumbing tests.
func PrepNop(sqe *sys.SQE) {
	sqe.Opcode = uint8(sys.IORING_OP_NOP)
}

// PrepOpenAt2 fills sqe for an openat2(2) call. path must be a
// null-terminated byte slice and how must remain valid until completion;
// the coordinator pins both via the slot allocator's extra-data field.
func PrepOpenAt2(sqe *sys.SQE, dirfd int32, path *byte, how *OpenHow) {
	sqe.Opcode = uint8(sys.IORING_OP_OPENAT2)
	sqe.Fd = dirfd
	sqe.Addr = uint64(uintptr(unsafe.Pointer(path)))
	sqe.Off = uint64(uintptr(unsafe.Pointer(how)))
	sqe.Len = uint32(unsafe.Sizeof(OpenHow{}))
}

// PrepClose fills sqe for closing fd.
func PrepClose(sqe *sys.SQE, fd int32) {
	sqe.Opcode = uint8(sys.IORING_OP_CLOSE)
	sqe.Fd = fd
}

// PrepReadFixed fills sqe for a fixed-buffer read. buf must point into the
// coordinator's registered buffer at bufOff.
func PrepReadFixed(sqe *sys.SQE, fd int32, buf []byte, fileOff uint64, bufIndex uint16) {
	sqe.Opcode = uint8(sys.IORING_OP_READ_FIXED)
	sqe.Fd = fd
	if len(buf) > 0 {
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	sqe.Len = uint32(len(buf))
	sqe.Off = fileOff
	sqe.BufIndex = bufIndex
}

// PrepWriteFixed fills sqe for a fixed-buffer write.
func PrepWriteFixed(sqe *sys.SQE, fd int32, buf []byte, fileOff uint64, bufIndex uint16) {
	sqe.Opcode = uint8(sys.IORING_OP_WRITE_FIXED)
	sqe.Fd = fd
	if len(buf) > 0 {
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	sqe.Len = uint32(len(buf))
	sqe.Off = fileOff
	sqe.BufIndex = bufIndex
}

// PrepReadv fills sqe for a scatter read. iovecs must remain valid (pinned
// by the allocator's extra-data field) until completion.
func PrepReadv(sqe *sys.SQE, fd int32, iovecs []unix.Iovec, fileOff uint64) {
	sqe.Opcode = uint8(sys.IORING_OP_READV)
	sqe.Fd = fd
	if len(iovecs) > 0 {
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&iovecs[0])))
	}
	sqe.Len = uint32(len(iovecs))
	sqe.Off = fileOff
}

// PrepWritev fills sqe for a gather write.
func PrepWritev(sqe *sys.SQE, fd int32, iovecs []unix.Iovec, fileOff uint64) {
	sqe.Opcode = uint8(sys.IORING_OP_WRITEV)
	sqe.Fd = fd
	if len(iovecs) > 0 {
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&iovecs[0])))
	}
	sqe.Len = uint32(len(iovecs))
	sqe.Off = fileOff
}

// PrepPollAdd fills sqe for a single-shot readiness poll.
func PrepPollAdd(sqe *sys.SQE, fd int32, mask uint32) {
	sqe.Opcode = uint8(sys.IORING_OP_POLL_ADD)
	sqe.Fd = fd
	sqe.OpFlags = mask
}

// PrepSplice fills sqe for a kernel-side byte copy between two fds.
func PrepSplice(sqe *sys.SQE, fdIn int32, offIn int64, fdOut int32, offOut int64, length uint32) {
	sqe.Opcode = uint8(sys.IORING_OP_SPLICE)
	sqe.Fd = fdOut
	sqe.SpliceFdIn = fdIn
	sqe.Len = length
	sqe.Off = uint64(offOut)
	sqe.SetSpliceOffIn(uint64(offIn))
}

// PrepConnect fills sqe for a client-side connect. addr must remain valid
// until completion.
func PrepConnect(sqe *sys.SQE, fd int32, addr unsafe.Pointer, addrLen uint32) {
	sqe.Opcode = uint8(sys.IORING_OP_CONNECT)
	sqe.Fd = fd
	sqe.Addr = uint64(uintptr(addr))
	sqe.Off = uint64(addrLen)
}

// PrepAccept fills sqe for an accept(2). addr and addrLen are written to by
// the kernel and must remain valid (pinned) until completion.
func PrepAccept(sqe *sys.SQE, fd int32, addr unsafe.Pointer, addrLen *uint32, flags uint32) {
	sqe.Opcode = uint8(sys.IORING_OP_ACCEPT)
	sqe.Fd = fd
	sqe.Addr = uint64(uintptr(addr))
	sqe.Off = uint64(uintptr(unsafe.Pointer(addrLen)))
	sqe.OpFlags = flags
}

// PrepCancel fills sqe to request cancellation of the operation tagged
// with targetUserData (the target slot id).
func PrepCancel(sqe *sys.SQE, targetUserData uint64) {
	sqe.Opcode = uint8(sys.IORING_OP_ASYNC_CANCEL)
	sqe.Fd = -1
	sqe.Addr = targetUserData
}
