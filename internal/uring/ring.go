//go:build linux

// Package uring maps a Go-native API onto the raw io_uring syscall ABI:
// ring setup/teardown, mmap'd submission and completion queues, and the
// per-operation SQE preparation helpers consumed by the coordinator.
package uring

import (
	"errors"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-ioring/internal/logging"
	"github.com/ehrlich-b/go-ioring/internal/sys"
)

// Common errors surfaced by ring operations.
var (
	ErrRingClosed   = errors.New("uring: ring closed")
	ErrSQFull       = errors.New("uring: submission queue full")
	ErrNotSupported = errors.New("uring: operation not supported on this kernel")
)

// Ring owns one io_uring instance: its file descriptor and the mmap'd SQ,
// CQ, and SQE regions.
type Ring struct {
	fd       int
	params   sys.Params
	features uint32

	sqRing    []byte
	sqEntries uint32
	sqMask    uint32
	sqHead    *uint32
	sqTail    *uint32
	sqFlags   *uint32
	sqDropped *uint32
	sqArray   []uint32
	sqes      []sys.SQE
	sqesMmap  []byte
	sqPending uint32

	cqRing     []byte
	cqEntries  uint32
	cqMask     uint32
	cqHead     *uint32
	cqTail     *uint32
	cqFlags    *uint32
	cqOverflow *uint32
	cqes       []sys.CQE

	closed atomic.Bool
}

// New creates a new io_uring instance with the given submission queue
// depth (rounded up to a power of two by the kernel).
func New(entries uint32) (*Ring, error) {
	if entries == 0 {
		return nil, unix.EINVAL
	}

	logger := logging.Default()
	logger.Debug("creating io_uring", "entries", entries)

	params := sys.Params{}
	fd, err := sys.Setup(entries, &params)
	if err != nil {
		logger.Error("io_uring_setup failed", "error", err)
		return nil, err
	}

	r := &Ring{fd: fd, params: params, features: params.Features}
	if err := r.mapRings(); err != nil {
		unix.Close(fd)
		return nil, err
	}

	logger.Info("created io_uring", "entries", r.sqEntries, "fd", fd)
	return r, nil
}

func (r *Ring) mapRings() error {
	p := &r.params

	sqRingSize := p.SQOff.Array + p.SQEntries*4
	cqRingSize := p.CQOff.CQEs + p.CQEntries*uint32(unsafe.Sizeof(sys.CQE{}))

	singleMmap := p.Features&sys.IORING_FEAT_SINGLE_MMAP != 0
	if singleMmap && cqRingSize > sqRingSize {
		sqRingSize = cqRingSize
	}

	var err error
	r.sqRing, err = sys.Mmap(r.fd, sys.IORING_OFF_SQ_RING, int(sqRingSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return err
	}

	if singleMmap {
		r.cqRing = r.sqRing
	} else {
		r.cqRing, err = sys.Mmap(r.fd, sys.IORING_OFF_CQ_RING, int(cqRingSize),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
		if err != nil {
			sys.Munmap(r.sqRing)
			return err
		}
	}

	sqeSize := p.SQEntries * uint32(unsafe.Sizeof(sys.SQE{}))
	r.sqesMmap, err = sys.Mmap(r.fd, sys.IORING_OFF_SQES, int(sqeSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		if !singleMmap {
			sys.Munmap(r.cqRing)
		}
		sys.Munmap(r.sqRing)
		return err
	}

	r.sqEntries = *(*uint32)(unsafe.Pointer(&r.sqRing[p.SQOff.RingEntries]))
	r.sqMask = *(*uint32)(unsafe.Pointer(&r.sqRing[p.SQOff.RingMask]))
	r.sqHead = (*uint32)(unsafe.Pointer(&r.sqRing[p.SQOff.Head]))
	r.sqTail = (*uint32)(unsafe.Pointer(&r.sqRing[p.SQOff.Tail]))
	r.sqFlags = (*uint32)(unsafe.Pointer(&r.sqRing[p.SQOff.Flags]))
	r.sqDropped = (*uint32)(unsafe.Pointer(&r.sqRing[p.SQOff.Dropped]))

	sqArrayPtr := unsafe.Pointer(&r.sqRing[p.SQOff.Array])
	r.sqArray = unsafe.Slice((*uint32)(sqArrayPtr), r.sqEntries)

	sqesPtr := unsafe.Pointer(&r.sqesMmap[0])
	r.sqes = unsafe.Slice((*sys.SQE)(sqesPtr), p.SQEntries)

	r.cqEntries = *(*uint32)(unsafe.Pointer(&r.cqRing[p.CQOff.RingEntries]))
	r.cqMask = *(*uint32)(unsafe.Pointer(&r.cqRing[p.CQOff.RingMask]))
	r.cqHead = (*uint32)(unsafe.Pointer(&r.cqRing[p.CQOff.Head]))
	r.cqTail = (*uint32)(unsafe.Pointer(&r.cqRing[p.CQOff.Tail]))
	r.cqFlags = (*uint32)(unsafe.Pointer(&r.cqRing[p.CQOff.Flags]))
	r.cqOverflow = (*uint32)(unsafe.Pointer(&r.cqRing[p.CQOff.Overflow]))

	cqesPtr := unsafe.Pointer(&r.cqRing[p.CQOff.CQEs])
	r.cqes = unsafe.Slice((*sys.CQE)(cqesPtr), r.cqEntries)

	return nil
}

// Close tears down the ring and releases all mmap'd regions. Idempotent.
func (r *Ring) Close() error {
	if r.closed.Swap(true) {
		return nil
	}

	if r.params.Features&sys.IORING_FEAT_SINGLE_MMAP == 0 && r.cqRing != nil {
		sys.Munmap(r.cqRing)
	}
	if r.sqRing != nil {
		sys.Munmap(r.sqRing)
	}
	if r.sqesMmap != nil {
		sys.Munmap(r.sqesMmap)
	}

	return unix.Close(r.fd)
}

// Fd returns the ring file descriptor, needed for IORING_REGISTER_*.
func (r *Ring) Fd() int { return r.fd }

// SQSpace returns the available space in the submission queue.
func (r *Ring) SQSpace() uint32 {
	head := atomic.LoadUint32(r.sqHead)
	tail := atomic.LoadUint32(r.sqTail) + r.sqPending
	return r.sqEntries - (tail - head)
}

// NextSQE returns the next available SQE, or nil if the queue is full.
// The returned SQE is zeroed and ready for use. Not safe to call from
// multiple goroutines concurrently; ring ownership is single-threaded per
// the coordinator's contract.
func (r *Ring) NextSQE() *sys.SQE {
	head := atomic.LoadUint32(r.sqHead)
	tail := atomic.LoadUint32(r.sqTail) + r.sqPending
	if tail-head >= r.sqEntries {
		return nil
	}

	idx := tail & r.sqMask
	sqe := &r.sqes[idx]
	sqe.Reset()
	r.sqArray[idx] = idx
	r.sqPending++

	return sqe
}

func (r *Ring) needsWakeup() bool {
	if r.params.Flags&sys.IORING_SETUP_SQPOLL == 0 {
		return false
	}
	return atomic.LoadUint32(r.sqFlags)&sys.IORING_SQ_NEED_WAKEUP != 0
}

func (r *Ring) commitPending() uint32 {
	submitted := r.sqPending
	if submitted == 0 {
		return 0
	}
	tail := atomic.LoadUint32(r.sqTail)
	atomic.StoreUint32(r.sqTail, tail+submitted)
	r.sqPending = 0
	return submitted
}

// Submit hands off all pending SQEs to the kernel without waiting for any
// completions. Returns the number of SQEs the kernel accepted.
func (r *Ring) Submit() (uint32, error) {
	if r.closed.Load() {
		return 0, ErrRingClosed
	}

	submitted := r.commitPending()
	if submitted == 0 {
		return 0, nil
	}

	var flags uint32
	if r.needsWakeup() {
		flags |= sys.IORING_ENTER_SQ_WAKEUP
	}

	n, err := sys.Enter(r.fd, submitted, 0, flags, nil)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// SubmitAndWait hands off pending SQEs and blocks until at least n
// completions are available.
func (r *Ring) SubmitAndWait(n uint32) error {
	if r.closed.Load() {
		return ErrRingClosed
	}

	submitted := r.commitPending()

	var flags uint32 = sys.IORING_ENTER_GETEVENTS
	if r.needsWakeup() {
		flags |= sys.IORING_ENTER_SQ_WAKEUP
	}

	_, err := sys.Enter(r.fd, submitted, n, flags, nil)
	return err
}

// SubmitAndWaitTimeout is like SubmitAndWait but bounds the wait to d via
// IORING_ENTER_EXT_ARG. d must be > 0.
func (r *Ring) SubmitAndWaitTimeout(n uint32, d time.Duration) error {
	if r.closed.Load() {
		return ErrRingClosed
	}

	submitted := r.commitPending()

	ts := sys.Timespec{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}
	arg := sys.GetEventsArg{Ts: uint64(uintptr(unsafe.Pointer(&ts)))}

	var flags uint32 = sys.IORING_ENTER_GETEVENTS
	if r.needsWakeup() {
		flags |= sys.IORING_ENTER_SQ_WAKEUP
	}

	_, err := sys.EnterExt(r.fd, submitted, n, flags, &arg)
	return err
}

// CQReady returns the number of CQEs ready for consumption.
func (r *Ring) CQReady() uint32 {
	head := atomic.LoadUint32(r.cqHead)
	tail := atomic.LoadUint32(r.cqTail)
	return tail - head
}

// PeekCQE returns the oldest unconsumed CQE without advancing the head, or
// nil if none is ready. Call AdvanceCQ after processing it.
func (r *Ring) PeekCQE() *sys.CQE {
	if r.CQReady() == 0 {
		return nil
	}
	head := atomic.LoadUint32(r.cqHead)
	return &r.cqes[head&r.cqMask]
}

// AdvanceCQ marks the oldest CQE consumed.
func (r *Ring) AdvanceCQ() {
	head := atomic.LoadUint32(r.cqHead)
	atomic.StoreUint32(r.cqHead, head+1)
}

// RegisterBuffers registers fixed buffers for IORING_OP_READ_FIXED /
// IORING_OP_WRITE_FIXED.
func (r *Ring) RegisterBuffers(bufs [][]byte) error {
	if len(bufs) == 0 {
		return unix.EINVAL
	}
	iovecs := make([]unix.Iovec, len(bufs))
	for i, buf := range bufs {
		if len(buf) > 0 {
			iovecs[i].Base = &buf[0]
			iovecs[i].SetLen(len(buf))
		}
	}
	return sys.RegisterBuffers(r.fd, iovecs)
}

// UnregisterBuffers removes registered fixed buffers.
func (r *Ring) UnregisterBuffers() error {
	return sys.UnregisterBuffers(r.fd)
}
