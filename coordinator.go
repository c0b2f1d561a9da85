//go:build linux

package ioring

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-ioring/internal/logging"
	"github.com/ehrlich-b/go-ioring/internal/scratch"
	"github.com/ehrlich-b/go-ioring/internal/slot"
	"github.com/ehrlich-b/go-ioring/internal/sys"
	"github.com/ehrlich-b/go-ioring/internal/uring"
)

// Params configures a Coordinator. Use DefaultParams as a starting point
// rather than constructing a zero-value Params directly.
type Params struct {
	// QueueDepth sets both the kernel ring's submission/completion queue
	// depth and the slot allocator's capacity. Must be positive.
	QueueDepth int

	// BufferSize is the length of the pre-registered fixed I/O buffer.
	// Zero falls back to DefaultBufferSize.
	BufferSize int

	// Observer, if non-nil, is notified of every completion and queue
	// depth sample. Defaults to NoOpObserver.
	Observer Observer

	// Logger, if non-nil, overrides the package-default logger.
	Logger *logging.Logger
}

// DefaultParams returns a Params with reasonable defaults.
func DefaultParams() Params {
	return Params{
		QueueDepth: DefaultQueueDepth,
		BufferSize: DefaultBufferSize,
	}
}

// Coordinator pairs submission-queue preparation with completion-queue
// reaping. It is not internally synchronized: all methods must be called
// by a single logical owner.
type Coordinator struct {
	ring     *uring.Ring
	slots    *slot.Allocator
	buf      []byte
	dirty    bool
	observer Observer
	metrics  *Metrics
	logger   *logging.Logger
	closed   bool
}

// New constructs a Coordinator: it allocates the kernel ring, registers the
// fixed buffer, and builds a matching slot allocator.
func New(params Params) (*Coordinator, error) {
	if params.QueueDepth <= 0 {
		return nil, ErrInvalidQueueDepth
	}

	bufSize := params.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	logger := params.Logger
	if logger == nil {
		logger = logging.Default()
	}

	observer := params.Observer
	if observer == nil {
		observer = NoOpObserver{}
	}

	ring, err := uring.New(uint32(params.QueueDepth))
	if err != nil {
		logger.Error("failed to create ring", "error", err)
		return nil, WrapError("New", err)
	}

	buf := make([]byte, bufSize)
	if err := ring.RegisterBuffers([][]byte{buf}); err != nil {
		ring.Close()
		logger.Error("failed to register buffer", "error", err)
		return nil, WrapError("New", err)
	}

	c := &Coordinator{
		ring:     ring,
		slots:    slot.NewAllocator(params.QueueDepth),
		buf:      buf,
		observer: observer,
		metrics:  NewMetrics(),
		logger:   logger,
	}

	logger.Debug("coordinator ready", "queue_depth", params.QueueDepth, "buffer_size", bufSize)
	return c, nil
}

// ReallocBuffer unregisters the current fixed buffer and registers buf in
// its place. The caller must ensure no fixed-mode operation is in flight;
// behavior is otherwise undefined at this layer.
func (c *Coordinator) ReallocBuffer(buf []byte) error {
	if err := c.ring.UnregisterBuffers(); err != nil {
		return WrapError("ReallocBuffer", err)
	}
	if err := c.ring.RegisterBuffers([][]byte{buf}); err != nil {
		return WrapError("ReallocBuffer", err)
	}
	c.buf = buf
	return nil
}

// Close tears down the kernel ring and releases the registered buffer.
// Idempotent.
func (c *Coordinator) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.metrics.Stop()
	c.ring.UnregisterBuffers()
	return c.ring.Close()
}

// QueueDepth returns the configured queue depth.
func (c *Coordinator) QueueDepth() int {
	return c.slots.Cap()
}

// Buf returns the registered fixed I/O buffer.
func (c *Coordinator) Buf() []byte {
	return c.buf
}

// Metrics returns the coordinator's built-in metrics collector.
func (c *Coordinator) Metrics() *Metrics {
	return c.metrics
}

// opKind tags a pending slot with the operation that produced it, so the
// reap path can attribute latency and counts to the right Observer method
// without widening slot.Payload's Extra field.
type opKind int

const (
	opNoop opKind = iota
	opOpen
	opClose
	opRead
	opWrite
	opReadv
	opWritev
	opPoll
	opSplice
	opConnect
	opAccept
	opCancel
)

type taggedExtra struct {
	kind        opKind
	submittedAt time.Time
	extra       any
}

// submit implements the shared allocate-then-prepare-then-rollback protocol
// every operation method uses. A nil, nil return means back-pressure: the
// allocator or the ring's submission queue is full and the caller should
// reap a completion before retrying.
func (c *Coordinator) submit(prep func(*sys.SQE), kind opKind, token uint64, extra any) (*Entry, error) {
	entry, err := c.slots.Alloc(token, taggedExtra{kind: kind, submittedAt: time.Now(), extra: extra})
	if err == slot.ErrNoSpace {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError("submit", err)
	}
	id := entry.ID()

	sqe := c.ring.NextSQE()
	if sqe == nil {
		c.slots.Free(id)
		return nil, nil
	}

	prep(sqe)
	sqe.UserData = uint64(id)

	c.dirty = true
	c.metrics.ObserveQueueDepth(uint32(c.slots.Len()))
	c.observer.ObserveQueueDepth(uint32(c.slots.Len()))

	return &Entry{id: id}, nil
}

// Noop submits a no-op, useful for wake-ups and plumbing tests.
func (c *Coordinator) Noop(token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) { uring.PrepNop(sqe) }, opNoop, token, nil)
}

// openAt2Extra is the auxiliary data kept alive in a slot's payload for the
// lifetime of an OpenAt2 submission: the null-terminated path (pulled from
// the scratch pool to avoid a fresh allocation per call) and the open_how
// descriptor the kernel reads it alongside.
type openAt2Extra struct {
	path []byte
	how  *uring.OpenHow
}

// maxPathLen mirrors Linux's PATH_MAX (including the null terminator); any
// longer path is rejected before it ever reaches the scratch pool or the
// kernel.
const maxPathLen = 4096

// OpenAt2 opens or creates a file relative to dirfd.
func (c *Coordinator) OpenAt2(access Access, flags OpenFlags, mode uint32, resolve ResolveFlags, dirfd int32, path string, token uint64) (*Entry, error) {
	if len(path)+1 > maxPathLen {
		return nil, NewError("OpenAt2", ErrCodeInvalidParameters, "path exceeds PATH_MAX")
	}

	pathBytes := scratch.Get(len(path) + 1)
	copy(pathBytes, path)
	pathBytes[len(path)] = 0

	how := &uring.OpenHow{
		Flags:   uint64(flags | access.openFlag()),
		Mode:    uint64(mode),
		Resolve: uint64(resolve),
	}
	extra := openAt2Extra{path: pathBytes, how: how}

	return c.submit(func(sqe *sys.SQE) {
		uring.PrepOpenAt2(sqe, dirfd, &pathBytes[0], how)
	}, opOpen, token, extra)
}

// Close_ submits a close(2) of fd. (Close tears down the Coordinator.)
func (c *Coordinator) Close_(fd int32, token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) { uring.PrepClose(sqe, fd) }, opClose, token, nil)
}

// ReadFixed reads length bytes from fd at fileOff into the registered
// buffer starting at bufOff.
func (c *Coordinator) ReadFixed(fd int32, bufOff, length int, fileOff int64, token uint64) (*Entry, error) {
	region := c.buf[bufOff : bufOff+length]
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepReadFixed(sqe, fd, region, uint64(fileOff), 0)
	}, opRead, token, nil)
}

// WriteFixed writes length bytes from the registered buffer starting at
// bufOff to fd at fileOff.
func (c *Coordinator) WriteFixed(fd int32, bufOff, length int, fileOff int64, token uint64) (*Entry, error) {
	region := c.buf[bufOff : bufOff+length]
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepWriteFixed(sqe, fd, region, uint64(fileOff), 0)
	}, opWrite, token, nil)
}

// Readv issues a scatter read into the caller-owned buffers described by
// iovecs.
func (c *Coordinator) Readv(fd int32, iovecs []unix.Iovec, fileOff int64, token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepReadv(sqe, fd, iovecs, uint64(fileOff))
	}, opReadv, token, iovecs)
}

// Writev issues a gather write from the caller-owned buffers described by
// iovecs.
func (c *Coordinator) Writev(fd int32, iovecs []unix.Iovec, fileOff int64, token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepWritev(sqe, fd, iovecs, uint64(fileOff))
	}, opWritev, token, iovecs)
}

// PollAdd requests a single-shot readiness notification for fd.
func (c *Coordinator) PollAdd(fd int32, mask PollMask, token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepPollAdd(sqe, fd, uint32(mask))
	}, opPoll, token, nil)
}

// Splice copies length bytes from srcFD to dstFD entirely within the
// kernel.
func (c *Coordinator) Splice(srcFD, dstFD int32, length uint32, token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepSplice(sqe, srcFD, -1, dstFD, -1, length)
	}, opSplice, token, nil)
}

// Connect issues a client-side connect of fd to addr.
func (c *Coordinator) Connect(fd int32, addr *SockAddr, token uint64) (*Entry, error) {
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepConnect(sqe, fd, addr.Raw(), addr.Len())
	}, opConnect, token, addr)
}

// Accept accepts a connection on the listening socket fd, with SOCK_CLOEXEC
// on the returned descriptor.
func (c *Coordinator) Accept(fd int32, token uint64) (*Entry, error) {
	addr := &SockAddr{}
	addr.len = uint32(unsafe.Sizeof(addr.raw))
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepAccept(sqe, fd, addr.Raw(), addr.LenPtr(), unix.SOCK_CLOEXEC)
	}, opAccept, token, addr)
}

// Cancel requests cancellation of the operation identified by target. Fails
// with ErrStaleEntry, without reaching the kernel, if target's slot has
// already been freed or reused.
func (c *Coordinator) Cancel(target *Entry, token uint64) (*Entry, error) {
	if !c.slots.Valid(target.id) {
		return nil, ErrStaleEntry
	}
	return c.submit(func(sqe *sys.SQE) {
		uring.PrepCancel(sqe, uint64(target.id))
	}, opCancel, token, nil)
}

// Submit hands off all pending SQEs to the kernel without waiting for any
// completions. Returns the number the kernel accepted. A no-op, returning
// 0, nil, when nothing is pending.
func (c *Coordinator) Submit() (uint32, error) {
	if !c.dirty {
		return 0, nil
	}
	c.dirty = false

	n, err := c.ring.Submit()
	if err != nil {
		return 0, WrapError("Submit", err)
	}
	c.logger.Debug("submitted", "count", n)
	return n, nil
}

// Peek returns the oldest unconsumed completion without blocking. Returns
// nil, nil if none is ready.
func (c *Coordinator) Peek() (*Completion, error) {
	cqe := c.ring.PeekCQE()
	if cqe == nil {
		return nil, nil
	}
	return c.reap(cqe)
}

// Wait blocks until a completion is available, or until timeout elapses if
// timeout > 0. timeout <= 0 blocks indefinitely.
func (c *Coordinator) Wait(timeout time.Duration) (*Completion, error) {
	var err error
	if timeout > 0 {
		err = c.ring.SubmitAndWaitTimeout(1, timeout)
	} else {
		err = c.ring.SubmitAndWait(1)
	}
	c.dirty = false

	if err != nil {
		if isTransient(err) {
			return nil, nil
		}
		return nil, WrapError("Wait", err)
	}

	cqe := c.ring.PeekCQE()
	if cqe == nil {
		return nil, nil
	}
	return c.reap(cqe)
}

func (c *Coordinator) reap(cqe *sys.CQE) (*Completion, error) {
	id := slot.ID(cqe.UserData)
	res := cqe.Res
	c.ring.AdvanceCQ()

	payload, err := c.slots.Free(id)
	if err != nil {
		return nil, &Error{Op: "reap", Code: ErrCodeInvalidParameters, Msg: err.Error(), Inner: err}
	}

	tagged, _ := payload.Extra.(taggedExtra)
	if oa, ok := tagged.extra.(openAt2Extra); ok {
		scratch.Put(oa.path)
	}
	c.observeCompletion(tagged, res)

	return &Completion{Token: payload.Token, Result: res}, nil
}

// observeCompletion attributes a completion's latency and success to the
// Observer method matching the operation that produced it, on both the
// built-in Metrics and the configured Observer.
func (c *Coordinator) observeCompletion(tagged taggedExtra, res int32) {
	var latencyNs uint64
	if !tagged.submittedAt.IsZero() {
		latencyNs = uint64(time.Since(tagged.submittedAt))
	}
	success := res >= 0

	for _, o := range []Observer{c.metrics, c.observer} {
		switch tagged.kind {
		case opOpen:
			o.ObserveOpen(latencyNs, success)
		case opClose:
			o.ObserveClose(latencyNs, success)
		case opRead:
			o.ObserveRead(latencyNs, success)
		case opWrite:
			o.ObserveWrite(latencyNs, success)
		case opReadv:
			o.ObserveReadv(latencyNs, success)
		case opWritev:
			o.ObserveWritev(latencyNs, success)
		case opPoll:
			o.ObservePoll(latencyNs, success)
		case opSplice:
			o.ObserveSplice(latencyNs, success)
		case opConnect:
			o.ObserveConnect(latencyNs, success)
		case opAccept:
			o.ObserveAccept(latencyNs, success)
		case opCancel:
			o.ObserveCancel(latencyNs, success)
		default:
			o.ObserveNoop(latencyNs, success)
		}
	}
}

func isTransient(err error) bool {
	switch err {
	case unix.EINTR, unix.EAGAIN, unix.ETIME:
		return true
	default:
		return false
	}
}
