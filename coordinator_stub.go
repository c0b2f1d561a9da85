//go:build !linux

package ioring

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-ioring/internal/logging"
)

// ErrNotSupported is returned by New on platforms without io_uring.
var ErrNotSupported = errors.New("ioring: io_uring is only supported on linux")

// Params configures a Coordinator. See the linux build for the real fields;
// this stub keeps the same shape so callers compile unmodified.
type Params struct {
	QueueDepth int
	BufferSize int
	Observer   Observer
	Logger     *logging.Logger
}

// DefaultParams returns a Params with reasonable defaults.
func DefaultParams() Params {
	return Params{
		QueueDepth: DefaultQueueDepth,
		BufferSize: DefaultBufferSize,
	}
}

// Coordinator is unusable on this platform: ReallocBuffer, every operation
// method, Submit, Peek and Wait return ErrNotSupported; Close returns nil and
// the accessors return zero values.
type Coordinator struct{}

// New always fails on non-Linux platforms.
func New(Params) (*Coordinator, error) {
	return nil, ErrNotSupported
}

func (c *Coordinator) ReallocBuffer(buf []byte) error { return ErrNotSupported }
func (c *Coordinator) Close() error                   { return nil }
func (c *Coordinator) QueueDepth() int                { return 0 }
func (c *Coordinator) Buf() []byte                     { return nil }
func (c *Coordinator) Metrics() *Metrics               { return nil }

func (c *Coordinator) Noop(token uint64) (*Entry, error) { return nil, ErrNotSupported }
func (c *Coordinator) OpenAt2(access Access, flags OpenFlags, mode uint32, resolve ResolveFlags, dirfd int32, path string, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) Close_(fd int32, token uint64) (*Entry, error) { return nil, ErrNotSupported }
func (c *Coordinator) ReadFixed(fd int32, bufOff, length int, fileOff int64, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) WriteFixed(fd int32, bufOff, length int, fileOff int64, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) Readv(fd int32, iovecs []unix.Iovec, fileOff int64, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) Writev(fd int32, iovecs []unix.Iovec, fileOff int64, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) PollAdd(fd int32, mask PollMask, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) Splice(srcFD, dstFD int32, length uint32, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) Connect(fd int32, addr *SockAddr, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}
func (c *Coordinator) Accept(fd int32, token uint64) (*Entry, error) { return nil, ErrNotSupported }
func (c *Coordinator) Cancel(target *Entry, token uint64) (*Entry, error) {
	return nil, ErrNotSupported
}

func (c *Coordinator) Submit() (uint32, error)               { return 0, ErrNotSupported }
func (c *Coordinator) Peek() (*Completion, error)            { return nil, ErrNotSupported }
func (c *Coordinator) Wait(time.Duration) (*Completion, error) { return nil, ErrNotSupported }
