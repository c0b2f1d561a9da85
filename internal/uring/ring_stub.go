//go:build !linux

// Package uring maps a Go-native API onto the raw io_uring syscall ABI. This
// file keeps the package buildable on non-Linux hosts; io_uring itself is a
// Linux-only kernel facility so New, Submit, the wait calls and buffer
// registration report ErrNotSupported; Close is a no-op and the other
// accessors return zero or -1.
package uring

import (
	"errors"
	"time"
)

// Common errors surfaced by ring operations.
var (
	ErrRingClosed   = errors.New("uring: ring closed")
	ErrSQFull       = errors.New("uring: submission queue full")
	ErrNotSupported = errors.New("uring: operation not supported on this kernel")
)

// Ring is unusable on this platform; New always fails.
type Ring struct{}

// New always fails on non-Linux platforms.
func New(entries uint32) (*Ring, error) {
	return nil, ErrNotSupported
}

func (r *Ring) Close() error { return nil }
func (r *Ring) Fd() int      { return -1 }
func (r *Ring) SQSpace() uint32 { return 0 }
func (r *Ring) Submit() (uint32, error) { return 0, ErrNotSupported }
func (r *Ring) SubmitAndWait(n uint32) error { return ErrNotSupported }
func (r *Ring) SubmitAndWaitTimeout(n uint32, d time.Duration) error { return ErrNotSupported }
func (r *Ring) CQReady() uint32 { return 0 }
func (r *Ring) RegisterBuffers(bufs [][]byte) error { return ErrNotSupported }
func (r *Ring) UnregisterBuffers() error { return ErrNotSupported }
