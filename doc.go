// Package ioring is a high-level, safe wrapper over the Linux io_uring
// asynchronous I/O interface. It pairs a fixed-capacity slot allocator
// (package internal/slot) with a ring coordinator that prepares submission
// queue entries, drives io_uring_enter, and reaps completion queue entries,
// associating each completion with the caller-supplied token it was
// submitted with.
package ioring
