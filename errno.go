package ioring

import "golang.org/x/sys/unix"

// ErrnoOf maps a completion result (negative on failure) to the POSIX errno
// it encodes. Returns 0 for a non-negative result.
func ErrnoOf(result int32) unix.Errno {
	if result >= 0 {
		return 0
	}
	return unix.Errno(-result)
}

// CodeOf buckets a completion result into the same ErrorCode taxonomy
// mapErrnoToCode uses for construction and wait errors. Returns "" for a
// non-negative result.
func CodeOf(result int32) ErrorCode {
	errno := ErrnoOf(result)
	if errno == 0 {
		return ""
	}
	return mapErrnoToCode(errno)
}
