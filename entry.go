package ioring

import "github.com/ehrlich-b/go-ioring/internal/slot"

// Entry is the handle returned by every operation-submission method. It
// identifies one outstanding operation and is the argument Cancel needs to
// target it.
type Entry struct {
	id slot.ID
}

// Completion is returned by Peek and Wait: the caller's original token
// together with the kernel's signed result code.
type Completion struct {
	Token  uint64
	Result int32
}
