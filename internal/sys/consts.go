// Package sys provides low-level io_uring syscall wrappers and wire types.
package sys

// Syscall numbers for io_uring (x86_64).
const (
	SYS_IO_URING_SETUP    = 425
	SYS_IO_URING_ENTER    = 426
	SYS_IO_URING_REGISTER = 427
)

// Op is an io_uring opcode (IORING_OP_*).
type Op uint8

const (
	IORING_OP_NOP Op = iota
	IORING_OP_READV
	IORING_OP_WRITEV
	IORING_OP_FSYNC
	IORING_OP_READ_FIXED
	IORING_OP_WRITE_FIXED
	IORING_OP_POLL_ADD
	IORING_OP_POLL_REMOVE
	IORING_OP_SYNC_FILE_RANGE
	IORING_OP_SENDMSG
	IORING_OP_RECVMSG
	IORING_OP_TIMEOUT
	IORING_OP_TIMEOUT_REMOVE
	IORING_OP_ACCEPT
	IORING_OP_ASYNC_CANCEL
	IORING_OP_LINK_TIMEOUT
	IORING_OP_CONNECT
	IORING_OP_FALLOCATE
	IORING_OP_OPENAT
	IORING_OP_CLOSE
	IORING_OP_FILES_UPDATE
	IORING_OP_STATX
	IORING_OP_READ
	IORING_OP_WRITE
	IORING_OP_FADVISE
	IORING_OP_MADVISE
	IORING_OP_SEND
	IORING_OP_RECV
	IORING_OP_OPENAT2
	IORING_OP_EPOLL_CTL
	IORING_OP_SPLICE
	IORING_OP_PROVIDE_BUFFERS
	IORING_OP_REMOVE_BUFFERS
	IORING_OP_TEE
	IORING_OP_SHUTDOWN
	IORING_OP_RENAMEAT
	IORING_OP_UNLINKAT
	IORING_OP_MKDIRAT
	IORING_OP_SYMLINKAT
	IORING_OP_LINKAT
	IORING_OP_MSG_RING
	IORING_OP_FSETXATTR
	IORING_OP_SETXATTR
	IORING_OP_FGETXATTR
	IORING_OP_GETXATTR
	IORING_OP_SOCKET
	IORING_OP_URING_CMD
	IORING_OP_SEND_ZC
	IORING_OP_SENDMSG_ZC

	IORING_OP_LAST // sentinel for bounds checking
)

// SQE flags (IOSQE_*).
const (
	IOSQE_FIXED_FILE       uint8 = 1 << 0
	IOSQE_IO_DRAIN         uint8 = 1 << 1
	IOSQE_IO_LINK          uint8 = 1 << 2
	IOSQE_IO_HARDLINK      uint8 = 1 << 3
	IOSQE_ASYNC            uint8 = 1 << 4
	IOSQE_BUFFER_SELECT    uint8 = 1 << 5
	IOSQE_CQE_SKIP_SUCCESS uint8 = 1 << 6
)

// Setup flags (IORING_SETUP_*).
const (
	IORING_SETUP_IOPOLL        uint32 = 1 << 0
	IORING_SETUP_SQPOLL        uint32 = 1 << 1
	IORING_SETUP_SQ_AFF        uint32 = 1 << 2
	IORING_SETUP_CQSIZE        uint32 = 1 << 3
	IORING_SETUP_CLAMP         uint32 = 1 << 4
	IORING_SETUP_ATTACH_WQ     uint32 = 1 << 5
	IORING_SETUP_R_DISABLED    uint32 = 1 << 6
	IORING_SETUP_SUBMIT_ALL    uint32 = 1 << 7
	IORING_SETUP_COOP_TASKRUN  uint32 = 1 << 8
	IORING_SETUP_TASKRUN_FLAG  uint32 = 1 << 9
	IORING_SETUP_SQE128        uint32 = 1 << 10
	IORING_SETUP_CQE32         uint32 = 1 << 11
	IORING_SETUP_SINGLE_ISSUER uint32 = 1 << 12
	IORING_SETUP_DEFER_TASKRUN uint32 = 1 << 13
)

// Feature flags (IORING_FEAT_*).
const (
	IORING_FEAT_SINGLE_MMAP     uint32 = 1 << 0
	IORING_FEAT_NODROP          uint32 = 1 << 1
	IORING_FEAT_SUBMIT_STABLE   uint32 = 1 << 2
	IORING_FEAT_RW_CUR_POS      uint32 = 1 << 3
	IORING_FEAT_CUR_PERSONALITY uint32 = 1 << 4
	IORING_FEAT_FAST_POLL       uint32 = 1 << 5
	IORING_FEAT_POLL_32BITS     uint32 = 1 << 6
	IORING_FEAT_SQPOLL_NONFIXED uint32 = 1 << 7
	IORING_FEAT_EXT_ARG         uint32 = 1 << 8
	IORING_FEAT_NATIVE_WORKERS  uint32 = 1 << 9
	IORING_FEAT_RSRC_TAGS       uint32 = 1 << 10
	IORING_FEAT_CQE_SKIP        uint32 = 1 << 11
)

// Enter flags (IORING_ENTER_*).
const (
	IORING_ENTER_GETEVENTS uint32 = 1 << 0
	IORING_ENTER_SQ_WAKEUP uint32 = 1 << 1
	IORING_ENTER_SQ_WAIT   uint32 = 1 << 2
	IORING_ENTER_EXT_ARG   uint32 = 1 << 3
)

// Register opcodes (IORING_REGISTER_*).
const (
	IORING_REGISTER_BUFFERS       uint32 = 0
	IORING_UNREGISTER_BUFFERS     uint32 = 1
	IORING_REGISTER_FILES         uint32 = 2
	IORING_UNREGISTER_FILES       uint32 = 3
	IORING_REGISTER_EVENTFD       uint32 = 4
	IORING_UNREGISTER_EVENTFD     uint32 = 5
	IORING_REGISTER_FILES_UPDATE  uint32 = 6
	IORING_REGISTER_EVENTFD_ASYNC uint32 = 7
	IORING_REGISTER_PROBE         uint32 = 8
)

// CQE flags (IORING_CQE_F_*).
const (
	IORING_CQE_F_BUFFER        uint32 = 1 << 0
	IORING_CQE_F_MORE          uint32 = 1 << 1
	IORING_CQE_F_SOCK_NONEMPTY uint32 = 1 << 2
	IORING_CQE_F_NOTIF         uint32 = 1 << 3
)

// SQ ring flags.
const (
	IORING_SQ_NEED_WAKEUP uint32 = 1 << 0
	IORING_SQ_CQ_OVERFLOW uint32 = 1 << 1
	IORING_SQ_TASKRUN     uint32 = 1 << 2
)

// Accept flags.
const (
	IORING_ACCEPT_MULTISHOT uint32 = 1 << 0
)

// Cancel flags (IORING_ASYNC_CANCEL_*).
const (
	IORING_ASYNC_CANCEL_ALL uint32 = 1 << 0
	IORING_ASYNC_CANCEL_FD  uint32 = 1 << 1
	IORING_ASYNC_CANCEL_ANY uint32 = 1 << 2
)

// mmap offsets for the ring buffers.
const (
	IORING_OFF_SQ_RING uint64 = 0
	IORING_OFF_CQ_RING uint64 = 0x8000000
	IORING_OFF_SQES    uint64 = 0x10000000
)
