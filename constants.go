package ioring

// DefaultQueueDepth is the submission/completion queue depth (and matching
// slot allocator capacity) used by DefaultParams.
const DefaultQueueDepth = 128

// DefaultBufferSize is the size of the pre-registered fixed I/O buffer used
// when Params.BufferSize is left at zero.
const DefaultBufferSize = 1 << 20 // 1 MiB
