// Package arena implements a fixed-capacity, no-reclaim chunk allocator laid
// over a caller-owned byte buffer.
//
// The buffer is split into chunkCount chunks of chunkSize bytes each, where
// chunkSize = totalMemory / chunkCount. A chunk is addressed by a small slot
// id. There is no free and no reuse: an arena is the flat output space of a
// single VM session.
//
// # Buffer Layout
//
//	u64 chunkCount
//	u64 chunkSize
//	up to Alignment-1 bytes padding
//	chunkCount × (chunkSize bytes, rounded up to Alignment)
//
// Chunk i starts at base + i*chunkSize, where base is the end of the header
// rounded up to the next Alignment boundary. Alignment is computed against
// the real address of the buffer, so chunks are aligned even when the buffer
// is a view into foreign memory. When chunkSize is not a multiple of
// Alignment the stride is chunkSize rounded up, which the Alignment*chunkCount
// term of SizeFor covers.
//
// # Contracts
//
// Allocate and Get do not return errors. A slot past the chunk count or a
// request larger than a chunk panics with an *errors.Error. The Try variants
// return those errors instead.
//
// # Thread Safety
//
// An Arena is NOT safe for concurrent use. One script executes against one
// arena at a time.
package arena
