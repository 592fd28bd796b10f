package arena

import (
	"encoding/binary"
	"unsafe"

	"github.com/wippyai/procgen/errors"
)

const (
	// Alignment is the boundary every chunk starts on.
	Alignment = 16

	// HeaderSize is the size of the chunkCount and chunkSize fields.
	HeaderSize = 2 * 8
)

// Arena is a view over an initialised arena buffer.
type Arena struct {
	buf        []byte
	addr       uintptr
	chunkCount uint64
	chunkSize  uint64
}

// SizeFor returns the number of bytes a caller must provide to hold
// chunkCount chunks carved out of totalMemory. It panics if totalMemory is
// not evenly divisible by chunkCount.
func SizeFor(totalMemory uint64, chunkCount uint32) uint64 {
	size, err := TrySizeFor(totalMemory, chunkCount)
	if err != nil {
		errors.Violation(err.(*errors.Error))
	}
	return size
}

// TrySizeFor is SizeFor returning the contract violation as an error.
func TrySizeFor(totalMemory uint64, chunkCount uint32) (uint64, error) {
	chunkSize, err := chunkSizeFor(totalMemory, chunkCount)
	if err != nil {
		return 0, err
	}
	n := uint64(chunkCount)
	return HeaderSize + chunkSize*n + Alignment*n, nil
}

func chunkSizeFor(totalMemory uint64, chunkCount uint32) (uint64, *errors.Error) {
	if chunkCount == 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "chunk count must be positive")
	}
	if totalMemory%uint64(chunkCount) != 0 {
		return 0, errors.New(errors.PhaseAlloc, errors.KindInvalidInput).
			Value(totalMemory).
			Detail("total memory %d is not divisible by chunk count %d", totalMemory, chunkCount).
			Build()
	}
	chunkSize := totalMemory / uint64(chunkCount)
	if chunkSize == 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "chunk size must be positive")
	}
	return chunkSize, nil
}

// Create writes the arena header to buf and returns a view over it. The arena
// does not take ownership: buf must outlive the returned Arena.
func Create(buf []byte, totalMemory uint64, chunkCount uint32) *Arena {
	a, err := TryCreate(buf, totalMemory, chunkCount)
	if err != nil {
		errors.Violation(err.(*errors.Error))
	}
	return a
}

// TryCreate is Create returning contract violations as errors.
func TryCreate(buf []byte, totalMemory uint64, chunkCount uint32) (*Arena, error) {
	chunkSize, cerr := chunkSizeFor(totalMemory, chunkCount)
	if cerr != nil {
		return nil, cerr
	}
	need := HeaderSize + (chunkSize+Alignment)*uint64(chunkCount)
	if uint64(len(buf)) < need {
		return nil, errors.Capacity(errors.PhaseAlloc, need, uint64(len(buf)))
	}

	binary.LittleEndian.PutUint64(buf[0:8], uint64(chunkCount))
	binary.LittleEndian.PutUint64(buf[8:16], chunkSize)

	return TryView(buf)
}

// View re-attaches to a buffer previously initialised by Create.
func View(buf []byte) *Arena {
	a, err := TryView(buf)
	if err != nil {
		errors.Violation(err.(*errors.Error))
	}
	return a
}

// TryView is View returning header problems as errors.
func TryView(buf []byte) (*Arena, error) {
	if len(buf) < HeaderSize {
		return nil, errors.Capacity(errors.PhaseAlloc, HeaderSize, uint64(len(buf)))
	}
	a := &Arena{
		buf:        buf,
		addr:       uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
		chunkCount: binary.LittleEndian.Uint64(buf[0:8]),
		chunkSize:  binary.LittleEndian.Uint64(buf[8:16]),
	}
	if a.chunkCount == 0 || a.chunkSize == 0 {
		return nil, errors.InvalidData(errors.PhaseAlloc, []string{"header"}, "arena header is not initialised")
	}
	if a.chunkCount > uint64(^uint32(0)) {
		return nil, errors.Overflow(errors.PhaseAlloc, []string{"header", "chunkCount"}, a.chunkCount, "u32")
	}
	last := a.Offset(uint32(a.chunkCount-1)) + a.chunkSize
	if last > uint64(len(buf)) {
		return nil, errors.Capacity(errors.PhaseAlloc, last, uint64(len(buf)))
	}
	return a, nil
}

// ChunkCount returns the number of slots.
func (a *Arena) ChunkCount() uint32 {
	return uint32(a.chunkCount)
}

// ChunkSize returns the capacity of every chunk in bytes.
func (a *Arena) ChunkSize() uint64 {
	return a.chunkSize
}

// Bytes returns the whole underlying buffer, header included.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Offset returns the byte offset of slot's chunk from the start of the
// buffer. Chunks follow the header back to back from the first aligned
// address, each chunkSize bytes rounded up to Alignment. It does not check
// slot against the chunk count.
func (a *Arena) Offset(slot uint32) uint64 {
	base := alignUp(uint64(a.addr)+HeaderSize) - uint64(a.addr)
	return base + uint64(slot)*a.Stride()
}

// Stride returns the distance between the starts of adjacent chunks.
func (a *Arena) Stride() uint64 {
	return alignUp(a.chunkSize)
}

func alignUp(v uint64) uint64 {
	return (v + Alignment - 1) &^ (Alignment - 1)
}

// Allocate returns the chunk for slot, sliced to size bytes. The chunk is not
// zeroed and usage is not tracked; allocating a slot twice hands back the
// same memory.
func (a *Arena) Allocate(slot uint32, size uint64) []byte {
	if size > a.chunkSize {
		errors.Violation(errors.Capacity(errors.PhaseAlloc, size, a.chunkSize))
	}
	off := a.checkedOffset(slot)
	return a.buf[off : off+size : off+a.chunkSize]
}

// TryAllocate is Allocate returning contract violations as errors.
func (a *Arena) TryAllocate(slot uint32, size uint64) (chunk []byte, err error) {
	defer errors.Recover(&err)
	return a.Allocate(slot, size), nil
}

// Get returns the full chunk for slot. Nothing distinguishes a written chunk
// from an unwritten one; reading a slot no op has allocated yields whatever
// the buffer held.
func (a *Arena) Get(slot uint32) []byte {
	off := a.checkedOffset(slot)
	return a.buf[off : off+a.chunkSize : off+a.chunkSize]
}

// TryGet is Get returning contract violations as errors.
func (a *Arena) TryGet(slot uint32) (chunk []byte, err error) {
	defer errors.Recover(&err)
	return a.Get(slot), nil
}

func (a *Arena) checkedOffset(slot uint32) uint64 {
	if uint64(slot) >= a.chunkCount {
		errors.Violation(errors.OutOfBounds(errors.PhaseAlloc, []string{"slot"}, int(slot), int(a.chunkCount)))
	}
	return a.Offset(slot)
}
