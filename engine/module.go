package engine

import (
	"github.com/wippyai/procgen/internal/binary"
)

const (
	// PageSize is the wasm linear memory page size.
	PageSize = 1 << 16

	// MaxPages is the largest memory whose byte size fits in a uint32.
	MaxPages = 1<<16 - 1

	// MemoryExport is the export name of the arena memory.
	MemoryExport = "memory"
)

const (
	sectionMemory = 5
	sectionExport = 7

	externMemory = 0x02

	limitsMin    = 0x00
	limitsMinMax = 0x01
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// memoryModule encodes a core module with one memory of exactly pages pages
// exported as MemoryExport.
func memoryModule(pages uint32) []byte {
	mem := binary.NewWriter()
	mem.WriteU32(1)
	mem.Byte(limitsMinMax)
	mem.WriteU32(pages)
	mem.WriteU32(pages)

	exp := binary.NewWriter()
	exp.WriteU32(1)
	exp.WriteName(MemoryExport)
	exp.Byte(externMemory)
	exp.WriteU32(0)

	w := binary.NewWriter()
	w.WriteBytes(header)
	w.WriteSection(sectionMemory, mem.Bytes())
	w.WriteSection(sectionExport, exp.Bytes())
	return w.Bytes()
}

// pagesFor rounds size up to whole pages.
func pagesFor(size uint64) uint64 {
	return (size + PageSize - 1) / PageSize
}
