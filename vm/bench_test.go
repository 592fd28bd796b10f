package vm

import (
	"testing"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/linker"
)

const (
	benchMemory = 1 << 20
	benchChunks = 4
)

func BenchmarkConstruct(b *testing.B) {
	buf := make([]byte, arena.SizeFor(benchMemory, benchChunks))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		New(arena.Create(buf, benchMemory, benchChunks), Options{})
	}
}

func BenchmarkChunk(b *testing.B) {
	v := newVM(b, benchMemory, benchChunks)
	a := v.Arena()
	size := a.ChunkSize()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chunk := a.Allocate(uint32(i%benchChunks), size)
		chunk[0] = byte(i)
	}
}

func BenchmarkBasicScript(b *testing.B) {
	v := newVM(b, benchMemory, benchChunks)
	l := linker.NewWithDefaults().MustLink(basicProgram())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Execute(l)
	}
}
