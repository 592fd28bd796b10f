package ops

import (
	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
)

// Translate copies the mesh in inputs[0] to out with every vertex offset by
// (dx, dy, dz). Triangles are copied byte for byte. out may equal the input
// slot.
//
// params: dx f32, dy f32, dz f32, and an optional padding f32 that is
// ignored.
func Translate(a *arena.Arena, out uint32, inputs []uint32, params []byte) {
	assertArity("translate", "inputs", len(inputs), 1)
	errors.Assert(len(params) == 12 || len(params) == 16, func() *errors.Error {
		return paramSizeError("translate", len(params), 12, 16)
	})

	d := mesh.Vec3{
		X: program.Param(params, 0),
		Y: program.Param(params, 1),
		Z: program.Param(params, 2),
	}

	src := mesh.Chunk(a.Get(inputs[0]))
	h := src.Header()
	size := h.Size()
	errors.Assert(size <= uint64(len(src)), func() *errors.Error {
		return errors.New(errors.PhaseExecute, errors.KindInvalidData).
			Op("translate").
			Value(inputs[0]).
			Detail("input slot %d header claims %d bytes, chunk holds %d", inputs[0], size, len(src)).
			Build()
	})

	dst := mesh.Chunk(a.Allocate(out, size))
	dst.SetHeader(h)
	for i := uint32(0); i < h.VertexCount; i++ {
		dst.SetVertex(i, src.Vertex(i).Add(d))
	}
	copy(dst.Triangles(h), src.Triangles(h))
}
