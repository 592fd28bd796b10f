package ops

import (
	"math"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
)

// maxSegments keeps every triangle index, including the trailing i+2, inside
// a uint16.
const maxSegments = math.MaxUint16 - 1

// Circle writes a flat disc in the XY plane: a centre vertex at the origin
// followed by segmentCount perimeter vertices counter-clockwise from +X, and
// a fan of segmentCount triangles {0, i+1, i+2}.
//
// The fan is not closed. Its last triangle names vertex segmentCount+1, one
// past the final perimeter vertex, so the payload fails mesh.Validate.
// Consumers that need a closed disc must patch it themselves.
//
// params: segment-count f32, radius f32. A fractional segment count is
// truncated.
func Circle(a *arena.Arena, out uint32, inputs []uint32, params []byte) {
	assertArity("circle", "inputs", len(inputs), 0)
	errors.Assert(len(params) == 8, func() *errors.Error {
		return errors.Arity(errors.PhaseExecute, "circle", "param bytes", len(params), 8)
	})

	segmentCount := program.Param(params, 0)
	radius := program.Param(params, 1)

	errors.Assert(segmentCount >= 3, func() *errors.Error {
		return errors.New(errors.PhaseExecute, errors.KindInvalidInput).
			Op("circle").
			Value(segmentCount).
			Detail("segment count %g is below 3", segmentCount).
			Build()
	})
	errors.Assert(segmentCount <= maxSegments, func() *errors.Error {
		return errors.Overflow(errors.PhaseExecute, []string{"segment-count"}, segmentCount, "u16 triangle index")
	})

	n := uint32(segmentCount)
	h := mesh.Header{VertexCount: n + 1, TriangleCount: n}
	c := mesh.Chunk(a.Allocate(out, h.Size()))
	c.SetHeader(h)

	c.SetVertex(0, mesh.Vec3{})
	step := 2 * math.Pi / float32(n)
	for s := uint32(0); s < n; s++ {
		angle := float64(step * float32(s))
		c.SetVertex(s+1, mesh.Vec3{
			X: float32(math.Cos(angle)) * radius,
			Y: float32(math.Sin(angle)) * radius,
		})
	}

	for i := uint32(0); i < n; i++ {
		c.SetTriangle(h.VertexCount, i, mesh.Triangle{0, uint16(i + 1), uint16(i + 2)})
	}
}
