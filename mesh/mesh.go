package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/procgen/errors"
)

const (
	// RecordSize is the size of the header record and of every vertex.
	RecordSize = 16

	// TriangleSize is the size of one index triple.
	TriangleSize = 6
)

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X float32 `cbor:"x"`
	Y float32 `cbor:"y"`
	Z float32 `cbor:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Triangle holds three vertex indices in counter-clockwise order.
type Triangle [3]uint16

// Header is the decoded first record of a mesh chunk.
type Header struct {
	VertexCount   uint32
	TriangleCount uint32
}

// Size returns the number of bytes a payload with h's counts occupies.
func (h Header) Size() uint64 {
	return Size(h.VertexCount, h.TriangleCount)
}

// Size returns the exact byte size of a payload with the given counts.
func Size(vertexCount, triangleCount uint32) uint64 {
	return RecordSize + uint64(vertexCount)*RecordSize + uint64(triangleCount)*TriangleSize
}

// Chunk is a view over raw payload bytes. Accessors do no validation beyond
// Go's slice bounds checks.
type Chunk []byte

// Header reads the counts from the first record.
func (c Chunk) Header() Header {
	return Header{
		VertexCount:   uint32(c.f32(0)),
		TriangleCount: uint32(c.f32(4)),
	}
}

// SetHeader writes h as the first record.
func (c Chunk) SetHeader(h Header) {
	c.putF32(0, float32(h.VertexCount))
	c.putF32(4, float32(h.TriangleCount))
	c.putF32(8, 0)
	c.putF32(12, 0)
}

// Vertex returns vertex i.
func (c Chunk) Vertex(i uint32) Vec3 {
	off := RecordSize + int(i)*RecordSize
	return Vec3{X: c.f32(off), Y: c.f32(off + 4), Z: c.f32(off + 8)}
}

// SetVertex writes vertex i.
func (c Chunk) SetVertex(i uint32, v Vec3) {
	off := RecordSize + int(i)*RecordSize
	c.putF32(off, v.X)
	c.putF32(off+4, v.Y)
	c.putF32(off+8, v.Z)
	c.putF32(off+12, 0)
}

// Triangle returns triangle i given the chunk's vertex count.
func (c Chunk) Triangle(vertexCount, i uint32) Triangle {
	off := triangleOffset(vertexCount, i)
	return Triangle{
		binary.LittleEndian.Uint16(c[off:]),
		binary.LittleEndian.Uint16(c[off+2:]),
		binary.LittleEndian.Uint16(c[off+4:]),
	}
}

// SetTriangle writes triangle i given the chunk's vertex count.
func (c Chunk) SetTriangle(vertexCount, i uint32, t Triangle) {
	off := triangleOffset(vertexCount, i)
	binary.LittleEndian.PutUint16(c[off:], t[0])
	binary.LittleEndian.PutUint16(c[off+2:], t[1])
	binary.LittleEndian.PutUint16(c[off+4:], t[2])
}

// Triangles returns the raw triangle block for h.
func (c Chunk) Triangles(h Header) []byte {
	off := triangleOffset(h.VertexCount, 0)
	return c[off : off+int(h.TriangleCount)*TriangleSize]
}

func triangleOffset(vertexCount, i uint32) int {
	return RecordSize + int(vertexCount)*RecordSize + int(i)*TriangleSize
}

func (c Chunk) f32(off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c[off:]))
}

func (c Chunk) putF32(off int, v float32) {
	binary.LittleEndian.PutUint32(c[off:], math.Float32bits(v))
}

// Mesh is a decoded payload.
type Mesh struct {
	Vertices  []Vec3     `cbor:"vertices"`
	Triangles []Triangle `cbor:"triangles"`
}

// Header returns the counts for m.
func (m *Mesh) Header() Header {
	return Header{VertexCount: uint32(len(m.Vertices)), TriangleCount: uint32(len(m.Triangles))}
}

// Encode returns m in chunk layout.
func (m *Mesh) Encode() []byte {
	h := m.Header()
	c := Chunk(make([]byte, h.Size()))
	c.SetHeader(h)
	for i, v := range m.Vertices {
		c.SetVertex(uint32(i), v)
	}
	for i, t := range m.Triangles {
		c.SetTriangle(h.VertexCount, uint32(i), t)
	}
	return c
}

// Validate reports triangles that reference vertices past the end of the
// vertex array.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, t := range m.Triangles {
		for _, idx := range t {
			if int(idx) >= n {
				return errors.New(errors.PhaseExecute, errors.KindOutOfBounds).
					Path(fmt.Sprintf("triangles[%d]", i)).
					Value(idx).
					Detail("vertex index %d out of range (vertex count %d)", idx, n).
					Build()
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned box around every vertex. ok is false for a
// mesh with no vertices.
func (m *Mesh) Bounds() (lo, hi Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return Vec3{}, Vec3{}, false
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = Vec3{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = Vec3{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi, true
}

// Decode copies a payload out of raw chunk bytes. Unlike the Chunk accessors
// it checks that the header is well formed and the data fits in b.
func Decode(b []byte) (*Mesh, error) {
	if len(b) < RecordSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"header"}, "chunk shorter than header record")
	}
	c := Chunk(b)
	vc, err := count(c.f32(0), "vertexCount")
	if err != nil {
		return nil, err
	}
	tc, err := count(c.f32(4), "triangleCount")
	if err != nil {
		return nil, err
	}
	h := Header{VertexCount: vc, TriangleCount: tc}
	if h.Size() > uint64(len(b)) {
		return nil, errors.Capacity(errors.PhaseDecode, h.Size(), uint64(len(b)))
	}

	m := &Mesh{
		Vertices:  make([]Vec3, vc),
		Triangles: make([]Triangle, tc),
	}
	for i := range m.Vertices {
		m.Vertices[i] = c.Vertex(uint32(i))
	}
	for i := range m.Triangles {
		m.Triangles[i] = c.Triangle(vc, uint32(i))
	}
	return m, nil
}

func count(f float32, field string) (uint32, error) {
	if f < 0 || f != float32(math.Trunc(float64(f))) || float64(f) > math.MaxUint32 {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("header", field).
			Value(f).
			Detail("count %v is not a non-negative integer", f).
			Build()
	}
	return uint32(f), nil
}
