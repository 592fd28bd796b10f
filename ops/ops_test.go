package ops

import (
	"bytes"
	stderrors "errors"
	"math"
	"slices"
	"testing"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
)

func newArena(t testing.TB, total uint64, chunks uint32) *arena.Arena {
	t.Helper()
	buf := make([]byte, arena.SizeFor(total, chunks))
	return arena.Create(buf, total, chunks)
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b mesh.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

// expectPanic runs f and returns the *errors.Error it panicked with.
func expectPanic(t *testing.T, f func()) *errors.Error {
	t.Helper()
	var err error
	func() {
		defer errors.Recover(&err)
		f()
	}()
	if err == nil {
		t.Fatal("expected contract violation")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("panic value = %T, want *errors.Error", err)
	}
	return e
}

func TestCircle(t *testing.T) {
	a := newArena(t, 4096, 4)
	Circle(a, 0, nil, program.EncodeParams(4, 10))

	c := mesh.Chunk(a.Get(0))
	h := c.Header()
	if h.VertexCount != 5 || h.TriangleCount != 4 {
		t.Fatalf("Header() = %+v, want {5 4}", h)
	}

	wantVerts := []mesh.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 0, Y: 10, Z: 0},
		{X: -10, Y: 0, Z: 0},
		{X: 0, Y: -10, Z: 0},
	}
	for i, want := range wantVerts {
		if got := c.Vertex(uint32(i)); !nearVec(got, want) {
			t.Errorf("Vertex(%d) = %+v, want %+v", i, got, want)
		}
	}
	if got := c.Vertex(1); got.X != 10 || got.Y != 0 {
		t.Errorf("Vertex(1) = %+v, want exactly (10,0,0)", got)
	}

	wantTris := []mesh.Triangle{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 5}}
	for i, want := range wantTris {
		if got := c.Triangle(h.VertexCount, uint32(i)); got != want {
			t.Errorf("Triangle(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestCircle_OpenFan(t *testing.T) {
	a := newArena(t, 4096, 1)
	Circle(a, 0, nil, program.EncodeParams(6, 1))

	m, err := mesh.Decode(a.Get(0))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	last := m.Triangles[len(m.Triangles)-1]
	if last[2] != 7 {
		t.Errorf("last triangle = %v, want third index 7", last)
	}
	if err := m.Validate(); err == nil {
		t.Error("Validate accepted the open fan")
	}
}

func TestCircle_ExactSize(t *testing.T) {
	a := newArena(t, 4096, 2)
	c := mesh.Chunk(a.Get(1))
	for i := range c {
		c[i] = 0xAB
	}
	Circle(a, 1, nil, program.EncodeParams(3, 1))

	size := mesh.Size(4, 3)
	if c[size-1] == 0xAB {
		t.Error("last payload byte not written")
	}
	if c[size] != 0xAB {
		t.Error("circle wrote past its payload")
	}
}

func TestCircle_Contract(t *testing.T) {
	tests := []struct {
		name   string
		inputs []uint32
		params []byte
		kind   errors.Kind
	}{
		{"inputs", []uint32{0}, program.EncodeParams(4, 1), errors.KindArity},
		{"missing radius", nil, program.EncodeParams(4), errors.KindArity},
		{"too few segments", nil, program.EncodeParams(2, 1), errors.KindInvalidInput},
		{"nan segments", nil, program.EncodeParams(float32(math.NaN()), 1), errors.KindInvalidInput},
		{"too many segments", nil, program.EncodeParams(70000, 1), errors.KindOverflow},
		{"too large for chunk", nil, program.EncodeParams(1000, 1), errors.KindCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArena(t, 1024, 1)
			e := expectPanic(t, func() { Circle(a, 0, tt.inputs, tt.params) })
			if e.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", e.Kind, tt.kind, e)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	a := newArena(t, 4096, 2)
	Circle(a, 0, nil, program.EncodeParams(4, 10))
	Translate(a, 1, []uint32{0}, program.EncodeParams(1, 2, 3))

	src := mesh.Chunk(a.Get(0))
	dst := mesh.Chunk(a.Get(1))
	h := dst.Header()
	if h != src.Header() {
		t.Fatalf("Header() = %+v, want %+v", h, src.Header())
	}
	for i := uint32(0); i < h.VertexCount; i++ {
		want := src.Vertex(i).Add(mesh.Vec3{X: 1, Y: 2, Z: 3})
		if got := dst.Vertex(i); got != want {
			t.Errorf("Vertex(%d) = %+v, want %+v", i, got, want)
		}
	}
	if !bytes.Equal(dst.Triangles(h), src.Triangles(h)) {
		t.Error("triangles differ from input")
	}
	if got := dst.Vertex(0); got != (mesh.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("centre = %+v, want (1,2,3)", got)
	}
}

func TestTranslate_PaddedParams(t *testing.T) {
	a := newArena(t, 4096, 3)
	Circle(a, 0, nil, program.EncodeParams(8, 2))
	Translate(a, 1, []uint32{0}, program.EncodeParams(10, 10, 10))
	Translate(a, 2, []uint32{0}, program.EncodeParams(10, 10, 10, 0))

	size := mesh.Size(9, 8)
	if !bytes.Equal(a.Get(1)[:size], a.Get(2)[:size]) {
		t.Error("padding f32 changed the result")
	}
}

func TestTranslate_InPlace(t *testing.T) {
	a := newArena(t, 4096, 1)
	Circle(a, 0, nil, program.EncodeParams(4, 1))
	Translate(a, 0, []uint32{0}, program.EncodeParams(0, 0, 5))

	c := mesh.Chunk(a.Get(0))
	if got := c.Vertex(0); got != (mesh.Vec3{Z: 5}) {
		t.Errorf("Vertex(0) = %+v, want (0,0,5)", got)
	}
	if got := c.Triangle(5, 3); got != (mesh.Triangle{0, 4, 5}) {
		t.Errorf("Triangle(3) = %v, want [0 4 5]", got)
	}
}

func TestTranslate_Contract(t *testing.T) {
	tests := []struct {
		name   string
		inputs []uint32
		params []byte
		kind   errors.Kind
	}{
		{"no inputs", nil, program.EncodeParams(1, 2, 3), errors.KindArity},
		{"two inputs", []uint32{0, 0}, program.EncodeParams(1, 2, 3), errors.KindArity},
		{"short params", []uint32{0}, program.EncodeParams(1, 2), errors.KindArity},
		{"input out of range", []uint32{5}, program.EncodeParams(1, 2, 3), errors.KindOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArena(t, 4096, 2)
			Circle(a, 0, nil, program.EncodeParams(4, 1))
			e := expectPanic(t, func() { Translate(a, 1, tt.inputs, tt.params) })
			if e.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", e.Kind, tt.kind, e)
			}
		})
	}
}

func TestTranslate_CorruptHeader(t *testing.T) {
	a := newArena(t, 1024, 2)
	mesh.Chunk(a.Get(0)).SetHeader(mesh.Header{VertexCount: 1000, TriangleCount: 0})

	e := expectPanic(t, func() { Translate(a, 1, []uint32{0}, program.EncodeParams(1, 1, 1)) })
	if e.Kind != errors.KindInvalidData {
		t.Errorf("Kind = %s, want invalid_data", e.Kind)
	}
}

func TestDescriptors(t *testing.T) {
	tests := []struct {
		id       program.OpID
		name     string
		inputs   int
		min, max int
		fields   []string
	}{
		{program.OpCircle, "circle", 0, 8, 8, []string{"segment-count", "radius"}},
		{program.OpTranslate, "translate", 1, 12, 16, []string{"dx", "dy", "dz", "pad"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.id)
			if !ok {
				t.Fatalf("Lookup(%v) failed", tt.id)
			}
			if d.Name != tt.name || d.Name != tt.id.String() {
				t.Errorf("Name = %q, want %q", d.Name, tt.name)
			}
			if d.Inputs != tt.inputs {
				t.Errorf("Inputs = %d, want %d", d.Inputs, tt.inputs)
			}
			lo, hi := d.ParamRange()
			if lo != tt.min || hi != tt.max {
				t.Errorf("ParamRange() = %d, %d, want %d, %d", lo, hi, tt.min, tt.max)
			}
			fields := d.Fields()
			if len(fields) != len(tt.fields) {
				t.Fatalf("Fields() = %d, want %d", len(fields), len(tt.fields))
			}
			for i, f := range fields {
				if f.Name != tt.fields[i] {
					t.Errorf("field %d = %q, want %q", i, f.Name, tt.fields[i])
				}
			}
		})
	}

	if _, ok := Lookup(7); ok {
		t.Error("Lookup(7) succeeded")
	}
	if got := len(Defaults()); got != 2 {
		t.Errorf("len(Defaults()) = %d, want 2", got)
	}
}

func TestDescriptor_Check(t *testing.T) {
	d, _ := Lookup(program.OpTranslate)
	if err := d.Check([]uint32{0}, program.EncodeParams(1, 2, 3)); err != nil {
		t.Errorf("Check: %v", err)
	}
	if err := d.Check([]uint32{0}, program.EncodeParams(1, 2, 3, 4)); err != nil {
		t.Errorf("Check: %v", err)
	}
	if err := d.Check(nil, program.EncodeParams(1, 2, 3)); err == nil {
		t.Error("Check accepted missing input")
	}
	if err := d.Check([]uint32{0}, program.EncodeParams(1, 2, 3, 4, 5)); err == nil {
		t.Error("Check accepted five params")
	}
	if err := d.Check([]uint32{0}, make([]byte, 14)); err == nil {
		t.Error("Check accepted a partial padding field")
	}
	if got := d.ParamSizes(); !slices.Equal(got, []int{12, 16}) {
		t.Errorf("ParamSizes() = %v, want [12 16]", got)
	}

	err := d.Check([]uint32{0}, program.EncodeParams(1, 2))
	var pe *errors.Error
	if !stderrors.As(err, &pe) || pe.Kind != errors.KindArity {
		t.Fatalf("Check error = %v, want arity", err)
	}
	if pe.Detail != "got 8 param bytes, want 12 or 16" {
		t.Errorf("Detail = %q", pe.Detail)
	}

	c, _ := Lookup(program.OpCircle)
	err = c.Check(nil, program.EncodeParams(4))
	if !stderrors.As(err, &pe) || pe.Detail != "got 4 param bytes, want 8" {
		t.Errorf("circle Check error = %v", err)
	}
}

func BenchmarkCircle(b *testing.B) {
	a := newArena(b, 1<<20, 4)
	params := program.EncodeParams(10000, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Circle(a, 0, nil, params)
	}
}
