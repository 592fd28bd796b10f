package program

// Builder assembles a Program in Go. Add assigns each instruction the next
// unused output slot and returns it so later instructions can consume it:
//
//	b := NewBuilder()
//	base := b.Circle(16, 2)
//	b.Translate(base, 0, 1, 0)
type Builder struct {
	prog Program
	next uint32
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends an instruction writing a fresh slot and returns that slot.
func (b *Builder) Add(op OpID, inputs []uint32, params ...float32) uint32 {
	out := b.next
	b.AddAt(op, out, inputs, params...)
	return out
}

// AddAt appends an instruction writing out. Later calls to Add continue
// after the highest slot seen so far.
func (b *Builder) AddAt(op OpID, out uint32, inputs []uint32, params ...float32) *Builder {
	in := make([]uint32, len(inputs))
	copy(in, inputs)
	b.prog.Push(Instruction{
		Op:     op,
		Output: out,
		Inputs: in,
		Params: EncodeParams(params...),
	})
	if out >= b.next {
		b.next = out + 1
	}
	return b
}

// Circle adds a circle with the given segment count and radius.
func (b *Builder) Circle(segments uint32, radius float32) uint32 {
	return b.Add(OpCircle, nil, float32(segments), radius)
}

// Translate adds a translation of src by (dx, dy, dz).
func (b *Builder) Translate(src uint32, dx, dy, dz float32) uint32 {
	return b.Add(OpTranslate, []uint32{src}, dx, dy, dz, 0)
}

// Slots returns the number of slots the program needs, one past the highest
// output slot.
func (b *Builder) Slots() uint32 {
	return b.next
}

// Build returns a copy of the program built so far.
func (b *Builder) Build() *Program {
	p := &Program{Instructions: make([]Instruction, len(b.prog.Instructions))}
	copy(p.Instructions, b.prog.Instructions)
	return p
}
