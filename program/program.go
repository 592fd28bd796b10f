package program

// Instruction is one operation invocation.
type Instruction struct {
	Params []byte
	Inputs []uint32
	Op     OpID
	Output uint32
}

// Program is a sequence of instructions executed in order.
type Program struct {
	Instructions []Instruction
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Push appends ins and returns its index.
func (p *Program) Push(ins Instruction) int {
	idx := len(p.Instructions)
	p.Instructions = append(p.Instructions, ins)
	return idx
}

// Outputs returns the output slot of every instruction in order.
func (p *Program) Outputs() []uint32 {
	out := make([]uint32, len(p.Instructions))
	for i, ins := range p.Instructions {
		out[i] = ins.Output
	}
	return out
}

// MaxSlot returns the highest slot any instruction reads or writes, and false
// for an empty program.
func (p *Program) MaxSlot() (uint32, bool) {
	var maxSlot uint32
	found := false
	for _, ins := range p.Instructions {
		if !found || ins.Output > maxSlot {
			maxSlot = ins.Output
		}
		found = true
		for _, in := range ins.Inputs {
			if in > maxSlot {
				maxSlot = in
			}
		}
	}
	return maxSlot, found
}
