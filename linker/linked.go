package linker

import (
	"github.com/wippyai/procgen/ops"
	"github.com/wippyai/procgen/program"
)

// Step is one resolved instruction.
type Step struct {
	Desc   *ops.Descriptor
	Inputs []uint32
	Params []byte
	Output uint32
}

// Name returns the operation name.
func (s *Step) Name() string {
	return s.Desc.Name
}

// Linked is a program with every op id resolved. It shares instruction
// inputs and params with the source program.
type Linked struct {
	program *program.Program
	steps   []Step
}

// Program returns the program that was linked.
func (l *Linked) Program() *program.Program {
	return l.program
}

// Steps returns the resolved instructions in execution order. The slice
// must not be modified.
func (l *Linked) Steps() []Step {
	return l.steps
}

// Len returns the number of steps.
func (l *Linked) Len() int {
	return len(l.steps)
}
