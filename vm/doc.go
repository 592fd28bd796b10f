// Package vm executes linked procgen programs against a chunk arena.
//
// Execution is a plain loop over the linked steps in encoding order. Each
// step calls its operation with the VM's arena, the output slot, the input
// slots and the raw parameter block. There is no scheduling, suspension or
// reordering.
//
// # Fast Path and Safe Mode
//
// Execute trusts the program: out-of-range slots, forward references, wrong
// arity and oversized payloads panic with an *errors.Error. ExecuteSafe
// first validates the program against the arena and every step against its
// operation descriptor, then runs the same loop with contract panics
// converted into a returned error. Results of a successful run are
// identical in both modes.
//
// # Example
//
//	v, err := vm.NewHeap(1<<20, 4, vm.Options{})
//	if err != nil {
//		return err
//	}
//	linked := linker.NewWithDefaults().MustLink(prog)
//	v.Execute(linked)
//	m, err := v.Mesh(1)
package vm
