// Package procgen provides a bytecode interpreter for procedural geometry.
//
// A program is a flat list of instructions. Each instruction names an
// operation by numeric id, reads the meshes already written to its input
// slots and writes one new mesh to its output slot. Slots are fixed-size
// chunks of a single caller-provided arena, so a run performs no allocation
// beyond the arena itself.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	procgen/
//	├── arena/       Fixed-size chunk allocator over a caller-owned buffer
//	├── mesh/        Mesh payload layout, decoding, OBJ and CBOR export
//	├── program/     Program model, binary encoding, builder, disassembler
//	├── asm/         Text authoring format compiled to programs
//	├── ops/         Built-in operations: circle and translate
//	├── linker/      Op id resolution into executable steps
//	├── vm/          Interpreter loop, fast and checked
//	├── engine/      Arenas hosted in wazero linear memory
//	├── runtime/     High-level API: compile, link, run, snapshot
//	├── config/      CLI configuration loading
//	├── errors/      Structured error types and contract violations
//	└── cmd/procgen  Command-line tool
//
// # Quick Start
//
// Build and run a program:
//
//	b := program.NewBuilder()
//	c := b.Circle(10000, 10)
//	b.Translate(c, 10, 10, 10)
//
//	rt, err := runtime.New(ctx, runtime.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	res, err := rt.Run(ctx, b.Build())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.Mesh(1).Vertices)) // 10001
//
// The same program in the text format:
//
//	circle 0 [] [10000, 10]
//	translate 1 [0] [10, 10, 10]
//
// # Execution Modes
//
// The fast path trusts the program: operations check their contract and
// panic with an *errors.Error on violation. The checked path validates slots,
// ordering and parameter sizes up front and returns errors instead.
//
// # Thread Safety
//
// Linker and Runtime are safe for concurrent use. An Arena and the VM that
// executes on it belong to a single goroutine.
package procgen
