// Package runtime provides the high-level API for running procgen programs.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, runtime.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	res, err := rt.RunSource(ctx, `
//	    circle 0 [] [32, 1]
//	    translate 1 [0] [0, 0, 2]
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := res.Mesh(1)
//
// # Loading Programs
//
//	Compile(text)  - text authoring format (see package asm)
//	Load(bytes)    - binary program encoding (see package program)
//
// Both return a *program.Program that Run executes.
//
// # Arena Backing
//
// Every run gets a fresh arena. BackingHeap allocates it from the Go heap;
// BackingWasm lays it out in wazero linear memory (see package engine).
// Results are identical.
//
// # Safe Mode
//
// With Options.Safe the program is validated against the arena and the
// operation signatures before it runs. Without it the interpreter trusts the
// program and contract violations surface only when an operation faults.
// Either way Run returns the violation as an error.
//
// # Thread Safety
//
// Runtime is safe for concurrent use. Runs are serialized.
package runtime
