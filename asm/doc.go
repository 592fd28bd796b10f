// Package asm compiles the procgen text format into programs.
//
// Each non-empty line holds one instruction:
//
//	opName outputSlot [inputSlot,...] [param,...]
//
// opName is an operation name such as circle or translate, or @N for a raw
// op id. Slots are unsigned decimal integers. Params are f32 literals in
// decimal or exponent form with an optional f suffix; inf and nan are
// accepted. A # starts a comment that runs to the end of the line.
//
// Basic usage:
//
//	p, err := asm.Compile(`
//		circle 0 [] [10000.0,10.0]
//		translate 1 [0] [10.0,10.0,10.0,0.0f]
//	`)
//
// program.Disassemble produces text that compiles back to the same program.
package asm
