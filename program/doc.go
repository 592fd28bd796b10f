// Package program defines procgen programs and their binary encoding.
//
// A Program is an ordered list of instructions. Each instruction names an
// operation by OpID, the slot it writes, the slots it reads and an opaque
// parameter block (little-endian f32 values for the built-in operations).
//
// # Binary Format
//
// The encoding is positional. Four sections share the same cardinality and
// element i of each section belongs to instruction i:
//
//	u32 opCount
//	opCount × u64 opID
//	opCount × u32 outputSlot
//	u32 inputStreamSize              (counts its own 4 bytes)
//	  opCount × (u32 n, n × u32 inputSlot)
//	opCount × (u32 blockSize, blockSize-4 bytes)   (blockSize counts itself)
//
// Decode walks the four sections with independent cursors advanced in
// lockstep and produces the in-memory Program. The Program, not the buffer,
// is what gets linked and executed; the buffer is never rewritten.
//
// # Construction
//
// Programs can be decoded, assembled from text (see package asm) or built in
// Go:
//
//	b := program.NewBuilder()
//	disc := b.Circle(32, 10)
//	b.Translate(disc, 0, 0, 5)
//	p := b.Build()
package program
