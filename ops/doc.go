// Package ops implements the closed set of procgen operations.
//
// Every operation has the Func signature: it reads the chunks named by
// inputs, allocates exactly the bytes it needs in the out chunk and writes a
// mesh payload there (see package mesh). Params is the instruction's raw
// parameter block, little-endian f32 values described by the operation's
// WIT record.
//
// Operations trust their caller. Arity, parameter size and capacity
// violations panic with an *errors.Error; callers that need an error value
// run them through vm.ExecuteSafe.
package ops
