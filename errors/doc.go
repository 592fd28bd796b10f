// Package errors provides structured error types for procgen.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a location path, the operation name, a
// detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExecute, errors.KindArity).
//		Path("op[1]").
//		Op("translate").
//		Detail("got %d inputs, want 1", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Capacity(errors.PhaseAlloc, 4096, 1024)
//	err := errors.OutOfBounds(errors.PhaseAlloc, nil, 12, 10)
//
// # Contract violations
//
// The interpreter's fast path does not return errors. Capacity, arity and
// encoding violations panic with an *Error through Violation or Assert.
// Safe-mode entry points install Recover to turn those panics back into
// returned values:
//
//	func run() (err error) {
//		defer errors.Recover(&err)
//		...
//	}
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
