// Package linker resolves program op ids to operations.
//
// # Main Types
//
//   - Linker: registry of operation descriptors keyed by op id
//   - Linked: a program whose every instruction carries its resolved
//     operation, ready for the interpreter
//
// # Thread Safety
//
// Linker is safe for concurrent use; definitions are normally made once at
// setup and then read by many Link calls. Linked is immutable after Link
// returns.
//
// # Resolution
//
// Link never rewrites its input. Linking the same program twice yields two
// independent, equivalent Linked values. Ids outside the registered set are
// collected across the whole program and reported together in an
// *errors.UnresolvedOpsError.
//
// # Example
//
//	l := linker.NewWithDefaults()
//	linked, err := l.Link(prog)
//	if err != nil {
//		return err
//	}
//	vm.New(a, vm.Options{}).Execute(linked)
package linker
