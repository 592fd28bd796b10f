package errors

import "fmt"

// Violation panics with err. It is the fast-path form of every contract
// check: arena capacity, op arity and op id range all fault this way.
func Violation(err *Error) {
	panic(err)
}

// Assert panics with the error built by fn when cond is false. fn is only
// called on failure so the happy path does not allocate.
func Assert(cond bool, fn func() *Error) {
	if !cond {
		panic(fn())
	}
}

// Recover converts a contract panic into an error stored in *errp. Panics
// that are not contract violations are re-raised. Use as
//
//	defer errors.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch v := r.(type) {
	case *Error:
		*errp = v
	case *UnresolvedOpsError:
		*errp = v
	default:
		panic(r)
	}
}

// RecoverAny is like Recover but also converts runtime faults raised inside
// operations (for example an index out of range while reading a chunk) into
// execute-phase errors.
func RecoverAny(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	switch v := r.(type) {
	case *Error:
		*errp = v
	case *UnresolvedOpsError:
		*errp = v
	case error:
		*errp = Wrap(PhaseExecute, KindInvalidData, v, "operation fault")
	default:
		*errp = &Error{
			Phase:  PhaseExecute,
			Kind:   KindInvalidData,
			Detail: fmt.Sprintf("operation fault: %v", v),
			Value:  v,
		}
	}
}
