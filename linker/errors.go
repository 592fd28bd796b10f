package linker

import (
	"fmt"

	"github.com/wippyai/procgen/errors"
)

// defineError reports a descriptor that cannot be registered.
func defineError(name string, reason string) *errors.Error {
	return errors.New(errors.PhaseLink, errors.KindInvalidInput).
		Op(name).
		Detail("cannot define operation: %s", reason).
		Build()
}

// checkError wraps a descriptor arity failure with the instruction index.
func checkError(index int, name string, cause error) *errors.Error {
	return errors.New(errors.PhaseLink, errors.KindArity).
		Path(fmt.Sprintf("op[%d]", index)).
		Op(name).
		Cause(cause).
		Detail("instruction does not match operation signature").
		Build()
}
