package vm

import (
	"fmt"
	"sync"

	"github.com/wippyai/procgen/linker"
)

var (
	builtin     *linker.Linker
	builtinOnce sync.Once
)

func defaultLinker() *linker.Linker {
	builtinOnce.Do(func() {
		builtin = linker.NewWithDefaults()
	})
	return builtin
}

func opPath(i int) string {
	return fmt.Sprintf("op[%d]", i)
}
