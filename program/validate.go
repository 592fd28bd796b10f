package program

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/wippyai/procgen/errors"
)

// Validate checks the structural rules the fast path assumes without
// checking: every slot lies below chunkCount, every input was written by an
// earlier instruction and every parameter block holds whole f32 values. All
// violations are reported together.
func Validate(p *Program, chunkCount uint32) error {
	var err error
	written := make(map[uint32]struct{}, len(p.Instructions))

	for i, ins := range p.Instructions {
		name := ins.Op.String()

		if ins.Output >= chunkCount {
			err = multierr.Append(err, slotError(i, name, "output", ins.Output, chunkCount))
		}
		for j, in := range ins.Inputs {
			if in >= chunkCount {
				err = multierr.Append(err, slotError(i, name, fmt.Sprintf("inputs[%d]", j), in, chunkCount))
				continue
			}
			if _, ok := written[in]; !ok {
				err = multierr.Append(err, errors.ForwardRef(i, name, in))
			}
		}
		if len(ins.Params)%4 != 0 {
			err = multierr.Append(err, errors.New(errors.PhaseExecute, errors.KindInvalidData).
				Path(opPath(i), "params").
				Op(name).
				Value(len(ins.Params)).
				Detail("parameter block of %d bytes is not a whole number of f32 values", len(ins.Params)).
				Build())
		}

		written[ins.Output] = struct{}{}
	}
	return err
}

func slotError(i int, op, field string, slot, chunkCount uint32) *errors.Error {
	e := errors.OutOfBounds(errors.PhaseExecute, []string{opPath(i), field}, int(slot), int(chunkCount))
	e.Op = op
	return e
}
