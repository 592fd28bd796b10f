package program

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/procgen/errors"
)

// Disassemble renders p in the text authoring format, one instruction per
// line. The output assembles back to an identical program.
func Disassemble(p *Program) (string, error) {
	var sb strings.Builder
	if err := DisassembleTo(&sb, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// DisassembleTo writes the text form of p to w.
func DisassembleTo(w io.Writer, p *Program) error {
	bw := bufio.NewWriter(w)
	for i, ins := range p.Instructions {
		line, err := DisassembleInstruction(ins)
		if err != nil {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(opPath(i)).
				Cause(err).
				Detail("cannot render instruction").
				Build()
		}
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DisassembleInstruction renders one instruction without a trailing newline.
func DisassembleInstruction(ins Instruction) (string, error) {
	params, err := DecodeParams(ins.Params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(ins.Op.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(ins.Output), 10))
	sb.WriteString(" [")
	for j, in := range ins.Inputs {
		if j > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(in), 10))
	}
	sb.WriteString("] [")
	for j, v := range params {
		if j > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatParam(v))
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// FormatParam formats v with the fewest digits that parse back to v.
func FormatParam(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// String returns a one-line description for logs and listings.
func (ins Instruction) String() string {
	return fmt.Sprintf("%s -> %d (inputs %v, %d param bytes)", ins.Op, ins.Output, ins.Inputs, len(ins.Params))
}
