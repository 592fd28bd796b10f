package program

import (
	"math"

	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/internal/binary"
)

// Encode serializes p to the binary program format.
func Encode(p *Program) ([]byte, error) {
	n := len(p.Instructions)
	if uint64(n) > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"opCount"}, n, "u32")
	}

	inputSize := uint64(4)
	for i, ins := range p.Instructions {
		if uint64(len(ins.Inputs)) > math.MaxUint32 {
			return nil, errors.Overflow(errors.PhaseEncode, []string{opPath(i), "inputs"}, len(ins.Inputs), "u32")
		}
		if uint64(len(ins.Params))+4 > math.MaxUint32 {
			return nil, errors.Overflow(errors.PhaseEncode, []string{opPath(i), "params"}, len(ins.Params), "u32")
		}
		inputSize += 4 + 4*uint64(len(ins.Inputs))
	}
	if inputSize > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"inputs"}, inputSize, "u32")
	}

	w := binary.NewWriter()
	w.WriteU32LE(uint32(n))
	for _, ins := range p.Instructions {
		w.WriteU64LE(uint64(ins.Op))
	}
	for _, ins := range p.Instructions {
		w.WriteU32LE(ins.Output)
	}
	w.WriteU32LE(uint32(inputSize))
	for _, ins := range p.Instructions {
		w.WriteU32LE(uint32(len(ins.Inputs)))
		for _, in := range ins.Inputs {
			w.WriteU32LE(in)
		}
	}
	for _, ins := range p.Instructions {
		w.WriteU32LE(uint32(len(ins.Params) + 4))
		w.WriteBytes(ins.Params)
	}
	return w.Bytes(), nil
}

// MustEncode is like Encode but panics on error.
func MustEncode(p *Program) []byte {
	data, err := Encode(p)
	if err != nil {
		panic(err)
	}
	return data
}
