package program

import (
	"bytes"
	"fmt"

	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/internal/binary"
)

const (
	opIDSize  = 8
	slotSize  = 4
	countSize = 4
)

// Decode parses a binary program.
//
// Every size field is checked against the remaining bytes before it is
// trusted, so truncated or inflated input yields a decode error rather than a
// fault or a huge allocation. Trailing bytes after the last parameter block
// are rejected.
func Decode(data []byte) (*Program, error) {
	hdr := binary.NewReader(bytes.NewReader(data))
	count, err := hdr.ReadU32LE()
	if err != nil {
		return nil, decodeError(hdr.WrapError("header", err), "header")
	}
	n := uint64(count)

	opsOff := uint64(countSize)
	slotsOff := opsOff + n*opIDSize
	streamOff := slotsOff + n*slotSize
	if streamOff+countSize > uint64(len(data)) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("header").
			Value(count).
			Detail("op count %d needs %d bytes, have %d", count, streamOff+countSize, len(data)).
			Build()
	}

	streamReader := binary.NewReader(bytes.NewReader(data[streamOff:]))
	streamSize, err := streamReader.ReadU32LE()
	if err != nil {
		return nil, decodeError(err, "inputs")
	}
	if streamSize < countSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"inputs"},
			fmt.Sprintf("input stream size %d is smaller than its own field", streamSize))
	}
	paramsOff := streamOff + uint64(streamSize)
	if paramsOff > uint64(len(data)) {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"inputs"},
			fmt.Sprintf("input stream size %d runs past end of program (%d bytes)", streamSize, len(data)))
	}

	// Four cursors, one per section, advanced together per instruction.
	ops := binary.NewReader(bytes.NewReader(data[opsOff:slotsOff]))
	slots := binary.NewReader(bytes.NewReader(data[slotsOff:streamOff]))
	inputs := binary.NewReader(bytes.NewReader(data[streamOff+countSize : paramsOff]))
	params := binary.NewReader(bytes.NewReader(data[paramsOff:]))

	p := &Program{Instructions: make([]Instruction, count)}
	for i := range p.Instructions {
		ins := &p.Instructions[i]

		id, err := ops.ReadU64LE()
		if err != nil {
			return nil, decodeError(err, opPath(i))
		}
		ins.Op = OpID(id)

		if ins.Output, err = slots.ReadU32LE(); err != nil {
			return nil, decodeError(err, opPath(i))
		}

		if ins.Inputs, err = readInputs(inputs, i); err != nil {
			return nil, err
		}
		if ins.Params, err = readParams(params, i); err != nil {
			return nil, err
		}
	}

	if rem := inputs.Len(); rem != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"inputs"},
			fmt.Sprintf("%d unread bytes in input stream", rem))
	}
	if rem := params.Len(); rem != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"params"},
			fmt.Sprintf("%d trailing bytes after last parameter block", rem))
	}
	return p, nil
}

// MustDecode is like Decode but panics on error.
func MustDecode(data []byte) *Program {
	p, err := Decode(data)
	if err != nil {
		panic(err)
	}
	return p
}

func readInputs(r *binary.Reader, i int) ([]uint32, error) {
	n, err := r.ReadU32LE()
	if err != nil {
		return nil, decodeError(err, opPath(i), "inputs")
	}
	if uint64(n)*slotSize > uint64(r.Len()) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(opPath(i), "inputs").
			Value(n).
			Detail("input count %d exceeds remaining input stream (%d bytes)", n, r.Len()).
			Build()
	}
	out := make([]uint32, n)
	for j := range out {
		if out[j], err = r.ReadU32LE(); err != nil {
			return nil, decodeError(err, opPath(i), "inputs")
		}
	}
	return out, nil
}

func readParams(r *binary.Reader, i int) ([]byte, error) {
	size, err := r.ReadU32LE()
	if err != nil {
		return nil, decodeError(err, opPath(i), "params")
	}
	if size < countSize {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(opPath(i), "params").
			Value(size).
			Detail("parameter block size %d is smaller than its own field", size).
			Build()
	}
	payload, err := r.ReadBytes(int(size - countSize))
	if err != nil {
		return nil, decodeError(err, opPath(i), "params")
	}
	return payload, nil
}

func decodeError(cause error, path ...string) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(path...).
		Cause(cause).
		Detail("truncated program").
		Build()
}

func opPath(i int) string {
	return fmt.Sprintf("op[%d]", i)
}
