package ops

import (
	"slices"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/program"
)

// Func is the operation contract.
type Func func(a *arena.Arena, out uint32, inputs []uint32, params []byte)

// Descriptor describes one operation for linking and tooling.
type Descriptor struct {
	// Params is a record of f32 fields laid out in order in the parameter
	// block.
	Params *wit.TypeDef
	Func   Func
	Name   string
	ID     program.OpID
	// Inputs is the exact number of input slots.
	Inputs int
	// Optional is the number of trailing Params fields that may be omitted.
	Optional int
}

// Fields returns the parameter record fields, or nil if the operation takes
// no parameters.
func (d *Descriptor) Fields() []wit.Field {
	if d.Params == nil {
		return nil
	}
	if r, ok := d.Params.Kind.(*wit.Record); ok {
		return r.Fields
	}
	return nil
}

// ParamRange returns the minimum and maximum parameter block size in bytes.
func (d *Descriptor) ParamRange() (minBytes, maxBytes int) {
	fields := d.Fields()
	maxBytes = 0
	for _, f := range fields {
		maxBytes += fieldSize(f.Type)
	}
	minBytes = maxBytes
	for i := len(fields) - 1; i >= len(fields)-d.Optional && i >= 0; i-- {
		minBytes -= fieldSize(fields[i].Type)
	}
	return minBytes, maxBytes
}

// ParamSizes returns every accepted parameter block size in bytes, smallest
// first: one per number of trailing optional fields supplied.
func (d *Descriptor) ParamSizes() []int {
	fields := d.Fields()
	minBytes, _ := d.ParamRange()
	sizes := []int{minBytes}
	for i := max(len(fields)-d.Optional, 0); i < len(fields); i++ {
		sizes = append(sizes, sizes[len(sizes)-1]+fieldSize(fields[i].Type))
	}
	return sizes
}

// Check verifies input count and parameter block size against d.
func (d *Descriptor) Check(inputs []uint32, params []byte) error {
	if len(inputs) != d.Inputs {
		return errors.Arity(errors.PhaseExecute, d.Name, "inputs", len(inputs), d.Inputs)
	}
	sizes := d.ParamSizes()
	if !slices.Contains(sizes, len(params)) {
		return paramSizeError(d.Name, len(params), sizes...)
	}
	return nil
}

func paramSizeError(op string, got int, sizes ...int) *errors.Error {
	if len(sizes) == 1 {
		return errors.Arity(errors.PhaseExecute, op, "param bytes", got, sizes[0])
	}
	want := make([]string, len(sizes))
	for i, n := range sizes {
		want[i] = strconv.Itoa(n)
	}
	return errors.New(errors.PhaseExecute, errors.KindArity).
		Op(op).
		Value(got).
		Detail("got %d param bytes, want %s", got, strings.Join(want, " or ")).
		Build()
}

func fieldSize(t wit.Type) int {
	switch t.(type) {
	case wit.F32, wit.U32, wit.S32:
		return 4
	case wit.F64, wit.U64, wit.S64:
		return 8
	}
	return 0
}

var defaults = []*Descriptor{
	{
		ID:     program.OpCircle,
		Name:   "circle",
		Inputs: 0,
		Params: record("circle-params",
			wit.Field{Name: "segment-count", Type: wit.F32{}},
			wit.Field{Name: "radius", Type: wit.F32{}},
		),
		Func: Circle,
	},
	{
		ID:       program.OpTranslate,
		Name:     "translate",
		Inputs:   1,
		Optional: 1,
		Params: record("translate-params",
			wit.Field{Name: "dx", Type: wit.F32{}},
			wit.Field{Name: "dy", Type: wit.F32{}},
			wit.Field{Name: "dz", Type: wit.F32{}},
			wit.Field{Name: "pad", Type: wit.F32{}},
		),
		Func: Translate,
	},
}

// Defaults returns descriptors for every built-in operation in id order.
func Defaults() []*Descriptor {
	out := make([]*Descriptor, len(defaults))
	copy(out, defaults)
	return out
}

// Lookup returns the built-in descriptor for id.
func Lookup(id program.OpID) (*Descriptor, bool) {
	for _, d := range defaults {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

func record(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}

func assertArity(op string, what string, got, want int) {
	errors.Assert(got == want, func() *errors.Error {
		return errors.Arity(errors.PhaseExecute, op, what, got, want)
	})
}
