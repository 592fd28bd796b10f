package program

import (
	"bytes"
	encbin "encoding/binary"
	"math"

	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/internal/binary"
)

// EncodeParams packs values as a little-endian f32 parameter payload.
func EncodeParams(values ...float32) []byte {
	w := binary.NewWriter()
	for _, v := range values {
		w.WriteF32LE(v)
	}
	return w.Bytes()
}

// DecodeParams unpacks a parameter payload into f32 values.
func DecodeParams(params []byte) ([]float32, error) {
	if len(params)%4 != 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("params").
			Value(len(params)).
			Detail("parameter block of %d bytes is not a whole number of f32 values", len(params)).
			Build()
	}
	r := binary.NewReader(bytes.NewReader(params))
	out := make([]float32, len(params)/4)
	for i := range out {
		v, err := r.ReadF32LE()
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path("params").
				Cause(r.WrapError("params", err)).
				Build()
		}
		out[i] = v
	}
	return out, nil
}

// Param reads the i-th f32 of a parameter payload without checks.
func Param(params []byte, i int) float32 {
	return math.Float32frombits(encbin.LittleEndian.Uint32(params[4*i:]))
}
