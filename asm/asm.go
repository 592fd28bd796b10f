package asm

import (
	"github.com/wippyai/procgen/asm/internal/parser"
	"github.com/wippyai/procgen/asm/internal/token"
	"github.com/wippyai/procgen/program"
)

// Compile parses source into a program.
func Compile(source string) (*program.Program, error) {
	tokens := token.Tokenize(source)
	return parser.New(tokens).Parse()
}

// Assemble parses source and encodes it in the binary program format.
func Assemble(source string) ([]byte, error) {
	p, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return program.Encode(p)
}

// MustCompile is like Compile but panics on error. For tests and fixed
// programs embedded in Go code.
func MustCompile(source string) *program.Program {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}
