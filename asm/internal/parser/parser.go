package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/procgen/asm/internal/token"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/program"
)

type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse reads every instruction line into a program.
func (p *Parser) Parse() (*program.Program, error) {
	prog := &program.Program{}
	for p.peek() != nil {
		ins, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		prog.Push(ins)
	}
	return prog, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) line() int {
	if t := p.peek(); t != nil {
		return t.Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 1
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.errorf(p.line(), "unexpected end of input, expected %v", typ)
	}
	if t.Type != typ {
		return nil, p.errorf(t.Line, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *Parser) errorf(line int, format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Path(fmt.Sprintf("line %d", line)).
		Detail(format, args...).
		Build()
}

// opName output [inputs] [params] <newline>
func (p *Parser) parseInstruction() (program.Instruction, error) {
	var ins program.Instruction

	name, err := p.expect(token.Ident)
	if err != nil {
		return ins, err
	}
	if ins.Op, err = p.resolveOp(name); err != nil {
		return ins, err
	}

	if ins.Output, err = p.parseSlot(); err != nil {
		return ins, err
	}
	if ins.Inputs, err = p.parseSlotList(); err != nil {
		return ins, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return ins, err
	}
	ins.Params = program.EncodeParams(params...)

	if _, err := p.expect(token.Newline); err != nil {
		return ins, err
	}
	return ins, nil
}

func (p *Parser) resolveOp(t *token.Token) (program.OpID, error) {
	if raw, ok := strings.CutPrefix(t.Value, "@"); ok {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, p.errorf(t.Line, "invalid op id %q", t.Value)
		}
		return program.OpID(id), nil
	}
	id, ok := program.ParseOpID(t.Value)
	if !ok {
		e := errors.NotFound(errors.PhaseParse, "operation", t.Value)
		e.Path = []string{fmt.Sprintf("line %d", t.Line)}
		return 0, e
	}
	return id, nil
}

func (p *Parser) parseSlot() (uint32, error) {
	t, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(t.Value, 10, 32)
	if err != nil {
		return 0, p.errorf(t.Line, "invalid slot %q", t.Value)
	}
	return uint32(v), nil
}

func (p *Parser) parseSlotList() ([]uint32, error) {
	var out []uint32
	err := p.parseList(func() error {
		v, err := p.parseSlot()
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (p *Parser) parseParamList() ([]float32, error) {
	var out []float32
	err := p.parseList(func() error {
		v, err := p.parseF32()
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// parseList reads '[' elem (',' elem)* ']' with an empty list allowed.
func (p *Parser) parseList(elem func() error) error {
	if _, err := p.expect(token.LBracket); err != nil {
		return err
	}
	if t := p.peek(); t != nil && t.Type == token.RBracket {
		p.next()
		return nil
	}
	for {
		if err := elem(); err != nil {
			return err
		}
		t := p.next()
		if t == nil {
			return p.errorf(p.line(), "unexpected end of input, expected ']'")
		}
		switch t.Type {
		case token.Comma:
			continue
		case token.RBracket:
			return nil
		default:
			return p.errorf(t.Line, "expected ',' or ']', got %q", t.Value)
		}
	}
}

// parseF32 accepts decimal and exponent forms with an optional f suffix,
// plus inf and nan.
func (p *Parser) parseF32() (float32, error) {
	t := p.next()
	if t == nil {
		return 0, p.errorf(p.line(), "unexpected end of input, expected float")
	}
	if t.Type != token.Number && t.Type != token.Ident {
		return 0, p.errorf(t.Line, "expected float, got %q", t.Value)
	}
	s := t.Value
	if n := len(s); n > 1 && (s[n-1] == 'f' || s[n-1] == 'F') && s[n-2] != 'n' && s[n-2] != 'N' {
		s = s[:n-1]
	}
	val, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, p.errorf(t.Line, "invalid f32: %s", t.Value)
	}
	if math.IsNaN(val) {
		return float32(math.NaN()), nil
	}
	return float32(val), nil
}
