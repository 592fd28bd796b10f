package parser

import (
	"math"
	"strings"
	"testing"

	"github.com/wippyai/procgen/asm/internal/token"
	"github.com/wippyai/procgen/program"
)

func parse(t *testing.T, src string) *program.Program {
	t.Helper()
	p, err := New(token.Tokenize(src)).Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return p
}

func TestParseInstruction(t *testing.T) {
	p := parse(t, "translate 3 [1,2] [1.5,-2,0.0f]")
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	ins := p.Instructions[0]
	if ins.Op != program.OpTranslate {
		t.Errorf("Op = %v, want translate", ins.Op)
	}
	if ins.Output != 3 {
		t.Errorf("Output = %d, want 3", ins.Output)
	}
	if len(ins.Inputs) != 2 || ins.Inputs[0] != 1 || ins.Inputs[1] != 2 {
		t.Errorf("Inputs = %v, want [1 2]", ins.Inputs)
	}
	params, _ := program.DecodeParams(ins.Params)
	want := []float32{1.5, -2, 0}
	if len(params) != len(want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("params[%d] = %v, want %v", i, params[i], want[i])
		}
	}
}

func TestParseF32(t *testing.T) {
	tests := []struct {
		in   string
		want float32
	}{
		{"10000.0", 10000},
		{"0.0f", 0},
		{"2F", 2},
		{"1e3", 1000},
		{"-2.5e-1", -0.25},
		{".5", 0.5},
		{"inf", float32(math.Inf(1))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := parse(t, "circle 0 [] ["+tt.in+"]")
			if got := program.Param(p.Instructions[0].Params, 0); got != tt.want {
				t.Errorf("param = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRawOpID(t *testing.T) {
	p := parse(t, "@12 0 [] []")
	if p.Instructions[0].Op != 12 {
		t.Errorf("Op = %d, want 12", p.Instructions[0].Op)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, wantErr string
	}{
		{"unknown_op", "sphere 0 [] []", `operation "sphere" not found`},
		{"missing_slot", "circle [] []", "expected number"},
		{"negative_slot", "circle -1 [] []", "invalid slot"},
		{"unclosed", "circle 0 [] [1,2", "expected ',' or ']'"},
		{"missing_params", "circle 0 []", "expected '['"},
		{"bad_float", "circle 0 [] [1.2.3]", "invalid f32"},
		{"extra_token", "circle 0 [] [] 5", "expected end of line"},
		{"bad_char", "circle 0 [] [1;2]", "expected ',' or ']'"},
		{"bad_raw_id", "@x 0 [] []", "invalid op id"},
		{"line_number", "circle 0 [] []\n\ncircle x [] []", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(token.Tokenize(tt.src)).Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err, tt.wantErr)
			}
		})
	}
}
