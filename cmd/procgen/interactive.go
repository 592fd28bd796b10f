package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/program"
	"github.com/wippyai/procgen/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveModel lets the user pick an instruction, edit its parameters
// and rerun the whole program.
type interactiveModel struct {
	ctx      context.Context
	err      error
	rt       *runtime.Runtime
	prog     *program.Program
	filename string
	result   string
	steps    []stepInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type stepInfo struct {
	name   string
	params []paramInfo
	output uint32
	inputs []uint32
	index  int
}

type paramInfo struct {
	name    string
	witType wit.Type
	typeStr string
	value   float32
}

type modelState int

const (
	stateSelectStep modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(ctx context.Context, rt *runtime.Runtime, filename string) *interactiveModel {
	return &interactiveModel{
		ctx:      ctx,
		rt:       rt,
		filename: filename,
		state:    stateSelectStep,
	}
}

type loadedMsg struct {
	err   error
	prog  *program.Program
	steps []stepInfo
}

type runResultMsg struct {
	err    error
	prog   *program.Program
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadProgram
}

func (m *interactiveModel) loadProgram() tea.Msg {
	p, err := loadProgram(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	steps, err := describeSteps(m.rt, p)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{prog: p, steps: steps}
}

// describeSteps links p and pairs every instruction with its parameter
// record. Fields missing from the instruction's parameter block are omitted.
func describeSteps(rt *runtime.Runtime, p *program.Program) ([]stepInfo, error) {
	linked, err := rt.Linker().Link(p)
	if err != nil {
		return nil, err
	}

	steps := make([]stepInfo, 0, linked.Len())
	for i, s := range linked.Steps() {
		si := stepInfo{
			index:  i,
			name:   s.Name(),
			output: s.Output,
			inputs: s.Inputs,
		}
		present := len(s.Params) / 4
		for j, f := range s.Desc.Fields() {
			if j >= present {
				break
			}
			si.params = append(si.params, paramInfo{
				name:    f.Name,
				witType: f.Type,
				typeStr: witTypeStr(f.Type),
				value:   program.Param(s.Params, j),
			})
		}
		steps = append(steps, si)
	}
	return steps, nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectStep && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectStep && m.selected < len(m.steps)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectStep:
				if len(m.steps) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.runProgram
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.runProgram

			case stateShowResult:
				m.state = stateSelectStep
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectStep
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectStep
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.prog = msg.prog
		m.steps = msg.steps

	case runResultMsg:
		m.result = msg.result
		m.err = msg.err
		if msg.prog != nil {
			m.prog = msg.prog
			if steps, err := describeSteps(m.rt, msg.prog); err == nil {
				m.steps = steps
			}
		}
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	s := m.steps[m.selected]
	m.inputs = make([]textinput.Model, len(s.params))
	for i, p := range s.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.SetValue(program.FormatParam(p.value))
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// runProgram reruns the program with the edited parameters of the selected
// instruction. The edit is kept only if the run succeeds.
func (m *interactiveModel) runProgram() tea.Msg {
	s := m.steps[m.selected]

	values := make([]float32, len(m.inputs))
	for i, input := range m.inputs {
		v, err := convertArg(input.Value(), s.params[i].witType)
		if err != nil {
			return runResultMsg{err: errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(s.params[i].name).
				Value(input.Value()).
				Cause(err).
				Build()}
		}
		values[i] = v
	}

	next := cloneProgram(m.prog)
	if len(values) > 0 {
		next.Instructions[s.index].Params = program.EncodeParams(values...)
	}

	res, err := m.rt.Run(m.ctx, next)
	if err != nil {
		return runResultMsg{err: err}
	}

	out := res.Mesh(s.output)
	if out == nil {
		return runResultMsg{err: errors.NotFound(errors.PhaseExecute, "slot", fmt.Sprint(s.output))}
	}
	d := describeSlot(s.output, out)
	result := fmt.Sprintf("slot %d: %s\nelapsed %s", d.Slot, slotLine(d), res.Elapsed)
	if !d.Valid {
		result += "\n" + d.Error
	}
	return runResultMsg{prog: next, result: result}
}

func cloneProgram(p *program.Program) *program.Program {
	out := &program.Program{Instructions: make([]program.Instruction, len(p.Instructions))}
	for i, ins := range p.Instructions {
		ins.Inputs = append([]uint32(nil), ins.Inputs...)
		ins.Params = append([]byte(nil), ins.Params...)
		out.Instructions[i] = ins
	}
	return out
}

// convertArg parses a field value typed in the UI. Integer fields are
// accepted for records that declare them and stored as f32 like all
// parameters.
func convertArg(value string, t wit.Type) (float32, error) {
	value = strings.TrimSpace(value)
	switch t.(type) {
	case wit.U8, wit.U16, wit.U32:
		v, err := strconv.ParseUint(value, 10, 32)
		return float32(v), err
	case wit.S8, wit.S16, wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return float32(v), err
	case wit.F32, wit.F64:
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case wit.Bool:
		if value == "true" || value == "1" {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.Unsupported(errors.PhaseParse, "parameter type "+witTypeStr(t))
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.prog == nil {
		return "Loading program..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("procgen"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectStep:
		if len(m.steps) == 0 {
			b.WriteString("Program is empty.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select an instruction to edit:\n\n")
		for i, s := range m.steps {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatStep(s)))
			} else {
				b.WriteString("  " + m.formatStep(s))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • q quit"))

	case stateInputArgs:
		s := m.steps[m.selected]
		b.WriteString(fmt.Sprintf("Editing %s -> slot %d\n\n", funcStyle.Render(s.name), s.output))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(s.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateShowResult:
		s := m.steps[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(s.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatStep(s stepInfo) string {
	var params []string
	for _, p := range s.params {
		params = append(params, p.name+"="+program.FormatParam(p.value)+": "+typeStyle.Render(p.typeStr))
	}
	return fmt.Sprintf("%d %s%v(%s) -> %d", s.index, funcStyle.Render(s.name), s.inputs, strings.Join(params, ", "), s.output)
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func runInteractive(ctx context.Context, a *app, filename string) error {
	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	p := tea.NewProgram(newInteractiveModel(ctx, rt, filename), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
