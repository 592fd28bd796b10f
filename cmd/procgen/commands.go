package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/procgen/asm"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/linker"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
	"github.com/wippyai/procgen/runtime"
)

// BinaryExt is the extension asm gives encoded programs by default.
const BinaryExt = ".pgb"

func newRunCmd(a *app) *cobra.Command {
	var (
		objPath     string
		cborPath    string
		slot        uint32
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a program and summarise its meshes",
		Long: `Execute a text or binary program on a fresh arena and report the
mesh written to every output slot.`,
		Example: `  # Run a program and print a summary
  procgen run scene.pg

  # Export the mesh of slot 1 as Wavefront OBJ
  procgen run scene.pg --obj scene.obj --slot 1

  # Save every output slot as a CBOR snapshot
  procgen run scene.pgb --cbor scene.cbor

  # Edit parameters in a terminal UI
  procgen run scene.pg -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if !isTerminal(os.Stdout) {
					return errors.Unsupported(errors.PhaseConfig, "interactive mode requires a terminal")
				}
				return runInteractive(cmd.Context(), a, args[0])
			}

			var slotArg *uint32
			if cmd.Flags().Changed("slot") {
				slotArg = &slot
			}
			return runFile(cmd, a, args[0], runFlags{obj: objPath, cbor: cborPath, slot: slotArg})
		},
	}

	cmd.Flags().StringVar(&objPath, "obj", "", "Write one slot as a Wavefront OBJ file")
	cmd.Flags().StringVar(&cborPath, "cbor", "", "Write every output slot as a CBOR snapshot")
	cmd.Flags().Uint32Var(&slot, "slot", 0, "Slot exported by --obj (default: output of the last op)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Interactive mode with TUI")

	return cmd
}

type runFlags struct {
	slot *uint32
	obj  string
	cbor string
}

// runOutput is the JSON form of a run summary.
type runOutput struct {
	File      string       `json:"file"`
	Backing   string       `json:"backing"`
	Slots     []slotOutput `json:"slots"`
	Ops       int          `json:"ops"`
	ElapsedNS int64        `json:"elapsed_ns"`
}

type slotOutput struct {
	Min       *mesh.Vec3 `json:"min,omitempty"`
	Max       *mesh.Vec3 `json:"max,omitempty"`
	Error     string     `json:"error,omitempty"`
	Vertices  int        `json:"vertices"`
	Triangles int        `json:"triangles"`
	Slot      uint32     `json:"slot"`
	Valid     bool       `json:"valid"`
}

func runFile(cmd *cobra.Command, a *app, path string, flags runFlags) error {
	ctx := cmd.Context()

	p, err := loadProgram(path)
	if err != nil {
		return err
	}

	rt, err := a.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	res, err := rt.Run(ctx, p)
	if err != nil {
		return err
	}

	summary := summarize(path, p, res, rt.Options().Backing)
	for _, s := range summary.Slots {
		if !s.Valid {
			a.log.Warn("mesh references missing vertices",
				zap.Uint32("slot", s.Slot),
				zap.String("error", s.Error))
		}
	}

	if flags.cbor != "" {
		data, err := mesh.MarshalSnapshot(res.Snapshot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(flags.cbor, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if flags.obj != "" {
		if err := writeOBJ(a.log, flags.obj, p, res, flags.slot); err != nil {
			return err
		}
	}

	if a.jsonOutput() {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func summarize(path string, p *program.Program, res *runtime.Result, backing runtime.Backing) runOutput {
	if backing == "" {
		backing = runtime.BackingHeap
	}
	out := runOutput{
		File:      path,
		Backing:   string(backing),
		Ops:       p.Len(),
		ElapsedNS: res.Elapsed.Nanoseconds(),
		Slots:     []slotOutput{},
	}
	for _, id := range res.Slots() {
		out.Slots = append(out.Slots, describeSlot(id, res.Mesh(id)))
	}
	return out
}

func describeSlot(id uint32, m *mesh.Mesh) slotOutput {
	s := slotOutput{
		Slot:      id,
		Vertices:  len(m.Vertices),
		Triangles: len(m.Triangles),
		Valid:     true,
	}
	if lo, hi, ok := m.Bounds(); ok {
		s.Min, s.Max = &lo, &hi
	}
	if err := m.Validate(); err != nil {
		s.Valid = false
		s.Error = err.Error()
	}
	return s
}

func printSummary(w io.Writer, out runOutput) {
	styled := isTerminal(w)
	render := func(style lipgloss.Style, s string) string {
		if styled {
			return style.Render(s)
		}
		return s
	}

	fmt.Fprintf(w, "%s %d ops on %s arena in %s\n",
		render(titleStyle, out.File), out.Ops, out.Backing, time.Duration(out.ElapsedNS))
	for _, s := range out.Slots {
		fmt.Fprintf(w, "  slot %d: %s", s.Slot, slotLine(s))
		if !s.Valid {
			fmt.Fprintf(w, " %s", render(errorStyle, "invalid"))
		}
		fmt.Fprintln(w)
	}
}

func slotLine(s slotOutput) string {
	line := fmt.Sprintf("%d vertices, %d triangles", s.Vertices, s.Triangles)
	if s.Min != nil {
		line += fmt.Sprintf(", bounds (%g %g %g)..(%g %g %g)",
			s.Min.X, s.Min.Y, s.Min.Z, s.Max.X, s.Max.Y, s.Max.Z)
	}
	return line
}

func writeOBJ(log *zap.Logger, path string, p *program.Program, res *runtime.Result, slot *uint32) error {
	var id uint32
	switch {
	case slot != nil:
		id = *slot
	case p.Len() > 0:
		id = p.Instructions[p.Len()-1].Output
	default:
		return errors.InvalidInput(errors.PhaseExecute, "program has no output to export")
	}

	m := res.Mesh(id)
	if m == nil {
		return errors.NotFound(errors.PhaseExecute, "slot", fmt.Sprint(id))
	}
	if err := m.Validate(); err != nil {
		log.Warn("obj faces reference missing vertices",
			zap.String("path", path),
			zap.Uint32("slot", id),
			zap.Error(err))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create obj: %w", err)
	}
	if err := mesh.WriteOBJ(f, fmt.Sprintf("slot%d", id), m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newAsmCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "asm <file>",
		Short: "Encode a text program as binary",
		Example: `  procgen asm scene.pg
  procgen asm scene.pg -w build/scene.pgb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			data, err := asm.Assemble(string(src))
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + BinaryExt
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			a.log.Debug("assembled", zap.String("in", args[0]), zap.String("out", outPath), zap.Int("bytes", len(data)))

			if a.jsonOutput() {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"file":  outPath,
					"bytes": len(data),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "write", "w", "", "Output path (default: input with "+BinaryExt+" extension)")
	return cmd
}

func newDisasmCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file>",
		Short: "Print a program in text form",
		Long: `Print a binary or text program in the text form accepted by asm.
Instructions with op ids no operation is registered for are printed as @N.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			return program.DisassembleTo(cmd.OutOrStdout(), p)
		},
	}
}

// opOutput is the JSON form of an operation descriptor.
type opOutput struct {
	Name     string        `json:"name"`
	Params   []paramOutput `json:"params"`
	ID       uint64        `json:"id"`
	Inputs   int           `json:"inputs"`
	MinBytes int           `json:"min_param_bytes"`
	MaxBytes int           `json:"max_param_bytes"`
}

type paramOutput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

func newOpsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the registered operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []opOutput
			for _, d := range linker.NewWithDefaults().Ops() {
				fields := d.Fields()
				o := opOutput{ID: uint64(d.ID), Name: d.Name, Inputs: d.Inputs, Params: []paramOutput{}}
				o.MinBytes, o.MaxBytes = d.ParamRange()
				for i, f := range fields {
					o.Params = append(o.Params, paramOutput{
						Name:     f.Name,
						Type:     witTypeStr(f.Type),
						Optional: i >= len(fields)-d.Optional,
					})
				}
				list = append(list, o)
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput() {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			for _, o := range list {
				fmt.Fprintf(w, "%d %s inputs=%d %s\n", o.ID, o.Name, o.Inputs, formatParams(o.Params))
			}
			return nil
		},
	}
}

func formatParams(params []paramOutput) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + p.Type
		if p.Optional {
			parts[i] += "?"
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// loadProgram reads a program in either encoding. Files that are not valid
// UTF-8 text or contain a NUL byte are decoded as binary.
func loadProgram(path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return program.Decode(data)
	}
	return asm.Compile(string(data))
}
