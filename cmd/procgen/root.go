package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/procgen/config"
	"github.com/wippyai/procgen/engine"
	"github.com/wippyai/procgen/linker"
	"github.com/wippyai/procgen/runtime"
	"github.com/wippyai/procgen/vm"
)

// app carries state shared by every subcommand after the root pre-run.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "procgen",
		Short: "Procedural geometry bytecode tools",
		Long: `procgen compiles, inspects and executes programs that build triangle
meshes inside a fixed-size chunk arena.

Programs are read either in the text form

  circle 0 [] [16, 10]
  translate 1 [0] [10, 10, 10]

or in the binary encoding produced by "procgen asm".`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, used, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			log, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			setLoggers(log)

			if used != "" {
				log.Debug("using config file", zap.String("path", used))
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./procgen.yaml)")
	flags.Uint64("memory", config.DefaultMemory, "Total chunk memory per arena in bytes")
	flags.Uint32("chunks", config.DefaultChunks, "Number of slots per arena")
	flags.String("backing", config.DefaultBacking, "Arena backing (heap|wasm)")
	flags.Uint32("memory-limit-pages", 0, "Upper bound on wasm memory pages (0 for none)")
	flags.Bool("safe", true, "Validate programs before executing them")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.StringP("output", "o", config.DefaultOutput, "Output format (text|json)")

	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputText, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("backing", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(runtime.BackingHeap), string(runtime.BackingWasm)}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newAsmCmd(a))
	root.AddCommand(newDisasmCmd(a))
	root.AddCommand(newOpsCmd(a))

	return root
}

func setLoggers(log *zap.Logger) {
	linker.SetLogger(log.Named("linker"))
	vm.SetLogger(log.Named("vm"))
	engine.SetLogger(log.Named("engine"))
	runtime.SetLogger(log.Named("runtime"))
}

// newRuntime opens a runtime for the loaded configuration.
func (a *app) newRuntime(ctx context.Context) (*runtime.Runtime, error) {
	opts := a.cfg.RuntimeOptions()
	opts.Logger = a.log.Named("runtime")
	return runtime.New(ctx, opts)
}

func (a *app) jsonOutput() bool {
	return a.cfg.OutputFormat == config.OutputJSON
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
