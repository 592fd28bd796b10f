package runtime

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/asm"
	"github.com/wippyai/procgen/engine"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/linker"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
	"github.com/wippyai/procgen/vm"
)

// Backing selects where arenas live.
type Backing string

const (
	BackingHeap Backing = "heap"
	BackingWasm Backing = "wasm"
)

// Options configures a Runtime.
type Options struct {
	Logger  *zap.Logger
	Linker  *linker.Linker
	Backing Backing
	// Memory is the total chunk memory of every arena in bytes.
	Memory uint64
	// MemoryLimitPages caps wasm-backed arenas. 0 means no extra limit.
	MemoryLimitPages uint32
	// Chunks is the number of slots in every arena.
	Chunks uint32
	Safe   bool
}

// DefaultOptions returns a 1 MiB, 4-slot heap configuration in safe mode.
func DefaultOptions() Options {
	return Options{
		Backing: BackingHeap,
		Memory:  1 << 20,
		Chunks:  4,
		Safe:    true,
	}
}

type Runtime struct {
	engine *engine.WazeroEngine
	linker *linker.Linker
	log    *zap.Logger
	opts   Options
	mu     sync.Mutex
}

func New(ctx context.Context, opts Options) (*Runtime, error) {
	if _, err := arena.TrySizeFor(opts.Memory, opts.Chunks); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	r := &Runtime{
		linker: opts.Linker,
		log:    log,
		opts:   opts,
	}
	if r.linker == nil {
		r.linker = linker.NewWithDefaults()
	}

	switch opts.Backing {
	case BackingHeap, "":
	case BackingWasm:
		eng, err := engine.NewWazeroEngineWithConfig(ctx, &engine.Config{MemoryLimitPages: opts.MemoryLimitPages})
		if err != nil {
			return nil, err
		}
		r.engine = eng
	default:
		return nil, errors.Unsupported(errors.PhaseConfig, "backing "+string(opts.Backing))
	}
	return r, nil
}

// Close releases all runtime resources.
func (r *Runtime) Close(ctx context.Context) error {
	if r.engine != nil {
		return r.engine.Close(ctx)
	}
	return nil
}

// Options returns the configuration.
func (r *Runtime) Options() Options {
	return r.opts
}

// Linker returns the linker used for every run.
func (r *Runtime) Linker() *linker.Linker {
	return r.linker
}

// Compile parses the text authoring format.
func (r *Runtime) Compile(source string) (*program.Program, error) {
	return asm.Compile(source)
}

// Load decodes a binary program.
func (r *Runtime) Load(data []byte) (*program.Program, error) {
	return program.Decode(data)
}

// RunSource compiles and runs source.
func (r *Runtime) RunSource(ctx context.Context, source string) (*Result, error) {
	p, err := r.Compile(source)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, p)
}

// RunBinary decodes and runs an encoded program.
func (r *Runtime) RunBinary(ctx context.Context, data []byte) (*Result, error) {
	p, err := r.Load(data)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, p)
}

// Run links p, executes it on a fresh arena and decodes every output slot.
func (r *Runtime) Run(ctx context.Context, p *program.Program) (res *Result, err error) {
	linked, err := r.linker.Link(p)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, release, err := r.newArena(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	v := vm.New(a, vm.Options{Logger: r.log, Linker: r.linker})
	start := time.Now()
	if r.opts.Safe {
		err = v.ExecuteSafe(linked)
	} else {
		err = execute(v, linked)
	}
	elapsed := time.Since(start)
	if err != nil {
		r.log.Debug("run failed", zap.Error(err))
		return nil, err
	}

	snap, err := v.Snapshot(outputSlots(p)...)
	if err != nil {
		return nil, err
	}

	r.log.Debug("run complete",
		zap.Int("ops", linked.Len()),
		zap.Duration("elapsed", elapsed),
		zap.String("backing", string(r.backing())))

	return &Result{Snapshot: snap, Elapsed: elapsed}, nil
}

func execute(v *vm.VM, l *linker.Linked) (err error) {
	defer errors.RecoverAny(&err)
	v.Execute(l)
	return nil
}

func (r *Runtime) backing() Backing {
	if r.engine != nil {
		return BackingWasm
	}
	return BackingHeap
}

func (r *Runtime) newArena(ctx context.Context) (*arena.Arena, func(), error) {
	if r.engine != nil {
		g, err := r.engine.NewArena(ctx, r.opts.Memory, r.opts.Chunks)
		if err != nil {
			return nil, nil, err
		}
		return g.Arena(), func() { g.Close(ctx) }, nil
	}

	size, err := arena.TrySizeFor(r.opts.Memory, r.opts.Chunks)
	if err != nil {
		return nil, nil, err
	}
	a, err := arena.TryCreate(make([]byte, size), r.opts.Memory, r.opts.Chunks)
	if err != nil {
		return nil, nil, err
	}
	return a, func() {}, nil
}

func outputSlots(p *program.Program) []uint32 {
	seen := make(map[uint32]struct{}, p.Len())
	var out []uint32
	for _, ins := range p.Instructions {
		if _, ok := seen[ins.Output]; ok {
			continue
		}
		seen[ins.Output] = struct{}{}
		out = append(out, ins.Output)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Result holds the decoded payload of every slot a run wrote.
type Result struct {
	Snapshot *mesh.Snapshot
	Elapsed  time.Duration
}

// Mesh returns the payload of slot, or nil if the run did not write it.
func (r *Result) Mesh(slot uint32) *mesh.Mesh {
	return r.Snapshot.Slots[slot]
}

// Slots returns the written slots in ascending order.
func (r *Result) Slots() []uint32 {
	return r.Snapshot.SlotIDs()
}
