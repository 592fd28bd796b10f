package vm

import (
	"go.uber.org/zap"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/linker"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
)

// Options configures a VM.
type Options struct {
	// Logger overrides the package logger for this VM.
	Logger *zap.Logger
	// Linker resolves programs passed to ExecuteBinary. Defaults to a
	// linker with the built-in operations.
	Linker *linker.Linker
}

// VM runs programs against one arena. Not safe for concurrent use.
type VM struct {
	arena  *arena.Arena
	linker *linker.Linker
	log    *zap.Logger
}

// New creates a VM over an initialised arena.
func New(a *arena.Arena, opts Options) *VM {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &VM{
		arena:  a,
		linker: opts.Linker,
		log:    log.Named("vm"),
	}
}

// NewHeap allocates a heap buffer sized for chunkCount chunks carved out of
// totalMemory and creates a VM over it.
func NewHeap(totalMemory uint64, chunkCount uint32, opts Options) (*VM, error) {
	size, err := arena.TrySizeFor(totalMemory, chunkCount)
	if err != nil {
		return nil, err
	}
	a, err := arena.TryCreate(make([]byte, size), totalMemory, chunkCount)
	if err != nil {
		return nil, err
	}
	return New(a, opts), nil
}

// Arena returns the VM's arena.
func (v *VM) Arena() *arena.Arena {
	return v.arena
}

// Execute runs every step of l in order. Contract violations panic.
func (v *VM) Execute(l *linker.Linked) {
	debug := v.log.Core().Enabled(zap.DebugLevel)
	steps := l.Steps()
	for i := range steps {
		s := &steps[i]
		if debug {
			v.log.Debug("exec",
				zap.Int("index", i),
				zap.String("op", s.Desc.Name),
				zap.Uint32("slot", s.Output),
				zap.Uint32s("inputs", s.Inputs))
		}
		s.Desc.Func(v.arena, s.Output, s.Inputs, s.Params)
	}
}

// ExecuteSafe validates l against the arena and the operation signatures,
// then executes it. Any contract violation, including one raised inside an
// operation, is returned instead of panicking.
func (v *VM) ExecuteSafe(l *linker.Linked) (err error) {
	if err := v.Check(l); err != nil {
		return err
	}
	defer errors.RecoverAny(&err)
	v.Execute(l)
	return nil
}

// Check reports every reason l cannot run safely on this VM's arena.
func (v *VM) Check(l *linker.Linked) error {
	if err := program.Validate(l.Program(), v.arena.ChunkCount()); err != nil {
		return err
	}
	steps := l.Steps()
	for i := range steps {
		s := &steps[i]
		if err := s.Desc.Check(s.Inputs, s.Params); err != nil {
			return errors.New(errors.PhaseExecute, errors.KindArity).
				Path(opPath(i)).
				Op(s.Desc.Name).
				Cause(err).
				Detail("instruction does not match operation signature").
				Build()
		}
	}
	return nil
}

// ExecuteBinary decodes, links and safely executes an encoded program.
func (v *VM) ExecuteBinary(data []byte) error {
	l := v.linker
	if l == nil {
		l = defaultLinker()
	}
	linked, err := l.LinkBinary(data)
	if err != nil {
		return err
	}
	return v.ExecuteSafe(linked)
}

// Mesh decodes the payload in slot.
func (v *VM) Mesh(slot uint32) (*mesh.Mesh, error) {
	chunk, err := v.arena.TryGet(slot)
	if err != nil {
		return nil, err
	}
	return mesh.Decode(chunk)
}

// Snapshot decodes the payloads in slots into a snapshot.
func (v *VM) Snapshot(slots ...uint32) (*mesh.Snapshot, error) {
	s := mesh.NewSnapshot()
	for _, slot := range slots {
		m, err := v.Mesh(slot)
		if err != nil {
			return nil, err
		}
		s.Add(slot, m)
	}
	return s, nil
}
