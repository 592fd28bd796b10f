package linker

import (
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/ops"
	"github.com/wippyai/procgen/program"
)

// Options configures linker behavior.
type Options struct {
	// CheckSignatures verifies every instruction's input count and
	// parameter block size against its descriptor while linking.
	CheckSignatures bool
}

// DefaultOptions returns default linker configuration.
func DefaultOptions() Options {
	return Options{}
}

// Linker manages operation definitions and program linking.
// Thread-safe.
type Linker struct {
	ops     map[program.OpID]*ops.Descriptor
	options Options
	mu      sync.RWMutex
}

// New creates an empty Linker.
func New(opts Options) *Linker {
	return &Linker{
		ops:     make(map[program.OpID]*ops.Descriptor),
		options: opts,
	}
}

// NewWithDefaults creates a Linker with every built-in operation defined.
func NewWithDefaults() *Linker {
	l := New(DefaultOptions())
	for _, d := range ops.Defaults() {
		if err := l.Define(d); err != nil {
			panic(err)
		}
	}
	return l
}

// Options returns the configuration.
func (l *Linker) Options() Options {
	return l.options
}

// Define registers d under d.ID, replacing any earlier definition.
func (l *Linker) Define(d *ops.Descriptor) error {
	if d == nil {
		return defineError("", "nil descriptor")
	}
	if d.Func == nil {
		return defineError(d.Name, "nil func")
	}
	if d.Name == "" {
		return defineError(d.Name, "empty name")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.ops[d.ID]; ok {
		Logger().Debug("replacing operation",
			zap.Uint64("id", uint64(d.ID)),
			zap.String("old", prev.Name),
			zap.String("new", d.Name))
	}
	l.ops[d.ID] = d
	return nil
}

// Resolve returns the descriptor registered for id, or nil.
func (l *Linker) Resolve(id program.OpID) *ops.Descriptor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ops[id]
}

// Ops returns every registered descriptor in id order.
func (l *Linker) Ops() []*ops.Descriptor {
	l.mu.RLock()
	out := make([]*ops.Descriptor, 0, len(l.ops))
	for _, d := range l.ops {
		out = append(out, d)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Link resolves every instruction of p. p is not modified.
func (l *Linker) Link(p *program.Program) (*Linked, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	linked := &Linked{
		program: p,
		steps:   make([]Step, len(p.Instructions)),
	}

	var unresolved []errors.UnresolvedOp
	var checkErr error
	for i := range p.Instructions {
		ins := &p.Instructions[i]
		d, ok := l.ops[ins.Op]
		if !ok {
			unresolved = append(unresolved, errors.UnresolvedOp{Index: i, ID: uint64(ins.Op)})
			continue
		}
		if l.options.CheckSignatures {
			if err := d.Check(ins.Inputs, ins.Params); err != nil {
				checkErr = multierr.Append(checkErr, checkError(i, d.Name, err))
			}
		}
		linked.steps[i] = Step{
			Desc:   d,
			Output: ins.Output,
			Inputs: ins.Inputs,
			Params: ins.Params,
		}
	}

	if len(unresolved) > 0 {
		Logger().Debug("link failed", zap.Int("unresolved", len(unresolved)))
		return nil, &errors.UnresolvedOpsError{Ops: unresolved}
	}
	if checkErr != nil {
		return nil, checkErr
	}

	Logger().Debug("linked program", zap.Int("ops", len(linked.steps)))
	return linked, nil
}

// MustLink is like Link but panics on failure. The panic value is the
// error Link would have returned.
func (l *Linker) MustLink(p *program.Program) *Linked {
	linked, err := l.Link(p)
	if err != nil {
		panic(err)
	}
	return linked
}

// LinkBinary decodes data and links the result.
func (l *Linker) LinkBinary(data []byte) (*Linked, error) {
	p, err := program.Decode(data)
	if err != nil {
		return nil, err
	}
	return l.Link(p)
}
