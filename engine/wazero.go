package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
)

// WazeroEngine creates arenas backed by wazero linear memory.
type WazeroEngine struct {
	runtime  wazero.Runtime
	compiled map[uint32]wazero.CompiledModule
	limit    uint32
	mu       sync.Mutex
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages caps the memory of every arena in pages (64KB each).
	// 0 means MaxPages.
	MemoryLimitPages uint32
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	limit := uint32(MaxPages)

	if cfg != nil && cfg.MemoryLimitPages > 0 {
		if cfg.MemoryLimitPages > MaxPages {
			return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
				Value(cfg.MemoryLimitPages).
				Detail("memory limit %d pages exceeds %d", cfg.MemoryLimitPages, MaxPages).
				Build()
		}
		limit = cfg.MemoryLimitPages
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(limit)
	}

	return &WazeroEngine{
		runtime:  wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		compiled: make(map[uint32]wazero.CompiledModule),
		limit:    limit,
	}, nil
}

// Runtime returns the underlying wazero runtime.
func (e *WazeroEngine) Runtime() wazero.Runtime {
	return e.runtime
}

// Close releases the runtime and every module instantiated from it.
func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// NewArena instantiates a memory sized for chunkCount chunks carved out of
// totalMemory and creates an arena over it.
func (e *WazeroEngine) NewArena(ctx context.Context, totalMemory uint64, chunkCount uint32) (*GuestMemory, error) {
	size, err := arena.TrySizeFor(totalMemory, chunkCount)
	if err != nil {
		return nil, err
	}
	pages := pagesFor(size)
	if pages > uint64(e.limit) {
		return nil, errors.New(errors.PhaseHost, errors.KindCapacity).
			Value(size).
			Detail("arena of %d bytes needs %d pages, limit is %d", size, pages, e.limit).
			Build()
	}

	compiled, err := e.compile(ctx, uint32(pages))
	if err != nil {
		return nil, err
	}

	// anonymous for parallel instantiation
	mod, err := e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "instantiate memory module")
	}

	mem := mod.ExportedMemory(MemoryExport)
	if mem == nil {
		mod.Close(ctx)
		return nil, errors.NotFound(errors.PhaseHost, "memory export", MemoryExport)
	}

	// The arena starts at offset 0 and spans the whole memory so that
	// alignment slack past size is still addressable.
	buf, ok := mem.Read(0, mem.Size())
	if !ok {
		mod.Close(ctx)
		return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Detail("cannot view %d bytes of guest memory", mem.Size()).
			Build()
	}

	a, err := arena.TryCreate(buf, totalMemory, chunkCount)
	if err != nil {
		mod.Close(ctx)
		return nil, err
	}

	Logger().Debug("guest arena created",
		zap.Uint64("bytes", size),
		zap.Uint64("pages", pages),
		zap.Uint32("chunks", chunkCount))

	return &GuestMemory{module: mod, memory: mem, arena: a}, nil
}

func (e *WazeroEngine) compile(ctx context.Context, pages uint32) (wazero.CompiledModule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.compiled[pages]; ok {
		return c, nil
	}
	c, err := e.runtime.CompileModule(ctx, memoryModule(pages))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "compile memory module")
	}
	e.compiled[pages] = c
	return c, nil
}

// GuestMemory is an arena laid out over wasm linear memory.
type GuestMemory struct {
	module api.Module
	memory api.Memory
	arena  *arena.Arena
}

// Arena returns the arena view. It is invalid after Close.
func (g *GuestMemory) Arena() *arena.Arena {
	return g.arena
}

// Memory returns the guest memory the arena lives in.
func (g *GuestMemory) Memory() api.Memory {
	return g.memory
}

// Module returns the instantiated module that exports the memory.
func (g *GuestMemory) Module() api.Module {
	return g.module
}

// Close releases the module and its memory.
func (g *GuestMemory) Close(ctx context.Context) error {
	return g.module.Close(ctx)
}
