// Package engine hosts procgen arenas in WebAssembly linear memory.
//
// A WazeroEngine wraps a wazero runtime. For each arena it instantiates a
// minimal core module that only declares and exports a memory sized for the
// arena, then lays the arena out over that memory. Operations write their
// payloads straight into guest memory, where a wasm consumer instantiated in
// the same runtime can read them without a copy.
//
// # Architecture
//
//	WazeroEngine - owns the wazero runtime and a cache of compiled memory
//	               modules keyed by page count
//	GuestMemory  - one instantiated module plus the arena over its memory
//
// The memory is never grown, so the byte view the arena holds stays valid
// until the GuestMemory is closed.
//
// # Thread Safety
//
// WazeroEngine is safe for concurrent use. GuestMemory, like the arena it
// carries, must be used by a single goroutine.
package engine
