package runtime

import (
	"bytes"
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/mesh"
	"github.com/wippyai/procgen/program"
)

const basicScript = "circle 0 [] [10000.0,10.0]\ntranslate 1 [0] [10.0,10.0,10.0,0.0f]\n"

func newRuntime(t *testing.T, opts Options) *Runtime {
	t.Helper()
	ctx := context.Background()
	rt, err := New(ctx, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })
	return rt
}

func TestRunSource(t *testing.T) {
	rt := newRuntime(t, DefaultOptions())

	res, err := rt.RunSource(context.Background(), basicScript)
	if err != nil {
		t.Fatalf("RunSource failed: %v", err)
	}
	if got := res.Slots(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("Slots() = %v, want [0 1]", got)
	}
	m := res.Mesh(1)
	if m == nil {
		t.Fatal("Mesh(1) = nil")
	}
	if m.Vertices[0] != (mesh.Vec3{X: 10, Y: 10, Z: 10}) {
		t.Errorf("centre = %+v, want (10,10,10)", m.Vertices[0])
	}
	if res.Mesh(3) != nil {
		t.Error("Mesh(3) returned a payload for an unwritten slot")
	}
}

func TestRun_BackingsAgree(t *testing.T) {
	ctx := context.Background()
	var snaps [][]byte
	for _, backing := range []Backing{BackingHeap, BackingWasm} {
		opts := DefaultOptions()
		opts.Backing = backing
		rt := newRuntime(t, opts)

		res, err := rt.RunSource(ctx, basicScript)
		if err != nil {
			t.Fatalf("%s: RunSource failed: %v", backing, err)
		}
		data, err := mesh.MarshalSnapshot(res.Snapshot)
		if err != nil {
			t.Fatalf("%s: MarshalSnapshot failed: %v", backing, err)
		}
		snaps = append(snaps, data)
	}
	if !bytes.Equal(snaps[0], snaps[1]) {
		t.Error("heap and wasm backings produced different results")
	}
}

func TestRun_SafeAndFastAgree(t *testing.T) {
	ctx := context.Background()
	var snaps [][]byte
	for _, safe := range []bool{true, false} {
		opts := DefaultOptions()
		opts.Safe = safe
		res, err := newRuntime(t, opts).RunSource(ctx, basicScript)
		if err != nil {
			t.Fatalf("safe=%v: RunSource failed: %v", safe, err)
		}
		data, _ := mesh.MarshalSnapshot(res.Snapshot)
		snaps = append(snaps, data)
	}
	if !bytes.Equal(snaps[0], snaps[1]) {
		t.Error("safe and fast mode produced different results")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		safe  bool
		phase errors.Phase
		kind  errors.Kind
	}{
		{"parse", "circle x [] []", true, errors.PhaseParse, errors.KindInvalidInput},
		{"unknown op", "@9 0 [] []", true, errors.PhaseLink, errors.KindUnknownOp},
		{"safe slot", "circle 9 [] [4,1]", true, errors.PhaseExecute, errors.KindOutOfBounds},
		{"fast slot", "circle 9 [] [4,1]", false, errors.PhaseAlloc, errors.KindOutOfBounds},
		{"safe arity", "translate 1 [] [1,1,1]", true, errors.PhaseExecute, errors.KindArity},
		{"fast arity", "translate 1 [] [1,1,1]", false, errors.PhaseExecute, errors.KindArity},
		{"segment overflow", "circle 0 [] [100000,1]", true, errors.PhaseExecute, errors.KindOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Safe = tt.safe
			_, err := newRuntime(t, opts).RunSource(context.Background(), tt.src)
			if !stderrors.Is(err, &errors.Error{Phase: tt.phase, Kind: tt.kind}) {
				t.Errorf("error = %v, want %s/%s", err, tt.phase, tt.kind)
			}
		})
	}
}

func TestRunBinary(t *testing.T) {
	rt := newRuntime(t, DefaultOptions())
	p, err := rt.Compile(basicScript)
	if err != nil {
		t.Fatal(err)
	}
	res, err := rt.RunBinary(context.Background(), program.MustEncode(p))
	if err != nil {
		t.Fatalf("RunBinary failed: %v", err)
	}
	if len(res.Slots()) != 2 {
		t.Errorf("Slots() = %v", res.Slots())
	}

	if _, err := rt.RunBinary(context.Background(), []byte{1}); err == nil {
		t.Error("RunBinary accepted a truncated program")
	}
}

func TestRun_FreshArenaPerRun(t *testing.T) {
	rt := newRuntime(t, DefaultOptions())
	ctx := context.Background()
	if _, err := rt.RunSource(ctx, "circle 2 [] [4,1]"); err != nil {
		t.Fatal(err)
	}
	res, err := rt.RunSource(ctx, "translate 0 [2] [1,1,1]")
	if err == nil {
		t.Fatalf("second run read slot 2 from the first run: %+v", res.Mesh(0))
	}
}

func TestRun_Concurrent(t *testing.T) {
	rt := newRuntime(t, DefaultOptions())
	p, err := rt.Compile(basicScript)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rt.Run(context.Background(), p); err != nil {
				t.Errorf("Run failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestNew_Invalid(t *testing.T) {
	ctx := context.Background()

	opts := DefaultOptions()
	opts.Chunks = 3
	if _, err := New(ctx, opts); err == nil {
		t.Error("New accepted indivisible memory")
	}

	opts = DefaultOptions()
	opts.Backing = "gpu"
	if _, err := New(ctx, opts); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindUnsupported}) {
		t.Errorf("New error = %v, want config/unsupported", err)
	}
}
