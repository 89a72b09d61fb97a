package wasmheap

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/logger"
)

// ModuleName is the import module guests use for the heap functions.
const ModuleName = "heap"

const (
	allocFn = "alloc"
	freeFn  = "free"
)

// Status codes returned to guests.
const (
	StatusOK             int32 = 0
	StatusInvalidAddress int32 = -1
	StatusNotInUse       int32 = -2
	StatusCorrupt        int32 = -3
	StatusFailure        int32 = -4
)

// Status maps an error to the code a guest sees.
func Status(err error) int32 {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, heap.ErrInvalidAddress):
		return StatusInvalidAddress
	case errors.Is(err, heap.ErrNotInUse):
		return StatusNotInUse
	case errors.Is(err, heap.ErrCorrupt):
		return StatusCorrupt
	default:
		return StatusFailure
	}
}

// registry keeps one heap per live named guest. Anonymous guests are not
// tracked by the runtime, so their heap is re-bound on every call; the
// chain lives in guest memory and is adopted unchanged.
type registry struct {
	mu    sync.Mutex
	rt    wazero.Runtime
	opts  Options
	heaps map[api.Module]*Heap
	log   *slog.Logger
}

func newRegistry(rt wazero.Runtime, opts *Options) *registry {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &registry{
		rt:    rt,
		opts:  *opts,
		heaps: make(map[api.Module]*Heap),
		log:   log.With(logger.Module("wasmheap")),
	}
}

func (r *registry) heapFor(mod api.Module) (*Heap, error) {
	if h, ok := r.heaps[mod]; ok {
		return h, nil
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, ErrMemory
	}
	opts := r.opts
	h, err := New(mem, &opts)
	if err != nil {
		return nil, err
	}
	if !r.live(mod) {
		return h, nil
	}
	r.prune()
	r.heaps[mod] = h
	r.log.Debug("bound heap to guest", slog.String("guest", mod.Name()),
		logger.Address(h.Base()), logger.Size(int(h.length)))
	return h, nil
}

// live reports whether the runtime still lists mod under its name. Closed
// guests are removed from the runtime, as is any instance whose name was
// taken over by a newer one.
func (r *registry) live(mod api.Module) bool {
	name := mod.Name()
	return name != "" && r.rt.Module(name) == mod
}

// prune drops heaps of guests that were closed, releasing their memory.
func (r *registry) prune() {
	for mod := range r.heaps {
		if !r.live(mod) {
			delete(r.heaps, mod)
			r.log.Debug("released heap of closed guest", slog.String("guest", mod.Name()))
		}
	}
}

// HostModule instantiates the "heap" host module in rt. Each guest that
// calls it gets its own heap over its own memory, configured by opts.
// Heaps of closed guests are released when the next guest binds.
func HostModule(ctx context.Context, rt wazero.Runtime, opts *Options) (api.Module, error) {
	return newRegistry(rt, opts).instantiate(ctx)
}

func (r *registry) instantiate(ctx context.Context) (api.Module, error) {
	return r.rt.NewHostModuleBuilder(ModuleName).
		NewFunctionBuilder().WithGoModuleFunction(r.alloc(), []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).Export(allocFn).
		NewFunctionBuilder().WithGoModuleFunction(r.free(), []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).Export(freeFn).
		Instantiate(ctx)
}

func (r *registry) alloc() api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		n := api.DecodeI32(stack[0])
		if n < 0 {
			n = 0
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		h, err := r.heapFor(mod)
		if err != nil {
			r.log.WarnContext(ctx, "alloc failed", logger.Error(err))
			stack[0] = api.EncodeI32(Status(err))
			return
		}
		ptr, err := h.Malloc(uint32(n))
		if err != nil {
			r.log.WarnContext(ctx, "alloc failed", logger.Size(int(n)), logger.Error(err))
			stack[0] = api.EncodeI32(Status(err))
			return
		}
		stack[0] = api.EncodeU32(ptr)
	}
}

func (r *registry) free() api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		ptr := api.DecodeU32(stack[0])

		r.mu.Lock()
		defer r.mu.Unlock()

		h, err := r.heapFor(mod)
		if err == nil {
			err = h.Free(ptr)
		}
		if err != nil {
			r.log.DebugContext(ctx, "free failed", logger.Address(ptr), logger.Error(err))
		}
		stack[0] = api.EncodeI32(Status(err))
	}
}
