package wasmheap

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tetratelabs/wazero/api"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/logger"
)

// ErrMemory indicates a guest memory that cannot host the requested range.
var ErrMemory = errors.New("wasmheap: guest memory cannot hold managed range")

// Options configures a guest heap.
type Options struct {
	// Base is the guest pointer where the managed range starts. Guests
	// usually keep their stack and static data below it.
	// Default: 0
	Base uint32

	// Length is the size of the managed range. Zero selects the rest of
	// the memory at bind time. The range never grows with the memory.
	// Default: memory size - Base
	Length uint32

	// Encoding selects the block header layout.
	// Default: heap.Implicit
	Encoding heap.Encoding

	// Logger receives allocation records.
	// Default: discard
	Logger *slog.Logger
}

// Heap is a heap.Heap over guest linear memory.
//
// wazero may replace the memory's backing slice when the guest grows it, so
// every operation re-binds the heap to a fresh view once the memory size
// changes. The block chain lives in guest memory and is adopted unchanged.
//
// NOT thread-safe.
type Heap struct {
	mem    api.Memory
	base   uint32
	length uint32
	enc    heap.Encoding
	size   uint32 // memory size at last bind
	h      *heap.Heap
	log    *slog.Logger
}

// New binds a heap to mem. The range must fit the memory and keep every
// guest pointer a positive i32.
func New(mem api.Memory, opts *Options) (*Heap, error) {
	if mem == nil {
		return nil, fmt.Errorf("%w: no memory", ErrMemory)
	}
	if opts == nil {
		opts = &Options{}
	}

	size := mem.Size()
	if opts.Base > size {
		return nil, fmt.Errorf("%w: base 0x%X past memory size 0x%X", ErrMemory, opts.Base, size)
	}
	length := opts.Length
	if length == 0 {
		length = size - opts.Base
	}
	if uint64(opts.Base)+uint64(length) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: range 0x%X+0x%X overflows i32 pointers", ErrMemory, opts.Base, length)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	w := &Heap{
		mem:    mem,
		base:   opts.Base,
		length: length,
		enc:    opts.Encoding,
		log:    log.With(logger.Module("wasmheap")),
	}
	if err := w.bind(); err != nil {
		return nil, err
	}
	return w, nil
}

// Heap returns the heap bound to the current memory view.
func (w *Heap) Heap() (*heap.Heap, error) {
	if w.h != nil && w.mem.Size() == w.size {
		return w.h, nil
	}
	if err := w.bind(); err != nil {
		return nil, err
	}
	return w.h, nil
}

func (w *Heap) bind() error {
	size := w.mem.Size()
	view, ok := w.mem.Read(0, size)
	if !ok {
		return fmt.Errorf("%w: cannot view 0x%X bytes", ErrMemory, size)
	}
	h, err := heap.New(view, &heap.Options{
		ByteOffset: int(w.base),
		ByteLength: int(w.length),
		Encoding:   w.enc,
		Logger:     w.log,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMemory, err)
	}
	if w.h != nil {
		w.log.Debug("rebound heap to grown memory", logger.Size(int(size)))
	}
	w.h, w.size = h, size
	return nil
}

// Base returns the guest pointer of the managed range start.
func (w *Heap) Base() uint32 { return w.base }

// Pointer converts a heap address to a guest pointer. NoAddress maps to 0.
func (w *Heap) Pointer(addr heap.Address) uint32 {
	if addr == heap.NoAddress {
		return 0
	}
	return w.base + addr
}

// Address converts a guest pointer to a heap address. ok is false for
// pointers below the managed range.
func (w *Heap) Address(ptr uint32) (heap.Address, bool) {
	if ptr < w.base {
		return heap.NoAddress, false
	}
	return ptr - w.base, true
}

// Malloc allocates n bytes and returns the guest pointer of the data span,
// or 0 when the range is exhausted.
func (w *Heap) Malloc(n uint32) (uint32, error) {
	h, err := w.Heap()
	if err != nil {
		return 0, err
	}
	addr, err := h.Allocate(int(n))
	if err != nil {
		return 0, err
	}
	return w.Pointer(addr), nil
}

// Free releases the block whose data starts at guest pointer ptr.
func (w *Heap) Free(ptr uint32) error {
	addr, ok := w.Address(ptr)
	if !ok {
		return fmt.Errorf("pointer 0x%X below base 0x%X: %w", ptr, w.base, heap.ErrInvalidAddress)
	}
	h, err := w.Heap()
	if err != nil {
		return err
	}
	return h.Free(addr)
}
