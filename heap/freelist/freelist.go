package freelist

import (
	"encoding"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// FreeList is a first-fit allocator over a fixed managed range of a caller
// owned buffer. Blocks are chained implicitly by their sizes; freeing only
// clears a flag, and a later allocation reuses the earliest free block large
// enough before growing the chain at its tail.
//
// There is no coalescing and no splitting: a reused block keeps its original
// data size.
//
// NOT thread-safe.
type FreeList struct {
	buffer     []byte
	byteOffset int
	byteLength int
	mem        []byte

	enc    Encoding
	cursor Cursor
	dt     dirty.DirtyTracker
	log    *slog.Logger
}

// New creates a free list managing buffer[ByteOffset:ByteOffset+ByteLength].
// The buffer is not cleared: a range that already holds a chain is adopted
// as-is, and a zeroed range starts empty.
func New(buffer []byte, opts *Options) (*FreeList, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	length := opts.ByteLength
	if length == 0 {
		length = len(buffer)
	}
	if opts.ByteOffset < 0 || length < 0 || opts.ByteOffset > len(buffer) || length > len(buffer)-opts.ByteOffset {
		return nil, fmt.Errorf("offset %d + length %d over %d-byte buffer: %w",
			opts.ByteOffset, length, len(buffer), ErrInsufficientCapacity)
	}
	if length > format.MaxRangeSize {
		return nil, fmt.Errorf("length %d: %w", length, ErrAddressSpace)
	}
	if opts.Encoding != Implicit && opts.Encoding != Explicit {
		return nil, fmt.Errorf("freelist: unknown encoding %v", opts.Encoding)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	mem := buffer[opts.ByteOffset : opts.ByteOffset+length : opts.ByteOffset+length]
	return &FreeList{
		buffer:     buffer,
		byteOffset: opts.ByteOffset,
		byteLength: length,
		mem:        mem,
		enc:        opts.Encoding,
		cursor:     newCursor(opts.Encoding, mem, opts.ByteOffset, opts.Tracker),
		dt:         opts.Tracker,
		log:        log.With(logger.Module("freelist"), logger.Encoding(opts.Encoding)),
	}, nil
}

// Buffer returns the whole host buffer, not just the managed range.
func (l *FreeList) Buffer() []byte { return l.buffer }

// ByteOffset returns where the managed range starts inside Buffer().
func (l *FreeList) ByteOffset() int { return l.byteOffset }

// ByteLength returns the size of the managed range.
func (l *FreeList) ByteLength() int { return l.byteLength }

// Encoding returns the header encoding.
func (l *FreeList) Encoding() Encoding { return l.enc }

// HeaderSize returns the header width of the encoding.
func (l *FreeList) HeaderSize() int { return l.cursor.HeaderSize() }

// Allocate returns the address of an in-use block with at least n data bytes,
// zero-filled.
//
// The chain is scanned from its head for the first free block that is large
// enough (first-fit, in creation order). Without one, a new block is appended
// at the tail. When the managed range cannot hold it, Allocate returns
// NoAddress and a nil error: exhaustion is an expected outcome, not a
// failure. Every other error is returned unchanged.
func (l *FreeList) Allocate(n int) (Address, error) {
	if n < 0 {
		n = 0
	}

	c := l.cursor
	c.Reset()
	for c.Allocated() {
		if !c.Used() && c.DataSize() >= n {
			if err := c.Use(); err != nil {
				return NoAddress, err
			}
			l.log.Debug("reused free block", logger.Address(c.Address()), logger.Size(c.DataSize()))
			return c.Address(), nil
		}
		if err := c.Next(); err != nil {
			return NoAddress, err
		}
	}

	if err := c.Allocate(n); err != nil {
		if errors.Is(err, ErrOutOfMemory) {
			l.log.Debug("managed range exhausted", logger.Size(n), logger.Offset(c.Offset()))
			return NoAddress, nil
		}
		return NoAddress, err
	}
	l.log.Debug("grew block chain", logger.Address(c.Address()), logger.Size(c.DataSize()))
	return c.Address(), nil
}

// Free releases the block whose data starts at addr. Its size is kept so a
// later Allocate can reuse it.
func (l *FreeList) Free(addr Address) error {
	c := l.cursor
	if err := c.FindAddress(addr); err != nil {
		return err
	}
	return c.Free()
}

// Read returns the whole data span of the in-use block at addr. The slice
// aliases the buffer and is only meaningful until the block is freed.
func (l *FreeList) Read(addr Address) ([]byte, error) {
	c := l.cursor
	if err := c.FindAddress(addr); err != nil {
		return nil, err
	}
	return c.Data()
}

// Write copies p to the start of the in-use block at addr. Bytes of the block
// past len(p) keep their previous contents.
func (l *FreeList) Write(addr Address, p []byte) error {
	c := l.cursor
	if err := c.FindAddress(addr); err != nil {
		return err
	}
	return c.Write(p)
}

// Put writes any byte-sequence view to the block at addr: a []byte, a string
// or an encoding.BinaryMarshaler. Other values fail with ErrTypeMismatch.
func (l *FreeList) Put(addr Address, v any) error {
	c := l.cursor
	if err := c.FindAddress(addr); err != nil {
		return err
	}
	if !c.Used() {
		return fmt.Errorf("put to address 0x%X: %w", addr, ErrNotAllocated)
	}
	p, err := byteView(v)
	if err != nil {
		return err
	}
	return c.Write(p)
}

// Clear zeroes the managed range, discarding every block.
func (l *FreeList) Clear() {
	clear(l.mem)
	if l.dt != nil {
		l.dt.Add(l.byteOffset, len(l.mem))
	}
	l.cursor.Reset()
	l.log.Debug("cleared managed range", logger.Size(len(l.mem)))
}

func byteView(v any) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case encoding.BinaryMarshaler:
		p, err := v.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("freelist: marshal %T: %w", v, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%T: %w", v, ErrTypeMismatch)
	}
}
