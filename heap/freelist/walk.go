package freelist

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/internal/format"
)

// BlockIterator walks the chain in creation order without touching the
// allocator's cursor.
type BlockIterator struct {
	mem  []byte
	hdr  int
	off  int
	done bool
}

// Blocks returns an iterator positioned at the chain head.
//
//	it := fl.Blocks()
//	for {
//	    b, err := it.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
func (l *FreeList) Blocks() *BlockIterator {
	return &BlockIterator{mem: l.mem, hdr: l.cursor.HeaderSize()}
}

// Offset returns the header offset the iterator will decode next. After
// io.EOF it is the offset of the virgin tail.
func (it *BlockIterator) Offset() int { return it.off }

// Next returns the next block, io.EOF at the virgin tail, or an error wrapping
// ErrCorrupt when the chain cannot be followed.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}

	total, used, ok := format.ReadHeader(it.mem, it.off)
	if !ok || total == 0 {
		if used {
			it.done = true
			return Block{}, fmt.Errorf("block at %d: in-use flag on virgin header: %w", it.off, ErrCorrupt)
		}
		it.done = true
		return Block{}, io.EOF
	}

	size := int(total)
	switch {
	case size < it.hdr:
		it.done = true
		return Block{}, fmt.Errorf("block at %d: size %d below header %d: %w", it.off, size, it.hdr, ErrCorrupt)
	case size > len(it.mem)-it.off:
		it.done = true
		return Block{}, fmt.Errorf("block at %d: size %d runs past range end %d: %w",
			it.off, size, len(it.mem), ErrCorrupt)
	}

	b := Block{
		Offset:   it.off,
		Address:  Address(it.off + it.hdr),
		Size:     size,
		DataSize: size - it.hdr,
		Used:     used,
	}
	it.off += size
	return b, nil
}

// Stats walks the chain and summarises it.
func (l *FreeList) Stats() (Stats, error) {
	var s Stats
	it := l.Blocks()
	for {
		b, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s, err
		}
		s.Blocks++
		s.HeaderBytes += b.Size - b.DataSize
		if b.Used {
			s.UsedBlocks++
			s.UsedBytes += b.DataSize
			continue
		}
		s.FreeBlocks++
		s.FreeBytes += b.DataSize
		s.LargestFree = max(s.LargestFree, b.DataSize)
	}
	s.Tail = it.Offset()
	s.Remaining = len(l.mem) - s.Tail
	return s, nil
}

// Layout returns every block of the chain in order.
func (l *FreeList) Layout() ([]Block, error) {
	var blocks []Block
	it := l.Blocks()
	for {
		b, err := it.Next()
		if errors.Is(err, io.EOF) {
			return blocks, nil
		}
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, b)
	}
}

// Verify reports the first chain inconsistency, wrapping ErrCorrupt.
func (l *FreeList) Verify() error {
	_, err := l.Layout()
	return err
}
