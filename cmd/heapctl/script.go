package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/heapkit/heap"
)

// Script operations, one per line:
//
//	alloc N [NAME]     allocate N bytes, optionally binding the address to NAME
//	free A             release the block at A
//	write A TEXT...    write the rest of the line, encoded with --text-encoding
//	writehex A HEX     write raw bytes
//	read A             print the block's data span
//	stats              print a chain summary
//	layout             print every block
//	verify             check the chain
//	clear              discard every block
//
// A is a number (decimal or 0x-prefixed hex) or $NAME. Blank lines and lines
// starting with # are skipped.
const (
	opAlloc    = "alloc"
	opFree     = "free"
	opWrite    = "write"
	opWriteHex = "writehex"
	opRead     = "read"
	opStats    = "stats"
	opLayout   = "layout"
	opVerify   = "verify"
	opClear    = "clear"
)

var errSyntax = errors.New("syntax error")

// step is one parsed script line.
type step struct {
	Line int
	Op   string
	Args []string
	Text string // raw remainder for write
}

// arity is the [min, max] argument count per op; write's text is not counted.
var arity = map[string][2]int{
	opAlloc:    {1, 2},
	opFree:     {1, 1},
	opWrite:    {1, 1},
	opWriteHex: {2, 2},
	opRead:     {1, 1},
	opStats:    {0, 0},
	opLayout:   {0, 0},
	opVerify:   {0, 0},
	opClear:    {0, 0},
}

// parseScript reads every step from r. All syntax errors are reported
// together.
func parseScript(r io.Reader) ([]step, error) {
	var (
		steps []step
		errs  []error
	)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s, err := parseStep(n, line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		steps = append(steps, s)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, err)
	}
	return steps, errors.Join(errs...)
}

func parseStep(n int, line string) (step, error) {
	fields := strings.Fields(line)
	s := step{Line: n, Op: strings.ToLower(fields[0])}

	bounds, ok := arity[s.Op]
	if !ok {
		return s, fmt.Errorf("line %d: unknown operation %q: %w", n, fields[0], errSyntax)
	}

	args := fields[1:]
	if s.Op == opWrite && len(args) > 0 {
		// Keep the text's inner spacing: everything after the address.
		rest := strings.TrimSpace(line[len(fields[0]):])
		s.Text = strings.TrimSpace(rest[len(args[0]):])
		args = args[:1]
	}
	if len(args) < bounds[0] || len(args) > bounds[1] {
		return s, fmt.Errorf("line %d: %s takes %d-%d arguments, got %d: %w",
			n, s.Op, bounds[0], bounds[1], len(args), errSyntax)
	}
	s.Args = args
	return s, nil
}

// result is the outcome of one executed step.
type result struct {
	Line    int          `json:"line" yaml:"line" cbor:"line"`
	Op      string       `json:"op" yaml:"op" cbor:"op"`
	Address *uint32      `json:"address,omitempty" yaml:"address,omitempty" cbor:"address,omitempty"`
	Size    int          `json:"size,omitempty" yaml:"size,omitempty" cbor:"size,omitempty"`
	Hex     string       `json:"hex,omitempty" yaml:"hex,omitempty" cbor:"hex,omitempty"`
	Text    string       `json:"text,omitempty" yaml:"text,omitempty" cbor:"text,omitempty"`
	Stats   *heap.Stats  `json:"stats,omitempty" yaml:"stats,omitempty" cbor:"stats,omitempty"`
	Blocks  []heap.Block `json:"blocks,omitempty" yaml:"blocks,omitempty" cbor:"blocks,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
}

// session executes steps against one heap.
type session struct {
	h     *heap.Heap
	codec textCodec
	names map[string]heap.Address
}

func newSession(h *heap.Heap, codec textCodec) *session {
	return &session{h: h, codec: codec, names: make(map[string]heap.Address)}
}

func (s *session) exec(st step) (result, error) {
	res := result{Line: st.Line, Op: st.Op}
	fail := func(err error) (result, error) {
		err = fmt.Errorf("line %d: %s: %w", st.Line, st.Op, err)
		res.Error = err.Error()
		return res, err
	}

	switch st.Op {
	case opAlloc:
		n, err := strconv.Atoi(st.Args[0])
		if err != nil {
			return fail(fmt.Errorf("size %q: %w", st.Args[0], errSyntax))
		}
		addr, err := s.h.Allocate(n)
		if err != nil {
			return fail(err)
		}
		res.Address, res.Size = &addr, n
		if len(st.Args) == 2 {
			s.names[st.Args[1]] = addr
		}

	case opFree, opRead, opWrite, opWriteHex:
		addr, err := s.address(st.Args[0])
		if err != nil {
			return fail(err)
		}
		res.Address = &addr

		switch st.Op {
		case opFree:
			err = s.h.Free(addr)
		case opRead:
			err = s.read(addr, &res)
		case opWrite:
			var p []byte
			if p, err = s.codec.encode(st.Text); err == nil {
				res.Size = len(p)
				err = s.h.Write(addr, p)
			}
		case opWriteHex:
			var p []byte
			if p, err = hex.DecodeString(st.Args[1]); err != nil {
				err = fmt.Errorf("hex %q: %w", st.Args[1], errSyntax)
			} else {
				res.Size = len(p)
				err = s.h.Write(addr, p)
			}
		}
		if err != nil {
			return fail(err)
		}

	case opStats:
		stats, err := s.h.Stats()
		if err != nil {
			return fail(err)
		}
		res.Stats = &stats

	case opLayout:
		blocks, err := s.h.Layout()
		if err != nil {
			return fail(err)
		}
		res.Blocks = blocks

	case opVerify:
		if err := s.h.Verify(); err != nil {
			return fail(err)
		}

	case opClear:
		s.h.Clear()
		clear(s.names)
	}
	return res, nil
}

func (s *session) read(addr heap.Address, res *result) error {
	data, err := s.h.Read(addr)
	if err != nil {
		return err
	}
	res.Size = len(data)
	res.Hex = hex.EncodeToString(data)
	res.Text, err = s.codec.decode(data)
	return err
}

// address resolves a numeric or $NAME address argument.
func (s *session) address(arg string) (heap.Address, error) {
	if name, ok := strings.CutPrefix(arg, "$"); ok {
		addr, ok := s.names[name]
		if !ok {
			return heap.NoAddress, fmt.Errorf("unbound name %q: %w", name, errSyntax)
		}
		return addr, nil
	}
	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return heap.NoAddress, fmt.Errorf("address %q: %w", arg, errSyntax)
	}
	return heap.Address(v), nil
}
