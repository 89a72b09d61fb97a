package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/heap"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatCBOR = "cbor"
)

func checkFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML, formatCBOR:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json, yaml or cbor)", f)
	}
}

// encode writes v in one of the structured formats.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatCBOR:
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return err
		}
		return em.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// writeResult prints one step in text form.
func writeResult(w io.Writer, r result) {
	prefix := fmt.Sprintf("%4d  %-8s", r.Line, r.Op)
	if r.Error != "" {
		fmt.Fprintf(w, "%s error: %s\n", prefix, r.Error)
		return
	}

	switch r.Op {
	case opAlloc:
		if *r.Address == heap.NoAddress {
			fmt.Fprintf(w, "%s %d bytes -> exhausted\n", prefix, r.Size)
			return
		}
		fmt.Fprintf(w, "%s %d bytes -> 0x%X\n", prefix, r.Size, *r.Address)
	case opFree:
		fmt.Fprintf(w, "%s 0x%X\n", prefix, *r.Address)
	case opWrite, opWriteHex:
		fmt.Fprintf(w, "%s 0x%X <- %d bytes\n", prefix, *r.Address, r.Size)
	case opRead:
		fmt.Fprintf(w, "%s 0x%X [%d] %s %q\n", prefix, *r.Address, r.Size, r.Hex, r.Text)
	case opStats:
		fmt.Fprintf(w, "%s ", prefix)
		writeStats(w, *r.Stats)
	case opLayout:
		fmt.Fprintf(w, "%s %d blocks\n", prefix, len(r.Blocks))
		writeBlocks(w, r.Blocks)
	default:
		fmt.Fprintf(w, "%s ok\n", prefix)
	}
}

func writeStats(w io.Writer, s heap.Stats) {
	fmt.Fprintf(w, "blocks=%d used=%d free=%d used_bytes=%d free_bytes=%d header_bytes=%d largest_free=%d tail=%d remaining=%d\n",
		s.Blocks, s.UsedBlocks, s.FreeBlocks, s.UsedBytes, s.FreeBytes, s.HeaderBytes, s.LargestFree, s.Tail, s.Remaining)
}

func writeBlocks(w io.Writer, blocks []heap.Block) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "OFFSET\tADDRESS\tSIZE\tDATA\tSTATE\t")
	for _, b := range blocks {
		state := "free"
		if b.Used {
			state = "used"
		}
		fmt.Fprintf(tw, "%d\t0x%X\t%d\t%d\t%s\t\n", b.Offset, b.Address, b.Size, b.DataSize, state)
	}
	tw.Flush()
}

// summary is the structured form of a heap's state.
type summary struct {
	ByteOffset int          `json:"byte_offset" yaml:"byte_offset" cbor:"byte_offset"`
	ByteLength int          `json:"byte_length" yaml:"byte_length" cbor:"byte_length"`
	Encoding   string       `json:"encoding" yaml:"encoding" cbor:"encoding"`
	Stats      heap.Stats   `json:"stats" yaml:"stats" cbor:"stats"`
	Blocks     []heap.Block `json:"blocks" yaml:"blocks" cbor:"blocks"`
}

func writeSummary(w io.Writer, s summary) {
	fmt.Fprintf(w, "range %d+%d, %s headers\n", s.ByteOffset, s.ByteLength, strings.ToLower(s.Encoding))
	writeStats(w, s.Stats)
	if len(s.Blocks) > 0 {
		writeBlocks(w, s.Blocks)
	}
}
