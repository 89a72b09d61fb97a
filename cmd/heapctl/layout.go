package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <file>",
		Short: "Print the block chain stored in a heap file",
		Long: `The layout command maps a file written by "heapctl run --file" and prints
its chain summary and every block. --offset, --length and --encoding must
match the values the heap was written with.

Example:
  heapctl layout heap.bin
  heapctl layout heap.bin --encoding explicit -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args)
		},
	}
}

func runLayout(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openBacking(args[0], 0)
	if err != nil {
		return err
	}
	// Inspection never writes, so there is nothing to flush.
	b.tracker = nil

	s := summary{
		ByteOffset: b.h.ByteOffset(),
		ByteLength: b.h.ByteLength(),
		Encoding:   b.h.Encoding().String(),
	}
	var errs []error
	if s.Stats, err = b.h.Stats(); err != nil {
		errs = append(errs, err)
	}
	if s.Blocks, err = b.h.Layout(); err != nil && len(errs) == 0 {
		errs = append(errs, err)
	}
	errs = append(errs, b.close(ctx))

	if !quiet {
		if outFormat == formatText {
			writeSummary(os.Stdout, s)
		} else if err := encode(os.Stdout, outFormat, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
