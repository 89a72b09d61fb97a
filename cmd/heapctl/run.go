package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	runFile      string
	runKeepGoing bool
	runFullSync  bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVarP(&runFile, "file", "f", "", "Map this file as the buffer instead of anonymous memory")
	cmd.Flags().BoolVarP(&runKeepGoing, "keep-going", "k", false, "Continue after a failing operation")
	cmd.Flags().BoolVar(&runFullSync, "full-sync", false, "Flush --file with F_FULLFSYNC on darwin")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script|->",
		Short: "Execute an allocation script",
		Long: `The run command executes a script of heap operations, one per line:

  alloc N [NAME]    allocate N bytes, binding the address to NAME
  free A            release the block at A
  write A TEXT...   write TEXT encoded with --text-encoding
  writehex A HEX    write raw bytes
  read A            print the data span
  stats | layout | verify | clear

A is a number (decimal or 0x hex) or $NAME. Use - to read from stdin.

Example:
  heapctl run ops.txt
  heapctl run ops.txt --file heap.bin --size 65536
  echo "alloc 4" | heapctl run - -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
}

func runRun(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var src io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		src = f
	}
	steps, err := parseScript(src)
	if err != nil {
		return err
	}

	codec, err := lookupCodec(textEncoding)
	if err != nil {
		return err
	}

	b, err := openBacking(runFile, heapSize)
	if err != nil {
		return err
	}

	results, runErr := runSteps(b, codec, steps)
	closeErr := b.close(ctx)

	if !quiet {
		if err := printResults(os.Stdout, results); err != nil {
			return errors.Join(runErr, closeErr, err)
		}
	}
	return errors.Join(runErr, closeErr)
}

// runSteps executes steps in order. Without --keep-going it stops at the
// first failure; with it every failure is collected.
func runSteps(b *backing, codec textCodec, steps []step) ([]result, error) {
	s := newSession(b.h, codec)
	results := make([]result, 0, len(steps))
	var errs []error
	for _, st := range steps {
		res, err := s.exec(st)
		results = append(results, res)
		if err != nil {
			logger.L.Warn("script step failed", logger.Error(err))
			errs = append(errs, err)
			if !runKeepGoing {
				break
			}
		}
	}
	return results, errors.Join(errs...)
}

func printResults(w io.Writer, results []result) error {
	if outFormat != formatText {
		return encode(w, outFormat, results)
	}
	for _, r := range results {
		writeResult(w, r)
	}
	return nil
}
