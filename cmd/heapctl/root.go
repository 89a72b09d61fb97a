package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/region"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	quiet        bool
	outFormat    string
	logDir       string
	logLevel     string
	logJSON      bool
	heapSize     int
	heapOffset   int
	heapLength   int
	encodingName string
	textEncoding string

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Run allocation scripts against a heap and inspect block layouts",
	Long: `heapctl drives a first-fit free-list heap inside a fixed byte buffer.
The buffer is either anonymous memory or a memory-mapped file, so a heap
written by one run can be inspected or extended by the next.

Every flag can also come from a YAML config file (--config) or from an
environment variable named HEAPCTL_<FLAG>, e.g. HEAPCTL_TEXT_ENCODING.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		if err := initializeConfig(cmd); err != nil {
			errs = append(errs, fmt.Errorf("reading configuration: %w", err))
		}
		if err := initLogger(); err != nil {
			errs = append(errs, fmt.Errorf("initializing logger: %w", err))
		}
		if err := checkFormat(outFormat); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, keyConfig, "", "YAML config file supplying flag values")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log heap activity to stderr")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.StringVarP(&outFormat, "format", "o", formatText, "Output format: text, json, yaml or cbor")
	pf.StringVar(&logDir, "log-dir", "", "Write dated log files to this directory")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.BoolVar(&logJSON, "log-json", false, "Write log records as JSON")
	pf.IntVar(&heapSize, "size", 4096, "Buffer size in bytes")
	pf.IntVar(&heapOffset, "offset", 0, "Start of the managed range inside the buffer")
	pf.IntVar(&heapLength, "length", 0, "Size of the managed range (0: rest of the buffer)")
	pf.StringVar(&encodingName, "encoding", "implicit", "Block header encoding: implicit or explicit")
	pf.StringVar(&textEncoding, "text-encoding", "utf-8", "Payload text encoding: utf-8, utf-16le, utf-16be, latin-1 or windows-1252")
}

func execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return fmt.Errorf("log level %q: %w", logLevel, err)
	}
	opts := logger.Options{Level: level, LogDir: logDir, JSON: logJSON}
	switch {
	case logDir != "":
		opts.Enabled = true
	case verbose:
		opts.Enabled = true
		opts.Level = min(level, slog.LevelDebug)
	}

	closer, err := logger.Init(opts)
	if err != nil {
		return err
	}
	closeLog = closer
	return nil
}

// heapOptions builds heap options from the global flags.
func heapOptions(tracker dirty.DirtyTracker) (*heap.Options, error) {
	enc, err := heap.ParseEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &heap.Options{
		ByteOffset: heapOffset,
		ByteLength: heapLength,
		Encoding:   enc,
		Logger:     logger.L,
		Tracker:    tracker,
	}, nil
}

// backing is a heap plus the region it lives in.
type backing struct {
	h       *heap.Heap
	r       *region.Region
	tracker *dirty.Tracker
}

// openBacking maps path (or anonymous memory when path is empty) and binds a
// heap to it. size 0 maps an existing file at its current length.
func openBacking(path string, size int) (*backing, error) {
	ropts := &region.Options{Logger: logger.L, FullSync: runFullSync}
	var (
		r   *region.Region
		err error
	)
	if path == "" {
		r, err = region.New(size, ropts)
	} else {
		r, err = region.Map(path, size, ropts)
	}
	if err != nil {
		return nil, err
	}

	b := &backing{r: r}
	if path != "" {
		b.tracker = dirty.NewTracker(0)
	}
	var tracker dirty.DirtyTracker
	if b.tracker != nil {
		tracker = b.tracker
	}
	opts, err := heapOptions(tracker)
	if err != nil {
		return nil, errors.Join(err, r.Close())
	}
	if b.h, err = heap.New(r.Bytes(), opts); err != nil {
		return nil, errors.Join(err, r.Close())
	}
	return b, nil
}

// close flushes dirty pages of a file-backed heap and releases the region.
func (b *backing) close(ctx context.Context) error {
	var err error
	if b.tracker != nil {
		err = b.r.Flush(ctx, b.tracker)
	}
	return errors.Join(err, b.r.Close())
}
