package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	resetFlags(t)
	runFile = filepath.Join(t.TempDir(), "heap.bin")
	heapSize = 256
	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{writeScript(t, "alloc 4 a", "alloc 8", "free $a")})
	})
	require.NoError(t, err)

	out, err := captureOutput(t, func() error {
		return runLayout(context.Background(), []string{runFile})
	})
	require.NoError(t, err)
	assertContains(t, out,
		"range 0+256, implicit headers",
		"blocks=2 used=1 free=1",
		"OFFSET",
		"0x4",
		"0xC",
	)

	outFormat = formatJSON
	out, err = captureOutput(t, func() error {
		return runLayout(context.Background(), []string{runFile})
	})
	require.NoError(t, err)

	var s summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	require.Equal(t, 256, s.ByteLength)
	require.Equal(t, "implicit", s.Encoding)
	require.Len(t, s.Blocks, 2)
	require.False(t, s.Blocks[0].Used)
	require.True(t, s.Blocks[1].Used)
	require.Equal(t, 20, s.Stats.Tail)
}

func TestLayout_CorruptFile(t *testing.T) {
	resetFlags(t)
	runFile = filepath.Join(t.TempDir(), "heap.bin")
	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{writeScript(t, "alloc 4")})
	})
	require.NoError(t, err)

	// Reading an implicit heap with explicit headers lands mid-block.
	encodingName = "explicit"
	_, err = captureOutput(t, func() error {
		return runLayout(context.Background(), []string{runFile})
	})
	require.Error(t, err)
}

func TestLayout_MissingFile(t *testing.T) {
	resetFlags(t)
	err := runLayout(context.Background(), []string{filepath.Join(t.TempDir(), "none.bin")})
	require.Error(t, err)
}
