package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	var out bytes.Buffer
	closeFn, err := Init(Options{Enabled: false, Output: &out})
	require.NoError(t, err)
	defer closeFn()

	L.Error("dropped")
	require.Zero(t, out.Len())
}

func TestInitWritesJSON(t *testing.T) {
	var out bytes.Buffer
	closeFn, err := Init(Options{Enabled: true, Output: &out, JSON: true, Level: slog.LevelDebug})
	require.NoError(t, err)
	defer closeFn()
	t.Cleanup(func() { L = Discard() })

	L.Debug("grew chain", Address(0x10), Size(6), Error(errors.New("boom")))
	line := out.String()
	require.Contains(t, line, `"msg":"grew chain"`)
	require.Contains(t, line, `"address":"0x10"`)
	require.Contains(t, line, `"size":6`)
	require.Contains(t, line, `"err":"boom"`)
}

func TestInitLogDir(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, logPrefix+"2001-01-01"+logSuffix)
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o600))

	closeFn, err := Init(Options{Enabled: true, LogDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { L = Discard() })

	L.Info("hello")
	require.NoError(t, closeFn())

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err), "stale log should be removed")
	_, err = os.Stat(unrelated)
	require.NoError(t, err)

	today := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(today)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "msg=hello"))
}
