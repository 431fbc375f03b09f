//go:build linux

package lock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcFS_Probe(t *testing.T) {
	p, err := NewProcFS("/proc")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "held.txt")
	f, err := os.Create(path) //nolint:gosec // test file
	require.NoError(t, err)

	holders, err := p.Probe(context.Background(), path)
	require.NoError(t, err)
	var pids []int
	for _, h := range holders {
		pids = append(pids, h.PID)
	}
	assert.Contains(t, pids, os.Getpid(), "test process holds the file")

	require.NoError(t, f.Close())
	holders, err = p.Probe(context.Background(), path)
	require.NoError(t, err)
	for _, h := range holders {
		assert.NotEqual(t, os.Getpid(), h.PID, "closed file is no longer held")
	}
}

func TestProcFS_Probe_Canceled(t *testing.T) {
	p, err := NewProcFS("/proc")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Probe(ctx, "/etc/hostname")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewProcFS_BadMount(t *testing.T) {
	_, err := NewProcFS(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
