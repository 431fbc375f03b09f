package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentOutContent(t *testing.T) {
	tbl := []struct {
		name, in, want string
	}{
		{"plain", "a = 1\nb = 2", "# a = 1\n# b = 2"},
		{"keeps comments and blanks", "# c\n\na = 1", "# c\n\n# a = 1"},
		{"crlf", "a = 1\r\nb = 2\r\n", "# a = 1\n# b = 2\n"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commentOutContent(tt.in))
		})
	}
}

func TestShouldOverwrite(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, shouldOverwrite(filepath.Join(dir, "missing")))

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	assert.True(t, shouldOverwrite(empty))

	commented := filepath.Join(dir, "commented")
	require.NoError(t, os.WriteFile(commented, []byte("# prober = auto\n"), 0o600))
	assert.True(t, shouldOverwrite(commented))

	active := filepath.Join(dir, "active")
	require.NoError(t, os.WriteFile(active, []byte("prober = lsof\n"), 0o600))
	assert.False(t, shouldOverwrite(active))
}

func TestDefaultsInstaller_Install(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deadlock")
	d := newDefaultsInstaller(defaultsFS)
	require.NoError(t, d.Install(dir))

	data, err := os.ReadFile(filepath.Join(dir, "config")) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(stripComments(string(data))), "installed template has no active settings")

	// an active user setting survives reinstall
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config"), []byte("prober = none\n"), 0o600))
	require.NoError(t, d.Install(dir))
	data, err = os.ReadFile(filepath.Join(dir, "config")) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "prober = none\n", string(data))
}

func TestDumpDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, DumpDefaults(dir))
	data, err := os.ReadFile(filepath.Join(dir, "config")) //nolint:gosec // test path
	require.NoError(t, err)
	embedded, err := defaultsFS.ReadFile("defaults/config")
	require.NoError(t, err)
	assert.Equal(t, string(embedded), string(data))
}
