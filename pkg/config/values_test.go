package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesLoader_parseValuesFromBytes(t *testing.T) {
	vl := newValuesLoader(defaultsFS)

	t.Run("full", func(t *testing.T) {
		data := `
prober = PROCFS
lsof_command = /usr/sbin/lsof
kill_grace_ms = 250
wait_timeout_ms = 5000
wait_poll_ms = 10
elevate_command = doas
confirm_delete = no
color_info = #102030
color_locker = #abcdef
`
		v, err := vl.parseValuesFromBytes([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, Values{
			Prober:           "procfs",
			LsofCommand:      "/usr/sbin/lsof",
			KillGraceMs:      250,
			KillGraceMsSet:   true,
			WaitTimeoutMs:    5000,
			WaitPollMs:       10,
			ElevateCommand:   "doas",
			ConfirmDelete:    false,
			ConfirmDeleteSet: true,
			Colors:           ColorConfig{Info: "16,32,48", Locker: "171,205,239"},
		}, v)
	})

	t.Run("empty", func(t *testing.T) {
		v, err := vl.parseValuesFromBytes(nil)
		require.NoError(t, err)
		assert.Equal(t, Values{}, v)
	})

	tbl := []struct {
		name, data, errContains string
	}{
		{"bad int", "kill_grace_ms = abc", "kill_grace_ms"},
		{"negative", "wait_poll_ms = -1", "must be non-negative"},
		{"bad bool", "confirm_delete = maybe", "confirm_delete"},
		{"bad color", "color_warn = red", "color_warn"},
		{"empty color", "color_error = ", "empty value"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vl.parseValuesFromBytes([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValuesLoader_parseValuesFromFile(t *testing.T) {
	vl := newValuesLoader(defaultsFS)
	dir := t.TempDir()

	v, err := vl.parseValuesFromFile(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, Values{}, v)

	v, err = vl.parseValuesFromFile("")
	require.NoError(t, err)
	assert.Equal(t, Values{}, v)

	commented := filepath.Join(dir, "commented")
	require.NoError(t, os.WriteFile(commented, []byte("# prober = lsof\n\n"), 0o600))
	v, err = vl.parseValuesFromFile(commented)
	require.NoError(t, err)
	assert.Equal(t, Values{}, v)

	active := filepath.Join(dir, "active")
	require.NoError(t, os.WriteFile(active, []byte("# note\nprober = lsof\n"), 0o600))
	v, err = vl.parseValuesFromFile(active)
	require.NoError(t, err)
	assert.Equal(t, "lsof", v.Prober)
}

func TestValues_mergeFrom(t *testing.T) {
	dst := Values{Prober: "auto", KillGraceMs: 100, KillGraceMsSet: true, WaitTimeoutMs: 10000,
		ConfirmDelete: true, ConfirmDeleteSet: true, Colors: ColorConfig{Info: "1,1,1", Warn: "2,2,2"}}

	dst.mergeFrom(&Values{})
	assert.Equal(t, "auto", dst.Prober, "empty source changes nothing")
	assert.True(t, dst.ConfirmDelete)

	dst.mergeFrom(&Values{Prober: "none", KillGraceMsSet: true, ConfirmDeleteSet: true,
		WaitPollMs: 5, Colors: ColorConfig{Warn: "3,3,3"}})
	assert.Equal(t, "none", dst.Prober)
	assert.Equal(t, 0, dst.KillGraceMs)
	assert.False(t, dst.ConfirmDelete)
	assert.Equal(t, 10000, dst.WaitTimeoutMs)
	assert.Equal(t, 5, dst.WaitPollMs)
	assert.Equal(t, ColorConfig{Info: "1,1,1", Warn: "3,3,3"}, dst.Colors)
}
