package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/deadlock/pkg/config"
	"github.com/umputun/deadlock/pkg/input"
	inputmocks "github.com/umputun/deadlock/pkg/input/mocks"
	"github.com/umputun/deadlock/pkg/lock"
	"github.com/umputun/deadlock/pkg/process"
	"github.com/umputun/deadlock/pkg/progress"
	"github.com/umputun/deadlock/pkg/transfer"
	transfermocks "github.com/umputun/deadlock/pkg/transfer/mocks"
	"github.com/umputun/deadlock/pkg/unlock"
	watchmocks "github.com/umputun/deadlock/pkg/watch/mocks"
)

// testColors returns a Colors instance for testing.
func testColors() *progress.Colors {
	return progress.NewColors(progress.ColorConfig{
		Info:      "0,160,255",
		Warn:      "255,192,0",
		Error:     "255,0,0",
		Timestamp: "138,138,138",
		Locker:    "255,110,199",
	})
}

// newTestRequest makes a request on path with a prober that never finds lockers.
// uses LoadReadOnly to avoid installing defaults to the real user config directory.
func newTestRequest(t *testing.T, path, action string, collector input.Collector) request {
	t.Helper()
	cfg, err := config.LoadReadOnly(t.TempDir())
	require.NoError(t, err)
	log, err := progress.NewLogger(progress.Config{NoColor: true}, testColors())
	require.NoError(t, err)
	target, err := unlock.NewTarget(path)
	require.NoError(t, err)

	executor := unlock.New(lock.None{}, process.New(10*time.Millisecond, time.Second, 10*time.Millisecond), log)
	return request{
		Target:    target,
		Action:    action,
		Config:    cfg,
		Log:       log,
		Scanner:   executor,
		Collector: collector,
		Engine:    transfer.New(executor, collector, log),
		Args:      []string{"--delete", path},
		Relaunch:  func([]string) error { return errors.New("relaunch not expected") },
	}
}

func writeTestFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))
}

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		opts    opts
		wantErr bool
		errMsg  string
	}{
		{name: "path_only_is_valid", opts: opts{Path: "x"}},
		{name: "single_action_is_valid", opts: opts{Path: "x", Delete: true}},
		{name: "move_with_dest_is_valid", opts: opts{Path: "x", Move: true, Dest: "/tmp/y"}},
		{name: "dest_without_action_is_valid", opts: opts{Path: "x", Dest: "/tmp/y"}},
		{name: "dump_defaults_needs_no_path", opts: opts{DumpDefaults: "/tmp/d"}},
		{name: "missing_path", opts: opts{Unlock: true}, wantErr: true, errMsg: "path is required"},
		{name: "two_actions", opts: opts{Path: "x", Delete: true, Move: true}, wantErr: true, errMsg: "only one of"},
		{name: "watch_and_list", opts: opts{Path: "x", Watch: true, List: true}, wantErr: true, errMsg: "only one of"},
		{name: "dest_with_delete", opts: opts{Path: "x", Delete: true, Dest: "/tmp/y"}, wantErr: true, errMsg: "--dest"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateFlags(tc.opts)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDetermineAction(t *testing.T) {
	tests := []struct {
		name        string
		opts        opts
		interactive bool
		want        string
	}{
		{name: "list", opts: opts{List: true}, interactive: true, want: actionList},
		{name: "watch", opts: opts{Watch: true}, want: actionWatch},
		{name: "unlock", opts: opts{Unlock: true}, want: "unlock"},
		{name: "delete", opts: opts{Delete: true}, want: "delete"},
		{name: "move", opts: opts{Move: true}, want: "move"},
		{name: "copy", opts: opts{Copy: true}, want: "copy"},
		{name: "no_flags_terminal", opts: opts{}, interactive: true, want: actionAsk},
		{name: "no_flags_pipe", opts: opts{}, want: actionList},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, determineAction(tc.opts, tc.interactive))
		})
	}
}

func TestPickerFor(t *testing.T) {
	collector := &inputmocks.CollectorMock{}
	assert.Same(t, collector, pickerFor(opts{}, collector))

	picker := pickerFor(opts{Dest: "/tmp/dest"}, collector)
	dest, ok, err := picker.PickDestination(t.Context(), unlock.Target{}, transfer.OpMove)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/dest", dest)
}

func TestExecute_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	writeTestFile(t, path)

	t.Run("plain", func(t *testing.T) {
		req := newTestRequest(t, path, actionList, &inputmocks.CollectorMock{})
		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
	})

	t.Run("plain_directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "tree")
		writeTestFile(t, filepath.Join(dir, "a", "x.txt"))
		req := newTestRequest(t, dir, actionList, &inputmocks.CollectorMock{})
		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.FileExists(t, filepath.Join(dir, "a", "x.txt"))
	})

	t.Run("report_on_terminal", func(t *testing.T) {
		collector := &inputmocks.CollectorMock{ShowReportFunc: func(unlock.Target, lock.Set) error { return nil }}
		req := newTestRequest(t, path, actionList, collector)
		req.Interactive = true
		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		require.Len(t, collector.ShowReportCalls(), 1)
		assert.Equal(t, path, collector.ShowReportCalls()[0].T.Path)
		assert.Empty(t, collector.ShowReportCalls()[0].Lockers)
	})

	t.Run("canceled_scan", func(t *testing.T) {
		scanner := &watchmocks.ScannerMock{ScanFunc: func(ctx context.Context, _ unlock.Target) (lock.Set, error) {
			return nil, ctx.Err()
		}}
		req := newTestRequest(t, path, actionList, &inputmocks.CollectorMock{})
		req.Scanner = scanner
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		completed, err := execute(ctx, req)
		require.NoError(t, err)
		assert.False(t, completed)
	})

	t.Run("scan_error", func(t *testing.T) {
		scanner := &watchmocks.ScannerMock{ScanFunc: func(context.Context, unlock.Target) (lock.Set, error) {
			return nil, errors.New("probe failed")
		}}
		req := newTestRequest(t, path, actionList, &inputmocks.CollectorMock{})
		req.Scanner = scanner
		_, err := execute(t.Context(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "probe failed")
	})
}

func TestExecute_DeleteConfirmation(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, path)
		collector := &inputmocks.CollectorMock{ConfirmFunc: func(context.Context, string) bool { return false }}
		req := newTestRequest(t, path, "delete", collector)

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.False(t, completed)
		assert.FileExists(t, path)
		require.Len(t, collector.ConfirmCalls(), 1)
		assert.Contains(t, collector.ConfirmCalls()[0].Prompt, path)
	})

	t.Run("accepted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, path)
		collector := &inputmocks.CollectorMock{ConfirmFunc: func(context.Context, string) bool { return true }}
		req := newTestRequest(t, path, "delete", collector)

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.NoFileExists(t, path)
	})

	t.Run("yes_skips_prompt", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "tree")
		writeTestFile(t, filepath.Join(dir, "a", "x.txt"))
		collector := &inputmocks.CollectorMock{}
		req := newTestRequest(t, dir, "delete", collector)
		req.Yes = true

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.NoDirExists(t, dir)
		assert.Empty(t, collector.ConfirmCalls())
	})

	t.Run("confirmation_disabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, path)
		req := newTestRequest(t, path, "delete", &inputmocks.CollectorMock{})
		req.Config.ConfirmDelete = false

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.NoFileExists(t, path)
	})
}

func TestExecute_Ask(t *testing.T) {
	newCollector := func(choice string, choiceErr error, dest string) *inputmocks.CollectorMock {
		return &inputmocks.CollectorMock{
			ShowReportFunc: func(unlock.Target, lock.Set) error { return nil },
			AskQuestionFunc: func(context.Context, string, []string) (string, error) {
				return choice, choiceErr
			},
			PickDestinationFunc: func(context.Context, unlock.Target, transfer.Op) (string, bool, error) {
				return dest, true, nil
			},
		}
	}

	t.Run("copy", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, src)
		dest := filepath.Join(t.TempDir(), "copy.txt")
		collector := newCollector("copy", nil, dest)
		req := newTestRequest(t, src, actionAsk, collector)
		req.Interactive = true

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.FileExists(t, src)
		assert.FileExists(t, dest)

		require.Len(t, collector.AskQuestionCalls(), 1)
		assert.Equal(t, []string{"unlock", "delete", "move", "copy", "quit"}, collector.AskQuestionCalls()[0].Options)
		require.Len(t, collector.ShowReportCalls(), 1)
	})

	t.Run("quit", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, src)
		collector := newCollector("quit", nil, "")
		req := newTestRequest(t, src, actionAsk, collector)
		req.Interactive = true

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Empty(t, collector.PickDestinationCalls())
	})

	t.Run("selection_canceled", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, src)
		req := newTestRequest(t, src, actionAsk, newCollector("", input.ErrSelectionCanceled, ""))
		req.Interactive = true

		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.False(t, completed)
	})

	t.Run("selection_error", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, src)
		req := newTestRequest(t, src, actionAsk, newCollector("", errors.New("fzf broke"), ""))
		req.Interactive = true

		_, err := execute(t.Context(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fzf broke")
	})
}

func TestExecute_Elevation(t *testing.T) {
	denied := &unlock.ElevationError{PIDs: []int{42}, Err: process.ErrAccessDenied}
	newElevationRequest := func(t *testing.T, collector input.Collector) (request, *[][]string) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "f.txt")
		writeTestFile(t, path)
		req := newTestRequest(t, path, "unlock", collector)
		unlocker := &transfermocks.UnlockerMock{UnlockFunc: func(context.Context, unlock.Target) (unlock.Result, error) {
			return unlock.Result{Denied: []lock.Process{{PID: 42}}, Completed: true}, denied
		}}
		req.Engine = transfer.New(unlocker, collector, req.Log)
		var relaunched [][]string
		req.Relaunch = func(args []string) error {
			relaunched = append(relaunched, args)
			return nil
		}
		return req, &relaunched
	}

	t.Run("elevate_flag", func(t *testing.T) {
		req, relaunched := newElevationRequest(t, &inputmocks.CollectorMock{})
		req.Elevate = true
		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		require.Len(t, *relaunched, 1)
		assert.Equal(t, req.Args, (*relaunched)[0])
	})

	t.Run("non_interactive_without_flag", func(t *testing.T) {
		req, relaunched := newElevationRequest(t, &inputmocks.CollectorMock{})
		completed, err := execute(t.Context(), req)
		require.ErrorIs(t, err, unlock.ErrNeedsElevation)
		assert.False(t, completed)
		assert.Empty(t, *relaunched)
	})

	t.Run("interactive_confirmed", func(t *testing.T) {
		collector := &inputmocks.CollectorMock{ConfirmFunc: func(context.Context, string) bool { return true }}
		req, relaunched := newElevationRequest(t, collector)
		req.Interactive = true
		completed, err := execute(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Len(t, *relaunched, 1)
	})

	t.Run("interactive_declined", func(t *testing.T) {
		collector := &inputmocks.CollectorMock{ConfirmFunc: func(context.Context, string) bool { return false }}
		req, relaunched := newElevationRequest(t, collector)
		req.Interactive = true
		_, err := execute(t.Context(), req)
		require.ErrorIs(t, err, unlock.ErrNeedsElevation)
		assert.Empty(t, *relaunched)
	})

	t.Run("relaunch_fails", func(t *testing.T) {
		req, _ := newElevationRequest(t, &inputmocks.CollectorMock{})
		req.Elevate = true
		req.Relaunch = func([]string) error { return errors.New("no sudo") }
		_, err := execute(t.Context(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no sudo")
	})
}

func TestDeniedText(t *testing.T) {
	err := fmt.Errorf("unlock x: %w", &unlock.ElevationError{PIDs: []int{42, 7}, Err: process.ErrAccessDenied})
	assert.Equal(t, "these processes can't be terminated without elevated privileges:\n- pid 42\n- pid 7\n", deniedText(err))
	assert.Equal(t, "boom", deniedText(errors.New("boom")))
}

func TestExecute_WatchTargetGone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	writeTestFile(t, path)

	scanner := &watchmocks.ScannerMock{ScanFunc: func(context.Context, unlock.Target) (lock.Set, error) {
		_ = os.Remove(path)
		return lock.Set{}, nil
	}}
	req := newTestRequest(t, path, actionWatch, &inputmocks.CollectorMock{})
	req.Scanner = scanner

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	completed, err := execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, completed)
	require.NoError(t, ctx.Err(), "watch should stop on removal, not on timeout")
	assert.Len(t, scanner.ScanCalls(), 1)
}

func TestRun_DumpDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "defaults")
	completed, err := run(t.Context(), opts{DumpDefaults: dir})
	require.NoError(t, err)
	assert.True(t, completed)

	data, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "prober")
}

func TestRun_TargetNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := run(t.Context(), opts{Path: missing, List: true, ConfigDir: t.TempDir()})
	require.ErrorIs(t, err, unlock.ErrNotFound)
}

func TestRun_ValidationError(t *testing.T) {
	_, err := run(t.Context(), opts{})
	require.Error(t, err)
}

func TestNewColors(t *testing.T) {
	cfg, err := config.LoadReadOnly(t.TempDir())
	require.NoError(t, err)
	colors := newColors(cfg)
	require.NotNil(t, colors)
	assert.NotNil(t, colors.Locker())
}
