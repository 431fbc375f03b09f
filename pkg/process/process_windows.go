//go:build windows

package process

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// stillActive is the exit code GetExitCodeProcess reports for a running process (STILL_ACTIVE).
const stillActive = 259

// HasExited reports whether pid no longer runs.
func (c *Controller) HasExited(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid)) //nolint:gosec // pid fits uint32
	if err != nil {
		// access denied means the process exists but we lack permission
		return !errors.Is(err, windows.ERROR_ACCESS_DENIED)
	}
	defer windows.CloseHandle(h) //nolint:errcheck // nothing to do on close failure

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code != stillActive
}

// Terminate forcibly ends pid. There is no graceful stage on Windows.
// returns ErrAccessDenied if the process can't be opened for termination.
func (c *Controller) Terminate(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE|windows.SYNCHRONIZE, false, uint32(pid)) //nolint:gosec // pid fits uint32
	if err != nil {
		switch {
		case errors.Is(err, windows.ERROR_ACCESS_DENIED):
			return fmt.Errorf("open pid %d: %w", pid, ErrAccessDenied)
		case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
			return nil // already gone
		default:
			return fmt.Errorf("open pid %d: %w", pid, err)
		}
	}
	defer windows.CloseHandle(h) //nolint:errcheck // nothing to do on close failure

	if err := windows.TerminateProcess(h, 1); err != nil {
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return fmt.Errorf("terminate pid %d: %w", pid, ErrAccessDenied)
		}
		return fmt.Errorf("terminate pid %d: %w", pid, err)
	}
	return nil
}

// ExecutablePath returns the full image path of pid.
func (c *Controller) ExecutablePath(pid int) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid)) //nolint:gosec // pid fits uint32
	if err != nil {
		return "", fmt.Errorf("open pid %d: %w", pid, err)
	}
	defer windows.CloseHandle(h) //nolint:errcheck // nothing to do on close failure

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("image name of pid %d: %w", pid, err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

// RelaunchElevated starts the current executable again with the "runas" verb, which shows the UAC prompt.
// the new instance gets args and the current working directory. The caller is expected to exit afterwards.
func RelaunchElevated(_ string, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}

	quoted := make([]string, 0, len(args))
	for _, a := range args {
		quoted = append(quoted, windows.EscapeArg(a))
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, _ := windows.UTF16PtrFromString(exe)
	params, _ := windows.UTF16PtrFromString(strings.Join(quoted, " "))
	dir, _ := windows.UTF16PtrFromString(cwd)
	if err := windows.ShellExecute(0, verb, file, params, dir, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("shell execute runas: %w", err)
	}
	return nil
}
