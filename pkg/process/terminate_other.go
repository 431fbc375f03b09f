//go:build !unix && !windows

package process

import (
	"errors"
	"fmt"
)

// HasExited can't inspect processes on this platform and reports every pid as gone.
func (c *Controller) HasExited(int) bool { return true }

// Terminate is not supported on this platform.
func (c *Controller) Terminate(pid int) error {
	return fmt.Errorf("terminate pid %d: %w", pid, errors.ErrUnsupported)
}

// ExecutablePath is not supported on this platform.
func (c *Controller) ExecutablePath(pid int) (string, error) {
	return "", fmt.Errorf("executable of pid %d: %w", pid, errors.ErrUnsupported)
}

// RelaunchElevated is not supported on this platform.
func RelaunchElevated(string, []string) error {
	return fmt.Errorf("relaunch elevated: %w", errors.ErrUnsupported)
}
