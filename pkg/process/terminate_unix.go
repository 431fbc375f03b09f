//go:build unix

package process

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/sys/unix"
)

// HasExited reports whether pid no longer runs. zombies count as exited.
func (c *Controller) HasExited(pid int) bool {
	if pid <= 0 {
		return true
	}
	err := unix.Kill(pid, 0)
	switch {
	case errors.Is(err, unix.ESRCH):
		return true
	case err != nil && !errors.Is(err, unix.EPERM):
		return true
	}
	return isZombie(pid)
}

// Terminate sends SIGTERM, gives the process GraceDelay to exit and then sends SIGKILL.
// returns ErrAccessDenied if the process belongs to another user and we lack privileges.
// a process that is already gone is not an error.
func (c *Controller) Terminate(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		switch {
		case errors.Is(err, unix.ESRCH):
			return nil
		case errors.Is(err, unix.EPERM):
			return fmt.Errorf("sigterm pid %d: %w", pid, ErrAccessDenied)
		default:
			return fmt.Errorf("sigterm pid %d: %w", pid, err)
		}
	}

	if c.waitGone(pid, c.GraceDelay) {
		return nil
	}

	// force kill if still alive
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		switch {
		case errors.Is(err, unix.ESRCH):
			return nil
		case errors.Is(err, unix.EPERM):
			return fmt.Errorf("sigkill pid %d: %w", pid, ErrAccessDenied)
		default:
			log.Printf("[process] SIGKILL failed for pid %d: %v", pid, err)
			return fmt.Errorf("sigkill pid %d: %w", pid, err)
		}
	}
	return nil
}
