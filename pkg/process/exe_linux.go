//go:build linux

package process

import (
	"fmt"

	"github.com/prometheus/procfs"
)

// ExecutablePath returns the resolved path of the binary pid runs.
func (c *Controller) ExecutablePath(pid int) (string, error) {
	proc, err := procfs.NewProc(pid)
	if err != nil {
		return "", fmt.Errorf("open pid %d: %w", pid, err)
	}
	exe, err := proc.Executable()
	if err != nil {
		return "", fmt.Errorf("executable of pid %d: %w", pid, err)
	}
	if exe == "" {
		return "", fmt.Errorf("executable of pid %d: kernel thread", pid)
	}
	return exe, nil
}

// isZombie reports whether pid already exited and only waits to be reaped by its parent.
func isZombie(pid int) bool {
	proc, err := procfs.NewProc(pid)
	if err != nil {
		return false
	}
	stat, err := proc.Stat()
	if err != nil {
		return false
	}
	return stat.State == "Z" || stat.State == "X"
}
