//go:build unix

package process

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// DefaultElevateCommand is used when no elevate command is configured.
const DefaultElevateCommand = "sudo"

// RelaunchElevated replaces the current process with "<elevateCmd> <executable> args...",
// keeping the working directory and environment. On success it never returns.
func RelaunchElevated(elevateCmd string, args []string) error {
	if elevateCmd == "" {
		elevateCmd = DefaultElevateCommand
	}
	argv, err := elevatedArgv(elevateCmd, args)
	if err != nil {
		return err
	}
	if err := unix.Exec(argv[0], argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", argv[0], err)
	}
	return nil
}

// elevatedArgv builds the argv of the elevated instance, the first element is an absolute path.
func elevatedArgv(elevateCmd string, args []string) ([]string, error) {
	helper, err := exec.LookPath(elevateCmd)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", elevateCmd, err)
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, helper, exe)
	return append(argv, args...), nil
}
