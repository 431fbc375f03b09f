//go:build unix

package progress

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const lockSupported = true

// lockFile acquires a non-blocking exclusive lock on the file.
func lockFile(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil { //nolint:gosec // fd fits int
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrLogInUse
		}
		return fmt.Errorf("flock: %w", err)
	}
	return nil
}

// unlockFile releases the lock on the file.
func unlockFile(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil { //nolint:gosec // fd fits int
		return fmt.Errorf("flock unlock: %w", err)
	}
	return nil
}
