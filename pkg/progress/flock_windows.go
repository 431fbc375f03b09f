//go:build windows

package progress

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

const lockSupported = true

// lockFile acquires a non-blocking exclusive lock on the first byte of the file.
func lockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, ol); err != nil {
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return ErrLogInUse
		}
		return fmt.Errorf("lock file: %w", err)
	}
	return nil
}

// unlockFile releases the lock on the file.
func unlockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	if err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, ol); err != nil {
		return fmt.Errorf("unlock file: %w", err)
	}
	return nil
}
