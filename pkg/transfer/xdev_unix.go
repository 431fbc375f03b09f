//go:build unix

package transfer

import (
	"errors"

	"golang.org/x/sys/unix"
)

// crossDevice reports whether a rename failed because source and destination are on different filesystems.
func crossDevice(err error) bool { return errors.Is(err, unix.EXDEV) }
