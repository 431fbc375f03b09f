//go:build !unix && !windows

package progress

import "os"

const lockSupported = false

// lockFile is a no-op where advisory locks aren't available.
func lockFile(_ *os.File) error { return nil }

func unlockFile(_ *os.File) error { return nil }
