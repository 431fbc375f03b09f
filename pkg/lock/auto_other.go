//go:build !linux && !windows

package lock

import (
	"log"
	"os/exec"
)

func autoProber(lsofCmd string) Prober {
	if lsofCmd == "" {
		lsofCmd = defaultLsof
	}
	if _, err := exec.LookPath(lsofCmd); err != nil {
		log.Printf("[lock] %s not found, no lock detection: %v", lsofCmd, err)
		return None{}
	}
	return NewLsof(lsofCmd, nil)
}
