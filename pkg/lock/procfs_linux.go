//go:build linux

package lock

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/procfs"
)

// ProcFS finds holders by scanning open descriptors and executables of all visible processes in /proc.
// processes of other users are invisible without privileges and silently skipped.
type ProcFS struct {
	fs procfs.FS
}

// NewProcFS makes a prober reading the proc filesystem mounted at mountPoint.
func NewProcFS(mountPoint string) (*ProcFS, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("open procfs %s: %w", mountPoint, err)
	}
	return &ProcFS{fs: fs}, nil
}

// Probe returns processes with path open as a descriptor or running it as their executable.
func (p *ProcFS) Probe(ctx context.Context, path string) ([]Holder, error) {
	target := canonicalPath(path)

	procs, err := p.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var res []Holder
	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		if !holds(proc, target) {
			continue
		}
		name, _ := proc.Comm()
		res = append(res, Holder{PID: proc.PID, Name: name})
	}
	return res, nil
}

// holds reports whether proc has target open or executes it.
func holds(proc procfs.Proc, target string) bool {
	if exe, err := proc.Executable(); err == nil && exe == target {
		return true
	}
	targets, err := proc.FileDescriptorTargets()
	if err != nil {
		return false // process exited or belongs to another user
	}
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}

func newProcFS() (Prober, error) {
	return NewProcFS(procfs.DefaultMountPoint)
}

func autoProber(string) Prober {
	p, err := NewProcFS(procfs.DefaultMountPoint)
	if err != nil {
		log.Printf("[lock] procfs unavailable, no lock detection: %v", err)
		return None{}
	}
	return p
}
