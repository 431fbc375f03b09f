// Package lock discovers processes holding open handles on files and folds them into a unique set.
package lock

import (
	"context"
	"fmt"
	"slices"
)

// Holder is a single probe result, a process holding an open handle to a file.
type Holder struct {
	PID  int
	Name string // informational name reported by the platform, may be empty
}

// Process identifies a locking process by value: pid plus resolved executable path.
// pid alone is not enough because pids are recycled during long scans.
type Process struct {
	PID      int
	Name     string
	ExecPath string
	Resolved bool // false if the executable path could not be determined
}

// Same reports whether p and o are the same locker.
// unresolved processes never match anything, over-reporting is preferred to merging unrelated processes.
func (p Process) Same(o Process) bool {
	return p.Resolved && o.Resolved && p.PID == o.PID && p.ExecPath == o.ExecPath
}

// String returns a short human readable description of the process.
func (p Process) String() string {
	name := p.Name
	if name == "" {
		name = "?"
	}
	if !p.Resolved {
		return fmt.Sprintf("%s (pid %d, path unknown)", name, p.PID)
	}
	return fmt.Sprintf("%s (pid %d, %s)", name, p.PID, p.ExecPath)
}

// Set is an insertion-ordered collection of unique lockers.
type Set []Process

// PIDs returns process ids in set order.
func (s Set) PIDs() []int {
	res := make([]int, 0, len(s))
	for _, p := range s {
		res = append(res, p.PID)
	}
	return res
}

// Resolver maps a process id to its executable path.
type Resolver interface {
	ExecutablePath(pid int) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(pid int) (string, error)

// ExecutablePath calls f(pid).
func (f ResolverFunc) ExecutablePath(pid int) (string, error) { return f(pid) }

// Collector folds probe results of many files into one Set.
// not safe for concurrent use.
type Collector struct {
	resolver Resolver
	set      Set
}

// NewCollector makes an empty collector resolving identities with r.
func NewCollector(r Resolver) *Collector {
	return &Collector{resolver: r}
}

// Add merges holders into the collected set, keeping the order they arrive in.
// identity of each holder is resolved once; cancellation is checked on every comparison.
func (c *Collector) Add(ctx context.Context, holders []Holder) error {
	for _, h := range holders {
		candidate := c.identify(h)
		dup := false
		for _, p := range c.set {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("collect lockers: %w", err)
			}
			if p.Same(candidate) {
				dup = true
				break
			}
		}
		if !dup {
			c.set = append(c.set, candidate)
		}
	}
	return nil
}

// Set returns a copy of the collected lockers.
func (c *Collector) Set() Set {
	return slices.Clone(c.set)
}

func (c *Collector) identify(h Holder) Process {
	p := Process{PID: h.PID, Name: h.Name}
	path, err := c.resolver.ExecutablePath(h.PID)
	if err != nil || path == "" {
		return p // best-effort locker, kept but never merged
	}
	p.ExecPath = path
	p.Resolved = true
	return p
}
