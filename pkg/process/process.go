// Package process inspects and terminates OS processes by pid and relaunches the current program elevated.
package process

import (
	"errors"
	"fmt"
	"time"
)

// ErrAccessDenied is returned when the platform refuses to terminate a process for lack of privilege.
var ErrAccessDenied = errors.New("access denied")

// ErrWaitTimeout is returned when a terminated process didn't exit within the wait timeout.
var ErrWaitTimeout = errors.New("timed out waiting for process exit")

// default timings
const (
	DefaultGraceDelay   = 100 * time.Millisecond
	DefaultWaitTimeout  = 10 * time.Second
	DefaultPollInterval = 25 * time.Millisecond
)

// Controller terminates processes and waits for their exit.
// termination is graceful first (where the platform has such notion), forced after GraceDelay.
type Controller struct {
	GraceDelay   time.Duration // time between graceful and forced kill
	WaitTimeout  time.Duration // upper bound for WaitForExit
	PollInterval time.Duration // how often WaitForExit checks the process
}

// New makes a Controller, zero durations are replaced with defaults.
func New(graceDelay, waitTimeout, pollInterval time.Duration) *Controller {
	c := &Controller{GraceDelay: graceDelay, WaitTimeout: waitTimeout, PollInterval: pollInterval}
	if c.GraceDelay <= 0 {
		c.GraceDelay = DefaultGraceDelay
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// WaitForExit blocks until pid is gone or WaitTimeout passes.
// it is deliberately not cancellable, a termination already issued is allowed to finish.
func (c *Controller) WaitForExit(pid int) error {
	deadline := time.Now().Add(c.WaitTimeout)
	for !c.HasExited(pid) {
		if time.Now().After(deadline) {
			return fmt.Errorf("pid %d: %w", pid, ErrWaitTimeout)
		}
		time.Sleep(c.PollInterval)
	}
	return nil
}

// waitGone polls pid for up to d and reports whether it exited.
func (c *Controller) waitGone(pid int, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if c.HasExited(pid) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(min(c.PollInterval, d))
	}
}
