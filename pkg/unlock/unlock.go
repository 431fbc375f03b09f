// Package unlock discovers every process locking a file or directory tree and terminates them.
package unlock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/umputun/deadlock/pkg/lock"
	"github.com/umputun/deadlock/pkg/process"
	"github.com/umputun/deadlock/pkg/walker"
)

// ErrNotFound is returned when the target path doesn't exist.
var ErrNotFound = errors.New("target not found")

// ErrNeedsElevation is matched by errors returned when termination was refused for lack of privilege.
var ErrNeedsElevation = errors.New("needs elevation")

// ElevationError lists processes the platform refused to terminate.
type ElevationError struct {
	PIDs []int
	Err  error // first underlying access denied error
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("%d process(es) can't be terminated without elevated privileges %v: %v", len(e.PIDs), e.PIDs, e.Err)
}

// Is makes errors.Is(err, ErrNeedsElevation) true.
func (e *ElevationError) Is(target error) bool { return target == ErrNeedsElevation }

func (e *ElevationError) Unwrap() error { return e.Err }

// Kind tells a file target from a directory target.
type Kind int

// target kinds
const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Target is a path and its kind, determined once and never re-derived during an operation.
type Target struct {
	Path string
	Kind Kind
}

// NewTarget makes a Target for path, made absolute. Returns ErrNotFound if path doesn't exist.
func NewTarget(path string) (Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Target{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Target{}, fmt.Errorf("%s: %w", abs, ErrNotFound)
		}
		return Target{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	t := Target{Path: abs, Kind: KindFile}
	if fi.IsDir() {
		t.Kind = KindDirectory
	}
	return t, nil
}

//go:generate moq -out mocks/prober.go -pkg mocks -skip-ensure -fmt goimports . Prober
//go:generate moq -out mocks/controller.go -pkg mocks -skip-ensure -fmt goimports . Controller
//go:generate moq -out mocks/logger.go -pkg mocks -skip-ensure -fmt goimports . Logger

// Prober reports processes holding a single file.
type Prober interface {
	Probe(ctx context.Context, path string) ([]lock.Holder, error)
}

// Controller inspects and terminates processes.
// Terminate must wrap process.ErrAccessDenied when refused for lack of privilege.
type Controller interface {
	ExecutablePath(pid int) (string, error)
	HasExited(pid int) bool
	Terminate(pid int) error
	WaitForExit(pid int) error
}

// Logger provides logging functionality.
type Logger interface {
	Print(format string, args ...any)
	Warn(format string, args ...any)
}

// Result describes what an Unlock did.
type Result struct {
	Lockers    lock.Set       // discovered lockers, in discovery order
	Terminated []lock.Process // terminated and confirmed gone
	Exited     []lock.Process // already gone when their turn came
	Failed     []lock.Process // termination or wait failed for a reason other than privilege
	Denied     []lock.Process // refused for lack of privilege
	Completed  bool           // false if canceled before every locker was processed
}

// Executor runs the unlock operation: discover lockers, then terminate them one by one.
type Executor struct {
	prober  Prober
	ctrl    Controller
	log     Logger
	selfPID int
}

// New makes an Executor.
func New(prober Prober, ctrl Controller, log Logger) *Executor {
	return &Executor{prober: prober, ctrl: ctrl, log: log, selfPID: os.Getpid()}
}

// Scan returns the unique lockers of target: every file under a directory, or the file itself.
// probe failures for single files are logged and count as no lockers.
// returns an error wrapping the context error if canceled; no process is touched by Scan.
func (e *Executor) Scan(ctx context.Context, t Target) (lock.Set, error) {
	collector := lock.NewCollector(e.ctrl)

	probe := func(path string) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", t.Path, err)
		}
		holders, err := e.prober.Probe(ctx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("scan %s: %w", t.Path, ctxErr)
			}
			e.log.Warn("can't probe %s, assuming no lockers: %v", path, err)
			return nil
		}
		if err := collector.Add(ctx, holders); err != nil {
			return fmt.Errorf("scan %s: %w", t.Path, err)
		}
		return nil
	}

	if t.Kind == KindFile {
		if err := probe(t.Path); err != nil {
			return nil, err
		}
		return collector.Set(), nil
	}

	for path := range walker.Files(ctx, t.Path) {
		if err := probe(path); err != nil {
			return nil, err
		}
	}
	// the walker stops silently on cancellation
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.Path, err)
	}
	return collector.Set(), nil
}

// Unlock terminates every process locking target and waits for each to exit.
// Returns ErrNotFound if target doesn't exist, and an *ElevationError (matching ErrNeedsElevation)
// if some processes could not be terminated for lack of privilege. Other termination failures are
// reported in Result.Failed and don't fail the operation.
// Cancellation is not an error: Result.Completed is false. A termination already issued always finishes.
func (e *Executor) Unlock(ctx context.Context, t Target) (Result, error) {
	if _, err := os.Stat(t.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%s: %w", t.Path, ErrNotFound)
		}
		return Result{}, fmt.Errorf("stat %s: %w", t.Path, err)
	}

	lockers, err := e.Scan(ctx, t)
	if err != nil {
		if ctx.Err() != nil {
			e.log.Print("scan of %s canceled, no process touched", t.Path)
			return Result{}, nil
		}
		return Result{}, err
	}

	res := Result{Lockers: lockers}
	var denied *ElevationError
	for _, p := range lockers {
		if ctx.Err() != nil {
			e.log.Print("unlock of %s canceled, %d of %d lockers processed", t.Path,
				len(res.Terminated)+len(res.Exited)+len(res.Failed)+len(res.Denied), len(lockers))
			return res, nil
		}
		if p.PID == e.selfPID {
			e.log.Warn("%s is the current process, not terminated", p)
			res.Failed = append(res.Failed, p)
			continue
		}
		if e.ctrl.HasExited(p.PID) {
			res.Exited = append(res.Exited, p)
			continue
		}

		if err := e.ctrl.Terminate(p.PID); err != nil {
			if errors.Is(err, process.ErrAccessDenied) {
				if denied == nil {
					denied = &ElevationError{Err: err}
				}
				denied.PIDs = append(denied.PIDs, p.PID)
				res.Denied = append(res.Denied, p)
				continue
			}
			e.log.Warn("can't terminate %s: %v", p, err)
			res.Failed = append(res.Failed, p)
			continue
		}
		if err := e.ctrl.WaitForExit(p.PID); err != nil {
			e.log.Warn("%s didn't exit: %v", p, err)
			res.Failed = append(res.Failed, p)
			continue
		}
		e.log.Print("terminated %s", p)
		res.Terminated = append(res.Terminated, p)
	}

	res.Completed = true
	if denied != nil {
		return res, denied
	}
	return res, nil
}
