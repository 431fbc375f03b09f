// Package transfer unlocks a target and then deletes, moves or copies it.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/umputun/deadlock/pkg/unlock"
)

// Op is a user requested operation.
type Op string

// supported operations
const (
	OpUnlock Op = "unlock"
	OpDelete Op = "delete"
	OpMove   Op = "move"
	OpCopy   Op = "copy"
)

//go:generate moq -out mocks/unlocker.go -pkg mocks -skip-ensure -fmt goimports . Unlocker
//go:generate moq -out mocks/picker.go -pkg mocks -skip-ensure -fmt goimports . DestinationPicker
//go:generate moq -out mocks/logger.go -pkg mocks -skip-ensure -fmt goimports . Logger

// Unlocker releases all locks on a target.
type Unlocker interface {
	Unlock(ctx context.Context, t unlock.Target) (unlock.Result, error)
}

// DestinationPicker asks for the destination of a move or copy.
// ok is false if the user declined to pick one.
// for a file target the destination is the new file path (or an existing directory to place it in),
// for a directory target it is the directory receiving the tree's content.
type DestinationPicker interface {
	PickDestination(ctx context.Context, t unlock.Target, op Op) (dest string, ok bool, err error)
}

// Logger provides logging functionality.
type Logger interface {
	Print(format string, args ...any)
	Warn(format string, args ...any)
}

// Engine performs operations on targets, always unlocking them first.
// every operation returns completed=false with nil error when canceled or declined.
type Engine struct {
	unlocker Unlocker
	picker   DestinationPicker
	log      Logger
}

// New makes an Engine.
func New(unlocker Unlocker, picker DestinationPicker, log Logger) *Engine {
	return &Engine{unlocker: unlocker, picker: picker, log: log}
}

// Run dispatches op on target.
func (e *Engine) Run(ctx context.Context, op Op, t unlock.Target) (bool, error) {
	switch op {
	case OpUnlock:
		return e.Unlock(ctx, t)
	case OpDelete:
		return e.Delete(ctx, t)
	case OpMove:
		return e.Move(ctx, t)
	case OpCopy:
		return e.Copy(ctx, t)
	default:
		return false, fmt.Errorf("unknown operation %q", op)
	}
}

// Unlock terminates every process locking the target.
func (e *Engine) Unlock(ctx context.Context, t unlock.Target) (bool, error) {
	res, err := e.unlocker.Unlock(ctx, t)
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", t.Path, err)
	}
	if !res.Completed {
		e.log.Warn("unlock of %s canceled", t.Path)
		return false, nil
	}
	return true, nil
}

// Delete unlocks the target and removes it, recursively for directories.
func (e *Engine) Delete(ctx context.Context, t unlock.Target) (bool, error) {
	if ok, err := e.Unlock(ctx, t); !ok || err != nil {
		return false, err
	}

	remove := os.Remove
	if t.Kind == unlock.KindDirectory {
		remove = os.RemoveAll
	}
	if err := remove(t.Path); err != nil {
		return false, fmt.Errorf("delete %s: %w", t.Path, err)
	}
	e.log.Print("deleted %s %s", t.Kind, t.Path)
	return true, nil
}

// Move asks for a destination, unlocks the target and moves it there.
// a directory is moved file by file into the destination directory, mirroring its folders,
// existing destination files are replaced. The emptied source tree is removed at the end.
// Cancellation leaves already moved files at the destination and the rest at the source, nothing is rolled back.
func (e *Engine) Move(ctx context.Context, t unlock.Target) (bool, error) {
	dest, ok, err := e.destination(ctx, t, OpMove)
	if !ok || err != nil {
		return false, err
	}
	if ok, err := e.Unlock(ctx, t); !ok || err != nil {
		return false, err
	}

	if t.Kind == unlock.KindFile {
		dest = fileDestination(t.Path, dest)
		if err := moveFile(t.Path, dest); err != nil {
			return false, err
		}
		e.log.Print("moved %s to %s", t.Path, dest)
		return true, nil
	}
	return e.moveTree(ctx, t.Path, dest)
}

// Copy asks for a destination, unlocks the target and copies it there, leaving the source intact.
// cancellation stops the copy before the next file, the file in flight completes.
func (e *Engine) Copy(ctx context.Context, t unlock.Target) (bool, error) {
	dest, ok, err := e.destination(ctx, t, OpCopy)
	if !ok || err != nil {
		return false, err
	}
	if ok, err := e.Unlock(ctx, t); !ok || err != nil {
		return false, err
	}

	if t.Kind == unlock.KindFile {
		dest = fileDestination(t.Path, dest)
	} else if err := checkNotInside(t.Path, dest); err != nil {
		return false, err
	}

	opts := copy.Options{
		OnSymlink:     func(string) copy.SymlinkAction { return copy.Shallow },
		PreserveTimes: true,
		Skip: func(os.FileInfo, string, string) (bool, error) {
			return ctx.Err() != nil, nil
		},
	}
	if err := copy.Copy(t.Path, dest, opts); err != nil {
		return false, fmt.Errorf("copy %s to %s: %w", t.Path, dest, err)
	}
	if ctx.Err() != nil {
		e.log.Warn("copy of %s to %s canceled, copied files are kept", t.Path, dest)
		return false, nil
	}
	e.log.Print("copied %s %s to %s", t.Kind, t.Path, dest)
	return true, nil
}

// destination asks the picker, a declined pick is logged and reported as not ok.
func (e *Engine) destination(ctx context.Context, t unlock.Target, op Op) (string, bool, error) {
	dest, ok, err := e.picker.PickDestination(ctx, t, op)
	if err != nil {
		return "", false, fmt.Errorf("pick %s destination: %w", op, err)
	}
	if !ok || dest == "" {
		e.log.Print("no destination selected, %s of %s skipped", op, t.Path)
		return "", false, nil
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", false, fmt.Errorf("resolve destination %s: %w", dest, err)
	}
	return abs, true, nil
}

// fileDestination places the file inside dest if dest is an existing directory.
func fileDestination(src, dest string) string {
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return filepath.Join(dest, filepath.Base(src))
	}
	return dest
}

// moveFile renames src to dst, falling back to copy and remove when rename can't cross devices.
// symlinks are moved as links.
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if !crossDevice(renameErr) {
		return fmt.Errorf("move %s: %w", src, renameErr)
	}
	opts := copy.Options{PreserveTimes: true, OnSymlink: func(string) copy.SymlinkAction { return copy.Shallow }}
	if err := copy.Copy(src, dst, opts); err != nil {
		return fmt.Errorf("move %s: %w", src, errors.Join(renameErr, err))
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove moved %s: %w", src, err)
	}
	return nil
}
