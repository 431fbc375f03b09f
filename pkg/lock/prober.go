package lock

import (
	"context"
	"fmt"
	"path/filepath"
)

// Prober reports processes holding an open handle to a single file.
// It returns an empty result, not an error, when nothing holds the path.
type Prober interface {
	Probe(ctx context.Context, path string) ([]Holder, error)
}

// prober kinds accepted by NewProber
const (
	KindAuto   = "auto"
	KindProcFS = "procfs"
	KindLsof   = "lsof"
	KindNone   = "none"
)

// NewProber returns the prober for kind. "auto" picks the native primitive of the platform.
// lsofCmd is the lsof binary used by the lsof prober, empty means "lsof".
func NewProber(kind, lsofCmd string) (Prober, error) {
	switch kind {
	case "", KindAuto:
		return autoProber(lsofCmd), nil
	case KindProcFS:
		return newProcFS()
	case KindLsof:
		return NewLsof(lsofCmd, nil), nil
	case KindNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown prober %q", kind)
	}
}

// None is a prober for platforms without a "who holds this file" primitive, it never finds lockers.
type None struct{}

// Probe always returns no holders.
func (None) Probe(context.Context, string) ([]Holder, error) { return nil, nil }

// canonicalPath resolves symlinks so the path matches what the kernel reports for open descriptors.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
