// Package walker enumerates regular files under a directory tree, tolerating unreadable subtrees.
package walker

import (
	"context"
	"iter"
	"os"
	"path/filepath"
)

// Files returns a lazy sequence of absolute paths for every regular file under root.
// subdirectories are fully expanded before the files of the directory itself (post-order).
// directories that can't be listed contribute nothing, the walk continues with their siblings.
// symbolic links are neither followed nor reported.
// the sequence re-reads the filesystem on every range and stops early once ctx is done.
func Files(ctx context.Context, root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return
		}
		walkDir(ctx, abs, yield)
	}
}

// Count returns the number of files Files would yield for root right now.
func Count(ctx context.Context, root string) int {
	n := 0
	for range Files(ctx, root) {
		n++
	}
	return n
}

// walkDir yields files of dir and its subdirectories, returns false if iteration must stop.
func walkDir(ctx context.Context, dir string, yield func(string) bool) bool {
	if ctx.Err() != nil {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil && len(entries) == 0 {
		// permission denied, name too long or vanished directory, skip the whole subtree
		return true
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			if !walkDir(ctx, path, yield) {
				return false
			}
		case e.Type().IsRegular():
			files = append(files, path)
		}
	}

	for _, f := range files {
		if !yield(f) {
			return false
		}
	}
	return true
}
