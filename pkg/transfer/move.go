package transfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/umputun/deadlock/pkg/walker"
)

// moveTree moves every file under src into dst, recreating the folder structure.
// symlinks and other non-regular entries follow the files, links are moved as links.
// cancellation is checked per folder and per file, what was moved stays moved.
func (e *Engine) moveTree(ctx context.Context, src, dst string) (bool, error) {
	src, dst = trimSeparators(src), trimSeparators(dst)
	if err := checkNotInside(src, dst); err != nil {
		return false, err
	}

	// group files by containing folder, keeping walk order
	var folders []string
	byFolder := map[string][]string{}
	for f := range walker.Files(ctx, src) {
		dir := filepath.Dir(f)
		if _, seen := byFolder[dir]; !seen {
			folders = append(folders, dir)
		}
		byFolder[dir] = append(byFolder[dir], f)
	}
	if ctx.Err() != nil {
		e.log.Warn("move of %s canceled before any file was moved", src)
		return false, nil
	}

	moved := 0
	var size int64
	for _, folder := range folders {
		if ctx.Err() != nil {
			e.log.Warn("move of %s canceled, %d files moved to %s, the rest is left in place", src, moved, dst)
			return false, nil
		}
		targetFolder := mirrorPath(folder, src, dst)
		if err := os.MkdirAll(targetFolder, folderMode(folder)); err != nil {
			return false, fmt.Errorf("create %s: %w", targetFolder, err)
		}

		for _, file := range byFolder[folder] {
			if ctx.Err() != nil {
				e.log.Warn("move of %s canceled, %d files moved to %s, the rest is left in place", src, moved, dst)
				return false, nil
			}
			targetFile := filepath.Join(targetFolder, filepath.Base(file))
			if err := removeExisting(targetFile); err != nil {
				return false, err
			}
			fi, _ := os.Stat(file)
			if err := moveFile(file, targetFile); err != nil {
				return false, err
			}
			moved++
			if fi != nil {
				size += fi.Size()
			}
		}
	}

	others, err := leftovers(src)
	if err != nil {
		return false, err
	}
	for _, entry := range others {
		if ctx.Err() != nil {
			e.log.Warn("move of %s canceled, %d files moved to %s, the rest is left in place", src, moved, dst)
			return false, nil
		}
		target := mirrorPath(entry, src, dst)
		if err := os.MkdirAll(filepath.Dir(target), folderMode(filepath.Dir(entry))); err != nil {
			return false, fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		if err := removeExisting(target); err != nil {
			return false, err
		}
		if err := moveFile(entry, target); err != nil {
			return false, err
		}
	}

	if err := os.RemoveAll(src); err != nil {
		return false, fmt.Errorf("remove moved tree %s: %w", src, err)
	}
	e.log.Print("moved %d files (%s) and %d other entries from %s to %s",
		moved, humanize.IBytes(uint64(size)), len(others), src, dst) //nolint:gosec // size is non-negative
	return true, nil
}

// leftovers returns the non-directory entries still under src once regular files are moved:
// symlinks, pipes and sockets the file walk doesn't report.
// an unreadable subtree is an error, src must not be removed with content nobody moved.
func leftovers(src string) ([]string, error) {
	var res []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("check what is left in %s: %w", src, err)
	}
	return res, nil
}

// mirrorPath maps folder under src to the same relative location under dst.
// only the leading src prefix is replaced, so names repeating the source path deeper in the tree stay intact.
func mirrorPath(folder, src, dst string) string {
	if folder == src {
		return dst
	}
	rel := strings.TrimPrefix(folder, src+string(filepath.Separator))
	return filepath.Join(dst, rel)
}

// trimSeparators removes trailing path separators and spaces, a bare root is kept as is.
func trimSeparators(p string) string {
	trimmed := strings.TrimRight(p, `/\ `)
	if trimmed == "" || strings.HasSuffix(trimmed, ":") {
		return filepath.Clean(p)
	}
	return trimmed
}

// checkNotInside refuses to move or copy a directory into itself.
func checkNotInside(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if dst == src || strings.HasPrefix(dst, src+string(filepath.Separator)) {
		return fmt.Errorf("destination %s is inside %s", dst, src)
	}
	return nil
}

// removeExisting deletes a file occupying the target path so the moved file replaces it.
func removeExisting(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check %s: %w", path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("can't replace directory %s with a file", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove existing %s: %w", path, err)
	}
	return nil
}

func folderMode(dir string) os.FileMode {
	if fi, err := os.Stat(dir); err == nil {
		return fi.Mode().Perm() | 0o700
	}
	return 0o750
}
