package certstore

import (
	"context"
	"io/fs"
	"path/filepath"

	syserrors "github.com/princespaghetti/syscerts/internal/errors"
	"github.com/princespaghetti/syscerts/internal/trust"
)

// PathCertificates expands candidate paths into certificate file entries,
// keeping input order. Relative paths are reported to the Warner and dropped.
// Paths that cannot be stat'ed, or are neither file nor directory, are logged
// and dropped. Directories contribute every file beneath them.
func (a *Aggregator) PathCertificates(ctx context.Context, paths []string) []trust.Entry {
	entries := []trust.Entry{}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			a.logger.Debug("certificate path expansion cancelled", "error", err)
			break
		}

		if !filepath.IsAbs(p) {
			a.warner.Warn(&syserrors.OpError{
				Op:   "expand certificate path",
				Path: p,
				Err:  syserrors.ErrNotAbsolute,
			})
			continue
		}

		info, err := a.fs.Stat(p)
		if err != nil {
			a.logger.Debug(syserrors.ErrNotFound.Error(), "path", p, "error", err)
			continue
		}

		switch {
		case info.IsDir():
			entries = append(entries, a.expandDir(ctx, p)...)
		case info.Mode().IsRegular():
			entries = append(entries, trust.FromPath(p))
		default:
			a.logger.Debug(syserrors.ErrNotFound.Error(), "path", p, "mode", info.Mode().String())
		}
	}

	return entries
}

// expandDir returns every file under root. Symlinks are included when they
// resolve to regular files. Unreadable subtrees are skipped.
func (a *Aggregator) expandDir(ctx context.Context, root string) []trust.Entry {
	var files []trust.Entry

	err := a.fs.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.logger.Debug("skipping unreadable certificate path", "path", path, "error", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, err := a.fs.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, trust.FromPath(path))
		return nil
	})
	if err != nil {
		a.logger.Debug("certificate directory walk stopped", "path", root, "error", err)
	}

	return files
}
