// Package certstore gathers trusted certificate material from the host trust
// store and configured filesystem paths.
package certstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts file system operations for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	Rename(oldpath, newpath string) error
	Stat(path string) (fs.FileInfo, error)
	WalkDir(root string, fn fs.WalkDirFunc) error
}

// OSFileSystem is the production implementation of FileSystem.
type OSFileSystem struct{}

// ReadFile reads the file at the given path.
func (fs *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to the file at the given path.
func (fs *OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// MkdirAll creates a directory and all parent directories.
func (fs *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes the file or directory at the given path.
func (fs *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Rename renames (moves) oldpath to newpath.
// This operation is atomic on POSIX systems.
func (fs *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Stat returns file info for the given path, following symlinks.
func (fs *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// WalkDir walks the tree rooted at root in lexical order.
// A trailing separator is added so a root that is itself a symlink to a
// directory is descended into rather than reported as a single entry.
func (fs *OSFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return filepath.WalkDir(root, fn)
}

// PathSource supplies the configured certificate paths at call time.
// ok is false when nothing is configured.
type PathSource interface {
	CertificatePaths() (paths []string, ok bool)
}

// PathsFunc adapts a function to PathSource.
type PathsFunc func() ([]string, bool)

// CertificatePaths calls f.
func (f PathsFunc) CertificatePaths() ([]string, bool) {
	return f()
}

// Warner surfaces user-facing warnings about configuration problems.
type Warner interface {
	Warn(err error)
}

// WarnFunc adapts a function to Warner.
type WarnFunc func(err error)

// Warn calls f(err).
func (f WarnFunc) Warn(err error) {
	f(err)
}
