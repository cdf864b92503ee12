// Package fsops provides the file access primitives used by rpgedit.
//
// Every read and write the editor performs goes through the FS interface so
// the open flows and the frontend commands can be exercised against fakes.
// Each call maps to a single system call sequence: no retries, no caching
// and no buffering across calls.
//
// Key features:
//   - Whole-buffer writes using temp file + rename
//   - Create-if-absent for first-run documents
//   - Testable via the FS interface
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"
)

var (
	// ErrExists is returned by CreateIfAbsent when the target path is taken.
	ErrExists = fmt.Errorf("file already exists: %w", fs.ErrExist)

	// ErrNotDir is returned by CheckDir for a path that is not a directory.
	ErrNotDir = errors.New("not a directory")

	// ErrNotRegular is returned by CheckRegular for a path that is not a
	// regular file.
	ErrNotRegular = errors.New("not a regular file")

	// ErrInvalidUTF8 is returned by ReadText for contents that are not text.
	ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the contents of path with data. Readers observe
	// either the old or the new contents, never a partial write.
	WriteFile(path string, data []byte) error

	// CreateIfAbsent writes data to path only if nothing exists there yet.
	// The existence check and the write are separate calls; a concurrent
	// writer can slip in between them.
	CreateIfAbsent(path string, data []byte) error

	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct {
	// Perm is applied to newly written files. Zero means 0644.
	Perm os.FileMode
}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{Perm: 0644}
}

func (rfs *RealFS) perm() os.FileMode {
	if rfs.Perm == 0 {
		return 0644
	}
	return rfs.Perm
}

// ReadFile reads the entire contents of a file.
func (rfs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path using temp file + rename.
// The parent directory must already exist.
func (rfs *RealFS) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	// Temp file lives next to the target so the rename stays on one device
	tmpFile, err := os.CreateTemp(dir, ".rpgedit-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, rfs.perm()); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	tmpFile = nil
	return nil
}

// CreateIfAbsent writes data to path unless something already exists there.
func (rfs *RealFS) CreateIfAbsent(path string, data []byte) error {
	exists, err := rfs.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	return rfs.WriteFile(path, data)
}

// Stat returns file info, following symlinks.
func (rfs *RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists checks if a path exists.
func (rfs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// MkdirAll creates a directory and all parent directories.
func (rfs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CheckDir returns nil when path is an existing directory. Otherwise it
// returns the Stat error, or a *fs.PathError wrapping ErrNotDir.
func CheckDir(fsys FS, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "stat", Path: path, Err: ErrNotDir}
	}
	return nil
}

// CheckRegular returns nil when path is an existing regular file. Otherwise
// it returns the Stat error, or a *fs.PathError wrapping ErrNotRegular.
func CheckRegular(fsys FS, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "stat", Path: path, Err: ErrNotRegular}
	}
	return nil
}

// IsDir reports whether path is an existing directory.
func IsDir(fsys FS, path string) bool {
	return CheckDir(fsys, path) == nil
}

// IsRegular reports whether path is an existing regular file.
func IsRegular(fsys FS, path string) bool {
	return CheckRegular(fsys, path) == nil
}

// ReadText reads path and returns its contents unchanged. Contents that are
// not valid UTF-8 are an error, since they cannot be handed to the frontend
// without replacing bytes.
func ReadText(fsys FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &fs.PathError{Op: "read", Path: path, Err: ErrInvalidUTF8}
	}
	return string(data), nil
}
