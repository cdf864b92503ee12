// Package workspace resolves a picked folder into the manifest document the
// frontend loads.
//
// A workspace is a directory holding at most one project.json manifest. A
// folder without a manifest is an uninitialized workspace and resolves to
// DefaultManifest; nothing is written to disk during resolution.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/danieljhkim/rpgedit/internal/fsops"
)

const (
	// ManifestName is the manifest file name inside a workspace folder.
	ManifestName = "project.json"

	// DefaultManifest is the body used when a workspace has no manifest yet.
	DefaultManifest = `{"maps":[]}`
)

var (
	// ErrPathInvalid indicates the picked folder is missing or not a directory.
	ErrPathInvalid = errors.New("path invalid")

	// ErrReadFailed indicates an existing manifest could not be read.
	ErrReadFailed = errors.New("read failed")
)

// PathError reports a picked path that is missing or has the wrong type. It
// matches ErrPathInvalid with errors.Is and unwraps to the Stat error.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrPathInvalid, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPathInvalid.
func (e *PathError) Is(target error) bool { return target == ErrPathInvalid }

// ReadError reports a file that exists but could not be read or decoded. It
// matches ErrReadFailed with errors.Is and unwraps to the system error.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%v: %v", ErrReadFailed, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrReadFailed.
func (e *ReadError) Is(target error) bool { return target == ErrReadFailed }

// Document is a resolved workspace: the folder and the manifest body.
type Document struct {
	// Path is the workspace folder.
	Path string `json:"path"`

	// ManifestPath is Path joined with ManifestName.
	ManifestPath string `json:"manifestPath"`

	// Body is the verbatim manifest contents, or DefaultManifest.
	Body string `json:"body"`

	// Existing is false when Body was synthesized.
	Existing bool `json:"existing"`
}

// Resolver applies the workspace resolution policy against an FS.
type Resolver struct {
	fs fsops.FS
}

// NewResolver creates a Resolver.
func NewResolver(fs fsops.FS) *Resolver {
	return &Resolver{fs: fs}
}

// ManifestPath returns the manifest location for a workspace folder.
func ManifestPath(folder string) string {
	return filepath.Join(folder, ManifestName)
}

// Resolve turns a folder into a Document. Only a manifest that does not
// exist (or is not a regular file) resolves to DefaultManifest; any other
// failure to stat, read or decode it is a *ReadError.
func (r *Resolver) Resolve(folder string) (Document, error) {
	if err := fsops.CheckDir(r.fs, folder); err != nil {
		return Document{}, &PathError{Path: folder, Err: err}
	}

	manifest := ManifestPath(folder)
	doc := Document{Path: folder, ManifestPath: manifest}

	info, err := r.fs.Stat(manifest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc.Body = DefaultManifest
		return doc, nil
	case err != nil:
		return Document{}, &ReadError{Path: manifest, Err: err}
	case !info.Mode().IsRegular():
		// A project.json that is not a regular file counts as absent
		doc.Body = DefaultManifest
		return doc, nil
	}

	body, err := fsops.ReadText(r.fs, manifest)
	if err != nil {
		return Document{}, &ReadError{Path: manifest, Err: err}
	}
	doc.Body = body
	doc.Existing = true
	return doc, nil
}

// Init writes DefaultManifest into folder unless a manifest already exists.
// It returns the manifest path.
func (r *Resolver) Init(folder string) (string, error) {
	if err := fsops.CheckDir(r.fs, folder); err != nil {
		return "", &PathError{Path: folder, Err: err}
	}
	manifest := ManifestPath(folder)
	if err := r.fs.CreateIfAbsent(manifest, []byte(DefaultManifest)); err != nil {
		return "", fmt.Errorf("failed to create manifest: %w", err)
	}
	return manifest, nil
}
