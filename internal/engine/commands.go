package engine

import (
	"log/slog"

	"github.com/danieljhkim/rpgedit/internal/fsops"
)

// The commands below are invoked by the frontend, which renders its own
// error UI. They report failure in the return value and never open a dialog.

// CreateIfAbsent writes body to path only when nothing exists there.
func (e *Engine) CreateIfAbsent(path, body string) bool {
	if err := e.fs.CreateIfAbsent(path, []byte(body)); err != nil {
		e.logger.Warn("create failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	e.logger.Debug("file created", slog.String("path", path), slog.Int("bytes", len(body)))
	return true
}

// Write replaces the contents of path with body.
func (e *Engine) Write(path, body string) bool {
	if err := e.fs.WriteFile(path, []byte(body)); err != nil {
		e.logger.Warn("write failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	e.logger.Debug("file written", slog.String("path", path), slog.Int("bytes", len(body)))
	return true
}

// Read returns the contents of path, or the error text on failure.
func (e *Engine) Read(path string) ReadResult {
	body, err := fsops.ReadText(e.fs, path)
	if err != nil {
		e.logger.Warn("read failed", slog.String("path", path), slog.String("error", err.Error()))
		return ReadResult{OK: false, Content: err.Error()}
	}
	return ReadResult{OK: true, Content: body}
}

// InitWorkspace writes the default manifest into folder unless one already
// exists there, and returns the manifest path.
func (e *Engine) InitWorkspace(folder string) (string, error) {
	manifest, err := e.resolver.Init(folder)
	if err != nil {
		return "", err
	}
	e.logger.Info("workspace initialized", slog.String("manifest", manifest))
	return manifest, nil
}
