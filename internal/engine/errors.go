package engine

import (
	"errors"

	"github.com/danieljhkim/rpgedit/internal/workspace"
)

var (
	// ErrPathInvalid indicates the selected path no longer exists or has the
	// wrong type.
	ErrPathInvalid = workspace.ErrPathInvalid

	// ErrReadFailed indicates an existing file could not be read.
	ErrReadFailed = workspace.ErrReadFailed

	// ErrEmitFailed indicates the event channel to the frontend is broken.
	ErrEmitFailed = errors.New("emit failed")

	// ErrUnknownMenuItem indicates a menu value outside the defined set.
	ErrUnknownMenuItem = errors.New("unknown menu item")
)
