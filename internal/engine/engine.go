// Package engine provides the core business logic of the rpgedit backend.
//
// The engine package is the orchestration layer between the frontend
// transports (bridge, CLI) and the lower-level components. It runs the
// open flows that start with a picker dialog and end with an event for the
// frontend, dispatches menu selections, and serves the synchronous file
// commands the frontend invokes directly.
//
// Key components:
//   - OpenWorkspace/OpenJSONFile: picker-driven open flows
//   - HandleMenu: single dispatch site for menu selections
//   - CreateIfAbsent/Write/Read: synchronous file commands
package engine

import (
	"log/slog"

	"github.com/danieljhkim/rpgedit/internal/clock"
	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/history"
	"github.com/danieljhkim/rpgedit/internal/picker"
	"github.com/danieljhkim/rpgedit/internal/workspace"
)

// Engine orchestrates all rpgedit operations.
// It is the main API surface called by the bridge and the CLI.
type Engine struct {
	fs       fsops.FS
	picker   picker.Picker
	resolver *workspace.Resolver
	emitter  events.Emitter
	reporter dialog.Reporter
	messages *dialog.Catalog
	history  history.Recorder
	logger   *slog.Logger
	clock    clock.Clock
}

// Option customizes an Engine.
type Option func(*Engine)

// WithHistory records successful opens.
func WithHistory(h history.Recorder) Option {
	return func(e *Engine) { e.history = h }
}

// WithClock sets the time source for history timestamps.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMessages sets the catalog failure messages are rendered from.
// The default is English.
func WithMessages(c *dialog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.messages = c
		}
	}
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	pk picker.Picker,
	emitter events.Emitter,
	reporter dialog.Reporter,
	opts ...Option,
) *Engine {
	e := &Engine{
		fs:       fs,
		picker:   pk,
		resolver: workspace.NewResolver(fs),
		emitter:  emitter,
		reporter: reporter,
		messages: dialog.MustCatalog("en"),
		logger:   slog.New(slog.DiscardHandler),
		clock:    clock.Real{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
