package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgedit/internal/config"
	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/engine"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/history"
	"github.com/danieljhkim/rpgedit/internal/logging"
	"github.com/danieljhkim/rpgedit/internal/picker"
)

// app holds the wired dependencies of one command invocation.
type app struct {
	paths   *config.Paths
	cfg     *config.Config
	logger  *slog.Logger
	bus     *events.Bus
	history *history.Store
	engine  *engine.Engine
}

// loadConfig resolves paths and the effective config.
func loadConfig() (*config.Paths, *config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg, err := config.Load(paths)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = logging.LevelDebug
	}
	return paths, cfg, nil
}

// newApp creates the engine with real implementations of all dependencies.
// A non-nil pk replaces the configured picker backend.
func newApp(cmd *cobra.Command, pk picker.Picker) (*app, error) {
	paths, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Log)
	catalog, err := dialog.NewCatalog(cfg.Dialog.Locale)
	if err != nil {
		return nil, err
	}

	fs := fsops.NewRealFS()
	bus := events.NewBus(logger)
	store := history.NewStore(fs, paths.History)

	var reporter dialog.Reporter
	switch cfg.Dialog.Backend {
	case config.BackendTerminal:
		if pk == nil {
			pk = picker.Terminal{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
		}
		reporter = dialog.Terminal{Out: cmd.ErrOrStderr()}
	default:
		if pk == nil {
			pk = picker.Native{}
		}
		reporter = dialog.Native{Logger: logger}
	}

	eng := engine.New(fs, pk, bus, reporter,
		engine.WithHistory(store),
		engine.WithLogger(logger),
		engine.WithMessages(catalog),
	)

	return &app{
		paths:   paths,
		cfg:     cfg,
		logger:  logger,
		bus:     bus,
		history: store,
		engine:  eng,
	}, nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readBody returns the --body flag when set, otherwise all of stdin.
func readBody(cmd *cobra.Command, body string) (string, error) {
	if cmd.Flags().Changed("body") {
		return body, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read body from stdin: %w", err)
	}
	return string(data), nil
}
