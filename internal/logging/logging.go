// Package logging builds the slog loggers used across rpgedit.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Supported levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Supported outputs.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Config controls where and how much is logged.
type Config struct {
	Level  string `yaml:"level" env:"RPGEDIT_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"RPGEDIT_LOG_FORMAT" env-default:"text"`
	Output string `yaml:"output" env:"RPGEDIT_LOG_OUTPUT" env-default:"stderr"`

	// FilePath is used when Output is "file". Empty means
	// <data root>/logs/rpgedit.log.
	FilePath string `yaml:"file_path" env:"RPGEDIT_LOG_FILE"`

	// Rotation, see lumberjack.Logger.
	MaxSize    int  `yaml:"max_size_mb" env:"RPGEDIT_LOG_MAX_SIZE" env-default:"20"`
	MaxBackups int  `yaml:"max_backups" env:"RPGEDIT_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int  `yaml:"max_age_days" env:"RPGEDIT_LOG_MAX_AGE" env-default:"14"`
	Compress   bool `yaml:"compress" env:"RPGEDIT_LOG_COMPRESS" env-default:"true"`
}

// Validate rejects values New would otherwise silently replace.
func (c Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, "":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch c.Format {
	case FormatJSON, FormatText, "":
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	switch c.Output {
	case OutputStderr, OutputFile, "":
	default:
		return fmt.Errorf("invalid log output %q", c.Output)
	}
	return nil
}

// New creates a logger for cfg. File output rotates through lumberjack;
// if the log directory cannot be created it falls back to stderr.
func New(cfg Config) *slog.Logger {
	var w io.Writer
	switch cfg.Output {
	case OutputFile:
		w = fileWriter(cfg)
	default:
		w = os.Stderr
	}
	return NewWithWriter(cfg, w)
}

func fileWriter(cfg Config) io.Writer {
	if cfg.FilePath == "" {
		fmt.Fprintln(os.Stderr, "warning: log output is file but no path is set, logging to stderr")
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot create log directory: %v, logging to stderr\n", err)
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// NewWithWriter creates a logger for cfg that writes to w.
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to slog.Level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
