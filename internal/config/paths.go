// Package config manages rpgedit configuration and filesystem paths.
//
// The default data root is ~/.rpgedit/ containing config.yaml, the recent
// history file and rotated logs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the data root.
const RootEnv = "RPGEDIT_ROOT"

// Paths contains all the filesystem paths used by rpgedit.
type Paths struct {
	// Root is the base directory for all rpgedit data (default: ~/.rpgedit)
	Root string

	// Config is the path to the config file
	Config string

	// History is the recently opened workspaces and files
	History string

	// Logs is the directory for file log output
	Logs string
}

// DefaultPaths returns the default paths for rpgedit.
// Paths can be overridden with environment variables:
// - RPGEDIT_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".rpgedit")
	}
	return PathsAt(root), nil
}

// PathsAt lays out the paths under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:    root,
		Config:  filepath.Join(root, "config.yaml"),
		History: filepath.Join(root, "recent.json"),
		Logs:    filepath.Join(root, "logs"),
	}
}

// LogFile is the default log file used when file output has no path.
func (p *Paths) LogFile() string {
	return filepath.Join(p.Logs, "rpgedit.log")
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
