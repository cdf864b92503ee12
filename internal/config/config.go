package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/logging"
)

// Dialog backends.
const (
	BackendNative   = "native"
	BackendTerminal = "terminal"
)

// Config is the effective rpgedit configuration. Values come from
// config.yaml, then RPGEDIT_* environment variables, then defaults.
type Config struct {
	Bridge BridgeConfig   `yaml:"bridge"`
	Log    logging.Config `yaml:"log"`
	Dialog DialogConfig   `yaml:"dialog"`
}

// BridgeConfig configures the frontend WebSocket bridge.
type BridgeConfig struct {
	Addr string `yaml:"addr" env:"RPGEDIT_BRIDGE_ADDR" env-default:"127.0.0.1:1420"`

	// Token, when set, must be passed as ?token= by clients.
	Token string `yaml:"token" env:"RPGEDIT_BRIDGE_TOKEN"`

	// QueueSize bounds the events buffered per client.
	QueueSize int `yaml:"queue_size" env:"RPGEDIT_BRIDGE_QUEUE_SIZE" env-default:"64"`
}

// DialogConfig selects how pickers and error dialogs are shown.
type DialogConfig struct {
	Backend string `yaml:"backend" env:"RPGEDIT_DIALOG_BACKEND" env-default:"native"`
	Locale  string `yaml:"locale" env:"RPGEDIT_LOCALE" env-default:"en"`
}

// Load reads the config file at paths.Config if it exists and applies the
// environment on top.
func Load(paths *Paths) (*Config, error) {
	var cfg Config

	_, err := os.Stat(paths.Config)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(paths.Config, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", paths.Config, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat config %s: %w", paths.Config, err)
	}

	if cfg.Log.FilePath == "" {
		cfg.Log.FilePath = paths.LogFile()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	switch c.Dialog.Backend {
	case BackendNative, BackendTerminal:
	default:
		return fmt.Errorf("invalid dialog backend %q (want %s or %s)", c.Dialog.Backend, BackendNative, BackendTerminal)
	}
	if _, err := dialog.NewCatalog(c.Dialog.Locale); err != nil {
		return err
	}
	if c.Bridge.QueueSize < 1 {
		return fmt.Errorf("bridge queue size must be positive, got %d", c.Bridge.QueueSize)
	}
	return nil
}

// YAML renders the config the way config.yaml is written.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}
