// Package config loads implore's settings from a YAML file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Tool modes
const (
	ModeQuiz    = "quiz"
	ModeMessage = "message"
)

const (
	DefaultTitle   = "Human Input Requested"
	DefaultMessage = "HelloWorld"
	fileName       = "config.yaml"
)

// Config holds every setting the bridge and the dialog read
type Config struct {
	// Mode selects the tool signature: "quiz" (questions) or "message"
	Mode string `yaml:"mode"`
	// Title is used when the caller does not supply one
	Title string `yaml:"title"`
	// Timeout bounds the wait for the human; zero waits forever
	Timeout time.Duration `yaml:"timeout"`

	UI  UIConfig  `yaml:"ui"`
	Log LogConfig `yaml:"log"`
}

// UIConfig controls how the presentation process is launched
type UIConfig struct {
	// Executable is the program run as the presentation process. Empty means
	// the running implore binary.
	Executable string `yaml:"executable"`
	// Terminal is an argv prefix used to open the dialog in a new terminal
	// window, e.g. ["gnome-terminal", "--wait", "--"].
	Terminal []string `yaml:"terminal"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level"`
	// File enables rotating file output instead of stderr
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Mode:  ModeQuiz,
		Title: DefaultTitle,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/implore/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "implore", fileName)
}

// Load reads the config file at path, falling back to defaults for anything
// it does not set. A missing file is not an error.
func Load(fs *afero.Afero, path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	exists, err := fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}
	if !exists {
		return cfg, nil
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values and fills in blanks left by a partial file
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case "":
		c.Mode = ModeQuiz
	case ModeQuiz, ModeMessage:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeQuiz, ModeMessage, c.Mode)
	}

	if c.Title == "" {
		c.Title = DefaultTitle
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}
