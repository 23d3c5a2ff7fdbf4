package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rein/internal/platform"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window  WindowConfig `yaml:"window"`
	Backend string       `yaml:"backend"`
	// PartialUpdates is auto (ask the renderer), on (ebiten only) or off.
	PartialUpdates string `yaml:"partial_updates"`
	// WaitTimeout is how long an idle frame blocks for input, in seconds.
	WaitTimeout float64 `yaml:"wait_timeout"`
	LogLevel    string  `yaml:"log_level"`
}

type WindowConfig struct {
	Title          string  `yaml:"title"`
	Mode           string  `yaml:"mode"`
	WidthFraction  float64 `yaml:"width_fraction"`
	HeightFraction float64 `yaml:"height_fraction"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:          "rein",
			Mode:           "normal",
			WidthFraction:  0.5,
			HeightFraction: 0.8,
		},
		Backend:        "ebiten",
		PartialUpdates: "auto",
		WaitTimeout:    0.5,
		LogLevel:       "info",
	}
}

func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "rein", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.WindowMode(); err != nil {
		return err
	}
	switch c.Backend {
	case "ebiten", "sdl", "headless":
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	switch c.PartialUpdates {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%w: partial_updates must be auto, on or off, got %q", ErrInvalid, c.PartialUpdates)
	}
	if c.Window.WidthFraction <= 0 || c.Window.WidthFraction > 1 || c.Window.HeightFraction <= 0 || c.Window.HeightFraction > 1 {
		return fmt.Errorf("%w: window fractions must be in (0, 1]", ErrInvalid)
	}
	if c.WaitTimeout < 0 {
		return fmt.Errorf("%w: wait_timeout must not be negative", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) WindowMode() (platform.WindowMode, error) {
	mode, ok := platform.ParseWindowMode(c.Window.Mode)
	if !ok {
		return 0, fmt.Errorf("%w: unknown window mode %q", ErrInvalid, c.Window.Mode)
	}
	return mode, nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return level, nil
}

// PlatformWindow converts the window section for host construction.
func (c *Config) PlatformWindow() platform.WindowConfig {
	mode, _ := c.WindowMode()
	return platform.WindowConfig{
		Title:          c.Window.Title,
		WidthFraction:  c.Window.WidthFraction,
		HeightFraction: c.Window.HeightFraction,
		Mode:           mode,
	}
}
