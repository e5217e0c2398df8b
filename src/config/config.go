// Package config handles termlife configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"termlife/src/universe"
)

// Config represents the simulation and display settings.
type Config struct {
	// Universe size, used when the universe is seeded from a template
	Width  uint `yaml:"width" toml:"width"`
	Height uint `yaml:"height" toml:"height"`

	// Delay between generations in milliseconds
	DelayMs int `yaml:"delay_ms" toml:"delay_ms"`

	// Stop after this many generations, 0 means never
	MaxSteps int `yaml:"max_steps" toml:"max_steps"`

	// Seeding template name, ignored when Input is set
	Template string `yaml:"template" toml:"template"`

	// Seed file path
	Input string `yaml:"input" toml:"input"`

	LiveSymbol string `yaml:"live_symbol" toml:"live_symbol"`
	DeadSymbol string `yaml:"dead_symbol" toml:"dead_symbol"`

	// Color of live cells: one of Colors, "none" disables coloring
	Color string `yaml:"color" toml:"color"`

	// Start with the simulation paused
	Paused bool `yaml:"paused" toml:"paused"`

	// Plain line output instead of the full screen UI
	Plain bool `yaml:"plain" toml:"plain"`

	// Log file path, empty means stderr in plain mode and nothing in the UI
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Colors maps the accepted color names to terminal colors.
var Colors = map[string]aurora.Color{
	"none":    0,
	"red":     aurora.RedFg,
	"green":   aurora.GreenFg,
	"yellow":  aurora.YellowFg,
	"blue":    aurora.BlueFg,
	"magenta": aurora.MagentaFg,
	"cyan":    aurora.CyanFg,
	"white":   aurora.WhiteFg,
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Width:      5,
		Height:     5,
		DelayMs:    500,
		MaxSteps:   0,
		Template:   "blinker",
		LiveSymbol: universe.AliveSymbol,
		DeadSymbol: universe.DeadSymbol,
		Color:      "magenta",
	}
}

// Load reads the config file at path on top of the defaults.
// The format is picked by extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "[config.Load] failed to read file: %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, errors.Errorf("[config.Load] unsupported config format %q: %s", ext, path)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "[config.Load] failed to parse file: %s", path)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if err := universe.CheckSize(c.Width, c.Height); err != nil {
		return err
	}
	if c.DelayMs < 0 {
		return errors.Errorf("delay must not be negative, got %dms", c.DelayMs)
	}
	if c.MaxSteps < 0 {
		return errors.Errorf("max steps must not be negative, got %d", c.MaxSteps)
	}
	if c.LiveSymbol == "" || c.DeadSymbol == "" {
		return errors.New("live and dead symbols must not be empty")
	}
	if _, ok := Colors[c.Color]; !ok {
		return errors.Errorf("unknown color %q", c.Color)
	}
	if c.Input == "" {
		if _, ok := universe.LookupTemplate(c.Template); !ok {
			return errors.Errorf("unknown template %q", c.Template)
		}
	}
	return nil
}

// Interval returns the delay between generations.
func (c Config) Interval() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// LiveColor returns the terminal color of live cells.
func (c Config) LiveColor() aurora.Color {
	return Colors[c.Color]
}
