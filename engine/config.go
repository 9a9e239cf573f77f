package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailored-agentic-units/interpreter/lookup"
	"github.com/tailored-agentic-units/interpreter/store"
	"gopkg.in/yaml.v3"
)

const defaultObserver = "slog"

// Config holds initialization parameters for all engine subsystems.
// Each subsystem section delegates to that subsystem's config-driven constructor.
type Config struct {
	Store    store.Config  `json:"store" yaml:"store"`
	Lookup   lookup.Config `json:"lookup" yaml:"lookup"`
	Observer string        `json:"observer,omitempty" yaml:"observer,omitempty"`
}

// DefaultConfig returns a Config with in-memory state, external lookups
// disabled, and events logged through slog.
func DefaultConfig() Config {
	return Config{
		Store:    store.DefaultConfig(),
		Lookup:   lookup.DefaultConfig(),
		Observer: defaultObserver,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)
	c.Lookup.Merge(&source.Lookup)

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON or YAML config file, merges it with defaults, and
// returns the resulting Config. Files ending in .yaml or .yml are parsed as
// YAML; everything else as JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
