// Package config loads the optional .agentlint.yaml file: suppression
// rules, severity overrides, and discovery excludes. The engine consumes
// this configuration but does not own it: an absent file means defaults,
// unknown keys are ignored, and malformed sections degrade to empty.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/agentlint/internal/patterns"
	"github.com/steveyegge/agentlint/internal/suppress"
)

// FileName is the config file looked up at the discovery root.
const FileName = ".agentlint.yaml"

// Config is the external configuration surface.
type Config struct {
	// Suppress holds manual suppression rules.
	Suppress suppress.Config `yaml:"suppress"`

	// Learned is a statically supplied learned-suppression table, merged
	// with the suppression store at filter time.
	Learned suppress.Learned `yaml:"learned"`

	// SeverityOverrides maps pattern id → certainty (HIGH/MEDIUM/LOW),
	// applied when the registry is built.
	SeverityOverrides map[string]string `yaml:"severityOverrides"`

	// Exclude adds directory names to the discovery skip list.
	Exclude []string `yaml:"exclude"`
}

// Default returns the empty configuration.
func Default() *Config {
	return &Config{}
}

// Load reads the config file at root. A missing file returns defaults;
// malformed YAML is the one loud failure, since silently ignoring a config
// the user wrote is worse than stopping.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// CertaintyOverrides converts the severity-override section into registry
// overrides, dropping values that are not a known certainty.
func (c *Config) CertaintyOverrides() map[string]patterns.Certainty {
	out := make(map[string]patterns.Certainty, len(c.SeverityOverrides))
	for id, raw := range c.SeverityOverrides {
		switch patterns.Certainty(raw) {
		case patterns.CertaintyHigh, patterns.CertaintyMedium, patterns.CertaintyLow:
			out[id] = patterns.Certainty(raw)
		}
	}
	return out
}

// ExcludeDirs combines the default discovery excludes with the config's
// additions.
func (c *Config) ExcludeDirs(defaults []string) []string {
	if len(c.Exclude) == 0 {
		return defaults
	}
	out := make([]string, 0, len(defaults)+len(c.Exclude))
	out = append(out, defaults...)
	out = append(out, c.Exclude...)
	return out
}
