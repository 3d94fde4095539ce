// Package config provides configuration management for the sentinelle CLI.
//
// Values are merged from four layers, lowest to highest precedence:
// built-in defaults, a discovered .sentinelle.yml file, SENTINELLE_-prefixed
// environment variables, and explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/sentinelle/pkg/naming"
)

// Config holds all CLI configuration options.
type Config struct {
	Input          string `koanf:"input"`
	Output         string `koanf:"output"`
	Depth          int    `koanf:"depth"`
	Workers        int    `koanf:"workers"`
	FollowSymlinks bool   `koanf:"follow_symlinks"`
	SkipRoot       bool   `koanf:"skip_root"`
	StatePath      string `koanf:"state_path"`
	Format         string `koanf:"format"`
	Verbose        int    `koanf:"verbose"`

	Rules  RulesConfig  `koanf:"rules"`
	Checks ChecksConfig `koanf:"checks"`
	Watch  WatchConfig  `koanf:"watch"`

	// ProjectRoot is the directory relative config paths resolve against.
	// Derived during loading, never read from a file.
	ProjectRoot string `koanf:"-"`
}

// RulesConfig is the naming rule block of the configuration file.
// An empty table means the shipped ARBOMUT defaults apply. File points at
// a standalone rules document and takes precedence over the inline table.
type RulesConfig struct {
	File     string            `koanf:"file"`
	Fallback string            `koanf:"fallback"`
	Case     string            `koanf:"case"`
	Table    []naming.RuleSpec `koanf:"table"`
}

// ChecksConfig toggles the auxiliary checks that run alongside the naming
// rules. All checks default to enabled.
type ChecksConfig struct {
	PathLength    bool `koanf:"path_length"`
	MaxPathLength int  `koanf:"max_path_length"`
	EmptyMarker   bool `koanf:"empty_marker"`
	Duplicates    bool `koanf:"duplicates"`
	HashWorkers   int  `koanf:"hash_workers"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultDepth         = 3
	DefaultWorkers       = 1
	DefaultStateFile     = ".sentinelle/state.db"
	DefaultFormat        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultFallback      = "allow"
	DefaultCase          = "sensitive"
	DefaultMaxPathLength = 255
	DefaultHashWorkers   = 4
	DefaultDebounce      = 2 * time.Second
)
