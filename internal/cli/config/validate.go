package config

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/sentinelle/pkg/naming"
)

// validFormats are the accepted console rendering modes.
var validFormats = map[string]bool{
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks if the configuration is valid.
// It rejects malformed values, including rule patterns that do not compile,
// so that bad configuration surfaces before any traversal begins.
// Filesystem checks live in ValidateScanPaths.
func (c *Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d\nHint: Use --depth 0 to inspect only the root directory", c.Depth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Format != "" && !validFormats[c.Format] {
		return fmt.Errorf("unknown format %q\nHint: Valid formats are auto, text, markdown and json", c.Format)
	}
	if c.Checks.MaxPathLength < 1 {
		return fmt.Errorf("checks.max_path_length must be at least 1, got %d", c.Checks.MaxPathLength)
	}
	if c.Checks.HashWorkers < 1 {
		return fmt.Errorf("checks.hash_workers must be at least 1, got %d", c.Checks.HashWorkers)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}

	// Compiling the table also validates every pattern in it.
	if _, err := c.RuleSet(); err != nil {
		return err
	}

	return nil
}

// RuleSet compiles the configured naming rule table. A standalone rules
// file wins over the inline table; an empty table yields the shipped
// ARBOMUT defaults.
func (c *Config) RuleSet() (*naming.RuleSet, error) {
	if c.Rules.File != "" {
		rs, err := naming.LoadRulesFile(c.Rules.File)
		if err != nil {
			return nil, fmt.Errorf("invalid rules file: %w\nHint: Check rules.file or the --rules flag", err)
		}
		return rs, nil
	}

	fallback := naming.FallbackAllow
	if c.Rules.Fallback != "" {
		var ok bool
		if fallback, ok = naming.ParseFallbackPolicy(c.Rules.Fallback); !ok {
			return nil, fmt.Errorf("unknown rules.fallback value %q\nHint: Valid values are allow, deny and inherit", c.Rules.Fallback)
		}
	}
	casing := naming.CaseStrict
	if c.Rules.Case != "" {
		var ok bool
		if casing, ok = naming.ParseCasePolicy(c.Rules.Case); !ok {
			return nil, fmt.Errorf("unknown rules.case value %q\nHint: Valid values are sensitive and insensitive", c.Rules.Case)
		}
	}

	specs := c.Rules.Table
	if len(specs) == 0 {
		specs = naming.DefaultRules()
	}

	rs, err := naming.BuildRuleSet(specs, fallback, casing)
	if err != nil {
		return nil, fmt.Errorf("invalid rule table: %w\nHint: Check the rules.table block of %s", err, c.configFileHint())
	}
	return rs, nil
}

// ValidateScanPaths checks the filesystem preconditions for a scan: the
// input root must be a readable directory and the output directory must be
// writable. The output directory is created when missing.
func (c *Config) ValidateScanPaths() error {
	if c.Input == "" {
		return fmt.Errorf("no input directory configured\nHint: Pass --input or set input in %s", c.configFileHint())
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		return fmt.Errorf("input directory does not exist: %s\nHint: Check the path or use --input to specify a different one", c.Input)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", c.Input)
	}

	if c.Output == "" {
		return fmt.Errorf("no output directory configured\nHint: Pass --output or set output in %s", c.configFileHint())
	}
	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", c.Output, err)
	}

	// Write probe: report files must be writable before the scan starts,
	// not after minutes of traversal.
	probe, err := os.CreateTemp(c.Output, ".sentinelle-probe-*")
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w\nHint: Check the directory permissions", c.Output, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}

// configFileHint names the config file for error hints, falling back to the
// canonical name when none was loaded.
func (c *Config) configFileHint() string {
	if f := GetConfigFileUsed(); f != "" {
		return f
	}
	return configFileNames[0]
}
