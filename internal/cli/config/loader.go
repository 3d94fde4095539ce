package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
// This key is shared with the cli package via LoggerKey.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// configFileNames are the recognized config file names, in priority order.
var configFileNames = []string{".sentinelle.yml", ".sentinelle.yaml"}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > .sentinelle.yml > .sentinelle.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// configExistsIn checks if a sentinelle config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range configFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a sentinelle config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for .sentinelle.yml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// Track paths that were explicitly provided as flags (relative to CWD).
	// These are converted to absolute paths up front so the project-root
	// resolution step below never rebases them.
	var flagInput, flagOutput, flagState, flagRules string
	if flags != nil {
		if flags.Changed("input") {
			if v, _ := flags.GetString("input"); v != "" {
				flagInput, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("output") {
			if v, _ := flags.GetString("output"); v != "" {
				flagOutput, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				if v == ":memory:" {
					flagState = v
				} else {
					flagState, _ = filepath.Abs(v)
				}
			}
		}
		if flags.Changed("rules") {
			if v, _ := flags.GetString("rules"); v != "" {
				flagRules, _ = filepath.Abs(v)
			}
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"depth":                  DefaultDepth,
		"workers":                DefaultWorkers,
		"follow_symlinks":        false,
		"skip_root":              false,
		"state_path":             DefaultStateFile,
		"format":                 DefaultFormat,
		"verbose":                0,
		"rules.fallback":         DefaultFallback,
		"rules.case":             DefaultCase,
		"checks.path_length":     true,
		"checks.max_path_length": DefaultMaxPathLength,
		"checks.empty_marker":    true,
		"checks.duplicates":      true,
		"checks.hash_workers":    DefaultHashWorkers,
		"watch.debounce":         DefaultDebounce.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	// Search in project root if no explicit config file provided
	if cfgFile == "" {
		for _, name := range configFileNames {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SENTINELLE_ prefix)
	// Transform: SENTINELLE_STATE_PATH -> state_path
	if err := k.Load(env.Provider("SENTINELLE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SENTINELLE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")

			// The CLI uses --state for brevity, the config key is state_path
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}
			// --rules points at a standalone rules file, not the rules block
			if key == "rules" {
				return "rules.file", posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	// The duration hook lets the config file spell debounce as "2s".
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root, expand ${VAR} references and resolve relative paths.
	// Paths explicitly provided via flags keep their pre-computed absolute
	// form; paths from the config file or defaults resolve against the
	// project root.
	cfg.ProjectRoot = projectRoot

	if flagInput != "" {
		cfg.Input = flagInput
	} else {
		cfg.Input = resolvePathRelativeTo(expandEnvVars(cfg.Input), projectRoot)
	}
	if flagOutput != "" {
		cfg.Output = flagOutput
	} else {
		cfg.Output = resolvePathRelativeTo(expandEnvVars(cfg.Output), projectRoot)
	}
	if flagState != "" {
		cfg.StatePath = flagState
	} else if cfg.StatePath != ":memory:" {
		cfg.StatePath = resolvePathRelativeTo(expandEnvVars(cfg.StatePath), projectRoot)
	}
	if flagRules != "" {
		cfg.Rules.File = flagRules
	} else {
		cfg.Rules.File = resolvePathRelativeTo(expandEnvVars(cfg.Rules.File), projectRoot)
	}

	// 7. Reject malformed values before any command runs
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	// Match ${VAR} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
