package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/sentinelle/internal/cli/config"
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/leapstack-labs/sentinelle/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.Format)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't touch the run history database.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Format)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	input := os.Getenv("SENTINELLE_INPUT")
	outputDir := os.Getenv("SENTINELLE_OUTPUT")
	statePath := getEnvOrDefault("SENTINELLE_STATE_PATH", config.DefaultStateFile)
	format := getEnvOrDefault("SENTINELLE_FORMAT", config.DefaultFormat)
	depth := getEnvIntOrDefault("SENTINELLE_DEPTH", config.DefaultDepth)
	workers := getEnvIntOrDefault("SENTINELLE_WORKERS", config.DefaultWorkers)
	verbose := getEnvIntOrDefault("SENTINELLE_VERBOSE", 0)

	return &config.Config{
		Input:     input,
		Output:    outputDir,
		Depth:     depth,
		Workers:   workers,
		StatePath: statePath,
		Format:    format,
		Verbose:   verbose,
		Rules: config.RulesConfig{
			Fallback: config.DefaultFallback,
			Case:     config.DefaultCase,
		},
		Checks: config.ChecksConfig{
			PathLength:    true,
			MaxPathLength: config.DefaultMaxPathLength,
			EmptyMarker:   true,
			Duplicates:    true,
			HashWorkers:   config.DefaultHashWorkers,
		},
		Watch: config.WatchConfig{
			Debounce: config.DefaultDebounce,
		},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// engineChecks maps the CLI check settings onto the engine's.
func engineChecks(cfg *config.Config) engine.CheckConfig {
	return engine.CheckConfig{
		PathLength:    cfg.Checks.PathLength,
		MaxPathLength: cfg.Checks.MaxPathLength,
		EmptyMarker:   cfg.Checks.EmptyMarker,
		Duplicates:    cfg.Checks.Duplicates,
		HashWorkers:   cfg.Checks.HashWorkers,
	}
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	if cfg.StatePath != "" && cfg.StatePath != ":memory:" {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, err
			}
		}
	}

	engineCfg := engine.Config{
		StatePath: cfg.StatePath,
		Logger:    logger,
	}

	return engine.New(engineCfg)
}
