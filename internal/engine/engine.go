// Package engine drives naming audits over a directory tree.
// It combines traversal, rule evaluation, auxiliary checks, and duplicate
// detection into a single scan pass.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sentinelle/internal/state"
)

// Engine orchestrates directory tree audits.
type Engine struct {
	logger *slog.Logger
	store  state.Store
}

// Config holds engine configuration.
type Config struct {
	// StatePath is the path to the SQLite run history database.
	// Empty disables history.
	StatePath string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine. The history store is opened and migrated
// up front so a broken state path fails before any scan starts.
func New(cfg Config) (*Engine, error) {
	// Initialize logger (use discard handler if nil)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{logger: logger}

	if cfg.StatePath != "" {
		logger.Debug("opening run history", "state_path", cfg.StatePath)

		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate state store: %w", err)
		}
		e.store = store
	}

	return e, nil
}

// Close releases all resources.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Store returns the run history store, or nil when history is disabled.
func (e *Engine) Store() state.Store {
	return e.store
}
