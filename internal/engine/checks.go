package engine

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/sentinelle/internal/walker"
)

// CheckConfig configures the auxiliary checks that run alongside naming
// evaluation.
type CheckConfig struct {
	// PathLength enables flagging of over-long paths.
	PathLength bool
	// MaxPathLength overrides the path length limit when > 0.
	MaxPathLength int
	// EmptyMarker enables verification of folders marked as empty.
	EmptyMarker bool
	// Duplicates enables content duplicate detection across files.
	Duplicates bool
	// HashWorkers bounds concurrent file hashing for duplicate detection.
	HashWorkers int
}

// CheckDef describes one auxiliary check.
type CheckDef struct {
	// ID uniquely identifies the check, e.g. "PL01".
	ID string
	// Name is the dotted short name, e.g. "path.length".
	Name string
	// Description explains what the check flags.
	Description string
	// Enabled reports whether the configuration turns the check on.
	Enabled func(cfg CheckConfig) bool
	// Check evaluates one entry. Nil for checks implemented in the scan
	// pipeline itself rather than per entry.
	Check func(entry walker.Entry, cfg CheckConfig) []Verdict
}

// globalChecks is the single global registry for auxiliary checks.
var globalChecks = &checkRegistry{
	checks: make(map[string]CheckDef),
}

type checkRegistry struct {
	mu     sync.RWMutex
	checks map[string]CheckDef // keyed by ID
}

// RegisterCheck adds a check to the global registry.
// Call this from init() functions in check files.
func RegisterCheck(def CheckDef) {
	globalChecks.mu.Lock()
	defer globalChecks.mu.Unlock()
	globalChecks.checks[def.ID] = def
}

// AllChecks returns all registered checks sorted by ID.
func AllChecks() []CheckDef {
	globalChecks.mu.RLock()
	defer globalChecks.mu.RUnlock()

	checks := make([]CheckDef, 0, len(globalChecks.checks))
	for _, def := range globalChecks.checks {
		checks = append(checks, def)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].ID < checks[j].ID })
	return checks
}

// GetCheck returns a check by its ID.
func GetCheck(id string) (CheckDef, bool) {
	globalChecks.mu.RLock()
	defer globalChecks.mu.RUnlock()
	def, ok := globalChecks.checks[id]
	return def, ok
}

// enabledChecks returns the active per-entry checks sorted by ID.
func enabledChecks(cfg CheckConfig) []CheckDef {
	var out []CheckDef
	for _, def := range AllChecks() {
		if def.Check != nil && def.Enabled(cfg) {
			out = append(out, def)
		}
	}
	return out
}
