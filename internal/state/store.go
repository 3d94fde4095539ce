// Package state persists scan run history using SQLite.
//
// Every audit records a run when it starts and finalizes it with its
// counters when it ends, so earlier results can be inspected without
// re-reading the tree.
package state

import "time"

// RunStatus describes the lifecycle state of a recorded scan run.
type RunStatus string

const (
	// RunStatusRunning marks a run that has started but not finished.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted marks a run that visited every reachable entry.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusCancelled marks a run stopped early by the caller.
	RunStatusCancelled RunStatus = "cancelled"
	// RunStatusFailed marks a run aborted by an error.
	RunStatusFailed RunStatus = "failed"
)

// ScanRun is one recorded audit of a directory tree.
type ScanRun struct {
	ID              string
	Root            string
	MaxDepth        int
	Status          RunStatus
	StartedAt       time.Time
	CompletedAt     *time.Time
	Visited         int64
	Conformant      int64
	NonConformant   int64
	Unreadable      int64
	DuplicateGroups int64
	Error           string
}

// RunTotals carries the final counters written when a run ends.
type RunTotals struct {
	Visited         int64
	Conformant      int64
	NonConformant   int64
	Unreadable      int64
	DuplicateGroups int64
}

// Store persists scan runs.
type Store interface {
	// Open opens the backing database at path.
	Open(path string) error
	// Migrate brings the schema up to date.
	Migrate() error
	// Close releases the database connection.
	Close() error

	// CreateRun records the start of a scan of root.
	CreateRun(root string, maxDepth int) (*ScanRun, error)
	// CompleteRun finalizes a run with its status and counters.
	CompleteRun(id string, status RunStatus, totals RunTotals, errMsg string) error
	// GetRun retrieves a run by ID.
	GetRun(id string) (*ScanRun, error)
	// GetLatestRun retrieves the most recent run, or nil when none exist.
	GetLatestRun() (*ScanRun, error)
	// ListRuns retrieves the most recent runs up to the given limit.
	ListRuns(limit int) ([]*ScanRun, error)
}
