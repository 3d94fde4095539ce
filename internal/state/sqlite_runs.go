package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const runColumns = `id, root, max_depth, status, started_at, completed_at,
	visited, conformant, non_conformant, unreadable, duplicate_groups, error`

// CreateRun records the start of a scan of root.
func (s *SQLiteStore) CreateRun(root string, maxDepth int) (*ScanRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &ScanRun{
		ID:        generateID(),
		Root:      root,
		MaxDepth:  maxDepth,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating scan run", slog.String("id", run.ID), slog.String("root", root))

	_, err := s.db.Exec(
		`INSERT INTO scan_runs (id, root, max_depth, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.MaxDepth, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan run: %w", err)
	}

	return run, nil
}

// CompleteRun finalizes a run with its status and counters.
func (s *SQLiteStore) CompleteRun(id string, status RunStatus, totals RunTotals, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE scan_runs SET status = ?, completed_at = ?, visited = ?, conformant = ?,
		 non_conformant = ?, unreadable = ?, duplicate_groups = ?, error = ? WHERE id = ?`,
		status, now, totals.Visited, totals.Conformant,
		totals.NonConformant, totals.Unreadable, totals.DuplicateGroups, errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete scan run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("scan run not found: %s", id)
	}

	s.logger.Debug("completed scan run", slog.String("id", id), slog.String("status", string(status)))
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*ScanRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(`SELECT `+runColumns+` FROM scan_runs WHERE id = ?`, id)

	run, err := scanRunRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan run: %w", err)
	}

	return run, nil
}

// GetLatestRun retrieves the most recent run.
func (s *SQLiteStore) GetLatestRun() (*ScanRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(`SELECT ` + runColumns + ` FROM scan_runs ORDER BY started_at DESC LIMIT 1`)

	run, err := scanRunRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No runs found, return nil without error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest scan run: %w", err)
	}

	return run, nil
}

// ListRuns retrieves the most recent runs up to the given limit.
func (s *SQLiteStore) ListRuns(limit int) ([]*ScanRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM scan_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan runs: %w", err)
	}
	defer rows.Close()

	var runs []*ScanRun
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRunRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRunRow reads one scan_runs row into a ScanRun.
func scanRunRow(row rowScanner) (*ScanRun, error) {
	run := &ScanRun{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := row.Scan(
		&run.ID, &run.Root, &run.MaxDepth, &run.Status, &run.StartedAt, &completedAt,
		&run.Visited, &run.Conformant, &run.NonConformant, &run.Unreadable, &run.DuplicateGroups, &errMsg,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}

	return run, nil
}
