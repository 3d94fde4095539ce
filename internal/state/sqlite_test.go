package state

import (
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sentinelle/internal/testutil"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	if err := store.Open(":memory:"); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)

	if err := store.Open(":memory:"); err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestSQLiteStore_OpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store := NewSQLiteStore(nil)
	if err := store.Open(path); err != nil {
		t.Fatalf("failed to open store at %s: %v", path, err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if store.Path() != path {
		t.Errorf("expected path %q, got %q", path, store.Path())
	}
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	// Verify tables exist by querying them
	tables := []string{"scan_runs", "goose_db_version"}
	for _, table := range tables {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		if err != nil {
			t.Errorf("table %s does not exist: %v", table, err)
		} else {
			rows.Close()
		}
	}

	version, err := store.GetMigrationVersion()
	if err != nil {
		t.Fatalf("failed to get migration version: %v", err)
	}
	if version < 1 {
		t.Errorf("expected migration version >= 1, got %d", version)
	}
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	if _, err := store.CreateRun("/data", 3); err == nil {
		t.Error("expected error creating run on unopened store")
	}
	if err := store.Migrate(); err == nil {
		t.Error("expected error migrating unopened store")
	}
}

// --- Run lifecycle tests ---

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, store *SQLiteStore) *ScanRun
		operation func(t *testing.T, store *SQLiteStore, run *ScanRun)
	}{
		{
			name: "create run",
			setup: func(t *testing.T, store *SQLiteStore) *ScanRun {
				run, err := store.CreateRun("/srv/archive", 3)
				if err != nil {
					t.Fatalf("failed to create run: %v", err)
				}
				return run
			},
			operation: func(t *testing.T, store *SQLiteStore, run *ScanRun) {
				if run.ID == "" {
					t.Error("run ID should not be empty")
				}
				if run.Root != "/srv/archive" {
					t.Errorf("expected root '/srv/archive', got %q", run.Root)
				}
				if run.MaxDepth != 3 {
					t.Errorf("expected max depth 3, got %d", run.MaxDepth)
				}
				if run.Status != RunStatusRunning {
					t.Errorf("expected status 'running', got %q", run.Status)
				}
			},
		},
		{
			name: "get run",
			setup: func(t *testing.T, store *SQLiteStore) *ScanRun {
				run, err := store.CreateRun("/srv/archive", 2)
				if err != nil {
					t.Fatalf("failed to create run: %v", err)
				}
				return run
			},
			operation: func(t *testing.T, store *SQLiteStore, run *ScanRun) {
				retrieved, err := store.GetRun(run.ID)
				if err != nil {
					t.Fatalf("failed to get run: %v", err)
				}
				if retrieved.ID != run.ID {
					t.Errorf("expected ID %q, got %q", run.ID, retrieved.ID)
				}
				if retrieved.CompletedAt != nil {
					t.Error("expected nil CompletedAt for running run")
				}
			},
		},
		{
			name: "get run not found",
			setup: func(t *testing.T, store *SQLiteStore) *ScanRun {
				return nil
			},
			operation: func(t *testing.T, store *SQLiteStore, run *ScanRun) {
				_, err := store.GetRun("nonexistent-id")
				if err == nil {
					t.Error("expected error for nonexistent run")
				}
			},
		},
		{
			name: "complete run",
			setup: func(t *testing.T, store *SQLiteStore) *ScanRun {
				run, err := store.CreateRun("/srv/archive", 3)
				if err != nil {
					t.Fatalf("failed to create run: %v", err)
				}
				return run
			},
			operation: func(t *testing.T, store *SQLiteStore, run *ScanRun) {
				totals := RunTotals{Visited: 42, Conformant: 39, NonConformant: 2, Unreadable: 1, DuplicateGroups: 4}
				if err := store.CompleteRun(run.ID, RunStatusCompleted, totals, ""); err != nil {
					t.Fatalf("failed to complete run: %v", err)
				}

				retrieved, err := store.GetRun(run.ID)
				if err != nil {
					t.Fatalf("failed to get run: %v", err)
				}
				if retrieved.Status != RunStatusCompleted {
					t.Errorf("expected status 'completed', got %q", retrieved.Status)
				}
				if retrieved.CompletedAt == nil {
					t.Error("expected CompletedAt to be set")
				}
				if retrieved.Visited != 42 || retrieved.NonConformant != 2 {
					t.Errorf("counters not persisted: %+v", retrieved)
				}
				if retrieved.DuplicateGroups != 4 {
					t.Errorf("expected 4 duplicate groups, got %d", retrieved.DuplicateGroups)
				}
				if retrieved.Error != "" {
					t.Errorf("expected empty error, got %q", retrieved.Error)
				}
			},
		},
		{
			name: "complete run with error",
			setup: func(t *testing.T, store *SQLiteStore) *ScanRun {
				run, err := store.CreateRun("/srv/archive", 3)
				if err != nil {
					t.Fatalf("failed to create run: %v", err)
				}
				return run
			},
			operation: func(t *testing.T, store *SQLiteStore, run *ScanRun) {
				if err := store.CompleteRun(run.ID, RunStatusFailed, RunTotals{}, "root vanished"); err != nil {
					t.Fatalf("failed to complete run: %v", err)
				}

				retrieved, err := store.GetRun(run.ID)
				if err != nil {
					t.Fatalf("failed to get run: %v", err)
				}
				if retrieved.Status != RunStatusFailed {
					t.Errorf("expected status 'failed', got %q", retrieved.Status)
				}
				if retrieved.Error != "root vanished" {
					t.Errorf("expected error 'root vanished', got %q", retrieved.Error)
				}
			},
		},
		{
			name: "complete run not found",
			setup: func(t *testing.T, store *SQLiteStore) *ScanRun {
				return nil
			},
			operation: func(t *testing.T, store *SQLiteStore, run *ScanRun) {
				err := store.CompleteRun("nonexistent-id", RunStatusCompleted, RunTotals{}, "")
				if err == nil {
					t.Error("expected error for nonexistent run")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			run := tt.setup(t, store)
			tt.operation(t, store, run)
		})
	}
}

func TestSQLiteStore_GetLatestRun(t *testing.T) {
	store := setupTestStore(t)

	// No runs yet
	run, err := store.GetLatestRun()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil run for empty store, got %+v", run)
	}

	first, err := store.CreateRun("/srv/archive", 3)
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	second, err := store.CreateRun("/srv/archive", 5)
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	latest, err := store.GetLatestRun()
	if err != nil {
		t.Fatalf("failed to get latest run: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a latest run")
	}
	if latest.ID != second.ID {
		t.Errorf("expected latest run %s, got %s", second.ID, latest.ID)
	}
	if latest.ID == first.ID {
		t.Error("latest run should not be the first run")
	}
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)

	var ids []string
	for i := 0; i < 5; i++ {
		run, err := store.CreateRun("/srv/archive", i)
		if err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(3)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	// Newest first
	if runs[0].ID != ids[4] {
		t.Errorf("expected newest run %s first, got %s", ids[4], runs[0].ID)
	}
	if runs[2].ID != ids[2] {
		t.Errorf("expected run %s last, got %s", ids[2], runs[2].ID)
	}

	all, err := store.ListRuns(100)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 runs, got %d", len(all))
	}
}
