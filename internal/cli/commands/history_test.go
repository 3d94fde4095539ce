package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runScanForHistory executes one scan against the fixture with a shared
// state database so history has something to list.
func runScanForHistory(t *testing.T) {
	t.Helper()
	cmd := NewScanCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
}

func TestHistoryCommand_Empty(t *testing.T) {
	setupAuditEnv(t)
	t.Setenv("SENTINELLE_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "# Scan History")
	assert.Contains(t, output, "No runs recorded yet")
}

func TestHistoryCommand_ListsCompletedRun(t *testing.T) {
	root, _ := setupAuditEnv(t)
	t.Setenv("SENTINELLE_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))

	runScanForHistory(t)

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--format", "json"})

	err := cmd.Execute()
	require.NoError(t, err)

	var out HistoryOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Runs, 1)

	run := out.Runs[0]
	assert.Equal(t, root, run.Root)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 3, run.MaxDepth)
	assert.Equal(t, int64(5), run.Visited)
	assert.Equal(t, int64(1), run.NonConformant)
	assert.NotNil(t, run.CompletedAt)
	assert.NotEmpty(t, run.ID)
}

func TestHistoryCommand_Limit(t *testing.T) {
	setupAuditEnv(t)
	t.Setenv("SENTINELLE_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))

	runScanForHistory(t)
	runScanForHistory(t)

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--limit", "1", "--format", "json"})

	err := cmd.Execute()
	require.NoError(t, err)

	var out HistoryOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out.Runs, 1)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "short", shortID("short"))
	assert.Equal(t, "12345678", shortID("123456789abcdef"))
}
