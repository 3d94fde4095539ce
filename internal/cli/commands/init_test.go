package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand_WritesScaffold(t *testing.T) {
	setupAuditEnv(t)
	dir := t.TempDir()

	cmd := NewInitCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, ".sentinelle.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "depth: 3")
	assert.Contains(t, string(content), "fallback: allow")
	assert.Contains(t, string(content), "state_path: .sentinelle/state.db")

	assert.Contains(t, buf.String(), "configuration created")
	assert.Contains(t, buf.String(), "Next steps:")
}

func TestInitCommand_CreatesTargetDirectory(t *testing.T) {
	setupAuditEnv(t)
	dir := filepath.Join(t.TempDir(), "nested", "project")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, ".sentinelle.yml"))
	assert.NoError(t, err)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	setupAuditEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".sentinelle.yml")
	require.NoError(t, os.WriteFile(path, []byte("input: /keep\n"), 0o600))

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "input: /keep\n", string(content), "existing file must stay untouched")
}

func TestInitCommand_ForceOverwrites(t *testing.T) {
	setupAuditEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".sentinelle.yml")
	require.NoError(t, os.WriteFile(path, []byte("input: /old\n"), 0o600))

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir, "--force"})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "depth: 3")
	assert.NotContains(t, string(content), "/old")
}
