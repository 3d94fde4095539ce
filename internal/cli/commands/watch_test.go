package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sentinelle/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchTree_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		filepath.Join(root, "Visible", "Sub"),
		filepath.Join(root, ".hidden", "Inner"),
	} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, watchTree(watcher, root))

	watched := watcher.WatchList()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "Visible"))
	assert.Contains(t, watched, filepath.Join(root, "Visible", "Sub"))
	assert.NotContains(t, watched, filepath.Join(root, ".hidden"))
	assert.NotContains(t, watched, filepath.Join(root, ".hidden", "Inner"))
}

func TestWatchTree_WatchesHiddenRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, ".archive")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Docs"), 0o755))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, watchTree(watcher, root))

	watched := watcher.WatchList()
	assert.Contains(t, watched, root, "an explicitly chosen hidden root is still watched")
	assert.Contains(t, watched, filepath.Join(root, "Docs"))
}

func TestRunAndReport_PrintsOutcome(t *testing.T) {
	_, outDir := setupAuditEnv(t)

	cmd := NewWatchCommand()
	cmd.SetContext(context.Background())
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	require.NoError(t, err)
	defer cleanup()

	ruleSet, err := cmdCtx.Cfg.RuleSet()
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	runAndReport(context.Background(), cmdCtx, tr.Renderer, ruleSet)

	assert.Contains(t, tr.Output(), "visited")
	assert.Contains(t, tr.Output(), "report:")
	testutil.AssertNoANSI(t, tr.Output())

	reports, err := filepath.Glob(filepath.Join(outDir, "*_report.csv"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
