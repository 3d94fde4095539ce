package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/leapstack-labs/sentinelle/pkg/naming"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-audit the tree whenever it changes",
		Long: `Run an initial scan, then keep watching the input directory and re-scan
after every burst of filesystem changes.

Events are debounced (watch.debounce, default 2s) so a bulk copy triggers
one rescan, not hundreds. Hidden directories are not watched. Every
rescan writes its own timestamped report and records its own history
run. Stop with Ctrl+C.`,
		Example: `  # Watch ./archive, re-auditing on changes
  sentinelle watch -i ./archive -o ./audit

  # Calmer rescans for busy trees
  sentinelle watch -i ./archive -o ./audit --debounce 10s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	cmd.Flags().Duration("debounce", 0, "Quiet period before a rescan (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if err := cfg.ValidateScanPaths(); err != nil {
		return err
	}
	ruleSet, err := cfg.RuleSet()
	if err != nil {
		return err
	}

	debounce := cfg.Watch.Debounce
	if d, err := cmd.Flags().GetDuration("debounce"); err == nil && d > 0 {
		debounce = d
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchTree(watcher, cfg.Input); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Input, err)
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render("Watch Mode"))
	r.Printf("Watching %s (debounce %s)\n", cfg.Input, debounce)
	r.Muted("Press Ctrl+C to stop")
	r.Println("")

	runAndReport(ctx, cmdCtx, r, ruleSet)

	// Debounce timer: armed on the first event of a burst, pushed back by
	// every further event, fires once the tree goes quiet.
	var timer *time.Timer
	var quiet <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			r.Println("")
			r.Muted("Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			cmdCtx.Logger.Debug("filesystem event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Stop()
				timer.Reset(debounce)
			}
			quiet = timer.C

		case <-quiet:
			quiet = nil
			runAndReport(ctx, cmdCtx, r, ruleSet)
			// Pick up directories created since the last pass
			if err := watchTree(watcher, cfg.Input); err != nil {
				cmdCtx.Logger.Debug("failed to refresh watches", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Warning(fmt.Sprintf("watcher error: %v", err))
		}
	}
}

// runAndReport performs one audit cycle and prints its one-line outcome.
// Scan failures do not stop the watch; the next change tries again.
func runAndReport(ctx context.Context, cmdCtx *CommandContext, r *output.Renderer, ruleSet *naming.RuleSet) {
	stamp := time.Now().Format("15:04:05")
	out, err := executeScan(ctx, cmdCtx, ruleSet)
	if err != nil {
		r.Warning(fmt.Sprintf("%s scan failed: %v", stamp, err))
		return
	}

	styles := r.Styles()
	icon := styles.StatusSuccess.String()
	if out.Summary.NonConformant > 0 || out.Summary.Unreadable > 0 {
		icon = styles.StatusFailed.String()
	}
	r.Printf("%s %s %s\n", styles.Muted.Render(stamp), icon, out.Summary.String())
	if out.Summary.Incomplete {
		r.Warning("scan interrupted, report contains partial results")
	}
	r.Muted("         report: " + out.Artifacts.Report)
}

// watchTree recursively adds the directories under root to the watcher.
// Hidden subdirectories are skipped; unreadable ones are left unwatched
// (the scan itself reports them).
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
