package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/leapstack-labs/sentinelle/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int    // Maximum number of runs to show
	Format string // Output format
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scan runs",
		Long: `List the scans recorded in the state database, most recent first.

Each row shows when the scan ran, what it covered and how it ended.
Interrupted scans appear as cancelled; their partial counters are kept.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Show the last 20 runs
  sentinelle history

  # Show the last 5 runs
  sentinelle history --limit 5

  # Output as JSON
  sentinelle history --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// RunRow describes one recorded scan run in listings.
type RunRow struct {
	ID              string     `json:"id"`
	Root            string     `json:"root"`
	MaxDepth        int        `json:"max_depth"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Visited         int64      `json:"visited"`
	Conformant      int64      `json:"conformant"`
	NonConformant   int64      `json:"non_conformant"`
	Unreadable      int64      `json:"unreadable"`
	DuplicateGroups int64      `json:"duplicate_groups"`
	Error           string     `json:"error,omitempty"`
}

// HistoryOutput is the JSON output for the history command.
type HistoryOutput struct {
	Runs []RunRow `json:"runs"`
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store := cmdCtx.Engine.Store()
	if store == nil {
		r.Muted("Run history is disabled (no state path configured)")
		return nil
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	historyOutput := &HistoryOutput{Runs: make([]RunRow, 0, len(runs))}
	for _, run := range runs {
		historyOutput.Runs = append(historyOutput.Runs, RunRow{
			ID:              run.ID,
			Root:            run.Root,
			MaxDepth:        run.MaxDepth,
			Status:          string(run.Status),
			StartedAt:       run.StartedAt,
			CompletedAt:     run.CompletedAt,
			Visited:         run.Visited,
			Conformant:      run.Conformant,
			NonConformant:   run.NonConformant,
			Unreadable:      run.Unreadable,
			DuplicateGroups: run.DuplicateGroups,
			Error:           run.Error,
		})
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(historyOutput)
	case output.ModeMarkdown:
		return renderHistoryMarkdown(r, historyOutput)
	default:
		return renderHistoryText(r, historyOutput)
	}
}

func renderHistoryText(r *output.Renderer, out *HistoryOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Scan History"))
	r.Println("")

	if len(out.Runs) == 0 {
		r.Muted("No runs recorded yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Root", "Depth", "Visited", "Issues", "Dups", "Duration"})
	for _, run := range out.Runs {
		status := run.Status
		switch state.RunStatus(run.Status) {
		case state.RunStatusCompleted:
			status = styles.Success.Render(run.Status)
		case state.RunStatusCancelled:
			status = styles.Warning.Render(run.Status)
		case state.RunStatusFailed:
			status = styles.Error.Render(run.Status)
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			run.Root,
			run.MaxDepth,
			run.Visited,
			run.NonConformant,
			run.DuplicateGroups,
			runDuration(run),
		})
	}
	t.Render()
	fmt.Fprintf(r.Writer(), "(%d runs)\n", len(out.Runs))

	return nil
}

func renderHistoryMarkdown(r *output.Renderer, out *HistoryOutput) error {
	r.Println(output.FormatHeader(1, "Scan History"))
	r.Println("")

	if len(out.Runs) == 0 {
		r.Println("No runs recorded yet")
		return nil
	}

	r.Println("| ID | Started | Status | Root | Depth | Visited | Issues | Dups | Duration |")
	r.Println("|----|---------|--------|------|-------|---------|--------|------|----------|")
	for _, run := range out.Runs {
		r.Printf("| %s | %s | %s | %s | %d | %d | %d | %d | %s |\n",
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Status,
			run.Root,
			run.MaxDepth,
			run.Visited,
			run.NonConformant,
			run.DuplicateGroups,
			runDuration(run),
		)
	}
	r.Println("")

	return nil
}

// shortID abbreviates a run UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runDuration formats the elapsed time of a finished run.
func runDuration(run RunRow) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
