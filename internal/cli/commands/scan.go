package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/leapstack-labs/sentinelle/internal/engine"
	"github.com/leapstack-labs/sentinelle/internal/report"
	"github.com/leapstack-labs/sentinelle/pkg/naming"
	"github.com/spf13/cobra"
)

// ScanOptions holds options for the scan command.
type ScanOptions struct {
	Format string // Output format: text, markdown, json
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Audit a directory tree against the naming convention",
		Long: `Walk the input directory down to the configured depth and judge every
entry against the effective naming rule table and auxiliary checks.

The scan writes a timestamped CSV report into the output directory and
prints a summary. Violations are findings, not failures: a scan that
uncovers a thousand of them still exits 0. Non-zero exits are reserved
for scans that could not run at all (unreadable root, unwritable output,
malformed rules).

Interrupting a scan (Ctrl-C) stops traversal but still writes the
partial report, marked incomplete.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Audit ./archive three levels deep, reports into ./audit
  sentinelle scan -i ./archive -o ./audit

  # Deeper audit with parallel traversal and full verdict listing
  sentinelle scan -i ./archive -o ./audit -p 5 --workers 4 -v

  # Machine-readable result
  sentinelle scan -i ./archive -o ./audit --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// ScanOutput is the JSON output for the scan command.
type ScanOutput struct {
	Summary    engine.ScanSummary      `json:"summary"`
	Violations []engine.Verdict        `json:"violations"`
	Duplicates []engine.DuplicateGroup `json:"duplicates,omitempty"`
	Artifacts  ArtifactPaths           `json:"artifacts"`
}

// ArtifactPaths lists the report files written by a scan.
type ArtifactPaths struct {
	Report     string `json:"report"`
	Duplicates string `json:"duplicates,omitempty"`
}

func runScan(cmd *cobra.Command, opts *ScanOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	if err := cfg.ValidateScanPaths(); err != nil {
		return err
	}
	ruleSet, err := cfg.RuleSet()
	if err != nil {
		return err
	}

	// Stop traversal on Ctrl-C but keep the partial result
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	effectiveMode := r.EffectiveMode()

	// Show spinner for TTY mode
	var spinner *output.Spinner
	if effectiveMode == output.ModeText {
		spinner = r.NewSpinner("Scanning " + cfg.Input + "...")
		spinner.Start()
	}

	scanOutput, err := executeScan(ctx, cmdCtx, ruleSet)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Scan failed")
		}
		return err
	}

	if spinner != nil {
		if scanOutput.Summary.Incomplete {
			spinner.Stop()
		} else {
			spinner.Success("Scan completed")
		}
	}

	switch effectiveMode {
	case output.ModeJSON:
		return r.JSON(scanOutput)
	case output.ModeMarkdown:
		return renderScanMarkdown(r, scanOutput)
	default:
		return renderScanText(r, scanOutput)
	}
}

// executeScan runs one audit over the configured input and writes its
// CSV artifacts. Shared between scan and watch.
func executeScan(ctx context.Context, cmdCtx *CommandContext, ruleSet *naming.RuleSet) (*ScanOutput, error) {
	cfg := cmdCtx.Cfg

	result, err := cmdCtx.Engine.Scan(ctx, engine.ScanOptions{
		Root:           cfg.Input,
		MaxDepth:       cfg.Depth,
		Workers:        cfg.Workers,
		FollowSymlinks: cfg.FollowSymlinks,
		SkipRoot:       cfg.SkipRoot,
		Rules:          ruleSet,
		Checks:         engineChecks(cfg),
	})
	if err != nil {
		return nil, err
	}

	tier := report.TierFromVerbosity(cfg.Verbose)
	artifacts, err := report.NewCSVSink(cfg.Output, time.Now()).Write(result, tier)
	if err != nil {
		return nil, err
	}

	return &ScanOutput{
		Summary:    result.Summary,
		Violations: result.Violations(),
		Duplicates: result.Duplicates,
		Artifacts: ArtifactPaths{
			Report:     artifacts.ReportPath,
			Duplicates: artifacts.DuplicatesPath,
		},
	}, nil
}

func renderScanText(r *output.Renderer, out *ScanOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Naming Audit"))
	r.Printf("Root: %s (max depth %d)\n", out.Summary.Root, out.Summary.MaxDepth)
	r.Println("")

	if len(out.Violations) == 0 {
		r.Success("No violations found")
	} else {
		r.Println(styles.Header2.Render(fmt.Sprintf("Violations (%d)", len(out.Violations))))
		for _, v := range out.Violations {
			line := fmt.Sprintf("%s %s", styles.StatusFailed.String(), styles.EntryPath.Render(v.Path))
			r.Println("  " + line)
			detail := fmt.Sprintf("depth %d, %s: %s", v.Depth, v.Kind, v.Reason)
			if v.RuleID != "" {
				detail += " [" + v.RuleID + "]"
			}
			r.Println(styles.Muted.Render("      " + detail))
		}
	}
	r.Println("")

	if len(out.Duplicates) > 0 {
		r.Println(styles.Header2.Render(fmt.Sprintf("Duplicate groups (%d)", len(out.Duplicates))))
		for _, g := range out.Duplicates {
			r.Println("  " + styles.Bold.Render(shortHash(g.Hash)))
			for _, p := range g.Paths {
				r.Println(styles.Muted.Render("      " + p))
			}
		}
		r.Println("")
	}

	r.Println(out.Summary.String())
	if out.Summary.Incomplete {
		r.Warning("scan interrupted, report contains partial results")
	}
	r.Println("")
	r.Printf("Report: %s\n", out.Artifacts.Report)
	if out.Artifacts.Duplicates != "" {
		r.Printf("Duplicates: %s\n", out.Artifacts.Duplicates)
	}

	return nil
}

func renderScanMarkdown(r *output.Renderer, out *ScanOutput) error {
	r.Println(output.FormatHeader(1, "Naming Audit"))
	r.Println("")
	r.Println(output.FormatKeyValue("Root", out.Summary.Root))
	r.Println(output.FormatKeyValue("Max Depth", fmt.Sprintf("%d", out.Summary.MaxDepth)))
	r.Println(output.FormatKeyValue("Visited", fmt.Sprintf("%d", out.Summary.Visited)))
	r.Println(output.FormatKeyValue("Conformant", fmt.Sprintf("%d", out.Summary.Conformant)))
	r.Println(output.FormatKeyValue("Non-conformant", fmt.Sprintf("%d", out.Summary.NonConformant)))
	r.Println(output.FormatKeyValue("Unreadable", fmt.Sprintf("%d", out.Summary.Unreadable)))
	r.Println(output.FormatKeyValue("Duplicate Groups", fmt.Sprintf("%d", out.Summary.DuplicateGroups)))
	if out.Summary.Incomplete {
		r.Println(output.FormatKeyValue("Incomplete", "true"))
	}
	r.Println("")

	if len(out.Violations) > 0 {
		r.Println(output.FormatHeader(2, "Violations"))
		r.Println("")
		r.Println("| Path | Depth | Kind | Reason |")
		r.Println("|------|-------|------|--------|")
		for _, v := range out.Violations {
			r.Printf("| %s | %d | %s | %s |\n", v.Path, v.Depth, v.Kind, v.Reason)
		}
		r.Println("")
	}

	if len(out.Duplicates) > 0 {
		r.Println(output.FormatHeader(2, "Duplicate Groups"))
		r.Println("")
		for _, g := range out.Duplicates {
			r.Printf("- **%s**\n", shortHash(g.Hash))
			for _, p := range g.Paths {
				r.Printf("  - %s\n", p)
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Artifacts"))
	r.Println("")
	r.Println(output.FormatKeyValue("Report", out.Artifacts.Report))
	if out.Artifacts.Duplicates != "" {
		r.Println(output.FormatKeyValue("Duplicates", out.Artifacts.Duplicates))
	}

	if out.Summary.Incomplete {
		r.Warning("scan interrupted, report contains partial results")
	}

	return nil
}

// shortHash abbreviates a content digest for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
