package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/leapstack-labs/sentinelle/internal/engine"
	"github.com/leapstack-labs/sentinelle/pkg/naming"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Depth  int    // Show only rules applying at this depth (-1: all)
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "Show the effective naming rules and auxiliary checks",
		Long: `Show the rule table a scan would apply with the current configuration,
along with the auxiliary checks and whether each is enabled.

The table reflects every configuration layer: built-in defaults, the
discovered config file, environment variables and flags. Pass a rule or
check ID to see its details.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Show the effective rule table
  sentinelle rules

  # Show details for one rule
  sentinelle rules AR01

  # Only rules applying at depth 2
  sentinelle rules --depth 2

  # Output as JSON
  sentinelle rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", -1, "Show only rules applying at this depth")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// RuleRow describes one naming rule in listings.
type RuleRow struct {
	ID          string `json:"id"`
	Depth       int    `json:"depth"`
	Applies     string `json:"applies"`
	Pattern     string `json:"pattern"`
	Description string `json:"description,omitempty"`
}

// CheckRow describes one auxiliary check in listings.
type CheckRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// RulesOutput is the JSON output for the rules command.
type RulesOutput struct {
	Fallback string     `json:"fallback"`
	Case     string     `json:"case"`
	Rules    []RuleRow  `json:"rules"`
	Checks   []CheckRow `json:"checks"`
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	ruleSet, err := cmdCtx.Cfg.RuleSet()
	if err != nil {
		return err
	}

	rulesOutput := buildRulesOutput(cmdCtx, ruleSet, opts.Depth)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rulesOutput)
	case output.ModeMarkdown:
		return renderRulesMarkdown(r, rulesOutput)
	default:
		return renderRulesText(r, rulesOutput)
	}
}

func buildRulesOutput(cmdCtx *CommandContext, ruleSet *naming.RuleSet, depth int) *RulesOutput {
	out := &RulesOutput{
		Fallback: ruleSet.Fallback().String(),
		Case:     ruleSet.Case().String(),
	}

	for _, rule := range ruleSet.Rules() {
		if depth >= 0 && rule.Depth != depth {
			continue
		}
		out.Rules = append(out.Rules, RuleRow{
			ID:          rule.ID,
			Depth:       rule.Depth,
			Applies:     rule.Applies.String(),
			Pattern:     rule.Pattern.String(),
			Description: rule.Description,
		})
	}

	checkCfg := engineChecks(cmdCtx.Cfg)
	for _, def := range engine.AllChecks() {
		out.Checks = append(out.Checks, CheckRow{
			ID:          def.ID,
			Name:        def.Name,
			Enabled:     def.Enabled(checkCfg),
			Description: def.Description,
		})
	}

	return out
}

func showRule(cmd *cobra.Command, id string, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	ruleSet, err := cmdCtx.Cfg.RuleSet()
	if err != nil {
		return err
	}

	for _, rule := range ruleSet.Rules() {
		if rule.ID == id {
			row := RuleRow{
				ID:          rule.ID,
				Depth:       rule.Depth,
				Applies:     rule.Applies.String(),
				Pattern:     rule.Pattern.String(),
				Description: rule.Description,
			}
			return renderRuleDetail(r, row)
		}
	}

	if def, ok := engine.GetCheck(id); ok {
		row := CheckRow{
			ID:          def.ID,
			Name:        def.Name,
			Enabled:     def.Enabled(engineChecks(cmdCtx.Cfg)),
			Description: def.Description,
		}
		return renderCheckDetail(r, row)
	}

	return fmt.Errorf("rule %q not found", id)
}

func renderRulesText(r *output.Renderer, out *RulesOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Naming Rules (%d)", len(out.Rules))))
	r.Printf("Fallback: %s | Case: %s\n", out.Fallback, out.Case)
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Depth", "Applies", "Pattern", "Description"})
	for _, row := range out.Rules {
		t.AppendRow(table.Row{row.ID, row.Depth, row.Applies, row.Pattern, row.Description})
	}
	t.Render()

	r.Println("")
	r.Println(styles.Header2.Render("Auxiliary Checks"))
	r.Println("")

	t = table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Enabled", "Description"})
	for _, row := range out.Checks {
		t.AppendRow(table.Row{row.ID, row.Name, row.Enabled, row.Description})
	}
	t.Render()
	r.Println("")

	return nil
}

func renderRulesMarkdown(r *output.Renderer, out *RulesOutput) error {
	r.Println(output.FormatHeader(1, "Naming Rules"))
	r.Println("")
	r.Println(output.FormatKeyValue("Fallback", out.Fallback))
	r.Println(output.FormatKeyValue("Case", out.Case))
	r.Println("")
	r.Println("| ID | Depth | Applies | Pattern | Description |")
	r.Println("|----|-------|---------|---------|-------------|")
	for _, row := range out.Rules {
		r.Printf("| %s | %d | %s | `%s` | %s |\n",
			row.ID, row.Depth, row.Applies, row.Pattern, row.Description)
	}
	r.Println("")

	r.Println(output.FormatHeader(2, "Auxiliary Checks"))
	r.Println("")
	r.Println("| ID | Name | Enabled | Description |")
	r.Println("|----|------|---------|-------------|")
	for _, row := range out.Checks {
		r.Printf("| %s | %s | %s | %s |\n",
			row.ID, row.Name, strconv.FormatBool(row.Enabled), row.Description)
	}
	r.Println("")

	return nil
}

func renderRuleDetail(r *output.Renderer, row RuleRow) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(row)
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render(row.ID))
	r.Println("")
	r.Printf("  %s: %d\n", styles.Bold.Render("Depth"), row.Depth)
	r.Printf("  %s: %s\n", styles.Bold.Render("Applies"), row.Applies)
	r.Printf("  %s: %s\n", styles.Bold.Render("Pattern"), row.Pattern)
	if row.Description != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Description"), row.Description)
	}
	r.Println("")

	return nil
}

func renderCheckDetail(r *output.Renderer, row CheckRow) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(row)
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", row.ID, row.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Enabled"), strconv.FormatBool(row.Enabled))
	r.Printf("  %s: %s\n", styles.Bold.Render("Description"), row.Description)
	r.Println("")

	return nil
}
