package commands

import (
	"fmt"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sentinelle/internal/cli/config"
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/spf13/cobra"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the environment is ready for scanning",
		Long: `Probe everything a scan needs before it starts: configuration discovery,
the rule table, the input and output directories, and the state database.

Each probe reports pass, warn or error. Doctor itself always exits 0;
it diagnoses, it does not fail.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the environment
  sentinelle doctor

  # Output as JSON
  sentinelle doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks  []EnvCheck `json:"checks"`
	Healthy bool       `json:"healthy"`
}

// EnvCheck is one environment probe result.
type EnvCheck struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	Status string `json:"status"` // "pass", "warn", "error"
	Detail string `json:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	// No engine here: a broken state store must show up as a finding,
	// not abort the diagnosis.
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	doctorOutput := buildDoctorOutput(cmdCtx)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput, cfg)
	}
}

func buildDoctorOutput(cmdCtx *CommandContext) *DoctorOutput {
	cfg := cmdCtx.Cfg
	checks := []EnvCheck{
		checkConfigFile(),
		checkRuleTable(cfg),
		checkInputDir(cfg),
		checkOutputDir(cfg),
		checkStateStore(cmdCtx),
	}

	healthy := true
	for _, c := range checks {
		if c.Status == "error" {
			healthy = false
		}
	}

	return &DoctorOutput{Checks: checks, Healthy: healthy}
}

func checkConfigFile() EnvCheck {
	check := EnvCheck{Name: "config file", Group: "configuration"}
	if used := config.GetConfigFileUsed(); used != "" {
		check.Status = "pass"
		check.Detail = used
	} else {
		check.Status = "warn"
		check.Detail = "no .sentinelle.yml found, using defaults"
	}
	return check
}

func checkRuleTable(cfg *config.Config) EnvCheck {
	check := EnvCheck{Name: "rule table", Group: "configuration"}
	ruleSet, err := cfg.RuleSet()
	if err != nil {
		check.Status = "error"
		check.Detail = err.Error()
		return check
	}
	check.Status = "pass"
	check.Detail = fmt.Sprintf("%d rules, fallback %s, case %s",
		len(ruleSet.Rules()), ruleSet.Fallback(), ruleSet.Case())
	return check
}

func checkInputDir(cfg *config.Config) EnvCheck {
	check := EnvCheck{Name: "input directory", Group: "filesystem"}
	if cfg.Input == "" {
		check.Status = "warn"
		check.Detail = "not configured (pass --input or set input)"
		return check
	}
	info, err := os.Stat(cfg.Input)
	switch {
	case err != nil:
		check.Status = "error"
		check.Detail = err.Error()
	case !info.IsDir():
		check.Status = "error"
		check.Detail = cfg.Input + " is not a directory"
	default:
		if _, err := os.ReadDir(cfg.Input); err != nil {
			check.Status = "error"
			check.Detail = err.Error()
		} else {
			check.Status = "pass"
			check.Detail = cfg.Input
		}
	}
	return check
}

func checkOutputDir(cfg *config.Config) EnvCheck {
	check := EnvCheck{Name: "output directory", Group: "filesystem"}
	if cfg.Output == "" {
		check.Status = "warn"
		check.Detail = "not configured (pass --output or set output)"
		return check
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		check.Status = "error"
		check.Detail = err.Error()
		return check
	}
	probe, err := os.CreateTemp(cfg.Output, ".sentinelle-probe-*")
	if err != nil {
		check.Status = "error"
		check.Detail = "not writable: " + err.Error()
		return check
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	check.Status = "pass"
	check.Detail = cfg.Output
	return check
}

func checkStateStore(cmdCtx *CommandContext) EnvCheck {
	check := EnvCheck{Name: "state store", Group: "state"}
	if cmdCtx.Cfg.StatePath == "" {
		check.Status = "warn"
		check.Detail = "history disabled (no state path)"
		return check
	}
	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		check.Status = "error"
		check.Detail = err.Error()
		return check
	}
	defer func() { _ = eng.Close() }()

	check.Status = "pass"
	check.Detail = "schema up to date at " + cmdCtx.Cfg.StatePath
	if store := eng.Store(); store != nil {
		if latest, err := store.GetLatestRun(); err == nil && latest != nil {
			check.Detail += fmt.Sprintf(", last run %s", latest.StartedAt.Local().Format("2006-01-02 15:04:05"))
		}
	}
	return check
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput, cfg *config.Config) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Environment Check"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render(titleCaser.String(currentGroup)))
		}
		r.StatusLine(check.Name, check.Status, check.Detail)
	}
	r.Println("")

	if out.Healthy {
		r.Success("Ready to scan")
	} else {
		r.Error("Problems found, fix the errors above before scanning")
	}
	if cfg.Input != "" && cfg.Output != "" {
		r.Muted(fmt.Sprintf("Try: sentinelle scan -i %s -o %s", cfg.Input, cfg.Output))
	}
	r.Println("")

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println(output.FormatHeader(1, "Environment Check"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(output.FormatHeader(2, titleCaser.String(currentGroup)))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}
		r.Printf("- **[%s]** %s", status, check.Name)
		if check.Detail != "" {
			r.Printf(": %s", check.Detail)
		}
		r.Println("")
	}
	r.Println("")

	if out.Healthy {
		r.Println("**Ready to scan**")
	} else {
		r.Println("**Problems found**")
	}
	r.Println("")

	return nil
}
