// Package cli provides the command-line interface for Sentinelle.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sentinelle/internal/cli/commands"
	"github.com/leapstack-labs/sentinelle/internal/cli/config"
	"github.com/leapstack-labs/sentinelle/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sentinelle",
		Short: "Sentinelle - Directory Tree Naming Auditor",
		Long: `Sentinelle audits directory trees against a hierarchical naming
convention: every folder and file down to a configurable depth is judged
by depth-indexed naming rules, and the verdicts land in a CSV report.

Violations are findings, never failures. Scans record their outcome in a
local history database, and watch mode re-audits the tree as it changes.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration with CLI flag overrides
			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Store config in context
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)

			// Build the logger at the level the counted -v flag selects
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel(cfg.Verbose),
			}))
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)

			// Create and store renderer based on output mode
			mode := output.Mode(cfg.Format)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			// Print config file used (if verbose)
			if cfg.Verbose > 0 {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Directory tree naming auditor
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.sentinelle.yml)")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Root directory to audit")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Destination directory for report artifacts")
	rootCmd.PersistentFlags().IntP("depth", "p", config.DefaultDepth, "Maximum depth to audit")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase verbosity (-v: all verdicts, -vv: matched rules)")
	rootCmd.PersistentFlags().Int("workers", config.DefaultWorkers, "Concurrent subtree traversals")
	rootCmd.PersistentFlags().Bool("follow-symlinks", false, "Follow directory symlinks (cycle-guarded)")
	rootCmd.PersistentFlags().Bool("skip-root", false, "Leave the root directory's name unchecked")
	rootCmd.PersistentFlags().String("format", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("state", "", "Path to the run history database")
	rootCmd.PersistentFlags().String("rules", "", "Standalone rules file overriding the config table")

	// Register completion for format flag
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(commands.VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// logLevel maps the counted -v flag to a slog level.
func logLevel(verbose int) slog.Level {
	switch {
	case verbose <= 0:
		return slog.LevelWarn
	case verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Depth:     config.DefaultDepth,
		Workers:   config.DefaultWorkers,
		StatePath: config.DefaultStateFile,
		Format:    config.DefaultFormat,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "completion [bash|zsh|fish|powershell]",
		Short:  "Generate shell completion scripts",
		Hidden: true,
		Long: `Generate shell completion scripts for Sentinelle.

To load completions:

Bash:
  $ source <(sentinelle completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sentinelle completion bash > /etc/bash_completion.d/sentinelle
  # macOS:
  $ sentinelle completion bash > $(brew --prefix)/etc/bash_completion.d/sentinelle

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sentinelle completion zsh > "${fpath[1]}/_sentinelle"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sentinelle completion fish | source

  # To load completions for each session, execute once:
  $ sentinelle completion fish > ~/.config/fish/completions/sentinelle.fish

PowerShell:
  PS> sentinelle completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sentinelle completion powershell > sentinelle.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
