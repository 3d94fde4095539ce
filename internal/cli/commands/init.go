package commands

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/sentinelle.yml
var configTemplate []byte

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter configuration file",
		Long: `Write a commented .sentinelle.yml into the given directory (default:
the current one).

The file documents every setting with its default value, including the
rule table syntax. Nothing is enabled that the built-in defaults would
not already do, so the scaffold is safe to commit as-is and edit later.`,
		Example: `  # Scaffold in the current directory
  sentinelle init

  # Scaffold into a project directory
  sentinelle init ./archive-project

  # Overwrite an existing configuration
  sentinelle init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx := NewCommandContextWithoutEngine(cmd)
			return runInit(cmdCtx, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	r := cmdCtx.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, ".sentinelle.yml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf(".sentinelle.yml already exists. Use --force to overwrite")
	}

	if err := os.WriteFile(configPath, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("Sentinelle configuration created!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Set input and output in " + configPath)
	r.Println("  2. Run 'sentinelle rules' to review the effective rule table")
	r.Println("  3. Run 'sentinelle scan' to audit the tree")

	return nil
}
