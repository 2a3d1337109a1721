package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/internal/project"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
)

// ConfigCmd groups configuration subcommands.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage heron.yaml",
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default heron.yaml",
		Long: `Writes heron.yaml with default settings into the given directory
(default: current directory). The language is filled in when it can be
detected from the project layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runConfigInit(dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing heron.yaml")

	return cmd
}

func runConfigInit(dir string, force bool) error {
	path := filepath.Join(dir, config.DefaultFile)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.DefaultConfig()
	cfg.Language = project.DetectLanguage(dir)

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	output.Success("Created " + path)
	if cfg.Language != "" {
		output.Step("Detected language: " + cfg.Language)
	}
	return nil
}
