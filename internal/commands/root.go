package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron"
	"github.com/simonhull/firebird-suite/heron/internal/output"
)

// RootCmd creates and returns the root command for the heron CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "heron",
		Short: "Heron - structural model extractor for Go and Kotlin",
		Long: `Heron reads the source of a Go or Kotlin project and writes its class
model as JSON: classes and interfaces, and the extends, implements,
aggregates and uses relationships between them.

Example:
  heron scan
  heron scan ../shop --lang kotlin --out shop.json
  heron inspect heron.json`,
		Version:       heron.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging and detailed output")

	return cmd
}

// VersionCmd prints the heron version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Heron v%s\n", heron.Version)
		},
	}
}

// PrintError reports a command failure on the terminal.
func PrintError(err error) {
	output.Error(err.Error())
}
