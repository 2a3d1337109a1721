package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/firebird-suite/heron/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.ScanCmd())
	rootCmd.AddCommand(commands.InspectCmd())
	rootCmd.AddCommand(commands.ConfigCmd())
	rootCmd.AddCommand(commands.VersionCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		commands.PrintError(err)
		stop()
		os.Exit(1)
	}
}
