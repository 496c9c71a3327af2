package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // read .env before config.Load
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gameslots",
		Short:         "Game-time slot booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSweepCommand())
	cmd.AddCommand(newConsumeCommand())
	cmd.AddCommand(newHashPasswordCommand())
	return cmd
}
