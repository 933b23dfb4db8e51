package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parbench",
		Short: "parbench - benchmark a solver sequentially and in parallel",
		Long: `parbench runs an external solver over a set of .jss/.fss input files,
once in sequential mode and once per requested thread count in parallel mode,
and reports total time, average time and speedup for every configuration.

The solver is invoked as:
  <bin> -s -f <input> -o <output>/<stem>_s.output
  <bin> -p -f <input> -o <output>/<stem>_p<N>.output -t <N>`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newThreadsCommand())
	cmd.AddCommand(newFilesCommand())
	cmd.AddCommand(newReportCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
