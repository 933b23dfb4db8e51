package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/parbench/internal/models"
	"github.com/spboyer/parbench/internal/threadspec"
)

func newThreadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "threads <spec>",
		Short: "Expand a thread specification without running anything",
		Example: `  parbench threads 1,2,4
  parbench threads 2:8
  parbench threads "1, 4:6, 16"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := threadspec.Parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Threads: %s\n", threadspec.Format(threads))
			fmt.Fprintln(out, "Configurations:")
			for _, c := range models.BuildConfigurations(threads) {
				fmt.Fprintf(out, "  %-5s %s\n", c.DisplayName(), c.Description())
			}
			return nil
		},
	}
}
