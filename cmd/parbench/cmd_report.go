package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/parbench/internal/export"
	"github.com/spboyer/parbench/internal/projectconfig"
	"github.com/spboyer/parbench/internal/reporting"
)

func newReportCommand() *cobra.Command {
	var (
		opts      reportOptions
		noDisplay bool
	)

	cmd := &cobra.Command{
		Use:   "report <results.json[.zst]>",
		Short: "Summarize and chart a previously exported run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := export.Load(args[0])
			if err != nil {
				return err
			}

			rs := doc.Results
			stats, err := reporting.Summarize(rs, len(rs.Files), rs.Repetitions)
			if err != nil {
				return fmt.Errorf("summarizing %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run from %s (%d files, %d executions each)\n",
				doc.CreatedAt.Local().Format("2006-01-02 15:04:05"), len(rs.Files), rs.Repetitions)

			opts.display = !noDisplay
			return printReport(cmd.Context(), out, cmd.ErrOrStderr(), rs, stats, opts)
		},
	}

	cmd.Flags().StringVar(&opts.chart, "chart", projectconfig.DefaultChart, "Chart PNG output path")
	cmd.Flags().BoolVar(&opts.noChart, "no-chart", false, "Skip chart rendering")
	cmd.Flags().BoolVar(&noDisplay, "no-display", false, "Do not open the chart after rendering")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation of the results")
	cmd.Flags().StringVar(&opts.junit, "junit", "", "Export results as JUnit XML")

	return cmd
}
