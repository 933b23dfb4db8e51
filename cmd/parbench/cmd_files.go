package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/parbench/internal/discovery"
	"github.com/spboyer/parbench/internal/models"
	"github.com/spboyer/parbench/internal/projectconfig"
)

func newFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files [patterns...]",
		Short: "List the input files a run would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			files, err := discovery.Resolve(args,
				discovery.WithDefaultPattern(pc.Paths.DataPattern),
				discovery.WithWarningHandler(func(w models.ResolutionWarning) {
					fmt.Fprintln(errOut, discovery.FormatWarning(w))
				}),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintln(out, f.Path)
			}
			printer.Fprintf(out, "%d file(s)\n", len(files))
			return nil
		},
	}
}
