package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and that questions and weights agree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			questions, engine, err := loadInputs(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Questions:  %d (%s)\n", questions.Len(), cfg.Inputs.Questions)
			fmt.Fprintf(out, "Weights:    %d x %d (%s)\n", questions.Len(), len(engine.Scenarios()), cfg.Inputs.Weights)
			fmt.Fprintf(out, "Page size:  %d\n", cfg.Survey.PageSize)
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}
