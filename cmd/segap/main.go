// Package main provides the segap CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:   "segap",
		Short: "Social engineering incident detection gap analyzer",
		Long: `segap runs a paginated self-assessment survey about an organization's
ability to detect social engineering incidents, projects the answers through
a weight matrix and reports the non-detection risk of each attack scenario.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to config file (default: .segap/config.yaml in this or a parent directory)")
	f.StringVar(&opts.questions, "questions", "", "Question list: local path, s3://bucket/key or gs://bucket/key")
	f.StringVar(&opts.weights, "weights", "", "Weight matrix (.xlsx or .csv): local path, s3:// or gs:// URI")
	f.StringVar(&opts.sheet, "sheet", "", "Worksheet holding the weight matrix")
	f.IntVar(&opts.pageSize, "page-size", 0, "Questions per page")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Also write logs to stderr")

	rootCmd.AddCommand(
		newSurveyCmd(opts),
		newScoreCmd(opts),
		newServeCmd(opts),
		newValidateCmd(opts),
	)

	return rootCmd
}
