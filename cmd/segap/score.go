package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/segap/segap/internal/source"
	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/surface"
	"github.com/segap/segap/pkg/survey"
)

func newScoreCmd(opts *globalOpts) *cobra.Command {
	var (
		answersPath string
		scores      string
		outputFmt   string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a prepared set of answers without prompting",
		Long: `Reads one answer per question, in question order, from --answers (a YAML
or JSON list, or a document with an "answers" list) or from --scores, then
validates and scores them exactly as the interactive survey does.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), opts, scoreOpts{
				answersPath: answersPath,
				scores:      scores,
				outputFmt:   outputFmt,
				out:         cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "Answers file (YAML or JSON): local path, s3:// or gs:// URI")
	cmd.Flags().StringVar(&scores, "scores", "", "Comma-separated answers, e.g. 3,4,1,5")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.MarkFlagsOneRequired("answers", "scores")
	cmd.MarkFlagsMutuallyExclusive("answers", "scores")

	return cmd
}

type scoreOpts struct {
	answersPath string
	scores      string
	outputFmt   string
	out         io.Writer
}

func runScore(ctx context.Context, gopts *globalOpts, opts scoreOpts) error {
	s, err := openSession(ctx, gopts)
	if err != nil {
		return err
	}
	defer s.closeLog()

	renderer := surface.ForFormat(opts.outputFmt, surface.Meta{SessionID: s.id})
	if renderer == nil {
		return fmt.Errorf("unknown output format %q", opts.outputFmt)
	}

	var answers []string
	if opts.answersPath != "" {
		data, err := source.Read(ctx, opts.answersPath, source.Options{S3: s.cfg.Inputs.S3})
		if err != nil {
			return fmt.Errorf("loading answers: %w", err)
		}
		answers, err = parseAnswers(data)
		if err != nil {
			return fmt.Errorf("parsing answers %s: %w", opts.answersPath, err)
		}
	} else {
		answers = splitScores(opts.scores)
	}

	ctrl, err := s.newController()
	if err != nil {
		return err
	}
	report, err := scoreAnswers(ctrl, answers)
	if err != nil {
		return err
	}

	s.logCompletion(report)
	return renderer.Render(opts.out, report)
}

// parseAnswers accepts a bare list or a document with an "answers" key.
// Entries are kept as text so that invalid values reach page validation.
func parseAnswers(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Answers []string `yaml:"answers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Answers == nil {
		return nil, fmt.Errorf("no answers list found")
	}
	return doc.Answers, nil
}

func splitScores(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// scoreAnswers walks the controller page by page with the given answers.
// The first page that fails validation stops the run.
func scoreAnswers(ctrl *survey.Controller, answers []string) (*scoring.Report, error) {
	if len(answers) != ctrl.QuestionCount() {
		return nil, fmt.Errorf("expected %d answers, got %d", ctrl.QuestionCount(), len(answers))
	}

	for !ctrl.Completed() {
		for _, idx := range ctrl.PageQuestions() {
			if err := ctrl.Enter(idx, answers[idx]); err != nil {
				return nil, err
			}
		}
		if err := ctrl.Forward(); err != nil {
			return nil, err
		}
	}
	return ctrl.Report(), nil
}
