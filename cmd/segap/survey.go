package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/surface"
	"github.com/segap/segap/pkg/tui"
)

func newSurveyCmd(opts *globalOpts) *cobra.Command {
	var (
		outputFmt string
		plain     bool
	)

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Run the interactive self-assessment survey",
		Long: `Shows the questions page by page, validates every page before moving on
and prints the risk report once the last page is accepted.

On a terminal a full-screen interface is used; otherwise, or with --plain,
questions are asked one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurvey(cmd.Context(), opts, surveyOpts{
				outputFmt: outputFmt,
				plain:     plain,
				in:        cmd.InOrStdin(),
				out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Report format: text, json or markdown")
	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented prompt even on a terminal")

	return cmd
}

type surveyOpts struct {
	outputFmt string
	plain     bool
	in        io.Reader
	out       io.Writer
}

func runSurvey(ctx context.Context, gopts *globalOpts, opts surveyOpts) error {
	s, err := openSession(ctx, gopts)
	if err != nil {
		return err
	}
	defer s.closeLog()

	renderer := surface.ForFormat(opts.outputFmt, surface.Meta{SessionID: s.id})
	if renderer == nil {
		return fmt.Errorf("unknown output format %q", opts.outputFmt)
	}

	ctrl, err := s.newController()
	if err != nil {
		return err
	}

	var report *scoring.Report
	if !opts.plain && isTerminal(opts.in, opts.out) {
		s.logger.Debug("starting terminal interface")
		p := tea.NewProgram(tui.NewModel(ctrl, s.questions),
			tea.WithAltScreen(),
			tea.WithInput(opts.in),
			tea.WithOutput(opts.out),
			tea.WithContext(ctx),
		)
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("running survey: %w", err)
		}
		if m, ok := final.(tui.Model); ok && m.Err() != nil {
			return m.Err()
		}
		report = ctrl.Report()
		if report == nil {
			s.logger.Info("survey quit before completion", zap.Stringer("state", ctrl.State()))
			return nil
		}
	} else {
		report, err = tui.RunLines(ctrl, s.questions, opts.in, opts.out)
		if errors.Is(err, tui.ErrAborted) {
			s.logger.Info("survey quit before completion", zap.Stringer("state", ctrl.State()))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(opts.out)
	}

	s.logCompletion(report)
	if jr, ok := renderer.(*surface.JSONRenderer); ok {
		jr.Meta.GeneratedAt = time.Now().UTC()
	}
	return renderer.Render(opts.out, report)
}

// isTerminal reports whether both ends of the session are a terminal.
func isTerminal(in io.Reader, out io.Writer) bool {
	fin, ok := in.(*os.File)
	if !ok {
		return false
	}
	fout, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isTTY(fin.Fd()) && isTTY(fout.Fd())
}

func isTTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
