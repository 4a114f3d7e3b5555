package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/segap/segap/pkg/questionnaire"
	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/survey"
)

var (
	// ErrAborted is returned by RunLines when the user quits with "q".
	ErrAborted = goerr.New("survey aborted")

	// ErrInputEnded is returned by RunLines when input runs out before the
	// survey is completed.
	ErrInputEnded = goerr.New("input ended before the survey was completed")
)

// RunLines runs the survey as a plain prompt: one question per line, read
// from in. An empty line keeps the shown value, "b" goes back one page and
// "q" quits. Rejected pages are reported and asked again.
func RunLines(ctrl *survey.Controller, questions *questionnaire.QuestionSet, in io.Reader, out io.Writer) (*scoring.Report, error) {
	sc := bufio.NewScanner(in)

	for !ctrl.Completed() {
		cur, total := ctrl.Progress()
		fmt.Fprintf(out, "\n%s\nPage %d of %d\n%s\n", Heading, cur, total, Instructions)

		back := false
		for _, idx := range ctrl.PageQuestions() {
			fmt.Fprintf(out, "%d. %s [%s]: ", idx+1, questions.Prompt(idx), ctrl.Value(idx))
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, goerr.Wrap(err, "failed to read answer")
				}
				return nil, goerr.Wrap(ErrInputEnded, "no answer read", goerr.V(survey.QuestionIndexKey, idx))
			}

			line := strings.TrimSpace(sc.Text())
			switch strings.ToLower(line) {
			case "":
				continue
			case "q":
				return nil, ErrAborted
			case "b":
				back = true
			default:
				if err := ctrl.Enter(idx, line); err != nil {
					return nil, err
				}
				continue
			}
			break
		}

		if back {
			if ctrl.Page() == 0 {
				fmt.Fprintln(out, "Already on the first page.")
			}
			ctrl.Back()
			continue
		}

		err := ctrl.Forward()
		var verr *survey.ValidationError
		switch {
		case errors.As(err, &verr):
			for _, v := range verr.Violations {
				fmt.Fprintln(out, violationMessage(v))
			}
		case err != nil:
			return nil, err
		}
	}

	return ctrl.Report(), nil
}
