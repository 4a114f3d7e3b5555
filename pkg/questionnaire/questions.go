// Package questionnaire holds the ordered, immutable list of survey prompts.
package questionnaire

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNoQuestions means the question source held no non-blank lines.
var ErrNoQuestions = goerr.New("question list is empty")

// QuestionSet is the ordered list of prompts. A question is identified by
// its 0-based position; the order defines the answer vector layout.
type QuestionSet struct {
	prompts []string
}

// New creates a QuestionSet from prompts. Blank prompts are rejected.
func New(prompts []string) (*QuestionSet, error) {
	if len(prompts) == 0 {
		return nil, ErrNoQuestions
	}
	qs := &QuestionSet{prompts: make([]string, len(prompts))}
	for i, p := range prompts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, goerr.New("question prompt is blank", goerr.V("question_index", i))
		}
		qs.prompts[i] = p
	}
	return qs, nil
}

// Parse reads one question per line. Lines are trimmed and blank lines skipped.
func Parse(data []byte) (*QuestionSet, error) {
	var prompts []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read question list")
	}
	return New(prompts)
}

// Len returns the number of questions.
func (q *QuestionSet) Len() int { return len(q.prompts) }

// Prompt returns the text of question i.
func (q *QuestionSet) Prompt(i int) string { return q.prompts[i] }

// Prompts returns a copy of every prompt in order.
func (q *QuestionSet) Prompts() []string {
	return append([]string(nil), q.prompts...)
}
