package survey

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/segap/segap/pkg/scoring"
)

// ErrOutOfRangeScore is the engine's sentinel. Rejected pages and rejected
// score vectors report the same kind.
var ErrOutOfRangeScore = scoring.ErrOutOfRangeScore

// Sentinel errors for the survey state machine
var (
	ErrMissingAnswer     = goerr.New("question has no committed answer")
	ErrQuestionNotOnPage = goerr.New("question is not on the current page")
	ErrSurveyCompleted   = goerr.New("survey is already completed")
	ErrInvalidPageSize   = goerr.New("page size must be at least 1")
)

// Context keys for error values
const (
	QuestionIndexKey = "question_index"
	ValueKey         = "value"
	PageKey          = "page"
	PageSizeKey      = "page_size"
)

// Violation is one rejected answer found during page validation.
type Violation struct {
	Index int    `json:"index"` // 0-based question index
	Value string `json:"value"` // the rejected input, as entered
}

// ValidationError reports every rejected answer on a page.
// It unwraps to ErrOutOfRangeScore.
type ValidationError struct {
	Page       int         `json:"page"`
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("question %d: %q", v.Index+1, v.Value)
	}
	return fmt.Sprintf("page %d has %d invalid answer(s), allowed range is %d-%d: %s",
		e.Page+1, len(e.Violations), minScore, maxScore, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrOutOfRangeScore
}

// Indices returns the question indices of every violation.
func (e *ValidationError) Indices() []int {
	out := make([]int, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Index
	}
	return out
}
