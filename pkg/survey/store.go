// Package survey implements the paginated questionnaire state machine:
// the response store, page validation and forward/back navigation.
//
// Nothing in this package locks. A Controller belongs to a single session
// and callers that share one across goroutines must serialize access.
package survey

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/segap/segap/pkg/scoring"
)

const (
	minScore = scoring.MinScore
	maxScore = scoring.MaxScore

	// DefaultScore is what an unanswered question reads as.
	DefaultScore = minScore
)

// ResponseStore holds one integer score per question.
type ResponseStore struct {
	scores []int
	set    []bool
}

// NewResponseStore creates a store for n questions, every score at DefaultScore.
func NewResponseStore(n int) *ResponseStore {
	s := &ResponseStore{
		scores: make([]int, n),
		set:    make([]bool, n),
	}
	for i := range s.scores {
		s.scores[i] = DefaultScore
	}
	return s
}

// Len returns the number of questions the store covers.
func (s *ResponseStore) Len() int { return len(s.scores) }

// SetScore stores value for question i. Both must be in range.
func (s *ResponseStore) SetScore(i, value int) error {
	if i < 0 || i >= len(s.scores) {
		return goerr.Wrap(ErrOutOfRangeScore, "question index out of range",
			goerr.V(QuestionIndexKey, i), goerr.V(ValueKey, value))
	}
	if value < minScore || value > maxScore {
		return goerr.Wrap(ErrOutOfRangeScore, "cannot store score",
			goerr.V(QuestionIndexKey, i), goerr.V(ValueKey, value))
	}
	s.scores[i] = value
	s.set[i] = true
	return nil
}

// Score returns the stored score for question i, or DefaultScore if it was
// never set or i is out of range.
func (s *ResponseStore) Score(i int) int {
	if i < 0 || i >= len(s.scores) {
		return DefaultScore
	}
	return s.scores[i]
}

// IsSet reports whether question i has been explicitly stored.
func (s *ResponseStore) IsSet(i int) bool {
	return i >= 0 && i < len(s.set) && s.set[i]
}

// Vector returns every score in question order. It fails with
// ErrMissingAnswer if any question was never stored; unset answers are
// never defaulted here.
func (s *ResponseStore) Vector() ([]int, error) {
	for i, ok := range s.set {
		if !ok {
			return nil, goerr.Wrap(ErrMissingAnswer, "cannot build answer vector",
				goerr.V(QuestionIndexKey, i))
		}
	}
	return append([]int(nil), s.scores...), nil
}
