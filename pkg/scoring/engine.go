package scoring

import (
	"github.com/m-mizutani/goerr/v2"
)

// Answer scale bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// Engine turns a complete answer vector into a Report.
// It holds no mutable state; Score is deterministic.
type Engine struct {
	matrix    *WeightMatrix
	scenarios []Scenario
}

// NewEngine creates a scoring engine for a questionnaire of questionCount
// questions. It fails with ErrDimensionMismatch unless the matrix has one row
// per question and one column per scenario.
func NewEngine(questionCount int, matrix *WeightMatrix, scenarios []Scenario) (*Engine, error) {
	if matrix == nil {
		return nil, goerr.New("weight matrix is nil")
	}
	if err := matrix.CheckDimensions(questionCount, len(scenarios)); err != nil {
		return nil, err
	}
	return &Engine{
		matrix:    matrix,
		scenarios: append([]Scenario(nil), scenarios...),
	}, nil
}

// Scenarios returns the scenario list the engine scores, in report order.
func (e *Engine) Scenarios() []Scenario {
	return append([]Scenario(nil), e.scenarios...)
}

// Score normalizes scores onto [0.2, 1.0], projects them through the weight
// matrix, clips each detection probability to [0, 1] and classifies the
// non-detection probability of every scenario.
func (e *Engine) Score(scores []int) (*Report, error) {
	if len(scores) != e.matrix.Rows() {
		return nil, goerr.Wrap(ErrDimensionMismatch, "answer vector does not match weight matrix",
			goerr.V(QuestionsKey, len(scores)), goerr.V(RowsKey, e.matrix.Rows()))
	}

	norm := make([]float64, len(scores))
	for i, s := range scores {
		if s < MinScore || s > MaxScore {
			return nil, goerr.Wrap(ErrOutOfRangeScore, "cannot score answer",
				goerr.V(IndexKey, i), goerr.V(ValueKey, s))
		}
		norm[i] = float64(s) / MaxScore
	}

	report := &Report{Entries: make([]Entry, 0, len(e.scenarios))}
	for j, sc := range e.scenarios {
		var dp float64
		for i, n := range norm {
			dp += n * e.matrix.At(i, j)
		}
		dp = clamp(dp, 0, 1)
		pnd := 1 - dp

		report.Entries = append(report.Entries, Entry{
			Scenario:     sc,
			Detection:    dp,
			NonDetection: pnd,
			Tier:         Classify(pnd),
		})
	}

	return report, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
