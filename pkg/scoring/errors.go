package scoring

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrDimensionMismatch means the weight matrix does not fit the question
	// set or the scenario list. It is fatal at startup.
	ErrDimensionMismatch = goerr.New("dimension mismatch")

	// ErrInvalidWeight means a matrix entry is negative, NaN or infinite,
	// or the rows are ragged.
	ErrInvalidWeight = goerr.New("invalid weight matrix")

	// ErrOutOfRangeScore means a score outside [MinScore, MaxScore] reached the engine.
	ErrOutOfRangeScore = goerr.New("score out of range")
)

// Context keys for error values
const (
	RowsKey      = "rows"
	ColsKey      = "cols"
	QuestionsKey = "questions"
	ScenariosKey = "scenarios"
	RowKey       = "row"
	ColKey       = "col"
	IndexKey     = "question_index"
	ValueKey     = "value"
)
