package scoring

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// WeightMatrix maps each question (row) to a contribution toward each
// scenario's detection probability (column). Immutable after construction.
type WeightMatrix struct {
	rows [][]float64
	cols int
}

// NewWeightMatrix copies rows into a WeightMatrix. Every row must have the
// same length and every entry must be a finite, non-negative number.
func NewWeightMatrix(rows [][]float64) (*WeightMatrix, error) {
	m := &WeightMatrix{rows: make([][]float64, len(rows))}
	if len(rows) > 0 {
		m.cols = len(rows[0])
	}

	for i, row := range rows {
		if len(row) != m.cols {
			return nil, goerr.Wrap(ErrInvalidWeight, "ragged weight matrix row",
				goerr.V(RowKey, i), goerr.V(ColsKey, len(row)), goerr.V("want_cols", m.cols))
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return nil, goerr.Wrap(ErrInvalidWeight, "weight must be finite and non-negative",
					goerr.V(RowKey, i), goerr.V(ColKey, j), goerr.V(ValueKey, w))
			}
		}
		m.rows[i] = append([]float64(nil), row...)
	}

	return m, nil
}

// Rows returns the number of questions the matrix covers.
func (m *WeightMatrix) Rows() int { return len(m.rows) }

// Cols returns the number of scenarios the matrix covers.
func (m *WeightMatrix) Cols() int { return m.cols }

// At returns the weight of question i toward scenario j.
func (m *WeightMatrix) At(i, j int) float64 { return m.rows[i][j] }

// CheckDimensions verifies the matrix has one row per question and one
// column per scenario.
func (m *WeightMatrix) CheckDimensions(questions, scenarios int) error {
	if m.Rows() != questions || m.Cols() != scenarios {
		return goerr.Wrap(ErrDimensionMismatch, "weight matrix does not match questionnaire",
			goerr.V(RowsKey, m.Rows()), goerr.V(ColsKey, m.Cols()),
			goerr.V(QuestionsKey, questions), goerr.V(ScenariosKey, scenarios))
	}
	return nil
}
