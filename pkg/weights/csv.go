package weights

import (
	"encoding/csv"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"github.com/segap/segap/pkg/scoring"
)

// ParseCSV reads a weight table exported as CSV.
func ParseCSV(r io.Reader) (*scoring.WeightMatrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	table, err := cr.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read weight csv")
	}
	return fromTable(table)
}
