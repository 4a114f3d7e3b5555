// Package weights loads the question-by-scenario weight matrix from a
// spreadsheet or CSV export. The first row is a header and the first
// column a row key; both are ignored.
package weights

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/segap/segap/pkg/scoring"
)

// DefaultSheet is the workbook sheet holding the normalized weights.
const DefaultSheet = "norm_weight_matrix"

var (
	ErrUnsupportedFormat = goerr.New("unsupported weight matrix format")
	ErrMalformedTable    = goerr.New("malformed weight table")
)

// Context keys for error values
const (
	SourceKey = "source"
	SheetKey  = "sheet"
	RowKey    = "row"
	ColKey    = "col"
	CellKey   = "cell"
)

// Parse decodes data according to the extension of name: .xlsx/.xlsm are
// read as workbooks (sheet selects the sheet), .csv as comma separated text.
func Parse(name string, data []byte, sheet string) (*scoring.WeightMatrix, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(bytes.NewReader(data), sheet)
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "cannot load weight matrix", goerr.V(SourceKey, name))
	}
}

// fromTable converts header + data rows of cell text into a matrix. Row and
// column numbers in errors are 1-based, as a spreadsheet shows them.
func fromTable(table [][]string) (*scoring.WeightMatrix, error) {
	if len(table) == 0 {
		return nil, goerr.Wrap(ErrMalformedTable, "table has no header row")
	}
	cols := len(trimTrailingEmpty(table[0])) - 1
	if cols < 1 {
		return nil, goerr.Wrap(ErrMalformedTable, "header has no weight columns")
	}

	var rows [][]float64
	for r, record := range table[1:] {
		record = trimTrailingEmpty(record)
		if len(record) == 0 {
			continue
		}
		if len(record)-1 > cols {
			return nil, goerr.Wrap(ErrMalformedTable, "row has more values than the header",
				goerr.V(RowKey, r+2), goerr.V("values", len(record)-1), goerr.V("header_cols", cols))
		}

		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			cell := ""
			if c+1 < len(record) {
				cell = strings.TrimSpace(record[c+1])
			}
			if cell == "" {
				return nil, goerr.Wrap(ErrMalformedTable, "missing weight",
					goerr.V(RowKey, r+2), goerr.V(ColKey, c+2))
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, goerr.Wrap(ErrMalformedTable, "weight is not a number",
					goerr.V(RowKey, r+2), goerr.V(ColKey, c+2), goerr.V(CellKey, cell))
			}
			row[c] = v
		}
		rows = append(rows, row)
	}

	return scoring.NewWeightMatrix(rows)
}

func trimTrailingEmpty(record []string) []string {
	n := len(record)
	for n > 0 && strings.TrimSpace(record[n-1]) == "" {
		n--
	}
	return record[:n]
}
