package weights

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"github.com/segap/segap/pkg/scoring"
)

// ParseXLSX reads the weight table from sheet of an Excel workbook. An empty
// sheet name selects DefaultSheet.
func ParseXLSX(r io.Reader, sheet string) (*scoring.WeightMatrix, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open weight workbook")
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, goerr.Wrap(ErrMalformedTable, "sheet not found in workbook",
			goerr.V(SheetKey, sheet), goerr.V("sheets", f.GetSheetList()))
	}

	table, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read weight sheet", goerr.V(SheetKey, sheet))
	}
	return fromTable(table)
}
