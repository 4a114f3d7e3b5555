package weights_test

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/weights"
)

const sampleCSV = `question,phishing,spear_phishing,baiting,water_holing,pretexting
q1,0.10,0.05,0.20,0.00,0.15
q2, 0.30,0.25,0.10,0.40,0.05

q3,0.01,0.02,0.03,0.04,0.05
`

func checkCell(t *testing.T, m *scoring.WeightMatrix, i, j int, want float64) {
	t.Helper()
	if got := m.At(i, j); got != want {
		t.Errorf("At(%d, %d) = %v, want %v", i, j, got, want)
	}
}

func TestParseCSV(t *testing.T) {
	m, err := weights.Parse("weights.csv", []byte(sampleCSV), "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if m.Rows() != 3 || m.Cols() != 5 {
		t.Fatalf("dimensions = %dx%d, want 3x5", m.Rows(), m.Cols())
	}
	checkCell(t, m, 0, 2, 0.20)
	checkCell(t, m, 1, 0, 0.30)
	checkCell(t, m, 2, 4, 0.05)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty", data: "", wantErr: weights.ErrMalformedTable},
		{name: "header only key", data: "question\nq1\n", wantErr: weights.ErrMalformedTable},
		{name: "missing value", data: "k,a,b\nq1,0.1\n", wantErr: weights.ErrMalformedTable},
		{name: "extra value", data: "k,a,b\nq1,0.1,0.2,0.3\n", wantErr: weights.ErrMalformedTable},
		{name: "not a number", data: "k,a,b\nq1,0.1,high\n", wantErr: weights.ErrMalformedTable},
		{name: "negative", data: "k,a,b\nq1,0.1,-0.2\n", wantErr: scoring.ErrInvalidWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := weights.Parse("w.csv", []byte(tt.data), "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := weights.Parse("weights.ods", []byte("x"), "")
	if !errors.Is(err, weights.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName() error: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName() error: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error: %v", err)
	}
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	data := buildWorkbook(t, weights.DefaultSheet, [][]any{
		{"question", "phishing", "spear_phishing", "baiting", "water_holing", "pretexting"},
		{"q1", 0.1, 0.2, 0.3, 0.4, 0.5},
		{"q2", 0.05, 0, 0.125, 1, 0.333},
	})

	m, err := weights.Parse("weight_matrix.xlsx", data, "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.Rows() != 2 || m.Cols() != 5 {
		t.Fatalf("dimensions = %dx%d, want 2x5", m.Rows(), m.Cols())
	}
	checkCell(t, m, 0, 2, 0.3)
	checkCell(t, m, 1, 2, 0.125)
	checkCell(t, m, 1, 4, 0.333)
}

func TestParseXLSXSheetSelection(t *testing.T) {
	data := buildWorkbook(t, "custom", [][]any{
		{"key", "a"},
		{"q1", 0.5},
	})

	if _, err := weights.Parse("w.xlsx", data, ""); !errors.Is(err, weights.ErrMalformedTable) {
		t.Errorf("default sheet is absent: expected ErrMalformedTable, got %v", err)
	}

	m, err := weights.Parse("w.xlsx", data, "custom")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	checkCell(t, m, 0, 0, 0.5)
}

func TestParseXLSXCorrupt(t *testing.T) {
	if _, err := weights.Parse("w.xlsx", []byte("not a zip"), ""); err == nil {
		t.Error("expected error for corrupt workbook")
	}
}
