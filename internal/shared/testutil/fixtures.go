package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SurveyWidth is the number of columns in a survey export row.
const SurveyWidth = 21

// SurveyRow is a single worksheet row. A nil entry leaves the cell empty.
type SurveyRow []interface{}

// NewSurveyRow places the fields the extractor reads at their default
// column offsets and leaves every other cell empty.
func NewSurveyRow(id, location, fallback, kva, load, unbalance, voltage, loss interface{}) SurveyRow {
	row := make(SurveyRow, SurveyWidth)
	row[0] = id
	row[1] = location
	row[2] = fallback
	row[3] = kva
	row[13] = load
	row[18] = unbalance
	row[19] = voltage
	row[20] = loss
	return row
}

// SurveyHeaderRow mirrors the title row of a field survey export.
func SurveyHeaderRow() SurveyRow {
	return NewSurveyRow("รหัสหม้อแปลง", "สถานที่", "ตำบล", "kVA", "%Load", "%Unbalance", "V ปลายสาย", "Loss")
}

// SampleAcceptedIDs are the canonical identifiers SampleSurveyRows yields,
// in worksheet order.
var SampleAcceptedIDs = []string{"52-123456", "53-123457", "52-123458"}

// SampleSurveyRows returns a small survey with a header, three valid
// transformers and a handful of rows the extractor must drop.
func SampleSurveyRows() []SurveyRow {
	return []SurveyRow{
		SurveyHeaderRow(),
		// overloaded with a large phase imbalance
		NewSurveyRow("52-123456", "ซอยเทศบาล 1", nil, 50, 110, 60, 210, 320),
		// eight digit id, blank location falls back to the next column, no voltage reading
		NewSurveyRow("53123457", nil, "ต.ในเมือง", 160, 85, 12, nil, 40),
		NewSurveyRow("PEA-TR-0001", "ห้ามใช้", nil, 50, 10, 1, 229, 1),
		NewSurveyRow("12345", "สั้นเกินไป", nil, 50, 10, 1, 229, 1),
		{},
		NewSurveyRow("52-123458", "ตลาดสด", nil, "100 kVA", "45.5%", 5, 225, "n/a"),
	}
}

// WriteSurveyWorkbook writes rows to the first sheet of a new xlsx file in
// dir and returns its path.
func WriteSurveyWorkbook(t *testing.T, dir string, rows []SurveyRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(dir, "survey.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// WriteSurveyCSV writes rows as comma separated text and returns the path.
func WriteSurveyCSV(t *testing.T, dir string, rows []SurveyRow) string {
	t.Helper()

	path := filepath.Join(dir, "survey.csv")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return path
}
