package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCell(t *testing.T) {
	tests := []struct {
		in   string
		want Cell
	}{
		{"", Cell{}},
		{"   ", TextCell("   ")},
		{"110", NumberCell(110)},
		{"45.5", NumberCell(45.5)},
		{" 230 ", NumberCell(230)},
		{"-12", NumberCell(-12)},
		{"0.75", NumberCell(0.75)},
		{"0", NumberCell(0)},
		{"052123456", TextCell("052123456")},
		{"52-123456", TextCell("52-123456")},
		{"1e5", TextCell("1e5")},
		{"NaN", TextCell("NaN")},
		{"Inf", TextCell("Inf")},
		{"100 kVA", TextCell("100 kVA")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCell(tt.in))
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", Cell{}.String())
	assert.Equal(t, "abc", TextCell("abc").String())
	assert.Equal(t, "52123456", NumberCell(52123456).String())
	assert.Equal(t, "45.5", NumberCell(45.5).String())
	assert.Equal(t, "-3", NumberCell(-3).String())
}

func TestRowAtAndBlank(t *testing.T) {
	row := Row{TextCell("a"), {}, TextCell("  ")}

	assert.Equal(t, TextCell("a"), row.At(0))
	assert.True(t, row.At(1).IsEmpty())
	assert.True(t, row.At(99).IsEmpty())
	assert.True(t, row.At(-1).IsEmpty())
	assert.False(t, row.Blank())
	assert.True(t, Row{{}, TextCell(" ")}.Blank())
}

func TestWorkbookFirstSheet(t *testing.T) {
	_, ok := Workbook{}.FirstSheet()
	assert.False(t, ok)

	wb := Workbook{Sheets: []Sheet{{Name: "one"}, {Name: "two"}}}
	sheet, ok := wb.FirstSheet()
	assert.True(t, ok)
	assert.Equal(t, "one", sheet.Name)
}
