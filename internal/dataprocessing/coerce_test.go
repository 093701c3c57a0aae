package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		def  float64
		want float64
	}{
		{"native number", NumberCell(85), 0, 85},
		{"thousands separator and unit", TextCell("1,250 kVA"), 0, 1250},
		{"percent suffix", TextCell("45.5%"), 0, 45.5},
		{"not a number", TextCell("N/A"), 0, 0},
		{"not a number with default", TextCell("N/A"), 230, 230},
		{"empty cell", Cell{}, 230, 230},
		{"blank text", TextCell("   "), 7, 7},
		{"lone point", TextCell("."), 3, 3},
		{"leading point", TextCell(".5"), 0, 0.5},
		{"trailing point", TextCell("5."), 0, 5},
		{"second point ends the number", TextCell("1.2.3"), 0, 1.2},
		{"zero is kept", TextCell("0"), 230, 0},
		{"native zero is kept", NumberCell(0), 230, 0},
		{"sign is stripped", TextCell("-12"), 0, 12},
		{"negative native number loses sign", NumberCell(-12), 0, 12},
		{"thai unit text", TextCell("ประมาณ 210 โวลต์"), 230, 210},
		{"overflow falls back", TextCell(strings.Repeat("9", 400)), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceNumber(tt.cell, tt.def))
		})
	}
}

func TestDecimalPrefix(t *testing.T) {
	tests := map[string]string{
		"":      "",
		".":     "",
		"..5":   "",
		"12":    "12",
		"12.":   "12",
		"12.5.": "12.5",
		".25":   ".25",
	}
	for in, want := range tests {
		assert.Equal(t, want, decimalPrefix(in), "input %q", in)
	}
}
