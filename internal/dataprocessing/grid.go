package dataprocessing

import (
	"strconv"
	"strings"
)

// CellKind distinguishes the three shapes a decoded cell can take.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// String returns a short name for logs and diagnostics.
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a single untyped spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell wraps a string value. An empty string is kept as text, the same
// way spreadsheet decoders report a blank string cell.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell wraps a native numeric value.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// IsBlank reports whether the cell is empty or only whitespace.
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && strings.TrimSpace(c.Text) == "")
}

// String renders the cell the way a user would read it. Numbers use the
// shortest representation that round-trips.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Row is one worksheet row, possibly ragged.
type Row []Cell

// At returns the cell at a zero-based column, or an empty cell when the
// row is too short.
func (r Row) At(col int) Cell {
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Blank reports whether every cell in the row is blank.
func (r Row) Blank() bool {
	for _, c := range r {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// Sheet is a named grid of rows.
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []Sheet
}

// FirstSheet returns the sheet the extractor consults.
func (w Workbook) FirstSheet() (Sheet, bool) {
	if len(w.Sheets) == 0 {
		return Sheet{}, false
	}
	return w.Sheets[0], true
}

// SheetFromStrings builds a sheet from string rows, inferring numbers with
// InferCell. It is used by sources that only hand back text.
func SheetFromStrings(name string, rows [][]string) Sheet {
	sheet := Sheet{Name: name, Rows: make([]Row, len(rows))}
	for i, raw := range rows {
		row := make(Row, len(raw))
		for j, v := range raw {
			row[j] = InferCell(v)
		}
		sheet.Rows[i] = row
	}
	return sheet
}

// InferCell turns a textual value into a cell. Plain decimal numbers become
// number cells unless they carry a leading zero, which marks an identifier
// or code that must keep its digits.
func InferCell(v string) Cell {
	if v == "" {
		return Cell{}
	}
	trimmed := strings.TrimSpace(v)
	if trimmed == "" || hasLeadingZero(trimmed) {
		return TextCell(v)
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || strings.ContainsAny(trimmed, "eEnNiIxXpP_") {
		return TextCell(v)
	}
	return NumberCell(n)
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
