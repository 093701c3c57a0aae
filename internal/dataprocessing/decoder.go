package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Supported file extensions, lower case.
const (
	ExtXLSX = ".xlsx"
	ExtXLSM = ".xlsm"
	ExtXLS  = ".xls"
	ExtCSV  = ".csv"
)

// ParseFile decodes the workbook stored at filePath.
func ParseFile(filePath string) (Workbook, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Workbook{}, apperrors.NewUnreadableFileError(filepath.Base(filePath), err)
	}
	defer f.Close()

	return Decode(f, filePath)
}

// Decode picks a decoder from the file name extension. Legacy .xls files are
// accepted for upload but fail here, since only the zip based formats can be
// opened.
func Decode(r io.Reader, filename string) (Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := filepath.Base(filename)

	switch ext {
	case ExtXLSX, ExtXLSM, ExtXLS:
		wb, err := DecodeXLSX(r)
		if err != nil {
			return Workbook{}, apperrors.NewUnreadableFileError(name, err)
		}
		return wb, nil
	case ExtCSV:
		wb, err := DecodeCSV(r, strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			return Workbook{}, apperrors.NewUnreadableFileError(name, err)
		}
		return wb, nil
	default:
		return Workbook{}, apperrors.NewUnsupportedFileTypeError(ext)
	}
}

// DecodeXLSX reads every sheet of an Office Open XML workbook. Cell values are
// read raw so number formats never leak into the numbers.
func DecodeXLSX(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return Workbook{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var wb Workbook
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return Workbook{}, fmt.Errorf("read sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name, Rows: make([]Row, len(rows))}
		for i, values := range rows {
			row := make(Row, len(values))
			for j, v := range values {
				cell, err := xlsxCell(f, name, i, j, v)
				if err != nil {
					return Workbook{}, err
				}
				row[j] = cell
			}
			sheet.Rows[i] = row
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	if len(wb.Sheets) == 0 {
		return Workbook{}, errors.New("workbook has no sheets")
	}
	return wb, nil
}

func xlsxCell(f *excelize.File, sheet string, row, col int, value string) (Cell, error) {
	if value == "" {
		return Cell{}, nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, err
	}
	kind, err := f.GetCellType(sheet, ref)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %s!%s: %w", sheet, ref, err)
	}

	switch kind {
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula:
		// Cells without an explicit type are numeric in the file format.
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return NumberCell(n), nil
		}
	}
	return TextCell(value), nil
}

// DecodeCSV reads a comma separated export into a single sheet. A UTF-8 byte
// order mark is dropped and ragged rows are kept as they are.
func DecodeCSV(r io.Reader, name string) (Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Workbook{}, fmt.Errorf("parse csv: %w", err)
	}

	if name == "" {
		name = "Sheet1"
	}
	return Workbook{Sheets: []Sheet{SheetFromStrings(name, records)}}, nil
}
