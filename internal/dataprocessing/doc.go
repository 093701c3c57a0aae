// Package dataprocessing turns transformer survey spreadsheets into
// normalized transformer records and aggregates them for reporting.
//
// # Pipeline
//
// A file is decoded into a Workbook (DecodeXLSX, DecodeCSV, or a remote
// source building sheets with SheetFromStrings). The Extractor then walks the
// first sheet row by row:
//
//  1. empty rows are skipped
//  2. the first cell must pass RowFilter, which rejects short text and
//     header words such as "ลำดับ" or "PEA"
//  3. the identifier is canonicalized to NN-NNNNNN where possible and must
//     still be at least eight characters long
//  4. the remaining fields are read through a ColumnLayout and coerced with
//     CoerceNumber, falling back to per-field defaults
//
// Nothing in a malformed row is an error. The only failure surfaced by this
// package is an unreadable file, reported as errors.ErrUnreadableFile.
//
// Basic usage:
//
//	wb, err := dataprocessing.ParseFile("survey.xlsx")
//	if err != nil {
//	    return err
//	}
//	records := dataprocessing.NewExtractor().ExtractWorkbook(wb)
//	summary := dataprocessing.Summarize(records)
//
// ExtractStrict produces the same records plus a RowDiagnostic for every
// dropped row and defaulted field.
//
// # Aggregation
//
// Summarize feeds the dashboard cards and charts, Filter backs the table
// view and BuildBrief condenses a dataset for the maintenance report.
package dataprocessing
