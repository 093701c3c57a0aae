// Package exporter writes transformer datasets out of the service.
//
// CSVWriter is the low-level writer: headers, append mode, streaming and a
// UTF-8 BOM so Excel shows Thai text correctly. TransformerExporter builds on
// it for per-file and combined dataset exports. WriteTransformersXLSX
// produces a styled workbook, and RenderReportMarkdown / RenderReportHTML
// turn a domain.Brief into the maintenance report.
//
// Example usage:
//
//	exp := exporter.NewTransformerExporter(paths, logger)
//	if err := exp.ExportFile(records, "survey_transformers.csv"); err != nil {
//		return err
//	}
//
//	md := exporter.RenderReportMarkdown(brief, summary)
//	page := exporter.RenderReportHTML(md)
package exporter
